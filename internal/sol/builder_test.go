package sol

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/caraveo/aske/pkg/types"
)

func TestBuildConfig_Deterministic(t *testing.T) {
	for _, p := range Profiles() {
		t.Run(string(p.Engine), func(t *testing.T) {
			assert.Equal(t, BuildConfig(p, "db1"), BuildConfig(p, "db1"))
		})
	}
}

func TestBuildConfig_SinglePortForward(t *testing.T) {
	for _, p := range Profiles() {
		t.Run(string(p.Engine), func(t *testing.T) {
			out := BuildConfig(p, "db1")
			assert.Equal(t, 1, strings.Count(out, portForwardMarker))

			var doc struct {
				PortForwards []portForward `yaml:"portForwards"`
				Provision    []struct {
					Mode   string `yaml:"mode"`
					Script string `yaml:"script"`
				} `yaml:"provision"`
			}
			require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
			require.Len(t, doc.PortForwards, 1)
			assert.Equal(t, p.DefaultPort, doc.PortForwards[0].GuestPort)
			assert.Equal(t, p.DefaultPort, doc.PortForwards[0].HostPort)

			require.Len(t, doc.Provision, 1)
			assert.Equal(t, "system", doc.Provision[0].Mode)
			assert.Equal(t, p.ProvisionScript+"\n", doc.Provision[0].Script)
		})
	}
}

func TestBuildConfig_MarkerAlreadyPresent(t *testing.T) {
	p := Profile{
		Engine:      types.EngineMySQL,
		DefaultPort: 3306,
		BaseConfig:  "arch: default\nportForwards:\n- guestPort: 13306\n  hostPort: 13306\n",
	}

	out := BuildConfig(p, "mydb")
	assert.Equal(t, 1, strings.Count(out, portForwardMarker))
	assert.Contains(t, out, "guestPort: 13306")
	assert.NotContains(t, out, "guestPort: 3306")
}

func TestBuildConfig_AppendsWhenMarkerMissing(t *testing.T) {
	p := Profile{
		Engine:      types.EnginePostgreSQL,
		DefaultPort: 5432,
		BaseConfig:  "arch: default",
	}

	out := BuildConfig(p, "pgdb")
	assert.Contains(t, out, "arch: default\nportForwards:\n")
	assert.Contains(t, out, "guestPort: 5432")
	assert.Contains(t, out, "hostPort: 5432")
}

func TestBuildConfig_NameDistinguishesContainers(t *testing.T) {
	p, err := ProfileFor(types.EngineMongoDB)
	require.NoError(t, err)

	assert.NotEqual(t, BuildConfig(p, "a"), BuildConfig(p, "b"))
}

func TestParseHeader(t *testing.T) {
	p, err := ProfileFor(types.EnginePostgreSQL)
	require.NoError(t, err)

	h, ok := ParseHeader(BuildConfig(p, "pgdb"))
	require.True(t, ok)
	assert.Equal(t, types.EnginePostgreSQL, h.Engine)
	assert.Equal(t, "pgdb", h.Name)
	assert.Equal(t, 5432, h.Port)
}

func TestParseHeader_Missing(t *testing.T) {
	_, ok := ParseHeader("arch: default\n# aske: engine=mysql name=x port=3306\n")
	assert.False(t, ok)

	_, ok = ParseHeader("# aske: engine=redis name=x port=6379\n")
	assert.False(t, ok)
}

func TestRenderInstructions(t *testing.T) {
	for _, p := range Profiles() {
		t.Run(string(p.Engine), func(t *testing.T) {
			out := RenderInstructions(p, "pgdb")
			assert.Contains(t, out, "limactl shell pgdb")
			assert.Contains(t, out, "limactl stop pgdb")
			assert.Contains(t, out, `"pgdb"`)
		})
	}
}

func TestProfiles(t *testing.T) {
	ports := map[types.Engine]int{
		types.EngineMySQL:      3306,
		types.EnginePostgreSQL: 5432,
		types.EngineMongoDB:    27017,
	}

	all := Profiles()
	require.Len(t, all, len(types.Engines()))
	for _, p := range all {
		assert.Equal(t, ports[p.Engine], p.DefaultPort)
		assert.NotEmpty(t, p.ServiceName)
		assert.NotEmpty(t, p.ProvisionScript)
	}

	_, err := ProfileFor(types.Engine("redis"))
	assert.Error(t, err)
}
