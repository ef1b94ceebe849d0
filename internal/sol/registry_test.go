package sol

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caraveo/aske/pkg/types"
)

func registries(t *testing.T) map[string]Registry {
	return map[string]Registry{
		"file":   NewFileRegistry(filepath.Join(t.TempDir(), "sol")),
		"memory": NewMemoryRegistry(),
	}
}

func TestRegistry_Lifecycle(t *testing.T) {
	for kind, r := range registries(t) {
		t.Run(kind, func(t *testing.T) {
			exists, err := r.Exists("pgdb")
			require.NoError(t, err)
			assert.False(t, exists)

			_, err = r.Read("pgdb")
			assert.True(t, errors.Is(err, ErrNotFound))

			require.NoError(t, r.Write("pgdb", "arch: default\n"))

			exists, err = r.Exists("pgdb")
			require.NoError(t, err)
			assert.True(t, exists)

			config, err := r.Read("pgdb")
			require.NoError(t, err)
			assert.Equal(t, "arch: default\n", config)

			require.NoError(t, r.Remove("pgdb"))
			exists, err = r.Exists("pgdb")
			require.NoError(t, err)
			assert.False(t, exists)
		})
	}
}

func TestRegistry_WriteNeverOverwrites(t *testing.T) {
	for kind, r := range registries(t) {
		t.Run(kind, func(t *testing.T) {
			require.NoError(t, r.Write("mydb", "first"))

			err := r.Write("mydb", "second")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrExists))

			config, err := r.Read("mydb")
			require.NoError(t, err)
			assert.Equal(t, "first", config)
		})
	}
}

func TestRegistry_RemoveAbsentSucceeds(t *testing.T) {
	for kind, r := range registries(t) {
		t.Run(kind, func(t *testing.T) {
			assert.NoError(t, r.Remove("never-created"))
		})
	}
}

func TestRegistry_List(t *testing.T) {
	for kind, r := range registries(t) {
		t.Run(kind, func(t *testing.T) {
			names, err := r.List()
			require.NoError(t, err)
			assert.Empty(t, names)

			require.NoError(t, r.Write("zeta", "z"))
			require.NoError(t, r.Write("alpha", "a"))

			names, err = r.List()
			require.NoError(t, err)
			assert.Equal(t, []string{"alpha", "zeta"}, names)
		})
	}
}

func TestFileRegistry_Layout(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "sol")
	r := NewFileRegistry(dir)

	require.NoError(t, r.Write("pgdb", "content"))

	path := filepath.Join(dir, "pgdb.yaml")
	assert.Equal(t, path, r.Location("pgdb"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))

	// Files with another extension are not entries
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	names, err := r.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"pgdb"}, names)
}

func TestFileRegistry_ConcurrentWrite(t *testing.T) {
	r := NewFileRegistry(t.TempDir())

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- r.Write("race", "config")
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.True(t, errors.Is(err, ErrExists))
		}
	}
	assert.Equal(t, 1, succeeded)
}

func TestFileRegistry_RejectsInvalidNames(t *testing.T) {
	r := NewFileRegistry(t.TempDir())

	for _, name := range []string{"", "../escape", "a/b", "-lead", "has space"} {
		t.Run(name, func(t *testing.T) {
			err := r.Write(name, "x")
			assert.True(t, errors.Is(err, ErrInvalidName))
		})
	}
}

func TestValidateName(t *testing.T) {
	valid := []string{"pgdb", "my-db", "db_1", "db.local", "A1"}
	for _, name := range valid {
		assert.NoError(t, ValidateName(name), name)
	}

	long := make([]byte, 65)
	for i := range long {
		long[i] = 'a'
	}
	invalid := []string{"", "-x", "x-", "a..b", string(long), "héllo"}
	for _, name := range invalid {
		assert.Error(t, ValidateName(name), name)
	}
}

func TestFileRegistry_ListSkipsForeignFiles(t *testing.T) {
	dir := t.TempDir()
	r := NewFileRegistry(dir)
	require.NoError(t, r.Write("pgdb", "config"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad name.yaml"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	names, err := r.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"pgdb"}, names)
}

func TestValidateCreate_Engine(t *testing.T) {
	require.NoError(t, validateCreate(types.EngineMongoDB, "mdb"))

	err := validateCreate(types.Engine("redis"), "cache")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'engine' tag")

	// A new profile is all it takes to accept an engine
	saved := profiles
	t.Cleanup(func() { profiles = saved })
	profiles = append(append([]Profile(nil), saved...), Profile{
		Engine:      types.Engine("redis"),
		DisplayName: "Redis",
		DefaultPort: 6379,
		ServiceName: "redis-server",
	})
	assert.NoError(t, validateCreate(types.Engine("redis"), "cache"))
}

func TestEngines_FollowProfiles(t *testing.T) {
	var want []types.Engine
	for _, p := range Profiles() {
		want = append(want, p.Engine)
		got, err := types.ParseEngine(p.DisplayName)
		require.NoError(t, err)
		assert.Equal(t, p.Engine, got)
		for _, alias := range p.Aliases {
			got, err := types.ParseEngine(alias)
			require.NoError(t, err)
			assert.Equal(t, p.Engine, got)
		}
	}
	assert.Equal(t, want, types.Engines())
}
