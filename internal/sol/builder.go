package sol

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"gopkg.in/yaml.v3"

	"github.com/caraveo/aske/pkg/types"
)

// portForwardMarker is the key whose presence means the template already
// declares port forwarding
const portForwardMarker = "portForwards:"

// headerPrefix starts the machine-readable header line of a rendered config
const headerPrefix = "# aske: "

// templateData is exposed to profile templates
type templateData struct {
	Name   string
	Engine types.Engine
	Port   int
	Script string
}

type portForward struct {
	GuestPort int `yaml:"guestPort"`
	HostPort  int `yaml:"hostPort"`
}

// BuildConfig renders the Lima configuration for a container. The output is
// a pure function of (profile, name). A port-forward block for the profile's
// default port is appended unless the template already declares one.
func BuildConfig(profile Profile, name string) string {
	data := templateData{
		Name:   name,
		Engine: profile.Engine,
		Port:   profile.DefaultPort,
		Script: profile.ProvisionScript,
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s container %q managed by aske\n", profile.Engine.DisplayName(), name)
	fmt.Fprintf(&sb, "%sengine=%s name=%s port=%d\n", headerPrefix, profile.Engine, name, profile.DefaultPort)

	body := render("config-"+string(profile.Engine), profile.BaseConfig, data)
	sb.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		sb.WriteString("\n")
	}

	if !strings.Contains(body, portForwardMarker) {
		sb.WriteString(portForwardBlock(profile.DefaultPort))
	}

	return sb.String()
}

// RenderInstructions renders the post-create instructions for a container
func RenderInstructions(profile Profile, name string) string {
	return render("instructions-"+string(profile.Engine), profile.Instructions, templateData{
		Name:   name,
		Engine: profile.Engine,
		Port:   profile.DefaultPort,
	})
}

// render executes a built-in template. Profiles are compiled into the binary,
// so a failure here is a programming error.
func render(name, text string, data templateData) string {
	tmpl := template.Must(template.New(name).Funcs(sprig.TxtFuncMap()).Option("missingkey=error").Parse(text))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		panic(fmt.Sprintf("render %s: %v", name, err))
	}
	return buf.String()
}

func portForwardBlock(port int) string {
	doc := struct {
		PortForwards []portForward `yaml:"portForwards"`
	}{
		PortForwards: []portForward{{GuestPort: port, HostPort: port}},
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		panic(fmt.Sprintf("encode port forward: %v", err))
	}
	_ = enc.Close()
	return buf.String()
}

// Header is the metadata recorded at the top of a rendered config
type Header struct {
	Engine types.Engine
	Name   string
	Port   int
}

// ParseHeader reads the metadata line written by BuildConfig. ok is false
// when the document has no recognizable header.
func ParseHeader(config string) (Header, bool) {
	scanner := bufio.NewScanner(strings.NewReader(config))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "#") {
			break
		}
		if !strings.HasPrefix(line, headerPrefix) {
			continue
		}

		var h Header
		for _, field := range strings.Fields(strings.TrimPrefix(line, headerPrefix)) {
			key, value, found := strings.Cut(field, "=")
			if !found {
				continue
			}
			switch key {
			case "engine":
				h.Engine = types.Engine(value)
			case "name":
				h.Name = value
			case "port":
				h.Port, _ = strconv.Atoi(value)
			}
		}
		if _, err := ProfileFor(h.Engine); err != nil {
			return Header{}, false
		}
		return h, true
	}
	return Header{}, false
}
