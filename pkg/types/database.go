package types

import (
	"fmt"
	"strings"
	"sync"
)

// Engine identifies a database engine that can be run in a container
type Engine string

const (
	EngineMySQL      Engine = "mysql"
	EnginePostgreSQL Engine = "postgresql"
	EngineMongoDB    Engine = "mongodb"
)

type engineInfo struct {
	displayName string
}

// Known engines in registration order. Populated by the profiles that can
// build them.
var engines = struct {
	sync.RWMutex
	order   []Engine
	info    map[Engine]engineInfo
	aliases map[string]Engine
}{
	info:    make(map[Engine]engineInfo),
	aliases: make(map[string]Engine),
}

// RegisterEngine makes e known to Engines, ParseEngine and DisplayName. The
// engine's own name is always accepted as an alias.
func RegisterEngine(e Engine, displayName string, aliases ...string) {
	engines.Lock()
	defer engines.Unlock()

	if _, ok := engines.info[e]; !ok {
		engines.order = append(engines.order, e)
	}
	engines.info[e] = engineInfo{displayName: displayName}
	engines.aliases[strings.ToLower(string(e))] = e
	for _, a := range aliases {
		engines.aliases[strings.ToLower(a)] = e
	}
}

// Engines returns all registered engines in display order
func Engines() []Engine {
	engines.RLock()
	defer engines.RUnlock()
	return append([]Engine(nil), engines.order...)
}

// ParseEngine resolves an engine name or alias (case-insensitive)
func ParseEngine(s string) (Engine, error) {
	engines.RLock()
	e, ok := engines.aliases[strings.ToLower(strings.TrimSpace(s))]
	engines.RUnlock()
	if ok {
		return e, nil
	}

	all := Engines()
	names := make([]string, 0, len(all))
	for _, e := range all {
		names = append(names, string(e))
	}
	return "", fmt.Errorf("unsupported engine %q (supported: %s)", s, strings.Join(names, ", "))
}

// DisplayName returns the human-readable engine name
func (e Engine) DisplayName() string {
	engines.RLock()
	defer engines.RUnlock()
	if info, ok := engines.info[e]; ok && info.displayName != "" {
		return info.displayName
	}
	return string(e)
}

// Container is the persisted descriptor of a database container
type Container struct {
	Name     string `json:"name"`      // User-chosen name, also the lima instance name
	Engine   Engine `json:"engine"`    // mysql, postgresql, mongodb
	Config   string `json:"-"`         // Rendered lima configuration document
	HostPort int    `json:"host_port"` // Forwarded port on the host
}
