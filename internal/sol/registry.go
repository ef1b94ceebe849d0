package sol

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/caraveo/aske/pkg/logging"
)

// Registry errors
var (
	ErrExists   = errors.New("registry entry already exists")
	ErrNotFound = errors.New("registry entry not found")
)

// Registry is the persisted set of container configurations keyed by name.
// An entry exists iff the container was created and not yet deleted.
type Registry interface {
	// Exists reports whether an entry for name is present
	Exists(name string) (bool, error)

	// Read returns the stored configuration, or ErrNotFound
	Read(name string) (string, error)

	// Write stores a new entry. It never overwrites: an existing entry
	// yields ErrExists.
	Write(name string, config string) error

	// Remove deletes an entry; removing an absent entry succeeds
	Remove(name string) error

	// List returns all entry names, sorted
	List() ([]string, error)

	// Location describes where the entry for name lives, for display
	Location(name string) string
}

const registryExt = ".yaml"

// FileRegistry stores one <name>.yaml file per container under a directory
type FileRegistry struct {
	dir string
}

// NewFileRegistry creates a registry rooted at dir. The directory is created
// on first write.
func NewFileRegistry(dir string) *FileRegistry {
	return &FileRegistry{dir: dir}
}

// Dir returns the registry directory
func (r *FileRegistry) Dir() string {
	return r.dir
}

// Location returns the file path of the entry for name
func (r *FileRegistry) Location(name string) string {
	return filepath.Join(r.dir, name+registryExt)
}

func (r *FileRegistry) Exists(name string) (bool, error) {
	if err := ValidateName(name); err != nil {
		return false, err
	}

	_, err := os.Stat(r.Location(name))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat %s: %w", r.Location(name), err)
}

func (r *FileRegistry) Read(name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}

	data, err := os.ReadFile(r.Location(name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		return "", fmt.Errorf("failed to read %s: %w", r.Location(name), err)
	}
	return string(data), nil
}

// Write creates the entry with O_EXCL so that concurrent creators of the same
// name cannot both succeed.
func (r *FileRegistry) Write(name string, config string) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return fmt.Errorf("failed to create registry directory %s: %w", r.dir, err)
	}

	path := r.Location(name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%s: %w", name, ErrExists)
		}
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	_, werr := f.WriteString(config)
	cerr := f.Close()
	if werr != nil || cerr != nil {
		_ = os.Remove(path)
		return fmt.Errorf("failed to write %s: %w", path, errors.Join(werr, cerr))
	}

	logging.Debug(subsystem, "Wrote registry entry %s", path)
	return nil
}

func (r *FileRegistry) Remove(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	path := r.Location(name)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}

	logging.Debug(subsystem, "Removed registry entry %s", path)
	return nil
}

func (r *FileRegistry) List() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(r.dir, "*"+registryExt))
	if err != nil {
		return nil, fmt.Errorf("failed to list registry: %w", err)
	}

	names := make([]string, 0, len(matches))
	for _, m := range matches {
		name := strings.TrimSuffix(filepath.Base(m), registryExt)
		if ValidateName(name) != nil {
			logging.Debug(subsystem, "Ignoring foreign registry file %s", m)
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// MemoryRegistry is an in-memory implementation of Registry
type MemoryRegistry struct {
	entries map[string]string
	mu      sync.RWMutex
}

// NewMemoryRegistry creates an empty in-memory registry
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{entries: make(map[string]string)}
}

func (r *MemoryRegistry) Location(name string) string {
	return "memory://" + name
}

func (r *MemoryRegistry) Exists(name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.entries[name]
	return ok, nil
}

func (r *MemoryRegistry) Read(name string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	config, ok := r.entries[name]
	if !ok {
		return "", fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return config, nil
}

func (r *MemoryRegistry) Write(name string, config string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[name]; ok {
		return fmt.Errorf("%s: %w", name, ErrExists)
	}
	r.entries[name] = config
	return nil
}

func (r *MemoryRegistry) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, name)
	return nil
}

func (r *MemoryRegistry) List() ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
