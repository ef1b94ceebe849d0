package sol

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/caraveo/aske/pkg/logging"
	"github.com/caraveo/aske/pkg/provider"
	"github.com/caraveo/aske/pkg/types"
)

const subsystem = "Sol"

const (
	defaultProbeConcurrency = 4
	rollbackTimeout         = 5 * time.Minute
)

// ConfirmFunc is asked before a destructive action on name. Returning false
// aborts the action without side effects.
type ConfirmFunc func(name string) bool

// AlwaysConfirm approves every action, for --yes and non-interactive callers
func AlwaysConfirm(string) bool { return true }

// CreateResult is returned by a successful Create
type CreateResult struct {
	Container    types.Container
	Instructions string
	Location     string // Where the registry entry was written
	Forwarded    bool   // Host port accepted a connection after start
}

// DeleteResult is returned by Delete
type DeleteResult struct {
	Name     string
	Declined bool // Confirmation was refused and nothing was touched
}

// ShowResult is the stored state of one registry entry
type ShowResult struct {
	Container    types.Container
	Instructions string
	Location     string
}

// PruneResult lists the registry entries removed by Prune
type PruneResult struct {
	Removed []string
	Skipped []string // Orphans whose removal was declined
}

// Manager orchestrates container lifecycle against the registry and the
// virtualization CLI.
type Manager struct {
	toolchain *Toolchain
	virt      provider.VirtualizationProvider
	registry  Registry

	forwardCheck     ForwardChecker
	probeConcurrency int
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithForwardCheck replaces the post-start port check. nil disables it.
func WithForwardCheck(check ForwardChecker) ManagerOption {
	return func(m *Manager) {
		m.forwardCheck = check
	}
}

// WithProbeConcurrency bounds the number of concurrent status probes in List
func WithProbeConcurrency(n int) ManagerOption {
	return func(m *Manager) {
		if n > 0 {
			m.probeConcurrency = n
		}
	}
}

// NewManager creates a container manager
func NewManager(toolchain *Toolchain, virt provider.VirtualizationProvider, registry Registry, opts ...ManagerOption) *Manager {
	m := &Manager{
		toolchain:        toolchain,
		virt:             virt,
		registry:         registry,
		forwardCheck:     DialForward,
		probeConcurrency: defaultProbeConcurrency,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create provisions a new database container named name. Either both the
// registry entry and the instance exist afterwards, or neither does.
func (m *Manager) Create(ctx context.Context, engine types.Engine, name string) (*CreateResult, error) {
	if err := validateCreate(engine, name); err != nil {
		return nil, err
	}

	if err := m.toolchain.Ensure(ctx); err != nil {
		return nil, err
	}

	exists, err := m.registry.Exists(name)
	if err != nil {
		return nil, newError(KindIO, "create", name, err)
	}
	if exists {
		return nil, &Error{
			Kind: KindDuplicateContainer,
			Op:   "create",
			Name: name,
			Hint: "Choose another name or remove it with: aske sol delete " + name,
		}
	}

	// The name must also be free in the virtualization CLI, since rollback
	// deletes whatever instance carries it.
	instances, err := m.virt.ListInstances(ctx)
	if err != nil {
		return nil, newError(KindIO, "create", name, err)
	}
	if _, ok := findInstance(instances, name); ok {
		return nil, &Error{
			Kind: KindDuplicateContainer,
			Op:   "create",
			Name: name,
			Hint: "A " + m.virt.Name() + " instance with this name already exists; choose another name",
		}
	}

	profile, err := ProfileFor(engine)
	if err != nil {
		return nil, err
	}
	config := BuildConfig(profile, name)

	if err := m.registry.Write(name, config); err != nil {
		return nil, newError(KindRegistryWriteFailed, "create", name, err)
	}

	logging.Info(subsystem, "Starting %s container %s", engine.DisplayName(), name)
	if err := m.virt.StartInstance(ctx, name, config); err != nil {
		startErr := newError(KindVirtualizationStartFailed, "create", name, err)
		m.rollback(ctx, name, startErr)
		return nil, startErr
	}

	result := &CreateResult{
		Container: types.Container{
			Name:     name,
			Engine:   engine,
			Config:   config,
			HostPort: profile.DefaultPort,
		},
		Instructions: RenderInstructions(profile, name),
		Location:     m.registry.Location(name),
	}

	if m.forwardCheck != nil {
		result.Forwarded = m.forwardCheck(ctx, profile.DefaultPort)
		if !result.Forwarded {
			logging.Warn(subsystem, "Port %d is not reachable yet for %s", profile.DefaultPort, name)
		}
	}

	logging.Info(subsystem, "Created container %s on port %d", name, profile.DefaultPort)
	return result, nil
}

// rollback undoes a failed start. Create has already verified that no
// instance named name existed before the start, so any instance found here
// was left behind by it. The registry entry is only removed once no instance
// is left behind, so a stuck instance can still be found by Delete.
func (m *Manager) rollback(ctx context.Context, name string, cause *Error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), rollbackTimeout)
	defer cancel()

	instances, err := m.virt.ListInstances(ctx)
	if err != nil {
		logging.Error(subsystem, err, "Rollback of %s could not list instances, keeping registry entry", name)
		cause.Hint = "Inspect with 'limactl list' and remove leftovers with: aske sol delete " + name
		return
	}

	if inst, ok := findInstance(instances, name); ok {
		if inst.Status != types.InstanceStopped {
			if err := m.virt.StopInstance(ctx, name); err != nil {
				logging.Debug(subsystem, "Rollback stop of %s failed: %v", name, err)
			}
		}
		if err := m.virt.DeleteInstance(ctx, name); err != nil {
			logging.Error(subsystem, err, "Rollback of %s could not delete the instance, keeping registry entry", name)
			cause.Hint = "Remove the leftover instance with: aske sol delete " + name
			return
		}
	}

	if err := m.registry.Remove(name); err != nil {
		logging.Error(subsystem, err, "Rollback of %s could not remove registry entry", name)
		cause.Hint = "Remove the stale entry with: aske sol prune"
		return
	}
	logging.Info(subsystem, "Rolled back container %s", name)
}

// List returns every instance known to the virtualization CLI, enriched
// with registry data and an in-guest service status. Probe failures leave
// Service empty and never fail the listing.
func (m *Manager) List(ctx context.Context) ([]types.Instance, error) {
	if err := m.toolchain.Require("list"); err != nil {
		return nil, err
	}

	instances, err := m.virt.ListInstances(ctx)
	if err != nil {
		return nil, newError(KindIO, "list", "", err)
	}
	if len(instances) == 0 {
		return []types.Instance{}, nil
	}

	profilesByEngine := make(map[types.Engine]Profile)
	for _, p := range Profiles() {
		profilesByEngine[p.Engine] = p
	}

	for i := range instances {
		m.enrich(&instances[i])
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.probeConcurrency)
	for i := range instances {
		inst := instances[i]
		p, ok := profilesByEngine[inst.Engine]
		if !ok || !inst.Managed || !inst.IsRunning() {
			continue
		}
		g.Go(func() error {
			instances[i].Service = m.probe(gctx, inst.Name, p.ServiceName)
			return nil
		})
	}
	_ = g.Wait()

	return instances, nil
}

// enrich fills registry-derived fields of inst
func (m *Manager) enrich(inst *types.Instance) {
	config, err := m.registry.Read(inst.Name)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logging.Debug(subsystem, "Reading registry entry %s: %v", inst.Name, err)
		}
		return
	}

	inst.Managed = true
	if h, ok := ParseHeader(config); ok {
		inst.Engine = h.Engine
		inst.HostPort = h.Port
	}
}

// probe asks systemd for the service state inside the guest. systemctl exits
// non-zero for inactive units but still prints the state.
func (m *Manager) probe(ctx context.Context, name, service string) string {
	out, err := m.virt.Shell(ctx, name, "systemctl", "is-active", service)
	status := strings.TrimSpace(out)
	if err != nil {
		logging.Debug(subsystem, "Status probe of %s failed: %v", name, err)
		if !errors.Is(err, provider.ErrCommandFailed) {
			return ""
		}
	}
	return status
}

// Delete stops and deletes the instance, then removes its registry entry.
// The name must be known to the virtualization CLI. The registry entry is
// only removed after both external calls succeed.
func (m *Manager) Delete(ctx context.Context, name string, confirm ConfirmFunc) (*DeleteResult, error) {
	if err := m.toolchain.Require("delete"); err != nil {
		return nil, err
	}

	instances, err := m.virt.ListInstances(ctx)
	if err != nil {
		return nil, newError(KindIO, "delete", name, err)
	}

	inst, ok := findInstance(instances, name)
	if !ok {
		e := &Error{Kind: KindUnknownContainer, Op: "delete", Name: name}
		if exists, _ := m.registry.Exists(name); exists {
			e.Hint = "A registry entry exists without an instance; remove it with: aske sol prune"
		}
		return nil, e
	}

	if confirm == nil || !confirm(name) {
		logging.Debug(subsystem, "Deletion of %s declined", name)
		return &DeleteResult{Name: name, Declined: true}, nil
	}

	if inst.Status != types.InstanceStopped {
		logging.Info(subsystem, "Stopping container %s", name)
		if err := m.virt.StopInstance(ctx, name); err != nil {
			return nil, newError(KindVirtualizationStopFailed, "delete", name, err)
		}
	}

	logging.Info(subsystem, "Deleting container %s", name)
	if err := m.virt.DeleteInstance(ctx, name); err != nil {
		return nil, newError(KindVirtualizationDeleteFailed, "delete", name, err)
	}

	if err := m.registry.Remove(name); err != nil {
		return nil, newError(KindIO, "delete", name, err)
	}

	return &DeleteResult{Name: name}, nil
}

// Show returns the stored configuration of a registry entry
func (m *Manager) Show(name string) (*ShowResult, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	config, err := m.registry.Read(name)
	if errors.Is(err, ErrNotFound) {
		return nil, &Error{Kind: KindUnknownContainer, Op: "show", Name: name}
	}
	if err != nil {
		return nil, newError(KindIO, "show", name, err)
	}

	result := &ShowResult{
		Container: types.Container{Name: name, Config: config},
		Location:  m.registry.Location(name),
	}
	if h, ok := ParseHeader(config); ok {
		result.Container.Engine = h.Engine
		result.Container.HostPort = h.Port
		if p, err := ProfileFor(h.Engine); err == nil {
			result.Instructions = RenderInstructions(p, name)
		}
	}
	return result, nil
}

// Prune removes registry entries that have no instance in the
// virtualization CLI. Each removal is confirmed individually.
//
// An entry written by a Create still in progress in another process has no
// instance yet and is treated as an orphan.
func (m *Manager) Prune(ctx context.Context, confirm ConfirmFunc) (*PruneResult, error) {
	if err := m.toolchain.Require("prune"); err != nil {
		return nil, err
	}

	names, err := m.registry.List()
	if err != nil {
		return nil, newError(KindIO, "prune", "", err)
	}

	instances, err := m.virt.ListInstances(ctx)
	if err != nil {
		return nil, newError(KindIO, "prune", "", err)
	}

	result := &PruneResult{}
	for _, name := range names {
		if _, ok := findInstance(instances, name); ok {
			continue
		}
		if confirm == nil || !confirm(name) {
			result.Skipped = append(result.Skipped, name)
			continue
		}
		if err := m.registry.Remove(name); err != nil {
			return result, newError(KindIO, "prune", name, err)
		}
		logging.Info(subsystem, "Pruned registry entry %s", name)
		result.Removed = append(result.Removed, name)
	}

	return result, nil
}

func findInstance(instances []types.Instance, name string) (types.Instance, bool) {
	for _, inst := range instances {
		if inst.Name == name {
			return inst, true
		}
	}
	return types.Instance{}, false
}
