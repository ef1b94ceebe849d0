package sol

import (
	"context"
	"fmt"
	"sync"

	"github.com/caraveo/aske/pkg/provider"
	"github.com/caraveo/aske/pkg/types"
)

// fakeProvider is an in-memory provider.VirtualizationProvider that records
// every external call
type fakeProvider struct {
	mu        sync.Mutex
	available bool
	instances []types.Instance
	probes    map[string]string // name -> systemctl output
	probeErrs map[string]error
	errs      map[string]error // operation -> error
	calls     []string

	// startLeavesInstance adds a Broken instance even when start fails
	startLeavesInstance bool
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		available: true,
		probes:    make(map[string]string),
		probeErrs: make(map[string]error),
		errs:      make(map[string]error),
	}
}

func (f *fakeProvider) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeProvider) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeProvider) Name() string    { return "limactl" }
func (f *fakeProvider) Available() bool { return f.available }

func (f *fakeProvider) ListInstances(ctx context.Context) ([]types.Instance, error) {
	f.record("list")
	if err := f.errs["list"]; err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]types.Instance, len(f.instances))
	copy(out, f.instances)
	return out, nil
}

func (f *fakeProvider) StartInstance(ctx context.Context, name string, config string) error {
	f.record("start " + name)
	if err := f.errs["start"]; err != nil {
		if f.startLeavesInstance {
			f.add(name, types.InstanceBroken)
		}
		return err
	}
	f.add(name, types.InstanceRunning)
	return nil
}

func (f *fakeProvider) StopInstance(ctx context.Context, name string) error {
	f.record("stop " + name)
	if err := f.errs["stop"]; err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.instances {
		if f.instances[i].Name == name {
			f.instances[i].Status = types.InstanceStopped
		}
	}
	return nil
}

func (f *fakeProvider) DeleteInstance(ctx context.Context, name string) error {
	f.record("delete " + name)
	if err := f.errs["delete"]; err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.instances[:0]
	for _, inst := range f.instances {
		if inst.Name != name {
			kept = append(kept, inst)
		}
	}
	f.instances = kept
	return nil
}

func (f *fakeProvider) Shell(ctx context.Context, name string, command ...string) (string, error) {
	f.record(fmt.Sprintf("shell %s %v", name, command))
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.probes[name], f.probeErrs[name]
}

func (f *fakeProvider) add(name string, status types.InstanceStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.instances = append(f.instances, types.Instance{Name: name, Status: status})
}

// fakePackageManager is an in-memory provider.PackageManager
type fakePackageManager struct {
	available  bool
	installErr error
	installs   []string
	onInstall  func()
}

func (f *fakePackageManager) Name() string    { return "brew" }
func (f *fakePackageManager) Available() bool { return f.available }

func (f *fakePackageManager) Install(ctx context.Context, pkg string) error {
	f.installs = append(f.installs, pkg)
	if f.installErr != nil {
		return f.installErr
	}
	if f.onInstall != nil {
		f.onInstall()
	}
	return nil
}

func (f *fakePackageManager) InstallHint() string { return "install brew first" }

var (
	_ provider.VirtualizationProvider = (*fakeProvider)(nil)
	_ provider.PackageManager         = (*fakePackageManager)(nil)
)
