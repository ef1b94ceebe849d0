package sol

import (
	"context"

	"github.com/caraveo/aske/pkg/logging"
	"github.com/caraveo/aske/pkg/provider"
)

// VirtualizationPackage is the package-manager formula providing limactl
const VirtualizationPackage = "lima"

// Toolchain verifies the package manager and virtualization CLI are present,
// installing the latter once when missing.
type Toolchain struct {
	pm   provider.PackageManager
	virt provider.VirtualizationProvider
	pkg  string
}

// ToolchainStatus reports tool presence without side effects
type ToolchainStatus struct {
	PackageManager        string
	PackageManagerFound   bool
	Virtualization        string
	VirtualizationFound   bool
	PackageManagerInstall string // Instructions when the package manager is missing
}

// NewToolchain creates a toolchain probe.
func NewToolchain(pm provider.PackageManager, virt provider.VirtualizationProvider) *Toolchain {
	return &Toolchain{pm: pm, virt: virt, pkg: VirtualizationPackage}
}

// Status probes both tools without installing anything.
func (t *Toolchain) Status() ToolchainStatus {
	s := ToolchainStatus{
		PackageManager:      t.pm.Name(),
		PackageManagerFound: t.pm.Available(),
		Virtualization:      t.virt.Name(),
		VirtualizationFound: t.virt.Available(),
	}
	if !s.PackageManagerFound {
		s.PackageManagerInstall = t.pm.InstallHint()
	}
	return s
}

// Ensure makes sure both tools are usable. The package manager is never
// installed automatically; the virtualization CLI is installed at most once.
func (t *Toolchain) Ensure(ctx context.Context) error {
	if !t.pm.Available() {
		return &Error{
			Kind: KindMissingPackageManager,
			Op:   "toolchain",
			Name: t.pm.Name(),
			Hint: t.pm.InstallHint(),
		}
	}

	if t.virt.Available() {
		return nil
	}

	logging.Info(subsystem, "%s not found, installing %s with %s", t.virt.Name(), t.pkg, t.pm.Name())
	if err := t.pm.Install(ctx, t.pkg); err != nil {
		e := newError(KindVirtualizationInstallFailed, "toolchain", t.pkg, err)
		e.Hint = "Install it manually with: " + t.pm.Name() + " install " + t.pkg
		return e
	}

	if !t.virt.Available() {
		return &Error{
			Kind: KindVirtualizationUnavailable,
			Op:   "toolchain",
			Name: t.virt.Name(),
			Hint: "Check that " + t.virt.Name() + " is on your PATH",
		}
	}
	return nil
}

// Require checks that the virtualization CLI is present without installing
// anything. Only create installs missing tools.
func (t *Toolchain) Require(op string) error {
	if t.virt.Available() {
		return nil
	}
	return &Error{
		Kind: KindVirtualizationUnavailable,
		Op:   op,
		Name: t.virt.Name(),
		Hint: "Install it with: " + t.pm.Name() + " install " + t.pkg,
	}
}
