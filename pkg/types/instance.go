package types

// InstanceStatus is the state reported by the virtualization CLI
type InstanceStatus string

const (
	InstanceRunning InstanceStatus = "Running"
	InstanceStopped InstanceStatus = "Stopped"
	InstanceBroken  InstanceStatus = "Broken"
	InstanceUnknown InstanceStatus = "Unknown"
)

// Instance represents a virtualization guest as listed by the CLI, enriched
// with registry data when aske created it
type Instance struct {
	Name     string         `json:"name"`
	Status   InstanceStatus `json:"status"`
	Engine   Engine         `json:"engine,omitempty"`    // Empty when not in the registry
	HostPort int            `json:"host_port,omitempty"` // Forwarded port from the registry
	Service  string         `json:"service,omitempty"`   // Service status inside the guest, empty if probe failed
	Managed  bool           `json:"managed"`             // Registry entry exists
}

// IsRunning returns true if the instance is running
func (i *Instance) IsRunning() bool {
	return i.Status == InstanceRunning
}

// ParseInstanceStatus normalizes a status column value
func ParseInstanceStatus(s string) InstanceStatus {
	switch s {
	case "Running", "running":
		return InstanceRunning
	case "Stopped", "stopped":
		return InstanceStopped
	case "Broken", "broken":
		return InstanceBroken
	default:
		return InstanceUnknown
	}
}
