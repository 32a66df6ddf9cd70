package performance

import (
	"errors"
	"runtime"

	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/shared/types"
	"github.com/prometheus/procfs"
)

// ErrProbeUnavailable means the platform cannot report device capabilities
var ErrProbeUnavailable = errors.New("capability probe unavailable")

// CapabilityProbe reports device capabilities once at startup
type CapabilityProbe interface {
	Probe() (types.Capabilities, error)
}

// StaticProbe returns fixed capabilities, for hosts that measure elsewhere
type StaticProbe struct {
	Capabilities types.Capabilities
	Err          error
}

// Probe returns the configured values
func (p StaticProbe) Probe() (types.Capabilities, error) {
	return p.Capabilities, p.Err
}

// SystemProbe reads the capabilities of the machine running the engine.
// Memory comes from /proc/meminfo and is left unknown where that is missing.
type SystemProbe struct {
	ProcPath string
}

// Probe reports core count and total memory
func (p SystemProbe) Probe() (types.Capabilities, error) {
	caps := types.Capabilities{Cores: runtime.NumCPU()}

	path := p.ProcPath
	if path == "" {
		path = procfs.DefaultMountPoint
	}
	fs, err := procfs.NewFS(path)
	if err != nil {
		return caps, nil
	}
	info, err := fs.Meminfo()
	if err != nil || info.MemTotal == nil {
		return caps, nil
	}

	caps.MemoryGB = float64(*info.MemTotal) / (1024 * 1024)
	return caps, nil
}
