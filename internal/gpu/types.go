// Package gpu implements the GPU brute-force backend (spec §4.5): an
// OpenCL compute pipeline that evaluates the pairwise kernel for every
// affected particle against every affecting particle on a single
// command queue.
//
// The spec's Design Notes permit substituting "any equivalent
// compute-shader API" for WGSL; this implementation uses OpenCL C via
// cgo, the same stack the teacher's internal/fit/gpu and
// internal/fit/renderer_opencl_gpu.go use for its own GPU renderer.
package gpu

// DeviceType describes the class of an OpenCL device.
type DeviceType string

const (
	DeviceTypeGPU         DeviceType = "GPU"
	DeviceTypeCPU         DeviceType = "CPU"
	DeviceTypeAccelerator DeviceType = "Accelerator"
	DeviceTypeDefault     DeviceType = "Default"
	DeviceTypeUnknown     DeviceType = "Unknown"
)

// DeviceInfo captures metadata about an OpenCL device.
type DeviceInfo struct {
	Name            string
	Vendor          string
	Version         string
	Type            DeviceType
	MaxComputeUnits uint32
}

// PlatformInfo captures metadata about an OpenCL platform and its devices.
type PlatformInfo struct {
	Name    string
	Vendor  string
	Version string
	Devices []DeviceInfo
}

// MemoryStrategy selects between the non-tiled and tiled GPU kernel
// variants (spec §4.5 "tiled variant").
type MemoryStrategy string

const (
	// MemoryStrategyGlobal reads every affecting particle directly
	// from global memory on every thread.
	MemoryStrategyGlobal MemoryStrategy = "global"
	// MemoryStrategyShared cooperatively stages WorkgroupSize
	// affecting particles into local/shared memory per workgroup.
	MemoryStrategyShared MemoryStrategy = "shared"
)

// DefaultWorkgroupSize is used when Config.WorkgroupSize is zero.
const DefaultWorkgroupSize = 64

// Config configures the GPU brute-force pipeline.
type Config struct {
	WorkgroupSize  int
	MemoryStrategy MemoryStrategy
	EpsSquared     float32
}

// NormalizeMemoryStrategy maps "" and "global" to MemoryStrategyGlobal
// and "shared" to MemoryStrategyShared, mirroring the teacher's
// NormalizeBackend. Any other string is returned unchanged.
func NormalizeMemoryStrategy(s string) MemoryStrategy {
	switch s {
	case "", string(MemoryStrategyGlobal):
		return MemoryStrategyGlobal
	case string(MemoryStrategyShared):
		return MemoryStrategyShared
	default:
		return MemoryStrategy(s)
	}
}

// SupportedMemoryStrategies returns the memory strategies the pipeline
// understands, mirroring the teacher's SupportedBackends.
func SupportedMemoryStrategies() []MemoryStrategy {
	return []MemoryStrategy{MemoryStrategyGlobal, MemoryStrategyShared}
}

// Normalize fills in defaults and canonicalises Config in place.
func (c *Config) Normalize() {
	if c.WorkgroupSize <= 0 {
		c.WorkgroupSize = DefaultWorkgroupSize
	}
	c.MemoryStrategy = NormalizeMemoryStrategy(string(c.MemoryStrategy))
}
