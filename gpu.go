package nbodyforce

import (
	"fmt"
	"sync"

	"github.com/cwbudde/nbodyforce/internal/gpu"
	"github.com/cwbudde/nbodyforce/kernel"
	"github.com/cwbudde/nbodyforce/particle"
	"github.com/cwbudde/nbodyforce/vecmath"
)

// GPUConfig, GPUMemoryStrategy, GPUError and GPUErrorKind re-export
// internal/gpu's public surface: internal/gpu cannot be imported
// outside this module, so the root package is where its types become
// part of the public API (spec §6 "GPU shader surface").
type (
	GPUConfig         = gpu.Config
	GPUMemoryStrategy = gpu.MemoryStrategy
	GPUError          = gpu.Error
	GPUErrorKind      = gpu.ErrorKind
)

const (
	GPUMemoryStrategyGlobal = gpu.MemoryStrategyGlobal
	GPUMemoryStrategyShared = gpu.MemoryStrategyShared

	GPUNoAdapter        = gpu.NoAdapter
	GPURequestDevice    = gpu.RequestDevice
	GPUPipelineCreation = gpu.PipelineCreation
	GPUBufferMap        = gpu.BufferMap
	GPUDeviceLost       = gpu.DeviceLost
)

// SupportedGPUMemoryStrategies lists the GPU memory strategies this
// module understands.
func SupportedGPUMemoryStrategies() []GPUMemoryStrategy {
	return gpu.SupportedMemoryStrategies()
}

// pipelineCacheKey identifies one compiled GPU pipeline by the triple
// spec §5 names as the cache key: "(kernel, memory_strategy,
// workgroup_size)".
type pipelineCacheKey struct {
	kernelID kernel.ID
	strategy gpu.MemoryStrategy
	wgSize   int
}

// PipelineCache is a process-lifetime cache of compiled GPU pipelines,
// keyed by (kernel, memory_strategy, workgroup_size) per spec §5
// "GPU resources ... are process-lifetime caches ... construction is
// thread-safe; reuse across calls is expected". The zero value is
// ready to use.
type PipelineCache struct {
	mu        sync.Mutex
	pipelines map[pipelineCacheKey]*gpu.Pipeline
}

// Get returns the cached pipeline for (kernelID, cfg), building and
// caching one if absent.
func (c *PipelineCache) Get(kernelID kernel.ID, cfg GPUConfig) (*gpu.Pipeline, error) {
	cfg.Normalize()
	key := pipelineCacheKey{kernelID: kernelID, strategy: cfg.MemoryStrategy, wgSize: cfg.WorkgroupSize}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pipelines == nil {
		c.pipelines = make(map[pipelineCacheKey]*gpu.Pipeline)
	}
	if p, ok := c.pipelines[key]; ok {
		return p, nil
	}

	p, err := gpu.NewPipeline(kernelID, cfg)
	if err != nil {
		return nil, err
	}
	c.pipelines[key] = p
	return p, nil
}

// Close releases every cached pipeline.
func (c *PipelineCache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.pipelines {
		p.Close()
	}
	c.pipelines = nil
}

// GPUBruteForceAll dispatches the GPU brute-force backend (spec §4.5)
// for one (kernel, cfg) pipeline drawn from cache, for 3D/f32 particles
// only — the spec does not require a 2D/f64 GPU path.
func GPUBruteForceAll(
	cache *PipelineCache,
	kernelID kernel.ID,
	cfg GPUConfig,
	b Between[[]particle.PointMass[float32, vecmath.Vec3[float32]], []particle.PointMass[float32, vecmath.Vec3[float32]]],
) ([]vecmath.Vec3[float32], error) {
	pipeline, err := cache.Get(kernelID, cfg)
	if err != nil {
		return nil, fmt.Errorf("nbodyforce: gpu brute-force: %w", err)
	}
	return pipeline.Dispatch(b.Affected, b.Affecting)
}
