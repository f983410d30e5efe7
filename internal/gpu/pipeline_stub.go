//go:build !gpu

package gpu

import (
	"github.com/cwbudde/nbodyforce/kernel"
	"github.com/cwbudde/nbodyforce/particle"
	"github.com/cwbudde/nbodyforce/vecmath"
)

// Pipeline is the non-GPU-build stand-in; NewPipeline always fails.
type Pipeline struct{}

// NewPipeline always returns a NoAdapter Error in a build without the
// gpu tag.
func NewPipeline(_ kernel.ID, _ Config) (*Pipeline, error) {
	return nil, &Error{Kind: NoAdapter, Op: "NewPipeline", Err: errGPUTagMissing}
}

// Dispatch is unreachable: NewPipeline never returns a non-nil
// *Pipeline in this build.
func (p *Pipeline) Dispatch(
	_ []particle.PointMass[float32, vecmath.Vec3[float32]],
	_ []particle.PointMass[float32, vecmath.Vec3[float32]],
) ([]vecmath.Vec3[float32], error) {
	return nil, &Error{Kind: NoAdapter, Op: "Dispatch", Err: errGPUTagMissing}
}

// Close is a no-op on the stub Pipeline.
func (p *Pipeline) Close() {}
