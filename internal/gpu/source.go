package gpu

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	"github.com/cwbudde/nbodyforce/kernel"
)

//go:embed kernels/particle.cl.tmpl
var sourceGlobalTmpl string

//go:embed kernels/particle_tiled.cl.tmpl
var sourceTiledTmpl string

//go:embed kernels/body_newtonian.cl.tmpl
var bodyNewtonianTmpl string

//go:embed kernels/body_softened.cl.tmpl
var bodySoftenedTmpl string

// BuildSource performs the two substitutions spec §4.5 requires at
// pipeline-creation time: the kernel body (selected by kernelID) and
// #WORKGROUP_SIZE (only present, and only meaningful, in the tiled
// variant).
func BuildSource(kernelID kernel.ID, strategy MemoryStrategy, workgroupSize int) (string, error) {
	body, err := kernelBody(kernelID)
	if err != nil {
		return "", err
	}

	var tmpl string
	switch strategy {
	case MemoryStrategyShared:
		tmpl = sourceTiledTmpl
	default:
		tmpl = sourceGlobalTmpl
	}

	src := strings.ReplaceAll(tmpl, "__KERNEL_BODY__", body)
	src = strings.ReplaceAll(src, "__WORKGROUP_SIZE__", strconv.Itoa(workgroupSize))
	return src, nil
}

func kernelBody(id kernel.ID) (string, error) {
	switch id {
	case kernel.Newtonian:
		return bodyNewtonianTmpl, nil
	case kernel.SoftenedNewtonian:
		return bodySoftenedTmpl, nil
	default:
		return "", fmt.Errorf("gpu: no shader body for kernel %s", id)
	}
}

// EntryPoint is the __kernel function name for the given memory
// strategy, matching the `__kernel void <name>(...)` declarations in
// the templates.
func EntryPoint(strategy MemoryStrategy) string {
	if strategy == MemoryStrategyShared {
		return "particle_brute_force_tiled"
	}
	return "particle_brute_force"
}
