// Package simd implements the lane-packing side of BruteForceSIMD<L>
// (spec §4.3): repacking affecting particles into array-of-SoA lane
// groups, and choosing the lane width L at runtime from detected CPU
// features, the same way the teacher's internal/fit/sad.go picks
// SADBackendAVX2/NEON/Scalar in an init() via golang.org/x/sys/cpu.
//
// There is no hand-written assembly lane kernel here (the teacher's
// sad_amd64.s is architecture-specific machine code operating on
// uint8 pixel buffers; this module's lane body is a generic kernel
// call over arbitrary V, which Go cannot express as intrinsics without
// per-type asm). The lane width still changes the real memory-access
// pattern and reduction shape; only the "vectorised instruction"
// itself is left to the Go compiler's own auto-vectorisation.
package simd

import (
	"log/slog"

	"golang.org/x/sys/cpu"
)

// Width is the active SIMD lane width, selected once at package init
// time exactly as the teacher selects ActiveSADBackend.
var Width int

func init() {
	switch {
	case cpu.X86.HasAVX2:
		Width = 8
		slog.Debug("simd lane width selected", "width", Width, "feature", "AVX2")
	case cpu.ARM64.HasASIMD:
		Width = 4
		slog.Debug("simd lane width selected", "width", Width, "feature", "ASIMD")
	default:
		Width = 4
		slog.Debug("simd lane width selected", "width", Width, "feature", "scalar-fallback")
	}
}
