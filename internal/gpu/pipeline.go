//go:build gpu

package gpu

/*
#cgo LDFLAGS: -lOpenCL
#define CL_TARGET_OPENCL_VERSION 120
#define CL_USE_DEPRECATED_OPENCL_1_2_APIS
#include <CL/cl.h>
#include <stdlib.h>
*/
import "C"

import (
	"log/slog"
	"unsafe"

	"github.com/cwbudde/nbodyforce/kernel"
	"github.com/cwbudde/nbodyforce/particle"
	"github.com/cwbudde/nbodyforce/vecmath"
)

// Pipeline is a built OpenCL program+kernel ready to dispatch the GPU
// brute-force backend (spec §4.5). It owns one command queue's worth
// of buffers and is not safe for concurrent Dispatch calls.
type Pipeline struct {
	runtime  *Runtime
	cfg      Config
	kernelID kernel.ID

	program C.cl_program
	clKern  C.cl_kernel
}

// NewPipeline selects a device, compiles the shader source for
// kernelID and cfg.MemoryStrategy, and creates the kernel object.
func NewPipeline(kernelID kernel.ID, cfg Config) (*Pipeline, error) {
	cfg.Normalize()

	rt, err := InitRuntime()
	if err != nil {
		return nil, err
	}

	p := &Pipeline{runtime: rt, cfg: cfg, kernelID: kernelID}
	if err := p.build(); err != nil {
		rt.Close()
		return nil, err
	}

	slog.Info("GPU pipeline built",
		"device", rt.Device.Name,
		"vendor", rt.Device.Vendor,
		"memory_strategy", cfg.MemoryStrategy,
		"workgroup_size", cfg.WorkgroupSize,
	)

	return p, nil
}

func (p *Pipeline) build() error {
	src, err := BuildSource(p.kernelID, p.cfg.MemoryStrategy, p.cfg.WorkgroupSize)
	if err != nil {
		return &Error{Kind: PipelineCreation, Op: "BuildSource", Err: err}
	}

	cSrc := C.CString(src)
	defer C.free(unsafe.Pointer(cSrc))

	var status C.cl_int
	p.program = C.clCreateProgramWithSource(p.runtime.context, 1, &cSrc, nil, &status)
	if status != C.CL_SUCCESS {
		return clErr(PipelineCreation, "clCreateProgramWithSource", status)
	}

	status = C.clBuildProgram(p.program, 1, &p.runtime.deviceID, nil, nil, nil)
	if status != C.CL_SUCCESS {
		p.dumpBuildLog()
		return clErr(PipelineCreation, "clBuildProgram", status)
	}

	entry := C.CString(EntryPoint(p.cfg.MemoryStrategy))
	defer C.free(unsafe.Pointer(entry))
	p.clKern = C.clCreateKernel(p.program, entry, &status)
	if status != C.CL_SUCCESS {
		return clErr(PipelineCreation, "clCreateKernel", status)
	}

	return nil
}

func (p *Pipeline) dumpBuildLog() {
	if p.program == nil || p.runtime.deviceID == nil {
		return
	}
	var logSize C.size_t
	if status := C.clGetProgramBuildInfo(p.program, p.runtime.deviceID, C.CL_PROGRAM_BUILD_LOG, 0, nil, &logSize); status != C.CL_SUCCESS || logSize == 0 {
		return
	}
	buf := make([]byte, int(logSize))
	if status := C.clGetProgramBuildInfo(p.program, p.runtime.deviceID, C.CL_PROGRAM_BUILD_LOG, logSize, unsafe.Pointer(&buf[0]), nil); status != C.CL_SUCCESS {
		return
	}
	slog.Error("OpenCL build log", "log", string(buf))
}

// Dispatch runs the compiled kernel for every affected particle
// against every affecting particle and returns the resulting
// acceleration per affected particle, in input order. Three buffers
// are created per call (affected, affecting, interactions), matching
// spec §4.5's resource list; a Pipeline reused across many Dispatch
// calls with a stable affecting set could cache the affecting buffer,
// but the spec does not require amortising that allocation and this
// implementation keeps the simpler one-shot-per-call contract.
func (p *Pipeline) Dispatch(
	affected []particle.PointMass[float32, vecmath.Vec3[float32]],
	affecting []particle.PointMass[float32, vecmath.Vec3[float32]],
) ([]vecmath.Vec3[float32], error) {
	if len(affected) == 0 {
		return nil, nil
	}

	affectedWire := make([]float32, len(affected)*4)
	for i, a := range affected {
		w := vecmath.FromVec3(a.Position, a.Mass)
		copy(affectedWire[i*4:i*4+4], w.Array())
	}

	affectingWire := make([]float32, max(len(affecting), 1)*4)
	for i, a := range affecting {
		w := vecmath.FromVec3(a.Position, a.Mass)
		copy(affectingWire[i*4:i*4+4], w.Array())
	}

	var status C.cl_int
	f32size := C.size_t(unsafe.Sizeof(float32(0)))

	affectedBuf := C.clCreateBuffer(p.runtime.context, C.CL_MEM_READ_ONLY|C.CL_MEM_COPY_HOST_PTR,
		C.size_t(len(affectedWire))*f32size, unsafe.Pointer(&affectedWire[0]), &status)
	if status != C.CL_SUCCESS {
		return nil, clErr(BufferMap, "clCreateBuffer(affected)", status)
	}
	defer C.clReleaseMemObject(affectedBuf)

	affectingBuf := C.clCreateBuffer(p.runtime.context, C.CL_MEM_READ_ONLY|C.CL_MEM_COPY_HOST_PTR,
		C.size_t(len(affectingWire))*f32size, unsafe.Pointer(&affectingWire[0]), &status)
	if status != C.CL_SUCCESS {
		return nil, clErr(BufferMap, "clCreateBuffer(affecting)", status)
	}
	defer C.clReleaseMemObject(affectingBuf)

	interactionsWire := make([]float32, len(affected)*3)
	interactionsBuf := C.clCreateBuffer(p.runtime.context, C.CL_MEM_WRITE_ONLY,
		C.size_t(len(interactionsWire))*f32size, nil, &status)
	if status != C.CL_SUCCESS {
		return nil, clErr(BufferMap, "clCreateBuffer(interactions)", status)
	}
	defer C.clReleaseMemObject(interactionsBuf)

	affectedCount := C.cl_int(len(affected))
	affectingCount := C.cl_int(len(affecting))
	epsSquared := C.float(p.cfg.EpsSquared)

	args := []unsafe.Pointer{
		unsafe.Pointer(&affectedBuf),
		unsafe.Pointer(&affectedCount),
		unsafe.Pointer(&affectingBuf),
		unsafe.Pointer(&affectingCount),
		unsafe.Pointer(&epsSquared),
		unsafe.Pointer(&interactionsBuf),
	}
	sizes := []C.size_t{
		C.size_t(unsafe.Sizeof(affectedBuf)),
		C.size_t(unsafe.Sizeof(affectedCount)),
		C.size_t(unsafe.Sizeof(affectingBuf)),
		C.size_t(unsafe.Sizeof(affectingCount)),
		C.size_t(unsafe.Sizeof(epsSquared)),
		C.size_t(unsafe.Sizeof(interactionsBuf)),
	}
	for i, arg := range args {
		if status := C.clSetKernelArg(p.clKern, C.cl_uint(i), sizes[i], arg); status != C.CL_SUCCESS {
			return nil, clErr(PipelineCreation, "clSetKernelArg", status)
		}
	}

	global := C.size_t(roundUpToMultiple(len(affected), p.cfg.WorkgroupSize))
	local := C.size_t(p.cfg.WorkgroupSize)
	status = C.clEnqueueNDRangeKernel(p.runtime.queue, p.clKern, 1, nil, &global, &local, 0, nil, nil)
	if status != C.CL_SUCCESS {
		return nil, clErr(DeviceLost, "clEnqueueNDRangeKernel", status)
	}

	status = C.clFinish(p.runtime.queue)
	if status != C.CL_SUCCESS {
		return nil, clErr(DeviceLost, "clFinish", status)
	}

	status = C.clEnqueueReadBuffer(p.runtime.queue, interactionsBuf, C.CL_TRUE, 0,
		C.size_t(len(interactionsWire))*f32size, unsafe.Pointer(&interactionsWire[0]), 0, nil, nil)
	if status != C.CL_SUCCESS {
		return nil, clErr(BufferMap, "clEnqueueReadBuffer", status)
	}

	out := make([]vecmath.Vec3[float32], len(affected))
	for i := range out {
		out[i] = vecmath.Vec3FromArray(interactionsWire[i*3 : i*3+3])
	}
	return out, nil
}

// Close releases the kernel, program and underlying runtime.
func (p *Pipeline) Close() {
	if p == nil {
		return
	}
	if p.clKern != nil {
		C.clReleaseKernel(p.clKern)
		p.clKern = nil
	}
	if p.program != nil {
		C.clReleaseProgram(p.program)
		p.program = nil
	}
	p.runtime.Close()
}

func roundUpToMultiple(n, multiple int) int {
	if multiple <= 0 {
		return n
	}
	return ((n + multiple - 1) / multiple) * multiple
}
