//go:build opencl

package main

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/jgillich/go-opencl/cl"

	"ripplewatch/wave"
)

// openCLStepper advances ripple fields on an OpenCL device. It implements
// wave.Stepper with the same clamped-boundary update as the CPU grid.
type openCLStepper struct {
	context    *cl.Context
	queue      *cl.CommandQueue
	program    *cl.Program
	kernel     *cl.Kernel
	prev2Buf   *cl.MemObject
	prev1Buf   *cl.MemObject
	outBuf     *cl.MemObject
	width      int
	height     int
	deviceName string
}

const rippleKernelSource = `__kernel void ripple_step(
    const int width,
    const int height,
    const float coeff,
    __global const float* prev2,
    __global const float* prev1,
    __global float* out)
{
    int idx = get_global_id(0);
    if (idx >= width * height) {
        return;
    }
    int x = idx % width;
    int y = idx / width;
    float here = prev1[idx];
    float left = x > 0 ? prev1[idx - 1] : here;
    float right = x < width - 1 ? prev1[idx + 1] : here;
    float up = y > 0 ? prev1[idx - width] : here;
    float down = y < height - 1 ? prev1[idx + width] : here;
    float lap = (right - here) - (here - left) + (down - here) - (here - up);
    out[idx] = coeff * lap + 2.0f * here - prev2[idx];
}`

func pickOpenCLDevice() (*cl.Device, error) {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		msg := "querying OpenCL platforms"
		if strings.Contains(err.Error(), "-1001") {
			msg += ": no ICD loader reported any platforms; install OpenCL drivers and verify with `clinfo`"
		}
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
	if len(platforms) == 0 {
		return nil, errors.New("no OpenCL platforms available; ensure a vendor driver is installed and detected by `clinfo`")
	}
	for _, kind := range []cl.DeviceType{cl.DeviceTypeGPU, cl.DeviceTypeCPU} {
		for _, p := range platforms {
			devices, derr := p.GetDevices(kind)
			if derr != nil && derr != cl.ErrDeviceNotFound {
				continue
			}
			if len(devices) > 0 {
				return devices[0], nil
			}
		}
	}
	return nil, errors.New("no suitable OpenCL devices found")
}

func newOpenCLStepper(width, height int) (*openCLStepper, error) {
	device, err := pickOpenCLDevice()
	if err != nil {
		return nil, err
	}
	s := &openCLStepper{width: width, height: height, deviceName: device.Name()}

	s.context, err = cl.CreateContext([]*cl.Device{device})
	if err != nil {
		return nil, fmt.Errorf("creating OpenCL context: %w", err)
	}
	s.queue, err = s.context.CreateCommandQueue(device, 0)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("creating OpenCL command queue: %w", err)
	}
	s.program, err = s.context.CreateProgramWithSource([]string{rippleKernelSource})
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("creating OpenCL program: %w", err)
	}
	if err := s.program.BuildProgram([]*cl.Device{device}, ""); err != nil {
		s.Close()
		if buildErr, ok := err.(cl.BuildError); ok {
			return nil, fmt.Errorf("building OpenCL program: %s", string(buildErr))
		}
		return nil, fmt.Errorf("building OpenCL program: %w", err)
	}
	s.kernel, err = s.program.CreateKernel("ripple_step")
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("creating OpenCL kernel: %w", err)
	}

	byteSize := width * height * int(unsafe.Sizeof(float32(0)))
	if s.prev2Buf, err = s.context.CreateEmptyBuffer(cl.MemReadOnly, byteSize); err != nil {
		s.Close()
		return nil, fmt.Errorf("allocating prev2 buffer: %w", err)
	}
	if s.prev1Buf, err = s.context.CreateEmptyBuffer(cl.MemReadOnly, byteSize); err != nil {
		s.Close()
		return nil, fmt.Errorf("allocating prev1 buffer: %w", err)
	}
	if s.outBuf, err = s.context.CreateEmptyBuffer(cl.MemWriteOnly, byteSize); err != nil {
		s.Close()
		return nil, fmt.Errorf("allocating output buffer: %w", err)
	}
	return s, nil
}

// Step uploads both history fields, runs one kernel pass and reads out back.
func (s *openCLStepper) Step(prev2, prev1, out *wave.Field, dt, damping float32) error {
	for _, f := range []*wave.Field{prev2, prev1, out} {
		if f == nil || f.Width != s.width || f.Height != s.height || len(f.Cells) != s.width*s.height {
			return fmt.Errorf("%w: OpenCL stepper is %dx%d", wave.ErrDimensionMismatch, s.width, s.height)
		}
	}
	if out == prev1 || out == prev2 {
		return wave.ErrAliasedOutput
	}
	if err := s.kernel.SetArgs(
		int32(s.width),
		int32(s.height),
		damping*dt,
		s.prev2Buf,
		s.prev1Buf,
		s.outBuf,
	); err != nil {
		return fmt.Errorf("setting kernel arguments: %w", err)
	}
	if _, err := s.queue.EnqueueWriteBufferFloat32(s.prev2Buf, false, 0, prev2.Cells, nil); err != nil {
		return fmt.Errorf("writing prev2 buffer: %w", err)
	}
	if _, err := s.queue.EnqueueWriteBufferFloat32(s.prev1Buf, false, 0, prev1.Cells, nil); err != nil {
		return fmt.Errorf("writing prev1 buffer: %w", err)
	}
	if _, err := s.queue.EnqueueNDRangeKernel(s.kernel, nil, []int{s.width * s.height}, nil, nil); err != nil {
		return fmt.Errorf("enqueueing kernel: %w", err)
	}
	if _, err := s.queue.EnqueueReadBufferFloat32(s.outBuf, true, 0, out.Cells, nil); err != nil {
		return fmt.Errorf("reading output buffer: %w", err)
	}
	return nil
}

func (s *openCLStepper) Close() {
	for _, buf := range []**cl.MemObject{&s.outBuf, &s.prev1Buf, &s.prev2Buf} {
		if *buf != nil {
			(*buf).Release()
			*buf = nil
		}
	}
	if s.kernel != nil {
		s.kernel.Release()
		s.kernel = nil
	}
	if s.program != nil {
		s.program.Release()
		s.program = nil
	}
	if s.queue != nil {
		s.queue.Release()
		s.queue = nil
	}
	if s.context != nil {
		s.context.Release()
		s.context = nil
	}
}

func (s *openCLStepper) DeviceName() string {
	return s.deviceName
}
