//go:build opencl

package waves

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jgillich/go-opencl/cl"
)

const stepKernelSource = `__kernel void wave_step(
    const int rows,
    const int cols,
    const float k1,
    const float k2,
    const float k3,
    __global const float* prev,
    __global const float* curr,
    __global float* next_buffer)
{
    int idx = get_global_id(0);
    if (idx >= rows * cols) {
        return;
    }
    int row = idx / cols;
    int col = idx % cols;
    if (row <= 0 || row >= rows - 1 || col <= 0 || col >= cols - 1) {
        return;
    }
    next_buffer[idx] = k1 * prev[idx] + k2 * curr[idx] +
        k3 * (curr[idx + cols] + curr[idx - cols] + curr[idx + 1] + curr[idx - 1]);
}`

const (
	argK1 = iota + 2
	argK2
	argK3
	argPrev
	argCurr
	argNext
)

type openCLStepper struct {
	context *cl.Context
	queue   *cl.CommandQueue
	program *cl.Program
	kernel  *cl.Kernel
	prevBuf *cl.MemObject
	currBuf *cl.MemObject
	nextBuf *cl.MemObject

	size       int
	deviceName string
	coldStart  bool
}

func pickDevice() (*cl.Device, error) {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		msg := "querying OpenCL platforms"
		if strings.Contains(err.Error(), "-1001") {
			msg += ": no ICD loader reported any platforms"
		}
		return nil, fmt.Errorf("%s: %w", msg, err)
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

func newOpenCLStepper(rows, cols int) (stepper, error) {
	device, err := pickDevice()
	if err != nil {
		return nil, err
	}
	s := &openCLStepper{size: rows * cols, deviceName: device.Name(), coldStart: true}
	if s.context, err = cl.CreateContext([]*cl.Device{device}); err != nil {
		return nil, fmt.Errorf("creating OpenCL context: %w", err)
	}
	if s.queue, err = s.context.CreateCommandQueue(device, 0); err != nil {
		s.close()
		return nil, fmt.Errorf("creating OpenCL command queue: %w", err)
	}
	if s.program, err = s.context.CreateProgramWithSource([]string{stepKernelSource}); err != nil {
		s.close()
		return nil, fmt.Errorf("creating OpenCL program: %w", err)
	}
	if err := s.program.BuildProgram([]*cl.Device{device}, ""); err != nil {
		s.close()
		if buildErr, ok := err.(cl.BuildError); ok {
			return nil, fmt.Errorf("building OpenCL program: %s", string(buildErr))
		}
		return nil, fmt.Errorf("building OpenCL program: %w", err)
	}
	if s.kernel, err = s.program.CreateKernel("wave_step"); err != nil {
		s.close()
		return nil, fmt.Errorf("creating OpenCL kernel: %w", err)
	}
	byteSize := s.size * 4
	for _, buf := range []**cl.MemObject{&s.prevBuf, &s.currBuf, &s.nextBuf} {
		if *buf, err = s.context.CreateEmptyBuffer(cl.MemReadWrite, byteSize); err != nil {
			s.close()
			return nil, fmt.Errorf("allocating height buffer: %w", err)
		}
	}
	if err := s.kernel.SetArgs(int32(rows), int32(cols)); err != nil {
		s.close()
		return nil, fmt.Errorf("setting kernel arguments: %w", err)
	}
	return s, nil
}

func (s *openCLStepper) name() string { return "opencl (" + s.deviceName + ")" }

func (s *openCLStepper) advance(w *Waves, n int) error {
	if len(w.curr) != s.size {
		return fmt.Errorf("unexpected height buffer size %d", len(w.curr))
	}
	if s.coldStart {
		if _, err := s.queue.EnqueueWriteBufferFloat32(s.nextBuf, false, 0, w.next, nil); err != nil {
			return fmt.Errorf("writing next buffer: %w", err)
		}
		s.coldStart = false
	}
	// Disturbances land on the host copy between updates.
	if _, err := s.queue.EnqueueWriteBufferFloat32(s.prevBuf, false, 0, w.prev, nil); err != nil {
		return fmt.Errorf("writing previous buffer: %w", err)
	}
	if _, err := s.queue.EnqueueWriteBufferFloat32(s.currBuf, false, 0, w.curr, nil); err != nil {
		return fmt.Errorf("writing current buffer: %w", err)
	}
	if err := s.kernel.SetArgFloat32(argK1, w.coeffs.K1); err != nil {
		return fmt.Errorf("setting k1: %w", err)
	}
	if err := s.kernel.SetArgFloat32(argK2, w.coeffs.K2); err != nil {
		return fmt.Errorf("setting k2: %w", err)
	}
	if err := s.kernel.SetArgFloat32(argK3, w.coeffs.K3); err != nil {
		return fmt.Errorf("setting k3: %w", err)
	}
	global := []int{s.size}
	for ; n > 0; n-- {
		if err := s.kernel.SetArgBuffer(argPrev, s.prevBuf); err != nil {
			return fmt.Errorf("binding previous buffer: %w", err)
		}
		if err := s.kernel.SetArgBuffer(argCurr, s.currBuf); err != nil {
			return fmt.Errorf("binding current buffer: %w", err)
		}
		if err := s.kernel.SetArgBuffer(argNext, s.nextBuf); err != nil {
			return fmt.Errorf("binding next buffer: %w", err)
		}
		if _, err := s.queue.EnqueueNDRangeKernel(s.kernel, nil, global, nil, nil); err != nil {
			return fmt.Errorf("enqueueing kernel: %w", err)
		}
		s.prevBuf, s.currBuf, s.nextBuf = s.currBuf, s.nextBuf, s.prevBuf
	}
	if _, err := s.queue.EnqueueReadBufferFloat32(s.currBuf, true, 0, w.curr, nil); err != nil {
		return fmt.Errorf("reading current buffer: %w", err)
	}
	if _, err := s.queue.EnqueueReadBufferFloat32(s.prevBuf, true, 0, w.prev, nil); err != nil {
		return fmt.Errorf("reading previous buffer: %w", err)
	}
	return nil
}

func (s *openCLStepper) close() {
	for _, buf := range []**cl.MemObject{&s.nextBuf, &s.currBuf, &s.prevBuf} {
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
