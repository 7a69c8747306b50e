package waves

// stepper runs n explicit steps on a surface, leaving the newest solution in
// w.curr and the one before it in w.prev.
type stepper interface {
	advance(w *Waves, n int) error
	name() string
	close()
}

type cpuStepper struct{}

func (cpuStepper) name() string { return "cpu" }

func (cpuStepper) close() {}

func (cpuStepper) advance(w *Waves, n int) error {
	for ; n > 0; n-- {
		stepCPU(w)
		w.rotate()
	}
	return nil
}

// stepCPU writes the next solution for every interior vertex into w.next.
func stepCPU(w *Waves) {
	rows, cols := w.grid.Rows, w.grid.Cols
	k1, k2, k3 := w.coeffs.K1, w.coeffs.K2, w.coeffs.K3
	for i := 1; i < rows-1; i++ {
		base := i * cols
		prev := w.prev[base : base+cols]
		center := w.curr[base : base+cols]
		top := w.curr[base-cols : base]
		bottom := w.curr[base+cols : base+2*cols]
		next := w.next[base : base+cols]
		for j := 1; j < cols-1; j++ {
			next[j] = k1*prev[j] + k2*center[j] +
				k3*(bottom[j]+top[j]+center[j+1]+center[j-1])
		}
	}
}

// UseOpenCL moves stepping to an OpenCL device. It fails unless the binary
// was built with the opencl tag and a device is available.
func (w *Waves) UseOpenCL() error {
	s, err := newOpenCLStepper(w.grid.Rows, w.grid.Cols)
	if err != nil {
		return err
	}
	w.stepper.close()
	w.stepper = s
	return nil
}

// Backend names the stepper currently in use.
func (w *Waves) Backend() string { return w.stepper.name() }

// Close releases device resources held by an accelerated stepper.
func (w *Waves) Close() {
	w.stepper.close()
	w.stepper = cpuStepper{}
}
