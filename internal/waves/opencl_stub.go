//go:build !opencl

package waves

import "errors"

func newOpenCLStepper(rows, cols int) (stepper, error) {
	return nil, errors.New("waves: OpenCL support is not enabled; rebuild with -tags opencl")
}
