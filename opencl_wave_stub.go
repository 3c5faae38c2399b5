//go:build !opencl

package main

import (
	"errors"

	"ripplewatch/wave"
)

type openCLStepper struct{}

func newOpenCLStepper(width, height int) (*openCLStepper, error) {
	return nil, errors.New("OpenCL support is not enabled; rebuild with -tags opencl")
}

func (s *openCLStepper) Step(prev2, prev1, out *wave.Field, dt, damping float32) error {
	return errors.New("OpenCL stepper unavailable")
}

func (s *openCLStepper) Close() {}

func (s *openCLStepper) DeviceName() string { return "" }
