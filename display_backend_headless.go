//go:build headless

// display_backend_headless.go - Window output stub for builds without a display

package main

import (
	"context"
	"errors"
)

var errNoWindow = errors.New("window output is not available in headless builds")

func init() {
	compiledFeatures = append(compiledFeatures, "window:headless")
}

type WindowOutput struct{}

func NewWindowOutput(scale int) (*WindowOutput, error) {
	return nil, &MeterError{Operation: "window", Details: "headless", Err: errNoWindow}
}

func (w *WindowOutput) ModeRequests() <-chan Mode { return nil }

func (w *WindowOutput) Present(fb *OLEDFramebuffer) error { return nil }

func (w *WindowOutput) Close() error { return nil }

func (w *WindowOutput) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}
