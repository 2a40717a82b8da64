package main

import (
	"fmt"
	"io"
	"runtime"
	"slices"
)

const Version = "0.4.0"

// compiledFeatures tracks build-time feature flags via init() registration.
var compiledFeatures []string

func printFeatures(w io.Writer) {
	fmt.Fprintf(w, "psgmeter %s\n", Version)
	fmt.Fprintf(w, "  Go version: %s\n", runtime.Version())
	fmt.Fprintf(w, "  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Compiled features:")

	features := slices.Sorted(slices.Values(compiledFeatures))
	for _, f := range features {
		fmt.Fprintf(w, "  %s\n", f)
	}
	if len(features) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
}
