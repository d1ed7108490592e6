//go:build !windows

package main

func enableDPIAwareness() {}

// systemScale is 1 where capture sizes are already in window units.
func systemScale() float32 { return 1 }
