//go:build !windows

package stealth

func platformHooks() Hooks { return Noop{} }
