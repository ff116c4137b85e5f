//go:build !windows

package config

// loadPolicyOverrides is a no-op off Windows; policy settings come from the
// registry, which only exists there.
func loadPolicyOverrides(config *Configuration) {}
