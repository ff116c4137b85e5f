//go:build windows

// pkg/config/registry_windows.go - enterprise policy overrides from the registry.

package config

import (
	"log"
	"strconv"

	"golang.org/x/sys/windows/registry"
)

// PolicyRegistryPath is the HKLM key enterprise management tooling can use to
// override local settings.
const PolicyRegistryPath = `SOFTWARE\Policies\WingetPack`

// loadPolicyOverrides applies registry policy values on top of the
// configuration. Absent keys or values are silently skipped.
func loadPolicyOverrides(config *Configuration) {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, PolicyRegistryPath, registry.READ)
	if err != nil {
		return
	}
	defer key.Close()

	loadStringFromRegistry(key, "IntuneWinUtilPath", &config.IntuneWinUtilPath)
	loadStringFromRegistry(key, "LogLevel", &config.LogLevel)
	loadIntFromRegistry(key, "ProcessTimeoutMinutes", &config.ProcessTimeoutMinutes)
}

// loadStringFromRegistry loads a string value from registry if it exists.
func loadStringFromRegistry(key registry.Key, valueName string, target *string) {
	if val, _, err := key.GetStringValue(valueName); err == nil && val != "" {
		*target = val
		log.Printf("Policy: loaded %s = %s", valueName, val)
	}
}

// loadIntFromRegistry loads an integer value from registry if it exists.
// Accepts both string and DWORD representations.
func loadIntFromRegistry(key registry.Key, valueName string, target *int) {
	if val, _, err := key.GetStringValue(valueName); err == nil {
		if parsed, parseErr := strconv.Atoi(val); parseErr == nil {
			*target = parsed
			log.Printf("Policy: loaded %s = %d", valueName, parsed)
			return
		}
	}

	if val, _, err := key.GetIntegerValue(valueName); err == nil {
		*target = int(val)
		log.Printf("Policy: loaded %s = %d", valueName, int(val))
	}
}
