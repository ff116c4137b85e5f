//go:build windows

// pkg/sysinfo/sysinfo_windows.go - WMI-backed host facts.

package sysinfo

import (
	"fmt"

	"github.com/yusufpapurcu/wmi"
)

type win32OperatingSystem struct {
	Caption        string
	Version        string
	OSArchitecture string
}

// Collect queries WMI for the host operating system identity.
func Collect() (Facts, error) {
	var result []win32OperatingSystem
	query := "SELECT Caption, Version, OSArchitecture FROM Win32_OperatingSystem"
	if err := wmi.Query(query, &result); err != nil {
		return Facts{}, fmt.Errorf("querying operating system facts: %w", err)
	}
	if len(result) == 0 {
		return Facts{}, fmt.Errorf("no operating system instance returned")
	}
	return Facts{
		Caption:      result[0].Caption,
		Version:      result[0].Version,
		Architecture: result[0].OSArchitecture,
	}, nil
}
