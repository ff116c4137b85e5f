// pkg/sysinfo/sysinfo.go - host facts recorded with each packaging run.

package sysinfo

// Facts describes the operating system the packaging utility runs on. The
// values are logged at startup so a package built on an unexpected host can
// be traced.
type Facts struct {
	Caption      string
	Version      string
	Architecture string
}
