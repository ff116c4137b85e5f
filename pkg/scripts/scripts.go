// pkg/scripts/scripts.go - generation of the Intune control scripts.
//
// Each packaging run emits three PowerShell scripts: install, uninstall and
// detection. Their exit codes are the contract the device-management
// platform consumes:
//
//   - install: propagate winget's exit code; 1 when winget is missing.
//   - uninstall: a package that is not installed counts as success (exit 0).
//   - detection: exit 0 only when winget list shows a line matching both the
//     exact ID and the exact version; any other outcome is non-zero.

package scripts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/windowsadmins/wingetpack/pkg/logging"
	"github.com/windowsadmins/wingetpack/pkg/utils"
)

// ScriptKind identifies which control script a spec describes.
type ScriptKind int

const (
	KindInstall ScriptKind = iota
	KindUninstall
	KindDetection
)

// String returns the script kind's display name.
func (k ScriptKind) String() string {
	switch k {
	case KindInstall:
		return "install"
	case KindUninstall:
		return "uninstall"
	case KindDetection:
		return "detection"
	default:
		return "unknown"
	}
}

// ScriptSpec is the parameter contract for one generated script. Specs are
// created fresh per packaging run and never mutated after the script is
// written.
type ScriptSpec struct {
	Kind       ScriptKind
	AppID      string
	AppName    string
	AppVersion string
	TargetDir  string
}

// Filename returns the on-disk name for the script. The install script is
// named after the sanitized package name because the packaging utility
// derives the archive name from its setup file; the other two have fixed
// names.
func (s ScriptSpec) Filename() string {
	switch s.Kind {
	case KindInstall:
		return utils.SanitizeFilename(s.AppName) + ".ps1"
	case KindUninstall:
		return "uninstall.ps1"
	default:
		return "detection.ps1"
	}
}

// Path returns the full target path for the script.
func (s ScriptSpec) Path() string {
	return filepath.Join(s.TargetDir, s.Filename())
}

// Validate checks the spec's parameter preconditions. Install and detection
// pin an exact version and therefore require one; uninstall removes whatever
// is present and does not.
func (s ScriptSpec) Validate() error {
	if s.AppID == "" || s.AppName == "" || s.TargetDir == "" {
		return fmt.Errorf("%s script requires a package ID, name and target directory", s.Kind)
	}
	if s.Kind != KindUninstall && s.AppVersion == "" {
		return fmt.Errorf("%s script requires a package version", s.Kind)
	}
	return nil
}

// Render produces the full PowerShell body for the script. It is pure: no
// filesystem access.
func (s ScriptSpec) Render() (string, error) {
	var tmpl *template.Template
	switch s.Kind {
	case KindInstall:
		tmpl = installTemplate
	case KindUninstall:
		tmpl = uninstallTemplate
	case KindDetection:
		tmpl = detectionTemplate
	default:
		return "", fmt.Errorf("unknown script kind %d", s.Kind)
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, s); err != nil {
		return "", fmt.Errorf("rendering %s script: %w", s.Kind, err)
	}
	return b.String(), nil
}

// Generate validates, renders and writes the script, returning its final
// path. The write is atomic from the caller's perspective: the script is
// staged to a temporary file and renamed into place, so the returned path
// never points at a partial file.
func Generate(spec ScriptSpec) (string, error) {
	if err := spec.Validate(); err != nil {
		return "", err
	}

	body, err := spec.Render()
	if err != nil {
		return "", err
	}

	target := spec.Path()
	staging, err := os.CreateTemp(spec.TargetDir, ".script-*.tmp")
	if err != nil {
		return "", fmt.Errorf("staging %s script: %w", spec.Kind, err)
	}

	if _, err := staging.WriteString(body); err != nil {
		staging.Close()
		os.Remove(staging.Name())
		return "", fmt.Errorf("writing %s script: %w", spec.Kind, err)
	}
	if err := staging.Close(); err != nil {
		os.Remove(staging.Name())
		return "", fmt.Errorf("writing %s script: %w", spec.Kind, err)
	}
	if err := os.Rename(staging.Name(), target); err != nil {
		os.Remove(staging.Name())
		return "", fmt.Errorf("placing %s script: %w", spec.Kind, err)
	}

	logging.Info("Generated script", "kind", spec.Kind.String(), "path", target)
	return target, nil
}
