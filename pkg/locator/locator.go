// pkg/locator/locator.go - locating the downloaded installer artifact.
//
// winget download drops the installer either directly into the download
// directory or into a subdirectory it names itself (often after the package
// ID). The locator handles both, and resolves ambiguity when several
// plausible artifacts are present.

package locator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/windowsadmins/wingetpack/pkg/logging"
)

// ErrNotFound reports that no recognizable installer exists under the
// download directory.
var ErrNotFound = errors.New("no installer file found")

// installerExtensions is the recognized set of installer artifact types.
var installerExtensions = map[string]bool{
	".exe":        true,
	".msi":        true,
	".msix":       true,
	".msixbundle": true,
	".appx":       true,
	".appxbundle": true,
	".zip":        true,
}

// genericInstallerDirs are subdirectory names winget and installers commonly
// use regardless of package identity.
var genericInstallerDirs = map[string]bool{
	"installer": true,
	"install":   true,
	"setup":     true,
}

// Find scans dir for a downloaded installer belonging to packageID. It
// checks the directory's immediate files first, then falls back to
// subdirectories whose name relates to the package ID. When several
// candidates exist, the one whose filename contains the package ID wins;
// otherwise the first in listing order is taken. Both ambiguity and the
// fallback are logged.
func Find(dir, packageID string) (string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("download directory %q is not accessible: %w", dir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("download directory %q is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("reading download directory %q: %w", dir, err)
	}

	candidates := collectInstallers(dir, entries)

	if len(candidates) == 0 {
		candidates = scanSubdirectories(dir, entries, packageID)
	}

	switch len(candidates) {
	case 0:
		return "", ErrNotFound
	case 1:
		logging.Info("Found installer", "path", candidates[0])
		return candidates[0], nil
	}

	// Known-weak heuristic: substring containment of the package ID can pick
	// the wrong file for packages with generic IDs.
	logging.Warn("Multiple installer candidates found", "dir", dir, "candidates", strings.Join(candidates, "; "))
	lowerID := strings.ToLower(packageID)
	for _, candidate := range candidates {
		if strings.Contains(strings.ToLower(filepath.Base(candidate)), lowerID) {
			logging.Info("Selected installer whose name contains the package ID", "path", candidate)
			return candidate, nil
		}
	}
	logging.Info("Selected first installer candidate as fallback", "path", candidates[0])
	return candidates[0], nil
}

// collectInstallers returns the files in entries with a recognized installer
// extension, in listing order.
func collectInstallers(dir string, entries []os.DirEntry) []string {
	var found []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if installerExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			found = append(found, filepath.Join(dir, entry.Name()))
		}
	}
	return found
}

// scanSubdirectories checks immediate subdirectories whose name shares a
// token with the package ID, matches it outright, or is a generic installer
// folder name. The first subdirectory that yields candidates wins.
func scanSubdirectories(dir string, entries []os.DirEntry, packageID string) []string {
	idSegments := strings.Split(strings.ToLower(packageID), ".")

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := strings.ToLower(entry.Name())
		if !subdirMatches(name, idSegments, strings.ToLower(packageID)) {
			continue
		}

		subdir := filepath.Join(dir, entry.Name())
		logging.Debug("Checking installer subdirectory", "path", subdir)
		subEntries, err := os.ReadDir(subdir)
		if err != nil {
			logging.Debug("Skipping unreadable subdirectory", "path", subdir, "error", err)
			continue
		}
		if found := collectInstallers(subdir, subEntries); len(found) > 0 {
			return found
		}
	}
	return nil
}

func subdirMatches(name string, idSegments []string, lowerID string) bool {
	if genericInstallerDirs[name] || name == lowerID {
		return true
	}
	for _, segment := range idSegments {
		if segment != "" && strings.Contains(name, segment) {
			return true
		}
	}
	return false
}
