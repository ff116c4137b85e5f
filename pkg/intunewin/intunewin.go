// pkg/intunewin/intunewin.go - adapter around IntuneWinAppUtil.exe.
//
// The wrapping tool is a Microsoft-supplied executable that packs a source
// folder plus a setup file into a single .intunewin archive. It is invoked
// with -q (quiet) so it never prompts, and the produced artifact is verified
// on disk because the tool has been observed to exit zero without writing it.

package intunewin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/windowsadmins/wingetpack/pkg/command"
	"github.com/windowsadmins/wingetpack/pkg/logging"
)

const (
	// ArchiveExtension is the suffix of the produced package archive.
	ArchiveExtension = ".intunewin"

	// ToolName is the canonical executable name of the wrapping tool.
	ToolName = "IntuneWinAppUtil.exe"
)

// runCommand is swapped out in tests.
var runCommand = command.Run

// ArtifactMissingError reports a zero-exit tool run that did not produce the
// expected archive.
type ArtifactMissingError struct {
	Path string
}

func (e *ArtifactMissingError) Error() string {
	return fmt.Sprintf("wrapping tool reported success but %s was not created", e.Path)
}

// IsTool reports whether path names the wrapping tool executable. Only the
// basename is checked, case-insensitively, so callers can point at any copy.
func IsTool(path string) bool {
	return strings.EqualFold(filepath.Base(path), ToolName)
}

// ExpectedArtifact returns the archive path the tool will produce for a given
// setup file: the setup file's base name with the archive extension, in the
// output directory.
func ExpectedArtifact(setupFile, outputDir string) string {
	base := strings.TrimSuffix(filepath.Base(setupFile), filepath.Ext(setupFile))
	return filepath.Join(outputDir, base+ArchiveExtension)
}

// Wrap runs the wrapping tool over sourceDir with setupFile as the entry
// point, writing the archive into outputDir. It returns the verified artifact
// path.
func Wrap(ctx context.Context, toolPath, sourceDir, setupFile, outputDir string) (string, error) {
	if _, err := os.Stat(toolPath); err != nil {
		return "", fmt.Errorf("wrapping tool not accessible at %q: %w", toolPath, err)
	}
	if _, err := os.Stat(setupFile); err != nil {
		return "", fmt.Errorf("setup file not accessible at %q: %w", setupFile, err)
	}
	info, err := os.Stat(sourceDir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("source folder %q is not a directory", sourceDir)
	}

	logging.Info("Wrapping package", "tool", toolPath, "source", sourceDir, "setup", setupFile)
	result, err := runCommand(ctx, toolPath, "-c", sourceDir, "-s", setupFile, "-o", outputDir, "-q")
	if err != nil {
		return "", fmt.Errorf("running wrapping tool: %w", err)
	}
	if result.ExitCode != 0 {
		logging.Debug("Wrapping tool output", "stdout", result.Stdout, "stderr", result.Stderr)
		return "", fmt.Errorf("wrapping tool exited with code %d", result.ExitCode)
	}

	artifact := ExpectedArtifact(setupFile, outputDir)
	if _, err := os.Stat(artifact); err != nil {
		return "", &ArtifactMissingError{Path: artifact}
	}

	logging.Success("Created package archive", "path", artifact)
	return artifact, nil
}
