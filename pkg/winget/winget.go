// pkg/winget/winget.go - wrappers around the winget command-line client.

package winget

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/windowsadmins/wingetpack/pkg/command"
	"github.com/windowsadmins/wingetpack/pkg/logging"
)

// Executable is the catalog tool invoked for search and download.
const Executable = "winget"

// ErrNotInstalled reports that the winget executable could not be resolved.
var ErrNotInstalled = errors.New("winget is not installed or not on PATH")

// runCommand is abstracted for testing.
var runCommand = command.Run

// Client invokes winget for catalog operations. The zero value is ready to
// use.
type Client struct{}

// Search runs a catalog search and parses the tabular output into records.
// Parser diagnostics are logged, not returned: a degraded parse is not an
// error.
func (Client) Search(ctx context.Context, term string) ([]PackageRecord, error) {
	result, err := run(ctx, "search", term, "--accept-source-agreements")
	if err != nil {
		return nil, err
	}
	if result.ExitCode != 0 {
		logStreams(result)
		return nil, fmt.Errorf("winget search exited with code %d", result.ExitCode)
	}

	records, notes := Parse(result.Stdout)
	for _, note := range notes {
		logging.Warn("Search output parsing degraded", "note", note)
	}
	logging.Info("Search complete", "term", term, "results", len(records))
	return records, nil
}

// Download fetches the exact version of a package into destDir. The
// downloaded artifact is located separately; success here only means winget
// reported a clean exit.
func (Client) Download(ctx context.Context, id, version, destDir string) error {
	result, err := run(ctx, "download",
		"--id", id,
		"--version", version,
		"--exact",
		"--download-directory", destDir,
		"--accept-package-agreements",
		"--accept-source-agreements",
	)
	if err != nil {
		return err
	}
	if result.ExitCode != 0 {
		logStreams(result)
		return fmt.Errorf("winget download exited with code %d for %s %s", result.ExitCode, id, version)
	}
	logging.Info("Download command completed", "id", id, "version", version)
	return nil
}

// run invokes winget with the given arguments, mapping an unresolvable
// executable to ErrNotInstalled.
func run(ctx context.Context, args ...string) (command.ProcessResult, error) {
	logging.Debug("Executing winget", "args", strings.Join(args, " "))
	result, err := runCommand(ctx, Executable, args...)
	if err != nil {
		var notFound *command.NotFoundError
		if errors.As(err, &notFound) {
			return result, ErrNotInstalled
		}
		return result, err
	}
	logging.Debug("winget finished", "exit_code", result.ExitCode)
	return result, nil
}

// logStreams records captured output of a failed invocation at debug level.
func logStreams(result command.ProcessResult) {
	if out := strings.TrimSpace(result.Stdout); out != "" {
		logging.Debug("winget stdout", "output", out)
	}
	if errOut := strings.TrimSpace(result.Stderr); errOut != "" {
		logging.Debug("winget stderr", "output", errOut)
	}
}
