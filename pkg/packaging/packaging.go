// pkg/packaging/packaging.go - orchestration of the packaging pipeline.
//
// One run takes a catalog record through download, script generation and
// archive wrapping. Inputs are validated before any side effect; on failure
// the working directory is retained for inspection together with a job.yaml
// report, and on success it is removed. A packager executes one job at a
// time.

package packaging

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/windowsadmins/wingetpack/pkg/blocking"
	"github.com/windowsadmins/wingetpack/pkg/extract"
	"github.com/windowsadmins/wingetpack/pkg/intunewin"
	"github.com/windowsadmins/wingetpack/pkg/locator"
	"github.com/windowsadmins/wingetpack/pkg/logging"
	"github.com/windowsadmins/wingetpack/pkg/scripts"
	"github.com/windowsadmins/wingetpack/pkg/winget"
)

// CatalogTool downloads installers from the package catalog.
type CatalogTool interface {
	Download(ctx context.Context, id, version, destDir string) error
}

// Wrapper turns a source folder plus setup file into the final archive.
type Wrapper interface {
	Wrap(ctx context.Context, toolPath, sourceDir, setupFile, outputDir string) (string, error)
}

// toolWrapper adapts the package-level intunewin functions to the Wrapper
// interface.
type toolWrapper struct{}

func (toolWrapper) Wrap(ctx context.Context, toolPath, sourceDir, setupFile, outputDir string) (string, error) {
	return intunewin.Wrap(ctx, toolPath, sourceDir, setupFile, outputDir)
}

// Request names the package to build and where to put the result.
type Request struct {
	AppID      string
	AppName    string
	AppVersion string
	OutputDir  string
	ToolPath   string
}

// Packager executes packaging jobs sequentially.
type Packager struct {
	catalog CatalogTool
	wrapper Wrapper
	timeout time.Duration

	mu sync.Mutex
}

// New returns a packager using the real winget client and wrapping tool.
// timeout bounds each external process invocation; zero disables the bound.
func New(timeout time.Duration) *Packager {
	return &Packager{
		catalog: winget.Client{},
		wrapper: toolWrapper{},
		timeout: timeout,
	}
}

// NewWithTools returns a packager with injected adapters.
func NewWithTools(catalog CatalogTool, wrapper Wrapper, timeout time.Duration) *Packager {
	return &Packager{catalog: catalog, wrapper: wrapper, timeout: timeout}
}

// Package runs the full pipeline for one request. The returned job always
// carries whatever paths were produced before a failure.
func (p *Packager) Package(ctx context.Context, req Request) (*Job, error) {
	if !p.mu.TryLock() {
		return nil, fmt.Errorf("a packaging job is already running")
	}
	defer p.mu.Unlock()

	job := &Job{
		AppID:      req.AppID,
		AppName:    req.AppName,
		AppVersion: req.AppVersion,
		OutputDir:  req.OutputDir,
		ToolPath:   req.ToolPath,
	}

	job.State = StateValidating
	if err := validate(req); err != nil {
		return p.fail(job, err), err
	}

	if running := blocking.RunningPackagingTools(); len(running) > 0 {
		logging.Warn("Packaging tools already running on this host", "processes", strings.Join(running, ", "))
	}

	job.State = StateCreatingTempDir
	tempDir, err := os.MkdirTemp("", "wingetpack-")
	if err != nil {
		err = fmt.Errorf("creating working directory: %w", err)
		return p.fail(job, err), err
	}
	job.TempDir = tempDir
	logging.Info("Created working directory", "path", tempDir)

	job.State = StateDownloading
	downloadCtx, cancel := p.boundedContext(ctx)
	err = p.catalog.Download(downloadCtx, req.AppID, req.AppVersion, tempDir)
	cancel()
	if err != nil {
		err = fmt.Errorf("downloading %s %s: %w", req.AppID, req.AppVersion, err)
		return p.fail(job, err), err
	}

	installer, err := locator.Find(tempDir, req.AppID)
	if err != nil {
		err = fmt.Errorf("locating downloaded installer: %w", err)
		return p.fail(job, err), err
	}
	job.InstallerPath = installer

	if name, ver, err := extract.AppxIdentity(installer); err == nil {
		logging.Info("Installer identity", "name", name, "version", ver)
	}

	job.State = StateGeneratingScripts
	if err := p.generateScripts(job, req); err != nil {
		return p.fail(job, err), err
	}

	job.State = StateArchiving
	wrapCtx, cancel := p.boundedContext(ctx)
	artifact, err := p.wrapper.Wrap(wrapCtx, req.ToolPath, tempDir, job.InstallScript, req.OutputDir)
	cancel()
	if err != nil {
		err = fmt.Errorf("wrapping package: %w", err)
		return p.fail(job, err), err
	}
	job.ArtifactPath = artifact
	logging.Success("Packaged application", "id", req.AppID, "version", req.AppVersion, "artifact", artifact)

	job.State = StateCleanup
	if err := os.RemoveAll(tempDir); err != nil {
		logging.Warn("Could not remove working directory", "path", tempDir, "error", err)
	} else {
		job.TempDir = ""
	}

	job.State = StateIdle
	return job, nil
}

// generateScripts writes the three control scripts into the working
// directory, failing fast on the first error.
func (p *Packager) generateScripts(job *Job, req Request) error {
	kinds := []scripts.ScriptKind{scripts.KindInstall, scripts.KindUninstall, scripts.KindDetection}
	for _, kind := range kinds {
		path, err := scripts.Generate(scripts.ScriptSpec{
			Kind:       kind,
			AppID:      req.AppID,
			AppName:    req.AppName,
			AppVersion: req.AppVersion,
			TargetDir:  job.TempDir,
		})
		if err != nil {
			return fmt.Errorf("generating %s script: %w", kind, err)
		}
		switch kind {
		case scripts.KindInstall:
			job.InstallScript = path
		case scripts.KindUninstall:
			job.UninstallScript = path
		case scripts.KindDetection:
			job.DetectionScript = path
		}
	}
	return nil
}

// fail marks the job failed, retains the working directory and writes a
// job.yaml report into it so the failure can be inspected later.
func (p *Packager) fail(job *Job, err error) *Job {
	job.FailedState = job.State.String()
	job.State = StateFailed
	job.Err = err
	job.Failure = err.Error()
	logging.Error("Packaging failed", "id", job.AppID, "during", job.FailedState, "error", err)

	if job.TempDir != "" {
		report := filepath.Join(job.TempDir, "job.yaml")
		if data, marshalErr := yaml.Marshal(job); marshalErr == nil {
			if writeErr := os.WriteFile(report, data, 0644); writeErr != nil {
				logging.Debug("Could not write failure report", "path", report, "error", writeErr)
			}
		}
		logging.Warn("Working directory retained for inspection", "path", job.TempDir)
	}
	return job
}

// boundedContext derives the per-process context from ctx.
func (p *Packager) boundedContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.timeout)
}

// validate checks the request before any filesystem or process side effect.
func validate(req Request) error {
	if req.AppID == "" {
		return &ValidationError{Reason: "package ID is required"}
	}
	if req.AppName == "" {
		return &ValidationError{Reason: "package name is required"}
	}
	if req.AppVersion == "" {
		return &ValidationError{Reason: "package version is required"}
	}
	if req.ToolPath == "" {
		return &ValidationError{Reason: "wrapping tool path is required"}
	}
	if _, err := os.Stat(req.ToolPath); err != nil {
		return &ValidationError{Reason: fmt.Sprintf("wrapping tool not accessible at %q", req.ToolPath)}
	}
	info, err := os.Stat(req.OutputDir)
	if err != nil || !info.IsDir() {
		return &ValidationError{Reason: fmt.Sprintf("output directory %q does not exist", req.OutputDir)}
	}
	return nil
}
