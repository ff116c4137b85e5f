package packaging

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCatalog fakes winget download by dropping an installer file into the
// destination directory.
type stubCatalog struct {
	err      error
	download func(destDir string) error
}

func (s *stubCatalog) Download(ctx context.Context, id, version, destDir string) error {
	if s.err != nil {
		return s.err
	}
	if s.download != nil {
		return s.download(destDir)
	}
	return os.WriteFile(filepath.Join(destDir, "installer.msi"), []byte("installer"), 0644)
}

// stubWrapper fakes the wrapping tool by writing the expected artifact.
type stubWrapper struct {
	err error
}

func (s *stubWrapper) Wrap(ctx context.Context, toolPath, sourceDir, setupFile, outputDir string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	base := filepath.Base(setupFile)
	artifact := filepath.Join(outputDir, base[:len(base)-len(filepath.Ext(base))]+".intunewin")
	if err := os.WriteFile(artifact, []byte("archive"), 0644); err != nil {
		return "", err
	}
	return artifact, nil
}

func writeTool(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "IntuneWinAppUtil.exe")
	require.NoError(t, os.WriteFile(path, []byte("tool"), 0644))
	return path
}

func firefoxRequest(t *testing.T) Request {
	t.Helper()
	return Request{
		AppID:      "Mozilla.Firefox",
		AppName:    "Mozilla Firefox",
		AppVersion: "120.0",
		OutputDir:  t.TempDir(),
		ToolPath:   writeTool(t),
	}
}

func TestPackageEndToEnd(t *testing.T) {
	req := firefoxRequest(t)
	p := NewWithTools(&stubCatalog{}, &stubWrapper{}, 0)

	job, err := p.Package(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, StateIdle, job.State)
	assert.Equal(t, filepath.Join(req.OutputDir, "MozillaFirefox.intunewin"), job.ArtifactPath)
	assert.FileExists(t, job.ArtifactPath)

	// Exactly one artifact in the output directory.
	entries, err := os.ReadDir(req.OutputDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	// Working directory removed on success.
	assert.Empty(t, job.TempDir)
}

func TestPackageValidationBeforeSideEffects(t *testing.T) {
	req := firefoxRequest(t)
	req.OutputDir = filepath.Join(t.TempDir(), "does-not-exist")
	p := NewWithTools(&stubCatalog{}, &stubWrapper{}, 0)

	job, err := p.Package(context.Background(), req)
	require.Error(t, err)

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, StateFailed, job.State)
	assert.Equal(t, StateValidating.String(), job.FailedState)
	// Rejected before any temp directory was created.
	assert.Empty(t, job.TempDir)
}

func TestPackageMissingVersionRejected(t *testing.T) {
	req := firefoxRequest(t)
	req.AppVersion = ""
	p := NewWithTools(&stubCatalog{}, &stubWrapper{}, 0)

	_, err := p.Package(context.Background(), req)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestPackageDownloadFailureRetainsWorkdir(t *testing.T) {
	req := firefoxRequest(t)
	p := NewWithTools(&stubCatalog{err: errors.New("network unreachable")}, &stubWrapper{}, 0)

	job, err := p.Package(context.Background(), req)
	require.Error(t, err)

	assert.Equal(t, StateFailed, job.State)
	assert.Equal(t, StateDownloading.String(), job.FailedState)
	require.NotEmpty(t, job.TempDir)
	assert.DirExists(t, job.TempDir)
	assert.FileExists(t, filepath.Join(job.TempDir, "job.yaml"))
	t.Cleanup(func() { os.RemoveAll(job.TempDir) })
}

func TestPackageWrapFailureRetainsScriptsAndInstaller(t *testing.T) {
	req := firefoxRequest(t)
	p := NewWithTools(&stubCatalog{}, &stubWrapper{err: errors.New("tool crashed")}, 0)

	job, err := p.Package(context.Background(), req)
	require.Error(t, err)

	assert.Equal(t, StateArchiving.String(), job.FailedState)
	require.NotEmpty(t, job.TempDir)
	assert.FileExists(t, job.InstallerPath)
	assert.FileExists(t, job.InstallScript)
	assert.FileExists(t, job.UninstallScript)
	assert.FileExists(t, job.DetectionScript)
	t.Cleanup(func() { os.RemoveAll(job.TempDir) })
}

func TestPackageNoInstallerFound(t *testing.T) {
	req := firefoxRequest(t)
	catalog := &stubCatalog{download: func(string) error { return nil }}
	p := NewWithTools(catalog, &stubWrapper{}, 0)

	job, err := p.Package(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, StateDownloading.String(), job.FailedState)
	require.NotEmpty(t, job.TempDir)
	t.Cleanup(func() { os.RemoveAll(job.TempDir) })
}

func TestPackageSingleJobAtATime(t *testing.T) {
	p := NewWithTools(&stubCatalog{}, &stubWrapper{}, 0)
	p.mu.Lock()
	defer p.mu.Unlock()

	_, err := p.Package(context.Background(), firefoxRequest(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already running")
}

func TestStateStrings(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "downloading", StateDownloading.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "unknown", State(99).String())
}
