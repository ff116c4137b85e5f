package scripts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilenames(t *testing.T) {
	install := ScriptSpec{Kind: KindInstall, AppName: "Mozilla Firefox"}
	assert.Equal(t, "MozillaFirefox.ps1", install.Filename())

	uninstall := ScriptSpec{Kind: KindUninstall, AppName: "Mozilla Firefox"}
	assert.Equal(t, "uninstall.ps1", uninstall.Filename())

	detection := ScriptSpec{Kind: KindDetection, AppName: "Mozilla Firefox"}
	assert.Equal(t, "detection.ps1", detection.Filename())
}

func TestValidateVersionRequirement(t *testing.T) {
	base := ScriptSpec{AppID: "Mozilla.Firefox", AppName: "Mozilla Firefox", TargetDir: t.TempDir()}

	install := base
	install.Kind = KindInstall
	assert.Error(t, install.Validate())
	install.AppVersion = "120.0"
	assert.NoError(t, install.Validate())

	detection := base
	detection.Kind = KindDetection
	assert.Error(t, detection.Validate())

	uninstall := base
	uninstall.Kind = KindUninstall
	assert.NoError(t, uninstall.Validate())
}

func TestValidateRejectsMissingIdentity(t *testing.T) {
	spec := ScriptSpec{Kind: KindInstall, AppVersion: "1.0", TargetDir: t.TempDir()}
	assert.Error(t, spec.Validate())
}

func TestRenderInstall(t *testing.T) {
	spec := ScriptSpec{
		Kind:       KindInstall,
		AppID:      "Mozilla.Firefox",
		AppName:    "Mozilla Firefox",
		AppVersion: "120.0",
	}

	body, err := spec.Render()
	require.NoError(t, err)
	assert.Contains(t, body, `--id "Mozilla.Firefox"`)
	assert.Contains(t, body, `--version "120.0"`)
	assert.Contains(t, body, "--scope machine")
	assert.Contains(t, body, "--accept-package-agreements")
	assert.Contains(t, body, "--disable-interactivity")
	assert.Contains(t, body, "exit $LASTEXITCODE")
	assert.NotContains(t, body, "{{")
}

func TestRenderUninstallSucceedsWhenAbsent(t *testing.T) {
	spec := ScriptSpec{Kind: KindUninstall, AppID: "Vendor.App", AppName: "App"}

	body, err := spec.Render()
	require.NoError(t, err)
	assert.Contains(t, body, "not installed; nothing to do")
	assert.Contains(t, body, "exit 0")
	assert.Contains(t, body, "winget uninstall")
	assert.NotContains(t, body, "{{")
}

func TestRenderDetectionMatchesExactVersion(t *testing.T) {
	spec := ScriptSpec{Kind: KindDetection, AppID: "Vendor.App", AppName: "App", AppVersion: "2.1.3"}

	body, err := spec.Render()
	require.NoError(t, err)
	assert.Contains(t, body, `[regex]::Escape("Vendor.App")`)
	assert.Contains(t, body, `[regex]::Escape("2.1.3")`)
	assert.Contains(t, body, "exit 0")
	assert.Contains(t, body, "exit 1")
	assert.NotContains(t, body, "{{")
}

func TestGenerateWritesScript(t *testing.T) {
	dir := t.TempDir()
	spec := ScriptSpec{
		Kind:       KindInstall,
		AppID:      "Mozilla.Firefox",
		AppName:    "Mozilla Firefox",
		AppVersion: "120.0",
		TargetDir:  dir,
	}

	path, err := Generate(spec)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "MozillaFirefox.ps1"), path)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Mozilla.Firefox")

	// No staging temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.False(t, strings.HasPrefix(entry.Name(), ".script-"), "staging file %s left behind", entry.Name())
	}
}

func TestGenerateRejectsInvalidSpec(t *testing.T) {
	spec := ScriptSpec{Kind: KindInstall, AppID: "Vendor.App", AppName: "App", TargetDir: t.TempDir()}
	_, err := Generate(spec)
	assert.Error(t, err)
}

func TestGenerateFailsOnMissingTargetDir(t *testing.T) {
	spec := ScriptSpec{
		Kind:      KindUninstall,
		AppID:     "Vendor.App",
		AppName:   "App",
		TargetDir: filepath.Join(t.TempDir(), "missing"),
	}
	_, err := Generate(spec)
	assert.Error(t, err)
}
