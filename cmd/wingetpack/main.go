// cmd/wingetpack/main.go

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/windowsadmins/wingetpack/pkg/config"
	"github.com/windowsadmins/wingetpack/pkg/intunewin"
	"github.com/windowsadmins/wingetpack/pkg/logging"
	"github.com/windowsadmins/wingetpack/pkg/packaging"
	"github.com/windowsadmins/wingetpack/pkg/sysinfo"
	"github.com/windowsadmins/wingetpack/pkg/version"
	"github.com/windowsadmins/wingetpack/pkg/winget"
)

const usage = `Usage:
  wingetpack search <term>                     Search the winget catalog.
  wingetpack package --id <ID> [flags]         Download, script and wrap a package.
  wingetpack set-tool <path>                   Save the IntuneWinAppUtil.exe location.

Flags:
`

func main() {
	versionFlag := pflag.Bool("version", false, "Print the version and exit.")
	appID := pflag.String("id", "", "Exact winget package ID to build.")
	appName := pflag.String("name", "", "Display name for the package (defaults to the ID).")
	appVersion := pflag.String("app-version", "", "Exact version to build (defaults to the latest in the catalog).")
	outputDir := pflag.String("output", ".", "Directory that receives the .intunewin archive.")
	toolPath := pflag.String("tool", "", "Path to IntuneWinAppUtil.exe (defaults to the saved configuration).")

	var verbosity int
	pflag.CountVarP(&verbosity, "verbose", "v", "Increase verbosity (e.g. -v, -vv, -vvv)")
	pflag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *versionFlag {
		version.PrintFull()
		os.Exit(0)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// -v flags override the configured log level.
	switch verbosity {
	case 0:
		// keep the configured level
	case 1:
		cfg.LogLevel = "INFO"
	default:
		cfg.LogLevel = "DEBUG"
	}

	if err := logging.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var runErr error
	switch pflag.Arg(0) {
	case "search":
		runErr = runSearch(ctx, pflag.Arg(1))
	case "package":
		runErr = runPackage(ctx, cfg, *appID, *appName, *appVersion, *outputDir, *toolPath)
	case "set-tool":
		runErr = runSetTool(cfg, pflag.Arg(1))
	default:
		pflag.Usage()
		os.Exit(2)
	}

	if runErr != nil {
		logging.Error("Command failed", "error", runErr)
		os.Exit(1)
	}
}

// runSearch prints catalog matches for a term as a table.
func runSearch(ctx context.Context, term string) error {
	if term == "" {
		return fmt.Errorf("search requires a term")
	}

	records, err := winget.Client{}.Search(ctx, term)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No packages found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tID\tVERSION\tSOURCE")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", rec.Name, rec.ID, rec.Version, rec.Source)
	}
	return w.Flush()
}

// runPackage drives the full packaging pipeline for one package.
func runPackage(ctx context.Context, cfg *config.Configuration, id, name, ver, outputDir, toolPath string) error {
	if id == "" {
		return fmt.Errorf("package requires --id")
	}
	if name == "" {
		name = id
	}
	if toolPath == "" {
		toolPath = cfg.IntuneWinUtilPath
	}
	if toolPath == "" {
		return fmt.Errorf("no wrapping tool configured; pass --tool or run set-tool first")
	}

	if facts, err := sysinfo.Collect(); err == nil {
		logging.Debug("Host facts", "os", facts.Caption, "version", facts.Version, "arch", facts.Architecture)
	}

	if ver == "" {
		records, err := winget.Client{}.Search(ctx, id)
		if err != nil {
			return fmt.Errorf("resolving latest version: %w", err)
		}
		latest, ok := winget.LatestVersion(records, id)
		if !ok {
			return fmt.Errorf("package %q not found in the catalog", id)
		}
		ver = latest
		logging.Info("Resolved latest version", "id", id, "version", ver)
	}

	packer := packaging.New(cfg.ProcessTimeout())
	job, err := packer.Package(ctx, packaging.Request{
		AppID:      id,
		AppName:    name,
		AppVersion: ver,
		OutputDir:  outputDir,
		ToolPath:   toolPath,
	})
	if err != nil {
		if job != nil && job.TempDir != "" {
			fmt.Fprintf(os.Stderr, "Working files retained at %s\n", job.TempDir)
		}
		return err
	}

	fmt.Printf("Created %s\n", job.ArtifactPath)
	return nil
}

// runSetTool validates and persists the wrapping tool location.
func runSetTool(cfg *config.Configuration, path string) error {
	if path == "" {
		return fmt.Errorf("set-tool requires a path")
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("tool not accessible at %q: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%q is a directory, not the packaging tool", path)
	}
	if !intunewin.IsTool(path) {
		return fmt.Errorf("%q does not look like %s", path, intunewin.ToolName)
	}

	cfg.IntuneWinUtilPath = path
	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("saving configuration: %w", err)
	}
	logging.Success("Saved wrapping tool location", "path", path)
	return nil
}
