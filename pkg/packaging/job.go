// pkg/packaging/job.go - the state carried through one packaging run.

package packaging

import "fmt"

// State is the lifecycle stage of a packaging job. Transitions are linear;
// any stage can move to StateFailed and a finished job returns to StateIdle.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateCreatingTempDir
	StateDownloading
	StateGeneratingScripts
	StateArchiving
	StateCleanup
	StateFailed
)

// String returns the state's display name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateCreatingTempDir:
		return "creating temp directory"
	case StateDownloading:
		return "downloading"
	case StateGeneratingScripts:
		return "generating scripts"
	case StateArchiving:
		return "archiving"
	case StateCleanup:
		return "cleanup"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Job records the inputs and accumulated outputs of one packaging run. It is
// returned to the caller in both the success and failure case so the
// retained working directory can be inspected after a failure.
type Job struct {
	AppID      string `yaml:"app_id"`
	AppName    string `yaml:"app_name"`
	AppVersion string `yaml:"app_version"`
	OutputDir  string `yaml:"output_dir"`
	ToolPath   string `yaml:"tool_path"`

	TempDir         string `yaml:"temp_dir,omitempty"`
	InstallerPath   string `yaml:"installer_path,omitempty"`
	InstallScript   string `yaml:"install_script,omitempty"`
	UninstallScript string `yaml:"uninstall_script,omitempty"`
	DetectionScript string `yaml:"detection_script,omitempty"`
	ArtifactPath    string `yaml:"artifact_path,omitempty"`

	State       State  `yaml:"-"`
	FailedState string `yaml:"failed_during,omitempty"`
	Failure     string `yaml:"failure,omitempty"`
	Err         error  `yaml:"-"`
}

// ValidationError reports an input rejected before any side effect occurred.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid packaging request: %s", e.Reason)
}
