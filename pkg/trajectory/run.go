package trajectory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/XiaoConstantine/trajectory-go/pkg/errors"
)

// File layout of one run directory.
const (
	TrajectoryFile       = "trajectory.json"
	MetadataFile         = "metadata.json"
	TrajectoryBackupFile = "trajectory.original.json"
	MetadataBackupFile   = "metadata.original.json"
	ReportFile           = "optimization_report.json"
	HTMLFile             = "trajectory.html"
	HTMLBackupFile       = "trajectory.original.html"
	ExplanationFile      = "augmentation_explanation.txt"
	AugmentErrorFile     = "augmentation_error.json"
	ImagesDir            = "images"

	screenshotTemplate = "screenshot_%03d.png"
)

var screenshotNumberRegex = regexp.MustCompile(`screenshot_(\d+)\.png$`)

// Run is a handle on one trajectory run directory.
type Run struct {
	Dir string
}

// OpenRun wraps a run directory path.
func OpenRun(dir string) *Run {
	return &Run{Dir: dir}
}

// Name returns the run directory name.
func (r *Run) Name() string {
	return filepath.Base(r.Dir)
}

func (r *Run) TrajectoryPath() string { return filepath.Join(r.Dir, TrajectoryFile) }
func (r *Run) MetadataPath() string   { return filepath.Join(r.Dir, MetadataFile) }
func (r *Run) BackupPath() string     { return filepath.Join(r.Dir, TrajectoryBackupFile) }
func (r *Run) MetadataBackupPath() string {
	return filepath.Join(r.Dir, MetadataBackupFile)
}
func (r *Run) ReportPath() string       { return filepath.Join(r.Dir, ReportFile) }
func (r *Run) HTMLPath() string         { return filepath.Join(r.Dir, HTMLFile) }
func (r *Run) HTMLBackupPath() string   { return filepath.Join(r.Dir, HTMLBackupFile) }
func (r *Run) ExplanationPath() string  { return filepath.Join(r.Dir, ExplanationFile) }
func (r *Run) AugmentErrorPath() string { return filepath.Join(r.Dir, AugmentErrorFile) }
func (r *Run) ImagesPath() string       { return filepath.Join(r.Dir, ImagesDir) }

// ScreenshotPath returns the screenshot file for an original step index.
func (r *Run) ScreenshotPath(n int) string {
	return filepath.Join(r.ImagesPath(), fmt.Sprintf(screenshotTemplate, n))
}

// HasRequiredFiles reports whether the run carries both trajectory.json and
// metadata.json.
func (r *Run) HasRequiredFiles() bool {
	for _, p := range []string{r.TrajectoryPath(), r.MetadataPath()} {
		if _, err := os.Stat(p); err != nil {
			return false
		}
	}
	return true
}

// LoadTrajectory reads and decodes trajectory.json.
func (r *Run) LoadTrajectory() (Trajectory, error) {
	data, err := os.ReadFile(r.TrajectoryPath())
	if os.IsNotExist(err) {
		return nil, errors.WithFields(
			errors.New(errors.MissingRunFiles, "trajectory.json not found"),
			errors.Fields{"run": r.Name()},
		)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.Unknown, "failed to read trajectory.json")
	}

	var traj Trajectory
	if err := json.Unmarshal(data, &traj); err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, errors.ValidationFailed, "failed to decode trajectory.json"),
			errors.Fields{"run": r.Name()},
		)
	}
	if _, err := traj.Indices(); err != nil {
		return nil, err
	}
	return traj, nil
}

// LoadMetadata reads and decodes metadata.json.
func (r *Run) LoadMetadata() (*Metadata, error) {
	data, err := os.ReadFile(r.MetadataPath())
	if os.IsNotExist(err) {
		return nil, errors.WithFields(
			errors.New(errors.MissingRunFiles, "metadata.json not found"),
			errors.Fields{"run": r.Name()},
		)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.Unknown, "failed to read metadata.json")
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, errors.ValidationFailed, "failed to decode metadata.json"),
			errors.Fields{"run": r.Name()},
		)
	}
	return &meta, nil
}

// ScreenshotPaths returns one screenshot path per step in ascending original
// index order, plus the trailing final-state screenshot at max(step)+1.
// Paths are returned whether or not the files exist; callers skip missing
// ones when building oracle requests.
func (r *Run) ScreenshotPaths(traj Trajectory) ([]string, error) {
	indices, err := traj.Indices()
	if err != nil {
		return nil, err
	}
	if len(indices) == 0 {
		return nil, nil
	}

	paths := make([]string, 0, len(indices)+1)
	for _, n := range indices {
		paths = append(paths, r.ScreenshotPath(n))
	}
	paths = append(paths, r.ScreenshotPath(indices[len(indices)-1]+1))
	return paths, nil
}

// StepNumberFromScreenshot extracts the original step number embedded in a
// screenshot filename. This filename-derived number is the canonical
// numbering for screenshot labels; list position is only derived from it.
func StepNumberFromScreenshot(path string) (int, error) {
	m := screenshotNumberRegex.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return 0, errors.WithFields(
			errors.New(errors.InvalidInput, "filename does not match screenshot template"),
			errors.Fields{"path": path},
		)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, errors.Wrap(err, errors.InvalidInput, "invalid screenshot number")
	}
	return n, nil
}
