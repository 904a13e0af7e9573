package purge

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/temirov/draftsweep/internal/drafts"
)

const (
	summaryIndentationConstant         = 2
	summaryEncodeErrorTemplateConstant = "unable to write run summary: %w"
	absentThresholdRenderingConstant   = "none"
)

// RunSummary is the YAML document printed after every run.
type RunSummary struct {
	Repository string           `yaml:"repository"`
	Threshold  string           `yaml:"threshold"`
	Status     string           `yaml:"status"`
	Message    string           `yaml:"message,omitempty"`
	DryRun     bool             `yaml:"dry_run"`
	Selected   []int64          `yaml:"selected"`
	Deleted    int              `yaml:"deleted"`
	Failed     int              `yaml:"failed"`
	Failures   []FailureSummary `yaml:"failures,omitempty"`
}

// FailureSummary describes one unconfirmed deletion.
type FailureSummary struct {
	ReleaseID  int64  `yaml:"release_id"`
	StatusCode int    `yaml:"status_code,omitempty"`
	Error      string `yaml:"error,omitempty"`
}

// NewRunSummary flattens an outcome for printing.
func NewRunSummary(repository drafts.RepositoryCoordinates, thresholdValue string, outcome drafts.RunOutcome) RunSummary {
	if len(thresholdValue) == 0 {
		thresholdValue = absentThresholdRenderingConstant
	}

	summary := RunSummary{
		Repository: repository.String(),
		Threshold:  thresholdValue,
		Status:     string(outcome.Status),
		Message:    outcome.Message,
		DryRun:     outcome.DryRun,
		Selected:   make([]int64, 0, len(outcome.Selected)),
		Deleted:    outcome.DeletedCount(),
		Failed:     outcome.FailedCount(),
	}

	for _, releaseID := range outcome.Selected {
		summary.Selected = append(summary.Selected, int64(releaseID))
	}

	for _, result := range outcome.Results {
		if result.Succeeded() {
			continue
		}
		failure := FailureSummary{ReleaseID: int64(result.ReleaseID), StatusCode: result.StatusCode}
		if result.Error != nil {
			failure.Error = result.Error.Error()
		}
		summary.Failures = append(summary.Failures, failure)
	}

	return summary
}

// WriteRunSummary encodes summary as YAML to writer.
func WriteRunSummary(writer io.Writer, summary RunSummary) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(summaryIndentationConstant)
	if encodeError := encoder.Encode(summary); encodeError != nil {
		return fmt.Errorf(summaryEncodeErrorTemplateConstant, encodeError)
	}
	if closeError := encoder.Close(); closeError != nil {
		return fmt.Errorf(summaryEncodeErrorTemplateConstant, closeError)
	}
	return nil
}
