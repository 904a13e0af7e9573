package actions

import (
	"io"
	"os"
	"strconv"

	"github.com/sethvargo/go-githubactions"
	"go.uber.org/zap"

	"github.com/temirov/draftsweep/internal/drafts"
)

// Step outputs published after every run.
const (
	SelectedCountOutputName = "selected-count"
	DeletedCountOutputName  = "deleted-count"
)

const (
	failureCommandTemplateConstant     = "%s"
	reportingSkippedLogMessageConstant = "outcome reporting skipped outside GitHub Actions"
	logFieldStatusConstant             = "status"
	logFieldMessageConstant            = "message"
)

// OutcomeReporter publishes a run outcome to the host environment.
type OutcomeReporter interface {
	Report(outcome drafts.RunOutcome)
}

// Reporter publishes outcomes as GitHub Actions workflow commands.
type Reporter struct {
	logger  *zap.Logger
	action  *githubactions.Action
	enabled bool
}

// NewReporter constructs a Reporter writing workflow commands to writer. Reporting is active only
// when the environment identifies a GitHub Actions runner.
func NewReporter(logger *zap.Logger, writer io.Writer, getenv Environment) *Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if writer == nil {
		writer = os.Stderr
	}
	if getenv == nil {
		getenv = os.Getenv
	}
	action := githubactions.New(
		githubactions.WithWriter(writer),
		githubactions.WithGetenv(githubactions.GetenvFunc(getenv)),
	)
	return &Reporter{logger: logger, action: action, enabled: RunningInActions(getenv)}
}

// Enabled reports whether outcomes are published as workflow commands.
func (reporter *Reporter) Enabled() bool {
	return reporter.enabled
}

// Report sets the step outputs and marks the step failed for failed outcomes.
func (reporter *Reporter) Report(outcome drafts.RunOutcome) {
	if !reporter.enabled {
		reporter.logger.Debug(
			reportingSkippedLogMessageConstant,
			zap.String(logFieldStatusConstant, string(outcome.Status)),
			zap.String(logFieldMessageConstant, outcome.Message),
		)
		return
	}

	reporter.action.SetOutput(SelectedCountOutputName, strconv.Itoa(len(outcome.Selected)))
	reporter.action.SetOutput(DeletedCountOutputName, strconv.Itoa(outcome.DeletedCount()))
	if outcome.Failed() {
		reporter.action.Errorf(failureCommandTemplateConstant, outcome.Message)
	}
}
