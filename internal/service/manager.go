package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"poachwatch/internal/dto"
	"poachwatch/internal/logger"
	"poachwatch/internal/service/ai"
	"poachwatch/internal/service/policy"
	"poachwatch/internal/service/scanner"
)

const (
	MessageFolderNotFound   = "Folder path does not exist."
	MessageFolderUnreadable = "Folder path could not be read."
	MessageAlertSent        = "Poaching is present and SMS regarding poaching is sent to concerned authorities"
	MessageAlertNotSent     = "Poaching is present but the SMS alert to concerned authorities could not be sent"
	MessageNoPoaching       = "Poaching is not present and animals are safe"
	MessageCancelled        = "Scan was cancelled before a decision was made"
)

// RunState names the steps of one pipeline run.
type RunState string

const (
	StateIdle            RunState = "idle"
	StateFolderValidated RunState = "folder_validated"
	StateModelResolved   RunState = "model_resolved"
	StateScored          RunState = "scored"
	StateDecided         RunState = "decided"
	StateDispatched      RunState = "dispatched"
	StateDone            RunState = "done"
	StateFolderNotFound  RunState = "folder_not_found"
	StateModelLoadFailed RunState = "model_load_failed"
	StateCancelled       RunState = "cancelled"
)

type ModelResolver interface {
	Resolve(ctx context.Context) (*ai.Handle, error)
}

type BatchScorer interface {
	CheckFolder(folder string) error
	ScoreBatch(ctx context.Context, folder string, detector ai.Detector, onVerdict scanner.VerdictFunc) ([]dto.Verdict, dto.RunCounters, error)
}

type AlertDispatcher interface {
	Dispatch(ctx context.Context, active bool) dto.DispatchResult
}

// Publisher receives live scan events, e.g. the viewer websocket hub.
type Publisher interface {
	Publish(event dto.ScanEvent)
}

// Manager runs the pipeline: validate folder, resolve model, score, decide, dispatch.
type Manager struct {
	resolver   ModelResolver
	scorer     BatchScorer
	dispatcher AlertDispatcher
	publisher  Publisher
	logger     *logger.Logger
}

func NewManager(resolver ModelResolver, scorer BatchScorer, dispatcher AlertDispatcher, publisher Publisher, logger *logger.Logger) *Manager {
	return &Manager{
		resolver:   resolver,
		scorer:     scorer,
		dispatcher: dispatcher,
		publisher:  publisher,
		logger:     logger,
	}
}

// Run scans one folder and always returns an outcome; it never panics past
// this boundary and only folder and model failures end a run early.
func (m *Manager) Run(ctx context.Context, folder string) (outcome dto.RunOutcome) {
	run := &pipelineRun{id: uuid.New().String(), state: StateIdle, logger: m.logger}
	outcome.RunID = run.id

	defer func() {
		final := outcome
		m.publish(dto.ScanEvent{RunID: run.id, Type: dto.EventOutcome, Outcome: &final})
	}()

	m.logger.Info("▶️  Run %s started for %s", run.id, folder)

	if err := m.scorer.CheckFolder(folder); err != nil {
		run.to(StateFolderNotFound)
		m.logger.Warning("Run %s: %v", run.id, err)
		outcome.Status = dto.StatusFolderNotFound
		outcome.Message = MessageFolderNotFound
		return outcome
	}
	run.to(StateFolderValidated)

	handle, err := m.resolver.Resolve(ctx)
	if err != nil && isCancellation(err) {
		run.to(StateCancelled)
		m.logger.Warning("Run %s stopped: %v", run.id, err)
		outcome.Status = dto.StatusCancelled
		outcome.Message = MessageCancelled
		return outcome
	}
	if err != nil {
		run.to(StateModelLoadFailed)
		m.logger.Error("Run %s: %v", run.id, err)
		outcome.Status = dto.StatusModelLoadFailed
		outcome.Message = fmt.Sprintf("Error loading model: %v", err)
		return outcome
	}
	defer func() {
		if err := handle.Release(); err != nil {
			m.logger.Warning("Run %s: failed to release model: %v", run.id, err)
		}
	}()
	run.to(StateModelResolved)
	m.logger.Info("Run %s: scoring with %s (%s)", run.id, handle.Candidate.Name, handle.Kind())

	_, counters, err := m.scorer.ScoreBatch(ctx, folder, handle, func(index int, verdict dto.Verdict) {
		v := verdict
		m.publish(dto.ScanEvent{RunID: run.id, Type: dto.EventVerdict, Index: index, Verdict: &v})
	})
	outcome.Counters = counters
	if err != nil {
		var notFound *scanner.FolderNotFoundError
		switch {
		case errors.As(err, &notFound):
			run.to(StateFolderNotFound)
			outcome.Status = dto.StatusFolderNotFound
			outcome.Message = MessageFolderNotFound
		case isCancellation(err):
			run.to(StateCancelled)
			outcome.Status = dto.StatusCancelled
			outcome.Message = MessageCancelled
		default:
			// The folder became unreadable after validation
			run.to(StateFolderNotFound)
			outcome.Status = dto.StatusFolderNotFound
			outcome.Message = MessageFolderUnreadable
		}
		m.logger.Warning("Run %s stopped: %v", run.id, err)
		return outcome
	}
	run.to(StateScored)

	alert := policy.Decide(counters.Detected, counters.Scored)
	run.to(StateDecided)
	m.logger.Info("Run %s: %d of %d image(s) contain people, alert=%v", run.id, counters.Detected, counters.Scored, alert)

	// A decision that has been made is delivered even if the caller goes away
	result := m.dispatcher.Dispatch(context.WithoutCancel(ctx), alert)
	run.to(StateDispatched)

	outcome.Status = dto.StatusSuccess
	outcome.AlertSent = result.Sent
	switch {
	case !alert:
		outcome.Message = MessageNoPoaching
	case result.Sent:
		outcome.Message = MessageAlertSent
	default:
		outcome.Message = MessageAlertNotSent
	}
	run.to(StateDone)

	m.logger.Info("⏹️  Run %s finished: %s", run.id, outcome.Message)
	return outcome
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (m *Manager) publish(event dto.ScanEvent) {
	if m.publisher != nil {
		m.publisher.Publish(event)
	}
}

type pipelineRun struct {
	id     string
	state  RunState
	logger *logger.Logger
}

func (r *pipelineRun) to(next RunState) {
	r.logger.Debug("Run %s: %s -> %s", r.id, r.state, next)
	r.state = next
}
