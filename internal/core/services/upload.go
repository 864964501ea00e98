package services

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/docgpt-cli/internal/core/domain"
	"github.com/custodia-labs/docgpt-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docgpt-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docgpt-cli/internal/logger"
)

// Ensure UploadService implements the interface.
var _ driving.UploadService = (*UploadService)(nil)

// timerSleeper is the default Sleeper.
type timerSleeper struct{}

func (timerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// UploadService drives one file through submission and the post-transmission
// pacing stages. The pacing stages are cosmetic: the service finishes its
// work inside the single upload call.
type UploadService struct {
	docService driven.DocumentService
	inspector  driven.FileInspector
	session    *Session
	history    driven.UploadHistoryStore
	sleeper    driven.Sleeper
	stageDelay time.Duration

	mu       sync.Mutex
	progress domain.UploadProgress
}

// NewUploadService creates a new upload driver.
// history may be nil.
func NewUploadService(
	docService driven.DocumentService,
	inspector driven.FileInspector,
	session *Session,
	history driven.UploadHistoryStore,
	stageDelay time.Duration,
) *UploadService {
	return &UploadService{
		docService: docService,
		inspector:  inspector,
		session:    session,
		history:    history,
		sleeper:    timerSleeper{},
		stageDelay: stageDelay,
	}
}

// WithSleeper overrides the pacing implementation (for testing).
func (s *UploadService) WithSleeper(sleeper driven.Sleeper) *UploadService {
	s.sleeper = sleeper
	return s
}

// Progress returns the latest progress snapshot.
func (s *UploadService) Progress() domain.UploadProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

// Submit validates the file at path and uploads it.
func (s *UploadService) Submit(
	ctx context.Context,
	path string,
	listener domain.ProgressListener,
) (*domain.UploadResponse, error) {
	if s.session != nil && !s.session.signedIn(ctx) {
		return nil, domain.ErrAuthRequired
	}
	if s.docService == nil {
		return nil, domain.ErrServiceUnavailable
	}

	// Validation happens before any state change or network call.
	info, err := s.validate(path)
	if err != nil {
		return nil, err
	}

	if !s.begin() {
		return nil, domain.ErrUploadInProgress
	}
	logger.Section("Upload")
	defer logger.Elapsed("upload", time.Now())
	logger.Info("uploading %s (%d bytes)", info.Name, info.Size)
	s.report(listener, domain.StageTransmitting, 0, domain.TransmittingLabel)

	f, err := os.Open(info.Path)
	if err != nil {
		return nil, s.fail(listener, fmt.Errorf("open file: %w", err))
	}
	defer f.Close()

	resp, err := s.docService.Submit(ctx, *info, f, func(percent int) {
		s.report(listener, domain.StageTransmitting, min(percent, domain.TransmissionCeiling), domain.TransmittingLabel)
	})
	if err != nil {
		return nil, s.fail(listener, err)
	}
	s.report(listener, domain.StageTransmitting, domain.TransmissionCeiling, domain.TransmittingLabel)

	for _, stage := range domain.UploadStages() {
		s.report(listener, stage.Stage, stage.Percent, stage.Label)
		pause := time.Duration(math.Round(float64(s.stageDelay) * stage.Pause))
		if err := s.sleeper.Sleep(ctx, pause); err != nil {
			return nil, s.fail(listener, err)
		}
	}

	s.finish(listener)
	s.record(ctx, info, resp)
	logger.Info("upload complete: %s, %d chunks", resp.DocumentName, resp.ChunksCreated)
	return resp, nil
}

// UploadAndActivate submits the file and hands the reply to the session.
func (s *UploadService) UploadAndActivate(
	ctx context.Context,
	path string,
	listener domain.ProgressListener,
) (domain.IndexState, error) {
	resp, err := s.Submit(ctx, path, listener)
	if err != nil {
		return domain.IndexState{}, err
	}
	if s.session == nil {
		return domain.IndexState{}, fmt.Errorf("complete upload: %w", domain.ErrServiceUnavailable)
	}
	return s.session.CompleteUpload(*resp), nil
}

// validate checks the file is the single accepted type.
func (s *UploadService) validate(path string) (*domain.FileInfo, error) {
	if path == "" {
		return nil, &domain.ValidationError{Field: "file", Reason: "Please choose a PDF document to upload."}
	}
	if s.inspector == nil {
		return nil, fmt.Errorf("inspect file: %w", domain.ErrServiceUnavailable)
	}
	info, err := s.inspector.Inspect(path)
	if err != nil {
		return nil, &domain.ValidationError{Field: "file", Reason: fmt.Sprintf("Cannot read %s: %v", path, err)}
	}
	if info.MIMEType != domain.AcceptedMIMEType || !hasPDFExtension(info.Name) {
		logger.Debug("rejected %s: detected %s", path, info.MIMEType)
		return nil, &domain.ValidationError{Field: "file", Reason: "Please upload a valid PDF document."}
	}
	return info, nil
}

// hasPDFExtension mirrors the service, which rejects names without ".pdf".
func hasPDFExtension(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}

// begin claims the upload slot and resets progress for a new attempt.
func (s *UploadService) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.progress.Active {
		return false
	}
	s.progress = domain.UploadProgress{Active: true, Stage: domain.StageTransmitting}
	return true
}

// report advances progress. Percent never moves backwards within an attempt.
func (s *UploadService) report(listener domain.ProgressListener, stage domain.UploadStage, percent int, label string) {
	s.mu.Lock()
	if !s.progress.Active {
		s.mu.Unlock()
		return
	}
	percent = max(0, min(percent, 100))
	if percent < s.progress.Percent {
		percent = s.progress.Percent
	}
	if stage < s.progress.Stage {
		stage = s.progress.Stage
		label = s.progress.Label
	}
	changed := percent != s.progress.Percent || stage != s.progress.Stage || label != s.progress.Label
	s.progress.Percent = percent
	s.progress.Stage = stage
	s.progress.Label = label
	snapshot := s.progress
	s.mu.Unlock()

	if listener != nil && changed {
		listener(snapshot)
	}
}

// finish marks the attempt complete at exactly 100.
func (s *UploadService) finish(listener domain.ProgressListener) {
	s.mu.Lock()
	s.progress = domain.UploadProgress{Percent: 100, Stage: domain.StageFinalizing, Label: s.progress.Label}
	snapshot := s.progress
	s.mu.Unlock()
	if listener != nil {
		listener(snapshot)
	}
}

// fail clears progress to zero and records the user-facing message.
func (s *UploadService) fail(listener domain.ProgressListener, err error) error {
	msg := domain.UserMessage(err, domain.UploadFailedMessage)
	logger.Warn("upload failed: %v", err)

	s.mu.Lock()
	s.progress = domain.UploadProgress{Stage: domain.StageIdle, LastError: msg}
	snapshot := s.progress
	s.mu.Unlock()
	if listener != nil {
		listener(snapshot)
	}
	return fmt.Errorf("upload: %w", err)
}

// record stores a successful upload in the local history.
func (s *UploadService) record(ctx context.Context, info *domain.FileInfo, resp *domain.UploadResponse) {
	if s.history == nil {
		return
	}
	rec := domain.UploadRecord{
		ID:            newMessageID(),
		DocumentName:  resp.DocumentName,
		LocalPath:     info.Path,
		SizeBytes:     info.Size,
		PageCount:     info.PageCount,
		ChunksCreated: resp.ChunksCreated,
		UploadedAt:    time.Now(),
	}
	if err := s.history.Record(ctx, rec); err != nil {
		logger.Warn("recording upload history: %v", err)
	}
}
