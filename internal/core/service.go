package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JonMunkholm/explorer/internal/config"
	"github.com/JonMunkholm/explorer/internal/logging"
	"github.com/google/uuid"
)

// DefaultUploadTimeout bounds one import-and-render pass when none is configured.
const DefaultUploadTimeout = 2 * time.Minute

// Service hosts the Shell for the HTTP layer. It keeps uploaded bytes in an
// UploadStore and re-runs Import → Classify → Render for every view.
type Service struct {
	shell         *Shell
	store         *UploadStore
	uploadLimiter *UploadLimiter
	uploadTimeout time.Duration
}

// NewService creates a Service from configuration.
func NewService(cfg *config.Config) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("core: nil config")
	}

	timeout := cfg.Upload.Timeout
	if timeout <= 0 {
		timeout = DefaultUploadTimeout
	}

	opts := RenderOptions{
		PreviewRows:   cfg.Explorer.PreviewRows,
		HistogramBins: cfg.Explorer.HistogramBins,
		TopValues:     cfg.Explorer.TopValues,
		MaxPairs:      cfg.Explorer.MaxPairs,
	}

	return &Service{
		shell:         NewShell(NewImporter(), opts),
		store:         NewUploadStore(cfg.Store.TTL, cfg.Store.MaxEntries),
		uploadLimiter: NewUploadLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime),
		uploadTimeout: timeout,
	}, nil
}

// Shell returns the shell used by the service.
func (s *Service) Shell() *Shell {
	return s.shell
}

// Upload imports data and, on success, stores the bytes under a new upload ID.
// On failure the returned state is Idle and carries the same error.
func (s *Service) Upload(ctx context.Context, fileName string, data []byte) (State, error) {
	logger := logging.WithFields(ctx,
		"file", fileName,
		"size", len(data),
		"client_ip", ClientIPFromContext(ctx),
	)

	if err := s.uploadLimiter.Acquire(ctx); err != nil {
		logger.Warn("import slot unavailable", "error", err)
		return Idle(err), err
	}
	defer s.uploadLimiter.Release()

	ctx, cancel := context.WithTimeout(ctx, s.uploadTimeout)
	defer cancel()

	start := time.Now()
	state := s.shell.Load(ctx, fileName, data)
	if state.Err != nil {
		logger.Warn("import failed",
			"error", state.Err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return state, state.Err
	}

	s.store.Put(*state.Upload, data)

	logger.Info("import completed",
		"upload_id", state.Upload.ID.String(),
		"rows", state.Table.NumRows(),
		"columns", state.Table.NumCols(),
		"numeric_columns", len(state.Numeric),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return state, nil
}

// View re-imports a stored upload and renders the selected tab.
// An unknown or expired ID yields an Idle state and ErrUploadNotFound.
func (s *Service) View(ctx context.Context, uploadID string, tab Tab) (State, *View, error) {
	ctx = logging.WithUploadID(ctx, uploadID)
	logger := logging.FromContext(ctx)

	key, err := normalizeUploadID(uploadID)
	if err != nil {
		return Idle(err), nil, err
	}

	upload, data, err := s.store.Get(key)
	if err != nil {
		logger.Debug("upload not in store")
		return Idle(err), nil, err
	}

	if err := s.uploadLimiter.Acquire(ctx); err != nil {
		logger.Warn("import slot unavailable", "error", err)
		return Idle(err), nil, err
	}
	defer s.uploadLimiter.Release()

	ctx, cancel := context.WithTimeout(ctx, s.uploadTimeout)
	defer cancel()

	start := time.Now()
	state := s.shell.Load(ctx, upload.FileName, data)
	if state.Err != nil {
		logger.Warn("re-import failed", "error", state.Err)
		return state, nil, state.Err
	}
	state.Upload = &upload

	view := s.shell.Render(state, tab)
	logger.Debug("view rendered",
		"tab", string(tab),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return state, view, nil
}

// Remove deletes a stored upload and returns the Idle state. It reports
// whether the upload was still stored.
func (s *Service) Remove(ctx context.Context, uploadID string) (State, bool) {
	removed := false
	if key, err := normalizeUploadID(uploadID); err == nil {
		removed = s.store.Delete(key)
	}
	if removed {
		logging.FromContext(logging.WithUploadID(ctx, uploadID)).Info("upload removed")
	}
	return s.shell.Unload(State{Phase: PhaseLoaded}), removed
}

// UploadLimiterStatus returns the current import concurrency status.
func (s *Service) UploadLimiterStatus() UploadLimiterStatus {
	return s.uploadLimiter.Status()
}

// WaitForUploads blocks until all active imports complete or ctx is done.
func (s *Service) WaitForUploads(ctx context.Context) error {
	return s.uploadLimiter.WaitForDrain(ctx)
}

// StoredUploads returns the number of uploads currently held in memory.
func (s *Service) StoredUploads() int {
	return s.store.Len()
}

// normalizeUploadID parses an upload ID into its canonical form. Malformed
// IDs are reported as not found.
func normalizeUploadID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUploadNotFound, id)
	}
	return parsed.String(), nil
}
