package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/explorer/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Upload: config.UploadConfig{
			MaxFileSize:   1 << 20,
			MaxConcurrent: 2,
			MaxWaitTime:   time.Second,
			Timeout:       10 * time.Second,
		},
		Store: config.StoreConfig{
			TTL:             time.Minute,
			MaxEntries:      10,
			CleanupInterval: time.Minute,
		},
		Explorer: config.ExplorerConfig{
			PreviewRows:   5,
			HistogramBins: 10,
			TopValues:     3,
			MaxPairs:      10,
		},
	}
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(testConfig())
	require.NoError(t, err)
	return svc
}

const sampleCSV = "id,score,team\n1,10.5,red\n2,12.25,blue\n3,9,red\n4,14,green\n5,NA,blue\n"

func TestNewService_NilConfig(t *testing.T) {
	_, err := NewService(nil)
	assert.Error(t, err)
}

func TestNewService_Options(t *testing.T) {
	svc := newTestService(t)

	opts := svc.Shell().Options()
	assert.Equal(t, 5, opts.PreviewRows)
	assert.Equal(t, 10, opts.HistogramBins)
	assert.Equal(t, 3, opts.TopValues)
	assert.Equal(t, 2, svc.UploadLimiterStatus().MaxConcurrent)
}

func TestService_UploadAndView(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	state, err := svc.Upload(ctx, "scores.csv", []byte(sampleCSV))
	require.NoError(t, err)
	require.True(t, state.Loaded())
	assert.Equal(t, 1, svc.StoredUploads())

	id := state.Upload.ID.String()
	direct := svc.Shell().Render(state, TabOverview)

	viewed, view, err := svc.View(ctx, id, TabOverview)
	require.NoError(t, err)
	assert.Equal(t, state.Upload.ID, viewed.Upload.ID, "view keeps the stored upload handle")
	assert.Equal(t, direct.Overview, view.Overview)

	_, analysis, err := svc.View(ctx, id, TabAnalysis)
	require.NoError(t, err)
	require.NotNil(t, analysis.Analysis)
	assert.Equal(t, []string{"id", "score"}, analysis.Analysis.Columns)
	assert.Equal(t, 0, svc.UploadLimiterStatus().Active)
}

func TestService_UploadFailure(t *testing.T) {
	svc := newTestService(t)

	state, err := svc.Upload(context.Background(), "notes.txt", []byte("hello"))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Equal(t, PhaseIdle, state.Phase)
	assert.Equal(t, err, state.Err)
	assert.Equal(t, 0, svc.StoredUploads())
}

func TestService_ViewUnknown(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name string
		id   string
	}{
		{"malformed id", "not-a-uuid"},
		{"unknown id", "3f2b8c4e-9d51-4a7e-b1c0-2d6e8f4a9b13"},
		{"empty id", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, view, err := svc.View(context.Background(), tt.id, TabOverview)

			assert.ErrorIs(t, err, ErrUploadNotFound)
			assert.Nil(t, view)
			assert.Equal(t, PhaseIdle, state.Phase)
		})
	}
}

func TestService_Remove(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	state, err := svc.Upload(ctx, "scores.csv", []byte(sampleCSV))
	require.NoError(t, err)
	id := state.Upload.ID.String()

	idle, removed := svc.Remove(ctx, id)
	assert.True(t, removed)
	assert.Equal(t, PhaseIdle, idle.Phase)
	assert.NoError(t, idle.Err)
	assert.Equal(t, 0, svc.StoredUploads())

	_, _, err = svc.View(ctx, id, TabOverview)
	assert.ErrorIs(t, err, ErrUploadNotFound)

	// Removing twice, or removing garbage, is harmless.
	again, removed := svc.Remove(ctx, id)
	assert.False(t, removed)
	assert.Equal(t, PhaseIdle, again.Phase)

	_, removed = svc.Remove(ctx, "garbage")
	assert.False(t, removed)
}

func TestService_UploadLimited(t *testing.T) {
	cfg := testConfig()
	cfg.Upload.MaxConcurrent = 1
	cfg.Upload.MaxWaitTime = 20 * time.Millisecond
	svc, err := NewService(cfg)
	require.NoError(t, err)

	require.True(t, svc.uploadLimiter.TryAcquire())
	defer svc.uploadLimiter.Release()

	state, err := svc.Upload(context.Background(), "scores.csv", []byte(sampleCSV))
	assert.ErrorIs(t, err, ErrTooManyUploads)
	assert.Equal(t, PhaseIdle, state.Phase)
}

func TestService_WaitForUploads(t *testing.T) {
	svc := newTestService(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, svc.WaitForUploads(ctx))
}

func TestService_StoreJanitor(t *testing.T) {
	cfg := testConfig()
	cfg.Store.TTL = 10 * time.Millisecond
	svc, err := NewService(cfg)
	require.NoError(t, err)

	_, err = svc.Upload(context.Background(), "scores.csv", []byte(sampleCSV))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.StartStoreJanitor(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return svc.StoredUploads() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}
