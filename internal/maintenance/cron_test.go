package maintenance

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kenread/kenread/internal/logger"
	"github.com/kenread/kenread/models"
)

// fakeDocuments counts trim calls; the other methods are never reached from
// the job.
type fakeDocuments struct {
	trims   atomic.Int64
	trimErr error
}

func (f *fakeDocuments) TrimHistories(_ context.Context) (int, error) {
	f.trims.Add(1)
	if f.trimErr != nil {
		return 0, f.trimErr
	}
	return 1, nil
}

func (f *fakeDocuments) EnsureUserDocument(context.Context, int64) (bool, error) { return false, nil }
func (f *fakeDocuments) GetBookmarkIDs(context.Context, int64) ([]string, error) { return nil, nil }
func (f *fakeDocuments) AddBookmarkID(context.Context, int64, string) error      { return nil }
func (f *fakeDocuments) RemoveBookmarkID(context.Context, int64, string) error   { return nil }
func (f *fakeDocuments) GetHistory(context.Context, int64) ([]models.HistoryEntry, error) {
	return nil, nil
}
func (f *fakeDocuments) UpsertHistoryEntry(context.Context, int64, models.HistoryEntry) error {
	return nil
}
func (f *fakeDocuments) RemoveHistoryEntry(context.Context, int64, string) error { return nil }
func (f *fakeDocuments) ClearHistory(context.Context, int64) error               { return nil }

func TestTrimJob_InvalidSchedule(t *testing.T) {
	job := NewTrimJob(&fakeDocuments{}, logger.Nop())

	err := job.Start("not a schedule")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid trim schedule")
}

func TestTrimJob_RunsOnSchedule(t *testing.T) {
	docs := &fakeDocuments{}
	job := NewTrimJob(docs, logger.Nop())

	// every-second schedule via the optional seconds field is not enabled;
	// call the task directly and only verify scheduler lifecycle here.
	require.NoError(t, job.Start("* * * * *"))
	job.runOnce()
	job.Stop()

	assert.Equal(t, int64(1), docs.trims.Load())
}

func TestTrimJob_RunOnceLogsErrorAndContinues(t *testing.T) {
	docs := &fakeDocuments{trimErr: context.DeadlineExceeded}
	job := NewTrimJob(docs, logger.Nop())

	assert.NotPanics(t, job.runOnce)
	assert.Equal(t, int64(1), docs.trims.Load())
}

func TestTrimJob_StopReturns(t *testing.T) {
	job := NewTrimJob(&fakeDocuments{}, logger.Nop())
	require.NoError(t, job.Start("0 3 * * *"))

	done := make(chan struct{})
	go func() {
		job.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
}
