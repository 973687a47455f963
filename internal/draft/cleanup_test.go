// AngelaMos | 2026
// cleanup_test.go

package draft

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResult struct {
	rowsAffected int64
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rowsAffected, nil }

type mockExecutor struct {
	mu     sync.Mutex
	calls  int
	query  string
	args   []any
	result sql.Result
	err    error
}

func (m *mockExecutor) ExecContext(_ context.Context, query string, args ...any) (sql.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.query = query
	m.args = args
	return m.result, m.err
}

func (m *mockExecutor) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func newJob(exec Executor, buf *bytes.Buffer) *CleanupJob {
	logger := slog.New(slog.NewJSONHandler(buf, nil))
	return NewCleanupJob(exec, nil, logger)
}

func TestCleanupJobDeletesPastRetention(t *testing.T) {
	var buf bytes.Buffer
	exec := &mockExecutor{result: fakeResult{rowsAffected: 4}}
	job := newJob(exec, &buf)

	now := time.Date(2026, 6, 1, 3, 0, 0, 0, time.UTC)
	job.now = func() time.Time { return now }

	n, err := job.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, n)
	assert.Contains(t, exec.query, "DELETE FROM drafts")
	assert.Contains(t, exec.query, "last_saved_at < $1")
	require.Len(t, exec.args, 1)
	assert.Equal(t, now.Add(-7*24*time.Hour), exec.args[0])
	assert.Contains(t, buf.String(), `"deleted_count":4`)
}

func TestCleanupJobReportsExecFailure(t *testing.T) {
	var buf bytes.Buffer
	exec := &mockExecutor{err: errors.New("database is down")}
	job := newJob(exec, &buf)

	_, err := job.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is down")
	assert.True(t, strings.Contains(buf.String(), "draft cleanup failed"))
}

func TestCleanupJobStopsWithContext(t *testing.T) {
	var buf bytes.Buffer
	exec := &mockExecutor{result: fakeResult{}}
	job := newJob(exec, &buf)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		job.Start(ctx, time.Hour)
		close(done)
	}()

	require.Eventually(t, func() bool { return exec.callCount() > 0 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup loop did not stop after cancel")
	}
}
