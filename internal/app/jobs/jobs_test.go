package jobs

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxscribe/internal/app/api/provider"
	"voxscribe/internal/app/metrics"
	"voxscribe/internal/app/model"
	"voxscribe/internal/app/transcribe"
)

type memoryCache struct {
	mu   sync.Mutex
	data map[string]Snapshot
}

func newMemoryCache() *memoryCache { return &memoryCache{data: map[string]Snapshot{}} }

func (c *memoryCache) Put(ctx context.Context, s Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[s.ID] = s
	return nil
}

func (c *memoryCache) Get(ctx context.Context, id string) (*Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.data[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func waitFor(t *testing.T, r *Registry, userID, id string, want model.JobStatus) *Snapshot {
	t.Helper()
	var snap *Snapshot
	require.Eventually(t, func() bool {
		s, err := r.Get(context.Background(), userID, id)
		if err != nil {
			return false
		}
		snap = s
		return s.Status == want
	}, 2*time.Second, 5*time.Millisecond)
	return snap
}

func TestRegistry_SubmitCompletes(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	cache := newMemoryCache()
	r := NewRegistry(cache, m, nil)

	release := make(chan struct{})
	snap := r.Submit(Spec{UserID: "user-1", FileName: "a.mp3", Language: "en-US"}, func(ctx context.Context, onStatus transcribe.StatusFunc) (*transcribe.Result, error) {
		onStatus(model.JobProcessing)
		<-release
		return &transcribe.Result{Text: "done", Language: "en"}, nil
	})
	assert.Equal(t, model.JobQueued, snap.Status)
	assert.Equal(t, "en", snap.Language)

	waitFor(t, r, "user-1", snap.ID, model.JobProcessing)
	assert.Equal(t, 1.0, promtest.ToFloat64(m.ActiveJobs))

	close(release)
	final := waitFor(t, r, "user-1", snap.ID, model.JobCompleted)
	assert.Equal(t, "done", final.Result.Text)

	r.Wait()
	assert.Equal(t, 0.0, promtest.ToFloat64(m.ActiveJobs))

	mirrored, err := cache.Get(context.Background(), snap.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobCompleted, mirrored.Status)
}

func TestRegistry_CancelStopsRun(t *testing.T) {
	r := NewRegistry(nil, nil, nil)

	stopped := make(chan struct{})
	snap := r.Submit(Spec{}, func(ctx context.Context, onStatus transcribe.StatusFunc) (*transcribe.Result, error) {
		<-ctx.Done()
		close(stopped)
		return nil, provider.NewError("fake", provider.CodeCanceled, "Transcrição cancelada")
	})

	canceled, err := r.Cancel("", snap.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobCanceled, canceled.Status)

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("run did not observe cancellation")
	}
	r.Wait()

	got, err := r.Get(context.Background(), "", snap.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobCanceled, got.Status)

	_, err = r.Cancel("", snap.ID)
	assert.ErrorIs(t, err, ErrFinished)
}

func TestRegistry_FailureRecordsCode(t *testing.T) {
	r := NewRegistry(nil, nil, nil)
	snap := r.Submit(Spec{}, func(ctx context.Context, onStatus transcribe.StatusFunc) (*transcribe.Result, error) {
		return nil, provider.NewError("fake", provider.CodeTimeout, "Timeout: transcrição demorou mais de 10 minutos")
	})
	r.Wait()

	got, err := r.Get(context.Background(), "", snap.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobError, got.Status)
	assert.Equal(t, provider.CodeTimeout, got.ErrorCode)
	assert.Equal(t, "Timeout: transcrição demorou mais de 10 minutos", got.Error)
}

func TestRegistry_TimeoutBoundsWholeRun(t *testing.T) {
	r := NewRegistry(nil, nil, nil)
	snap := r.Submit(Spec{Timeout: 30 * time.Millisecond}, func(ctx context.Context, onStatus transcribe.StatusFunc) (*transcribe.Result, error) {
		// Stands in for an upload that never finishes.
		<-ctx.Done()
		return nil, ctx.Err()
	})

	got := waitFor(t, r, "", snap.ID, model.JobError)
	assert.Equal(t, provider.CodeTimeout, got.ErrorCode)
	assert.Equal(t, transcribe.TimeoutMessage(30*time.Millisecond), got.Error)
}

func TestRegistry_OwnershipAndCacheLookup(t *testing.T) {
	cache := newMemoryCache()
	r := NewRegistry(cache, nil, nil)
	snap := r.Submit(Spec{UserID: "owner"}, func(ctx context.Context, onStatus transcribe.StatusFunc) (*transcribe.Result, error) {
		return &transcribe.Result{Text: "ok"}, nil
	})
	r.Wait()

	_, err := r.Get(context.Background(), "intruder", snap.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.Cancel("intruder", snap.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	replica := NewRegistry(cache, nil, nil)
	got, err := replica.Get(context.Background(), "owner", snap.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobCompleted, got.Status)

	_, err = replica.Get(context.Background(), "owner", "unknown")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistry_EvictsOldTerminalJobs(t *testing.T) {
	r := NewRegistry(nil, nil, nil)
	old := r.Submit(Spec{}, func(ctx context.Context, onStatus transcribe.StatusFunc) (*transcribe.Result, error) {
		return &transcribe.Result{}, nil
	})
	r.Wait()

	r.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	r.Submit(Spec{}, func(ctx context.Context, onStatus transcribe.StatusFunc) (*transcribe.Result, error) {
		return &transcribe.Result{}, nil
	})
	r.Wait()

	_, err := r.Get(context.Background(), "", old.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisCache_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer client.Close()
	c := NewRedisCache(client, 0)
	assert.Equal(t, DefaultTTL, c.ttl)

	ctx := context.Background()
	assert.Error(t, c.Put(ctx, Snapshot{ID: "x"}))
	_, err := c.Get(ctx, "x")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
