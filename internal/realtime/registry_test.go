package realtime

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeObserver struct {
	mu     sync.Mutex
	got    []string
	err    error
	panics bool
	closed atomic.Int32
}

func (f *fakeObserver) Send(_ context.Context, payload string) error {
	if f.panics {
		panic("write on dead socket")
	}
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	f.got = append(f.got, payload)
	f.mu.Unlock()
	return nil
}

func (f *fakeObserver) Close() error {
	f.closed.Add(1)
	return nil
}

func (f *fakeObserver) received() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.got...)
}

func TestRegistry_RegisterUnregister(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	a, b := &fakeObserver{}, &fakeObserver{}

	idA := r.Register(a)
	idB := r.Register(b)
	require.NotEqual(t, idA, idB)
	require.Equal(t, 2, r.Len())

	require.True(t, r.Unregister(idA))
	require.False(t, r.Unregister(idA), "second unregister must report absence")
	require.Equal(t, 1, r.Len())

	snap := r.Snapshot()
	require.Len(t, snap, 1)
	require.Equal(t, idB, snap[0].ID)
}

func TestRegistry_SnapshotIsIsolated(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	id := r.Register(&fakeObserver{})
	snap := r.Snapshot()

	r.Unregister(id)
	r.Register(&fakeObserver{})
	r.Register(&fakeObserver{})

	require.Len(t, snap, 1)
	require.Equal(t, id, snap[0].ID)
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			id := r.Register(&fakeObserver{})
			r.Unregister(id)
		}()
		go func() {
			defer wg.Done()
			_ = r.Snapshot()
		}()
		go func() {
			defer wg.Done()
			_ = r.Len()
		}()
	}
	wg.Wait()
	require.Equal(t, 0, r.Len())
}

var errBrokenPipe = errors.New("broken pipe")
