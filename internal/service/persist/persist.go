package persist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alanyang/promptdeck/internal/port/storage"
)

// DefaultDelay is the debounce window between the last change and the write.
const DefaultDelay = 50 * time.Millisecond

// ReadError reports a stored snapshot that could not be read or decoded.
type ReadError struct {
	Key string
	Err error
}

func (e *ReadError) Error() string { return fmt.Sprintf("reading %s: %v", e.Key, e.Err) }
func (e *ReadError) Unwrap() error { return e.Err }

// WriteError reports a snapshot that could not be written or verified.
type WriteError struct {
	Key string
	Err error
}

func (e *WriteError) Error() string { return fmt.Sprintf("writing %s: %v", e.Key, e.Err) }
func (e *WriteError) Unwrap() error { return e.Err }

var errEmptyReadBack = errors.New("read back an empty value")

// Status is the observable state of a Persister.
type Status struct {
	Saving    bool
	Pending   bool
	LastSaved time.Time
	LastError error
}

// Snapshot produces the bytes to persist. It is called at write time, so the
// latest state always wins.
type Snapshot func() ([]byte, error)

// Persister writes a snapshot to storage after a quiet period. A later
// Schedule supersedes an earlier one; a superseded timer never writes.
type Persister struct {
	key      string
	store    storage.Storage
	snapshot Snapshot
	delay    time.Duration

	mu     sync.Mutex
	timer  *time.Timer
	gen    uint64
	status Status

	// writeMu serializes writes so two snapshots never interleave. The timer
	// checks its generation while holding it.
	writeMu sync.Mutex

	onSaved func(ctx context.Context, key string)
}

func New(store storage.Storage, key string, snapshot Snapshot, delay time.Duration) *Persister {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Persister{key: key, store: store, snapshot: snapshot, delay: delay}
}

func (p *Persister) Key() string { return p.key }

// Schedule (re)arms the debounce timer.
func (p *Persister) Schedule() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.gen++
	gen := p.gen
	if p.timer != nil {
		p.timer.Stop()
	}
	p.status.Pending = true
	p.timer = time.AfterFunc(p.delay, func() { p.fire(gen) })
}

// OnSaved sets fn to run after every successful write. Set it before the
// first Schedule or SaveNow.
func (p *Persister) OnSaved(fn func(ctx context.Context, key string)) {
	p.onSaved = fn
}

func (p *Persister) fire(gen uint64) {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		return
	}
	p.timer = nil
	p.mu.Unlock()

	// Errors are recorded in Status and logged by writeLocked.
	_ = p.writeLocked(context.Background())
}

// SaveNow cancels any pending timer and writes immediately. A timer that
// already fired but has not written yet is superseded.
func (p *Persister) SaveNow(ctx context.Context) error {
	p.cancel()
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	return p.writeLocked(ctx)
}

// Flush waits for an in-flight write, then writes only if a debounced write
// is still pending. Used on shutdown.
func (p *Persister) Flush(ctx context.Context) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	p.mu.Lock()
	pending := p.status.Pending
	p.mu.Unlock()
	if !pending {
		return nil
	}
	p.cancel()
	return p.writeLocked(ctx)
}

func (p *Persister) cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

func (p *Persister) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *Persister) writeLocked(ctx context.Context) error {
	p.mu.Lock()
	p.status.Saving = true
	p.status.Pending = false
	p.mu.Unlock()

	err := p.put(ctx)

	p.mu.Lock()
	p.status.Saving = false
	if err != nil {
		p.status.LastError = err
	} else {
		p.status.LastError = nil
		p.status.LastSaved = time.Now()
	}
	p.mu.Unlock()

	if err != nil {
		slog.Error("persisting snapshot failed", "key", p.key, "error", err)
		return err
	}
	if p.onSaved != nil {
		p.onSaved(ctx, p.key)
	}
	return nil
}

func (p *Persister) put(ctx context.Context) error {
	data, err := p.snapshot()
	if err != nil {
		return &WriteError{Key: p.key, Err: err}
	}
	if err := p.store.Put(ctx, p.key, data); err != nil {
		return &WriteError{Key: p.key, Err: err}
	}

	back, err := p.store.Get(ctx, p.key)
	if err != nil {
		return &WriteError{Key: p.key, Err: fmt.Errorf("verifying: %w", err)}
	}
	if len(back) == 0 {
		return &WriteError{Key: p.key, Err: errEmptyReadBack}
	}
	return nil
}

// Load reads key from store. It returns (nil, nil) when the key is absent
// and a *ReadError for any other failure.
func Load(ctx context.Context, store storage.Storage, key string) ([]byte, error) {
	data, err := store.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, &ReadError{Key: key, Err: err}
	}
	return data, nil
}
