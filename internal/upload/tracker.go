package upload

import (
	"sync"
	"time"
)

// Snapshot is a point-in-time view of one upload.
type Snapshot struct {
	ID          string    `json:"id"`
	Total       int64     `json:"total"`
	Transferred int64     `json:"transferred"`
	Percent     float64   `json:"percent"`
	Done        bool      `json:"done"`
	Error       string    `json:"error,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Tracker records byte-level progress of in-flight uploads keyed by a client-chosen id.
// Finished entries are kept for ttl so clients can observe completion, then evicted.
type Tracker struct {
	mu      sync.Mutex
	entries map[string]*Progress
	ttl     time.Duration
	now     func() time.Time
}

// NewTracker creates a Tracker that evicts finished uploads after ttl.
func NewTracker(ttl time.Duration) *Tracker {
	return &Tracker{
		entries: make(map[string]*Progress),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Start registers a new upload of total bytes (-1 if unknown) and returns its progress sink.
// Starting an id that already exists replaces it.
func (t *Tracker) Start(id string, total int64) *Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.evictLocked()

	p := &Progress{tracker: t, id: id, total: total, updatedAt: t.now()}
	t.entries[id] = p
	return p
}

// Get returns the current snapshot of an upload.
func (t *Tracker) Get(id string) (Snapshot, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.evictLocked()

	p, ok := t.entries[id]
	if !ok {
		return Snapshot{}, false
	}
	return p.snapshotLocked(), true
}

// Finish marks the upload done, recording err if the upload failed.
func (t *Tracker) Finish(id string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, ok := t.entries[id]
	if !ok {
		return
	}
	p.done = true
	if err != nil {
		p.err = err.Error()
	} else if p.total > 0 {
		p.transferred = p.total
	}
	p.updatedAt = t.now()
}

func (t *Tracker) evictLocked() {
	cutoff := t.now().Add(-t.ttl)
	for id, p := range t.entries {
		if p.done && p.updatedAt.Before(cutoff) {
			delete(t.entries, id)
		}
	}
}

// Progress receives transfer notifications for a single upload. It implements io.Reader:
// the storage client reads len(b) bytes from it for every len(b) bytes sent, which is
// the contract minio-go uses for PutObjectOptions.Progress.
type Progress struct {
	tracker     *Tracker
	id          string
	total       int64
	transferred int64
	done        bool
	err         string
	updatedAt   time.Time
}

// Read records len(b) more bytes as transferred.
func (p *Progress) Read(b []byte) (int, error) {
	p.Add(int64(len(b)))
	return len(b), nil
}

// Add records n more bytes as transferred.
func (p *Progress) Add(n int64) {
	p.tracker.mu.Lock()
	defer p.tracker.mu.Unlock()
	p.transferred += n
	if p.total > 0 && p.transferred > p.total {
		p.transferred = p.total
	}
	p.updatedAt = p.tracker.now()
}

func (p *Progress) snapshotLocked() Snapshot {
	s := Snapshot{
		ID:          p.id,
		Total:       p.total,
		Transferred: p.transferred,
		Done:        p.done,
		Error:       p.err,
		UpdatedAt:   p.updatedAt,
	}
	if p.total > 0 {
		s.Percent = float64(p.transferred) * 100 / float64(p.total)
	}
	return s
}
