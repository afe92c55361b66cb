// Package listing implements the read-only list views. A View owns at most
// one in-flight fetch: a refresh cancels the previous one, and a response
// that arrives after it was superseded is discarded instead of overwriting
// newer state.
package listing

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-formadmin/internal/logging"
	"github.com/goliatone/go-formadmin/pkg/records"
	"github.com/goliatone/go-formadmin/pkg/remote"
)

var (
	// ErrStale is returned by Refresh when a newer refresh or Close
	// superseded it. The view state was left untouched.
	ErrStale = errors.New("listing: response superseded")
	// ErrClosed is returned by Refresh after Close.
	ErrClosed = errors.New("listing: view closed")
)

// State is a copy of a view's data.
type State[T any] struct {
	Collection string          `json:"collection"`
	Rows       []T             `json:"rows"`
	Loading    bool            `json:"loading"`
	Loaded     bool            `json:"loaded"`
	Failure    *remote.Failure `json:"-"`
	Error      string          `json:"error,omitempty"`
	Generation uint64          `json:"generation"`
}

// View fetches and holds the rows of one collection.
type View[T any] struct {
	sender     remote.Sender
	collection records.Collection
	url        string

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	closed     bool
	rows       []T
	loading    bool
	loaded     bool
	failure    *remote.Failure
}

// NewView binds a view to collection on endpoints.
func NewView[T any](sender remote.Sender, collection records.Collection, endpoints remote.Endpoints) (*View[T], error) {
	if sender == nil {
		return nil, errors.New("listing: sender is required")
	}
	url, err := collection.URL(endpoints)
	if err != nil {
		return nil, err
	}
	return &View[T]{sender: sender, collection: collection, url: url}, nil
}

// URL returns the endpoint the view reads.
func (v *View[T]) URL() string {
	return v.url
}

// Refresh fetches the collection, superseding any fetch still in flight.
// An empty array is a valid result. On failure the previous rows are kept
// and the failure is recorded.
func (v *View[T]) Refresh(ctx context.Context) (State[T], error) {
	if ctx == nil {
		ctx = context.Background()
	}

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return State[T]{}, ErrClosed
	}
	if v.cancel != nil {
		v.cancel()
	}
	v.generation++
	gen := v.generation
	fetchCtx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	v.loading = true
	v.mu.Unlock()
	defer cancel()

	res := v.sender.Send(fetchCtx, remote.Request{Method: http.MethodGet, URL: v.url, ExpectBody: true})

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || gen != v.generation {
		logging.Log(ctx).Debug(ctx, "discarding stale list response",
			zap.String("collection", v.collection.Name),
			zap.Uint64("generation", gen),
			zap.Uint64("current", v.generation))
		return v.stateLocked(), ErrStale
	}

	v.loading = false
	v.cancel = nil
	if res.OK() {
		v.rows = v.decode(ctx, res.Body)
		v.loaded = true
		v.failure = nil
	} else {
		v.failure = res.Failure
	}
	return v.stateLocked(), nil
}

// Close cancels any in-flight fetch; its response will be discarded.
func (v *View[T]) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	v.loading = false
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
}

// State returns a copy of the current data.
func (v *View[T]) State() State[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stateLocked()
}

func (v *View[T]) stateLocked() State[T] {
	rows := make([]T, len(v.rows))
	copy(rows, v.rows)
	state := State[T]{
		Collection: v.collection.Name,
		Rows:       rows,
		Loading:    v.loading,
		Loaded:     v.loaded,
		Failure:    v.failure,
		Generation: v.generation,
	}
	if v.failure != nil {
		state.Error = v.failure.Message
	}
	return state
}

// decode converts a JSON body into rows. Non-array bodies are "no data",
// except for single-object collections, which wrap the object. Items that do
// not fit T are skipped.
func (v *View[T]) decode(ctx context.Context, body any) []T {
	var items []any
	switch typed := body.(type) {
	case []any:
		items = typed
	case map[string]any:
		if v.collection.Single {
			items = []any{typed}
		}
	}

	rows := make([]T, 0, len(items))
	for i, item := range items {
		raw, err := json.Marshal(item)
		if err != nil {
			continue
		}
		var row T
		if err := json.Unmarshal(raw, &row); err != nil {
			logging.Log(ctx).Warn(ctx, "skipping malformed row",
				zap.String("collection", v.collection.Name),
				zap.Int("index", i),
				zap.Error(err))
			continue
		}
		rows = append(rows, row)
	}
	return rows
}
