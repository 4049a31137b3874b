// internal/service/pipeline/engine.go
package pipeline

import (
	"context"
	"sync"

	"quinto-service/internal/domain/interest"
	xerrors "quinto-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// Engine keeps one in-memory pipeline board per broker and mediates every
// mutation on it. Moves are applied to the board first and persisted after,
// so the UI never waits on the database; when persistence fails the board is
// rolled back to the stored truth. All access goes through a single mutex.
type Engine struct {
	store  Store
	logger *zap.Logger

	mu      sync.Mutex
	boards  map[int64]map[interest.Stage][]*interest.Interest
	subs    map[int64]map[int64]func(*interest.Board)
	allSubs map[int64]func(int64, *interest.Board)
	nextSub int64
}

func NewEngine(store Store, logger *zap.Logger) *Engine {
	return &Engine{
		store:  store,
		logger: logger,
		boards:  make(map[int64]map[interest.Stage][]*interest.Interest),
		subs:    make(map[int64]map[int64]func(*interest.Board)),
		allSubs: make(map[int64]func(int64, *interest.Board)),
	}
}

// LoadBoard fetches the broker's leads from the store, replaces any local
// board state and returns the grouped projection. Subscribers are notified.
func (e *Engine) LoadBoard(ctx context.Context, brokerID int64) (*interest.Board, error) {
	leads, err := e.store.ListByBroker(ctx, brokerID)
	if err != nil {
		return nil, xerrors.Wrap(err, "failed to load pipeline board")
	}

	cols := groupByStage(leads)

	e.mu.Lock()
	e.boards[brokerID] = cols
	snap := e.snapshotLocked(brokerID)
	e.mu.Unlock()

	e.notify(brokerID, snap)
	return snap, nil
}

// groupByStage buckets leads into board columns. Every stage gets a column,
// empty ones included, and the store's ordering is preserved within each.
func groupByStage(leads []*interest.Interest) map[interest.Stage][]*interest.Interest {
	cols := make(map[interest.Stage][]*interest.Interest, len(interest.Stages()))
	for _, s := range interest.Stages() {
		cols[s] = []*interest.Interest{}
	}
	for _, l := range leads {
		cols[l.PipelineStage] = append(cols[l.PipelineStage], l)
	}
	return cols
}

// ensureBoardLocked loads the board from the store if it is not resident yet.
// Caller holds e.mu.
func (e *Engine) ensureBoardLocked(ctx context.Context, brokerID int64) error {
	if _, ok := e.boards[brokerID]; ok {
		return nil
	}
	leads, err := e.store.ListByBroker(ctx, brokerID)
	if err != nil {
		return xerrors.Wrap(err, "failed to load pipeline board")
	}
	e.boards[brokerID] = groupByStage(leads)
	return nil
}

// snapshotLocked deep-copies the broker's board so callers can never reach
// back into engine state. Caller holds e.mu.
func (e *Engine) snapshotLocked(brokerID int64) *interest.Board {
	cols := e.boards[brokerID]
	out := make(map[interest.Stage][]*interest.Interest, len(cols))
	for _, s := range interest.Stages() {
		col := make([]*interest.Interest, 0, len(cols[s]))
		for _, l := range cols[s] {
			cp := *l
			col = append(col, &cp)
		}
		out[s] = col
	}
	return &interest.Board{Columns: out}
}

// findLeadLocked locates a lead on the broker's board. Caller holds e.mu.
func (e *Engine) findLeadLocked(brokerID, leadID int64) (*interest.Interest, interest.Stage, int) {
	for _, s := range interest.Stages() {
		for i, l := range e.boards[brokerID][s] {
			if l.ID == leadID {
				return l, s, i
			}
		}
	}
	return nil, "", -1
}

// Subscribe registers a callback invoked with a fresh board snapshot after
// every accepted mutation for the broker. The returned func cancels it.
func (e *Engine) Subscribe(brokerID int64, fn func(*interest.Board)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextSub++
	id := e.nextSub
	if e.subs[brokerID] == nil {
		e.subs[brokerID] = make(map[int64]func(*interest.Board))
	}
	e.subs[brokerID][id] = fn

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.subs[brokerID], id)
	}
}

// SubscribeAll registers a callback invoked with every broker's board updates.
// The websocket bridge uses it to push fresh boards to connected clients; the
// receiver is expected to drop updates for brokers nobody is watching.
func (e *Engine) SubscribeAll(fn func(brokerID int64, board *interest.Board)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextSub++
	id := e.nextSub
	e.allSubs[id] = fn

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.allSubs, id)
	}
}

func (e *Engine) notify(brokerID int64, board *interest.Board) {
	e.mu.Lock()
	fns := make([]func(*interest.Board), 0, len(e.subs[brokerID]))
	for _, fn := range e.subs[brokerID] {
		fns = append(fns, fn)
	}
	all := make([]func(int64, *interest.Board), 0, len(e.allSubs))
	for _, fn := range e.allSubs {
		all = append(all, fn)
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn(board)
	}
	for _, fn := range all {
		fn(brokerID, board)
	}
}

// BrokerOf resolves which broker owns the property behind a lead. Handlers
// use it for ownership checks before touching the board.
func (e *Engine) BrokerOf(ctx context.Context, leadID int64) (int64, error) {
	return e.store.BrokerOf(ctx, leadID)
}

// Detail returns one lead with its property projection, straight from the store.
func (e *Engine) Detail(ctx context.Context, leadID int64) (*interest.Interest, error) {
	return e.store.FindDetail(ctx, leadID)
}

// History returns the lead's audit trail, newest first.
func (e *Engine) History(ctx context.Context, leadID int64) ([]interest.HistoryEntry, error) {
	return e.store.ListHistory(ctx, leadID)
}
