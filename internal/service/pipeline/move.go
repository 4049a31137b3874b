// internal/service/pipeline/move.go
package pipeline

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"quinto-service/internal/domain/interest"
	xerrors "quinto-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// MoveLead applies a drag-and-drop stage move. The board is patched first and
// the move persisted after; if the write fails the patch is reverted and the
// board reloaded from the store before the error is returned.
//
// Moving into lost is refused outright: losses carry a mandatory reason and
// go through ConfirmLoss instead.
func (e *Engine) MoveLead(ctx context.Context, brokerID, leadID int64, req *interest.MoveLeadRequest) (*interest.Board, error) {
	from, err := interest.ParseStage(req.FromStage)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, err.Error())
	}
	to, err := interest.ParseStage(req.ToStage)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, err.Error())
	}

	if to == interest.StageLost {
		return nil, xerrors.ErrLossReasonRequired
	}
	if !from.CanTransitionTo(to) {
		return nil, xerrors.Wrap(xerrors.ErrTransitionRejected,
			fmt.Sprintf("cannot move lead from %s to %s", from, to))
	}

	e.mu.Lock()
	if err := e.ensureBoardLocked(ctx, brokerID); err != nil {
		e.mu.Unlock()
		return nil, err
	}

	// Same-stage drop is a pure reorder of the local column; nothing to
	// persist or audit.
	if from == to {
		lead, _, idx := e.findLeadLocked(brokerID, leadID)
		if lead == nil {
			e.mu.Unlock()
			return nil, xerrors.ErrNotFound
		}
		e.reorderLocked(brokerID, from, idx, req.TargetIndex)
		snap := e.snapshotLocked(brokerID)
		e.mu.Unlock()
		e.notify(brokerID, snap)
		return snap, nil
	}

	lead, cur, idx := e.findLeadLocked(brokerID, leadID)
	if lead == nil {
		e.mu.Unlock()
		return nil, xerrors.ErrNotFound
	}
	if cur != from {
		// The board the caller dragged on is stale.
		e.mu.Unlock()
		return nil, xerrors.Wrap(xerrors.ErrConflict,
			fmt.Sprintf("lead is in %s, not %s", cur, from))
	}

	undo := e.applyMoveLocked(brokerID, lead, from, to, idx, req.TargetIndex)
	snap := e.snapshotLocked(brokerID)
	e.mu.Unlock()

	// Optimistic state is already visible; let subscribers render it while
	// the write is in flight.
	e.notify(brokerID, snap)

	if err := e.store.UpdateStage(ctx, leadID, to, nil); err != nil {
		e.logger.Error("pipeline move persist failed, rolling back",
			zap.Int64("lead_id", leadID),
			zap.String("from", string(from)),
			zap.String("to", string(to)),
			zap.Error(err))
		e.rollback(ctx, brokerID, undo)
		return nil, xerrors.Wrap(err, "failed to persist stage move")
	}

	entry := &interest.HistoryEntry{
		InterestID: leadID,
		FromStage:  sql.NullString{String: string(from), Valid: true},
		ToStage:    to,
		MovedBy:    brokerID,
	}
	if err := e.store.AppendHistory(ctx, entry); err != nil {
		// The move itself stood; a missing audit row is logged, not surfaced.
		e.logger.Error("failed to append pipeline history",
			zap.Int64("lead_id", leadID), zap.Error(err))
	}

	return snap, nil
}

// applyMoveLocked mutates the board and returns a closure that undoes exactly
// this mutation. Caller holds e.mu.
func (e *Engine) applyMoveLocked(brokerID int64, lead *interest.Interest, from, to interest.Stage, fromIdx, targetIdx int) func() {
	cols := e.boards[brokerID]

	cols[from] = append(cols[from][:fromIdx], cols[from][fromIdx+1:]...)
	if targetIdx < 0 || targetIdx > len(cols[to]) {
		targetIdx = len(cols[to])
	}
	cols[to] = append(cols[to][:targetIdx], append([]*interest.Interest{lead}, cols[to][targetIdx:]...)...)
	lead.PipelineStage = to

	return func() {
		cols := e.boards[brokerID]
		for i, l := range cols[to] {
			if l.ID == lead.ID {
				cols[to] = append(cols[to][:i], cols[to][i+1:]...)
				break
			}
		}
		at := fromIdx
		if at > len(cols[from]) {
			at = len(cols[from])
		}
		cols[from] = append(cols[from][:at], append([]*interest.Interest{lead}, cols[from][at:]...)...)
		lead.PipelineStage = from
	}
}

// reorderLocked moves a lead within its own column. Caller holds e.mu.
func (e *Engine) reorderLocked(brokerID int64, stage interest.Stage, fromIdx, targetIdx int) {
	cols := e.boards[brokerID]
	col := cols[stage]
	lead := col[fromIdx]
	col = append(col[:fromIdx], col[fromIdx+1:]...)
	if targetIdx < 0 || targetIdx > len(col) {
		targetIdx = len(col)
	}
	cols[stage] = append(col[:targetIdx], append([]*interest.Interest{lead}, col[targetIdx:]...)...)
}

// rollback reverts an optimistic patch and then refreshes the whole board
// from the store, so local state converges on the persisted truth even if
// other writes landed meanwhile.
func (e *Engine) rollback(ctx context.Context, brokerID int64, undo func()) {
	e.mu.Lock()
	undo()
	snap := e.snapshotLocked(brokerID)
	e.mu.Unlock()
	e.notify(brokerID, snap)

	if _, err := e.LoadBoard(ctx, brokerID); err != nil {
		e.logger.Error("pipeline board reload after rollback failed",
			zap.Int64("broker_id", brokerID), zap.Error(err))
	}
}

// ConfirmLoss moves a lead to lost with its mandatory reason. Unlike MoveLead
// this is not optimistic: the stage update and the audit entry commit in one
// transaction, and only then does the board change.
func (e *Engine) ConfirmLoss(ctx context.Context, brokerID, leadID int64, reason string) (*interest.Board, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, xerrors.ErrLossReasonRequired
	}

	e.mu.Lock()
	if err := e.ensureBoardLocked(ctx, brokerID); err != nil {
		e.mu.Unlock()
		return nil, err
	}
	lead, cur, _ := e.findLeadLocked(brokerID, leadID)
	e.mu.Unlock()

	if lead == nil {
		return nil, xerrors.ErrNotFound
	}
	if cur.IsTerminal() {
		return nil, xerrors.Wrap(xerrors.ErrTransitionRejected,
			fmt.Sprintf("lead already decided as %s", cur))
	}

	entry := &interest.HistoryEntry{
		InterestID: leadID,
		FromStage:  sql.NullString{String: string(cur), Valid: true},
		ToStage:    interest.StageLost,
		MovedBy:    brokerID,
		Notes:      sql.NullString{String: reason, Valid: true},
	}
	if err := e.store.ConfirmLoss(ctx, leadID, reason, entry); err != nil {
		return nil, xerrors.Wrap(err, "failed to confirm loss")
	}

	return e.LoadBoard(ctx, brokerID)
}

// UpdateDetails patches broker notes and/or the proposal value on a lead.
// The proposal arrives as a decimal string; empty clears it. Stage is never
// touched here.
func (e *Engine) UpdateDetails(ctx context.Context, brokerID, leadID int64, req *interest.UpdateLeadDetailsRequest) (*interest.Interest, error) {
	if req.BrokerNotes == nil && req.ProposalValue == nil {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "nothing to update")
	}

	var proposal *float64
	var clearProposal bool
	if req.ProposalValue != nil {
		raw := strings.TrimSpace(*req.ProposalValue)
		if raw == "" {
			clearProposal = true
		} else {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil || v < 0 {
				return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "proposal value must be a non-negative number")
			}
			proposal = &v
		}
	}

	if err := e.store.UpdateDetails(ctx, leadID, req.BrokerNotes, proposal, clearProposal); err != nil {
		return nil, err
	}

	// Patch the resident board copy so stats and snapshots stay current
	// without a full reload. A broker with no resident board has nothing to
	// patch or notify.
	e.mu.Lock()
	if _, resident := e.boards[brokerID]; resident {
		if lead, _, _ := e.findLeadLocked(brokerID, leadID); lead != nil {
			if req.BrokerNotes != nil {
				lead.BrokerNotes = sql.NullString{String: *req.BrokerNotes, Valid: true}
			}
			if clearProposal {
				lead.ProposalValue = sql.NullFloat64{}
			} else if proposal != nil {
				lead.ProposalValue = sql.NullFloat64{Float64: *proposal, Valid: true}
			}
		}
		snap := e.snapshotLocked(brokerID)
		e.mu.Unlock()
		e.notify(brokerID, snap)
	} else {
		e.mu.Unlock()
	}

	return e.store.FindDetail(ctx, leadID)
}

// Stats derives the board header numbers from the resident board.
func (e *Engine) Stats(ctx context.Context, brokerID int64) (*interest.Stats, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.ensureBoardLocked(ctx, brokerID); err != nil {
		return nil, err
	}

	cols := e.boards[brokerID]
	stats := &interest.Stats{}

	total := 0
	for _, s := range interest.Stages() {
		total += len(cols[s])
		if !s.IsTerminal() {
			stats.TotalActive += len(cols[s])
		}
	}

	if total > 0 {
		stats.ConversionRate = float64(len(cols[interest.StageWon])) / float64(total) * 100
	}

	for _, s := range []interest.Stage{interest.StageNegotiating, interest.StageProposalSent} {
		for _, l := range cols[s] {
			if l.ProposalValue.Valid {
				stats.ValueInNegotiation += l.ProposalValue.Float64
			}
		}
	}

	return stats, nil
}
