// internal/service/pipeline/engine_test.go
package pipeline

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"quinto-service/internal/domain/interest"
	xerrors "quinto-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeStore keeps leads and history in memory and can be told to fail writes.
type fakeStore struct {
	mu      sync.Mutex
	leads   []*interest.Interest
	history []interest.HistoryEntry

	failUpdateStage error
	failConfirm     error
}

func (f *fakeStore) ListByBroker(_ context.Context, _ int64) ([]*interest.Interest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*interest.Interest, 0, len(f.leads))
	for _, l := range f.leads {
		cp := *l
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeStore) UpdateStage(_ context.Context, leadID int64, stage interest.Stage, lossReason *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdateStage != nil {
		return f.failUpdateStage
	}
	for _, l := range f.leads {
		if l.ID == leadID {
			l.PipelineStage = stage
			if lossReason != nil {
				l.LossReason = sql.NullString{String: *lossReason, Valid: true}
			}
			return nil
		}
	}
	return xerrors.ErrNotFound
}

func (f *fakeStore) ConfirmLoss(ctx context.Context, leadID int64, reason string, entry *interest.HistoryEntry) error {
	if f.failConfirm != nil {
		return f.failConfirm
	}
	if err := f.UpdateStage(ctx, leadID, interest.StageLost, &reason); err != nil {
		return err
	}
	return f.AppendHistory(ctx, entry)
}

func (f *fakeStore) AppendHistory(_ context.Context, entry *interest.HistoryEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry.ID = int64(len(f.history) + 1)
	f.history = append(f.history, *entry)
	return nil
}

func (f *fakeStore) UpdateDetails(_ context.Context, leadID int64, notes *string, proposal *float64, clearProposal bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.leads {
		if l.ID == leadID {
			if notes != nil {
				l.BrokerNotes = sql.NullString{String: *notes, Valid: true}
			}
			if clearProposal {
				l.ProposalValue = sql.NullFloat64{}
			} else if proposal != nil {
				l.ProposalValue = sql.NullFloat64{Float64: *proposal, Valid: true}
			}
			return nil
		}
	}
	return xerrors.ErrNotFound
}

func (f *fakeStore) FindDetail(_ context.Context, leadID int64) (*interest.Interest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.leads {
		if l.ID == leadID {
			cp := *l
			return &cp, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (f *fakeStore) ListHistory(_ context.Context, leadID int64) ([]interest.HistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []interest.HistoryEntry
	for i := len(f.history) - 1; i >= 0; i-- {
		if f.history[i].InterestID == leadID {
			out = append(out, f.history[i])
		}
	}
	return out, nil
}

func (f *fakeStore) BrokerOf(_ context.Context, _ int64) (int64, error) {
	return 42, nil
}

func (f *fakeStore) stageOf(t *testing.T, leadID int64) interest.Stage {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.leads {
		if l.ID == leadID {
			return l.PipelineStage
		}
	}
	t.Fatalf("lead %d not in store", leadID)
	return ""
}

func newLead(id int64, stage interest.Stage) *interest.Interest {
	return &interest.Interest{
		ID:            id,
		UserID:        100 + id,
		PropertyID:    200 + id,
		FullName:      "Maria Souza",
		Email:         "maria@example.com",
		Phone:         "11999990000",
		PipelineStage: stage,
	}
}

func newEngine(leads ...*interest.Interest) (*Engine, *fakeStore) {
	store := &fakeStore{leads: leads}
	return NewEngine(store, zap.NewNop()), store
}

const brokerID = int64(42)

func TestLoadBoardGroupsEveryStage(t *testing.T) {
	eng, _ := newEngine(
		newLead(1, interest.StagePending),
		newLead(2, interest.StagePending),
		newLead(3, interest.StageNegotiating),
	)

	board, err := eng.LoadBoard(context.Background(), brokerID)
	require.NoError(t, err)

	assert.Len(t, board.Columns, len(interest.Stages()))
	for _, s := range interest.Stages() {
		col, ok := board.Columns[s]
		assert.True(t, ok, "stage %s missing from board", s)
		assert.NotNil(t, col)
	}

	assert.Len(t, board.Columns[interest.StagePending], 2)
	assert.Len(t, board.Columns[interest.StageNegotiating], 1)
	assert.Empty(t, board.Columns[interest.StageWon])
}

func TestMoveLeadPersistsAndAudits(t *testing.T) {
	eng, store := newEngine(newLead(1, interest.StagePending))

	board, err := eng.MoveLead(context.Background(), brokerID, 1, &interest.MoveLeadRequest{
		FromStage: "pending",
		ToStage:   "contacted",
	})
	require.NoError(t, err)

	assert.Empty(t, board.Columns[interest.StagePending])
	require.Len(t, board.Columns[interest.StageContacted], 1)
	assert.Equal(t, interest.StageContacted, board.Columns[interest.StageContacted][0].PipelineStage)

	assert.Equal(t, interest.StageContacted, store.stageOf(t, 1))

	require.Len(t, store.history, 1)
	entry := store.history[0]
	assert.Equal(t, int64(1), entry.InterestID)
	assert.Equal(t, "pending", entry.FromStage.String)
	assert.Equal(t, interest.StageContacted, entry.ToStage)
	assert.Equal(t, brokerID, entry.MovedBy)
}

func TestMoveLeadBackwardIsAllowed(t *testing.T) {
	eng, store := newEngine(newLead(1, interest.StageProposalSent))

	_, err := eng.MoveLead(context.Background(), brokerID, 1, &interest.MoveLeadRequest{
		FromStage: "proposal_sent",
		ToStage:   "contacted",
	})
	require.NoError(t, err)
	assert.Equal(t, interest.StageContacted, store.stageOf(t, 1))
}

func TestMoveLeadIntoLostIsRefused(t *testing.T) {
	eng, store := newEngine(newLead(1, interest.StageNegotiating))

	_, err := eng.MoveLead(context.Background(), brokerID, 1, &interest.MoveLeadRequest{
		FromStage: "negotiating",
		ToStage:   "lost",
	})
	require.ErrorIs(t, err, xerrors.ErrLossReasonRequired)

	assert.Equal(t, interest.StageNegotiating, store.stageOf(t, 1))
	assert.Empty(t, store.history)
}

func TestMoveLeadOutOfTerminalStageRejected(t *testing.T) {
	for _, stage := range []interest.Stage{interest.StageWon, interest.StageLost} {
		t.Run(string(stage), func(t *testing.T) {
			eng, store := newEngine(newLead(1, stage))

			_, err := eng.MoveLead(context.Background(), brokerID, 1, &interest.MoveLeadRequest{
				FromStage: string(stage),
				ToStage:   "contacted",
			})
			require.ErrorIs(t, err, xerrors.ErrTransitionRejected)
			assert.Equal(t, stage, store.stageOf(t, 1))
		})
	}
}

func TestMoveLeadSameStageIsLocalReorder(t *testing.T) {
	eng, store := newEngine(
		newLead(1, interest.StagePending),
		newLead(2, interest.StagePending),
	)

	board, err := eng.MoveLead(context.Background(), brokerID, 1, &interest.MoveLeadRequest{
		FromStage:   "pending",
		ToStage:     "pending",
		TargetIndex: 1,
	})
	require.NoError(t, err)

	col := board.Columns[interest.StagePending]
	require.Len(t, col, 2)
	assert.Equal(t, int64(2), col[0].ID)
	assert.Equal(t, int64(1), col[1].ID)

	// Nothing hit the store.
	assert.Empty(t, store.history)
}

func TestMoveLeadStaleBoardConflicts(t *testing.T) {
	eng, _ := newEngine(newLead(1, interest.StageContacted))

	_, err := eng.MoveLead(context.Background(), brokerID, 1, &interest.MoveLeadRequest{
		FromStage: "pending",
		ToStage:   "negotiating",
	})
	require.ErrorIs(t, err, xerrors.ErrConflict)
}

func TestMoveLeadRollsBackWhenPersistFails(t *testing.T) {
	eng, store := newEngine(newLead(1, interest.StagePending))
	store.failUpdateStage = errors.New("connection reset")

	_, err := eng.MoveLead(context.Background(), brokerID, 1, &interest.MoveLeadRequest{
		FromStage: "pending",
		ToStage:   "contacted",
	})
	require.Error(t, err)

	// The optimistic patch must have been undone and the board reloaded.
	board, err := eng.LoadBoard(context.Background(), brokerID)
	require.NoError(t, err)
	require.Len(t, board.Columns[interest.StagePending], 1)
	assert.Empty(t, board.Columns[interest.StageContacted])
	assert.Equal(t, interest.StagePending, store.stageOf(t, 1))
	assert.Empty(t, store.history)
}

func TestMoveLeadUnknownStage(t *testing.T) {
	eng, _ := newEngine(newLead(1, interest.StagePending))

	_, err := eng.MoveLead(context.Background(), brokerID, 1, &interest.MoveLeadRequest{
		FromStage: "pending",
		ToStage:   "archived",
	})
	require.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestConfirmLoss(t *testing.T) {
	eng, store := newEngine(newLead(1, interest.StageNegotiating))

	board, err := eng.ConfirmLoss(context.Background(), brokerID, 1, "Cliente desistiu")
	require.NoError(t, err)

	require.Len(t, board.Columns[interest.StageLost], 1)
	lost := board.Columns[interest.StageLost][0]
	assert.Equal(t, "Cliente desistiu", lost.LossReason.String)

	require.Len(t, store.history, 1)
	entry := store.history[0]
	assert.Equal(t, "negotiating", entry.FromStage.String)
	assert.Equal(t, interest.StageLost, entry.ToStage)
	assert.Equal(t, "Cliente desistiu", entry.Notes.String)
}

func TestConfirmLossRequiresReason(t *testing.T) {
	eng, store := newEngine(newLead(1, interest.StageContacted))

	for _, reason := range []string{"", "   "} {
		_, err := eng.ConfirmLoss(context.Background(), brokerID, 1, reason)
		require.ErrorIs(t, err, xerrors.ErrLossReasonRequired)
	}
	assert.Equal(t, interest.StageContacted, store.stageOf(t, 1))
}

func TestConfirmLossOnDecidedLeadRejected(t *testing.T) {
	eng, _ := newEngine(newLead(1, interest.StageWon))

	_, err := eng.ConfirmLoss(context.Background(), brokerID, 1, "mudou de ideia")
	require.ErrorIs(t, err, xerrors.ErrTransitionRejected)
}

func TestConfirmLossNotOptimisticOnFailure(t *testing.T) {
	eng, store := newEngine(newLead(1, interest.StageNegotiating))
	store.failConfirm = errors.New("deadlock detected")

	_, err := eng.ConfirmLoss(context.Background(), brokerID, 1, "Comprou outro imóvel")
	require.Error(t, err)

	board, err := eng.LoadBoard(context.Background(), brokerID)
	require.NoError(t, err)
	assert.Empty(t, board.Columns[interest.StageLost])
	require.Len(t, board.Columns[interest.StageNegotiating], 1)
}

func TestUpdateDetails(t *testing.T) {
	eng, _ := newEngine(newLead(1, interest.StageNegotiating))

	notes := "prefere contato por WhatsApp"
	proposal := "350000.50"
	lead, err := eng.UpdateDetails(context.Background(), brokerID, 1, &interest.UpdateLeadDetailsRequest{
		BrokerNotes:   &notes,
		ProposalValue: &proposal,
	})
	require.NoError(t, err)
	assert.Equal(t, notes, lead.BrokerNotes.String)
	assert.Equal(t, 350000.50, lead.ProposalValue.Float64)

	// Empty string clears the proposal.
	empty := ""
	lead, err = eng.UpdateDetails(context.Background(), brokerID, 1, &interest.UpdateLeadDetailsRequest{
		ProposalValue: &empty,
	})
	require.NoError(t, err)
	assert.False(t, lead.ProposalValue.Valid)
	assert.Equal(t, notes, lead.BrokerNotes.String, "notes untouched when only proposal changes")
}

func TestUpdateDetailsRejectsBadProposal(t *testing.T) {
	eng, _ := newEngine(newLead(1, interest.StagePending))

	for _, raw := range []string{"abc", "-1", "1e99x"} {
		v := raw
		_, err := eng.UpdateDetails(context.Background(), brokerID, 1, &interest.UpdateLeadDetailsRequest{
			ProposalValue: &v,
		})
		require.ErrorIs(t, err, xerrors.ErrInvalidInput, "proposal %q", raw)
	}

	_, err := eng.UpdateDetails(context.Background(), brokerID, 1, &interest.UpdateLeadDetailsRequest{})
	require.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func withProposal(l *interest.Interest, v float64) *interest.Interest {
	l.ProposalValue = sql.NullFloat64{Float64: v, Valid: true}
	return l
}

func TestStats(t *testing.T) {
	eng, _ := newEngine(
		newLead(1, interest.StagePending),
		withProposal(newLead(2, interest.StageNegotiating), 250000),
		withProposal(newLead(3, interest.StageProposalSent), 480000),
		withProposal(newLead(4, interest.StageWon), 900000),
		newLead(5, interest.StageLost),
		newLead(6, interest.StageLost),
	)

	stats, err := eng.Stats(context.Background(), brokerID)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalActive)
	// 1 won out of 6 leads on the board.
	assert.InDelta(t, 100.0/6.0, stats.ConversionRate, 0.0001)
	// Won proposals are excluded; only negotiating + proposal_sent count.
	assert.Equal(t, 730000.0, stats.ValueInNegotiation)
}

func TestStatsEmptyBoard(t *testing.T) {
	eng, _ := newEngine()

	stats, err := eng.Stats(context.Background(), brokerID)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalActive)
	assert.Zero(t, stats.ConversionRate, "an empty board must not divide by zero")
	assert.Zero(t, stats.ValueInNegotiation)
}

func TestSubscribeReceivesBoardUpdates(t *testing.T) {
	eng, _ := newEngine(newLead(1, interest.StagePending))

	var got []*interest.Board
	cancel := eng.Subscribe(brokerID, func(b *interest.Board) {
		got = append(got, b)
	})

	_, err := eng.LoadBoard(context.Background(), brokerID)
	require.NoError(t, err)

	_, err = eng.MoveLead(context.Background(), brokerID, 1, &interest.MoveLeadRequest{
		FromStage: "pending",
		ToStage:   "contacted",
	})
	require.NoError(t, err)

	require.NotEmpty(t, got)
	last := got[len(got)-1]
	assert.Len(t, last.Columns[interest.StageContacted], 1)

	cancel()
	before := len(got)
	_, err = eng.LoadBoard(context.Background(), brokerID)
	require.NoError(t, err)
	assert.Len(t, got, before, "cancelled subscriber must not be notified")
}

func TestSubscribeAllCarriesBrokerID(t *testing.T) {
	eng, _ := newEngine(newLead(1, interest.StagePending))

	var gotBroker int64
	var gotBoard *interest.Board
	cancel := eng.SubscribeAll(func(b int64, board *interest.Board) {
		gotBroker = b
		gotBoard = board
	})
	defer cancel()

	_, err := eng.LoadBoard(context.Background(), brokerID)
	require.NoError(t, err)

	assert.Equal(t, int64(brokerID), gotBroker)
	require.NotNil(t, gotBoard)
	assert.Len(t, gotBoard.Columns[interest.StagePending], 1)
}

func TestHistoryNewestFirst(t *testing.T) {
	eng, _ := newEngine(newLead(1, interest.StagePending))

	ctx := context.Background()
	_, err := eng.MoveLead(ctx, brokerID, 1, &interest.MoveLeadRequest{FromStage: "pending", ToStage: "contacted"})
	require.NoError(t, err)
	_, err = eng.MoveLead(ctx, brokerID, 1, &interest.MoveLeadRequest{FromStage: "contacted", ToStage: "negotiating"})
	require.NoError(t, err)

	entries, err := eng.History(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, interest.StageNegotiating, entries[0].ToStage)
	assert.Equal(t, interest.StageContacted, entries[1].ToStage)
}
