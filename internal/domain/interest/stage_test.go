// internal/domain/interest/stage_test.go
package interest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStage(t *testing.T) {
	tests := []struct {
		raw     string
		want    Stage
		wantErr bool
	}{
		{"pending", StagePending, false},
		{"contacted", StageContacted, false},
		{"visit_scheduled", StageVisitScheduled, false},
		{"negotiating", StageNegotiating, false},
		{"proposal_sent", StageProposalSent, false},
		{"won", StageWon, false},
		{"lost", StageLost, false},
		{"", StagePending, false},
		{"archived", "", true},
		{"PENDING", "", true},
	}

	for _, tt := range tests {
		got, err := ParseStage(tt.raw)
		if tt.wantErr {
			assert.Error(t, err, "raw=%q", tt.raw)
			continue
		}
		require.NoError(t, err, "raw=%q", tt.raw)
		assert.Equal(t, tt.want, got)
	}
}

func TestStageTransitions(t *testing.T) {
	// Any non-terminal stage may move anywhere, forwards or backwards.
	assert.True(t, StagePending.CanTransitionTo(StageWon))
	assert.True(t, StageProposalSent.CanTransitionTo(StageContacted))
	assert.True(t, StageNegotiating.CanTransitionTo(StageLost))

	// Terminal stages never move again.
	for _, target := range Stages() {
		assert.False(t, StageWon.CanTransitionTo(target), "won -> %s", target)
		assert.False(t, StageLost.CanTransitionTo(target), "lost -> %s", target)
	}

	assert.False(t, StagePending.CanTransitionTo(Stage("archived")))
}

func TestStageLabels(t *testing.T) {
	assert.Equal(t, "Novo Lead", StagePending.Label())
	assert.Equal(t, "Perdido", StageLost.Label())
	for _, s := range Stages() {
		assert.NotEmpty(t, s.Label())
	}
}

func TestStagesOrder(t *testing.T) {
	stages := Stages()
	require.Len(t, stages, 7)
	assert.Equal(t, StagePending, stages[0])
	assert.Equal(t, StageWon, stages[5])
	assert.Equal(t, StageLost, stages[6])
}
