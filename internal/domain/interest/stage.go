// internal/domain/interest/stage.go
package interest

import "fmt"

// Stage is the sales-funnel phase of a lead. The set is closed: values
// arriving from the database or API must go through ParseStage.
type Stage string

const (
	StagePending        Stage = "pending"
	StageContacted      Stage = "contacted"
	StageVisitScheduled Stage = "visit_scheduled"
	StageNegotiating    Stage = "negotiating"
	StageProposalSent   Stage = "proposal_sent"
	StageWon            Stage = "won"
	StageLost           Stage = "lost"
)

// Stages returns every stage in board order.
func Stages() []Stage {
	return []Stage{
		StagePending,
		StageContacted,
		StageVisitScheduled,
		StageNegotiating,
		StageProposalSent,
		StageWon,
		StageLost,
	}
}

var stageLabels = map[Stage]string{
	StagePending:        "Novo Lead",
	StageContacted:      "Contato Inicial",
	StageVisitScheduled: "Visita Agendada",
	StageNegotiating:    "Em Negociação",
	StageProposalSent:   "Proposta Enviada",
	StageWon:            "Venda Fechada",
	StageLost:           "Perdido",
}

// ParseStage validates a raw stage value. An empty value maps to pending,
// matching how freshly created interests enter the funnel.
func ParseStage(raw string) (Stage, error) {
	if raw == "" {
		return StagePending, nil
	}
	s := Stage(raw)
	if _, ok := stageLabels[s]; !ok {
		return "", fmt.Errorf("unknown pipeline stage %q", raw)
	}
	return s, nil
}

// Label returns the human-readable (pt-BR) column title for the stage.
func (s Stage) Label() string {
	return stageLabels[s]
}

// IsTerminal reports whether no further transition is permitted.
func (s Stage) IsTerminal() bool {
	return s == StageWon || s == StageLost
}

// CanTransitionTo reports whether a lead currently in s may move to target.
// Any non-terminal stage may move anywhere; won and lost are final.
func (s Stage) CanTransitionTo(target Stage) bool {
	if s.IsTerminal() {
		return false
	}
	if _, ok := stageLabels[target]; !ok {
		return false
	}
	return true
}
