// internal/domain/interest/dto.go
package interest

type CreateInterestRequest struct {
	FullName string `json:"full_name" binding:"required,min=3,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Phone    string `json:"phone" binding:"required,min=10,max=15"`
	Income   string `json:"income" binding:"required,max=50"`
	CPF      string `json:"cpf" binding:"required,max=14"`
	Message  string `json:"message" binding:"max=1000"`
}

type MoveLeadRequest struct {
	FromStage   string `json:"from_stage" binding:"required"`
	ToStage     string `json:"to_stage" binding:"required"`
	TargetIndex int    `json:"target_index" binding:"min=0"`
}

type ConfirmLossRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type UpdateLeadDetailsRequest struct {
	BrokerNotes   *string `json:"broker_notes"`
	ProposalValue *string `json:"proposal_value"` // decimal string, empty clears the proposal
}

// Board is the grouped projection exposed to the pipeline UI: every stage
// maps to its ordered lead list, even when empty.
type Board struct {
	Columns map[Stage][]*Interest `json:"columns"`
}

// Stats is the derived read-only snapshot shown above the board.
type Stats struct {
	TotalActive        int     `json:"total_active"`
	ConversionRate     float64 `json:"conversion_rate"`
	ValueInNegotiation float64 `json:"value_in_negotiation"`
}
