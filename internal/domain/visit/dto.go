// internal/domain/visit/dto.go
package visit

import "time"

type ScheduleVisitRequest struct {
	VisitDate time.Time `json:"visit_date" binding:"required"`
	Notes     string    `json:"notes" binding:"max=500"`
}
