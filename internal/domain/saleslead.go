package domain

import "time"

type LeadStage string

const (
	LeadStageNew         LeadStage = "new"
	LeadStageContacted   LeadStage = "contacted"
	LeadStageQualified   LeadStage = "qualified"
	LeadStageProposal    LeadStage = "proposal"
	LeadStageNegotiation LeadStage = "negotiation"
	LeadStageWon         LeadStage = "won"
	LeadStageLost        LeadStage = "lost"
)

// SalesLead is a pipeline opportunity. WonAt and LostAt are mutually
// exclusive and managed by stage transitions only.
type SalesLead struct {
	ID                  int64      `json:"id"`
	Company             string     `json:"company"`
	ContactName         string     `json:"contactName"`
	ContactEmail        string     `json:"contactEmail"`
	Phone               string     `json:"phone"`
	Source              string     `json:"source"`
	Stage               LeadStage  `json:"stage"`
	EstimatedValueCents int64      `json:"estimatedValueCents"`
	WonAt               *time.Time `json:"wonAt"`
	LostAt              *time.Time `json:"lostAt"`
	LostReason          *string    `json:"lostReason"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
	Version             int32      `json:"-"`
}
