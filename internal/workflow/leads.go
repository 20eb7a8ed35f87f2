package workflow

import (
	"fmt"
	"time"

	"github.com/lakeside-labs/backoffice/backend/internal/domain"
)

// LeadStageDelta is the set of timestamp fields a lead must carry after
// entering a stage. Stages other than won/lost clear both dates.
type LeadStageDelta struct {
	SetWonAt   bool
	SetLostAt  bool
	KeepReason bool
}

var leadStageDeltas = map[domain.LeadStage]LeadStageDelta{
	domain.LeadStageNew:         {},
	domain.LeadStageContacted:   {},
	domain.LeadStageQualified:   {},
	domain.LeadStageProposal:    {},
	domain.LeadStageNegotiation: {},
	domain.LeadStageWon:         {SetWonAt: true},
	domain.LeadStageLost:        {SetLostAt: true, KeepReason: true},
}

// ValidLeadStage reports whether stage is part of the pipeline enumeration.
func ValidLeadStage(stage domain.LeadStage) bool {
	_, ok := leadStageDeltas[stage]
	return ok
}

// ApplyLeadStage mutates lead according to the delta table for the target
// stage. The won and lost timestamps stay mutually exclusive: entering won
// clears the lost fields, entering lost clears the won timestamp, and any
// other stage clears both.
func ApplyLeadStage(lead *domain.SalesLead, stage domain.LeadStage, lostReason *string, now time.Time) error {
	delta, ok := leadStageDeltas[stage]
	if !ok {
		return fmt.Errorf("unknown lead stage %q", stage)
	}

	lead.Stage = stage
	lead.WonAt = nil
	lead.LostAt = nil
	lead.LostReason = nil

	if delta.SetWonAt {
		lead.WonAt = &now
	}
	if delta.SetLostAt {
		lead.LostAt = &now
	}
	if delta.KeepReason {
		lead.LostReason = lostReason
	}

	return nil
}
