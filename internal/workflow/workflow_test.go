package workflow

import (
	"testing"
	"time"

	"github.com/lakeside-labs/backoffice/backend/internal/domain"
)

func TestApplyLeadStageWon(t *testing.T) {
	reason := "budget cut"
	lead := &domain.SalesLead{
		Stage:      domain.LeadStageLost,
		LostReason: &reason,
	}
	now := time.Now()
	lead.LostAt = &now

	if err := ApplyLeadStage(lead, domain.LeadStageWon, nil, now); err != nil {
		t.Fatal(err)
	}
	if lead.Stage != domain.LeadStageWon {
		t.Fatalf("stage = %q", lead.Stage)
	}
	if lead.WonAt == nil {
		t.Fatal("WonAt not set")
	}
	if lead.LostAt != nil || lead.LostReason != nil {
		t.Fatal("lost fields not cleared on won")
	}
}

func TestApplyLeadStageLost(t *testing.T) {
	lead := &domain.SalesLead{Stage: domain.LeadStageNegotiation}
	now := time.Now()
	reason := "chose a competitor"

	if err := ApplyLeadStage(lead, domain.LeadStageLost, &reason, now); err != nil {
		t.Fatal(err)
	}
	if lead.LostAt == nil {
		t.Fatal("LostAt not set")
	}
	if lead.LostReason == nil || *lead.LostReason != reason {
		t.Fatalf("LostReason = %v", lead.LostReason)
	}
	if lead.WonAt != nil {
		t.Fatal("WonAt set on lost")
	}
}

func TestApplyLeadStageReopen(t *testing.T) {
	now := time.Now()
	reason := "no budget"
	lead := &domain.SalesLead{
		Stage:      domain.LeadStageLost,
		LostAt:     &now,
		LostReason: &reason,
	}

	if err := ApplyLeadStage(lead, domain.LeadStageQualified, nil, now); err != nil {
		t.Fatal(err)
	}
	if lead.WonAt != nil || lead.LostAt != nil || lead.LostReason != nil {
		t.Fatal("terminal fields survived a reopen")
	}
}

func TestApplyLeadStageUnknown(t *testing.T) {
	lead := &domain.SalesLead{Stage: domain.LeadStageNew}
	if err := ApplyLeadStage(lead, "archived", nil, time.Now()); err == nil {
		t.Fatal("expected error for unknown stage")
	}
	if lead.Stage != domain.LeadStageNew {
		t.Fatalf("stage mutated to %q before validation", lead.Stage)
	}
}

func TestValidLeadStage(t *testing.T) {
	for _, stage := range []domain.LeadStage{
		domain.LeadStageNew, domain.LeadStageContacted, domain.LeadStageQualified,
		domain.LeadStageProposal, domain.LeadStageNegotiation,
		domain.LeadStageWon, domain.LeadStageLost,
	} {
		if !ValidLeadStage(stage) {
			t.Fatalf("%q should be valid", stage)
		}
	}
	if ValidLeadStage("closed") {
		t.Fatal("unknown stage accepted")
	}
}

func TestSuggestedEmailTemplate(t *testing.T) {
	cases := map[domain.ApplicationStatus]string{
		domain.ApplicationStatusInterviewed: "interview_invitation",
		domain.ApplicationStatusOffered:     "offer_extended",
		domain.ApplicationStatusRejected:    "application_rejected",
	}
	for status, want := range cases {
		got, ok := SuggestedEmailTemplate(status)
		if !ok || got != want {
			t.Fatalf("SuggestedEmailTemplate(%q) = %q, %v", status, got, ok)
		}
	}

	if _, ok := SuggestedEmailTemplate(domain.ApplicationStatusReviewing); ok {
		t.Fatal("reviewing should not suggest a template")
	}
}

func TestValidApplicationStatus(t *testing.T) {
	if !ValidApplicationStatus(domain.ApplicationStatusHired) {
		t.Fatal("hired should be valid")
	}
	if ValidApplicationStatus("archived") {
		t.Fatal("unknown status accepted")
	}
}
