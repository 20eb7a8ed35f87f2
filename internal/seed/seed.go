package seed

import (
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/lakeside-labs/backoffice/backend/internal/domain"
	"github.com/lakeside-labs/backoffice/backend/internal/repository"
	"github.com/lakeside-labs/backoffice/backend/internal/utils"
)

var departments = []string{"Engineering", "Design", "Sales", "Operations", "Marketing"}
var locations = []string{"Remote", "Chicago, IL", "Austin, TX", "Hybrid - Chicago"}
var leadSources = []string{"website", "referral", "conference", "cold_outreach"}
var leadStages = []domain.LeadStage{
	domain.LeadStageNew, domain.LeadStageContacted, domain.LeadStageQualified,
	domain.LeadStageProposal, domain.LeadStageNegotiation,
}

// Jobs inserts n active job postings.
func Jobs(r *repository.Repository, n int) {
	for i := 0; i < n; i++ {
		publicID, err := utils.NewPublicID()
		if err != nil {
			slog.Error("could not generate public id", "error", err)
			continue
		}

		min := int64(60000+rand.Intn(60)*1000) * 100
		max := min + int64(rand.Intn(40)*1000)*100
		job := &domain.Job{
			PublicID:    publicID,
			Title:       fmt.Sprintf("%s Specialist %d", departments[rand.Intn(len(departments))], i+1),
			Department:  departments[rand.Intn(len(departments))],
			Location:    locations[rand.Intn(len(locations))],
			Description: "We are looking for a motivated person to join our team.",
			SalaryMin:   &min,
			SalaryMax:   &max,
			IsActive:    true,
		}
		if err := r.CreateJob(job); err != nil {
			slog.Error("could not insert job", "error", err)
		}
	}
}

// Applications inserts n applications spread over the existing jobs.
func Applications(r *repository.Repository, n int) {
	jobs, err := r.GetAllJobs(false)
	if err != nil || len(jobs) == 0 {
		slog.Error("no jobs to attach applications to", "error", err)
		return
	}

	for i := 0; i < n; i++ {
		publicID, err := utils.NewPublicID()
		if err != nil {
			slog.Error("could not generate public id", "error", err)
			continue
		}

		first, last := utils.RandomName()
		job := jobs[rand.Intn(len(jobs))]
		app := &domain.Application{
			PublicID:    publicID,
			JobID:       job.ID,
			FirstName:   first,
			LastName:    last,
			Email:       fmt.Sprintf("%s.%s%d@example.com", strings.ToLower(first), strings.ToLower(last), i),
			Phone:       fmt.Sprintf("+1 312 555 %04d", rand.Intn(10000)),
			CoverLetter: "I would love to be considered for this role.",
			Status:      domain.ApplicationStatusNew,
		}
		if err := r.CreateApplication(app); err != nil {
			slog.Error("could not insert application", "error", err)
		}
	}
}

// Employees inserts n active employees.
func Employees(r *repository.Repository, n int) {
	for i := 0; i < n; i++ {
		first, last := utils.RandomName()
		start := time.Now().AddDate(0, -rand.Intn(36), 0)
		emp := &domain.Employee{
			FirstName:  first,
			LastName:   last,
			Email:      fmt.Sprintf("%s.%s@example.com", strings.ToLower(first), strings.ToLower(last)),
			Title:      "Specialist",
			Department: departments[rand.Intn(len(departments))],
			StartDate:  &start,
			Status:     domain.EmployeeStatusActive,
			Salary: &domain.Salary{
				AmountCents: int64(70000+rand.Intn(50)*1000) * 100,
				Currency:    "USD",
				Period:      "yearly",
			},
		}
		if err := r.CreateEmployee(emp); err != nil {
			slog.Error("could not insert employee", "error", err)
		}
	}
}

// SalesLeads inserts n open pipeline leads.
func SalesLeads(r *repository.Repository, n int) {
	for i := 0; i < n; i++ {
		first, last := utils.RandomName()
		lead := &domain.SalesLead{
			Company:             utils.RandomCompany(),
			ContactName:         first + " " + last,
			ContactEmail:        fmt.Sprintf("%s.%s@example.net", strings.ToLower(first), strings.ToLower(last)),
			Source:              leadSources[rand.Intn(len(leadSources))],
			Stage:               leadStages[rand.Intn(len(leadStages))],
			EstimatedValueCents: int64(5000+rand.Intn(95)*1000) * 100,
		}
		if err := r.CreateSalesLead(lead); err != nil {
			slog.Error("could not insert sales lead", "error", err)
		}
	}
}

// Templates inserts the default candidate email templates used by the
// application status workflow.
func Templates(r *repository.Repository) {
	templates := []*domain.EmailTemplate{
		{
			Name:       "interview_invitation",
			EntityType: "application",
			Subject:    "Interview invitation - {{jobTitle}} at {{companyName}}",
			Body:       "Hi {{firstName}},\n\nThanks for applying to the {{jobTitle}} role. We would like to invite you to an interview. Reply to this email with your availability.\n\n{{companyName}}",
		},
		{
			Name:       "offer_extended",
			EntityType: "application",
			Subject:    "Your offer from {{companyName}}",
			Body:       "Hi {{firstName}},\n\nWe are excited to extend you an offer for the {{jobTitle}} position. Details will follow shortly.\n\n{{companyName}}",
		},
		{
			Name:       "application_rejected",
			EntityType: "application",
			Subject:    "Your application at {{companyName}}",
			Body:       "Hi {{firstName}},\n\nThank you for your interest in the {{jobTitle}} role. We have decided to move forward with other candidates.\n\n{{companyName}}",
		},
		{
			Name:       "sales_followup",
			EntityType: "sales_lead",
			Subject:    "Following up - {{companyName}}",
			Body:       "Hi {{contactName}},\n\nJust following up on our conversation about working with {{company}}.\n\n{{companyName}}",
		},
	}

	for _, tpl := range templates {
		if err := r.CreateEmailTemplate(tpl); err != nil {
			slog.Error("could not insert email template", "name", tpl.Name, "error", err)
		}
	}
}
