package mailer

import (
	"strings"
	"testing"

	"github.com/lakeside-labs/backoffice/backend/internal/domain"
)

func TestRender(t *testing.T) {
	out := Render("Hi {{firstName}}, welcome to {{companyName}}!", map[string]string{
		"firstName":   "Ada",
		"companyName": "Lakeside Labs",
	})
	if out != "Hi Ada, welcome to Lakeside Labs!" {
		t.Fatalf("Render = %q", out)
	}
}

func TestRenderUnknownTokenKept(t *testing.T) {
	out := Render("Hello {{nobody}}", map[string]string{"firstName": "Ada"})
	if out != "Hello {{nobody}}" {
		t.Fatalf("unknown token should survive, got %q", out)
	}
}

func TestApplicationVars(t *testing.T) {
	app := &domain.Application{FirstName: "Ada", LastName: "Lovelace"}
	job := &domain.Job{Title: "Engineer", Department: "Engineering"}

	vars := ApplicationVars(app, job, "Lakeside Labs")
	if vars["fullName"] != "Ada Lovelace" {
		t.Fatalf("fullName = %q", vars["fullName"])
	}
	if vars["jobTitle"] != "Engineer" || vars["companyName"] != "Lakeside Labs" {
		t.Fatalf("vars = %v", vars)
	}
}

func TestLeadVarsFormatsValue(t *testing.T) {
	lead := &domain.SalesLead{ContactName: "Grace", Company: "Contoso", EstimatedValueCents: 1250050}
	vars := LeadVars(lead, "Lakeside Labs")
	if !strings.HasSuffix(vars["estimatedValue"], "12500.50") {
		t.Fatalf("estimatedValue = %q", vars["estimatedValue"])
	}
}
