package mailer

import (
	"fmt"
	"strings"

	"github.com/lakeside-labs/backoffice/backend/internal/domain"
)

// Render substitutes {{name}} tokens in s with values from vars. Tokens
// without a matching variable are left in place so a typo in a template
// is visible in the output rather than silently dropped.
func Render(s string, vars map[string]string) string {
	for name, value := range vars {
		s = strings.ReplaceAll(s, "{{"+name+"}}", value)
	}
	return s
}

// ApplicationVars is the fixed variable set available to application
// templates.
func ApplicationVars(app *domain.Application, job *domain.Job, companyName string) map[string]string {
	return map[string]string{
		"firstName":   app.FirstName,
		"lastName":    app.LastName,
		"fullName":    app.FirstName + " " + app.LastName,
		"jobTitle":    job.Title,
		"department":  job.Department,
		"companyName": companyName,
	}
}

// LeadVars is the fixed variable set available to sales lead templates.
func LeadVars(lead *domain.SalesLead, companyName string) map[string]string {
	return map[string]string{
		"contactName":    lead.ContactName,
		"company":        lead.Company,
		"companyName":    companyName,
		"estimatedValue": fmt.Sprintf("%.2f", float64(lead.EstimatedValueCents)/100),
	}
}
