package workflow

import "github.com/lakeside-labs/backoffice/backend/internal/domain"

var applicationStatuses = map[domain.ApplicationStatus]struct{}{
	domain.ApplicationStatusNew:         {},
	domain.ApplicationStatusReviewing:   {},
	domain.ApplicationStatusInterviewed: {},
	domain.ApplicationStatusOffered:     {},
	domain.ApplicationStatusHired:       {},
	domain.ApplicationStatusRejected:    {},
}

// suggestedTemplates maps target statuses that should prompt the admin to
// send an email to the template name used for the suggestion. The status
// write and the email send remain two independent operations.
var suggestedTemplates = map[domain.ApplicationStatus]string{
	domain.ApplicationStatusInterviewed: "interview_invitation",
	domain.ApplicationStatusOffered:     "offer_extended",
	domain.ApplicationStatusRejected:    "application_rejected",
}

// ValidApplicationStatus reports whether status is part of the fixed set.
func ValidApplicationStatus(status domain.ApplicationStatus) bool {
	_, ok := applicationStatuses[status]
	return ok
}

// SuggestedEmailTemplate returns the template name to offer when an
// application enters status, and whether one applies.
func SuggestedEmailTemplate(status domain.ApplicationStatus) (string, bool) {
	name, ok := suggestedTemplates[status]
	return name, ok
}
