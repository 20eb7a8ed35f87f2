package domain

import "time"

type ApplicationStatus string

const (
	ApplicationStatusNew         ApplicationStatus = "new"
	ApplicationStatusReviewing   ApplicationStatus = "reviewing"
	ApplicationStatusInterviewed ApplicationStatus = "interviewed"
	ApplicationStatusOffered     ApplicationStatus = "offered"
	ApplicationStatusHired       ApplicationStatus = "hired"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
)

type Application struct {
	ID          int64             `json:"id"`
	PublicID    string            `json:"publicId"`
	JobID       int64             `json:"jobId"`
	FirstName   string            `json:"firstName"`
	LastName    string            `json:"lastName"`
	Email       string            `json:"email"`
	Phone       string            `json:"phone"`
	LinkedInURL string            `json:"linkedinUrl"`
	CoverLetter string            `json:"coverLetter"`
	ResumePath  *string           `json:"resumePath"`
	Status      ApplicationStatus `json:"status"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
	Version     int32             `json:"-"`
}

// ApplicationNote is owned by the admin who wrote it; only the owner may
// edit or delete it.
type ApplicationNote struct {
	ID            int64     `json:"id"`
	ApplicationID int64     `json:"applicationId"`
	AuthorID      int64     `json:"authorId"`
	Body          string    `json:"body"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
