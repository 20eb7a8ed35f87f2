package domain

import "time"

type EmployeeStatus string

const (
	EmployeeStatusActive     EmployeeStatus = "active"
	EmployeeStatusOnLeave    EmployeeStatus = "on_leave"
	EmployeeStatusTerminated EmployeeStatus = "terminated"
)

type Salary struct {
	AmountCents int64  `json:"amountCents"`
	Currency    string `json:"currency"`
	Period      string `json:"period"` // yearly, monthly, hourly
}

type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	Region     string `json:"region"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type EmergencyContact struct {
	Name     string `json:"name"`
	Relation string `json:"relation"`
	Phone    string `json:"phone"`
}

type Employee struct {
	ID               int64             `json:"id"`
	FirstName        string            `json:"firstName"`
	LastName         string            `json:"lastName"`
	Email            string            `json:"email"`
	Title            string            `json:"title"`
	Department       string            `json:"department"`
	StartDate        *time.Time        `json:"startDate"`
	Status           EmployeeStatus    `json:"status"`
	Salary           *Salary           `json:"salary"`
	Address          *Address          `json:"address"`
	EmergencyContact *EmergencyContact `json:"emergencyContact"`
	// ApplicationID links back to the hired application this record was
	// converted from, when applicable.
	ApplicationID *int64     `json:"applicationId"`
	TerminatedAt  *time.Time `json:"terminatedAt"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	Version       int32      `json:"-"`
}

type EmployeeNote struct {
	ID         int64     `json:"id"`
	EmployeeID int64     `json:"employeeId"`
	AuthorID   int64     `json:"authorId"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
