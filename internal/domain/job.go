package domain

import "time"

type Job struct {
	ID          int64     `json:"id"`
	PublicID    string    `json:"publicId"`
	Title       string    `json:"title"`
	Department  string    `json:"department"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	SalaryMin   *int64    `json:"salaryMin"` // minor currency units
	SalaryMax   *int64    `json:"salaryMax"`
	IsActive    bool      `json:"isActive"`
	ViewCount   int64     `json:"viewCount"`
	CreatedAt   time.Time `json:"createdAt"`
	Version     int32     `json:"-"`
}
