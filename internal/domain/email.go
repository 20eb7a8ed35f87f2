package domain

import "time"

type SentEmailStatus string

const (
	SentEmailStatusPending SentEmailStatus = "pending"
	SentEmailStatusSent    SentEmailStatus = "sent"
	SentEmailStatusFailed  SentEmailStatus = "failed"
)

type EmailTemplate struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	EntityType string    `json:"entityType"` // application or sales_lead
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"createdAt"`
	Version    int32     `json:"-"`
}

// SentEmail tracks one outbound send attempt. The row is inserted as
// pending before the message is handed to the queue and updated to
// sent/failed by the mail worker.
type SentEmail struct {
	ID            int64           `json:"id"`
	ApplicationID *int64          `json:"applicationId"`
	LeadID        *int64          `json:"leadId"`
	FromAddress   string          `json:"fromAddress"`
	ToAddress     string          `json:"toAddress"`
	Subject       string          `json:"subject"`
	Body          string          `json:"body"`
	Status        SentEmailStatus `json:"status"`
	MessageID     *string         `json:"messageId"`
	ErrorMessage  *string         `json:"errorMessage"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// ReceivedEmail is an inbound reply matched back to an application by
// sender address.
type ReceivedEmail struct {
	ID            int64     `json:"id"`
	FromAddress   string    `json:"fromAddress"`
	Subject       string    `json:"subject"`
	Body          string    `json:"body"`
	ApplicationID *int64    `json:"applicationId"`
	ReceivedAt    time.Time `json:"receivedAt"`
	CreatedAt     time.Time `json:"createdAt"`
}

// MailMessage is the queue envelope published by the API and consumed by
// the mail worker.
type MailMessage struct {
	SentEmailID int64  `json:"sentEmailId"`
	From        string `json:"from"`
	To          string `json:"to"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
}
