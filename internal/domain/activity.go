package domain

import (
	"encoding/json"
	"time"
)

type ActivityEntity string

const (
	ActivityEntityEmployee  ActivityEntity = "employee"
	ActivityEntitySalesLead ActivityEntity = "sales_lead"
)

// ActivityLog rows are append-only; they are never updated after insert.
type ActivityLog struct {
	ID            int64           `json:"id"`
	Entity        ActivityEntity  `json:"entity"`
	EntityID      int64           `json:"entityId"`
	ActorID       int64           `json:"actorId"`
	Action        string          `json:"action"`
	Field         *string         `json:"field"`
	PreviousValue json.RawMessage `json:"previousValue"`
	NewValue      json.RawMessage `json:"newValue"`
	Metadata      json.RawMessage `json:"metadata"`
	CreatedAt     time.Time       `json:"createdAt"`
}
