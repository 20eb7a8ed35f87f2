package domain

import (
	"encoding/json"
	"time"
)

type AnalyticsEventType string

const (
	AnalyticsPageView          AnalyticsEventType = "page_view"
	AnalyticsJobView           AnalyticsEventType = "job_view"
	AnalyticsApplicationStart  AnalyticsEventType = "application_start"
	AnalyticsApplicationSubmit AnalyticsEventType = "application_submit"
)

type AnalyticsEvent struct {
	ID        int64              `json:"id"`
	Type      AnalyticsEventType `json:"type"`
	JobID     *int64             `json:"jobId"`
	IPHash    string             `json:"-"`
	Metadata  json.RawMessage    `json:"metadata"`
	CreatedAt time.Time          `json:"createdAt"`
}

type DashboardStats struct {
	TotalApplications    int64                        `json:"totalApplications"`
	ApplicationsByStatus map[ApplicationStatus]int64  `json:"applicationsByStatus"`
	ActiveJobs           int64                        `json:"activeJobs"`
	JobViews             map[int64]int64              `json:"jobViews"`
	EventsByType         map[AnalyticsEventType]int64 `json:"eventsByType"`
	OpenLeads            int64                        `json:"openLeads"`
	PipelineValueCents   int64                        `json:"pipelineValueCents"`
}
