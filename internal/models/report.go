package models

import "time"

// RunReport summarizes one pipeline run for archival and the admin API.
type RunReport struct {
	ID             string          `json:"id"`
	Topic          string          `json:"topic"`
	AutoPost       bool            `json:"auto_post"`
	StartedAt      time.Time       `json:"started_at"`
	FinishedAt     time.Time       `json:"finished_at"`
	FetchedCount   int             `json:"fetched_count"`
	RankedCount    int             `json:"ranked_count"`
	RewrittenCount int             `json:"rewritten_count"`
	Results        []PublishResult `json:"results"`
	PostedCount    int             `json:"posted_count"`
	FilePath       string          `json:"file_path,omitempty"`
}
