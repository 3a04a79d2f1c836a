package api

import "time"

type Report struct {
	Name       string    `json:"name"`
	Format     string    `json:"format"`
	SizeBytes  int64     `json:"size_bytes"`
	ModifiedAt time.Time `json:"modified_at"`
}

type ReportSummary struct {
	Title          string    `json:"title"`
	Scope          string    `json:"scope"`
	GeneratedAt    time.Time `json:"generated_at"`
	Total          int       `json:"total"`
	Passed         int       `json:"passed"`
	Failed         int       `json:"failed"`
	Warned         int       `json:"warned"`
	Info           int       `json:"info"`
	Manual         int       `json:"manual"`
	SuccessPercent int       `json:"success_percent"`
}

type Health struct {
	Status string `json:"status"`
}
