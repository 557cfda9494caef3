package model

import "time"

// TaskStatus represents the current state of an analysis task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusError      TaskStatus = "error"
)

// Terminal reports whether no further transitions are possible.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusError
}

// AnalysisTask tracks one uploaded file through the pipeline. The task id is
// an opaque UUID; nothing is ever derived from it.
type AnalysisTask struct {
	ID          string           `json:"task_id"`
	Filename    string           `json:"filename"`
	Status      TaskStatus       `json:"status"`
	Progress    string           `json:"progress"`
	Results     *AnalysisSummary `json:"results,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
}

// AnalysisSummary aggregates a completed run's classification results.
type AnalysisSummary struct {
	TotalProcessed    int     `json:"total_processed"`
	BrandRelatedCount int     `json:"brand_related_count"`
	NonBrandCount     int     `json:"non_brand_count"`
	OfficialCount     int     `json:"official_account_count"`
	MatrixCount       int     `json:"matrix_account_count"`
	UGCCount          int     `json:"ugc_creator_count"`
	OfficialPercent   float64 `json:"official_account_percentage"`
	MatrixPercent     float64 `json:"matrix_account_percentage"`
	UGCPercent        float64 `json:"ugc_creator_percentage"`
	NonBrandPercent   float64 `json:"non_branded_creator_percentage"`
	BrandFile         string  `json:"brand_file"`
	NonBrandFile      string  `json:"non_brand_file"`
}
