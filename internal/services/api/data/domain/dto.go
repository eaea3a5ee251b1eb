// Package domain holds DTOs for the remote data store endpoints
package domain

// MonthStats summarizes one subject's month snapshot
type MonthStats struct {
	SubjectID string         `json:"subjectId" example:"EMP001"`
	Period    string         `json:"period" example:"2025-08"`
	Stats     map[string]int `json:"stats"`
	Total     int            `json:"total" example:"42"`
}

// TodayCount is the badge read: today's usage count for a subject
type TodayCount struct {
	SubjectID string `json:"subjectId" example:"EMP001"`
	Date      string `json:"date" example:"2025-08-30"`
	Count     int    `json:"count" example:"3"`
}

// ReplaceResult acknowledges a full snapshot overwrite
type ReplaceResult struct {
	Status string `json:"status" example:"success"`
}
