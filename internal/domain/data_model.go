package domain

import "time"

// FitnessSeries holds the raw fitness texts of a run log, one per generation
// in order of appearance.
type FitnessSeries []string

type UploadedFile struct {
	Id         string    `json:"id"`
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	Size       int64     `json:"size"`
	SessionId  string    `json:"session_id"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// DatasetSummary describes an uploaded fitness-case dataset.
type DatasetSummary struct {
	Path    string   `json:"path"`
	Header  []string `json:"header"`
	Columns int      `json:"columns"`
	Rows    int      `json:"rows"`
}
