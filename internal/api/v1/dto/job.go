package dto

import (
	"voxscribe/internal/app/jobs"
	"voxscribe/internal/app/model"
)

// JobAccepted is returned by POST /jobs.
type JobAccepted struct {
	ID     string          `json:"id"`
	Status model.JobStatus `json:"status"`
}

// JobResponse is a job snapshot.
type JobResponse = jobs.Snapshot
