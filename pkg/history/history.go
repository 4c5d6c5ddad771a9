// Package history records past farm submissions so artists can see what
// was sent, when, and whether the farm accepted it.
package history

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Record is one submission of one scene file.
type Record struct {
	ID          string    `json:"id" bson:"_id"`
	SubmittedAt time.Time `json:"submitted_at" bson:"submitted_at"`
	SceneFile   string    `json:"scene_file" bson:"scene_file"`
	JobName     string    `json:"job_name" bson:"job_name"`
	BatchName   string    `json:"batch_name,omitempty" bson:"batch_name,omitempty"`
	Frames      string    `json:"frames" bson:"frames"`
	Passes      []string  `json:"passes,omitempty" bson:"passes,omitempty"`
	Outputs     []string  `json:"outputs,omitempty" bson:"outputs,omitempty"`
	Success     bool      `json:"success" bson:"success"`
}

// NewRecord creates a Record with a fresh ID and timestamp.
func NewRecord(sceneFile, jobName string) *Record {
	return &Record{
		ID:          uuid.NewString(),
		SubmittedAt: time.Now().UTC(),
		SceneFile:   sceneFile,
		JobName:     jobName,
	}
}

// Store is the interface history backends implement.
// List returns records newest first, at most limit entries (0 = all).
type Store interface {
	Append(ctx context.Context, rec *Record) error
	List(ctx context.Context, limit int) ([]*Record, error)
	Close(ctx context.Context) error
}
