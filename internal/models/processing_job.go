package models

import "time"

// JobState mirrors the task states reported to pollers.
type JobState string

const (
	StatePending JobState = "PENDING"
	StateSuccess JobState = "SUCCESS"
	StateFailure JobState = "FAILURE"
)

// Terminal reports whether no further transitions are possible.
func (s JobState) Terminal() bool {
	return s == StateSuccess || s == StateFailure
}

type ProcessingJob struct {
	ID         string           `json:"id"`
	SourcePath string           `json:"source_path"`
	Filename   string           `json:"filename"`
	Options    TransformOptions `json:"options"`
	State      JobState         `json:"state"`
	CreatedAt  time.Time        `json:"created_at"`
	DoneAt     *time.Time       `json:"done_at,omitempty"`
	Result     *ProcessedImage  `json:"result,omitempty"`
}

// Finish moves the job into the terminal state matching result.
func (j *ProcessingJob) Finish(result ProcessedImage) {
	now := time.Now().UTC()
	j.DoneAt = &now
	j.Result = &result
	if result.Status == StatusSuccess {
		j.State = StateSuccess
		return
	}
	j.State = StateFailure
}
