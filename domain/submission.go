package domain

import "time"

type SubmissionKind string

const (
	SubmissionFile  SubmissionKind = "file"
	SubmissionURL   SubmissionKind = "url"
	SubmissionEmpty SubmissionKind = "empty"
)

type Submission struct {
	ID          string
	Kind        SubmissionKind
	Fingerprint string
	ReceivedAt  time.Time
}

type SubmissionStats struct {
	Submissions int                    `json:"submissions"`
	ByKind      map[SubmissionKind]int `json:"by_kind"`
}
