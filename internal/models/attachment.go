package models

import "io"

// AttachmentUpload is one file lifted out of a multipart create/update
// request before it is handed to the blob store.
type AttachmentUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// AttachmentOutcome reports how one file of a batch settled. A batch never
// fails as a whole; callers inspect the outcomes instead.
type AttachmentOutcome struct {
	Filename string `json:"filename"`
	Key      string `json:"key,omitempty"`
	Location string `json:"location,omitempty"`
	OK       bool   `json:"ok"`
	Error    string `json:"error,omitempty"`
}

// Failed filters the outcomes down to the ones worth surfacing to a caller.
func Failed(outcomes []AttachmentOutcome) []AttachmentOutcome {
	failed := []AttachmentOutcome{}
	for _, outcome := range outcomes {
		if !outcome.OK {
			failed = append(failed, outcome)
		}
	}
	return failed
}
