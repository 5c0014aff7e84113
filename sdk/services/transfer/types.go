// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package transfer

// Entry is one item of a remote directory listing.
type Entry struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

const (
	EntryTypeFile = "file"
	EntryTypeDir  = "dir"
)

func (e Entry) IsDir() bool { return e.Type == EntryTypeDir }

// Endpoint is the subset of the endpoint document this CLI reads.
type Endpoint struct {
	ID            string `json:"id"`
	DisplayName   string `json:"display_name"`
	CanonicalName string `json:"canonical_name"`
}

// Item is one source→destination pair of a transfer submission.
type Item struct {
	Source      string
	Destination string
}

// SubmitRequest describes an asynchronous, checksum-verified transfer job.
type SubmitRequest struct {
	SourceEndpoint      string
	DestinationEndpoint string
	Label               string
	Items               []Item
}

// Task reflects the lifecycle of a submitted transfer.
type Task struct {
	TaskID     string `json:"task_id"`
	Status     string `json:"status"`
	NiceStatus string `json:"nice_status_short_description"`
}

const (
	TaskStatusActive    = "ACTIVE"
	TaskStatusInactive  = "INACTIVE"
	TaskStatusSucceeded = "SUCCEEDED"
	TaskStatusFailed    = "FAILED"
)

// wire documents

type lsResponse struct {
	Data []Entry `json:"DATA"`
}

type endpointSearchResponse struct {
	Data        []Endpoint `json:"DATA"`
	HasNextPage bool       `json:"has_next_page"`
}

type submissionIDResponse struct {
	Value string `json:"value"`
}

type transferItemDocument struct {
	DataType        string `json:"DATA_TYPE"`
	SourcePath      string `json:"source_path"`
	DestinationPath string `json:"destination_path"`
}

type transferDocument struct {
	DataType            string                 `json:"DATA_TYPE"`
	SubmissionID        string                 `json:"submission_id"`
	SourceEndpoint      string                 `json:"source_endpoint"`
	DestinationEndpoint string                 `json:"destination_endpoint"`
	Label               string                 `json:"label,omitempty"`
	SyncLevel           string                 `json:"sync_level"`
	Data                []transferItemDocument `json:"DATA"`
}

type submitResponse struct {
	TaskID  string `json:"task_id"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
