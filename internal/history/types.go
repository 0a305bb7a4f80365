package history

import "time"

// Grab is one recorded hand-off of a search result to the download client.
type Grab struct {
	ID             int64     `json:"id"`
	RequestID      string    `json:"requestId"`
	Title          string    `json:"title"`
	Identity       string    `json:"identity"`
	Source         string    `json:"source"`
	ClientType     string    `json:"clientType"`
	ClientID       string    `json:"clientId"`
	RelevanceScore float64   `json:"relevanceScore"`
	Confidence     float64   `json:"confidence"`
	Automatic      bool      `json:"automatic"`
	GrabbedAt      time.Time `json:"grabbedAt"`
}

// CreateInput holds the fields for recording a grab.
type CreateInput struct {
	RequestID      string
	Title          string
	Identity       string
	Source         string
	ClientType     string
	ClientID       string
	RelevanceScore float64
	Confidence     float64
	Automatic      bool
}

// ListOptions controls history pagination and filtering.
type ListOptions struct {
	Source   string // filter to grabs from one content source
	Page     int
	PageSize int
}

// ListResult is one page of grab history.
type ListResult struct {
	Grabs      []Grab `json:"grabs"`
	TotalCount int64  `json:"totalCount"`
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
}
