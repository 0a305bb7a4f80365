// Package types defines shared types for download clients.
package types

import (
	"context"
	"errors"
	"time"
)

// Common errors for download clients.
var (
	ErrNotConnected = errors.New("client not connected")
	ErrAuthFailed   = errors.New("authentication failed")
	ErrNotFound     = errors.New("download not found")
)

// ClientType represents the type of download client.
type ClientType string

const (
	ClientTypeTransmission ClientType = "transmission"
	ClientTypeRQBit        ClientType = "rqbit"
	ClientTypeMock         ClientType = "mock" // In-memory client for developer mode
)

// ClientConfig holds common configuration for all download clients.
type ClientConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	UseSSL   bool
}

// Client defines the common interface for torrent download clients.
type Client interface {
	Type() ClientType

	// Test verifies the client is reachable and credentials work.
	Test(ctx context.Context) error

	// AddMagnet submits a magnet link and returns the client's id for it
	// (the info hash where the client exposes one).
	AddMagnet(ctx context.Context, magnetURL string, opts AddOptions) (string, error)

	List(ctx context.Context) ([]DownloadItem, error)
	Get(ctx context.Context, id string) (*DownloadItem, error)
	Remove(ctx context.Context, id string, deleteFiles bool) error

	Pause(ctx context.Context, id string) error
	Resume(ctx context.Context, id string) error
}

// AddOptions specifies options for adding a download.
type AddOptions struct {
	Name        string // Display name (used by the mock client)
	DownloadDir string // Override default download directory
	Paused      bool   // Add in paused state
}

// DownloadItem represents a download in progress or completed.
type DownloadItem struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Status         Status    `json:"status"`
	Progress       float64   `json:"progress"` // 0-100
	Size           int64     `json:"size"`
	DownloadedSize int64     `json:"downloadedSize"`
	DownloadSpeed  int64     `json:"downloadSpeed"` // bytes/sec
	UploadSpeed    int64     `json:"uploadSpeed"`   // bytes/sec
	ETA            int64     `json:"eta"`           // seconds, -1 if unavailable
	DownloadDir    string    `json:"downloadDir"`
	AddedAt        time.Time `json:"addedAt,omitempty"`
	Error          string    `json:"error,omitempty"`
}

// Status represents the status of a download.
type Status string

const (
	StatusQueued      Status = "queued"
	StatusDownloading Status = "downloading"
	StatusPaused      Status = "paused"
	StatusCompleted   Status = "completed"
	StatusSeeding     Status = "seeding"
	StatusWarning     Status = "warning"
	StatusError       Status = "error"
	StatusUnknown     Status = "unknown"
)
