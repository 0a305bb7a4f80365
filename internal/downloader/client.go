// Package downloader provides download client abstractions and implementations.
package downloader

import (
	"github.com/fetcharr/fetcharr/internal/downloader/types"
)

// Re-export types for convenience.
// This allows external packages to use downloader.Client instead of types.Client.

type (
	ClientType   = types.ClientType
	ClientConfig = types.ClientConfig
	Client       = types.Client
	AddOptions   = types.AddOptions
	DownloadItem = types.DownloadItem
	Status       = types.Status
)

// Re-export constants.
const (
	ClientTypeTransmission = types.ClientTypeTransmission
	ClientTypeRQBit        = types.ClientTypeRQBit
	ClientTypeMock         = types.ClientTypeMock

	StatusQueued      = types.StatusQueued
	StatusDownloading = types.StatusDownloading
	StatusPaused      = types.StatusPaused
	StatusCompleted   = types.StatusCompleted
	StatusSeeding     = types.StatusSeeding
	StatusWarning     = types.StatusWarning
	StatusError       = types.StatusError
	StatusUnknown     = types.StatusUnknown
)

// Re-export errors.
var (
	ErrNotConnected = types.ErrNotConnected
	ErrAuthFailed   = types.ErrAuthFailed
	ErrNotFound     = types.ErrNotFound
)
