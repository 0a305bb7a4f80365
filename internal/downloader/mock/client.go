// Package mock provides an in-memory download client for developer mode.
package mock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/fetcharr/fetcharr/internal/downloader/types"
)

// MockDownloadDir is the simulated download directory.
const MockDownloadDir = "/mock/downloads/fetcharr"

// Client implements a mock download client. Downloads are recorded but no
// data moves; everything added completes instantly unless added paused.
type Client struct {
	mu        sync.RWMutex
	downloads map[string]*types.DownloadItem
}

var _ types.Client = (*Client)(nil)

// New creates an empty mock client.
func New() *Client {
	return &Client{
		downloads: make(map[string]*types.DownloadItem),
	}
}

// Type returns the client type.
func (c *Client) Type() types.ClientType {
	return types.ClientTypeMock
}

// Test always succeeds.
func (c *Client) Test(_ context.Context) error {
	return nil
}

// AddMagnet records a download keyed by the magnet's info hash when one can
// be extracted, or a random id otherwise.
func (c *Client) AddMagnet(_ context.Context, magnetURL string, opts types.AddOptions) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := infoHashFromMagnet(magnetURL)
	if id == "" {
		id = randomID()
	}

	name := opts.Name
	if name == "" {
		name = magnetURL
	}

	downloadDir := MockDownloadDir
	if opts.DownloadDir != "" {
		downloadDir = opts.DownloadDir
	}

	status := types.StatusCompleted
	progress := 100.0
	if opts.Paused {
		status = types.StatusPaused
		progress = 0
	}

	c.downloads[id] = &types.DownloadItem{
		ID:          id,
		Name:        name,
		Status:      status,
		Progress:    progress,
		DownloadDir: downloadDir,
		AddedAt:     time.Now(),
	}

	return id, nil
}

// List returns all recorded downloads.
func (c *Client) List(_ context.Context) ([]types.DownloadItem, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	items := make([]types.DownloadItem, 0, len(c.downloads))
	for _, d := range c.downloads {
		items = append(items, *d)
	}
	return items, nil
}

// Get retrieves a download by id.
func (c *Client) Get(_ context.Context, id string) (*types.DownloadItem, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	d, ok := c.downloads[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	item := *d
	return &item, nil
}

// Remove forgets a download.
func (c *Client) Remove(_ context.Context, id string, _ bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.downloads[id]; !ok {
		return types.ErrNotFound
	}
	delete(c.downloads, id)
	return nil
}

// Pause marks a download paused.
func (c *Client) Pause(_ context.Context, id string) error {
	return c.setStatus(id, types.StatusPaused)
}

// Resume marks a paused download completed.
func (c *Client) Resume(_ context.Context, id string) error {
	return c.setStatus(id, types.StatusCompleted)
}

func (c *Client) setStatus(id string, status types.Status) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	d, ok := c.downloads[id]
	if !ok {
		return types.ErrNotFound
	}
	d.Status = status
	if status == types.StatusCompleted {
		d.Progress = 100
	}
	return nil
}

// infoHashFromMagnet pulls the btih hash out of a magnet link.
func infoHashFromMagnet(magnetURL string) string {
	const marker = "urn:btih:"
	idx := strings.Index(magnetURL, marker)
	if idx < 0 {
		return ""
	}
	hash := magnetURL[idx+len(marker):]
	if amp := strings.IndexByte(hash, '&'); amp >= 0 {
		hash = hash[:amp]
	}
	return strings.ToLower(hash)
}

func randomID() string {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return "mockdownload"
	}
	return hex.EncodeToString(b)
}
