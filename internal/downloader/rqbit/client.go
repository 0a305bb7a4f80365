// Package rqbit implements a client for the rqbit HTTP API.
package rqbit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fetcharr/fetcharr/internal/downloader/types"
)

var _ types.Client = (*Client)(nil)

// Client talks to a running rqbit daemon over its HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new rqbit client.
func New(cfg types.ClientConfig) *Client {
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}

	return &Client{
		baseURL: fmt.Sprintf("%s://%s:%d", scheme, cfg.Host, cfg.Port),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Type returns the client type.
func (c *Client) Type() types.ClientType {
	return types.ClientTypeRQBit
}

// Test verifies the daemon is reachable.
func (c *Client) Test(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/", "", nil, nil)
}

// AddMagnet submits a magnet link. rqbit resolves the metadata itself; the
// returned id is the info hash.
func (c *Client) AddMagnet(ctx context.Context, magnetURL string, _ types.AddOptions) (string, error) {
	var result addResponse
	err := c.do(ctx, http.MethodPost, "/torrents?overwrite=true", "text/plain",
		bytes.NewBufferString(magnetURL), &result)
	if err != nil {
		return "", err
	}
	return result.Details.InfoHash, nil
}

// List returns all torrents known to the daemon.
func (c *Client) List(ctx context.Context) ([]types.DownloadItem, error) {
	var result listResponse
	if err := c.do(ctx, http.MethodGet, "/torrents?with_stats=true", "", nil, &result); err != nil {
		return nil, err
	}

	items := make([]types.DownloadItem, 0, len(result.Torrents))
	for i := range result.Torrents {
		items = append(items, torrentToDownloadItem(&result.Torrents[i]))
	}

	return items, nil
}

// Get retrieves a specific torrent by info hash.
func (c *Client) Get(ctx context.Context, id string) (*types.DownloadItem, error) {
	items, err := c.List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}

	return nil, types.ErrNotFound
}

// Remove forgets a torrent, deleting its files when requested.
func (c *Client) Remove(ctx context.Context, id string, deleteFiles bool) error {
	endpoint := "/forget"
	if deleteFiles {
		endpoint = "/delete"
	}
	return c.post(ctx, "/torrents/"+id+endpoint)
}

// Pause pauses a torrent.
func (c *Client) Pause(ctx context.Context, id string) error {
	return c.post(ctx, "/torrents/"+id+"/pause")
}

// Resume starts a paused torrent.
func (c *Client) Resume(ctx context.Context, id string) error {
	return c.post(ctx, "/torrents/"+id+"/start")
}

func (c *Client) post(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodPost, path, "", nil, nil)
}

// do issues one request against the daemon and decodes the JSON response
// into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out interface{}) error {
	if body == nil {
		body = http.NoBody
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("rqbit returned status %d: %s", resp.StatusCode, detail)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func torrentToDownloadItem(t *torrent) types.DownloadItem {
	status := mapStatus(t.Stats.State, t.Stats.Finished)

	progress := 0.0
	if t.Stats.TotalBytes > 0 {
		progress = float64(t.Stats.ProgressBytes) / float64(t.Stats.TotalBytes) * 100
	}

	downloadSpeed := int64(0)
	uploadSpeed := int64(0)
	eta := int64(-1)

	if t.Stats.Live != nil {
		downloadSpeed = int64(t.Stats.Live.DownloadSpeed.Mbps * 1048576)
		uploadSpeed = int64(t.Stats.Live.UploadSpeed.Mbps * 1048576)

		if t.Stats.Live.TimeRemaining != nil && t.Stats.Live.TimeRemaining.Duration != nil {
			eta = t.Stats.Live.TimeRemaining.Duration.Secs
		}
	}

	item := types.DownloadItem{
		ID:             t.InfoHash,
		Name:           t.Name,
		Status:         status,
		Progress:       progress,
		Size:           t.Stats.TotalBytes,
		DownloadedSize: t.Stats.ProgressBytes,
		DownloadSpeed:  downloadSpeed,
		UploadSpeed:    uploadSpeed,
		ETA:            eta,
		DownloadDir:    t.OutputFolder,
	}

	if t.Stats.Error != nil {
		item.Error = *t.Stats.Error
	}

	return item
}

// mapStatus maps rqbit's numeric torrent state to our status strings.
func mapStatus(state int, finished bool) types.Status {
	if finished {
		if state == 1 {
			return types.StatusCompleted
		}
		return types.StatusSeeding
	}

	switch state {
	case 0: // Initializing
		return types.StatusDownloading
	case 1: // Paused
		return types.StatusPaused
	case 2: // Live
		return types.StatusDownloading
	case 3, 4: // Error states
		return types.StatusWarning
	default:
		return types.StatusUnknown
	}
}

type addResponse struct {
	ID           int            `json:"id"`
	Details      torrentDetails `json:"details"`
	OutputFolder string         `json:"output_folder"`
}

type torrentDetails struct {
	InfoHash string `json:"info_hash"`
	Name     string `json:"name"`
}

type listResponse struct {
	Torrents []torrent `json:"torrents"`
}

type torrent struct {
	ID           int    `json:"id"`
	InfoHash     string `json:"info_hash"`
	Name         string `json:"name"`
	OutputFolder string `json:"output_folder"`
	Stats        stats  `json:"stats"`
}

type stats struct {
	State         int     `json:"state"`
	Error         *string `json:"error"`
	ProgressBytes int64   `json:"progress_bytes"`
	UploadedBytes int64   `json:"uploaded_bytes"`
	TotalBytes    int64   `json:"total_bytes"`
	Finished      bool    `json:"finished"`
	Live          *live   `json:"live"`
}

type live struct {
	DownloadSpeed speed          `json:"download_speed"`
	UploadSpeed   speed          `json:"upload_speed"`
	TimeRemaining *timeRemaining `json:"time_remaining"`
}

type speed struct {
	Mbps float64 `json:"mbps"`
}

type timeRemaining struct {
	Duration *duration `json:"duration"`
}

type duration struct {
	Secs  int64 `json:"secs"`
	Nanos int64 `json:"nanos"`
}
