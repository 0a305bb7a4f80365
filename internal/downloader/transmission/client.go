// Package transmission implements a Transmission RPC client.
package transmission

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

const sessionIDHeader = "X-Transmission-Session-Id"

// Client implements a Transmission RPC client that satisfies the
// types.Client interface. The session id handshake (409 response with a
// fresh id) is handled transparently.
type Client struct {
	config     types.ClientConfig
	sessionID  string
	httpClient *http.Client
}

var _ types.Client = (*Client)(nil)

// New creates a new Transmission client.
func New(cfg types.ClientConfig) *Client {
	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Type returns the client type.
func (c *Client) Type() types.ClientType {
	return types.ClientTypeTransmission
}

// Test verifies the client connection.
func (c *Client) Test(ctx context.Context) error {
	_, err := c.call(ctx, "session-get", nil)
	return err
}

// AddMagnet adds a torrent from a magnet URL.
func (c *Client) AddMagnet(ctx context.Context, magnetURL string, opts types.AddOptions) (string, error) {
	args := map[string]interface{}{
		"filename": magnetURL,
	}
	if opts.DownloadDir != "" {
		args["download-dir"] = opts.DownloadDir
	}
	if opts.Paused {
		args["paused"] = true
	}

	resp, err := c.call(ctx, "torrent-add", args)
	if err != nil {
		return "", err
	}

	return extractTorrentID(resp)
}

// List returns all torrents.
func (c *Client) List(ctx context.Context) ([]types.DownloadItem, error) {
	args := map[string]interface{}{
		"fields": torrentFields,
	}

	resp, err := c.call(ctx, "torrent-get", args)
	if err != nil {
		return nil, err
	}

	torrentsRaw, ok := resp.Arguments["torrents"].([]interface{})
	if !ok {
		return []types.DownloadItem{}, nil
	}

	items := make([]types.DownloadItem, 0, len(torrentsRaw))
	for _, t := range torrentsRaw {
		torrent, ok := t.(map[string]interface{})
		if !ok {
			continue
		}
		items = append(items, mapToDownloadItem(torrent))
	}

	return items, nil
}

// Get retrieves a specific torrent by ID.
func (c *Client) Get(ctx context.Context, id string) (*types.DownloadItem, error) {
	args := map[string]interface{}{
		"ids":    []string{id},
		"fields": torrentFields,
	}

	resp, err := c.call(ctx, "torrent-get", args)
	if err != nil {
		return nil, err
	}

	torrentsRaw, ok := resp.Arguments["torrents"].([]interface{})
	if !ok || len(torrentsRaw) == 0 {
		return nil, types.ErrNotFound
	}

	torrent, ok := torrentsRaw[0].(map[string]interface{})
	if !ok {
		return nil, types.ErrNotFound
	}

	item := mapToDownloadItem(torrent)
	return &item, nil
}

// Remove removes a torrent.
func (c *Client) Remove(ctx context.Context, id string, deleteFiles bool) error {
	args := map[string]interface{}{
		"ids":               []string{id},
		"delete-local-data": deleteFiles,
	}

	_, err := c.call(ctx, "torrent-remove", args)
	return err
}

// Pause stops a torrent.
func (c *Client) Pause(ctx context.Context, id string) error {
	args := map[string]interface{}{
		"ids": []string{id},
	}

	_, err := c.call(ctx, "torrent-stop", args)
	return err
}

// Resume starts a torrent.
func (c *Client) Resume(ctx context.Context, id string) error {
	args := map[string]interface{}{
		"ids": []string{id},
	}

	_, err := c.call(ctx, "torrent-start", args)
	return err
}

// GetDownloadDir returns the default download directory from Transmission.
func (c *Client) GetDownloadDir(ctx context.Context) (string, error) {
	resp, err := c.call(ctx, "session-get", nil)
	if err != nil {
		return "", err
	}

	if downloadDir, ok := resp.Arguments["download-dir"].(string); ok {
		return downloadDir, nil
	}

	return "", fmt.Errorf("download-dir not found in session response")
}

var torrentFields = []string{
	"id", "name", "status", "percentDone",
	"totalSize", "downloadDir", "hashString",
	"eta", "rateDownload", "rateUpload",
	"downloadedEver", "sizeWhenDone", "error", "errorString",
}

// rpcRequest represents a Transmission RPC request.
type rpcRequest struct {
	Method    string                 `json:"method"`
	Arguments map[string]interface{} `json:"arguments,omitempty"`
}

// rpcResponse represents a Transmission RPC response.
type rpcResponse struct {
	Result    string                 `json:"result"`
	Arguments map[string]interface{} `json:"arguments,omitempty"`
}

// call issues one RPC method. On a 409 the server rotates the session id;
// the new id is taken from the response header and the call retried once.
func (c *Client) call(ctx context.Context, method string, args map[string]interface{}) (*rpcResponse, error) {
	resp, err := c.post(ctx, method, args)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusConflict {
		resp.Body.Close()
		c.sessionID = resp.Header.Get(sessionIDHeader)
		if c.sessionID == "" {
			return nil, fmt.Errorf("transmission returned 409 without a session id")
		}
		if resp, err = c.post(ctx, method, args); err != nil {
			return nil, err
		}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, types.ErrAuthFailed
	default:
		return nil, fmt.Errorf("transmission returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading rpc response: %w", err)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return nil, fmt.Errorf("decoding rpc response: %w", err)
	}
	if rpcResp.Result != "success" {
		return nil, fmt.Errorf("rpc error: %s", rpcResp.Result)
	}

	return &rpcResp, nil
}

func (c *Client) post(ctx context.Context, method string, args map[string]interface{}) (*http.Response, error) {
	body, err := json.Marshal(rpcRequest{Method: method, Arguments: args})
	if err != nil {
		return nil, fmt.Errorf("encoding rpc request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if c.sessionID != "" {
		req.Header.Set(sessionIDHeader, c.sessionID)
	}
	if c.config.Username != "" {
		req.SetBasicAuth(c.config.Username, c.config.Password)
	}

	return c.httpClient.Do(req)
}

func (c *Client) rpcURL() string {
	scheme := "http"
	if c.config.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s:%d/transmission/rpc", scheme, c.config.Host, c.config.Port)
}

// mapToDownloadItem converts one torrent object from a torrent-get response.
// Transmission reports percentDone in 0..1.
func mapToDownloadItem(torrent map[string]interface{}) types.DownloadItem {
	item := types.DownloadItem{
		ID:             getString(torrent, "hashString"),
		Name:           getString(torrent, "name"),
		Status:         mapStatus(getInt(torrent, "status")),
		Progress:       getFloat(torrent, "percentDone") * 100,
		Size:           int64(getFloat(torrent, "sizeWhenDone")),
		DownloadedSize: int64(getFloat(torrent, "downloadedEver")),
		DownloadSpeed:  int64(getFloat(torrent, "rateDownload")),
		UploadSpeed:    int64(getFloat(torrent, "rateUpload")),
		ETA:            int64(getFloat(torrent, "eta")),
		DownloadDir:    getString(torrent, "downloadDir"),
	}

	if getInt(torrent, "error") > 0 {
		item.Error = getString(torrent, "errorString")
		item.Status = types.StatusWarning
	}

	return item
}

// extractTorrentID extracts the torrent ID from an add response.
// Transmission reports an already-known torrent under torrent-duplicate.
func extractTorrentID(resp *rpcResponse) (string, error) {
	for _, key := range []string{"torrent-added", "torrent-duplicate"} {
		added, ok := resp.Arguments[key].(map[string]interface{})
		if !ok {
			continue
		}
		if hashString, ok := added["hashString"].(string); ok {
			return hashString, nil
		}
		if id, ok := added["id"].(float64); ok {
			return fmt.Sprintf("%d", int(id)), nil
		}
	}

	return "", fmt.Errorf("could not extract torrent ID from response")
}

// Transmission numeric status codes: 0 stopped, 1 check-wait, 2 checking,
// 3 download-wait, 4 downloading, 5 seed-wait, 6 seeding.
var statusByCode = [...]types.Status{
	types.StatusPaused,
	types.StatusQueued,
	types.StatusDownloading,
	types.StatusQueued,
	types.StatusDownloading,
	types.StatusSeeding,
	types.StatusSeeding,
}

func mapStatus(code int) types.Status {
	if code < 0 || code >= len(statusByCode) {
		return types.StatusUnknown
	}
	return statusByCode[code]
}

func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func getInt(m map[string]interface{}, key string) int {
	if v, ok := m[key].(float64); ok {
		return int(v)
	}
	return 0
}

func getFloat(m map[string]interface{}, key string) float64 {
	if v, ok := m[key].(float64); ok {
		return v
	}
	return 0
}
