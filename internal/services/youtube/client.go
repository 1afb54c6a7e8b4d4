// Package youtube publishes finished videos through the YouTube Data API v3.
// Authentication uses a long-lived OAuth refresh token minted once out of
// band; every run exchanges it for a fresh access token.
package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"strings"
	"time"

	"pawpress/internal/logging"
	"pawpress/internal/services"
)

const (
	tokenEndpoint  = "https://oauth2.googleapis.com/token"
	uploadEndpoint = "https://www.googleapis.com/upload/youtube/v3/videos"
	apiEndpoint    = "https://www.googleapis.com/youtube/v3"
	watchURLPrefix = "https://www.youtube.com/watch?v="
)

// Config carries OAuth credentials and upload defaults.
type Config struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	Privacy      string
	CategoryID   string
	PlaylistID   string
}

// Client implements services.Uploader for YouTube.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger

	// Endpoint overrides for tests.
	tokenURL  string
	uploadURL string
	apiURL    string
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithEndpoints overrides the API endpoints (tests only).
func WithEndpoints(tokenURL, uploadURL, apiURL string) Option {
	return func(c *Client) {
		c.tokenURL = tokenURL
		c.uploadURL = uploadURL
		c.apiURL = apiURL
	}
}

// NewClient constructs a YouTube uploader.
func NewClient(cfg Config, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = logging.NewNop()
	}
	client := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Minute},
		logger:     logger.With(logging.String(logging.FieldComponent, "youtube")),
		tokenURL:   tokenEndpoint,
		uploadURL:  uploadEndpoint,
		apiURL:     apiEndpoint,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Platform identifies this uploader in logs and the audit trail.
func (c *Client) Platform() string {
	return "youtube"
}

// Upload pushes the video file with its metadata and returns the new video
// ID and watch URL. When a playlist is configured the video is added to it;
// playlist failures are logged but do not fail the upload.
func (c *Client) Upload(ctx context.Context, req services.UploadRequest) (services.UploadResult, error) {
	var empty services.UploadResult
	if c.cfg.ClientID == "" || c.cfg.ClientSecret == "" || c.cfg.RefreshToken == "" {
		return empty, services.Wrap(services.ErrConfiguration, "youtube", "upload", "oauth credentials missing", nil)
	}
	if req.ArtifactPath == "" {
		return empty, services.Wrap(services.ErrValidation, "youtube", "upload", "artifact path required", nil)
	}

	token, err := c.accessToken(ctx)
	if err != nil {
		return empty, err
	}

	videoID, err := c.insertVideo(ctx, token, req)
	if err != nil {
		return empty, err
	}
	c.logger.Info("video uploaded",
		logging.Int(logging.FieldEpisode, req.EpisodeNumber),
		logging.String("video_id", videoID))

	if c.cfg.PlaylistID != "" {
		if err := c.addToPlaylist(ctx, token, videoID); err != nil {
			c.logger.Warn("playlist insert failed", logging.Error(err))
		}
	}

	return services.UploadResult{ID: videoID, URL: watchURLPrefix + videoID}, nil
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	form := url.Values{
		"client_id":     {c.cfg.ClientID},
		"client_secret": {c.cfg.ClientSecret},
		"refresh_token": {c.cfg.RefreshToken},
		"grant_type":    {"refresh_token"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "youtube", "token", "build request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "youtube", "token", "request failed", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		marker := services.ErrTransient
		if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
			marker = services.ErrConfiguration
		}
		return "", services.Wrap(marker, "youtube", "token",
			fmt.Sprintf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}
	var decoded struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", services.Wrap(services.ErrTransient, "youtube", "token", "decode response", err)
	}
	if decoded.AccessToken == "" {
		return "", services.Wrap(services.ErrConfiguration, "youtube", "token", "empty access token", nil)
	}
	return decoded.AccessToken, nil
}

type videoSnippet struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
	CategoryID  string   `json:"categoryId,omitempty"`
}

type videoStatus struct {
	PrivacyStatus           string `json:"privacyStatus"`
	SelfDeclaredMadeForKids bool   `json:"selfDeclaredMadeForKids"`
}

func (c *Client) insertVideo(ctx context.Context, token string, req services.UploadRequest) (string, error) {
	file, err := os.Open(req.ArtifactPath)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "youtube", "upload", "open artifact", err)
	}
	defer file.Close()

	privacy := c.cfg.Privacy
	if privacy == "" {
		privacy = "public"
	}
	metadata := map[string]any{
		"snippet": videoSnippet{
			Title:       req.Title,
			Description: req.Description,
			Tags:        req.Tags,
			CategoryID:  c.cfg.CategoryID,
		},
		"status": videoStatus{PrivacyStatus: privacy},
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	metaHeader := textproto.MIMEHeader{}
	metaHeader.Set("Content-Type", "application/json; charset=UTF-8")
	metaPart, err := writer.CreatePart(metaHeader)
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "youtube", "upload", "build metadata part", err)
	}
	if err := json.NewEncoder(metaPart).Encode(metadata); err != nil {
		return "", services.Wrap(services.ErrTransient, "youtube", "upload", "encode metadata", err)
	}

	mediaHeader := textproto.MIMEHeader{}
	mediaHeader.Set("Content-Type", "video/*")
	mediaPart, err := writer.CreatePart(mediaHeader)
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "youtube", "upload", "build media part", err)
	}
	if _, err := io.Copy(mediaPart, file); err != nil {
		return "", services.Wrap(services.ErrTransient, "youtube", "upload", "read artifact", err)
	}
	if err := writer.Close(); err != nil {
		return "", services.Wrap(services.ErrTransient, "youtube", "upload", "finalize body", err)
	}

	endpoint := c.uploadURL + "?uploadType=multipart&part=snippet,status"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "youtube", "upload", "build request", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Content-Type", "multipart/related; boundary="+writer.Boundary())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "youtube", "upload", "request failed", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", services.Wrap(services.ErrExternalTool, "youtube", "upload",
			fmt.Sprintf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}
	var decoded struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", services.Wrap(services.ErrTransient, "youtube", "upload", "decode response", err)
	}
	if decoded.ID == "" {
		return "", services.Wrap(services.ErrExternalTool, "youtube", "upload", "response missing video id", nil)
	}
	return decoded.ID, nil
}

func (c *Client) addToPlaylist(ctx context.Context, token, videoID string) error {
	payload := map[string]any{
		"snippet": map[string]any{
			"playlistId": c.cfg.PlaylistID,
			"resourceId": map[string]string{
				"kind":    "youtube#video",
				"videoId": videoID,
			},
		},
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return services.Wrap(services.ErrTransient, "youtube", "playlist", "encode payload", err)
	}
	endpoint := c.apiURL + "/playlistItems?part=snippet"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return services.Wrap(services.ErrTransient, "youtube", "playlist", "build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return services.Wrap(services.ErrTransient, "youtube", "playlist", "request failed", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return services.Wrap(services.ErrExternalTool, "youtube", "playlist",
			fmt.Sprintf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}
	return nil
}
