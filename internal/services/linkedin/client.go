// Package linkedin publishes episode videos as LinkedIn posts through the
// REST Videos and Posts APIs. The flow is initialize upload, PUT the binary
// in the parts LinkedIn dictates, finalize, then create the post that
// references the video URN.
package linkedin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"pawpress/internal/logging"
	"pawpress/internal/services"
	"pawpress/internal/textutil"
)

const defaultAPIBase = "https://api.linkedin.com/rest"

// Config carries the LinkedIn credentials and API version pin.
type Config struct {
	AccessToken string
	PersonURN   string
	APIVersion  string
}

// Client implements services.Uploader for LinkedIn.
type Client struct {
	cfg        Config
	apiBase    string
	httpClient *http.Client
	logger     *slog.Logger
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

// WithAPIBase overrides the API base URL (tests only).
func WithAPIBase(base string) Option {
	return func(c *Client) {
		c.apiBase = strings.TrimRight(base, "/")
	}
}

// NewClient constructs a LinkedIn uploader.
func NewClient(cfg Config, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = logging.NewNop()
	}
	client := &Client{
		cfg:        cfg,
		apiBase:    defaultAPIBase,
		httpClient: &http.Client{Timeout: 10 * time.Minute},
		logger:     logger.With(logging.String(logging.FieldComponent, "linkedin")),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Platform identifies this uploader in logs and the audit trail.
func (c *Client) Platform() string {
	return "linkedin"
}

func (c *Client) headers(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")
	req.Header.Set("Linkedin-Version", c.cfg.APIVersion)
	req.Header.Set("Content-Type", "application/json")
}

type uploadInstruction struct {
	UploadURL string `json:"uploadUrl"`
	FirstByte int64  `json:"firstByte"`
	LastByte  int64  `json:"lastByte"`
}

type initializeResponse struct {
	Value struct {
		Video              string              `json:"video"`
		UploadToken        string              `json:"uploadToken"`
		UploadInstructions []uploadInstruction `json:"uploadInstructions"`
	} `json:"value"`
}

// Upload pushes the video and creates the companion post. Returns the post
// URN and feed URL.
func (c *Client) Upload(ctx context.Context, req services.UploadRequest) (services.UploadResult, error) {
	var empty services.UploadResult
	if c.cfg.AccessToken == "" || c.cfg.PersonURN == "" {
		return empty, services.Wrap(services.ErrConfiguration, "linkedin", "upload", "access token and person urn required", nil)
	}
	if req.ArtifactPath == "" {
		return empty, services.Wrap(services.ErrValidation, "linkedin", "upload", "artifact path required", nil)
	}
	info, err := os.Stat(req.ArtifactPath)
	if err != nil {
		return empty, services.Wrap(services.ErrValidation, "linkedin", "upload", "stat artifact", err)
	}

	init, err := c.initializeUpload(ctx, info.Size())
	if err != nil {
		return empty, err
	}
	etags, err := c.uploadParts(ctx, req.ArtifactPath, init.Value.UploadInstructions)
	if err != nil {
		return empty, err
	}
	if err := c.finalizeUpload(ctx, init.Value.Video, init.Value.UploadToken, etags); err != nil {
		return empty, err
	}
	postID, err := c.createPost(ctx, init.Value.Video, req)
	if err != nil {
		return empty, err
	}
	c.logger.Info("post created",
		logging.Int(logging.FieldEpisode, req.EpisodeNumber),
		logging.String("post_id", postID))
	return services.UploadResult{
		ID:  postID,
		URL: "https://www.linkedin.com/feed/update/" + postID + "/",
	}, nil
}

func (c *Client) initializeUpload(ctx context.Context, fileSize int64) (initializeResponse, error) {
	var decoded initializeResponse
	payload := map[string]any{
		"initializeUploadRequest": map[string]any{
			"owner":           c.cfg.PersonURN,
			"fileSizeBytes":   fileSize,
			"uploadCaptions":  false,
			"uploadThumbnail": false,
		},
	}
	body, err := c.post(ctx, "/videos?action=initializeUpload", payload, nil)
	if err != nil {
		return decoded, err
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return decoded, services.Wrap(services.ErrTransient, "linkedin", "initialize", "decode response", err)
	}
	if decoded.Value.Video == "" || len(decoded.Value.UploadInstructions) == 0 {
		return decoded, services.Wrap(services.ErrExternalTool, "linkedin", "initialize", "incomplete upload instructions", nil)
	}
	return decoded, nil
}

func (c *Client) uploadParts(ctx context.Context, path string, instructions []uploadInstruction) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "linkedin", "upload parts", "open artifact", err)
	}
	defer file.Close()

	etags := make([]string, 0, len(instructions))
	for i, instruction := range instructions {
		size := instruction.LastByte - instruction.FirstByte + 1
		chunk := make([]byte, size)
		if _, err := file.ReadAt(chunk, instruction.FirstByte); err != nil && err != io.EOF {
			return nil, services.Wrap(services.ErrTransient, "linkedin", "upload parts", "read chunk", err)
		}
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, instruction.UploadURL, bytes.NewReader(chunk))
		if err != nil {
			return nil, services.Wrap(services.ErrTransient, "linkedin", "upload parts", "build request", err)
		}
		httpReq.Header.Set("Content-Type", "application/octet-stream")
		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return nil, services.Wrap(services.ErrTransient, "linkedin", "upload parts",
				fmt.Sprintf("part %d/%d failed", i+1, len(instructions)), err)
		}
		etag := resp.Header.Get("ETag")
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		if resp.StatusCode >= http.StatusMultipleChoices {
			return nil, services.Wrap(services.ErrExternalTool, "linkedin", "upload parts",
				fmt.Sprintf("part %d/%d: http %d", i+1, len(instructions), resp.StatusCode), nil)
		}
		etags = append(etags, etag)
	}
	return etags, nil
}

func (c *Client) finalizeUpload(ctx context.Context, videoURN, uploadToken string, etags []string) error {
	payload := map[string]any{
		"finalizeUploadRequest": map[string]any{
			"video":           videoURN,
			"uploadToken":     uploadToken,
			"uploadedPartIds": etags,
		},
	}
	_, err := c.post(ctx, "/videos?action=finalizeUpload", payload, nil)
	return err
}

func (c *Client) createPost(ctx context.Context, videoURN string, req services.UploadRequest) (string, error) {
	commentary := req.PostText
	if len(req.Hashtags) > 0 {
		commentary = textutil.JoinNonEmpty("\n\n", commentary, strings.Join(req.Hashtags, " "))
	}
	payload := map[string]any{
		"author":     c.cfg.PersonURN,
		"commentary": commentary,
		"visibility": "PUBLIC",
		"distribution": map[string]any{
			"feedDistribution": "MAIN_FEED",
		},
		"content": map[string]any{
			"media": map[string]any{
				"id":    videoURN,
				"title": req.Title,
			},
		},
		"lifecycleState": "PUBLISHED",
	}
	var postID string
	_, err := c.post(ctx, "/posts", payload, func(resp *http.Response) {
		postID = resp.Header.Get("X-Restli-Id")
	})
	if err != nil {
		return "", err
	}
	if postID == "" {
		return "", services.Wrap(services.ErrExternalTool, "linkedin", "create post", "response missing post id", nil)
	}
	return postID, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, inspect func(*http.Response)) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "linkedin", "request", "encode payload", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "linkedin", "request", "build request", err)
	}
	c.headers(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "linkedin", "request", "request failed", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= http.StatusMultipleChoices {
		marker := services.ErrExternalTool
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			marker = services.ErrConfiguration
		}
		return body, services.Wrap(marker, "linkedin", "request",
			fmt.Sprintf("%s: http %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}
	if inspect != nil {
		inspect(resp)
	}
	return body, nil
}
