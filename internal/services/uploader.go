package services

import "context"

// UploadRequest carries a finished episode artifact and its platform
// metadata. Platform-specific fields are ignored by uploaders that do not
// use them.
type UploadRequest struct {
	EpisodeNumber int
	Term          string
	Title         string
	Description   string
	Tags          []string
	PostText      string
	Hashtags      []string
	ArtifactPath  string
}

// UploadResult identifies the published artifact on its platform.
type UploadResult struct {
	ID  string
	URL string
}

// Uploader publishes an episode artifact to one platform. Implementations
// must be safe to call again with the same request after a failure.
type Uploader interface {
	Platform() string
	Upload(ctx context.Context, req UploadRequest) (UploadResult, error)
}
