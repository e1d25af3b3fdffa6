// Package media uploads and looks up profile images on Cloudinary.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrNoImage is returned when a user has no uploaded profile image.
var ErrNoImage = errors.New("no profile image")

// Client talks to a Cloudinary cloud using unsigned upload presets. Images
// are stored under a public id prefixed with the owning user's id, so the
// latest upload per user can be recovered by a prefix listing.
type Client struct {
	BaseURL      string
	UploadPreset string
	HTTPClient   *http.Client
}

// NewClient creates a client for the given cloud.
func NewClient(cloudName, uploadPreset string) *Client {
	return &Client{
		BaseURL:      fmt.Sprintf("https://api.cloudinary.com/v1_1/%s", cloudName),
		UploadPreset: uploadPreset,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
}

type resource struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
	CreatedAt string `json:"created_at"`
}

type listResponse struct {
	Resources []resource `json:"resources"`
}

// Upload sends one image and returns its public HTTPS url. The public id is
// the user's id plus a caller-chosen suffix.
func (c *Client) Upload(ctx context.Context, userID int64, name string, image io.Reader) (string, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	if err := form.WriteField("upload_preset", c.UploadPreset); err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	publicID := fmt.Sprintf("%d_%s", userID, name)
	if err := form.WriteField("public_id", publicID); err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	part, err := form.CreateFormFile("file", publicID)
	if err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("failed to finish upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/image/upload", &body)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upload failed with status %d", resp.StatusCode)
	}

	var uploaded uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}
	if uploaded.SecureURL == "" {
		return "", errors.New("upload response carried no url")
	}
	return uploaded.SecureURL, nil
}

// LatestProfileImage returns the url of the user's newest upload.
func (c *Client) LatestProfileImage(ctx context.Context, userID int64) (string, error) {
	endpoint := fmt.Sprintf("%s/resources/image?%s", c.BaseURL,
		url.Values{"prefix": {strconv.FormatInt(userID, 10) + "_"}}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build listing request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("listing failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("listing failed with status %d", resp.StatusCode)
	}

	var listing listResponse
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return "", fmt.Errorf("failed to decode listing response: %w", err)
	}

	prefix := strconv.FormatInt(userID, 10) + "_"
	var latestURL string
	var latestAt time.Time
	for _, res := range listing.Resources {
		// The prefix listing matches on string prefix, so user 1 would also
		// see user 10's images without the underscore check.
		if !strings.HasPrefix(res.PublicID, prefix) {
			continue
		}
		at, err := time.Parse(time.RFC3339, res.CreatedAt)
		if err != nil {
			continue
		}
		if latestURL == "" || at.After(latestAt) {
			latestURL = res.SecureURL
			latestAt = at
		}
	}
	if latestURL == "" {
		return "", ErrNoImage
	}
	return latestURL, nil
}
