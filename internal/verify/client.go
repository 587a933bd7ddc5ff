// Package verify is the client for the face-detection and liveness
// verification service. The service owns all model inference; this side
// only uploads frames and interprets the decisions.
package verify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// LivenessThreshold is the cosine-similarity cutoff applied server-side;
// kept here for display only.
const LivenessThreshold = 0.35

// Client talks to the verification service.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{baseURL: baseURL, http: &http.Client{Timeout: timeout}}
}

// FaceBox is one detected face.
type FaceBox struct {
	BBox  [4]int  `json:"bbox"`
	Score float64 `json:"score"`
}

// Detection is the outcome of a photo check.
type Detection struct {
	Decision   string    `json:"decision"` // ACCEPTED or REJECTED
	FacesCount int       `json:"faces_count"`
	Faces      []FaceBox `json:"faces"`
	Message    string    `json:"message"`
}

// Accepted reports whether the photo passed the acceptance criteria.
func (d Detection) Accepted() bool { return d.Decision == "ACCEPTED" }

// Template is the enrollment result: a base64 embedding derived from
// multiple photos.
type Template struct {
	Success         bool   `json:"success"`
	Template        string `json:"template"`
	PhotosProcessed int    `json:"photos_processed"`
}

// Liveness is the result of matching a live frame against a template.
type Liveness struct {
	IsMatch        bool    `json:"isMatch"`
	Similarity     float64 `json:"similarity"`
	Threshold      float64 `json:"threshold"`
	DetectionScore float64 `json:"detectionScore"`
	Reason         string  `json:"reason"`
}

type apiError struct {
	Err     string `json:"error"`
	Message string `json:"message"`
}

// Health pings the service.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("verify health: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("verify health: status %d", resp.StatusCode)
	}
	return nil
}

// DetectFace uploads a photo and returns the acceptance decision.
func (c *Client) DetectFace(ctx context.Context, filename string, image io.Reader) (Detection, error) {
	body, contentType, err := imageForm(filename, image, nil)
	if err != nil {
		return Detection{}, err
	}
	var out Detection
	if err := c.post(ctx, "/detect-face", contentType, body, &out); err != nil {
		return Detection{}, err
	}
	return out, nil
}

// CreateTemplate enrolls a face template from at least four photo URLs.
func (c *Client) CreateTemplate(ctx context.Context, photoURLs []string) (Template, error) {
	if len(photoURLs) < 4 {
		return Template{}, fmt.Errorf("create template: need at least 4 photos, got %d", len(photoURLs))
	}
	payload, err := json.Marshal(map[string]any{"photo_urls": photoURLs})
	if err != nil {
		return Template{}, err
	}
	var out Template
	if err := c.post(ctx, "/create-template", "application/json", bytes.NewReader(payload), &out); err != nil {
		return Template{}, err
	}
	return out, nil
}

// VerifyLiveness matches a live frame against a stored template.
func (c *Client) VerifyLiveness(ctx context.Context, filename string, image io.Reader, template string) (Liveness, error) {
	body, contentType, err := imageForm(filename, image, map[string]string{"template": template})
	if err != nil {
		return Liveness{}, err
	}
	var out Liveness
	if err := c.post(ctx, "/verify-liveness", contentType, body, &out); err != nil {
		return Liveness{}, err
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("verify %s: %w", path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("verify %s: read body: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		var ae apiError
		if json.Unmarshal(data, &ae) == nil && ae.Message != "" {
			return fmt.Errorf("verify %s: %s", path, ae.Message)
		}
		return fmt.Errorf("verify %s: status %d", path, resp.StatusCode)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("verify %s: decode: %w", path, err)
	}
	return nil
}

func imageForm(filename string, image io.Reader, fields map[string]string) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, "", err
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
