package renderer

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// renderRequest is the payload sent to the rendering service.
type renderRequest struct {
	LearnerName string    `json:"learner_name"`
	CourseTitle string    `json:"course_title"`
	IssuedAt    time.Time `json:"issued_at"`
}

// renderResponse is the rendering service's reply.
type renderResponse struct {
	ArtifactURL string `json:"artifact_url"`
	Message     string `json:"message"`
}

// Client calls the external certificate rendering service over HTTP.
// Calls are bounded by the configured timeout so a stalled renderer
// never holds a progress update open.
type Client struct {
	http *resty.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json"),
	}
}

// Render generates a certificate document and returns its artifact
// reference (a URL to the generated document).
func (c *Client) Render(ctx context.Context, learnerName, courseTitle string, issuedAt time.Time) (string, error) {
	var out renderResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(renderRequest{
			LearnerName: learnerName,
			CourseTitle: courseTitle,
			IssuedAt:    issuedAt,
		}).
		SetResult(&out).
		SetError(&out).
		Post("/render")
	if err != nil {
		return "", fmt.Errorf("render request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("renderer returned %d: %s", resp.StatusCode(), out.Message)
	}
	if out.ArtifactURL == "" {
		return "", fmt.Errorf("renderer returned no artifact reference")
	}
	return out.ArtifactURL, nil
}
