package n8n

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

var ErrNotConfigured = errors.New("n8n webhook url not configured")

// Client triggers the outreach workflow through its webhook node.
type Client struct {
	webhookURL string
	http       *http.Client
}

func NewClient(webhookURL string, timeout time.Duration) *Client {
	return &Client{
		webhookURL: webhookURL,
		http:       &http.Client{Timeout: timeout},
	}
}

// Dispatch posts the job. Any non-2xx answer is an error.
func (c *Client) Dispatch(ctx context.Context, job JobPayload) error {
	if c.webhookURL == "" {
		return ErrNotConfigured
	}

	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal n8n job: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("n8n request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		logrus.WithFields(logrus.Fields{
			"job_id": job.JobID,
			"status": resp.StatusCode,
			"body":   string(msg),
		}).Warn("n8n webhook rejected job")
		return fmt.Errorf("n8n webhook returned status %d", resp.StatusCode)
	}

	io.Copy(io.Discard, resp.Body)
	return nil
}
