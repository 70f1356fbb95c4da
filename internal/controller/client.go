// Package controller speaks to the hardware-facing device controller: one
// actuation endpoint per device plus an HTML status page.
package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/homegrid/backend/internal/models"
)

// ErrControllerUnavailable covers transport errors and non-2xx responses from
// the controller. Callers must not write audit entries when they see it.
var ErrControllerUnavailable = errors.New("controller unavailable")

// Client issues actuation commands to the controller. Stateless and safe for
// concurrent use across devices; no ordering is guaranteed between concurrent
// commands for the same device.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Send requests the controller to put the device into the given state. The
// controller acknowledges with any 2xx response; the body is informational.
// One attempt, no retries: a device command is not safe to auto-retry, a
// double toggle could invert the intended state.
func (c *Client) Send(ctx context.Context, technicalName string, action models.Action) error {
	url := fmt.Sprintf("%s/%s/%s", c.baseURL, technicalName, string(action))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrControllerUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrControllerUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: controller returned %d: %s", ErrControllerUnavailable, resp.StatusCode, string(body))
	}

	c.log.Debug("controller acknowledged command",
		zap.String("device", technicalName),
		zap.String("action", string(action)))
	return nil
}
