package controller

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// StateProbe scrapes the controller's HTML status page to recover the
// authoritative on/off position of each device. The firmware renders one
// element per device:
//
//	<div class="device" data-device="bulb1" data-state="on">...</div>
//
// Probe failures are non-fatal; the dashboard just shows switches without a
// known position.
type StateProbe struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

func NewStateProbe(baseURL string, timeout time.Duration, log *zap.Logger) *StateProbe {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &StateProbe{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Probe fetches the status page and returns technical name -> on/off.
func (p *StateProbe) Probe(ctx context.Context) (map[string]bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/", nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrControllerUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status page returned %d", ErrControllerUnavailable, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse status page: %w", err)
	}

	states := parseStatusDoc(doc)
	p.log.Debug("controller status probed", zap.Int("devices", len(states)))
	return states, nil
}

func parseStatusDoc(doc *goquery.Document) map[string]bool {
	states := make(map[string]bool)
	doc.Find("[data-device]").Each(func(_ int, s *goquery.Selection) {
		name, ok := s.Attr("data-device")
		if !ok || name == "" {
			return
		}
		state, _ := s.Attr("data-state")
		switch strings.ToLower(strings.TrimSpace(state)) {
		case "on", "1", "true":
			states[name] = true
		case "off", "0", "false":
			states[name] = false
		}
	})
	return states
}
