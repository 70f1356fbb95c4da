package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const statusPage = `
<html><body>
  <div class="device" data-device="bulb1" data-state="on">Living Room Light</div>
  <div class="device" data-device="bulb2" data-state="OFF">Bedroom Light</div>
  <div class="device" data-device="outlet1" data-state="1">Desk Outlet</div>
  <div class="device" data-device="sensor1">no state attr</div>
  <div class="device" data-device="" data-state="on">nameless</div>
</body></html>`

func TestParseStatusDoc(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(statusPage))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}

	states := parseStatusDoc(doc)

	expected := map[string]bool{
		"bulb1":   true,
		"bulb2":   false,
		"outlet1": true,
	}
	if len(states) != len(expected) {
		t.Fatalf("got %d states, want %d: %v", len(states), len(expected), states)
	}
	for name, want := range expected {
		got, ok := states[name]
		if !ok || got != want {
			t.Errorf("states[%q] = %v (present=%v), want %v", name, got, ok, want)
		}
	}
}

func TestStateProbe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(statusPage))
	}))
	defer srv.Close()

	p := NewStateProbe(srv.URL, time.Second, zap.NewNop())
	states, err := p.Probe(context.Background())
	if err != nil {
		t.Fatalf("Probe returned error: %v", err)
	}
	if on, ok := states["bulb1"]; !ok || !on {
		t.Errorf("bulb1 state = %v (present=%v), want on", on, ok)
	}
}

func TestStateProbeUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewStateProbe(srv.URL, time.Second, zap.NewNop())
	if _, err := p.Probe(context.Background()); err == nil {
		t.Error("Probe should fail on non-200 status page")
	}
}
