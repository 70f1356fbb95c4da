package controller

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/homegrid/backend/internal/models"
)

func TestClientSendSuccess(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("bulb1 is now ON"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, zap.NewNop())
	if err := c.Send(context.Background(), "bulb1", models.ActionOn); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if gotPath != "/bulb1/on" {
		t.Errorf("controller saw path %q, want /bulb1/on", gotPath)
	}
}

func TestClientSendActionIsLowercaseInPath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", time.Second, zap.NewNop())
	if err := c.Send(context.Background(), "outlet1", models.ActionOff); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if gotPath != "/outlet1/off" {
		t.Errorf("controller saw path %q, want /outlet1/off", gotPath)
	}
}

func TestClientSendNon2xx(t *testing.T) {
	statuses := []int{http.StatusServiceUnavailable, http.StatusNotFound, http.StatusInternalServerError}
	for _, status := range statuses {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		c := NewClient(srv.URL, time.Second, zap.NewNop())
		err := c.Send(context.Background(), "bulb1", models.ActionOn)
		srv.Close()

		if !errors.Is(err, ErrControllerUnavailable) {
			t.Errorf("status %d: error = %v, want ErrControllerUnavailable", status, err)
		}
	}
}

func TestClientSendTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(srv.URL, time.Second, zap.NewNop())
	err := c.Send(context.Background(), "bulb1", models.ActionOff)
	if !errors.Is(err, ErrControllerUnavailable) {
		t.Errorf("error = %v, want ErrControllerUnavailable", err)
	}
}
