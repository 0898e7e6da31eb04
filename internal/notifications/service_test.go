package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"einsync/internal/notifications"
	"einsync/internal/testsupport"
)

type captured struct {
	title    string
	tags     string
	priority string
	body     string
}

func newCaptureServer(t *testing.T) (*httptest.Server, *[]captured) {
	t.Helper()
	var requests []captured
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		requests = append(requests, captured{
			title:    r.Header.Get("Title"),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
			body:     string(body),
		})
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	return server, &requests
}

func newNtfyService(t *testing.T, topic string) notifications.Service {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	cfg.Notifications.NtfyTopic = topic
	return notifications.NewService(cfg)
}

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(cfg)
	if err := svc.NotifySyncStarted(context.Background(), 3); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
	if err := svc.NotifyError(context.Background(), errors.New("boom"), "sync"); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsMessages(t *testing.T) {
	server, requests := newCaptureServer(t)
	svc := newNtfyService(t, server.URL)
	ctx := context.Background()

	if err := svc.NotifySyncStarted(ctx, 12); err != nil {
		t.Fatalf("NotifySyncStarted: %v", err)
	}
	if err := svc.NotifyDownloadCompleted(ctx, "Vikram", 2022, "/media/Vikram.2022.Tamil.WEB-DL.EINTHUSAN.mp4"); err != nil {
		t.Fatalf("NotifyDownloadCompleted: %v", err)
	}
	if err := svc.NotifySyncCompleted(ctx, 2, 5, 0, 90*time.Second); err != nil {
		t.Fatalf("NotifySyncCompleted: %v", err)
	}
	if err := svc.NotifyError(ctx, errors.New("resolve failed"), "Vikram"); err != nil {
		t.Fatalf("NotifyError: %v", err)
	}

	got := *requests
	if len(got) != 4 {
		t.Fatalf("expected 4 requests, got %d", len(got))
	}
	if got[0].title != "einsync - Sync Started" || got[0].body != "Resolving 12 wanted movies" {
		t.Fatalf("unexpected sync started request: %+v", got[0])
	}
	if got[1].body != "Downloaded: Vikram (2022)\nFile: /media/Vikram.2022.Tamil.WEB-DL.EINTHUSAN.mp4" {
		t.Fatalf("unexpected download body: %q", got[1].body)
	}
	if got[2].body != "Sync complete: 2 downloaded, 5 skipped in 1m30s" {
		t.Fatalf("unexpected sync completed body: %q", got[2].body)
	}
	if got[3].priority != "high" {
		t.Fatalf("expected high priority for errors, got %q", got[3].priority)
	}
	if got[3].body != "Error with Vikram: resolve failed" {
		t.Fatalf("unexpected error body: %q", got[3].body)
	}
	if got[3].tags != "einsync,error,alert" {
		t.Fatalf("unexpected error tags: %q", got[3].tags)
	}
}

func TestNtfyServiceReportsFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic quota exceeded", http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)

	svc := newNtfyService(t, server.URL)
	err := svc.TestNotification(context.Background())
	if err == nil {
		t.Fatal("expected error from failing ntfy endpoint")
	}
}

func TestNtfyServiceSyncCompletedWithFailures(t *testing.T) {
	server, requests := newCaptureServer(t)
	svc := newNtfyService(t, server.URL)

	if err := svc.NotifySyncCompleted(context.Background(), 1, 0, 2, 0); err != nil {
		t.Fatalf("NotifySyncCompleted: %v", err)
	}

	got := *requests
	if len(got) != 1 {
		t.Fatalf("expected 1 request, got %d", len(got))
	}
	if got[0].title != "einsync - Sync Complete (with errors)" {
		t.Fatalf("unexpected title: %q", got[0].title)
	}
	if got[0].body != "Sync complete: 1 downloaded, 0 skipped, 2 failed in 0s" {
		t.Fatalf("unexpected body: %q", got[0].body)
	}
}
