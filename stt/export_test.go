package stt

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/mrsingh-rishi/transcript-studio/types"
)

const srtBody = "1\n00:00:00,000 --> 00:00:00,900\nHi there.\n\n"

func TestExportReturnsRawBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transcript/job-1/srt" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprint(w, srtBody)
	})

	got, err := client.Export(context.Background(), "job-1", types.ExportFormatSRT)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if got != srtBody {
		t.Fatalf("export = %q, want %q", got, srtBody)
	}
}

func TestExportSurfacesProviderError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Transcript is not completed"}`, http.StatusBadRequest)
	})

	_, err := client.Export(context.Background(), "job-1", types.ExportFormatVTT)
	var failed *ExportFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("error = %v, want ExportFailedError", err)
	}
	if failed.Format != "vtt" || failed.StatusCode != http.StatusBadRequest {
		t.Fatalf("failure = %+v", failed)
	}
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	if _, err := client.Export(context.Background(), "job-1", "docx"); err == nil {
		t.Fatal("expected error for unknown format")
	}
	if got := atomic.LoadInt64(hits); got != 0 {
		t.Fatalf("requests = %d, want 0", got)
	}
}

func TestExportNormalizesFormat(t *testing.T) {
	client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transcript/job-1/srt" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		fmt.Fprint(w, srtBody)
	})

	if _, err := client.Export(context.Background(), "job-1", " SRT "); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if atomic.LoadInt64(hits) != 1 {
		t.Fatalf("requests = %d, want 1", atomic.LoadInt64(hits))
	}
}
