package zoho

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/finance1/summary-agent/backend/internal/apperr"
)

func newTestClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: time.Second},
		log:        zap.NewNop(),
	}
}

func TestRecordSuccess(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Write([]byte(`{"data": [{"id": "123", "Account_Name": "Acme"}]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	rec, err := client.Record(context.Background(), "Accounts", "123", "tok-abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotAuth != "Zoho-oauthtoken tok-abc" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
	if gotPath != "/Accounts/123" {
		t.Fatalf("unexpected path: %q", gotPath)
	}
	name, _ := rec.Get("Account_Name")
	if name.Text() != "Acme" {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestRecordNotFoundStatuses(t *testing.T) {
	for _, status := range []int{http.StatusNoContent, http.StatusNotFound} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		client := newTestClient(srv.URL)
		_, err := client.Record(context.Background(), "Accounts", "123", "tok")
		srv.Close()

		if !errors.Is(err, ErrRecordNotFound) {
			t.Fatalf("status %d: expected ErrRecordNotFound, got %v", status, err)
		}
	}
}

func TestRecordEmptyDataEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": []}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.Record(context.Background(), "Accounts", "123", "tok")
	if !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestRecordUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"code": "INTERNAL_ERROR"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.Record(context.Background(), "Accounts", "123", "tok")

	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindUpstream {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestRelatedRecordsLimitAndDecode(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"data": [{"Deal_Name": "one"}, {"Deal_Name": "two"}]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	recs, err := client.RelatedRecords(context.Background(), "Accounts", "123", "Deals", "tok", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotQuery != "per_page=5" {
		t.Fatalf("unexpected query: %q", gotQuery)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
}

func TestRelatedRecordsNoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	recs, err := client.RelatedRecords(context.Background(), "Accounts", "123", "Deals", "tok", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if recs != nil {
		t.Fatalf("expected nil records, got %#v", recs)
	}
}
