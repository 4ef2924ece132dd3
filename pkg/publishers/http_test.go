package publishers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Adda-Baaj/storefront-apitest/internal/suite"
)

func TestHTTPPublisherDeliversReport(t *testing.T) {
	var got Event
	var method, token string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		token = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	pub, err := newHTTPPublisher(context.Background(), PublisherConfig{
		ID:   "ci-webhook",
		Type: TypeHTTP,
		HTTP: &HTTPPublisherConfig{
			URL:            srv.URL,
			Method:         http.MethodPut,
			Headers:        map[string]string{"Authorization": "Bearer t"},
			TimeoutSeconds: 2,
		},
	}, nil)
	if err != nil {
		t.Fatalf("newHTTPPublisher: %v", err)
	}

	evt := NewEvent("run-1", "stores", "http://localhost:3030/", []suite.CaseResult{
		{Collection: "stores", Case: "List", Passed: true},
		{Collection: "stores", Case: "CreateInvalid", Failures: []string{"error list"}},
	}, time.Now().Add(-time.Second))
	if err := pub.Publish(context.Background(), evt); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if method != http.MethodPut || token != "Bearer t" {
		t.Fatalf("unexpected request %s with Authorization %q", method, token)
	}
	if got.RunID != "run-1" || got.Collection != "stores" {
		t.Fatalf("unexpected report identity %q/%q", got.RunID, got.Collection)
	}
	if got.Total != 2 || got.Passed != 1 || got.Failed != 1 {
		t.Fatalf("unexpected counts %d/%d/%d", got.Total, got.Passed, got.Failed)
	}
	if len(got.Results) != 2 || got.Results[1].Case != "CreateInvalid" {
		t.Fatalf("unexpected results %#v", got.Results)
	}
}

func TestHTTPPublisherDefaultsMethodAndTimeout(t *testing.T) {
	var method string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	pub, err := newHTTPPublisher(context.Background(), PublisherConfig{
		ID:   "hook",
		Type: TypeHTTP,
		HTTP: &HTTPPublisherConfig{URL: srv.URL},
	}, nil)
	if err != nil {
		t.Fatalf("newHTTPPublisher: %v", err)
	}

	hp := pub.(*httpPublisher)
	if hp.method != http.MethodPost {
		t.Fatalf("default method = %q", hp.method)
	}
	if hp.client.GetClient().Timeout != httpDefaultTimeoutSeconds*time.Second {
		t.Fatalf("default timeout = %v", hp.client.GetClient().Timeout)
	}

	if err := pub.Publish(context.Background(), NewEvent("run-2", "services", "", nil, time.Now())); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if method != http.MethodPost {
		t.Fatalf("expected POST, got %q", method)
	}
}

func TestHTTPPublisherErrorOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "report rejected", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	pub, err := newHTTPPublisher(context.Background(), PublisherConfig{
		ID:   "hook",
		Type: TypeHTTP,
		HTTP: &HTTPPublisherConfig{URL: srv.URL, TimeoutSeconds: 1},
	}, nil)
	if err != nil {
		t.Fatalf("newHTTPPublisher: %v", err)
	}

	err = pub.Publish(context.Background(), NewEvent("run-3", "products", "", nil, time.Now()))
	if err == nil {
		t.Fatalf("expected error on non-2xx response")
	}
}
