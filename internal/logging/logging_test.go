package logging

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestTransport_SetsRequestID(t *testing.T) {
	var got string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get(RequestIDHeader)
	}))
	defer ts.Close()

	core, logs := observer.New(zap.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	c := &http.Client{Transport: Transport(nil)}
	resp, err := c.Get(ts.URL + "/files?path=")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()

	if got == "" {
		t.Fatal("expected X-Request-ID header on outgoing request")
	}
	completed := logs.FilterMessage("request completed").All()
	if len(completed) != 1 {
		t.Fatalf("expected 1 completion log, got %d", len(completed))
	}
	fields := completed[0].ContextMap()
	if fields["request_id"] != got {
		t.Errorf("expected request_id %q in log, got %v", got, fields["request_id"])
	}
	if fields["status"] != int64(200) {
		t.Errorf("expected status 200 in log, got %v", fields["status"])
	}
}

func TestTransport_KeepsCallerRequestID(t *testing.T) {
	var got string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get(RequestIDHeader)
	}))
	defer ts.Close()

	SetLogger(zap.NewNop())
	defer SetLogger(nil)

	req, _ := http.NewRequest(http.MethodGet, ts.URL, nil)
	req.Header.Set(RequestIDHeader, "fixed-id")
	resp, err := Transport(nil).RoundTrip(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got != "fixed-id" {
		t.Errorf("expected fixed-id, got %q", got)
	}
}

func TestTransport_LogsFailure(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	c := &http.Client{Transport: Transport(nil)}
	if _, err := c.Get("http://127.0.0.1:1/unreachable"); err == nil {
		t.Fatal("expected transport error")
	}
	if logs.FilterMessage("request failed").Len() != 1 {
		t.Error("expected a request failed log entry")
	}
}

func TestPackageHelpers(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	Debug("hidden")
	Info("listing refreshed", zap.String("path", "docs"))
	Error("move failed", zap.String("path", "a.txt"))

	if logs.Len() != 2 {
		t.Fatalf("expected 2 entries above debug, got %d", logs.Len())
	}
	if logs.All()[0].ContextMap()["path"] != "docs" {
		t.Errorf("unexpected fields %v", logs.All()[0].ContextMap())
	}

	ctx := WithRequestID(context.Background(), "req-1")
	WithContext(ctx).Info("scoped")
	scoped := logs.FilterMessage("scoped").All()
	if len(scoped) != 1 || scoped[0].ContextMap()["request_id"] != "req-1" {
		t.Errorf("expected request_id on scoped logger, got %v", scoped)
	}
	if WithContext(context.Background()) != L() {
		t.Error("expected global logger without a scoped one")
	}
}
