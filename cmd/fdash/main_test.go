package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestReportCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acme.yaml")
	doc := "years: [2021, 2022]\nfinancials:\n  Revenue: {2021: 100, 2022: 120}\n  Net Income: {values: {2021: 10}}\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCmd(t, "report", path, "--format", "syms")
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if out != "Revenue,Net Income\n" {
		t.Errorf("output = %q", out)
	}

	out, err = runCmd(t, "report", path, "--color=false", "--filter", "rev")
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if !strings.Contains(out, "120.00") || strings.Contains(out, "Net Income") {
		t.Errorf("output = %q", out)
	}
}

func TestReportCmd_Selection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acme.yaml")
	doc := "years: [2021, 2022]\nfinancials:\n  Revenue: {2021: 100, 2022: 120}\n  Net Income: {values: {2021: 10}}\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"--filter", "@2022"}, "Revenue\n"},
		{[]string{"--filter", "Net Income,Revenue"}, "Net Income,Revenue\n"},
		{[]string{"--years", "2021-2022"}, "Revenue,Net Income\n"},
	}
	for _, tt := range tests {
		args := append([]string{"report", path, "--format", "syms"}, tt.args...)
		out, err := runCmd(t, args...)
		if err != nil {
			t.Fatalf("report %v failed: %v", tt.args, err)
		}
		if out != tt.want {
			t.Errorf("report %v output = %q, want %q", tt.args, out, tt.want)
		}
	}

	if _, err := runCmd(t, "report", path, "--years", "2023-2021"); err == nil {
		t.Error("expected error for a reversed year range")
	}
}

func TestReportCmd_Args(t *testing.T) {
	if _, err := runCmd(t, "report"); err == nil {
		t.Error("expected error without a file argument")
	}
	if _, err := runCmd(t, "report", "x.yaml", "--format", "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestIndicatorsCmd(t *testing.T) {
	out, err := runCmd(t, "indicators", "--color=false")
	if err != nil {
		t.Fatalf("indicators failed: %v", err)
	}
	if !strings.Contains(out, "Simple Moving Average") || !strings.Contains(out, "Period: 50, Type: close") {
		t.Errorf("output = %q", out)
	}

	path := filepath.Join(t.TempDir(), "layout.yaml")
	layout := "indicators:\n  - kind: sma\n    name: Fast\n    config: {period: 20}\n"
	if err := os.WriteFile(path, []byte(layout), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err = runCmd(t, "indicators", path, "--format", "json")
	if err != nil {
		t.Fatalf("indicators failed: %v", err)
	}
	if !strings.Contains(out, `"name":"Fast"`) || !strings.Contains(out, `"description":"Period: 20, Type: close"`) {
		t.Errorf("output = %q", out)
	}
}

func TestPricesCmd_Once(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"^VIX": {"price": 13}, "^GSPC": {"price": 5000}, "^US10Y": {"price": 4.2}}`))
	}))
	defer server.Close()
	t.Setenv("FDASH_MARKET_PROVIDER", "http")
	t.Setenv("FDASH_MARKET_BASE_URL", server.URL)

	out, err := runCmd(t, "prices", "--once", "--format", "syms")
	if err != nil {
		t.Fatalf("prices failed: %v", err)
	}
	if out != "^US10Y,^GSPC,^VIX\n" {
		t.Errorf("output = %q", out)
	}
}

func TestPricesCmd_MarketPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/indicators" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"^VIX": {"price": 13}, "^GSPC": {"price": 5000}, "^US10Y": {"price": 4.2}}`))
	}))
	defer server.Close()
	t.Setenv("FDASH_MARKET_PROVIDER", "http")
	t.Setenv("FDASH_MARKET_BASE_URL", server.URL)
	t.Setenv("FDASH_MARKET_PATH", "/v2/indicators")

	out, err := runCmd(t, "prices", "--once", "--format", "syms")
	if err != nil {
		t.Fatalf("prices failed: %v", err)
	}
	if out != "^US10Y,^GSPC,^VIX\n" {
		t.Errorf("output = %q", out)
	}
}

func TestPricesCmd_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()
	t.Setenv("FDASH_MARKET_PROVIDER", "http")
	t.Setenv("FDASH_MARKET_BASE_URL", server.URL)

	if _, err := runCmd(t, "prices", "--once"); err == nil {
		t.Error("expected error after a failed load")
	}
}

func TestPricesCmd_UnknownSet(t *testing.T) {
	if _, err := runCmd(t, "prices", "--once", "--set", "nope"); err == nil {
		t.Error("expected error for unknown column set")
	}
}
