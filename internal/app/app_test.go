package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/five82/promofinder/internal/catalog"
	"github.com/five82/promofinder/internal/state"
)

func writeTestConfig(t *testing.T, extra string) (Options, string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	logPath := filepath.Join(dir, "logs", "promofinder.log")
	body := "[source]\nlatency_ms = 0\n" + extra + "\n[log]\nfile = \"" + logPath + "\"\nlevel = \"debug\"\n"
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return Options{ConfigPath: path, PrefsPath: filepath.Join(dir, "prefs.toml")}, logPath
}

func TestRunList_PrintsWholeCatalog(t *testing.T) {
	opts, logPath := writeTestConfig(t, "")

	var out bytes.Buffer
	if err := RunList(context.Background(), opts, ListOptions{}, &out); err != nil {
		t.Fatalf("RunList returned error: %v", err)
	}
	got := out.String()
	for _, want := range []string{"promo-1", "promo-7", "Ganga Gadgets", "7 of 7 promotions"} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}

	logData, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile(log): %v", err)
	}
	if !strings.Contains(string(logData), "listed promotions") {
		t.Fatalf("log missing listing event:\n%s", logData)
	}
}

func TestRunList_AppliesFilters(t *testing.T) {
	opts, _ := writeTestConfig(t, "")

	var out bytes.Buffer
	err := RunList(context.Background(), opts, ListOptions{CategoryID: "cat-1"}, &out)
	if err != nil {
		t.Fatalf("RunList returned error: %v", err)
	}
	if !strings.Contains(out.String(), "3 of 7 promotions") {
		t.Fatalf("category filter not applied:\n%s", out.String())
	}

	out.Reset()
	err = RunList(context.Background(), opts, ListOptions{MaxKm: 1}, &out)
	if err != nil {
		t.Fatalf("RunList returned error: %v", err)
	}
	if !strings.Contains(out.String(), "3 of 7 promotions") || strings.Contains(out.String(), "promo-4") {
		t.Fatalf("distance filter not applied:\n%s", out.String())
	}
}

func TestRunList_ViewerOverride(t *testing.T) {
	opts, _ := writeTestConfig(t, "")
	lat, lon := 41.3851, 2.1734

	var out bytes.Buffer
	err := RunList(context.Background(), opts, ListOptions{MaxKm: 10, Latitude: &lat, Longitude: &lon}, &out)
	if err != nil {
		t.Fatalf("RunList returned error: %v", err)
	}
	if !strings.Contains(out.String(), "promo-4") || !strings.Contains(out.String(), "1 of 7 promotions") {
		t.Fatalf("want only the Barcelona store:\n%s", out.String())
	}
}

func TestRunList_LoadFailure(t *testing.T) {
	opts, _ := writeTestConfig(t, "fail = [\"categories\"]")

	var out bytes.Buffer
	err := RunList(context.Background(), opts, ListOptions{}, &out)
	if !errors.Is(err, ErrLoadFailed) {
		t.Fatalf("RunList error = %v, want ErrLoadFailed", err)
	}
	if !strings.Contains(err.Error(), state.LoadErrorMessage) {
		t.Fatalf("error %q does not carry the load message", err)
	}
	if out.Len() != 0 {
		t.Fatalf("wrote output on failure:\n%s", out.String())
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[location]\nlatitude = 123.0\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	err := Run(context.Background(), Options{ConfigPath: path})
	if err == nil || !strings.Contains(err.Error(), "load config") {
		t.Fatalf("Run error = %v, want load config error", err)
	}
}

func TestListRow(t *testing.T) {
	p := catalog.Promotion{
		ID:           "promo-x",
		Title:        "Oferta",
		Category:     catalog.Category{Name: "Moda"},
		Store:        catalog.Store{Name: "Sin coordenadas"},
		DiscountCode: "CODE",
		IsSpecial:    true,
	}
	f := state.Filters{UserLatitude: 40.4168, UserLongitude: -3.7038, HasUserLocation: true}
	row := listRow(p, f, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC))
	want := []string{"promo-x", "Oferta", "Moda", "Sin coordenadas", "CODE", "-", "-", "★"}
	if strings.Join(row, "|") != strings.Join(want, "|") {
		t.Fatalf("listRow = %q, want %q", row, want)
	}
}
