package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func fixture(t *testing.T, name string) []byte {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("..", "..", "pkg", "kartverket", "testdata", name))
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}
	return b
}

func TestRun(t *testing.T) {
	bodies := map[string][]byte{
		"all": fixture(t, "series.xml"),
		"tab": fixture(t, "extremes.xml"),
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(bodies[r.URL.Query().Get("datatype")])
	}))
	defer srv.Close()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--lat", "59.9", "--lon", "10.7", "--utc", "--base-url", srv.URL})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `Oslo
Now: 9.0cm
Next high: 06:00 20.0cm
Next low: 01:00 10.0cm
Ebbing
00:00 9.0cm
01:00 10.0cm
`
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("incorrect output (-want,+got):\n%s", diff)
	}
}

func TestRunInvalidInterval(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--lat", "59.9", "--lon", "10.7", "--interval", "15"})
	if err := cmd.Execute(); err == nil {
		t.Errorf("expected an error for interval 15")
	}
}

func TestRunRequiresLocation(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--lat", "59.9"})
	if err := cmd.Execute(); err == nil {
		t.Errorf("expected an error without --lon")
	}
}
