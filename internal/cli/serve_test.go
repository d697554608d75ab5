package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeLayoutFile(t *testing.T, dir, name, src string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestServeList(t *testing.T) {
	dir := t.TempDir()
	writeLayoutFile(t, dir, "dev.kdl", "layout { pane }")
	writeLayoutFile(t, dir, "ops.kdl", "layout { pane }")
	writeLayoutFile(t, dir, "notes.txt", "not a layout")

	h := newServeHandler([]string{dir}, "")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/layouts", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Layouts []string `json:"layouts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	want := []string{"dev", "ops"}
	if len(body.Layouts) != len(want) {
		t.Fatalf("layouts = %v, want %v", body.Layouts, want)
	}
	for i, name := range want {
		if body.Layouts[i] != name {
			t.Errorf("layouts[%d] = %q, want %q", i, body.Layouts[i], name)
		}
	}
}

func TestServeLayoutJSON(t *testing.T) {
	dir := t.TempDir()
	writeLayoutFile(t, dir, "dev.kdl", `layout {
    tab name="editor" {
        pane command="vim"
        pane size="30%"
    }
}`)

	h := newServeHandler([]string{dir}, "")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/layouts/dev.json", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"editor"`) {
		t.Errorf("body missing tab name: %s", body)
	}
	if !strings.Contains(body, `"vim"`) {
		t.Errorf("body missing command: %s", body)
	}
}

func TestServeErrors(t *testing.T) {
	dir := t.TempDir()
	writeLayoutFile(t, dir, "broken.kdl", `layout { pane size="oops" }`)

	h := newServeHandler([]string{dir}, "")

	t.Run("unknown layout", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/layouts/missing.json", nil))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("invalid layout", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/layouts/broken.json", nil))
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d", rec.Code)
		}
		var body struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(body.Error, "broken.kdl") {
			t.Errorf("error = %q, want file name included", body.Error)
		}
	})
}

func TestServeSearchesDirsInOrder(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeLayoutFile(t, first, "dev.kdl", `layout { tab name="from-first" { pane } }`)
	writeLayoutFile(t, second, "dev.kdl", `layout { tab name="from-second" { pane } }`)

	h := newServeHandler([]string{first, second}, "")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/layouts/dev.json", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "from-first") {
		t.Errorf("expected first directory to win: %s", rec.Body.String())
	}
}
