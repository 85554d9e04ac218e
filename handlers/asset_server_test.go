package handlers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func newAssetFixture(t *testing.T) (string, http.HandlerFunc) {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "gallery"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "gallery", "a.jpg"), []byte("jpeg bytes"), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return root, AssetServer(root, "/uploads/")
}

func serveAsset(handler http.HandlerFunc, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.URL.Path = path
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestAssetServerServesFile(t *testing.T) {
	_, handler := newAssetFixture(t)

	rec := serveAsset(handler, "/uploads/gallery/a.jpg")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "jpeg bytes" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
	if cc := rec.Header().Get("Cache-Control"); cc == "" {
		t.Fatalf("expected cache headers on asset responses")
	}
}

func TestAssetServerMissingFile(t *testing.T) {
	_, handler := newAssetFixture(t)
	if rec := serveAsset(handler, "/uploads/gallery/missing.jpg"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAssetServerRejectsTraversal(t *testing.T) {
	_, handler := newAssetFixture(t)
	rec := serveAsset(handler, "/uploads/../../../etc/passwd")
	if rec.Code != http.StatusBadRequest && rec.Code != http.StatusForbidden {
		t.Fatalf("expected traversal rejection, got %d", rec.Code)
	}
}

func TestAssetServerRejectsDirectoryListing(t *testing.T) {
	_, handler := newAssetFixture(t)
	if rec := serveAsset(handler, "/uploads/gallery"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for directory, got %d", rec.Code)
	}
}
