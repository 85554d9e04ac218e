package media

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) *LocalStorage {
	t.Helper()
	store, err := NewLocalStorage(t.TempDir(), map[AssetType]string{
		AssetTypeGallery:   "gallery",
		AssetTypePortfolio: "portfolio",
		AssetTypeThumbnail: "thumbnails",
	})
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}
	return store
}

func TestSaveGeneratesNameFromExtHint(t *testing.T) {
	store := newTestStore(t)

	rel, err := store.Save(AssetTypeGallery, "", ".png", strings.NewReader("payload"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(rel, "gallery/") {
		t.Fatalf("expected gallery/ prefix, got %q", rel)
	}
	if filepath.Ext(rel) != ".png" {
		t.Fatalf("expected generated name to keep extension, got %q", rel)
	}

	// hint without a leading dot still works
	rel2, err := store.Save(AssetTypeGallery, "", "jpg", strings.NewReader("payload"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Ext(rel2) != ".jpg" {
		t.Fatalf("expected .jpg, got %q", rel2)
	}
}

func TestSaveStripsPathSeparatorsFromHint(t *testing.T) {
	store := newTestStore(t)

	rel, err := store.Save(AssetTypeGallery, "../../evil.txt", "", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if rel != "gallery/evil.txt" {
		t.Fatalf("expected hint to be reduced to its base name, got %q", rel)
	}
}

func TestGetRoundTrip(t *testing.T) {
	store := newTestStore(t)

	rel, err := store.Save(AssetTypePortfolio, "hero.jpg", "", strings.NewReader("image bytes"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	rc, info, err := store.Get(rel)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "image bytes" {
		t.Fatalf("unexpected content %q", data)
	}
	if info.Size() != int64(len("image bytes")) {
		t.Fatalf("unexpected size %d", info.Size())
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := newTestStore(t)

	rel, err := store.Save(AssetTypeGallery, "gone.jpg", "", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Delete(rel); err != nil {
		t.Fatalf("first Delete: %v", err)
	}
	full, _ := store.GetFullPath(rel)
	if _, err := os.Stat(full); !os.IsNotExist(err) {
		t.Fatalf("expected file to be gone")
	}
	if err := store.Delete(rel); err != nil {
		t.Fatalf("second Delete should be a no-op, got %v", err)
	}
}

func TestGetFullPathRejectsEscape(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.GetFullPath("../../../etc/passwd"); err == nil {
		t.Fatalf("expected containment check to reject escaping path")
	}

	// a sibling directory sharing the base as a string prefix must not pass
	sibling := "../" + filepath.Base(store.basePath) + "-x/secret.jpg"
	if _, err := store.GetFullPath(sibling); err == nil {
		t.Fatalf("expected containment check to reject sibling-prefix path")
	}
}

func TestPublicURLRoundTrip(t *testing.T) {
	if got := PublicURL("gallery/a.jpg"); got != "/uploads/gallery/a.jpg" {
		t.Fatalf("PublicURL = %q", got)
	}
	if got := RelativeFromURL("/uploads/gallery/a.jpg"); got != "gallery/a.jpg" {
		t.Fatalf("RelativeFromURL = %q", got)
	}
	if got := RelativeFromURL("https://cdn.example.com/a.jpg"); got != "" {
		t.Fatalf("expected external URL to map to empty, got %q", got)
	}
	if got := PublicURL(""); got != "" {
		t.Fatalf("expected empty path to map to empty URL, got %q", got)
	}
}

func multipartHeader(t *testing.T, filename, contentType string, size int) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	if _, err := part.Write(bytes.Repeat([]byte("a"), size)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	w.Close()

	reader := multipart.NewReader(&buf, w.Boundary())
	form, err := reader.ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("ReadForm: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["file"][0]
}

func TestValidateUpload(t *testing.T) {
	ok := multipartHeader(t, "a.jpg", "image/jpeg", 100)
	if err := ValidateUpload(ok, 1024); err != nil {
		t.Fatalf("expected valid upload, got %v", err)
	}

	tooBig := multipartHeader(t, "big.jpg", "image/jpeg", 2048)
	if err := ValidateUpload(tooBig, 1024); !strings.Contains(err.Error(), "maximum upload size") {
		t.Fatalf("expected size error, got %v", err)
	}

	badType := multipartHeader(t, "doc.pdf", "application/pdf", 100)
	if err := ValidateUpload(badType, 1024); !strings.Contains(err.Error(), "not allowed") {
		t.Fatalf("expected type error, got %v", err)
	}
}

func TestValidateBatchCountCeiling(t *testing.T) {
	var headers []*multipart.FileHeader
	for i := 0; i < 3; i++ {
		headers = append(headers, multipartHeader(t, "a.jpg", "image/jpeg", 10))
	}

	if err := ValidateBatch(headers, 1024, 3); err != nil {
		t.Fatalf("expected batch at the ceiling to pass, got %v", err)
	}

	headers = append(headers, multipartHeader(t, "b.jpg", "image/jpeg", 10))
	err := ValidateBatch(headers, 1024, 3)
	if err == nil {
		t.Fatalf("expected batch over the ceiling to fail")
	}
	if !strings.Contains(err.Error(), "too many files") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateBatchCombinesFailures(t *testing.T) {
	headers := []*multipart.FileHeader{
		multipartHeader(t, "big.jpg", "image/jpeg", 2048),
		multipartHeader(t, "doc.pdf", "application/pdf", 10),
	}
	err := ValidateBatch(headers, 1024, 10)
	if err == nil {
		t.Fatalf("expected combined validation error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "big.jpg") || !strings.Contains(msg, "doc.pdf") {
		t.Fatalf("expected both failures reported, got %q", msg)
	}
}
