package media_test

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tiendita/internal/media"
)

func upload(t *testing.T, filename string, body []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("image", filename)
	if err != nil {
		t.Fatal(err)
	}
	fw.Write(body)
	w.Close()

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatal(err)
	}
	return req.MultipartForm.File["image"][0]
}

func TestSaveAndRemoveProductImage(t *testing.T) {
	st, err := media.NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	ref, err := st.SaveProductImage("prod-1", upload(t, "photo.JPG", []byte("fake-jpeg")))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(ref, "products/prod-1/") || !strings.HasSuffix(ref, ".jpg") {
		t.Fatalf("unexpected ref %q", ref)
	}
	data, err := os.ReadFile(filepath.Join(st.Root(), filepath.FromSlash(ref)))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "fake-jpeg" {
		t.Fatalf("stored content mismatch: %q", data)
	}

	if err := st.Remove(ref); err != nil {
		t.Fatal(err)
	}
	// removing twice is fine
	if err := st.Remove(ref); err != nil {
		t.Fatal(err)
	}
}

func TestSaveRejectsUnknownExtension(t *testing.T) {
	st, _ := media.NewStore(t.TempDir())
	if _, err := st.SaveProductImage("prod-1", upload(t, "payload.exe", []byte("nope"))); err != media.ErrBadImageType {
		t.Fatalf("want ErrBadImageType, got %v", err)
	}
}

func TestRemoveRefusesTraversal(t *testing.T) {
	st, _ := media.NewStore(t.TempDir())
	if err := st.Remove("../outside.txt"); err == nil {
		t.Fatal("expected refusal for traversal path")
	}
	if err := st.RemoveProductDir("../evil"); err == nil {
		t.Fatal("expected refusal for traversal product id")
	}
}

func TestRemoveProductDir(t *testing.T) {
	st, _ := media.NewStore(t.TempDir())
	ref, err := st.SaveProductImage("prod-2", upload(t, "a.png", []byte("img")))
	if err != nil {
		t.Fatal(err)
	}
	if err := st.RemoveProductDir("prod-2"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(st.Root(), filepath.FromSlash(ref))); !os.IsNotExist(err) {
		t.Fatal("product dir should be gone")
	}
}
