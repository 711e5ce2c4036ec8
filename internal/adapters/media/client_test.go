package media_test

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"hotel_listing/internal/adapters/media"
	"hotel_listing/internal/domain"
)

func newClient(t *testing.T, h http.HandlerFunc) *media.Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	cl, err := media.New(ts.URL, "demo", "key-1", "shh", 100)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	cl.RetryDelay = 5 * time.Millisecond
	return cl
}

func stagedFile(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "photo.jpg")
	if err := os.WriteFile(p, []byte("\xff\xd8\xff\xe0fake-jpeg"), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestUpload_SignsAndParses(t *testing.T) {
	cl := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/demo/image/upload" {
			t.Errorf("path: %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("multipart: %v", err)
		}
		f := r.MultipartForm.Value
		base := "folder=" + f["folder"][0] + "&public_id=" + f["public_id"][0] + "&timestamp=" + f["timestamp"][0]
		sum := sha1.Sum([]byte(base + "shh"))
		if f["signature"][0] != hex.EncodeToString(sum[:]) {
			t.Errorf("bad signature")
		}
		if f["api_key"][0] != "key-1" {
			t.Errorf("api_key: %v", f["api_key"])
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			t.Errorf("file: %v", err)
		} else {
			b, _ := io.ReadAll(file)
			if len(b) == 0 {
				t.Errorf("empty file part")
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"secure_url": "https://res.example.com/demo/image/upload/v1/" + f["folder"][0] + "/" + f["public_id"][0] + ".jpg",
			"public_id":  f["folder"][0] + "/" + f["public_id"][0],
		})
	})

	img, err := cl.Upload(context.Background(), stagedFile(t), "hotel_images")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if img.URL == "" || len(img.PublicID) <= len("hotel_images/") {
		t.Fatalf("unexpected image: %+v", img)
	}
}

func TestUpload_UpstreamError(t *testing.T) {
	cl := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid Signature"}}`))
	})
	_, err := cl.Upload(context.Background(), stagedFile(t), "hotel_images")
	var up *domain.UpstreamError
	if !errors.As(err, &up) || up.Op != "upload" {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestUpload_MissingFile(t *testing.T) {
	cl := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no request expected")
	})
	if _, err := cl.Upload(context.Background(), "/nonexistent/x.jpg", "hotel_images"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestUpload_NotConfigured(t *testing.T) {
	cl, err := media.New("http://127.0.0.1:1", "", "", "", 1)
	if err != nil {
		t.Fatal(err)
	}
	_, err = cl.Upload(context.Background(), stagedFile(t), "x")
	if !errors.Is(err, media.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestDestroy_RetriesThenSuccess(t *testing.T) {
	var hits int32
	cl := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/demo/image/destroy" {
			t.Errorf("path: %s", r.URL.Path)
		}
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"result": "ok"})
	})
	if err := cl.Destroy(context.Background(), "hotel_images/abc"); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if atomic.LoadInt32(&hits) != 3 {
		t.Fatalf("expected 3 attempts, got %d", hits)
	}
}

func TestDestroy_NotFoundIsSuccess(t *testing.T) {
	cl := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"result": "not found"})
	})
	if err := cl.Destroy(context.Background(), "hotel_images/gone"); err != nil {
		t.Fatalf("destroy: %v", err)
	}
}

func TestDestroy_GivesUp(t *testing.T) {
	var hits int32
	cl := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
	})
	err := cl.Destroy(context.Background(), "hotel_images/abc")
	if err == nil {
		t.Fatalf("expected error")
	}
	if atomic.LoadInt32(&hits) != 3 {
		t.Fatalf("expected 3 attempts, got %d", hits)
	}
}
