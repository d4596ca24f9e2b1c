package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestClient_Download(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("payload"))
	}))
	defer srv.Close()

	cl := New(Options{Timeout: 5 * time.Second})
	dst := filepath.Join(t.TempDir(), "out.bin")
	n, err := cl.Download(context.Background(), srv.URL+"/file", dst)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if n != int64(len("payload")) {
		t.Fatalf("size: got %d", n)
	}
	b, err := os.ReadFile(dst)
	if err != nil || string(b) != "payload" {
		t.Fatalf("file content: %q %v", b, err)
	}
}

func TestClient_BasicAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "jane" || pass != "s3cret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	noAuth := New(Options{Timeout: 5 * time.Second})
	if _, err := noAuth.Get(context.Background(), srv.URL); err == nil {
		t.Fatalf("want failure without credentials")
	}

	withAuth := New(Options{Timeout: 5 * time.Second, Username: "jane", Password: "s3cret"})
	resp, err := withAuth.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("get with auth: %v", err)
	}
	resp.Body.Close()
}

func TestClient_RetryRecovers(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	cl := New(Options{Timeout: 5 * time.Second, Retry: 1})
	resp, err := cl.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("get with retry: %v", err)
	}
	resp.Body.Close()
	if atomic.LoadInt32(&hits) != 2 {
		t.Fatalf("hits: got %d", hits)
	}
}

func TestClient_DownloadFailureLeavesNoFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	cl := New(Options{Timeout: 5 * time.Second})
	dst := filepath.Join(t.TempDir(), "out.bin")
	if _, err := cl.Download(context.Background(), srv.URL+"/missing", dst); err == nil {
		t.Fatalf("want error for 404")
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Fatalf("partial file must not remain: %v", err)
	}
}
