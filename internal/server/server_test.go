package server

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"photo-gallery-app/internal/gallery"
	"photo-gallery-app/internal/storage"
	ws "photo-gallery-app/internal/websocket"
)

type testEnv struct {
	server    *httptest.Server
	client    *http.Client
	uploadDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := storage.InitDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Bootstrap("admin123"); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}

	uploadDir := t.TempDir()
	manager, err := gallery.NewManager(uploadDir, t.TempDir())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	hub := ws.NewHub()
	go hub.Run()

	srv := New(db, manager, hub, "test-secret")
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &testEnv{server: ts, client: client, uploadDir: uploadDir}
}

func (e *testEnv) login(t *testing.T, username, password string) *http.Response {
	t.Helper()
	resp, err := e.client.PostForm(e.server.URL+"/login", url.Values{
		"username": {username},
		"password": {password},
	})
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	resp.Body.Close()
	return resp
}

func (e *testEnv) upload(t *testing.T, filename string, content []byte) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	mw.Close()

	resp, err := e.client.Post(e.server.URL+"/upload", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("upload request: %v", err)
	}
	resp.Body.Close()
	return resp
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 120, B: 230, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "admin", "nope"},
		{"unknown user", "ghost", "admin123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.login(t, tt.username, tt.password)
			if resp.StatusCode != http.StatusSeeOther {
				t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusSeeOther)
			}
			if loc := resp.Header.Get("Location"); loc != "/login" {
				t.Errorf("redirect = %q, want /login", loc)
			}
		})
	}
}

func TestLoginSuccessRedirectsHome(t *testing.T) {
	env := newTestEnv(t)

	resp := env.login(t, "admin", "admin123")
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusSeeOther)
	}
	if loc := resp.Header.Get("Location"); loc != "/" {
		t.Errorf("redirect = %q, want /", loc)
	}
}

func TestUploadRequiresAdminSession(t *testing.T) {
	env := newTestEnv(t)

	resp := env.upload(t, "a.png", testPNG(t))
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusSeeOther)
	}

	entries, err := os.ReadDir(env.uploadDir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("anonymous upload wrote files: %v", entries)
	}
}

func TestUploadAndFetchAndDelete(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, "admin", "admin123")

	content := testPNG(t)
	resp := env.upload(t, "shot.png", content)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("upload status = %d, want %d", resp.StatusCode, http.StatusSeeOther)
	}

	// Original is served back byte for byte.
	fetch, err := env.client.Get(env.server.URL + "/uploads/shot.png")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	body, err := io.ReadAll(fetch.Body)
	fetch.Body.Close()
	if err != nil {
		t.Fatalf("read fetch body: %v", err)
	}
	if fetch.StatusCode != http.StatusOK {
		t.Fatalf("fetch status = %d, want 200", fetch.StatusCode)
	}
	if !bytes.Equal(body, content) {
		t.Error("fetched bytes differ from uploaded bytes")
	}
	if ct := fetch.Header.Get("Content-Type"); !strings.Contains(ct, "image/png") {
		t.Errorf("fetch content type = %q, want image/png", ct)
	}

	// Thumbnail is derived alongside the original.
	thumb, err := env.client.Get(env.server.URL + "/thumbnails/shot.png")
	if err != nil {
		t.Fatalf("thumbnail fetch: %v", err)
	}
	thumb.Body.Close()
	if thumb.StatusCode != http.StatusOK {
		t.Errorf("thumbnail status = %d, want 200", thumb.StatusCode)
	}

	// Delete removes both artifacts.
	del, err := env.client.Post(env.server.URL+"/delete/shot.png", "application/x-www-form-urlencoded", nil)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	del.Body.Close()
	if del.StatusCode != http.StatusSeeOther {
		t.Fatalf("delete status = %d, want %d", del.StatusCode, http.StatusSeeOther)
	}

	gone, err := env.client.Get(env.server.URL + "/uploads/shot.png")
	if err != nil {
		t.Fatalf("fetch after delete: %v", err)
	}
	gone.Body.Close()
	if gone.StatusCode != http.StatusNotFound {
		t.Errorf("fetch after delete status = %d, want 404", gone.StatusCode)
	}
}

func TestUploadInvalidTypeWritesNothing(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, "admin", "admin123")

	resp := env.upload(t, "malware.exe", []byte("MZ"))
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusSeeOther)
	}

	entries, err := os.ReadDir(env.uploadDir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("invalid upload wrote files: %v", entries)
	}
}

func TestDeleteMissingFileLeavesStorageUntouched(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, "admin", "admin123")
	env.upload(t, "keep.png", testPNG(t))

	del, err := env.client.Post(env.server.URL+"/delete/nothere.png", "application/x-www-form-urlencoded", nil)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	del.Body.Close()
	if del.StatusCode != http.StatusSeeOther {
		t.Fatalf("delete status = %d, want %d", del.StatusCode, http.StatusSeeOther)
	}

	entries, err := os.ReadDir(env.uploadDir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "keep.png" {
		t.Errorf("storage changed by failed delete: %v", entries)
	}
}

func TestIndexShowsAdminControlsOnlyWhenLoggedIn(t *testing.T) {
	env := newTestEnv(t)

	home, err := env.client.Get(env.server.URL + "/")
	if err != nil {
		t.Fatalf("get index: %v", err)
	}
	body, _ := io.ReadAll(home.Body)
	home.Body.Close()
	if strings.Contains(string(body), "/upload") && strings.Contains(string(body), "enctype") {
		t.Error("anonymous index shows the upload form")
	}

	env.login(t, "admin", "admin123")
	home, err = env.client.Get(env.server.URL + "/")
	if err != nil {
		t.Fatalf("get index: %v", err)
	}
	body, _ = io.ReadAll(home.Body)
	home.Body.Close()
	if !strings.Contains(string(body), "/upload") {
		t.Error("admin index is missing the upload form")
	}
}

func TestLogoutDropsAdminSession(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, "admin", "admin123")

	out, err := env.client.Get(env.server.URL + "/logout")
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	out.Body.Close()

	resp := env.upload(t, "later.png", testPNG(t))
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusSeeOther)
	}
	entries, err := os.ReadDir(env.uploadDir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("upload after logout wrote files: %v", entries)
	}
}

func TestTraversalPathsNeverEscapeStorage(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.client.Get(env.server.URL + "/uploads/..%2F..%2Fetc%2Fpasswd")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		t.Error("traversal path served a file")
	}
}
