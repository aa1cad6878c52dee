package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/image-task/internal/config"
	"github.com/phambaophuc/image-task/internal/http/handlers"
	"github.com/phambaophuc/image-task/internal/http/routes"
	"github.com/phambaophuc/image-task/internal/models"
	"github.com/phambaophuc/image-task/internal/services/processor"
	"github.com/phambaophuc/image-task/internal/services/queue"
	"github.com/phambaophuc/image-task/internal/services/storage"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router *gin.Engine
	store  *storage.StorageService
}

func newTestServer(t *testing.T, maxFileSize int64, workers int) *testServer {
	t.Helper()
	root := t.TempDir()
	cfg := &config.Config{Storage: config.StorageConfig{
		UploadDir:    filepath.Join(root, "uploads"),
		ProcessedDir: filepath.Join(root, "processed_images"),
		MaxFileSize:  maxFileSize,
	}}
	logger := zap.NewNop()

	st, err := storage.NewStorageService(cfg, nil, logger)
	if err != nil {
		t.Fatalf("NewStorageService failed: %v", err)
	}

	q := queue.NewQueueService(
		queue.NewMemoryBroker(8),
		queue.NewMemoryStore(),
		processor.NewImageProcessor(st.ProcessedDir(), 600),
		st,
		logger,
	)
	ctx, cancel := context.WithCancel(context.Background())
	if workers > 0 {
		if err := q.StartWorkers(ctx, workers); err != nil {
			t.Fatalf("StartWorkers failed: %v", err)
		}
	}
	t.Cleanup(func() {
		cancel()
		q.Wait()
		q.Close()
	})

	h := handlers.NewImageHandler(q, st, logger, cfg, st, q)
	return &testServer{
		router: routes.NewRouter(h, st.ProcessedDir(), logger).SetupRoutes(),
		store:  st,
	}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("jpeg.Encode failed: %v", err)
	}
	return buf.Bytes()
}

func uploadRequest(t *testing.T, filename string, data []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("WriteField failed: %v", err)
		}
	}
	if data != nil {
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("CreateFormFile failed: %v", err)
		}
		part.Write(data)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("invalid JSON body %q: %v", w.Body.String(), err)
	}
}

func pollStatus(t *testing.T, s *testServer, taskID string) models.StatusResponse {
	t.Helper()
	deadline := time.Now().Add(15 * time.Second)
	for time.Now().Before(deadline) {
		w := s.do(httptest.NewRequest(http.MethodGet, "/status/"+taskID, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("status code = %d, body %s", w.Code, w.Body.String())
		}
		var resp models.StatusResponse
		decodeJSON(t, w, &resp)
		if resp.Status != string(models.StatePending) {
			return resp
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("task %s still pending", taskID)
	return models.StatusResponse{}
}

func TestRoot(t *testing.T) {
	s := newTestServer(t, 10<<20, 0)

	w := s.do(httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", w.Code)
	}
	var body map[string]string
	decodeJSON(t, w, &body)
	if body["status"] != "OK" {
		t.Errorf("status = %q, want OK", body["status"])
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestUploadProcessAndServeResult(t *testing.T) {
	s := newTestServer(t, 10<<20, 2)

	w := s.do(uploadRequest(t, "photo.jpg", jpegBytes(t, 1000, 500), map[string]string{"compress": "true"}))
	if w.Code != http.StatusOK {
		t.Fatalf("upload code = %d, body %s", w.Code, w.Body.String())
	}
	var up models.UploadResponse
	decodeJSON(t, w, &up)
	if up.TaskID == "" || up.Filename != "photo.jpg" {
		t.Fatalf("unexpected upload response %+v", up)
	}

	resp := pollStatus(t, s, up.TaskID)
	if resp.Status != string(models.StateSuccess) {
		t.Fatalf("status = %s, result %+v", resp.Status, resp.Result)
	}
	res := resp.Result
	if res == nil {
		t.Fatal("terminal status without result")
	}
	if res.Width != 600 || res.Height != 300 {
		t.Errorf("size = %dx%d, want 600x300", res.Width, res.Height)
	}
	if res.Quality != processor.CompressedQuality || !res.Optimized {
		t.Errorf("quality = %d optimized = %v", res.Quality, res.Optimized)
	}
	wantURL := "/results/processed_" + up.TaskID + "_photo.jpg"
	if res.URL != wantURL {
		t.Fatalf("url = %q, want %q", res.URL, wantURL)
	}

	fetched := s.do(httptest.NewRequest(http.MethodGet, res.URL, nil))
	if fetched.Code != http.StatusOK {
		t.Fatalf("GET %s code = %d", res.URL, fetched.Code)
	}
	if int64(fetched.Body.Len()) != res.SizeBytes {
		t.Errorf("served %d bytes, result says %d", fetched.Body.Len(), res.SizeBytes)
	}
	img, err := jpeg.Decode(fetched.Body)
	if err != nil {
		t.Fatalf("served file is not a JPEG: %v", err)
	}
	if _, ok := img.(*image.Gray); !ok {
		t.Errorf("served image is %T, want *image.Gray", img)
	}
	if b := img.Bounds(); b.Dx() != 600 || b.Dy() != 300 {
		t.Errorf("served size = %dx%d", b.Dx(), b.Dy())
	}
}

func TestUploadWithoutTrailingSlash(t *testing.T) {
	s := newTestServer(t, 10<<20, 0)

	req := uploadRequest(t, "a.jpg", jpegBytes(t, 20, 20), nil)
	req.URL.Path = "/upload"
	w := s.do(req)
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, body %s", w.Code, w.Body.String())
	}
}

func TestStatusPendingHasNullResult(t *testing.T) {
	s := newTestServer(t, 10<<20, 0)

	w := s.do(uploadRequest(t, "a.jpg", jpegBytes(t, 20, 20), nil))
	var up models.UploadResponse
	decodeJSON(t, w, &up)

	w = s.do(httptest.NewRequest(http.MethodGet, "/status/"+up.TaskID, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"result":null`) {
		t.Errorf("body %s, want null result", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"status":"PENDING"`) {
		t.Errorf("body %s, want PENDING", w.Body.String())
	}
}

func TestUploadCorruptImageFails(t *testing.T) {
	s := newTestServer(t, 10<<20, 1)

	w := s.do(uploadRequest(t, "broken.jpg", []byte("definitely not an image"), nil))
	if w.Code != http.StatusOK {
		t.Fatalf("upload code = %d", w.Code)
	}
	var up models.UploadResponse
	decodeJSON(t, w, &up)

	resp := pollStatus(t, s, up.TaskID)
	if resp.Status != string(models.StateFailure) {
		t.Fatalf("status = %s, want FAILURE", resp.Status)
	}
	if resp.Result == nil || resp.Result.Error == "" {
		t.Fatalf("failure without error message: %+v", resp.Result)
	}
	if resp.Result.ErrorKind != string(processor.KindDecode) {
		t.Errorf("error kind = %q, want decode", resp.Result.ErrorKind)
	}
}

func TestUploadUnsupportedTargetFormatFails(t *testing.T) {
	s := newTestServer(t, 10<<20, 1)

	w := s.do(uploadRequest(t, "a.jpg", jpegBytes(t, 40, 20), map[string]string{"target_format": "WEBP"}))
	var up models.UploadResponse
	decodeJSON(t, w, &up)

	resp := pollStatus(t, s, up.TaskID)
	if resp.Status != string(models.StateFailure) {
		t.Fatalf("status = %s, want FAILURE", resp.Status)
	}
	if !strings.Contains(resp.Result.Error, "unsupported format") {
		t.Errorf("error = %q", resp.Result.Error)
	}
}

func TestUploadRejections(t *testing.T) {
	s := newTestServer(t, 1024, 0)

	jsonReq := httptest.NewRequest(http.MethodPost, "/upload/", strings.NewReader(`{}`))
	jsonReq.Header.Set("Content-Type", "application/json")

	tests := []struct {
		name string
		req  *http.Request
		code int
	}{
		{"missing file", uploadRequest(t, "", nil, map[string]string{"grayscale": "true"}), http.StatusBadRequest},
		{"empty body", httptest.NewRequest(http.MethodPost, "/upload/", nil), http.StatusBadRequest},
		{"bad boolean", uploadRequest(t, "a.jpg", []byte("x"), map[string]string{"resize": "maybe"}), http.StatusBadRequest},
		{"too large", uploadRequest(t, "big.jpg", jpegBytes(t, 400, 400), nil), http.StatusRequestEntityTooLarge},
		{"not multipart", jsonReq, http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(tt.req)
			if w.Code != tt.code {
				t.Fatalf("code = %d, want %d (body %s)", w.Code, tt.code, w.Body.String())
			}
			var resp models.APIResponse
			decodeJSON(t, w, &resp)
			if resp.Success || resp.Error == "" {
				t.Errorf("unexpected error body %+v", resp)
			}
		})
	}
}

func TestStatusUnknownTask(t *testing.T) {
	s := newTestServer(t, 10<<20, 0)

	for _, id := range []string{"not-a-uuid", "0b7d0b37-2f5f-4a8a-9c57-2f4f2c7f9f10"} {
		w := s.do(httptest.NewRequest(http.MethodGet, "/status/"+id, nil))
		if w.Code != http.StatusNotFound {
			t.Errorf("GET /status/%s code = %d, want 404", id, w.Code)
		}
	}
}

func TestResultsMissingFile(t *testing.T) {
	s := newTestServer(t, 10<<20, 0)

	w := s.do(httptest.NewRequest(http.MethodGet, "/results/nothing.jpg", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("code = %d, want 404", w.Code)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, 10<<20, 0)

	w := s.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Success bool               `json:"success"`
		Data    models.HealthCheck `json:"data"`
	}
	decodeJSON(t, w, &resp)
	if !resp.Success || resp.Data.Status != "healthy" {
		t.Errorf("unexpected health %+v", resp)
	}
	for _, name := range []string{"disk", "mirror", "broker", "result_backend"} {
		if _, ok := resp.Data.Services[name]; !ok {
			t.Errorf("health is missing %q", name)
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, 10<<20, 0)

	req := httptest.NewRequest(http.MethodOptions, "/upload/", nil)
	req.Header.Set("Origin", "http://example.com")
	w := s.do(req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://example.com" {
		t.Errorf("Allow-Origin = %q", got)
	}
}
