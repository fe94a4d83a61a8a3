package controllers_test

import (
	"FairShare/controllers"
	"FairShare/models"
	route "FairShare/routes"
	"FairShare/services"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const processPath = "/openai_vision/process-receipt"

var jpegBytes = []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}

type stubEngine struct {
	content string
	err     error
	calls   int
	img     models.ImageInput
}

func (s *stubEngine) Name() string { return "stub" }

func (s *stubEngine) Complete(_ context.Context, img models.ImageInput, _ string) (string, error) {
	s.calls++
	s.img = img
	return s.content, s.err
}

func newRouter(engine services.VisionEngine, maxUpload int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := zap.NewNop().Sugar()
	controller := controllers.NewReceiptController(services.NewReceiptService(engine, log))
	return route.NewRouter(route.Options{AllowOrigins: []string{"*"}, MaxUploadBytes: maxUpload}, log, controller)
}

func jsonRequest(t *testing.T, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, processPath, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func multipartRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		fw, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("note", "no file here"))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, processPath, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var out map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestProcessReceipt_JSON(t *testing.T) {
	engine := &stubEngine{content: `Here is the data: [{"item_name":"coke","item_count":2,"items_price":4.5}] thanks`}
	r := newRouter(engine, 0)

	body := `{"image":"` + base64.StdEncoding.EncodeToString(jpegBytes) + `"}`
	w := serve(r, jsonRequest(t, body))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, `[{"item_name":"coke","item_count":2,"items_price":4.5}]`, decodeBody(t, w)["result"])
	assert.Equal(t, jpegBytes, engine.img.Data)
	assert.Equal(t, "image/jpeg", engine.img.MIMEType)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestProcessReceipt_JSONWithCharsetAndDataURI(t *testing.T) {
	engine := &stubEngine{content: "[]"}
	r := newRouter(engine, 0)

	body := `{"image":"data:image/png;base64,` + base64.StdEncoding.EncodeToString([]byte("png-ish")) + `"}`
	req := jsonRequest(t, body)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	w := serve(r, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "[]", decodeBody(t, w)["result"])
	assert.Equal(t, "image/png", engine.img.MIMEType)
}

func TestProcessReceipt_NoItemsFound(t *testing.T) {
	r := newRouter(&stubEngine{content: "No items detected."}, 0)

	w := serve(r, jsonRequest(t, `{"image":"`+base64.StdEncoding.EncodeToString(jpegBytes)+`"}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", decodeBody(t, w)["result"])
}

func TestProcessReceipt_JSONClientErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing image key", `{"picture":"abc"}`, "No image data"},
		{"empty image", `{"image":"   "}`, "No image data"},
		{"null body", `null`, "No image data"},
		{"malformed json", `{"image":`, "Invalid request format"},
		{"image not a string", `{"image":42}`, "Invalid request format"},
		{"bad base64", `{"image":"%%%"}`, "Invalid image data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &stubEngine{content: "[]"}
			w := serve(newRouter(engine, 0), jsonRequest(t, tt.body))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, map[string]string{"error": tt.want}, decodeBody(t, w))
			assert.Zero(t, engine.calls)
		})
	}
}

func TestProcessReceipt_Multipart(t *testing.T) {
	engine := &stubEngine{content: `[{"item_name":"Iced Tea","item_count":1,"items_price":8}]`}
	r := newRouter(engine, 0)

	w := serve(r, multipartRequest(t, "file", "receipt.jpg", jpegBytes))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, `[{"item_name":"Iced Tea","item_count":1,"items_price":8}]`, decodeBody(t, w)["result"])
	assert.Equal(t, jpegBytes, engine.img.Data)
	assert.Equal(t, "image/jpeg", engine.img.MIMEType)
}

func TestProcessReceipt_MultipartNoFilePart(t *testing.T) {
	engine := &stubEngine{content: "[]"}
	w := serve(newRouter(engine, 0), multipartRequest(t, "", "", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, map[string]string{"error": "No file part"}, decodeBody(t, w))
	assert.Zero(t, engine.calls)
}

func TestProcessReceipt_MultipartNoSelectedFile(t *testing.T) {
	engine := &stubEngine{content: "[]"}
	w := serve(newRouter(engine, 0), multipartRequest(t, "file", "", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, map[string]string{"error": "No selected file"}, decodeBody(t, w))
	assert.Zero(t, engine.calls)
}

func TestProcessReceipt_MultipartWrongField(t *testing.T) {
	w := serve(newRouter(&stubEngine{}, 0), multipartRequest(t, "image", "receipt.jpg", jpegBytes))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No file part", decodeBody(t, w)["error"])
}

func TestProcessReceipt_MultipartEmptyFile(t *testing.T) {
	w := serve(newRouter(&stubEngine{}, 0), multipartRequest(t, "file", "receipt.jpg", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Empty file", decodeBody(t, w)["error"])
}

func TestProcessReceipt_UnsupportedMediaType(t *testing.T) {
	for _, ct := range []string{"text/plain", "application/x-www-form-urlencoded", ""} {
		req := httptest.NewRequest(http.MethodPost, processPath, strings.NewReader("image=abc"))
		if ct != "" {
			req.Header.Set("Content-Type", ct)
		}
		w := serve(newRouter(&stubEngine{}, 0), req)

		assert.Equal(t, http.StatusUnsupportedMediaType, w.Code, "content type %q", ct)
		assert.Equal(t, map[string]string{"error": "Unsupported media type"}, decodeBody(t, w))
	}
}

func TestProcessReceipt_BodyTooLarge(t *testing.T) {
	engine := &stubEngine{content: "[]"}
	body := `{"image":"` + strings.Repeat("A", 4096) + `"}`
	w := serve(newRouter(engine, 1024), jsonRequest(t, body))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "Request entity too large", decodeBody(t, w)["error"])
	assert.Zero(t, engine.calls)
}

func TestProcessReceipt_EngineFailure(t *testing.T) {
	engine := &stubEngine{err: &services.VisionStatusError{Provider: "stub", StatusCode: 500, Message: "boom"}}
	w := serve(newRouter(engine, 0), jsonRequest(t, `{"image":"`+base64.StdEncoding.EncodeToString(jpegBytes)+`"}`))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "error processing image: stub status 500: boom", decodeBody(t, w)["error"])
}

func TestProcessReceipt_UpstreamUnavailable(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"Service Unavailable","type":"server_error"}}`))
	}))
	defer upstream.Close()

	engine := services.NewOpenAIService(services.OpenAIConfig{
		APIKey:    "sk-test",
		BaseURL:   upstream.URL + "/v1",
		Model:     "gpt-4o",
		MaxTokens: 300,
		Timeout:   5 * time.Second,
	}, zap.NewNop().Sugar())

	w := serve(newRouter(engine, 0), jsonRequest(t, `{"image":"`+base64.StdEncoding.EncodeToString(jpegBytes)+`"}`))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "503")
}

func TestHealth(t *testing.T) {
	w := serve(newRouter(&stubEngine{}, 0), httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]string{"status": "ok"}, decodeBody(t, w))
}
