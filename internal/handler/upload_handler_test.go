package handler

import (
	"bytes"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/linkbio/internal/db"
)

func multipartImage(t *testing.T, field, filename string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}
	return &body, writer.FormDataContentType()
}

func encodePNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1))); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func invokeUpload(t *testing.T, api *API, target string, body *bytes.Buffer, contentType string, profile *db.Profile) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	if profile != nil {
		c.Set(contextProfileKey, profile)
	}

	api.UploadMedia(c)
	return w
}

func TestUploadMediaReturnsPublicURL(t *testing.T) {
	api, gdb := setupTestAPI(t)
	profile := seedProfile(t, gdb, "tester", true)

	body, contentType := multipartImage(t, "image", "cover.png", encodePNG(t))
	w := invokeUpload(t, api, "/admin/api/upload?purpose=cover", body, contentType, profile)
	expectStatus(t, w, http.StatusOK)

	url, _ := decodeBody(t, w)["url"].(string)
	pattern := regexp.MustCompile(`^/static/media/\d+/cover/[0-9a-f-]{36}\.png$`)
	if !pattern.MatchString(url) {
		t.Fatalf("unexpected public url %q", url)
	}
}

func TestUploadMediaNeverReusesPaths(t *testing.T) {
	api, gdb := setupTestAPI(t)
	profile := seedProfile(t, gdb, "tester", true)

	urls := map[string]bool{}
	for i := 0; i < 2; i++ {
		body, contentType := multipartImage(t, "image", "cover.png", encodePNG(t))
		w := invokeUpload(t, api, "/admin/api/upload?purpose=cover", body, contentType, profile)
		expectStatus(t, w, http.StatusOK)
		url, _ := decodeBody(t, w)["url"].(string)
		if urls[url] {
			t.Fatalf("upload paths must never repeat, got %q twice", url)
		}
		urls[url] = true
	}
}

func TestUploadMediaRejectsNonImage(t *testing.T) {
	api, gdb := setupTestAPI(t)
	profile := seedProfile(t, gdb, "tester", true)

	body, contentType := multipartImage(t, "image", "notes.txt", []byte("plain text"))
	w := invokeUpload(t, api, "/admin/api/upload", body, contentType, profile)
	expectStatus(t, w, http.StatusBadRequest)
}

func TestUploadMediaRejectsUnknownPurpose(t *testing.T) {
	api, gdb := setupTestAPI(t)
	profile := seedProfile(t, gdb, "tester", true)

	body, contentType := multipartImage(t, "image", "cover.png", encodePNG(t))
	w := invokeUpload(t, api, "/admin/api/upload?purpose=banner", body, contentType, profile)
	expectStatus(t, w, http.StatusBadRequest)
}
