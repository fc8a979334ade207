package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/mayurrohokale/Kindness-Corner-backend/internal/api/handlers"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/storage"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
)

type fakePresigner struct {
	err error
}

func (p *fakePresigner) PresignPut(_ context.Context, key, contentType string) (*storage.Upload, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &storage.Upload{
		Key:       key,
		UploadURL: "https://bucket.example/" + key + "?sig=1",
		PublicURL: "https://cdn.example/" + key,
		ExpiresAt: time.Now().Add(15 * time.Minute),
	}, nil
}

func TestUploadHandler_Presign(t *testing.T) {
	handler := http.HandlerFunc(handlers.NewUploadHandler(&fakePresigner{}).Presign)

	rr := serve(t, handler, "POST", "/uploads/presign", map[string]string{"content_type": "image/png"})
	testutil.AssertStatus(t, rr, http.StatusOK)

	var upload storage.Upload
	testutil.ParseJSONResponse(t, rr, &upload)
	assert.True(t, strings.HasPrefix(upload.Key, "images/"))
	assert.True(t, strings.HasSuffix(upload.Key, ".png"))

	rr = serve(t, handler, "POST", "/uploads/presign", map[string]string{"content_type": "application/pdf"})
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}

func TestUploadHandler_Unavailable(t *testing.T) {
	rr := serve(t, http.HandlerFunc(handlers.NewUploadHandler(nil).Presign), "POST", "/uploads/presign", map[string]string{"content_type": "image/png"})
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)

	failing := handlers.NewUploadHandler(&fakePresigner{err: errors.New("signing failed")})
	rr = serve(t, http.HandlerFunc(failing.Presign), "POST", "/uploads/presign", map[string]string{"content_type": "image/png"})
	testutil.AssertStatus(t, rr, http.StatusInternalServerError)
}
