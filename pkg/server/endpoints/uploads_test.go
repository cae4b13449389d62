package endpoints

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projeto-canaa/cadastro/pkg/blob"
)

func TestUploadedFile(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.blobs.Put(context.Background(), "CANAA-20240102030405-123_rg.pdf",
		strings.NewReader("%PDF-1.4 fake"), blob.PutOptions{ContentType: "application/pdf"})
	require.NoError(t, err)

	t.Run("serves a stored document", func(t *testing.T) {
		w := env.do(httptest.NewRequest("GET", "/uploads/CANAA-20240102030405-123_rg.pdf", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.Equal(t, "%PDF-1.4 fake", w.Body.String())
		assert.Contains(t, env.audit.String(), "upload-fetch")
	})

	t.Run("missing document", func(t *testing.T) {
		w := env.do(httptest.NewRequest("GET", "/uploads/nao-existe.pdf", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"Arquivo não encontrado"}`, w.Body.String())
	})

	t.Run("path traversal is not found", func(t *testing.T) {
		w := env.do(httptest.NewRequest("GET", "/uploads/..%2F..%2Fetc%2Fpasswd", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
