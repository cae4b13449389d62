package endpoints

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/projeto-canaa/cadastro/pkg/server/store"
)

func TestQRCode(t *testing.T) {
	protocolo := "CANAA-20240102030405-123"

	t.Run("downloads a PNG attachment", func(t *testing.T) {
		env := newTestEnv(t)
		env.cadastros.On("FetchByProtocol", mock.Anything, protocolo).Return(sampleCadastro(protocolo), nil)

		w := env.do(httptest.NewRequest("GET", "/qrcode/"+protocolo, nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename=qrcode_CANAA-20240102030405-123.png`, w.Header().Get("Content-Disposition"))
		assert.True(t, bytes.HasPrefix(w.Body.Bytes(), pngMagic))
		assert.Contains(t, env.audit.String(), "qrcode-fetch")
	})

	t.Run("unknown protocol", func(t *testing.T) {
		env := newTestEnv(t)
		env.cadastros.On("FetchByProtocol", mock.Anything, "CANAA-00000000000000-000").
			Return(nil, store.ErrCadastroNotFound)

		w := env.do(httptest.NewRequest("GET", "/qrcode/CANAA-00000000000000-000", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"Protocolo não encontrado"}`, w.Body.String())
	})

	t.Run("database error", func(t *testing.T) {
		env := newTestEnv(t)
		env.cadastros.On("FetchByProtocol", mock.Anything, protocolo).Return(nil, errors.New("timeout"))

		w := env.do(httptest.NewRequest("GET", "/qrcode/"+protocolo, nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"Erro ao gerar QR code: timeout"}`, w.Body.String())
	})
}
