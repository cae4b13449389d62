package endpoints

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRespondWithJSON(t *testing.T) {
	t.Run("writes the payload", func(t *testing.T) {
		w := httptest.NewRecorder()
		respondWithJSON(w, http.StatusCreated, map[string]float64{"renda": 1.5})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"renda":1.5}`, w.Body.String())
	})

	t.Run("unencodable payload answers 500", func(t *testing.T) {
		w := httptest.NewRecorder()
		respondWithJSON(w, http.StatusOK, map[string]float64{"renda": math.NaN()})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotEmpty(t, w.Body.String())
		assert.Contains(t, w.Body.String(), "falha ao serializar resposta")
	})
}

func TestGetClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.7:5555"
	assert.Equal(t, "10.0.0.7", getClientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", getClientIP(r))
}
