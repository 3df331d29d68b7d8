package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/journalapp/journal-server/internal/errors"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestJSON_SuccessEnvelope(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusOK, Success(map[string]int{"id": 3}), slog.New(slog.DiscardHandler))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	body := decode(t, w)
	assert.Equal(t, float64(Version), body["v"])
	assert.Equal(t, true, body["success"])
	assert.Equal(t, map[string]any{"id": float64(3)}, body["data"])
}

func TestSuccess_NilDataIsExplicitNull(t *testing.T) {
	raw, err := json.Marshal(Success(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1,"success":true,"data":null}`, string(raw))
}

func TestError_UsesCodeStatus(t *testing.T) {
	w := httptest.NewRecorder()

	Error(w, domainerrors.CodeRequestDenied, domainerrors.MsgLastTable, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "REQUEST_DENIED", body["code"])
	assert.Equal(t, domainerrors.MsgLastTable, body["error"])
	assert.Equal(t, domainerrors.MsgLastTable, body["message"])
	assert.NotContains(t, body, "details")
}

func TestTooManyRequests(t *testing.T) {
	w := httptest.NewRecorder()

	TooManyRequests(w, "slow down", nil)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "RATE_LIMITED", decode(t, w)["code"])
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	w := httptest.NewRecorder()
	NotFound(w, "route not found", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	MethodNotAllowed(w, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
