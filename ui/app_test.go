package ui

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"coordash/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestAppJSONAPI(t *testing.T) {
	sheetServer := newSheetServer(t)
	service := newService(t, config.SheetsConfig{
		SolicitudesURL: sheetServer.URL + "/solicitudes.csv",
	})
	h := NewApp(service, nil).Handler()

	w := get(t, h, "/api/views")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, gjson.Get(w.Body.String(), "views.0.source_configured").Bool())
	assert.False(t, gjson.Get(w.Body.String(), "views.1.source_configured").Bool())

	w = get(t, h, "/api/views/solicitudes?selector=luis@sena.edu.co")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "2879655", gjson.Get(w.Body.String(), "rows.0.6.text").String())

	w = get(t, h, "/api/views/juicios?selector=ana")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "error", gjson.Get(w.Body.String(), "phase").String())
	assert.Equal(t, "CONFIG_INVALID", gjson.Get(w.Body.String(), "error_code").String())

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/views/nope/refresh", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", gjson.Get(w.Body.String(), "code").String())
}
