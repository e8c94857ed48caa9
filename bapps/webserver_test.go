package bapps

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treeconf/treeconf/common"
	"github.com/treeconf/treeconf/states"
)

func newTestServer(t *testing.T, shape string) (*WebServerApp, http.Handler, *states.Lighting) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	lighting := states.NewLighting(io.Discard)
	root, err := lighting.Tree(shape)
	require.NoError(t, err)
	app := NewWebServerApp(0, nil)
	return app, app.Router(root), lighting
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	result := map[string]any{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result), w.Body.String())
	return w.Code, result
}

func TestWebServerParse(t *testing.T) {
	_, h, lighting := newTestServer(t, states.TreeFlat)

	t.Run("completed", func(t *testing.T) {
		code, body := doRequest(t, h, http.MethodPost, "/parse", `{"args":["dim","75"]}`)
		assert.Equal(t, http.StatusOK, code)
		assert.EqualValues(t, 0, body["code"])
		assert.Equal(t, "Lamp dimmed successfully", body["message"])
		assert.Equal(t, float64(75), lighting.Lamp("lamp1").Level())
	})

	t.Run("parse failed", func(t *testing.T) {
		code, body := doRequest(t, h, http.MethodPost, "/parse", `{"args":["toggle","extra"]}`)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Too many arguments", body["message"])
		assert.Equal(t, "toggle", body["token"])
		assert.Equal(t, "lighting toggle", body["history"])
		assert.Equal(t, "{ toggle | dim [ <dim_value> ] }", body["usage"])
	})

	t.Run("run failed", func(t *testing.T) {
		code, body := doRequest(t, h, http.MethodPost, "/parse", `{"args":["dim","x"]}`)
		assert.Equal(t, http.StatusUnprocessableEntity, code)
		assert.Equal(t, `Cannot convert "x" to dim value`, body["message"])
		assert.Equal(t, "dim", body["token"])
	})

	t.Run("bad body", func(t *testing.T) {
		code, body := doRequest(t, h, http.MethodPost, "/parse", `{"args":`)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Contains(t, body, "error")
	})
}

func TestWebServerQueries(t *testing.T) {
	_, h, _ := newTestServer(t, states.TreeArgument)

	code, body := doRequest(t, h, http.MethodGet, "/usage", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "<lamp name> { toggle | dim <dim_value> }", body["usage"])

	_, body = doRequest(t, h, http.MethodGet, "/completions", "")
	assert.Equal(t, "<lamp name> { toggle | dim }", body["completions"])

	_, body = doRequest(t, h, http.MethodGet, "/usage?help=true", "")
	assert.Contains(t, body["usage"], "Name of lamp to control")

	_, body = doRequest(t, h, http.MethodGet, "/suggest?input=lamp1+d", "")
	assert.Equal(t, map[string]any{"dim": "Dim lights"}, body["suggestions"])

	code, _ = doRequest(t, h, http.MethodGet, "/usage?help=maybe", "")
	assert.Equal(t, http.StatusBadRequest, code)

	_, body = doRequest(t, h, http.MethodGet, "/version", "")
	assert.Equal(t, common.Version.String(), body["version"])
}

func TestWebServerRequestID(t *testing.T) {
	_, h, _ := newTestServer(t, states.TreeFlat)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/usage", nil))
	_, err := uuid.Parse(w.Header().Get(requestIDHeader))
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/usage", nil)
	req.Header.Set(requestIDHeader, "lamp-42")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "lamp-42", w.Header().Get(requestIDHeader))
}

func TestWebServerConcurrentParse(t *testing.T) {
	app, h, lighting := newTestServer(t, states.TreeControllers)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			lamp := "lamp1"
			if i%2 == 1 {
				lamp = "lamp2"
			}
			req := httptest.NewRequest(http.MethodPost, "/parse", strings.NewReader(`{"args":["`+lamp+`","toggle"]}`))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
		}(i)
	}
	wg.Wait()

	// ten toggles each
	assert.False(t, lighting.Lamp("lamp1").IsOn())
	assert.False(t, lighting.Lamp("lamp2").IsOn())

	code, body := doRequest(t, h, http.MethodGet, "/stats", "")
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 20, body["served"])
	assert.EqualValues(t, 20, body["completed"])
	assert.EqualValues(t, 20, app.completed.Load())
}
