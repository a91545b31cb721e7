package http

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type probeRequest struct {
	Name  string `param:"name" validate:"required,max=4"`
	Count int    `query:"count" default:"3" validate:"gte=1,lte=5"`
}

type probeHandler struct{}

func (probeHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/probe/:name", func(c echo.Context) error {
		var req probeRequest
		if verr := ReadAndValidateRequest(c, &req); verr != nil {
			return BadRequestResponse(c, verr)
		}
		return SuccessResponse(c, req)
	})
	e.GET("/missing", func(c echo.Context) error {
		return NotFoundError("nothing at %s", "missing")
	})
	e.GET("/boom", func(c echo.Context) error {
		return errors.New("db exploded")
	})
	e.GET("/panic", func(c echo.Context) error {
		panic("bad")
	})
}

func serve(t *testing.T, s *Server, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestServerEnvelope(t *testing.T) {
	s := NewServer(Handlers{probeHandler{}}, nil, WithMetricsPath(""))

	tests := []struct {
		name   string
		target string
		status int
		check  func(t *testing.T, body map[string]any)
	}{
		{
			name:   "defaults applied",
			target: "/probe/abc",
			status: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				data := body["data"].(map[string]any)
				assert.Equal(t, "abc", data["Name"])
				assert.Equal(t, 3.0, data["Count"])
			},
		},
		{
			name:   "validation uses query names",
			target: "/probe/abc?count=9",
			status: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]any) {
				errs := body["data"].([]any)
				require.Len(t, errs, 1)
				first := errs[0].(map[string]any)
				assert.Equal(t, "ERR_LTE", first["code"])
				assert.Equal(t, "count", first["field"])
			},
		},
		{name: "app error keeps status", target: "/missing", status: http.StatusNotFound},
		{name: "plain error is generic 500", target: "/boom", status: http.StatusInternalServerError},
		{name: "panic is recovered", target: "/panic", status: http.StatusInternalServerError},
		{name: "unknown route", target: "/nope", status: http.StatusNotFound},
		{name: "health", target: "/healthz", status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := serve(t, s, tt.target)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, float64(tt.status), body["status"])
			if tt.check != nil {
				tt.check(t, body)
			}
		})
	}
}

func TestNotFoundErrorCode(t *testing.T) {
	s := NewServer(probeHandler{}, nil, WithMetricsPath(""))
	_, body := serve(t, s, "/missing")

	errs := body["data"].([]any)
	assert.Equal(t, "ERR_NOT_FOUND", errs[0].(map[string]any)["code"])
	assert.Equal(t, "nothing at missing", errs[0].(map[string]any)["message"])
}

func TestServerLifecycle(t *testing.T) {
	s := NewServer(probeHandler{}, nil,
		WithHost("127.0.0.1"),
		WithPort(0),
		WithTimeouts(time.Second, time.Second, time.Second),
		WithMetricsPath("/metrics"),
	)
	assert.Empty(t, s.Addr())
	require.NoError(t, s.Start())

	resp, err := http.Get("http://" + s.Addr() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get("http://" + s.Addr() + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, s.Stop(context.Background()))
}

func TestServerStartPortTaken(t *testing.T) {
	first := NewServer(nil, nil, WithHost("127.0.0.1"), WithPort(0), WithMetricsPath(""))
	require.NoError(t, first.Start())
	defer first.Stop(context.Background())

	_, port, err := net.SplitHostPort(first.Addr())
	require.NoError(t, err)
	p, err := strconv.Atoi(port)
	require.NoError(t, err)

	second := NewServer(nil, nil, WithHost("127.0.0.1"), WithPort(p), WithMetricsPath(""))
	assert.Error(t, second.Start())
}
