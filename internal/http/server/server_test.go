package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"peopleapi/internal/http/middleware"
	"peopleapi/internal/model"
	"peopleapi/internal/service"
	serviceMocks "peopleapi/internal/service/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, svc service.PersonService, logs io.Writer) *fiber.App {
	t.Helper()
	return newTestAppWithBase(t, svc, logs, context.Background())
}

func newTestAppWithBase(t *testing.T, svc service.PersonService, logs io.Writer, base context.Context) *fiber.App {
	t.Helper()
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	app, err := New(Deps{
		DB:          db,
		People:      svc,
		Logger:      zerolog.New(logs),
		Registry:    prometheus.NewRegistry(),
		BaseContext: base,
	})
	require.NoError(t, err)
	return app
}

// logEntries decodes every JSON log line written to buf.
func logEntries(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	sc := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
	for sc.Scan() {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestNew_RequiresDeps(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	tests := []struct {
		name string
		deps Deps
	}{
		{name: "missing db", deps: Deps{People: new(serviceMocks.MockPersonService), Registry: prometheus.NewRegistry()}},
		{name: "missing service", deps: Deps{DB: db, Registry: prometheus.NewRegistry()}},
		{name: "missing registry", deps: Deps{DB: db, People: new(serviceMocks.MockPersonService)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, err := New(tt.deps)
			assert.Error(t, err)
			assert.Nil(t, app)
		})
	}
}

func TestServer_People(t *testing.T) {
	mockSvc := new(serviceMocks.MockPersonService)
	var logs bytes.Buffer
	app := newTestApp(t, mockSvc, &logs)

	t.Run("list", func(t *testing.T) {
		mockSvc.On("List", mock.Anything).
			Return(&service.PeopleList{People: []model.Person{{ID: "1", Name: "Ada"}}}, nil).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/people", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))
		body, _ := io.ReadAll(resp.Body)
		assert.JSONEq(t, `{"people":[{"id":"1","name":"Ada"}]}`, string(body))
	})

	t.Run("escaped id is unescaped before lookup", func(t *testing.T) {
		id := "x' OR '1'='1"
		mockSvc.On("Get", mock.Anything, id).Return(nil, service.ErrNotFound).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/people/"+url.PathEscape(id), nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("access log carries request id", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, "X").Return(&model.Person{ID: "X", Name: "N"}, nil).Once()
		logs.Reset()

		req := httptest.NewRequest(http.MethodGet, "/people/X", nil)
		req.Header.Set(middleware.RequestIDHeader, "rid-42")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(bytes.TrimSpace(logs.Bytes()), &entry))
		assert.Equal(t, "rid-42", entry["request_id"])
		assert.Equal(t, "/people/X", entry["path"])
	})

	mockSvc.AssertExpectations(t)
}

func TestServer_Metrics(t *testing.T) {
	mockSvc := new(serviceMocks.MockPersonService)
	app := newTestApp(t, mockSvc, io.Discard)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, middleware.MetricsPath, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.True(t, strings.Contains(string(body), `http_requests_total{method="GET",path="/healthz",status="200"} 1`), string(body))
}

func TestServer_Swagger(t *testing.T) {
	app := newTestApp(t, new(serviceMocks.MockPersonService), io.Discard)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var doc map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	paths, ok := doc["paths"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, paths, "/people")
	assert.Contains(t, paths, "/people/{id}")
	assert.Contains(t, paths, "/healthz")

	info, ok := doc["info"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Read-only access to the people table.", info["description"])
}

func TestServer_RecoversPanics(t *testing.T) {
	mockSvc := new(serviceMocks.MockPersonService)
	mockSvc.On("List", mock.Anything).Run(func(mock.Arguments) { panic("boom") })
	var logs bytes.Buffer
	app := newTestApp(t, mockSvc, &logs)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/people", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var access map[string]any
	for _, entry := range logEntries(t, &logs) {
		if entry["message"] == "request" {
			access = entry
		}
	}
	require.NotNil(t, access, logs.String())
	assert.Equal(t, float64(http.StatusInternalServerError), access["status"])
	assert.Equal(t, "error", access["level"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, middleware.MetricsPath, nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `http_requests_total{method="GET",path="/people",status="500"} 1`)
}

func TestServer_ShutdownCancelsInFlightQueries(t *testing.T) {
	base, cancel := context.WithCancel(context.Background())
	defer cancel()

	entered := make(chan struct{})
	mockSvc := new(serviceMocks.MockPersonService)
	mockSvc.On("Get", mock.Anything, "slow").
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			close(entered)
			select {
			case <-ctx.Done():
			case <-time.After(5 * time.Second):
			}
		}).
		Return(nil, context.Canceled).Once()

	app := newTestAppWithBase(t, mockSvc, io.Discard, base)

	go func() {
		<-entered
		cancel()
	}()

	start := time.Now()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/people/slow", nil), -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Less(t, time.Since(start), 2*time.Second)
	mockSvc.AssertExpectations(t)
}
