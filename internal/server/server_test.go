package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/connmat/pkg/archive"
	"github.com/matzehuels/connmat/pkg/cache"
	"github.com/matzehuels/connmat/pkg/observability"
	"github.com/matzehuels/connmat/pkg/pipeline"
)

const scenarioBody = "1 2\n2 1\n3 3\nabc 5\n1 2\n"

func newTestServer(t *testing.T, opts ...Option) *httptest.Server {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	logger := log.NewWithOptions(io.Discard, log.Options{})
	srv := httptest.NewServer(New(pipeline.NewRunner(fc, nil, logger), logger, opts...).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, query, body string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/v1/matrix"+query, "text/plain", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(data)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_, err = uuid.Parse(resp.Header.Get(HeaderRequestID))
	assert.NoError(t, err, "request ID should be a UUID")

	var body struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
}

func TestMatrixCSV(t *testing.T) {
	srv := newTestServer(t)

	resp, body := post(t, srv, "", scenarioBody)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "0,2,0\n1,0,0\n0,0,0\n", body)
	assert.Equal(t, "3", resp.Header.Get(HeaderSize))
	assert.Equal(t, "miss", resp.Header.Get(HeaderCache))
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")

	resp, body = post(t, srv, "", scenarioBody)
	assert.Equal(t, "hit", resp.Header.Get(HeaderCache))
	assert.Equal(t, "0,2,0\n1,0,0\n0,0,0\n", body)
}

func TestMatrixOptions(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name  string
		query string
		body  string
		want  string
	}{
		{"keep diagonal", "?zero_diagonal=false", scenarioBody, "0,2,0\n1,0,0\n0,0,1\n"},
		{"explicit csv", "?format=csv&zero_diagonal=1", scenarioBody, "0,2,0\n1,0,0\n0,0,0\n"},
		{"empty body", "", "", ""},
		{"only garbage", "", "a b\n-1 2\n1.5 2\n1 2 3\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := post(t, srv, tt.query, tt.body)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.want, body)
		})
	}
}

func TestMatrixJSON(t *testing.T) {
	srv := newTestServer(t)

	resp, body := post(t, srv, "?format=json", scenarioBody)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"labels":[1,2,3],"matrix":[[0,2,0],[1,0,0],[0,0,0]]}`, body)
}

func TestMatrixBadRequests(t *testing.T) {
	srv := newTestServer(t, WithMaxBodyBytes(16))

	tests := []struct {
		name   string
		query  string
		body   string
		status int
		code   string
	}{
		{"bad zero_diagonal", "?zero_diagonal=maybe", "1 2\n", http.StatusBadRequest, "INVALID_INPUT"},
		{"bad format", "?format=svg", "1 2\n", http.StatusBadRequest, "INVALID_FORMAT"},
		{"body too large", "", strings.Repeat("1 2\n", 10), http.StatusRequestEntityTooLarge, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := post(t, srv, tt.query, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)

			var eb errorBody
			require.NoError(t, json.Unmarshal([]byte(body), &eb))
			assert.Equal(t, tt.code, string(eb.Code))
			assert.NotEmpty(t, eb.Error)
		})
	}
}

func TestMatrixMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/v1/matrix")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestRequestIDPropagation(t *testing.T) {
	srv := newTestServer(t)
	id := uuid.NewString()

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set(HeaderRequestID, id)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, id, resp.Header.Get(HeaderRequestID))

	req.Header.Set(HeaderRequestID, "not-a-uuid")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.NotEqual(t, "not-a-uuid", resp.Header.Get(HeaderRequestID))
}

func TestMatrixArchive(t *testing.T) {
	store := &memStore{}
	srv := newTestServer(t, WithArchive(store))

	resp, _ := post(t, srv, "", scenarioBody)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.Len(t, store.records, 1)
	rec := store.records[0]
	assert.Equal(t, rec.ID, resp.Header.Get(HeaderArchiveID))
	assert.Equal(t, "http", rec.Source)
	assert.Equal(t, []uint64{1, 2, 3}, rec.Labels)
	assert.Equal(t, [][]int{{0, 2, 0}, {1, 0, 0}, {0, 0, 0}}, rec.Rows)
	assert.Equal(t, cache.Hash([]byte(scenarioBody)), rec.InputHash)
}

func TestMatrixArchiveFailureIsNotFatal(t *testing.T) {
	srv := newTestServer(t, WithArchive(&memStore{err: errors.New("mongo down")}))

	resp, body := post(t, srv, "", scenarioBody)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "0,2,0\n1,0,0\n0,0,0\n", body)
	assert.Empty(t, resp.Header.Get(HeaderArchiveID))
}

func TestHTTPHooks(t *testing.T) {
	observability.Reset()
	defer observability.Reset()
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)

	srv := newTestServer(t)
	post(t, srv, "?format=nope", "1 2\n")

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	assert.Equal(t, 1, hooks.requests)
	assert.Equal(t, []int{http.StatusBadRequest}, hooks.statuses)
}

func TestRecoverer(t *testing.T) {
	s := New(pipeline.NewRunner(nil, nil, nil), log.NewWithOptions(io.Discard, log.Options{}))
	h := s.recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
}

type memStore struct {
	mu      sync.Mutex
	records []archive.Record
	err     error
}

func (s *memStore) Save(_ context.Context, rec archive.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, rec)
	return nil
}

func (s *memStore) Close(context.Context) error { return nil }

type recordingHTTPHooks struct {
	mu       sync.Mutex
	requests int
	statuses []int
}

func (h *recordingHTTPHooks) OnRequest(context.Context, string, string, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests++
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}
