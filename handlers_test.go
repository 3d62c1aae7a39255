package imagearchiver

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(":0", newStubArchiver(t, stubTool, stubCompressor), nil)
}

func TestArchiveHandlerRejectsInvalidImage(t *testing.T) {
	s := newTestServer(t)

	rr := httptest.NewRecorder()
	s.ArchiveHandler(rr, httptest.NewRequest("GET", "/archive?image="+url.QueryEscape("../../etc/passwd"), nil))

	var response ArchiveResponse
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&response))
	assert.Equal(t, string(StatusError), response.Status)
	assert.NotEmpty(t, response.Error)
	assert.Nil(t, s.states.Get("../../etc/passwd"))
}

func TestArchiveHandlerRunsJob(t *testing.T) {
	s := newTestServer(t)

	rr := httptest.NewRecorder()
	s.ArchiveHandler(rr, httptest.NewRequest("GET", "/archive?image=alpine:3.14", nil))

	var response ArchiveResponse
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&response))
	assert.Equal(t, string(StatusPulling), response.Status)

	assert.Eventually(t, func() bool {
		state := s.states.Get("alpine:3.14")
		return state != nil && state.Status == StatusReady
	}, 5*time.Second, 50*time.Millisecond)

	state := s.states.Get("alpine:3.14")
	assert.Equal(t, "download/alpine_3.14.tar.xz", state.URL)
	assert.FileExists(t, filepath.Join(s.archiver.OutputDir, "alpine_3.14.tar.xz"))
}

func TestArchiveHandlerReportsJobFailure(t *testing.T) {
	a := newStubArchiver(t, `case "$1" in
pull) echo "manifest unknown" >&2; exit 1 ;;
esac`, stubCompressor)
	s := NewServer(":0", a, nil)

	rr := httptest.NewRecorder()
	s.ArchiveHandler(rr, httptest.NewRequest("GET", "/archive?image=ghost:latest", nil))

	assert.Eventually(t, func() bool {
		state := s.states.Get("ghost:latest")
		return state != nil && state.Status == StatusError
	}, 5*time.Second, 50*time.Millisecond)
	assert.Contains(t, s.states.Get("ghost:latest").Error, "manifest unknown")
}

func TestArchiveHandlerReturnsExistingState(t *testing.T) {
	s := newTestServer(t)
	s.states.SetReady("alpine:3.14", "download/alpine_3.14.tar.xz", 42)

	rr := httptest.NewRecorder()
	s.ArchiveHandler(rr, httptest.NewRequest("GET", "/archive?image=alpine:3.14", nil))

	var response ArchiveResponse
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&response))
	assert.Equal(t, string(StatusReady), response.Status)
	assert.Equal(t, "download/alpine_3.14.tar.xz", response.URL)
	assert.EqualValues(t, 42, response.Size)
}

func TestStatusHandlerUnknownImage(t *testing.T) {
	s := newTestServer(t)

	rr := httptest.NewRecorder()
	s.StatusHandler(rr, httptest.NewRequest("GET", "/status?image=alpine:3.14", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestStatusHandlerDoesNotStartJob(t *testing.T) {
	s := newTestServer(t)

	rr := httptest.NewRecorder()
	s.StatusHandler(rr, httptest.NewRequest("GET", "/status?image=alpine:3.14", nil))

	assert.Nil(t, s.states.Get("alpine:3.14"))
	assert.NoFileExists(t, filepath.Join(s.archiver.OutputDir, "alpine_3.14.tar.xz"))
}

func TestHealthHandler(t *testing.T) {
	s := newTestServer(t)

	rr := httptest.NewRecorder()
	s.HealthHandler(rr, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var response HealthCheckResponse
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&response))
}

func TestRouterServesDownloads(t *testing.T) {
	s := newTestServer(t)
	archivePath := filepath.Join(s.archiver.OutputDir, "alpine_3.14.tar.xz")
	assert.NoError(t, os.WriteFile(archivePath, []byte("archive-bytes"), 0644))

	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/download/alpine_3.14.tar.xz")
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	assert.Equal(t, "archive-bytes", string(body))
}

func TestRouterProtectsArchiveEndpoint(t *testing.T) {
	a := newStubArchiver(t, stubTool, stubCompressor)
	s := NewServer(":0", a, &AuthConfig{Enabled: true, APIKeys: []string{"secret-key"}})

	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/archive?image=alpine:3.14")
	assert.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/archive?image=alpine:3.14&api_key=secret-key")
	assert.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
