package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDiagnoser struct {
	label string
	err   error
	got   []string
}

func (s *stubDiagnoser) Diagnose(symptoms []string) (string, error) {
	s.got = symptoms
	return s.label, s.err
}

func (s *stubDiagnoser) Symptoms() []string {
	return []string{"fever", "cough", "rash"}
}

func newTestServer(t *testing.T, d Diagnoser) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(NewHandler(d, logger).Router())
	t.Cleanup(srv.Close)
	return srv
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var m map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&m))
	return m
}

func TestListSymptoms(t *testing.T) {
	srv := newTestServer(t, &stubDiagnoser{})

	resp, err := http.Get(srv.URL + "/symptoms")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	m := decode(t, resp)
	assert.Equal(t, true, m["success"])
	assert.Equal(t, []any{"fever", "cough", "rash"}, m["symptoms"])
}

func TestPredictSuccess(t *testing.T) {
	d := &stubDiagnoser{label: "flu"}
	srv := newTestServer(t, d)

	resp, err := http.Post(srv.URL+"/predict", "application/json", strings.NewReader(`{"symptoms":["cough"]}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	m := decode(t, resp)
	assert.Equal(t, true, m["success"])
	assert.Equal(t, "flu", m["prediction"])
	assert.Equal(t, []string{"cough"}, d.got)
}

func TestPredictInvalidInput(t *testing.T) {
	srv := newTestServer(t, &stubDiagnoser{label: "flu"})

	bodies := []string{
		`{}`,
		`{"symptoms":[]}`,
		`{"symptoms":"cough"}`,
		`{"symptoms":[1,2]}`,
		`not-json`,
	}
	for _, body := range bodies {
		resp, err := http.Post(srv.URL+"/predict", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "body %s", body)
		m := decode(t, resp)
		assert.Equal(t, false, m["success"])
		assert.Equal(t, "Input gejala tidak valid", m["error"])
	}
}

func TestPredictFailure(t *testing.T) {
	srv := newTestServer(t, &stubDiagnoser{err: errors.New("class index 9 out of range")})

	resp, err := http.Post(srv.URL+"/predict", "application/json", strings.NewReader(`{"symptoms":["rash"]}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	m := decode(t, resp)
	assert.Equal(t, false, m["success"])
	assert.Equal(t, "Gagal memproses prediksi", m["error"])
	assert.Contains(t, m["details"], "out of range")
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, &stubDiagnoser{})

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/predict", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestPing(t *testing.T) {
	srv := newTestServer(t, &stubDiagnoser{})

	resp, err := http.Get(srv.URL + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "pong", string(body))
}

func TestRunShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, addr, NewHandler(&stubDiagnoser{}, logger).Router(), time.Second, time.Second, logger)
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/ping")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}
