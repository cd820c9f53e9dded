package service

import (
	"PropTour/internal/api/config"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newAccountTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestGetUserInfo(t *testing.T) {
	srv := newAccountTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "sess-1", r.URL.Query().Get("session_id"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user":{"uid":"42","name":"Agent Lee"}}`))
	})

	svc := NewAccountService(config.EdgePropConfig{BaseURL: srv.URL, PointURL: srv.URL})

	user, err := svc.GetUserInfo(context.Background(), "sess-1")
	require.NoError(t, err)
	require.Equal(t, "42", user.User.UID)
	require.Equal(t, "Agent Lee", user.User.Name)
}

func TestGetUserInfoInvalidSession(t *testing.T) {
	srv := newAccountTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user":{}}`))
	})

	svc := NewAccountService(config.EdgePropConfig{BaseURL: srv.URL, PointURL: srv.URL})

	_, err := svc.GetUserInfo(context.Background(), "bad-session")
	require.ErrorIs(t, err, UnauthorizedError)
}

func TestGetUserInfoUpstreamError(t *testing.T) {
	srv := newAccountTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	svc := NewAccountService(config.EdgePropConfig{BaseURL: srv.URL, PointURL: srv.URL})

	_, err := svc.GetUserInfo(context.Background(), "sess-1")
	require.ErrorIs(t, err, UnauthorizedError)
}

func TestGetPoints(t *testing.T) {
	srv := newAccountTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "key-1", r.URL.Query().Get("apiKey"))
		require.Equal(t, "42", r.URL.Query().Get("agentId"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":{"status":true,"total_amount":120}}`))
	})

	svc := NewAccountService(config.EdgePropConfig{BaseURL: srv.URL, PointURL: srv.URL, ApiKey: "key-1"})

	points, err := svc.GetPoints(context.Background(), "42")
	require.NoError(t, err)
	require.EqualValues(t, 120, points)
}

func TestGetPointsStatusFalse(t *testing.T) {
	srv := newAccountTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":{"status":false,"total_amount":0}}`))
	})

	svc := NewAccountService(config.EdgePropConfig{BaseURL: srv.URL, PointURL: srv.URL})

	_, err := svc.GetPoints(context.Background(), "42")
	require.ErrorIs(t, err, UnauthorizedError)
}
