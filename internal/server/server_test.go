package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/onelance/project-tracker/internal/auth"
	"github.com/onelance/project-tracker/internal/domain/models"
	"github.com/onelance/project-tracker/internal/i18n"
)

func newTestServer(t *testing.T, dashboard *MockDashboardService, sender *MockMagicLinkSender) (*Server, *auth.Service) {
	t.Helper()
	trans, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)
	authService := auth.NewService("test-secret", []string{"alice@example.com"})
	return New(dashboard, authService, sender, trans, false), authService
}

func authenticatedRequest(t *testing.T, authService *auth.Service, method, target string) *http.Request {
	t.Helper()
	token, err := authService.GenerateAuthToken("alice@example.com")
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, nil)
	req.AddCookie(&http.Cookie{Name: authCookieName, Value: token})
	return req
}

func TestServer_RequireAuth(t *testing.T) {
	t.Run("should reject requests without a cookie", func(t *testing.T) {
		srv, _ := newTestServer(t, &MockDashboardService{}, &MockMagicLinkSender{})

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/github/data", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Not authenticated")
	})

	t.Run("should reject an invalid session token", func(t *testing.T) {
		srv, _ := newTestServer(t, &MockDashboardService{}, &MockMagicLinkSender{})

		req := httptest.NewRequest(http.MethodGet, "/api/github/events", nil)
		req.AddCookie(&http.Cookie{Name: authCookieName, Value: "garbage"})
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("should reject a magic link token used as session cookie", func(t *testing.T) {
		srv, authService := newTestServer(t, &MockDashboardService{}, &MockMagicLinkSender{})

		magicToken, err := authService.GenerateMagicLink("alice@example.com")
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/api/github/data", nil)
		req.AddCookie(&http.Cookie{Name: authCookieName, Value: magicToken})
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestServer_HandleData(t *testing.T) {
	t.Run("should return the aggregated payload", func(t *testing.T) {
		dashboard := &MockDashboardService{}
		srv, authService := newTestServer(t, dashboard, &MockMagicLinkSender{})

		dashboard.On("GetAggregatedData", mock.Anything).Return(&models.AggregatedData{
			Milestones: []models.Milestone{{Number: 1, Title: "v1.0"}},
			Issues:     []models.Issue{{Number: 7, Title: "Login page", State: "open"}},
		}, nil)

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, authenticatedRequest(t, authService, http.MethodGet, "/api/github/data"))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var data models.AggregatedData
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &data))
		require.Len(t, data.Issues, 1)
		assert.Equal(t, 7, data.Issues[0].Number)
		assert.Equal(t, "v1.0", data.Milestones[0].Title)
	})

	t.Run("should surface an aggregation failure as 500", func(t *testing.T) {
		dashboard := &MockDashboardService{}
		srv, authService := newTestServer(t, dashboard, &MockMagicLinkSender{})

		dashboard.On("GetAggregatedData", mock.Anything).Return(nil, assert.AnError)

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, authenticatedRequest(t, authService, http.MethodGet, "/api/github/data"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestServer_HandleEvents(t *testing.T) {
	t.Run("should wrap the events in an envelope", func(t *testing.T) {
		dashboard := &MockDashboardService{}
		srv, authService := newTestServer(t, dashboard, &MockMagicLinkSender{})

		dashboard.On("GetEvents", mock.Anything).Return([]models.Event{
			{ID: "1", Type: "IssuesEvent", Actor: "alice", Description: "Opened issue #7: Login page"},
		}, nil)

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, authenticatedRequest(t, authService, http.MethodGet, "/api/github/events"))

		require.Equal(t, http.StatusOK, rec.Code)

		var payload struct {
			Events []models.Event `json:"events"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		require.Len(t, payload.Events, 1)
		assert.Equal(t, "alice", payload.Events[0].Actor)
	})
}

func TestServer_HandleComments(t *testing.T) {
	t.Run("should return the comments of the issue", func(t *testing.T) {
		dashboard := &MockDashboardService{}
		srv, authService := newTestServer(t, dashboard, &MockMagicLinkSender{})

		dashboard.On("GetComments", mock.Anything, 42).Return([]models.Comment{{ID: 99, Body: "Looks good"}}, nil)

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, authenticatedRequest(t, authService, http.MethodGet, "/api/github/issues/42/comments"))

		require.Equal(t, http.StatusOK, rec.Code)

		var comments []models.Comment
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &comments))
		require.Len(t, comments, 1)
		assert.Equal(t, int64(99), comments[0].ID)
		dashboard.AssertExpectations(t)
	})

	t.Run("should reject a non numeric issue number", func(t *testing.T) {
		dashboard := &MockDashboardService{}
		srv, authService := newTestServer(t, dashboard, &MockMagicLinkSender{})

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, authenticatedRequest(t, authService, http.MethodGet, "/api/github/issues/abc/comments"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		dashboard.AssertNotCalled(t, "GetComments", mock.Anything, mock.Anything)
	})
}

func TestServer_HandleSendMagicLink(t *testing.T) {
	t.Run("should send a magic link to an allowed email", func(t *testing.T) {
		sender := &MockMagicLinkSender{}
		srv, _ := newTestServer(t, &MockDashboardService{}, sender)

		sender.On("SendMagicLink", mock.Anything, "alice@example.com", mock.AnythingOfType("string")).Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/send-magic-link",
			strings.NewReader(`{"email":"alice@example.com"}`))
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true}`, rec.Body.String())
		sender.AssertExpectations(t)
	})

	t.Run("should reject a request without email", func(t *testing.T) {
		sender := &MockMagicLinkSender{}
		srv, _ := newTestServer(t, &MockDashboardService{}, sender)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/send-magic-link", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		sender.AssertNotCalled(t, "SendMagicLink", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should reject an email outside the allow list", func(t *testing.T) {
		sender := &MockMagicLinkSender{}
		srv, _ := newTestServer(t, &MockDashboardService{}, sender)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/send-magic-link",
			strings.NewReader(`{"email":"mallory@example.com"}`))
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		sender.AssertNotCalled(t, "SendMagicLink", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should return 500 when the email cannot be sent", func(t *testing.T) {
		sender := &MockMagicLinkSender{}
		srv, _ := newTestServer(t, &MockDashboardService{}, sender)

		sender.On("SendMagicLink", mock.Anything, "alice@example.com", mock.AnythingOfType("string")).
			Return(assert.AnError)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/send-magic-link",
			strings.NewReader(`{"email":"alice@example.com"}`))
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestServer_HandleVerify(t *testing.T) {
	t.Run("should set the session cookie and redirect home", func(t *testing.T) {
		srv, authService := newTestServer(t, &MockDashboardService{}, &MockMagicLinkSender{})

		magicToken, err := authService.GenerateMagicLink("alice@example.com")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/auth/verify?token="+magicToken, nil)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		require.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, authCookieName, cookies[0].Name)
		assert.True(t, cookies[0].HttpOnly)
		assert.NotNil(t, authService.VerifyAuthToken(cookies[0].Value))
	})

	t.Run("should redirect to login when the token is missing", func(t *testing.T) {
		srv, _ := newTestServer(t, &MockDashboardService{}, &MockMagicLinkSender{})

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/verify", nil))

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/auth/login", rec.Header().Get("Location"))
	})

	t.Run("should redirect to login when the token is invalid", func(t *testing.T) {
		srv, _ := newTestServer(t, &MockDashboardService{}, &MockMagicLinkSender{})

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/verify?token=garbage", nil))

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/auth/login", rec.Header().Get("Location"))
	})

	t.Run("should not accept a session token as magic link", func(t *testing.T) {
		srv, authService := newTestServer(t, &MockDashboardService{}, &MockMagicLinkSender{})

		sessionToken, err := authService.GenerateAuthToken("alice@example.com")
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/verify?token="+sessionToken, nil))

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/auth/login", rec.Header().Get("Location"))
	})
}
