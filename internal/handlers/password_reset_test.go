package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/POS-Ninjas/backend/internal/models"
	"github.com/POS-Ninjas/backend/internal/ratelimiter"
	"github.com/POS-Ninjas/backend/internal/repository"
	"github.com/POS-Ninjas/backend/internal/services"
	helpers "github.com/POS-Ninjas/backend/internal/utils/helpers"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Заглушка хранилища заявок: поведение как у условного UPDATE в Postgres.
type stubResetRepo struct {
	mu     sync.Mutex
	users  map[string]*models.User
	resets map[string]*models.PasswordReset
}

func newStubResetRepo() *stubResetRepo {
	return &stubResetRepo{
		users:  make(map[string]*models.User),
		resets: make(map[string]*models.PasswordReset),
	}
}

func (s *stubResetRepo) Create(_ context.Context, r *models.PasswordReset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = int64(len(s.resets) + 1)
	r.CreatedAt = time.Now()
	cp := *r
	s.resets[r.Token] = &cp
	return nil
}

func (s *stubResetRepo) GetByToken(_ context.Context, token string) (*models.PasswordReset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.resets[token]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *r
	return &cp, nil
}

func (s *stubResetRepo) ConsumeAndSetPassword(_ context.Context, token, _ string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.resets[token]
	if !ok || r.UsedAt != nil {
		return 0, repository.ErrResetConsumed
	}
	ts := time.Now()
	r.UsedAt = &ts
	return r.UserID, nil
}

func (s *stubResetRepo) InvalidateOutstanding(_ context.Context, _ int64) (int64, error) {
	return 0, nil
}

func (s *stubResetRepo) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return u, nil
}

type stubNotifier struct{}

func (stubNotifier) SendPasswordReset(context.Context, string, string, string) error { return nil }

// Лимитер, который всегда отказывает (для теста лимита)
type denyAll struct{}

func (denyAll) Allow(context.Context, string, ratelimiter.Limit) bool { return false }

func newResetTestRouter(repo *stubResetRepo, limiter ratelimiter.RateLimiter) *mux.Router {
	svc := services.NewPasswordResetService(repo, stubNotifier{}, nil, "http://localhost:5000", 3*time.Minute, false)
	h := NewPasswordResetHandler(svc, limiter, 3)

	router := mux.NewRouter()
	router.HandleFunc("/reset-password", h.RequestReset).Methods(http.MethodPost)
	router.HandleFunc("/reset-password/{token}", h.RedeemReset).Methods(http.MethodPost)
	return router
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) helpers.Response {
	t.Helper()
	var resp helpers.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Timestamp, "в конверте должен быть timestamp")
	return resp
}

func failReason(t *testing.T, resp helpers.Response) string {
	t.Helper()
	require.False(t, resp.Success)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok, "data должен быть объектом с reason")
	reason, _ := data["reason"].(string)
	return reason
}

func TestRequestResetHandler(t *testing.T) {
	repo := newStubResetRepo()
	repo.users["dina@pos.local"] = &models.User{ID: 7, FirstName: "Dina", Email: "dina@pos.local"}
	router := newResetTestRouter(repo, ratelimiter.AllowAll{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/reset-password", strings.NewReader(`{"email":"dina@pos.local"}`))
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.True(t, resp.Success)
	// Токен и ссылка наружу не отдаются
	assert.NotContains(t, rec.Body.String(), "reset-password/")
	for token := range repo.resets {
		assert.NotContains(t, rec.Body.String(), token)
	}
}

func TestRequestResetHandlerUnknownEmail(t *testing.T) {
	router := newResetTestRouter(newStubResetRepo(), ratelimiter.AllowAll{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/reset-password", strings.NewReader(`{"email":"ghost@pos.local"}`))
	router.ServeHTTP(rec, req)

	// Доменный отказ — всё равно HTTP 200
	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.Equal(t, "user with ghost@pos.local not found", failReason(t, resp))
}

func TestRequestResetHandlerEmptyEmail(t *testing.T) {
	router := newResetTestRouter(newStubResetRepo(), ratelimiter.AllowAll{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/reset-password", strings.NewReader(`{}`))
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.Equal(t, "please provide an email", failReason(t, resp))
}

func TestRequestResetHandlerRateLimited(t *testing.T) {
	repo := newStubResetRepo()
	repo.users["dina@pos.local"] = &models.User{ID: 7, Email: "dina@pos.local"}
	router := newResetTestRouter(repo, denyAll{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/reset-password", strings.NewReader(`{"email":"dina@pos.local"}`))
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.Equal(t, "too many reset requests, please try again later", failReason(t, resp))
	assert.Empty(t, repo.resets, "при срабатывании лимита заявка не создаётся")
}

func TestRedeemResetHandler(t *testing.T) {
	repo := newStubResetRepo()
	repo.users["dina@pos.local"] = &models.User{ID: 7, FirstName: "Dina", Email: "dina@pos.local"}
	repo.resets["tok-1"] = &models.PasswordReset{
		ID: 1, UserID: 7, Email: "dina@pos.local", Token: "tok-1",
		ExpiresAt: time.Now().Add(3 * time.Minute),
	}
	router := newResetTestRouter(repo, ratelimiter.AllowAll{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/reset-password/tok-1", strings.NewReader(`{"password":"newpass1"}`))
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "user password updated successfully", resp.Data)
	require.NotNil(t, repo.resets["tok-1"].UsedAt, "токен должен быть погашен")
}

func TestRedeemResetHandlerReasons(t *testing.T) {
	used := time.Now().Add(-time.Minute)

	cases := []struct {
		name   string
		seed   *models.PasswordReset
		url    string
		body   string
		reason string
	}{
		{
			name:   "короткий пароль",
			url:    "/reset-password/any",
			body:   `{"password":"123"}`,
			reason: "password must be at least 6 characters",
		},
		{
			name:   "битый payload",
			url:    "/reset-password/any",
			body:   `not-json`,
			reason: "password must be at least 6 characters",
		},
		{
			name:   "неизвестный токен",
			url:    "/reset-password/missing",
			body:   `{"password":"newpass1"}`,
			reason: "token doesn't exist in DB",
		},
		{
			name: "просроченный токен",
			seed: &models.PasswordReset{
				ID: 1, UserID: 7, Token: "tok-exp",
				ExpiresAt: time.Now().Add(-time.Second),
			},
			url:    "/reset-password/tok-exp",
			body:   `{"password":"newpass1"}`,
			reason: "token has expired",
		},
		{
			name: "использованный токен",
			seed: &models.PasswordReset{
				ID: 1, UserID: 7, Token: "tok-used",
				ExpiresAt: time.Now().Add(3 * time.Minute),
				UsedAt:    &used,
			},
			url:    "/reset-password/tok-used",
			body:   `{"password":"newpass1"}`,
			reason: "token has been used",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newStubResetRepo()
			if tc.seed != nil {
				repo.resets[tc.seed.Token] = tc.seed
			}
			router := newResetTestRouter(repo, ratelimiter.AllowAll{})

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, tc.url, strings.NewReader(tc.body))
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			resp := decodeEnvelope(t, rec)
			assert.Equal(t, tc.reason, failReason(t, resp))
		})
	}
}

func TestRedeemResetHandlerDouble(t *testing.T) {
	repo := newStubResetRepo()
	repo.resets["tok-1"] = &models.PasswordReset{
		ID: 1, UserID: 7, Token: "tok-1",
		ExpiresAt: time.Now().Add(3 * time.Minute),
	}
	router := newResetTestRouter(repo, ratelimiter.AllowAll{})

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/reset-password/tok-1", strings.NewReader(`{"password":"newpass1"}`)))
	require.True(t, decodeEnvelope(t, first).Success)

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/reset-password/tok-1", strings.NewReader(`{"password":"newpass2"}`)))
	resp := decodeEnvelope(t, second)
	assert.Equal(t, "token has been used", failReason(t, resp))
}
