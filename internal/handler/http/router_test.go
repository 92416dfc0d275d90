package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/config"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/auth"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/leave"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/user"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/handler/http/response"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/jwt"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/pagination"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const handlerTestSecret = "test-secret-key-for-jwt"

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Signup(ctx context.Context, req auth.SignupRequest) (auth.TokenResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(auth.TokenResponse), args.Error(1)
}

func (m *mockAuthService) Signin(ctx context.Context, req auth.SigninRequest) (auth.TokenResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(auth.TokenResponse), args.Error(1)
}

func (m *mockAuthService) Me(ctx context.Context, principal user.Principal) (user.UserResponse, error) {
	args := m.Called(ctx, principal)
	return args.Get(0).(user.UserResponse), args.Error(1)
}

func (m *mockAuthService) Logout(ctx context.Context, req auth.LogoutRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockAuthService) ChangeRole(ctx context.Context, principal user.Principal, req user.UpdateUserRoleRequest) (user.UserResponse, error) {
	args := m.Called(ctx, principal, req)
	return args.Get(0).(user.UserResponse), args.Error(1)
}

type mockLeaveService struct{ mock.Mock }

func (m *mockLeaveService) CreateLeaveRequest(ctx context.Context, principal user.Principal, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	args := m.Called(ctx, principal, req)
	return args.Get(0).(leave.LeaveRequestResponse), args.Error(1)
}

func (m *mockLeaveService) ListMyLeaveRequests(ctx context.Context, principal user.Principal, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	args := m.Called(ctx, principal, filter)
	return args.Get(0).(leave.ListLeaveRequestResponse), args.Error(1)
}

func (m *mockLeaveService) ListLeaveRequests(ctx context.Context, principal user.Principal, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	args := m.Called(ctx, principal, filter)
	return args.Get(0).(leave.ListLeaveRequestResponse), args.Error(1)
}

func (m *mockLeaveService) GetLeaveRequest(ctx context.Context, principal user.Principal, id string) (leave.LeaveRequestResponse, error) {
	args := m.Called(ctx, principal, id)
	return args.Get(0).(leave.LeaveRequestResponse), args.Error(1)
}

func (m *mockLeaveService) ApproveLeaveRequest(ctx context.Context, principal user.Principal, req leave.DecisionRequest) (leave.LeaveRequestResponse, error) {
	args := m.Called(ctx, principal, req)
	return args.Get(0).(leave.LeaveRequestResponse), args.Error(1)
}

func (m *mockLeaveService) RejectLeaveRequest(ctx context.Context, principal user.Principal, req leave.DecisionRequest) (leave.LeaveRequestResponse, error) {
	args := m.Called(ctx, principal, req)
	return args.Get(0).(leave.LeaveRequestResponse), args.Error(1)
}

func (m *mockLeaveService) CancelLeaveRequest(ctx context.Context, principal user.Principal, id string) error {
	return m.Called(ctx, principal, id).Error(0)
}

func (m *mockLeaveService) GetBalance(ctx context.Context, principal user.Principal) (leave.BalanceResponse, error) {
	args := m.Called(ctx, principal)
	return args.Get(0).(leave.BalanceResponse), args.Error(1)
}

func (m *mockLeaveService) RetryCascade(ctx context.Context, principal user.Principal, id string) (leave.LeaveRequestResponse, error) {
	args := m.Called(ctx, principal, id)
	return args.Get(0).(leave.LeaveRequestResponse), args.Error(1)
}

func (m *mockLeaveService) RetryFailedCascades(ctx context.Context, limit int) (int, error) {
	args := m.Called(ctx, limit)
	return args.Int(0), args.Error(1)
}

type testServer struct {
	router http.Handler
	jwt    jwt.Service
	auth   *mockAuthService
	leave  *mockLeaveService
}

func newTestServer(t *testing.T, rl config.RateLimitConfig) *testServer {
	t.Helper()
	cfg := &config.Config{
		App:       config.AppConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		RateLimit: rl,
	}
	ts := &testServer{
		jwt:   jwt.NewJWTService(handlerTestSecret, time.Hour, nil),
		auth:  &mockAuthService{},
		leave: &mockLeaveService{},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ts.router = NewRouter(cfg, logger, ts.jwt, Handlers{
		Auth:         NewAuthHandler(ts.auth),
		User:         NewUserHandler(ts.auth),
		Leave:        NewLeaveHandler(ts.leave),
		Attendance:   NewAttendanceHandler(nil),
		Payroll:      NewPayrollHandler(nil),
		Notification: NewNotificationHandler(nil),
	})
	return ts
}

func (ts *testServer) token(t *testing.T, userID string, role user.Role) string {
	t.Helper()
	token, _, err := ts.jwt.GenerateAccessToken(userID, userID+"@example.com", role)
	require.NoError(t, err)
	return token
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	var resp response.Response
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

var defaultRateLimit = config.RateLimitConfig{RequestsPerSecond: 100, Burst: 100}

func TestRouter_Heartbeat(t *testing.T) {
	ts := newTestServer(t, defaultRateLimit)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_RequiresToken(t *testing.T) {
	ts := newTestServer(t, defaultRateLimit)

	rec, resp := ts.do(t, http.MethodGet, "/api/v1/leaves/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)

	rec, _ = ts.do(t, http.MethodGet, "/api/v1/leaves/me", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_RevokedTokenIsRejected(t *testing.T) {
	ts := newTestServer(t, defaultRateLimit)
	token := ts.token(t, "emp-1", user.RoleEmployee)

	ts.auth.On("Logout", mock.Anything, mock.MatchedBy(func(req auth.LogoutRequest) bool {
		return req.TokenID != "" && req.ExpiresAt.After(time.Now())
	})).Return(nil).Run(func(args mock.Arguments) {
		req := args.Get(1).(auth.LogoutRequest)
		require.NoError(t, ts.jwt.RevokeToken(context.Background(), req.TokenID, req.ExpiresAt))
	})

	rec, _ := ts.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, resp := ts.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, auth.ErrTokenRevoked.Error(), resp.Error.Message)
	ts.auth.AssertExpectations(t)
}

func TestRouter_Signup(t *testing.T) {
	ts := newTestServer(t, defaultRateLimit)
	req := auth.SignupRequest{EmployeeID: "EMP001", Email: "jane@example.com", Password: "SecurePass123!"}
	ts.auth.On("Signup", mock.Anything, req).
		Return(auth.TokenResponse{AccessToken: "token", User: user.UserResponse{ID: "u1"}}, nil)

	rec, resp := ts.do(t, http.MethodPost, "/api/v1/auth/signup", "", req)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]any)
	assert.Equal(t, "token", data["token"])
}

func TestRouter_SignupDuplicateAndValidation(t *testing.T) {
	ts := newTestServer(t, defaultRateLimit)
	dup := auth.SignupRequest{EmployeeID: "EMP001", Email: "dup@example.com", Password: "SecurePass123!"}
	weak := auth.SignupRequest{EmployeeID: "EMP002", Email: "weak@example.com", Password: "weak"}
	ts.auth.On("Signup", mock.Anything, dup).Return(auth.TokenResponse{}, user.ErrUserEmailExists)
	ts.auth.On("Signup", mock.Anything, weak).
		Return(auth.TokenResponse{}, validator.ValidationErrors{{Field: "password", Message: "must be at least 8 characters long"}})

	rec, resp := ts.do(t, http.MethodPost, "/api/v1/auth/signup", "", dup)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFLICT", resp.Error.Code)

	rec, resp = ts.do(t, http.MethodPost, "/api/v1/auth/signup", "", weak)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Equal(t, "must be at least 8 characters long", resp.Error.Details["password"])

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signin", bytes.NewBufferString("{"))
	raw := httptest.NewRecorder()
	ts.router.ServeHTTP(raw, req)
	assert.Equal(t, http.StatusBadRequest, raw.Code)
}

func TestRouter_AuthRateLimit(t *testing.T) {
	ts := newTestServer(t, config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1})
	req := auth.SigninRequest{Email: "jane@example.com", Password: "SecurePass123!"}
	ts.auth.On("Signin", mock.Anything, req).Return(auth.TokenResponse{}, auth.ErrInvalidCredentials)

	rec, _ := ts.do(t, http.MethodPost, "/api/v1/auth/signin", "", req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, resp := ts.do(t, http.MethodPost, "/api/v1/auth/signin", "", req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "TOO_MANY_REQUESTS", resp.Error.Code)
	ts.auth.AssertNumberOfCalls(t, "Signin", 1)
}

func TestRouter_ApproveRequiresPermission(t *testing.T) {
	ts := newTestServer(t, defaultRateLimit)
	token := ts.token(t, "emp-1", user.RoleEmployee)

	rec, resp := ts.do(t, http.MethodPut, "/api/v1/leaves/lr-1/approve", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", resp.Error.Code)
	ts.leave.AssertNotCalled(t, "ApproveLeaveRequest", mock.Anything, mock.Anything, mock.Anything)
}

func TestRouter_ApproveLeave(t *testing.T) {
	ts := newTestServer(t, defaultRateLimit)
	token := ts.token(t, "hr-1", user.RoleHR)
	comments := "ok"

	ts.leave.On("ApproveLeaveRequest", mock.Anything,
		mock.MatchedBy(func(p user.Principal) bool { return p.UserID == "hr-1" && p.Role == user.RoleHR }),
		leave.DecisionRequest{ID: "lr-1", Comments: &comments},
	).Return(leave.LeaveRequestResponse{ID: "lr-1", Status: "APPROVED", CascadeStatus: "completed"}, nil)
	ts.leave.On("ApproveLeaveRequest", mock.Anything, mock.Anything, leave.DecisionRequest{ID: "lr-2"}).
		Return(leave.LeaveRequestResponse{}, leave.ErrLeaveRequestAlreadyProcessed)

	rec, resp := ts.do(t, http.MethodPut, "/api/v1/leaves/lr-1/approve", token, map[string]string{"comments": comments})
	require.Equal(t, http.StatusOK, rec.Code)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "APPROVED", data["status"])
	assert.Equal(t, "completed", data["cascade_status"])

	rec, resp = ts.do(t, http.MethodPut, "/api/v1/leaves/lr-2/approve", token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "leave request has already been processed", resp.Error.Message)
}

func TestRouter_CancelErrors(t *testing.T) {
	ts := newTestServer(t, defaultRateLimit)
	token := ts.token(t, "emp-1", user.RoleEmployee)

	ts.leave.On("CancelLeaveRequest", mock.Anything, mock.Anything, "theirs").Return(leave.ErrNotRequestOwner)
	ts.leave.On("CancelLeaveRequest", mock.Anything, mock.Anything, "decided").Return(leave.ErrOnlyPendingCancellable)
	ts.leave.On("CancelLeaveRequest", mock.Anything, mock.Anything, "missing").Return(leave.ErrLeaveRequestNotFound)

	rec, _ := ts.do(t, http.MethodDelete, "/api/v1/leaves/theirs", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, resp := ts.do(t, http.MethodDelete, "/api/v1/leaves/decided", token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "can only cancel pending leave requests", resp.Error.Message)

	rec, _ = ts.do(t, http.MethodDelete, "/api/v1/leaves/missing", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_ListMyLeavesPagination(t *testing.T) {
	ts := newTestServer(t, defaultRateLimit)
	token := ts.token(t, "emp-1", user.RoleEmployee)

	status := "PENDING"
	want := leave.LeaveRequestFilter{Status: &status, Params: pagination.Params{Page: 2, Limit: 5}}
	ts.leave.On("ListMyLeaveRequests", mock.Anything, mock.Anything, want).Return(leave.ListLeaveRequestResponse{
		LeaveRequests: []leave.LeaveRequestResponse{{ID: "lr-1"}},
		Pagination:    pagination.Meta{Page: 2, Limit: 5, Total: 6, TotalPages: 2},
	}, nil)

	rec, resp := ts.do(t, http.MethodGet, "/api/v1/leaves/me?status=PENDING&page=2&limit=5", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, resp.Pagination)
	assert.Equal(t, int64(6), resp.Pagination.Total)
	assert.Equal(t, 2, resp.Pagination.TotalPages)
	assert.Len(t, resp.Data.([]any), 1)
}

func TestRouter_UnexpectedErrorIsHidden(t *testing.T) {
	ts := newTestServer(t, defaultRateLimit)
	token := ts.token(t, "emp-1", user.RoleEmployee)
	ts.leave.On("GetBalance", mock.Anything, mock.Anything).Return(leave.BalanceResponse{}, io.ErrUnexpectedEOF)

	rec, resp := ts.do(t, http.MethodGet, "/api/v1/leaves/balance", token, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "An unexpected error occurred", resp.Error.Message)
}
