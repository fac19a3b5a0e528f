package middleware_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	appAuth "github.com/skillkhoj/backend/internal/app/auth"
	"github.com/skillkhoj/backend/internal/app/models"
	"github.com/skillkhoj/backend/internal/app/models/dto"
	"github.com/skillkhoj/backend/internal/middleware"
	"github.com/skillkhoj/backend/internal/pkg/apperrors"
	"github.com/skillkhoj/backend/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var issued = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func jwtAt(now time.Time) *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:   "middleware-secret",
		TokenExp:    3 * time.Hour,
		TokenIssuer: "skillkhoj.test",
	}).WithClock(func() time.Time { return now })
}

func token(t *testing.T, userID string, role models.RoleType) string {
	t.Helper()
	tok, err := jwtAt(issued).Issue(userID, string(role))
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	return tok
}

// newRouter mounts a protected route whose handler records that it ran.
func newRouter(verifyAt time.Time, reached *bool) *gin.Engine {
	m := middleware.NewAuthMiddleware(jwtAt(verifyAt), appAuth.DefaultPolicy())
	r := gin.New()
	r.GET("/recruiter/:id/homepage",
		m.Authenticate(),
		m.Allow(appAuth.RouteRecruiterHomepage),
		m.RequireSelfOrAdmin("id"),
		func(c *gin.Context) {
			*reached = true
			id, _ := middleware.CurrentUserID(c)
			c.JSON(http.StatusOK, gin.H{"id": id})
		})
	return r
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	return body
}

func TestAuthenticateAndAuthorize(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		path     string
		verifyAt time.Time
		status   int
		message  string
		code     dto.ErrorCode
	}{
		{"no header", "", "/recruiter/r1/homepage", issued, http.StatusUnauthorized, middleware.MsgNoToken, dto.ErrorCodeUnauthorized},
		{"not bearer", "Basic abc", "/recruiter/r1/homepage", issued, http.StatusUnauthorized, middleware.MsgNoToken, dto.ErrorCodeUnauthorized},
		{"garbage token", "Bearer abc.def.ghi", "/recruiter/r1/homepage", issued, http.StatusUnauthorized, middleware.MsgTokenNotValid, dto.ErrorCodeInvalidToken},
		{"expired token", "recruiter", "/recruiter/r1/homepage", issued.Add(3*time.Hour + time.Minute), http.StatusUnauthorized, middleware.MsgTokenNotValid, dto.ErrorCodeExpiredToken},
		{"wrong role", "student", "/recruiter/s1/homepage", issued, http.StatusForbidden, middleware.MsgPermissionDenied, dto.ErrorCodeForbidden},
		{"other recruiter", "recruiter", "/recruiter/r2/homepage", issued, http.StatusForbidden, middleware.MsgPermissionDenied, dto.ErrorCodeForbidden},
		{"self", "recruiter", "/recruiter/r1/homepage", issued, http.StatusOK, "", ""},
		{"admin on any id", "admin", "/recruiter/r2/homepage", issued, http.StatusOK, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := tt.header
			switch header {
			case "recruiter":
				header = "Bearer " + token(t, "r1", models.RoleRecruiter)
			case "student":
				header = "Bearer " + token(t, "s1", models.RoleStudent)
			case "admin":
				header = "Bearer " + token(t, "a1", models.RoleAdmin)
			}

			reached := false
			r := newRouter(tt.verifyAt, &reached)
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.status, w.Body.String())
			}
			if tt.status == http.StatusOK {
				if !reached {
					t.Error("handler did not run")
				}
				return
			}
			if reached {
				t.Error("handler ran for a rejected request")
			}
			body := decodeError(t, w)
			if body.Message != tt.message || body.Code != tt.code {
				t.Errorf("body = {%q %s}, want {%q %s}", body.Message, body.Code, tt.message, tt.code)
			}
		})
	}
}

func TestRequireRoles_WithoutAuthenticate(t *testing.T) {
	m := middleware.NewAuthMiddleware(jwtAt(issued), appAuth.DefaultPolicy())
	r := gin.New()
	r.GET("/x", m.RequireRoles(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    dto.ErrorCode
		message string
	}{
		{"not found", apperrors.ErrJobNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Job not found"},
		{"wrapped not found", fmt.Errorf("lookup: %w", apperrors.ErrUserNotFound), http.StatusNotFound, dto.ErrorCodeResourceNotFound, "User not found"},
		{"already applied", apperrors.ErrAlreadyApplied, http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists, "You have already applied to this job"},
		{"email in use", apperrors.ErrEmailInUse, http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists, "Email is already in use"},
		{"credentials", apperrors.ErrInvalidCredentials, http.StatusBadRequest, dto.ErrorCodeInvalidCredentials, "Invalid credentials"},
		{"forbidden", apperrors.NewForbiddenError("nope"), http.StatusForbidden, dto.ErrorCodeForbidden, middleware.MsgPermissionDenied},
		{"validation suffix", fmt.Errorf("%w: salary is required", apperrors.ErrValidationFailed), http.StatusBadRequest, dto.ErrorCodeValidationFailed, "salary is required"},
		{"validation custom", apperrors.ErrNotRecruiter, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "User is not a recruiter"},
		{"weak password", fmt.Errorf("%w: password must contain at least one digit", apperrors.ErrInvalidPassword), http.StatusBadRequest, dto.ErrorCodeValidationFailed, "password must contain at least one digit"},
		{"unexpected", errors.New("pq: connection refused"), http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/x", func(c *gin.Context) { middleware.HandleAPIError(c, tt.err) })
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			body := decodeError(t, w)
			if body.Success || body.Code != tt.code || body.Message != tt.message {
				t.Errorf("body = %+v, want code %s message %q", body, tt.code, tt.message)
			}
		})
	}
}

func TestBindJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		ok      bool
		message string
	}{
		{"valid", `{"email":"a@b.io","password":"x"}`, true, ""},
		{"missing password", `{"email":"a@b.io"}`, false, "password is required"},
		{"bad email", `{"email":"nope","password":"x"}`, false, "email must be a valid email address"},
		{"malformed", `{"email":`, false, "Invalid request format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ok bool
			r := gin.New()
			r.POST("/login", func(c *gin.Context) {
				var req dto.LoginRequest
				if ok = middleware.BindJSON(c, &req); ok {
					c.Status(http.StatusNoContent)
				}
			})
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			if ok != tt.ok {
				t.Fatalf("BindJSON = %v, want %v", ok, tt.ok)
			}
			if tt.ok {
				return
			}
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			if body := decodeError(t, w); body.Message != tt.message {
				t.Errorf("message = %q, want %q", body.Message, tt.message)
			}
		})
	}
}

func TestNotFound(t *testing.T) {
	r := gin.New()
	r.NoRoute(middleware.NotFound())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if body := decodeError(t, w); body.Code != dto.ErrorCodeRouteNotFound {
		t.Errorf("code = %s, want %s", body.Code, dto.ErrorCodeRouteNotFound)
	}
}

func TestBindOptionalJSON(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		contentLength int64
		ok            bool
		coverLetter   string
	}{
		{"empty", "", 0, true, ""},
		{"empty with unknown length", "", -1, true, ""},
		{"whitespace only", "  \n", -1, true, ""},
		{"cover letter", `{"coverLetter":"hi"}`, -1, true, "hi"},
		{"malformed", `{"coverLetter":`, -1, false, ""},
		{"too long", `{"coverLetter":"` + strings.Repeat("x", 5001) + `"}`, -1, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				ok  bool
				req dto.ApplyToJobRequest
			)
			r := gin.New()
			r.POST("/apply", func(c *gin.Context) {
				if ok = middleware.BindOptionalJSON(c, &req); ok {
					c.Status(http.StatusNoContent)
				}
			})
			httpReq := httptest.NewRequest(http.MethodPost, "/apply", strings.NewReader(tt.body))
			httpReq.ContentLength = tt.contentLength
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httpReq)

			if ok != tt.ok {
				t.Fatalf("BindOptionalJSON = %v, want %v (status %d)", ok, tt.ok, w.Code)
			}
			if !tt.ok && w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
			if tt.ok && req.CoverLetter != tt.coverLetter {
				t.Errorf("coverLetter = %q, want %q", req.CoverLetter, tt.coverLetter)
			}
		})
	}
}
