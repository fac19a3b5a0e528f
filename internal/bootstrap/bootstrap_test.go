package bootstrap_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/skillkhoj/backend/internal/app/repositories/memory"
	"github.com/skillkhoj/backend/internal/bootstrap"
	"github.com/skillkhoj/backend/internal/config"
	"github.com/skillkhoj/backend/internal/pkg/cache"
)

type apiClient struct {
	t      *testing.T
	router *gin.Engine
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

func (c *apiClient) do(method, path, token string, body any) (int, envelope) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			c.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, token)
}

// send serves a prepared request, for cases the JSON helpers cannot express.
func (c *apiClient) send(req *http.Request, token string) (int, envelope) {
	c.t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		c.t.Fatalf("%s %s: decode %q: %v", req.Method, req.URL.Path, w.Body.String(), err)
	}
	return w.Code, env
}

func (c *apiClient) expect(method, path, token string, body any, status int) envelope {
	c.t.Helper()
	got, env := c.do(method, path, token, body)
	if got != status {
		c.t.Fatalf("%s %s: status = %d, want %d (message %q)", method, path, got, status, env.Message)
	}
	return env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode data %s: %v", raw, err)
	}
	return v
}

func newTestAPI(t *testing.T) *apiClient {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.JWT.Secret = "bootstrap-test-secret"
	cfg.JWT.Expiration = "3h"
	cfg.JWT.Issuer = "skillkhoj.test"
	cfg.Auth.BcryptCost = 4
	cfg.Seed.Enabled = true
	cfg.Seed.AdminEmail = "admin@skillkhoj.test"
	cfg.Seed.AdminPassword = "adminpass1"

	store := memory.New()
	stores := bootstrap.Stores{
		Users:        store.Users(),
		Courses:      store.Courses(),
		Jobs:         store.Jobs(),
		Applications: store.Applications(),
		Tx:           store,
		DB:           store,
		Cache:        cache.Noop{},
	}

	lgr := zerolog.Nop()
	deps, err := bootstrap.BuildDependencies(cfg, stores, lgr)
	if err != nil {
		t.Fatalf("BuildDependencies returned error: %v", err)
	}
	bootstrap.SeedDefaultData(context.Background(), cfg, stores, deps, lgr)

	return &apiClient{t: t, router: bootstrap.SetupRouter(cfg, deps, lgr)}
}

type session struct {
	Token string `json:"token"`
	User  struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	} `json:"user"`
}

func (c *apiClient) signup(name, email, role string) session {
	c.t.Helper()
	c.expect(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": name, "email": email, "password": "password123", "role": role,
	}, http.StatusCreated)
	return c.login(email, "password123")
}

func (c *apiClient) login(email, password string) session {
	c.t.Helper()
	env := c.expect(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": email, "password": password,
	}, http.StatusOK)
	if env.Message != "Login Successful" {
		c.t.Errorf("login message = %q, want Login Successful", env.Message)
	}
	return decode[session](c.t, env.Data)
}

func TestJobApplicationFlow(t *testing.T) {
	api := newTestAPI(t)

	rec := api.signup("Rita", "rita@corp.io", "Recruiter")
	stu := api.signup("Sam", "sam@uni.edu", "Student")

	env := api.expect(http.MethodPost, "/api/recruiter/"+rec.User.ID+"/createJobPosting", rec.Token, map[string]string{
		"title": "Backend Engineer", "description": "Go APIs", "company": "Acme", "location": "Remote", "salary": "100k",
	}, http.StatusCreated)
	job := decode[struct {
		ID string `json:"id"`
	}](t, env.Data)

	env = api.expect(http.MethodGet, "/api/student/jobs", stu.Token, nil, http.StatusOK)
	jobs := decode[[]struct {
		ID       string `json:"id"`
		PostedBy struct {
			Name string `json:"name"`
		} `json:"postedBy"`
	}](t, env.Data)
	if len(jobs) != 1 || jobs[0].ID != job.ID || jobs[0].PostedBy.Name != "Rita" {
		t.Fatalf("job list = %+v", jobs)
	}

	applyPath := "/api/student/" + stu.User.ID + "/apply/" + job.ID
	api.expect(http.MethodPost, applyPath, stu.Token, nil, http.StatusCreated)
	env = api.expect(http.MethodPost, applyPath, stu.Token, nil, http.StatusBadRequest)
	if env.Message != "You have already applied to this job" {
		t.Errorf("duplicate apply message = %q", env.Message)
	}

	env = api.expect(http.MethodGet, "/api/student/"+stu.User.ID+"/applications", stu.Token, nil, http.StatusOK)
	apps := decode[[]struct {
		Status string `json:"status"`
		Job    struct {
			Title string `json:"title"`
		} `json:"job"`
	}](t, env.Data)
	if len(apps) != 1 || apps[0].Status != "pending" || apps[0].Job.Title != "Backend Engineer" {
		t.Errorf("applications = %+v", apps)
	}

	env = api.expect(http.MethodGet, "/api/recruiter/job/"+job.ID+"/applicants", rec.Token, nil, http.StatusOK)
	applicants := decode[struct {
		Applicants []struct {
			Email string `json:"email"`
		} `json:"applicants"`
	}](t, env.Data)
	if len(applicants.Applicants) != 1 || applicants.Applicants[0].Email != "sam@uni.edu" {
		t.Errorf("applicants = %+v", applicants.Applicants)
	}

	env = api.expect(http.MethodGet, "/api/recruiter/"+rec.User.ID+"/homepage", rec.Token, nil, http.StatusOK)
	home := decode[struct {
		User struct {
			JobPostings []struct {
				ID string `json:"id"`
			} `json:"jobPostings"`
		} `json:"user"`
	}](t, env.Data)
	if len(home.User.JobPostings) != 1 {
		t.Errorf("recruiter homepage postings = %+v", home.User.JobPostings)
	}
}

func TestApplyBodyIsOptional(t *testing.T) {
	api := newTestAPI(t)
	rec := api.signup("Rita", "rita@corp.io", "Recruiter")
	stu := api.signup("Sam", "sam@uni.edu", "Student")

	tests := []struct {
		name          string
		body          string
		contentLength int64
		status        int
		coverLetter   string
	}{
		{"no body", "", 0, http.StatusCreated, ""},
		{"chunked empty body", "", -1, http.StatusCreated, ""},
		{"chunked cover letter", `{"coverLetter":"  hi  "}`, -1, http.StatusCreated, "hi"},
		{"malformed body", `{"coverLetter":`, 15, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := api.expect(http.MethodPost, "/api/recruiter/"+rec.User.ID+"/createJobPosting", rec.Token, map[string]string{
				"title": tt.name, "description": "Go APIs", "company": "Acme", "location": "Remote", "salary": "100k",
			}, http.StatusCreated)
			job := decode[struct {
				ID string `json:"id"`
			}](t, env.Data)

			req := httptest.NewRequest(http.MethodPost, "/api/student/"+stu.User.ID+"/apply/"+job.ID, strings.NewReader(tt.body))
			req.ContentLength = tt.contentLength
			req.Header.Set("Content-Type", "application/json")
			status, env := api.send(req, stu.Token)

			if status != tt.status {
				t.Fatalf("status = %d, want %d (message %q)", status, tt.status, env.Message)
			}
			if status != http.StatusCreated {
				return
			}
			app := decode[struct {
				CoverLetter string `json:"coverLetter"`
			}](t, env.Data)
			if app.CoverLetter != tt.coverLetter {
				t.Errorf("coverLetter = %q, want %q", app.CoverLetter, tt.coverLetter)
			}
		})
	}
}

func TestAccessControl(t *testing.T) {
	api := newTestAPI(t)
	rec := api.signup("Rita", "rita@corp.io", "Recruiter")
	stu := api.signup("Sam", "sam@uni.edu", "Student")
	other := api.signup("Sue", "sue@uni.edu", "Student")
	admin := api.login("admin@skillkhoj.test", "adminpass1")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{"no token", http.MethodGet, "/api/student/jobs", "", http.StatusUnauthorized},
		{"bad token", http.MethodGet, "/api/student/jobs", "not-a-token", http.StatusUnauthorized},
		{"recruiter on student route", http.MethodGet, "/api/student/jobs", rec.Token, http.StatusForbidden},
		{"student on recruiter route", http.MethodGet, "/api/recruiter/" + stu.User.ID + "/homepage", stu.Token, http.StatusForbidden},
		{"student reads another student", http.MethodGet, "/api/student/" + other.User.ID + "/profile", stu.Token, http.StatusForbidden},
		{"student reads self", http.MethodGet, "/api/student/" + stu.User.ID + "/profile", stu.Token, http.StatusOK},
		{"admin reads any student", http.MethodGet, "/api/student/" + other.User.ID + "/profile", admin.Token, http.StatusOK},
		{"student ping", http.MethodGet, "/api/user/student", stu.Token, http.StatusOK},
		{"recruiter admin ping", http.MethodGet, "/api/user/admin", rec.Token, http.StatusForbidden},
		{"admin ping", http.MethodGet, "/api/user/admin", admin.Token, http.StatusOK},
		{"student reconcile", http.MethodPost, "/api/admin/reconcile", stu.Token, http.StatusForbidden},
		{"admin reconcile", http.MethodPost, "/api/admin/reconcile", admin.Token, http.StatusOK},
		{"public courses", http.MethodGet, "/api/courses", "", http.StatusOK},
		{"recruiter deletes course", http.MethodDelete, "/api/courses/00000000-0000-0000-0000-000000000000", rec.Token, http.StatusForbidden},
		{"admin deletes missing course", http.MethodDelete, "/api/courses/00000000-0000-0000-0000-000000000000", admin.Token, http.StatusNotFound},
		{"unknown route", http.MethodGet, "/api/nowhere", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, env := api.do(tt.method, tt.path, tt.token, nil)
			if got != tt.status {
				t.Errorf("status = %d, want %d (message %q)", got, tt.status, env.Message)
			}
		})
	}
}

func TestRegisterAndLoginErrors(t *testing.T) {
	api := newTestAPI(t)
	api.signup("Ann", "ann@example.com", "Student")

	env := api.expect(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Ann 2", "email": "ann@example.com", "password": "password123", "role": "Recruiter",
	}, http.StatusBadRequest)
	if env.Message != "User already exists" {
		t.Errorf("duplicate register message = %q", env.Message)
	}

	_, unknown := api.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "who@example.com", "password": "password123"})
	_, wrong := api.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ann@example.com", "password": "password999"})
	if unknown.Message != "Invalid credentials" || unknown.Message != wrong.Message || unknown.Code != wrong.Code {
		t.Errorf("login failures differ: %+v vs %+v", unknown, wrong)
	}

	api.expect(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Root", "email": "root@example.com", "password": "password123", "role": "Admin",
	}, http.StatusBadRequest)
}

func TestCoursesAndHealth(t *testing.T) {
	api := newTestAPI(t)
	admin := api.login("admin@skillkhoj.test", "adminpass1")
	stu := api.signup("Sam", "sam@uni.edu", "Student")

	env := api.expect(http.MethodGet, "/api/courses", "", nil, http.StatusOK)
	seeded := decode[[]struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}](t, env.Data)
	if len(seeded) != 3 {
		t.Fatalf("seeded %d courses, want 3", len(seeded))
	}

	env = api.expect(http.MethodPost, "/api/courses", admin.Token, map[string]string{
		"title": "Go Basics", "link": "https://go.dev/tour",
	}, http.StatusCreated)
	course := decode[struct {
		ID string `json:"id"`
	}](t, env.Data)

	api.expect(http.MethodPost, "/api/student/"+stu.User.ID+"/courses/"+course.ID, stu.Token, nil, http.StatusOK)
	env = api.expect(http.MethodGet, "/api/student/"+stu.User.ID+"/homepage", stu.Token, nil, http.StatusOK)
	home := decode[struct {
		User struct {
			RegisteredCourses []struct {
				Title string `json:"title"`
			} `json:"registeredCourses"`
		} `json:"user"`
	}](t, env.Data)
	if len(home.User.RegisteredCourses) != 1 || home.User.RegisteredCourses[0].Title != "Go Basics" {
		t.Errorf("registered courses = %+v", home.User.RegisteredCourses)
	}

	api.expect(http.MethodPost, "/api/student/"+stu.User.ID+"/courses/not-a-uuid", stu.Token, nil, http.StatusBadRequest)

	api.expect(http.MethodGet, "/api/health", "", nil, http.StatusOK)
}
