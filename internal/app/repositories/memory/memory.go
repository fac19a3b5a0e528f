// Package memory provides in-memory implementations of the service stores.
// It enforces the same unique keys as the SQL schema and supports
// all-or-nothing transactions, which makes it suitable for tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/skillkhoj/backend/internal/app/models"
	"github.com/skillkhoj/backend/internal/pkg/apperrors"
	"github.com/skillkhoj/backend/internal/pkg/helpers"
)

type state struct {
	users   map[string]models.User
	courses map[string]models.Course
	jobs    map[string]models.JobPosting
	apps    map[string]models.JobApplication
}

func (s state) clone() state {
	c := state{
		users:   make(map[string]models.User, len(s.users)),
		courses: make(map[string]models.Course, len(s.courses)),
		jobs:    make(map[string]models.JobPosting, len(s.jobs)),
		apps:    make(map[string]models.JobApplication, len(s.apps)),
	}
	for k, v := range s.users {
		v.RegisteredCourses = append([]string(nil), v.RegisteredCourses...)
		v.RecommendedCourses = append([]string(nil), v.RecommendedCourses...)
		v.JobPostings = append([]string(nil), v.JobPostings...)
		v.JobsAppliedTo = append([]string(nil), v.JobsAppliedTo...)
		c.users[k] = v
	}
	for k, v := range s.courses {
		c.courses[k] = v
	}
	for k, v := range s.jobs {
		v.Applicants = append([]string(nil), v.Applicants...)
		c.jobs[k] = v
	}
	for k, v := range s.apps {
		c.apps[k] = v
	}
	return c
}

// Store holds users, courses, job postings and applications.
type Store struct {
	mu    sync.Mutex
	txMu  sync.Mutex
	data  state
	fail  map[string]error
	clock time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{
		data: state{
			users:   map[string]models.User{},
			courses: map[string]models.Course{},
			jobs:    map[string]models.JobPosting{},
			apps:    map[string]models.JobApplication{},
		},
		fail: map[string]error{},
	}
}

// FailOn makes the named operation (e.g. "AddApplicant") return err until cleared with a nil err.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.fail, op)
		return
	}
	s.fail[op] = err
}

// tick returns strictly increasing timestamps so ordering by creation time is stable.
func (s *Store) tick() time.Time {
	now := time.Now().UTC()
	if !now.After(s.clock) {
		now = s.clock.Add(time.Microsecond)
	}
	s.clock = now
	return now
}

func (s *Store) injected(op string) error {
	return s.fail[op]
}

// WithTransaction runs fn and restores the previous state if it fails.
// Transactions are serialized.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.data.clone()
	s.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// WithSnapshotTransaction is WithTransaction; transactions here never overlap.
func (s *Store) WithSnapshotTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.WithTransaction(ctx, fn)
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// --- Users ---

// Users returns the store as a UserStore.
func (s *Store) Users() *Users { return &Users{s} }

// Users implements services.UserStore
type Users struct{ s *Store }

// Create implements services.UserStore
func (u *Users) Create(_ context.Context, user *models.User) error {
	s := u.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("CreateUser"); err != nil {
		return err
	}
	for _, existing := range s.data.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	now := s.tick()
	user.CreatedAt, user.UpdatedAt = now, now
	stored := *user
	stored.RegisteredCourses = nonNil(stored.RegisteredCourses)
	stored.RecommendedCourses = nonNil(stored.RecommendedCourses)
	stored.JobPostings = nonNil(stored.JobPostings)
	stored.JobsAppliedTo = nonNil(stored.JobsAppliedTo)
	s.data.users[user.ID] = stored
	return nil
}

func (u *Users) copyOf(user models.User) *models.User {
	user.RegisteredCourses = append([]string{}, user.RegisteredCourses...)
	user.RecommendedCourses = append([]string{}, user.RecommendedCourses...)
	user.JobPostings = append([]string{}, user.JobPostings...)
	user.JobsAppliedTo = append([]string{}, user.JobsAppliedTo...)
	return &user
}

// GetByID implements services.UserStore
func (u *Users) GetByID(_ context.Context, id string) (*models.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	user, ok := u.s.data.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return u.copyOf(user), nil
}

// GetByEmail implements services.UserStore
func (u *Users) GetByEmail(_ context.Context, email string) (*models.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	for _, user := range u.s.data.users {
		if user.Email == email {
			return u.copyOf(user), nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

// GetByIDs implements services.UserStore
func (u *Users) GetByIDs(_ context.Context, ids []string) ([]*models.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	out := []*models.User{}
	for _, id := range ids {
		if user, ok := u.s.data.users[id]; ok {
			out = append(out, u.copyOf(user))
		}
	}
	return out, nil
}

// UpdateProfile implements services.UserStore
func (u *Users) UpdateProfile(_ context.Context, id, name, email string) error {
	s := u.s
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.data.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	for otherID, other := range s.data.users {
		if otherID != id && strings.EqualFold(other.Email, email) {
			return apperrors.ErrEmailInUse
		}
	}
	user.Name, user.Email, user.UpdatedAt = name, email, s.tick()
	s.data.users[id] = user
	return nil
}

func (u *Users) appendTo(op, userID, value string, list func(*models.User) *[]string) error {
	s := u.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected(op); err != nil {
		return err
	}
	user, ok := s.data.users[userID]
	if !ok {
		return nil
	}
	l := list(&user)
	*l = helpers.AppendUnique(*l, value)
	s.data.users[userID] = user
	return nil
}

// AddJobPosting implements services.UserStore
func (u *Users) AddJobPosting(_ context.Context, recruiterID, jobID string) error {
	return u.appendTo("AddJobPosting", recruiterID, jobID, func(x *models.User) *[]string { return &x.JobPostings })
}

// AddJobAppliedTo implements services.UserStore
func (u *Users) AddJobAppliedTo(_ context.Context, studentID, jobID string) error {
	return u.appendTo("AddJobAppliedTo", studentID, jobID, func(x *models.User) *[]string { return &x.JobsAppliedTo })
}

// AddRegisteredCourse implements services.UserStore
func (u *Users) AddRegisteredCourse(_ context.Context, studentID, courseID string) error {
	return u.appendTo("AddRegisteredCourse", studentID, courseID, func(x *models.User) *[]string { return &x.RegisteredCourses })
}

// SetRecommendedCourses replaces a user's recommended courses.
func (u *Users) SetRecommendedCourses(userID string, courseIDs []string) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	if user, ok := u.s.data.users[userID]; ok {
		user.RecommendedCourses = append([]string{}, courseIDs...)
		u.s.data.users[userID] = user
	}
}

// SetJobsAppliedTo overwrites a mirror list, used to simulate drift.
func (u *Users) SetJobsAppliedTo(userID string, jobIDs []string) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	if user, ok := u.s.data.users[userID]; ok {
		user.JobsAppliedTo = append([]string{}, jobIDs...)
		u.s.data.users[userID] = user
	}
}

// RebuildJobsAppliedTo implements services.UserStore
func (u *Users) RebuildJobsAppliedTo(context.Context) (int64, error) {
	s := u.s
	s.mu.Lock()
	defer s.mu.Unlock()
	want := map[string][]string{}
	for _, a := range s.sortedApps() {
		want[a.StudentID] = append(want[a.StudentID], a.JobID)
	}
	var changed int64
	for id, user := range s.data.users {
		if !equal(user.JobsAppliedTo, want[id]) {
			user.JobsAppliedTo = nonNil(want[id])
			s.data.users[id] = user
			changed++
		}
	}
	return changed, nil
}

// RebuildJobPostings implements services.UserStore
func (u *Users) RebuildJobPostings(context.Context) (int64, error) {
	s := u.s
	s.mu.Lock()
	defer s.mu.Unlock()
	jobs := make([]models.JobPosting, 0, len(s.data.jobs))
	for _, j := range s.data.jobs {
		jobs = append(jobs, j)
	}
	sort.Slice(jobs, func(i, k int) bool { return jobs[i].CreatedAt.Before(jobs[k].CreatedAt) })
	want := map[string][]string{}
	for _, j := range jobs {
		want[j.PostedBy] = append(want[j.PostedBy], j.ID)
	}
	var changed int64
	for id, user := range s.data.users {
		if !equal(user.JobPostings, want[id]) {
			user.JobPostings = nonNil(want[id])
			s.data.users[id] = user
			changed++
		}
	}
	return changed, nil
}

// --- Courses ---

// Courses returns the store as a CourseStore.
func (s *Store) Courses() *Courses { return &Courses{s} }

// Courses implements services.CourseStore
type Courses struct{ s *Store }

// Create implements services.CourseStore
func (c *Courses) Create(_ context.Context, course *models.Course) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	now := c.s.tick()
	course.CreatedAt, course.UpdatedAt = now, now
	c.s.data.courses[course.ID] = *course
	return nil
}

// GetByID implements services.CourseStore
func (c *Courses) GetByID(_ context.Context, id string) (*models.Course, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	course, ok := c.s.data.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	return &course, nil
}

// List implements services.CourseStore
func (c *Courses) List(context.Context) ([]*models.Course, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	out := make([]*models.Course, 0, len(c.s.data.courses))
	for _, course := range c.s.data.courses {
		course := course
		out = append(out, &course)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.Before(out[k].CreatedAt) })
	return out, nil
}

// GetByIDs implements services.CourseStore
func (c *Courses) GetByIDs(_ context.Context, ids []string) ([]*models.Course, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	out := []*models.Course{}
	for _, id := range ids {
		if course, ok := c.s.data.courses[id]; ok {
			out = append(out, &course)
		}
	}
	return out, nil
}

// FindByTitle implements services.CourseStore
func (c *Courses) FindByTitle(_ context.Context, title string) (*models.Course, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	for _, course := range c.s.data.courses {
		if course.Title == title {
			return &course, nil
		}
	}
	return nil, apperrors.ErrCourseNotFound
}

// Update implements services.CourseStore
func (c *Courses) Update(_ context.Context, course *models.Course) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	stored, ok := c.s.data.courses[course.ID]
	if !ok {
		return apperrors.ErrCourseNotFound
	}
	stored.Title, stored.Description, stored.Link = course.Title, course.Description, course.Link
	stored.UpdatedAt = c.s.tick()
	course.UpdatedAt = stored.UpdatedAt
	c.s.data.courses[course.ID] = stored
	return nil
}

// Delete implements services.CourseStore
func (c *Courses) Delete(_ context.Context, id string) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if _, ok := c.s.data.courses[id]; !ok {
		return apperrors.ErrCourseNotFound
	}
	delete(c.s.data.courses, id)
	return nil
}

// --- Job postings ---

// Jobs returns the store as a JobStore.
func (s *Store) Jobs() *Jobs { return &Jobs{s} }

// Jobs implements services.JobStore
type Jobs struct{ s *Store }

func (j *Jobs) withPoster(job models.JobPosting) *models.JobPosting {
	job.Applicants = append([]string{}, job.Applicants...)
	if u, ok := j.s.data.users[job.PostedBy]; ok {
		summary := u.Summary()
		job.Poster = &summary
	}
	return &job
}

// Create implements services.JobStore
func (j *Jobs) Create(_ context.Context, job *models.JobPosting) error {
	s := j.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("CreateJob"); err != nil {
		return err
	}
	now := s.tick()
	job.CreatedAt, job.UpdatedAt = now, now
	stored := *job
	stored.Applicants = nonNil(stored.Applicants)
	stored.Poster = nil
	s.data.jobs[job.ID] = stored
	return nil
}

// GetByID implements services.JobStore
func (j *Jobs) GetByID(_ context.Context, id string) (*models.JobPosting, error) {
	j.s.mu.Lock()
	defer j.s.mu.Unlock()
	job, ok := j.s.data.jobs[id]
	if !ok {
		return nil, apperrors.ErrJobNotFound
	}
	return j.withPoster(job), nil
}

// List implements services.JobStore
func (j *Jobs) List(context.Context) ([]*models.JobPosting, error) {
	j.s.mu.Lock()
	defer j.s.mu.Unlock()
	out := make([]*models.JobPosting, 0, len(j.s.data.jobs))
	for _, job := range j.s.data.jobs {
		out = append(out, j.withPoster(job))
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.After(out[k].CreatedAt) })
	return out, nil
}

// GetByIDs implements services.JobStore
func (j *Jobs) GetByIDs(_ context.Context, ids []string) ([]*models.JobPosting, error) {
	j.s.mu.Lock()
	defer j.s.mu.Unlock()
	out := []*models.JobPosting{}
	for _, id := range ids {
		if job, ok := j.s.data.jobs[id]; ok {
			out = append(out, j.withPoster(job))
		}
	}
	return out, nil
}

// AddApplicant implements services.JobStore
func (j *Jobs) AddApplicant(_ context.Context, jobID, studentID string) error {
	s := j.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("AddApplicant"); err != nil {
		return err
	}
	job, ok := s.data.jobs[jobID]
	if !ok {
		return nil
	}
	job.Applicants = helpers.AppendUnique(job.Applicants, studentID)
	s.data.jobs[jobID] = job
	return nil
}

// SetApplicants overwrites a mirror list, used to simulate drift.
func (j *Jobs) SetApplicants(jobID string, studentIDs []string) {
	j.s.mu.Lock()
	defer j.s.mu.Unlock()
	if job, ok := j.s.data.jobs[jobID]; ok {
		job.Applicants = append([]string{}, studentIDs...)
		j.s.data.jobs[jobID] = job
	}
}

// RebuildApplicants implements services.JobStore
func (j *Jobs) RebuildApplicants(context.Context) (int64, error) {
	s := j.s
	s.mu.Lock()
	defer s.mu.Unlock()
	want := map[string][]string{}
	for _, a := range s.sortedApps() {
		want[a.JobID] = append(want[a.JobID], a.StudentID)
	}
	var changed int64
	for id, job := range s.data.jobs {
		if !equal(job.Applicants, want[id]) {
			job.Applicants = nonNil(want[id])
			s.data.jobs[id] = job
			changed++
		}
	}
	return changed, nil
}

// --- Applications ---

// Applications returns the store as an ApplicationStore.
func (s *Store) Applications() *Applications { return &Applications{s} }

// Applications implements services.ApplicationStore
type Applications struct{ s *Store }

// Create implements services.ApplicationStore. The (job, student) pair is unique.
func (a *Applications) Create(_ context.Context, app *models.JobApplication) error {
	s := a.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("CreateApplication"); err != nil {
		return err
	}
	for _, existing := range s.data.apps {
		if existing.JobID == app.JobID && existing.StudentID == app.StudentID {
			return apperrors.ErrAlreadyApplied
		}
	}
	now := s.tick()
	app.ApplicationDate, app.CreatedAt, app.UpdatedAt = now, now, now
	stored := *app
	stored.Job = nil
	s.data.apps[app.ID] = stored
	return nil
}

// Exists implements services.ApplicationStore
func (a *Applications) Exists(_ context.Context, jobID, studentID string) (bool, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	for _, existing := range a.s.data.apps {
		if existing.JobID == jobID && existing.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

// ListByStudent implements services.ApplicationStore
func (a *Applications) ListByStudent(_ context.Context, studentID string) ([]*models.JobApplication, error) {
	s := a.s
	s.mu.Lock()
	defer s.mu.Unlock()
	jobs := &Jobs{s}
	out := []*models.JobApplication{}
	apps := s.sortedApps()
	for i := len(apps) - 1; i >= 0; i-- {
		app := apps[i]
		if app.StudentID != studentID {
			continue
		}
		job, ok := s.data.jobs[app.JobID]
		if !ok {
			continue
		}
		app.Job = jobs.withPoster(job)
		out = append(out, &app)
	}
	return out, nil
}

// Count returns the number of stored applications.
func (a *Applications) Count() int {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	return len(a.s.data.apps)
}

// sortedApps returns applications oldest first. Callers hold s.mu.
func (s *Store) sortedApps() []models.JobApplication {
	apps := make([]models.JobApplication, 0, len(s.data.apps))
	for _, a := range s.data.apps {
		apps = append(apps, a)
	}
	sort.Slice(apps, func(i, k int) bool { return apps[i].CreatedAt.Before(apps[k].CreatedAt) })
	return apps
}

func nonNil(l []string) []string {
	if l == nil {
		return []string{}
	}
	return l
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
