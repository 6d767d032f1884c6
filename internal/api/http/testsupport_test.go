package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/estimate-service/internal/api/http/handlers"
	"github.com/spec-kit/estimate-service/internal/auth"
	"github.com/spec-kit/estimate-service/internal/config"
	"github.com/spec-kit/estimate-service/internal/domain"
	"github.com/spec-kit/estimate-service/internal/events"
	"github.com/spec-kit/estimate-service/internal/notification"
	"github.com/spec-kit/estimate-service/internal/observability"
	"github.com/spec-kit/estimate-service/internal/persistence"
	"github.com/spec-kit/estimate-service/internal/repository"
	"github.com/spec-kit/estimate-service/internal/service"
	"github.com/spec-kit/estimate-service/internal/sharetoken"
	"github.com/spec-kit/estimate-service/internal/worker"
)

// ---- in-memory repository fakes ----

type fakeContractorRepo struct {
	mu   sync.Mutex
	rows map[string]domain.Contractor
}

func newFakeContractorRepo() *fakeContractorRepo {
	return &fakeContractorRepo{rows: make(map[string]domain.Contractor)}
}

func (r *fakeContractorRepo) Create(_ context.Context, contractor *domain.Contractor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	contractor.ID = uuid.NewString()
	contractor.CreatedAt = time.Now()
	contractor.UpdatedAt = contractor.CreatedAt
	r.rows[contractor.ID] = *contractor
	return nil
}

func (r *fakeContractorRepo) Update(_ context.Context, contractor *domain.Contractor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[contractor.ID]; !ok {
		return pgx.ErrNoRows
	}
	contractor.UpdatedAt = time.Now()
	r.rows[contractor.ID] = *contractor
	return nil
}

func (r *fakeContractorRepo) GetByID(_ context.Context, id string) (*domain.Contractor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &row, nil
}

func (r *fakeContractorRepo) GetByEmail(_ context.Context, email string) (*domain.Contractor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.Email == email {
			row := row
			return &row, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeContractorRepo) ListWithStats(_ context.Context, limit, offset int) ([]repository.ContractorStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []repository.ContractorStats
	for _, row := range r.rows {
		out = append(out, repository.ContractorStats{Contractor: row})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Contractor.ID < out[j].Contractor.ID })
	return out, nil
}

type fakeCustomerRepo struct {
	mu   sync.Mutex
	rows map[string]domain.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{rows: make(map[string]domain.Customer)}
}

func (r *fakeCustomerRepo) Create(_ context.Context, customer *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	customer.ID = uuid.NewString()
	customer.CreatedAt = time.Now()
	customer.UpdatedAt = customer.CreatedAt
	r.rows[customer.ID] = *customer
	return nil
}

func (r *fakeCustomerRepo) Update(_ context.Context, contractorID string, customer *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[customer.ID]
	if !ok || row.ContractorID != contractorID {
		return pgx.ErrNoRows
	}
	customer.ContractorID = row.ContractorID
	customer.IntakeToken = row.IntakeToken
	customer.IntakeCompletedAt = row.IntakeCompletedAt
	customer.CreatedAt = row.CreatedAt
	customer.UpdatedAt = time.Now()
	r.rows[customer.ID] = *customer
	return nil
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, contractorID, id string) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || row.ContractorID != contractorID {
		return nil, pgx.ErrNoRows
	}
	return &row, nil
}

func (r *fakeCustomerRepo) ListByContractor(_ context.Context, contractorID string, limit, offset int) ([]domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Customer
	for _, row := range r.rows {
		if row.ContractorID == contractorID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeCustomerRepo) Delete(_ context.Context, contractorID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || row.ContractorID != contractorID {
		return pgx.ErrNoRows
	}
	delete(r.rows, id)
	return nil
}

func (r *fakeCustomerRepo) SetIntakeToken(_ context.Context, contractorID, id, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || row.ContractorID != contractorID {
		return pgx.ErrNoRows
	}
	row.IntakeToken = &token
	row.UpdatedAt = time.Now()
	r.rows[id] = row
	return nil
}

func (r *fakeCustomerRepo) GetByIntakeToken(_ context.Context, token string) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.IntakeToken != nil && *row.IntakeToken == token {
			row := row
			return &row, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCustomerRepo) CompleteIntake(_ context.Context, id string, profile domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return pgx.ErrNoRows
	}
	now := time.Now()
	row.Phone = profile.Phone
	row.AddressLine = profile.AddressLine
	row.City = profile.City
	row.State = profile.State
	row.Zip = profile.Zip
	row.Notes = profile.Notes
	row.IntakeCompletedAt = &now
	row.UpdatedAt = now
	r.rows[id] = row
	return nil
}

type fakeProjectRepo struct {
	mu   sync.Mutex
	rows map[string]domain.Project
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{rows: make(map[string]domain.Project)}
}

func (r *fakeProjectRepo) Create(_ context.Context, project *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	project.ID = uuid.NewString()
	project.CreatedAt = time.Now()
	project.UpdatedAt = project.CreatedAt
	r.rows[project.ID] = *project
	return nil
}

func (r *fakeProjectRepo) Update(_ context.Context, contractorID string, project *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[project.ID]
	if !ok || row.ContractorID != contractorID {
		return pgx.ErrNoRows
	}
	row.CustomerID = project.CustomerID
	row.Title = project.Title
	row.FlooringType = project.FlooringType
	row.AreaSqFt = project.AreaSqFt
	row.MaterialCost = project.MaterialCost
	row.LaborCost = project.LaborCost
	row.TotalAmount = project.TotalAmount
	row.Notes = project.Notes
	row.Status = project.Status
	row.UpdatedAt = time.Now()
	r.rows[project.ID] = row
	return nil
}

func (r *fakeProjectRepo) GetByID(_ context.Context, contractorID, id string) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || row.ContractorID != contractorID {
		return nil, pgx.ErrNoRows
	}
	return &row, nil
}

func (r *fakeProjectRepo) ListByContractor(_ context.Context, contractorID string, limit, offset int) ([]domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Project
	for _, row := range r.rows {
		if row.ContractorID == contractorID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeProjectRepo) Delete(_ context.Context, contractorID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || row.ContractorID != contractorID {
		return pgx.ErrNoRows
	}
	delete(r.rows, id)
	return nil
}

func (r *fakeProjectRepo) SetShareToken(_ context.Context, contractorID, id, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || row.ContractorID != contractorID {
		return pgx.ErrNoRows
	}
	row.ShareToken = &token
	if row.Status == domain.ProjectStatusDraft {
		row.Status = domain.ProjectStatusSent
	}
	row.UpdatedAt = time.Now()
	r.rows[id] = row
	return nil
}

func (r *fakeProjectRepo) GetByShareToken(_ context.Context, token string) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.ShareToken != nil && *row.ShareToken == token {
			row := row
			return &row, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeProjectRepo) MarkViewed(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || row.ViewedAt != nil || row.SignedAt != nil {
		return nil
	}
	now := time.Now()
	row.ViewedAt = &now
	row.Status = domain.ProjectStatusViewed
	row.UpdatedAt = now
	r.rows[id] = row
	return nil
}

func (r *fakeProjectRepo) MarkSigned(_ context.Context, id, signatureName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || row.SignedAt != nil {
		return pgx.ErrNoRows
	}
	now := time.Now()
	row.SignedAt = &now
	row.SignatureName = &signatureName
	row.Status = domain.ProjectStatusSigned
	row.UpdatedAt = now
	r.rows[id] = row
	return nil
}

type fakeFeedbackRepo struct {
	mu   sync.Mutex
	rows []domain.Feedback
}

func (r *fakeFeedbackRepo) Create(_ context.Context, feedback *domain.Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	feedback.ID = uuid.NewString()
	feedback.CreatedAt = time.Now()
	r.rows = append(r.rows, *feedback)
	return nil
}

func (r *fakeFeedbackRepo) List(_ context.Context, limit, offset int) ([]domain.Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Feedback, len(r.rows))
	copy(out, r.rows)
	return out, nil
}

// ---- refresh store and email sender fakes ----

type fakeRefreshStore struct {
	mu       sync.Mutex
	sessions map[string]auth.RefreshSession
}

func newFakeRefreshStore() *fakeRefreshStore {
	return &fakeRefreshStore{sessions: make(map[string]auth.RefreshSession)}
}

func (s *fakeRefreshStore) Save(_ context.Context, id string, sess auth.RefreshSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = sess
	return nil
}

func (s *fakeRefreshStore) Get(_ context.Context, id string) (auth.RefreshSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return auth.RefreshSession{}, auth.ErrSessionNotFound
	}
	return sess, nil
}

func (s *fakeRefreshStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *fakeRefreshStore) has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	return ok
}

type fakeSender struct {
	mu   sync.Mutex
	sent []notification.Email
}

func (s *fakeSender) Send(_ context.Context, email notification.Email) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, email)
	return nil
}

func (s *fakeSender) emails() []notification.Email {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]notification.Email, len(s.sent))
	copy(out, s.sent)
	return out
}

// ---- test application ----

type testEnv struct {
	app         *fiber.App
	contractors *fakeContractorRepo
	customers   *fakeCustomerRepo
	projects    *fakeProjectRepo
	feedback    *fakeFeedbackRepo
	refresh     *fakeRefreshStore
	sender      *fakeSender
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := zap.NewNop()
	contractors := newFakeContractorRepo()
	customers := newFakeCustomerRepo()
	projects := newFakeProjectRepo()
	feedback := &fakeFeedbackRepo{}
	refresh := newFakeRefreshStore()
	sender := &fakeSender{}

	sessionCfg := config.SessionConfig{
		JWTSecret:         "test-secret",
		SessionTTLMinutes: 15,
		RefreshTTLHours:   1,
		BcryptCost:        4,
	}
	notifyCfg := config.NotificationConfig{EmailFrom: "noreply@example.com"}
	links := sharetoken.NewLinks("http://localhost:8080")
	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(sessionCfg, contractors, refresh)
	customerService := service.NewCustomerService(customers, links)
	projectService := service.NewProjectService(projects, customers, links)
	publicService := service.NewPublicService(projects, customers, contractors, dispatcher, logger)
	notificationService := service.NewNotificationService(dispatcher, sender, logger, notifyCfg)
	worker.StartNotificationWorker(notificationService)

	oracle := auth.NewCookieOracle(authService.SessionManager(), refresh)
	gate := auth.NewGate(auth.GateConfig{
		ProtectedPrefixes: []string{"/dashboard", "/wizard"},
		LoginPath:         "/login",
		DashboardPath:     "/dashboard",
	}, oracle)

	// Immutable so strings taken from the request (path params above all)
	// stay valid after the handler returns; the fakes hold them as map
	// keys across requests, unlike the SQL layer which serializes them.
	app := fiber.New(fiber.Config{Immutable: true})
	RegisterMiddlewares(app, logger, observability.NewMetrics(), 0)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("estimate-service", "test", &persistence.Postgres{}, &persistence.Redis{}),
		Auth:           handlers.NewAuthHandler(authService, "/dashboard"),
		Customers:      handlers.NewCustomersHandler(customerService),
		Projects:       handlers.NewProjectsHandler(projectService),
		Public:         handlers.NewPublicHandler(publicService),
		Feedback:       handlers.NewFeedbackHandler(feedback),
		Admin:          handlers.NewAdminHandler(contractors),
		Pages:          handlers.NewPagesHandler("estimate-service"),
		Gate:           gate,
		AuthMiddleware: auth.NewMiddleware(oracle, contractors),
	})

	return &testEnv{
		app:         app,
		contractors: contractors,
		customers:   customers,
		projects:    projects,
		feedback:    feedback,
		refresh:     refresh,
		sender:      sender,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, cookies []*http.Cookie) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
}

// register creates a contractor account and returns its session cookies.
func (e *testEnv) register(t *testing.T, email string) []*http.Cookie {
	t.Helper()

	resp := e.do(t, http.MethodPost, "/api/auth/register", map[string]any{
		"companyName": "Oak & Plank Flooring",
		"contactName": "Owner",
		"email":       email,
		"password":    "hunter2-long-enough",
	}, nil)
	if resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("register %s: status %d, body %s", email, resp.StatusCode, raw)
	}
	io.Copy(io.Discard, resp.Body) //nolint:errcheck
	resp.Body.Close()
	return resp.Cookies()
}

// createCustomer seeds a customer through the API and returns its id.
func (e *testEnv) createCustomer(t *testing.T, cookies []*http.Cookie, name string) string {
	t.Helper()

	resp := e.do(t, http.MethodPost, "/api/customers", map[string]any{
		"name":  name,
		"email": fmt.Sprintf("%s@customers.example.com", name),
	}, cookies)
	if resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("create customer: status %d, body %s", resp.StatusCode, raw)
	}
	var body struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	decodeBody(t, resp, &body)
	return body.Data.ID
}

// createProject seeds an estimate through the API and returns its id.
func (e *testEnv) createProject(t *testing.T, cookies []*http.Cookie, customerID, title string) string {
	t.Helper()

	resp := e.do(t, http.MethodPost, "/api/projects", map[string]any{
		"customerId":   customerID,
		"title":        title,
		"flooringType": "oak hardwood",
		"areaSqft":     420.5,
		"materialCost": 3200,
		"laborCost":    1800,
	}, cookies)
	if resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("create project: status %d, body %s", resp.StatusCode, raw)
	}
	var body struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	decodeBody(t, resp, &body)
	return body.Data.ID
}

// issueShareToken issues (or re-issues) the public link for an estimate.
func (e *testEnv) issueShareToken(t *testing.T, cookies []*http.Cookie, projectID string) string {
	t.Helper()

	resp := e.do(t, http.MethodPost, "/api/projects/"+projectID+"/share", nil, cookies)
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("issue share link: status %d, body %s", resp.StatusCode, raw)
	}
	var body struct {
		Token string `json:"token"`
		URL   string `json:"url"`
	}
	decodeBody(t, resp, &body)
	return body.Token
}
