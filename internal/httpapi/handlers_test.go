package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"crisisgrid.org/internal/auth"
	"crisisgrid.org/internal/hazard"
	"crisisgrid.org/internal/stream"
	"crisisgrid.org/internal/users"
	"crisisgrid.org/internal/warning"
)

const testSecret = "test-secret"

// --- in-memory fakes -------------------------------------------------------

type fakeAuthStore struct {
	users      map[string]*auth.User
	responders map[string]*auth.ResponderProfile
}

func newFakeAuthStore() *fakeAuthStore {
	return &fakeAuthStore{
		users:      map[string]*auth.User{},
		responders: map[string]*auth.ResponderProfile{},
	}
}

func (s *fakeAuthStore) Users(context.Context) auth.UserStore { return s }

func (s *fakeAuthStore) Create(_ context.Context, u *auth.User) error {
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return auth.ErrEmailTaken
		}
	}
	clone := *u
	s.users[u.ID] = &clone
	if u.Role == auth.RoleResponder {
		s.responders[u.ID] = &auth.ResponderProfile{UserID: u.ID}
	}
	return nil
}

func (s *fakeAuthStore) Find(_ context.Context, id string) (*auth.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (s *fakeAuthStore) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, auth.ErrNotFound
}

func (s *fakeAuthStore) List(_ context.Context, offset, limit int) ([]*auth.User, error) {
	all := make([]*auth.User, 0, len(s.users))
	for _, u := range s.users {
		clone := *u
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (s *fakeAuthStore) Count(context.Context) (int, error) { return len(s.users), nil }

func (s *fakeAuthStore) UpdateProfile(_ context.Context, id string, upd auth.ProfileUpdate) (*auth.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	if upd.FirstName != nil {
		u.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		u.LastName = *upd.LastName
	}
	if upd.Phone != nil {
		u.Phone = *upd.Phone
	}
	clone := *u
	return &clone, nil
}

func (s *fakeAuthStore) UpdateRole(_ context.Context, id string, role auth.Role) (*auth.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	u.Role = role
	if role == auth.RoleResponder {
		if _, ok := s.responders[id]; !ok {
			s.responders[id] = &auth.ResponderProfile{UserID: id}
		}
	} else {
		delete(s.responders, id)
	}
	clone := *u
	return &clone, nil
}

func (s *fakeAuthStore) Delete(_ context.Context, id string) error {
	if _, ok := s.users[id]; !ok {
		return auth.ErrNotFound
	}
	delete(s.users, id)
	delete(s.responders, id)
	return nil
}

func (s *fakeAuthStore) ResponderProfile(_ context.Context, userID string) (*auth.ResponderProfile, error) {
	p, ok := s.responders[userID]
	if !ok {
		return nil, auth.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

type fakeZoneStore struct {
	zones map[string]*hazard.Zone
}

func newFakeZoneStore() *fakeZoneStore {
	return &fakeZoneStore{zones: map[string]*hazard.Zone{}}
}

func (s *fakeZoneStore) Create(_ context.Context, z *hazard.Zone) error {
	clone := *z
	s.zones[z.ID] = &clone
	return nil
}

func (s *fakeZoneStore) Find(_ context.Context, id string) (*hazard.Zone, error) {
	z, ok := s.zones[id]
	if !ok {
		return nil, hazard.ErrNotFound
	}
	clone := *z
	return &clone, nil
}

func (s *fakeZoneStore) List(_ context.Context, offset, limit int) ([]*hazard.Zone, error) {
	all := make([]*hazard.Zone, 0, len(s.zones))
	for _, z := range s.zones {
		clone := *z
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (s *fakeZoneStore) Count(context.Context) (int, error) { return len(s.zones), nil }

func (s *fakeZoneStore) Update(_ context.Context, id string, upd hazard.Update) (*hazard.Zone, error) {
	z, ok := s.zones[id]
	if !ok {
		return nil, hazard.ErrNotFound
	}
	if upd.Name != nil {
		z.Name = *upd.Name
	}
	if upd.Type != nil {
		z.Type = *upd.Type
	}
	if upd.GeometryData != nil {
		z.GeometryData = *upd.GeometryData
	}
	if upd.RiskLevel != nil {
		z.RiskLevel = *upd.RiskLevel
	}
	if upd.AdminNotes != nil {
		z.AdminNotes = *upd.AdminNotes
	}
	clone := *z
	return &clone, nil
}

func (s *fakeZoneStore) Delete(_ context.Context, id string) error {
	if _, ok := s.zones[id]; !ok {
		return hazard.ErrNotFound
	}
	delete(s.zones, id)
	return nil
}

type fakeWarningStore struct {
	warnings map[string]*warning.Warning
	zones    *fakeZoneStore
}

func (s *fakeWarningStore) Create(_ context.Context, w *warning.Warning) error {
	if _, ok := s.zones.zones[w.HazardZoneID]; !ok {
		return warning.ErrZoneNotFound
	}
	clone := *w
	s.warnings[w.ID] = &clone
	return nil
}

func (s *fakeWarningStore) Find(_ context.Context, id string) (*warning.Warning, error) {
	w, ok := s.warnings[id]
	if !ok {
		return nil, warning.ErrNotFound
	}
	clone := *w
	if z, ok := s.zones.zones[w.HazardZoneID]; ok {
		clone.HazardZone = &warning.ZoneSummary{Name: z.Name, Type: z.Type}
	}
	return &clone, nil
}

func (s *fakeWarningStore) List(_ context.Context, offset, limit int) ([]*warning.Warning, error) {
	all := make([]*warning.Warning, 0, len(s.warnings))
	for _, w := range s.warnings {
		clone := *w
		if z, ok := s.zones.zones[w.HazardZoneID]; ok {
			clone.HazardZone = &warning.ZoneSummary{Name: z.Name, Type: z.Type}
		}
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (s *fakeWarningStore) Count(context.Context) (int, error) { return len(s.warnings), nil }

func (s *fakeWarningStore) Update(_ context.Context, id string, upd warning.Update) (*warning.Warning, error) {
	w, ok := s.warnings[id]
	if !ok {
		return nil, warning.ErrNotFound
	}
	if upd.HazardZoneID != nil {
		if _, ok := s.zones.zones[*upd.HazardZoneID]; !ok {
			return nil, warning.ErrZoneNotFound
		}
		w.HazardZoneID = *upd.HazardZoneID
	}
	if upd.Title != nil {
		w.Title = *upd.Title
	}
	if upd.Description != nil {
		w.Description = *upd.Description
	}
	if upd.Level != nil {
		w.Level = *upd.Level
	}
	if upd.IssuedBy != nil {
		w.IssuedBy = *upd.IssuedBy
	}
	if upd.ValidUntil != nil {
		w.ValidUntil = upd.ValidUntil
	}
	if upd.IsActive != nil {
		w.IsActive = *upd.IsActive
	}
	clone := *w
	return &clone, nil
}

func (s *fakeWarningStore) Delete(_ context.Context, id string) error {
	if _, ok := s.warnings[id]; !ok {
		return warning.ErrNotFound
	}
	delete(s.warnings, id)
	return nil
}

// --- harness ---------------------------------------------------------------

type testEnv struct {
	client *apiClient

	authStore *fakeAuthStore
	zoneStore *fakeZoneStore
	tokens    *auth.TokenService
}

type apiClient struct {
	baseURL string
	client  *http.Client
	t       *testing.T
}

func newTestAPI(t *testing.T) *testEnv {
	t.Helper()

	tokens, err := auth.NewTokenService(testSecret)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	authStore := newFakeAuthStore()
	authSvc, err := auth.NewService(authStore, auth.NewHasher(bcrypt.MinCost), tokens)
	if err != nil {
		t.Fatalf("auth.NewService: %v", err)
	}
	userSvc, err := users.NewService(authStore, "root")
	if err != nil {
		t.Fatalf("users.NewService: %v", err)
	}
	zoneStore := newFakeZoneStore()
	hazardSvc, err := hazard.NewService(zoneStore)
	if err != nil {
		t.Fatalf("hazard.NewService: %v", err)
	}
	warningSvc, err := warning.NewService(&fakeWarningStore{
		warnings: map[string]*warning.Warning{},
		zones:    zoneStore,
	})
	if err != nil {
		t.Fatalf("warning.NewService: %v", err)
	}

	api := New(ReadyProbe{}, Options{
		Version:       "test",
		RateBurst:     1000,
		RatePerSec:    1000,
		VerboseErrors: true,
	}, Services{
		Auth:     authSvc,
		Users:    userSvc,
		Hazards:  hazardSvc,
		Warnings: warningSvc,
		Stream:   stream.New(),
	})

	srv := httptest.NewServer(api.Handler())
	t.Cleanup(srv.Close)

	return &testEnv{
		client:    &apiClient{baseURL: srv.URL, client: srv.Client(), t: t},
		authStore: authStore,
		zoneStore: zoneStore,
		tokens:    tokens,
	}
}

func (c *apiClient) do(method, path string, body any, headers map[string]string) *http.Response {
	c.t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
	}
	req, err := http.NewRequest(method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		c.t.Fatalf("do request: %v", err)
	}
	return resp
}

func (c *apiClient) post(path string, body any, headers map[string]string) *http.Response {
	return c.do(http.MethodPost, path, body, headers)
}

func (c *apiClient) put(path string, body any, headers map[string]string) *http.Response {
	return c.do(http.MethodPut, path, body, headers)
}

func (c *apiClient) delete(path string, headers map[string]string) *http.Response {
	return c.do(http.MethodDelete, path, nil, headers)
}

func (c *apiClient) get(path string, params url.Values, headers map[string]string) *http.Response {
	c.t.Helper()
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		c.t.Fatalf("parse url: %v", err)
	}
	if params != nil {
		u.RawQuery = params.Encode()
	}
	req, err := http.NewRequest(http.MethodGet, u.String(), nil)
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		c.t.Fatalf("get request: %v", err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func bearerHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// register creates an account through the API and returns its id and
// token pair.
func (env *testEnv) register(t *testing.T, email, role string) (string, auth.TokenPair) {
	t.Helper()
	resp := env.client.post("/v1/auth/register", map[string]any{
		"email":     email,
		"password":  "hunter2hunter2",
		"firstName": "Test",
		"lastName":  "User",
		"role":      role,
	}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: status %d", email, resp.StatusCode)
	}
	var body sessionResponse
	decodeBody(t, resp, &body)
	return body.User.ID, body.Tokens
}

func TestHealthz(t *testing.T) {
	env := newTestAPI(t)

	resp := env.client.get("/healthz", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	var body map[string]any
	decodeBody(t, resp, &body)
	if body["service"] != "crisisgrid-api" {
		t.Fatalf("unexpected service: %v", body["service"])
	}
}

func TestUnknownRoute(t *testing.T) {
	env := newTestAPI(t)

	resp := env.client.get("/v1/nope", nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}
