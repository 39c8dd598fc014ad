package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unicorn-byte/emergency-card/internal/api/handlers"
	"github.com/unicorn-byte/emergency-card/internal/audit"
	"github.com/unicorn-byte/emergency-card/internal/crypto"
	"github.com/unicorn-byte/emergency-card/internal/models"
	"github.com/unicorn-byte/emergency-card/internal/repositories"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testServer struct {
	*httptest.Server
	client *http.Client
	db     *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	dsn := fmt.Sprintf("file:api-%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, repositories.Migrate(db))
	repositories.DB = db

	env, err := crypto.New("api-test-key")
	require.NoError(t, err)

	auditor := audit.New(db, 64)
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = auditor.Run(ctx) }()
	t.Cleanup(cancel)

	handlers.Init(env, auditor)

	srv := httptest.NewServer(SetupRouter())
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testServer{
		Server: srv,
		client: &http.Client{Jar: jar},
		db:     db,
	}
}

func (s *testServer) doJSON(t *testing.T, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, s.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var payload map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	return resp, payload
}

func (s *testServer) signUpAndLogin(t *testing.T, username, email string) {
	t.Helper()

	resp, _ := s.doJSON(t, http.MethodPost, "/api/v1/auth/sign-up", map[string]any{
		"username": username,
		"email":    email,
		"password": "hunter2hunter2",
		"fullName": "Test User",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = s.doJSON(t, http.MethodPost, "/api/v1/auth/login", map[string]any{
		"email":    email,
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestEndToEndDisclosureFlow(t *testing.T) {
	s := newTestServer(t)
	s.signUpAndLogin(t, "jordan", "jordan@example.com")

	// Create profile with allergies and one priority-1 contact.
	resp, payload := s.doJSON(t, http.MethodPost, "/api/v1/profile", map[string]any{
		"fullName":   "Jordan Doe",
		"age":        34,
		"bloodGroup": "O+",
		"allergies":  "Penicillin,Peanuts",
		"organDonor": true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	data := payload["data"].(map[string]any)
	publicID := data["publicId"].(string)
	require.NotEmpty(t, publicID)

	resp, _ = s.doJSON(t, http.MethodPost, "/api/v1/profile/contacts", map[string]any{
		"name":     "Sam Doe",
		"relation": "Spouse",
		"phone":    "555-0100",
		"priority": 1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Anonymous JSON view discloses allergies and the contact.
	resp, payload = s.doJSON(t, http.MethodGet, "/api/emergency/"+publicID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	view := payload["data"].(map[string]any)
	assert.Equal(t, []any{"Penicillin", "Peanuts"}, view["allergies"])
	assert.Equal(t, true, view["organ_donor"])
	contacts := view["emergency_contacts"].([]any)
	require.Len(t, contacts, 1)
	assert.Equal(t, float64(1), contacts[0].(map[string]any)["priority"])

	// Hide allergies, everything else stays.
	resp, _ = s.doJSON(t, http.MethodPatch, "/api/v1/profile", map[string]any{
		"showAllergies": false,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, payload = s.doJSON(t, http.MethodGet, "/api/emergency/"+publicID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	view = payload["data"].(map[string]any)
	assert.NotContains(t, view, "allergies")
	assert.Equal(t, "Jordan Doe", view["full_name"])
	assert.Equal(t, "O+", view["blood_group"])
	assert.Equal(t, true, view["organ_donor"])

	// Both public reads were audited.
	assert.Eventually(t, func() bool {
		var count int64
		s.db.Model(&models.AccessLog{}).Count(&count)
		return count >= 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestPublicResolutionIsIdentifierBased(t *testing.T) {
	s := newTestServer(t)
	s.signUpAndLogin(t, "riley", "riley@example.com")

	resp, payload := s.doJSON(t, http.MethodPost, "/api/v1/profile", map[string]any{
		"fullName": "Riley",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	publicID := payload["data"].(map[string]any)["publicId"].(string)

	resp, _ = s.doJSON(t, http.MethodGet, "/api/emergency/"+publicID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = s.doJSON(t, http.MethodGet, "/api/emergency/definitely-not-it", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Deleting the profile retires the id for good.
	resp, _ = s.doJSON(t, http.MethodDelete, "/api/v1/profile", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = s.doJSON(t, http.MethodGet, "/api/emergency/"+publicID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDuplicateProfileAndContactConflicts(t *testing.T) {
	s := newTestServer(t)
	s.signUpAndLogin(t, "casey", "casey@example.com")

	resp, _ := s.doJSON(t, http.MethodPost, "/api/v1/profile", map[string]any{"fullName": "Casey"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = s.doJSON(t, http.MethodPost, "/api/v1/profile", map[string]any{"fullName": "Casey two"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = s.doJSON(t, http.MethodPost, "/api/v1/profile/contacts", map[string]any{
		"name": "A", "relation": "Friend", "phone": "555-0400",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = s.doJSON(t, http.MethodPost, "/api/v1/profile/contacts", map[string]any{
		"name": "B", "relation": "Friend", "phone": "555-0400",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestOwnerScopedRoutesRejectAnonymous(t *testing.T) {
	s := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, s.URL+"/api/v1/profile", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHTMLAndPDFViews(t *testing.T) {
	s := newTestServer(t)
	s.signUpAndLogin(t, "drew", "drew@example.com")

	resp, payload := s.doJSON(t, http.MethodPost, "/api/v1/profile", map[string]any{
		"fullName":   "Drew",
		"bloodGroup": "AB-",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	publicID := payload["data"].(map[string]any)["publicId"].(string)

	htmlResp, err := s.client.Get(s.URL + "/emergency/" + publicID + "/view")
	require.NoError(t, err)
	defer htmlResp.Body.Close()
	assert.Equal(t, http.StatusOK, htmlResp.StatusCode)
	assert.Contains(t, htmlResp.Header.Get("Content-Type"), "text/html")

	pdfResp, err := s.client.Get(s.URL + "/emergency/" + publicID + "/pdf")
	require.NoError(t, err)
	defer pdfResp.Body.Close()
	assert.Equal(t, http.StatusOK, pdfResp.StatusCode)
	assert.Equal(t, "application/pdf", pdfResp.Header.Get("Content-Type"))
}
