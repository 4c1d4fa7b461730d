package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptoupi/internal/authz"
	"cryptoupi/internal/handlers"
	"cryptoupi/internal/humancheck"
	"cryptoupi/internal/models"
	"cryptoupi/internal/services"
	"cryptoupi/internal/verification"
)

type entryStore struct {
	entries []*models.DirectoryEntry
}

func (s *entryStore) Create(_ context.Context, id, name string) (*models.DirectoryEntry, error) {
	e := &models.DirectoryEntry{ID: id, Name: name, CreatedAt: time.Now()}
	s.entries = append(s.entries, e)
	return e, nil
}

func (s *entryStore) Update(_ context.Context, id, name string) (*models.DirectoryEntry, error) {
	for _, e := range s.entries {
		if e.ID == id {
			e.Name = name
			return e, nil
		}
	}
	return nil, nil
}

func (s *entryStore) Delete(_ context.Context, id string) (bool, error) {
	for i, e := range s.entries {
		if e.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *entryStore) GetByID(_ context.Context, id string) (*models.DirectoryEntry, error) {
	for _, e := range s.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

func (s *entryStore) List(_ context.Context, _, _ int) ([]*models.DirectoryEntry, error) {
	return s.entries, nil
}

type noAccounts struct{}

func (noAccounts) Create(_ context.Context, rec *models.UserRecord) (*models.UserRecord, error) {
	return rec, nil
}

func (noAccounts) Read(context.Context, string) (*models.UserRecord, error) { return nil, nil }

func (noAccounts) Update(context.Context, string, models.UserPatch) (*models.UserRecord, error) {
	return nil, nil
}

func setupRouter(t *testing.T) (*gin.Engine, *authz.Issuer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	issuer := authz.NewIssuer("routes-test-secret", "cryptoupi")
	widget := humancheck.New(humancheck.Options{}, nil)
	t.Cleanup(func() { _ = widget.Close() })

	registry := verification.NewRegistry(verification.Deps{})
	directory := services.NewDirectoryService(&entryStore{}, nil)
	provisioning := services.NewProvisioningService(noAccounts{}, nil, nil, nil)

	r := gin.New()
	SetupRoutes(r, issuer,
		nil,
		handlers.NewSessionHandler(registry, widget, nil),
		handlers.NewDirectoryHandler(directory, nil),
		handlers.NewAccountHandler(provisioning, nil),
		func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) },
	)
	return r, issuer
}

func do(r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPublicRoutes(t *testing.T) {
	r, _ := setupRouter(t)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/healthz", "", "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/metrics", "", "").Code)

	w := do(r, http.MethodPost, "/auth/phone/sessions", "", "")
	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Session verification.Snapshot `json:"session"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "idle", resp.Session.State)

	w = do(r, http.MethodGet, "/auth/phone/sessions/"+resp.Session.ID, "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminRoutes_RequireAdminToken(t *testing.T) {
	r, issuer := setupRouter(t)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/admin/directory", "", "").Code)

	identity, _, err := issuer.IssueIdentity("+15551234567", "h1", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/admin/directory", identity, "").Code)

	admin, err := issuer.IssueAdmin("ops", authz.RoleAdmin, time.Minute)
	require.NoError(t, err)
	w := do(r, http.MethodPost, "/admin/directory", admin, `{"name":"Ann"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	w = do(r, http.MethodGet, "/admin/directory", admin, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Ann"`)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/admin/accounts/0xabc", admin, "").Code)
}

func TestAdminRoutes_AuditorIsReadOnly(t *testing.T) {
	r, issuer := setupRouter(t)

	auditor, err := issuer.IssueAdmin("qa", authz.RoleAuditor, time.Minute)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/admin/directory", auditor, "").Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodPost, "/admin/directory", auditor, `{"name":"Bob"}`).Code)
}
