package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	httpadp "staff-portal/internal/adapter/http"
	"staff-portal/internal/adapter/middleware"
	"staff-portal/internal/adapter/repository/gormstore"
	"staff-portal/internal/app"
	"staff-portal/internal/config"
	"staff-portal/internal/usecase/account"
	"staff-portal/internal/usecase/review"
	"staff-portal/internal/validation"
)

// startLendingAPI serves a seeded lending API on an httptest server.
func startLendingAPI(t *testing.T) string {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:portal_%s?mode=memory&cache=shared", name)), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, gormstore.Migrate(db))
	require.NoError(t, gormstore.Seed(context.Background(), db, bcrypt.MinCost))

	users := gormstore.NewUserRepository(db)
	loans := gormstore.NewLoanRepository(db)
	tokens := middleware.NewTokens("portal-test", time.Hour, nil)

	e := echo.New()
	e.Validator = validation.New()
	httpadp.Register(e, httpadp.Deps{
		Tokens:       tokens,
		Account:      account.NewUsecase(users, tokens, bcrypt.MinCost),
		Review:       review.NewUsecase(loans, gormstore.NewGormUoW(db)),
		Users:        users,
		Roles:        gormstore.NewRoleRepository(db),
		Branches:     gormstore.NewBranchRepository(db),
		Products:     gormstore.NewProductRepository(db),
		Loans:        loans,
		DocumentRoot: t.TempDir(),
		Log:          zerolog.Nop(),
	})
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv.URL + "/api"
}

type portal struct {
	e   *echo.Echo
	app *app.Container
}

func newPortal(t *testing.T) *portal {
	t.Helper()
	cfg := config.Load()
	cfg.APIBaseURL = startLendingAPI(t)
	cfg.RedisAddr = ""
	cfg.DebounceWindow = 0
	cfg.RetryBase = time.Millisecond
	cfg.HTTPTimeout = 5 * time.Second

	c, err := app.New(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(c.Close)

	e := echo.New()
	New(c).Register(e)
	return &portal{e: e, app: c}
}

func (p *portal) do(t *testing.T, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body string
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = string(raw)
	}
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	p.e.ServeHTTP(rec, req)
	return rec
}

func (p *portal) login(t *testing.T, email string) {
	t.Helper()
	rec := p.do(t, http.MethodPost, "/session/login", map[string]string{"email": email, "password": gormstore.SeedPassword})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

type result struct {
	OK   bool            `json:"ok"`
	Data json.RawMessage `json:"data"`
	View json.RawMessage `json:"view"`
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) result {
	t.Helper()
	var r result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &r), rec.Body.String())
	return r
}

type listView struct {
	Items   []map[string]any `json:"items"`
	Visible []map[string]any `json:"filtered"`
	Error   string           `json:"error"`
}

func TestSessionAndGuards(t *testing.T) {
	p := newPortal(t)

	assert.Equal(t, http.StatusOK, p.do(t, http.MethodGet, "/health", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, p.do(t, http.MethodGet, "/views/products", nil).Code)

	rec := p.do(t, http.MethodPost, "/session/login", map[string]string{"email": "marketing@lending.local", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, p.app.Session.IsAuthenticated())

	p.login(t, "marketing@lending.local")
	assert.True(t, p.app.Session.HasRole("MARKETING"))
	assert.Equal(t, http.StatusOK, p.do(t, http.MethodGet, "/views/products", nil).Code)
	assert.Equal(t, http.StatusForbidden, p.do(t, http.MethodGet, "/views/users", nil).Code)
	assert.Equal(t, http.StatusForbidden, p.do(t, http.MethodGet, "/views/loans", nil).Code)

	assert.Equal(t, http.StatusNoContent, p.do(t, http.MethodPost, "/session/logout", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, p.do(t, http.MethodGet, "/views/workplace", nil).Code)
}

func TestWorkplaceApproveAndReject(t *testing.T) {
	p := newPortal(t)
	p.login(t, "marketing@lending.local")

	r := decodeResult(t, p.do(t, http.MethodPost, "/views/workplace/load", nil))
	require.True(t, r.OK)
	var view struct {
		RoleName string   `json:"roleName"`
		Pending  listView `json:"pending"`
	}
	require.NoError(t, json.Unmarshal(r.View, &view))
	assert.Equal(t, "Marketing", view.RoleName)
	require.Len(t, view.Pending.Items, 2)
	first := int64(view.Pending.Items[0]["id"].(float64))

	r = decodeResult(t, p.do(t, http.MethodPost, fmt.Sprintf("/views/workplace/%d/select", first), nil))
	require.True(t, r.OK)

	// reject without a note never reaches the API
	r = decodeResult(t, p.do(t, http.MethodPost, "/views/workplace/reject", map[string]string{"note": "  "}))
	assert.False(t, r.OK)

	r = decodeResult(t, p.do(t, http.MethodPost, "/views/workplace/approve", map[string]string{"note": "documents ok"}))
	require.True(t, r.OK)
	require.NoError(t, json.Unmarshal(r.View, &view))
	assert.Len(t, view.Pending.Items, 1, "approved loan leaves the queue")

	_, _, selected := p.app.Workplace.Selected()
	assert.False(t, selected, "selection is cleared after a decision")

	// approving with nothing selected does nothing
	r = decodeResult(t, p.do(t, http.MethodPost, "/views/workplace/approve", map[string]string{}))
	assert.False(t, r.OK)
}

func TestProductDeleteWaitsForDialog(t *testing.T) {
	p := newPortal(t)
	p.login(t, "admin@lending.local")

	r := decodeResult(t, p.do(t, http.MethodPost, "/views/products/load", nil))
	require.True(t, r.OK)
	var view listView
	require.NoError(t, json.Unmarshal(r.View, &view))
	require.Len(t, view.Items, 2)
	id := int64(view.Items[0]["id"].(float64))

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() { done <- p.do(t, http.MethodDelete, fmt.Sprintf("/views/products/%d", id), nil) }()

	require.Eventually(t, func() bool {
		return p.do(t, http.MethodGet, "/dialog", nil).Code == http.StatusOK
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, http.StatusNoContent, p.do(t, http.MethodPost, "/dialog/close", map[string]bool{"result": true}).Code)

	select {
	case rec := <-done:
		r = decodeResult(t, rec)
		require.True(t, r.OK)
		require.NoError(t, json.Unmarshal(r.View, &view))
		assert.Len(t, view.Items, 1)
	case <-time.After(3 * time.Second):
		t.Fatal("delete did not finish after the dialog closed")
	}

	assert.Equal(t, http.StatusNotFound, p.do(t, http.MethodPost, "/dialog/close", map[string]bool{"result": true}).Code)
	assert.Equal(t, http.StatusNotFound, p.do(t, http.MethodDelete, "/views/products/9999", nil).Code)
}

func TestFailuresReachErrorModal(t *testing.T) {
	p := newPortal(t)
	p.login(t, "admin@lending.local")

	assert.Equal(t, http.StatusNoContent, p.do(t, http.MethodGet, "/error", nil).Code)

	r := decodeResult(t, p.do(t, http.MethodPost, "/views/branches", map[string]string{"code": "JKT", "location": "Jakarta Barat"}))
	assert.False(t, r.OK)

	rec := p.do(t, http.MethodGet, "/error", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Branch code already exists")

	assert.Equal(t, http.StatusNoContent, p.do(t, http.MethodDelete, "/error", nil).Code)
	assert.Equal(t, http.StatusNoContent, p.do(t, http.MethodGet, "/error", nil).Code)
}

func TestMetricsExposed(t *testing.T) {
	p := newPortal(t)
	p.login(t, "admin@lending.local")
	p.do(t, http.MethodPost, "/views/products/load", nil)

	rec := p.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "portal_api_requests_total")
	assert.Contains(t, rec.Body.String(), "portal_facade_load_duration_seconds")
}
