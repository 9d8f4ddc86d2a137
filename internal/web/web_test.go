package web

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/cruisedesk/internal/api"
	"github.com/erazemk/cruisedesk/internal/auth"
	"github.com/erazemk/cruisedesk/internal/db"
	"github.com/erazemk/cruisedesk/internal/gateway"
	"github.com/erazemk/cruisedesk/internal/model"
	"github.com/erazemk/cruisedesk/internal/store"
	webembed "github.com/erazemk/cruisedesk/web"
)

const (
	adminEmail = "admin@example.com"
	agentEmail = "agent@example.com"
	password   = "correct-horse"

	destinationsPath = "/inventory/manage-destination"
)

type console struct {
	URL string
	DB  *sql.DB
}

// newConsole starts a backend on a fresh database and a console in front of it.
func newConsole(t *testing.T, opts Options) *console {
	t.Helper()
	database := db.NewTestDB(t)
	backend := httptest.NewServer(api.NewRouter(database, "test-secret", api.Options{}))
	t.Cleanup(backend.Close)

	createUser(t, database, "Ada Admin", adminEmail, model.RoleAdmin)
	createUser(t, database, "Al Agent", agentEmail, model.RoleAgent)

	opts.Client = gateway.New(backend.URL, 5*time.Second)
	h, err := NewRouter(opts)
	require.NoError(t, err)
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &console{URL: srv.URL, DB: database}
}

func createUser(t *testing.T, database *sql.DB, name, email string, role model.Role) {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	_, err = store.CreateUser(context.Background(), database, model.Registration{FullName: name, Email: email, Role: role}, hash)
	require.NoError(t, err)
}

// browser keeps cookies and does not follow redirects.
func browser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func get(t *testing.T, c *http.Client, u string) (*http.Response, string) {
	t.Helper()
	resp, err := c.Get(u)
	require.NoError(t, err)
	return resp, body(t, resp)
}

func post(t *testing.T, c *http.Client, u string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := c.PostForm(u, form)
	require.NoError(t, err)
	return resp, body(t, resp)
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func (c *console) login(t *testing.T, email string) *http.Client {
	t.Helper()
	b := browser(t)
	resp, _ := post(t, b, c.URL+"/login", url.Values{"userName": {email}, "password": {password}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	return b
}

func TestLogin(t *testing.T) {
	c := newConsole(t, Options{})
	b := browser(t)

	resp, _ := post(t, b, c.URL+"/login", url.Values{"userName": {adminEmail}, "password": {password}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))

	resp, page := get(t, b, c.URL+"/dashboard")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, page, "Welcome back, Ada Admin.")
	assert.Contains(t, page, "Cruise Destinations")
}

func TestLoginRejectsBadPassword(t *testing.T) {
	c := newConsole(t, Options{})

	resp, page := post(t, browser(t), c.URL+"/login", url.Values{"userName": {adminEmail}, "password": {"nope"}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, page, "Invalid user name or password.")
}

func TestLoginReturnsToRequestedScreen(t *testing.T) {
	c := newConsole(t, Options{})
	b := browser(t)

	resp, _ := get(t, b, c.URL+destinationsPath+"?page=2&size=10")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	next := destinationsPath + "?page=2&size=10"
	assert.Equal(t, "/login?next="+url.QueryEscape(next), resp.Header.Get("Location"))

	resp, _ = post(t, b, c.URL+"/login", url.Values{"userName": {adminEmail}, "password": {password}, "next": {next}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, next, resp.Header.Get("Location"))
}

func TestLoginIgnoresOffsiteNext(t *testing.T) {
	c := newConsole(t, Options{})

	resp, _ := post(t, browser(t), c.URL+"/login", url.Values{
		"userName": {adminEmail}, "password": {password}, "next": {"//evil.example.com/"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
}

func TestLogout(t *testing.T) {
	c := newConsole(t, Options{})
	b := c.login(t, adminEmail)

	resp, _ := post(t, b, c.URL+"/logout", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp, _ = get(t, b, c.URL+"/dashboard")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Location"), "/login?next="))
}

func TestAgentCannotOpenAdminScreens(t *testing.T) {
	c := newConsole(t, Options{})
	b := c.login(t, agentEmail)

	for _, path := range []string{"/markup", "/inventory/manage-lines", destinationsPath, "/admin"} {
		resp, _ := get(t, b, c.URL+path)
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode, path)
		assert.Equal(t, "/dashboard", resp.Header.Get("Location"), path)
	}

	resp, page := get(t, b, c.URL+"/dashboard")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, page, "Reports")
	assert.NotContains(t, page, "Markup")
	assert.NotContains(t, page, "Cruise Destinations")
}

func TestGroupLeadsToFirstChild(t *testing.T) {
	c := newConsole(t, Options{})
	b := c.login(t, adminEmail)

	resp, _ := get(t, b, c.URL+"/inventory")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/inventory/manage-inventory", resp.Header.Get("Location"))
}

func TestDestinationLifecycle(t *testing.T) {
	c := newConsole(t, Options{})
	b := c.login(t, adminEmail)
	ctx := context.Background()

	resp, page := get(t, b, c.URL+destinationsPath+"?add=1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, page, `name="destinationCode"`)

	// Create.
	resp, _ = post(t, b, c.URL+destinationsPath+"/save", url.Values{
		"destinationCode": {"MIA"}, "destinationName": {"Miami"}, "page": {"1"}, "size": {"5"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, destinationsPath+"?page=1&size=5", resp.Header.Get("Location"))

	_, page = get(t, b, c.URL+resp.Header.Get("Location"))
	assert.Contains(t, page, "Miami")
	assert.Contains(t, page, "Destination added successfully")

	// Update keeps the code.
	resp, _ = post(t, b, c.URL+destinationsPath+"/save", url.Values{
		"destinationCode": {"MIA"}, "destinationName": {"Miami Beach"}, "persisted": {"true"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	d, err := store.GetDestination(ctx, c.DB, "MIA")
	require.NoError(t, err)
	assert.Equal(t, "Miami Beach", d.Name)

	// The delete confirmation names the record.
	_, page = get(t, b, c.URL+destinationsPath+"?delete=MIA")
	assert.Contains(t, page, `value="MIA"`)

	resp, _ = post(t, b, c.URL+destinationsPath+"/delete", url.Values{"key": {"MIA"}, "page": {"1"}, "size": {"5"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	_, page = get(t, b, c.URL+resp.Header.Get("Location"))
	assert.Contains(t, page, "Destination deleted successfully")
	assert.Contains(t, page, "No records found")

	gone, err := store.GetDestination(ctx, c.DB, "MIA")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestDestinationValidation(t *testing.T) {
	c := newConsole(t, Options{})
	b := c.login(t, adminEmail)

	resp, page := post(t, b, c.URL+destinationsPath+"/save", url.Values{"destinationName": {"Nowhere"}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, page, "Destination code is required")
	// The editor keeps what was typed.
	assert.Contains(t, page, `value="Nowhere"`)
}

func TestMarkupRejectsInvertedWindow(t *testing.T) {
	c := newConsole(t, Options{})
	b := c.login(t, adminEmail)

	resp, page := post(t, b, c.URL+"/markup", url.Values{
		"markupPercentage": {"10"}, "startDate": {"2025-02-01"}, "endDate": {"2025-01-01"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, page, "field-error")

	var n int
	require.NoError(t, c.DB.QueryRow("SELECT COUNT(*) FROM markups").Scan(&n))
	assert.Zero(t, n)
}

func TestMarkupCreate(t *testing.T) {
	c := newConsole(t, Options{})
	b := c.login(t, adminEmail)

	resp, _ := post(t, b, c.URL+"/markup", url.Values{
		"markupPercentage": {"12.5"}, "startDate": {"2025-01-01"}, "endDate": {"2025-12-31"}, "isActive": {"true"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	_, page := get(t, b, c.URL+"/markup")
	assert.Contains(t, page, "Markup added successfully")

	var n int
	require.NoError(t, c.DB.QueryRow("SELECT COUNT(*) FROM markups").Scan(&n))
	assert.Equal(t, 1, n)
}

func TestDeparturePortOptions(t *testing.T) {
	c := newConsole(t, Options{})
	ctx := context.Background()
	require.NoError(t, store.CreateDestination(ctx, c.DB, model.Destination{Code: "MIA", Name: "Miami"}))
	_, err := store.CreatePort(ctx, c.DB, model.DeparturePort{Code: "PMIA", Name: "Port of Miami", DestinationCode: "MIA"})
	require.NoError(t, err)
	b := c.login(t, agentEmail)

	resp, page := get(t, b, c.URL+"/inventory/manage-inventory/options/ports?destinationId=MIA")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, page, "Select departure port")
	assert.Contains(t, page, "Port of Miami (PMIA)")

	_, page = get(t, b, c.URL+"/inventory/manage-inventory/options/ports?destinationId=XXX")
	assert.NotContains(t, page, "Port of Miami")
}

func TestCSRFRejectsFormsWithoutToken(t *testing.T) {
	c := newConsole(t, Options{CSRFKey: []byte("0123456789abcdef0123456789abcdef")})

	resp, page := get(t, browser(t), c.URL+"/login")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, page, `name="csrf_token"`)

	resp, _ = post(t, browser(t), c.URL+"/login", url.Values{"userName": {adminEmail}, "password": {password}})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestSafeNext(t *testing.T) {
	for in, want := range map[string]string{
		"":                 "/dashboard",
		"/markup":          "/markup",
		"//evil.example":   "/dashboard",
		"/\\evil.example":  "/dashboard",
		"https://evil.com": "/dashboard",
	} {
		assert.Equal(t, want, safeNext(in), in)
	}
}

func TestVersionedAssets(t *testing.T) {
	c := newConsole(t, Options{})
	b := browser(t)

	_, page := get(t, b, c.URL+"/login")
	assert.Contains(t, page, "/static/app.js?v="+webembed.StaticVersion())

	resp, _ := get(t, b, c.URL+"/static/app.js?v="+webembed.StaticVersion())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Cache-Control"), "immutable")

	resp, _ = get(t, b, c.URL+"/static/app.js")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Cache-Control"))
}
