package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/cruisedesk/internal/model"
)

func writeEnvelope(w http.ResponseWriter, httpStatus, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	json.NewEncoder(w).Encode(map[string]any{"status": status, "message": message, "data": data})
}

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second)
}

func TestListDecodesPagedEnvelope(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, RouteDestinations, r.URL.Path)
		gotQuery = r.URL.RawQuery
		writeEnvelope(w, 200, 200, "ok", model.NewPage([]model.Destination{{Code: "MIA", Name: "Miami"}}, 2, 5, 6))
	}))

	page, err := c.Destinations().List(context.Background(), 2, 5)
	require.NoError(t, err)
	assert.Equal(t, "page=2&pageSize=5", gotQuery)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Miami", page.Items[0].Name)
	assert.False(t, page.Items[0].IsNew(), "listed destinations are updated, not created")
}

func TestFailureEnvelopeBecomesAPIError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 200, 409, "Destination code already exists", nil)
	}))

	err := c.Destinations().Create(context.Background(), model.Destination{Code: "MIA", Name: "Miami"})
	var ae *APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 409, ae.Status)
	assert.Equal(t, "Destination code already exists", Message(err))
}

func TestNonJSONErrorBody(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))

	_, err := c.Get(context.Background(), "/api/anything", nil)
	var ae *APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusBadGateway, ae.HTTPStatus)
	assert.Equal(t, "upstream down", ae.Message)
}

func TestUnauthorized(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 401, 401, "not authenticated", nil)
	}))

	_, err := c.Check(context.Background())
	assert.True(t, IsUnauthorized(err))
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, time.Second)
	_, err := c.Get(context.Background(), "/api/auth/check", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))
	assert.Contains(t, Message(err), "could not be reached")
}

func TestCookiesForwardedAndRelayed(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case RouteAuth + "/login":
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "fresh", Path: "/", HttpOnly: true})
			writeEnvelope(w, 200, 200, "logged in", nil)
		case RouteAuth + "/check":
			ck, err := r.Cookie("session")
			if err != nil || ck.Value != "fresh" {
				writeEnvelope(w, 401, 401, "not authenticated", nil)
				return
			}
			writeEnvelope(w, 200, 200, "", model.AuthUser{ID: "1", Email: "a@b.c", Role: model.RoleAdmin})
		}
	}))

	jar := NewCookies([]*http.Cookie{{Name: "session", Value: "stale"}})
	ctx := WithCookies(context.Background(), jar)

	require.NoError(t, c.Login(ctx, model.Credentials{UserName: "a@b.c", Password: "secret"}))
	user, err := c.Check(ctx)
	require.NoError(t, err, "the check right after login must carry the new cookie")
	require.NotNil(t, user)
	assert.Equal(t, model.RoleAdmin, user.Role)

	changed := jar.Drain()
	require.Len(t, changed, 1)
	assert.Equal(t, "fresh", changed[0].Value)
	assert.Empty(t, jar.Changed())
}

func TestClearedCookieStopsForwarding(t *testing.T) {
	var seen []string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie("session"); err == nil {
			seen = append(seen, r.URL.Path)
		}
		if r.URL.Path == RouteAuth+"/logout" {
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "", Path: "/", MaxAge: -1})
		}
		writeEnvelope(w, 200, 200, "", nil)
	}))

	ctx := WithCookies(context.Background(), NewCookies([]*http.Cookie{{Name: "session", Value: "abc"}}))
	require.NoError(t, c.Logout(ctx))
	_, err := c.Get(ctx, "/api/after", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{RouteAuth + "/logout"}, seen)
}

func TestUploadAndDownload(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			f, hdr, err := r.FormFile("image")
			if !assert.NoError(t, err) {
				return
			}
			data, _ := io.ReadAll(f)
			assert.Equal(t, "ship.jpg", hdr.Filename)
			assert.Equal(t, "jpegbytes", string(data))
			writeEnvelope(w, 200, 200, "uploaded", nil)
		case http.MethodGet:
			if r.URL.Path == RouteShips+"/404/image" {
				writeEnvelope(w, 404, 404, "image not found", nil)
				return
			}
			w.Header().Set("Content-Type", "image/jpeg")
			w.Write([]byte("jpegbytes"))
		}
	}))
	ctx := context.Background()

	require.NoError(t, c.UploadShipImage(ctx, 7, "ship.jpg", strings.NewReader("jpegbytes")))

	d, err := c.ShipImage(ctx, 7)
	require.NoError(t, err)
	defer d.Body.Close()
	body, _ := io.ReadAll(d.Body)
	assert.Equal(t, "image/jpeg", d.ContentType)
	assert.Equal(t, "jpegbytes", string(body))

	_, err = c.ShipImage(ctx, 404)
	assert.Equal(t, "image not found", Message(err))
}

func TestCalculateMarkupDecodesNumber(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var q model.MarkupQuote
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&q))
		writeEnvelope(w, 200, 200, "", q.Rule.Calculate(q.BaseFare))
	}))

	rule := model.NewMarkupRule()
	rule.MarkupPercentage = decimal.NewNullDecimal(decimal.NewFromInt(12))
	got, err := c.CalculateMarkup(context.Background(), model.MarkupQuote{Rule: rule, BaseFare: decimal.NewFromInt(1000)})
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(120)), "got %s", got)
}
