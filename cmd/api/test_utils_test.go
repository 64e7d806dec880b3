package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventadmin/internal/auth"
	"eventadmin/internal/docstore"
	"eventadmin/internal/domain/admindashboard"
	"eventadmin/internal/ratelimiter"

	"github.com/alexedwards/scs/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// fakeIdentity lets each test decide how the identity provider answers.
type fakeIdentity struct {
	signIn  func(email, password string) (auth.Session, auth.TokenPair, error)
	signOut func(s auth.Session) error
	refresh func(token string) (auth.Session, auth.TokenPair, error)

	signedOut []auth.Session
}

func (f *fakeIdentity) SignIn(_ context.Context, email, password string) (auth.Session, auth.TokenPair, error) {
	if f.signIn == nil {
		return auth.Session{}, auth.TokenPair{}, auth.ErrInvalidCredentials
	}
	return f.signIn(email, password)
}

func (f *fakeIdentity) SignOut(_ context.Context, s auth.Session) error {
	f.signedOut = append(f.signedOut, s)
	if f.signOut == nil {
		return nil
	}
	return f.signOut(s)
}

func (f *fakeIdentity) Refresh(_ context.Context, token string) (auth.Session, auth.TokenPair, error) {
	if f.refresh == nil {
		return auth.Session{}, auth.TokenPair{}, auth.ErrInvalidToken
	}
	return f.refresh(token)
}

var testAdmin = auth.Session{AdminID: "admin-1", DisplayName: "Asha", Role: "admin"}

func newTestAuthenticator() *auth.JWTAuthenticator {
	return auth.NewJWTAuthenticator("test-secret", "test-refresh-secret", "eventadmin", "eventadmin", time.Hour, 24*time.Hour)
}

func newTestApplication(t *testing.T, docs docstore.Store, identity identityProvider) *application {
	t.Helper()

	templates, err := newTemplateCache()
	require.NoError(t, err)

	return &application{
		config: config{
			env: "test",
			dashboard: dashboardConfig{
				statsTimeout: 5 * time.Second,
				concurrency:  1,
			},
			auth: authConfig{
				basic: basicConfig{user: "ops", pass: "secret"},
				token: tokenConfig{accessTokenExp: time.Hour, refreshTokenExp: 24 * time.Hour},
			},
			rateLimiter: ratelimiter.Config{Enabled: false},
		},
		logger:        zap.NewNop().Sugar(),
		stats:         admindashboard.NewAggregator(docs),
		identity:      identity,
		authenticator: newTestAuthenticator(),
		rateLimiter:   ratelimiter.NewFixedWindowLimiter(20, time.Minute),
		sessions:      scs.New(),
		templates:     templates,
		formatter:     admindashboard.NewFormatter("", language.English),
	}
}

// seededStore holds two users with two orders between them and three contacts.
func seededStore(t *testing.T) *docstore.Memory {
	t.Helper()

	m := docstore.NewMemory()
	require.NoError(t, m.Put("users", docstore.Document{ID: "u1"}))
	require.NoError(t, m.Put("users", docstore.Document{ID: "u2"}))
	require.NoError(t, m.Put("users/u1/orders", docstore.Document{ID: "o1", Fields: map[string]any{"totalCost": 100.0, "status": "pending"}}))
	require.NoError(t, m.Put("users/u2/orders", docstore.Document{ID: "o2", Fields: map[string]any{"totalCost": 1500.5, "status": "delivered"}}))
	for _, id := range []string{"c1", "c2", "c3"} {
		require.NoError(t, m.Put("contacts", docstore.Document{ID: id}))
	}
	return m
}

func accessToken(t *testing.T, s auth.Session) string {
	t.Helper()

	pair, err := newTestAuthenticator().GenerateTokens(s)
	require.NoError(t, err)
	return pair.AccessToken
}

func executeRequest(req *http.Request, h http.Handler) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func findCookie(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
