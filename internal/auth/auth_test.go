package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"eventadmin/internal/domain/admins"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestAuthenticator() *JWTAuthenticator {
	return NewJWTAuthenticator("access-secret", "refresh-secret", "eventadmin", "eventadmin", time.Hour, 24*time.Hour)
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	a := newTestAuthenticator()

	pair, err := a.GenerateTokens(Session{AdminID: "adm-1", DisplayName: "Asha", Role: "admin"})
	require.NoError(t, err)

	tok, err := a.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	s, err := SessionFromToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "adm-1", s.AdminID)
	assert.Equal(t, "Asha", s.DisplayName)
	assert.Equal(t, "admin", s.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), s.ExpiresAt, time.Minute)
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	a := newTestAuthenticator()
	pair, err := a.GenerateTokens(Session{AdminID: "adm-1"})
	require.NoError(t, err)

	_, err = a.ValidateAccessToken(pair.RefreshToken)
	assert.Error(t, err)

	_, err = a.ValidateRefreshToken(pair.AccessToken)
	assert.Error(t, err)

	_, err = a.ValidateRefreshToken(pair.RefreshToken)
	assert.NoError(t, err)
}

func TestExpiredAccessToken(t *testing.T) {
	a := newTestAuthenticator()
	a.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	pair, err := a.GenerateTokens(Session{AdminID: "adm-1"})
	require.NoError(t, err)

	a.now = time.Now
	_, err = a.ValidateAccessToken(pair.AccessToken)
	assert.Error(t, err)
}

func TestWrongSecret(t *testing.T) {
	pair, err := newTestAuthenticator().GenerateTokens(Session{AdminID: "adm-1"})
	require.NoError(t, err)

	other := NewJWTAuthenticator("other", "other", "eventadmin", "eventadmin", time.Hour, time.Hour)
	_, err = other.ValidateAccessToken(pair.AccessToken)
	assert.Error(t, err)
}

func TestSessionFromTokenNil(t *testing.T) {
	_, err := SessionFromToken(nil)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

type mockAdminStore struct {
	mock.Mock
}

func (m *mockAdminStore) Create(ctx context.Context, a *admins.Admin) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *mockAdminStore) GetByID(ctx context.Context, id string) (*admins.Admin, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*admins.Admin), args.Error(1)
}

func (m *mockAdminStore) GetByEmail(ctx context.Context, email string) (*admins.Admin, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*admins.Admin), args.Error(1)
}

func (m *mockAdminStore) SaveRefreshToken(ctx context.Context, id, token string) error {
	args := m.Called(ctx, id, token)
	return args.Error(0)
}

func (m *mockAdminStore) DeleteRefreshToken(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockAdminStore) GetRefreshToken(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func newAdmin(t *testing.T) *admins.Admin {
	t.Helper()
	a := &admins.Admin{ID: "adm-1", Email: "asha@example.com", DisplayName: "Asha", Role: "admin"}
	require.NoError(t, a.Password.Set("correct horse"))
	return a
}

func TestProviderSignIn(t *testing.T) {
	ctx := context.Background()
	store := new(mockAdminStore)
	admin := newAdmin(t)
	store.On("GetByEmail", ctx, "asha@example.com").Return(admin, nil)
	store.On("SaveRefreshToken", ctx, "adm-1", mock.AnythingOfType("string")).Return(nil)

	p := NewProvider(store, newTestAuthenticator())
	s, pair, err := p.SignIn(ctx, "asha@example.com", "correct horse")

	require.NoError(t, err)
	assert.Equal(t, "Asha", s.DisplayName)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	store.AssertExpectations(t)
}

func TestProviderSignInWrongPassword(t *testing.T) {
	ctx := context.Background()
	store := new(mockAdminStore)
	store.On("GetByEmail", ctx, "asha@example.com").Return(newAdmin(t), nil)

	_, _, err := NewProvider(store, newTestAuthenticator()).SignIn(ctx, "asha@example.com", "nope")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	store.AssertNotCalled(t, "SaveRefreshToken", mock.Anything, mock.Anything, mock.Anything)
}

func TestProviderSignInUnknownEmail(t *testing.T) {
	ctx := context.Background()
	store := new(mockAdminStore)
	store.On("GetByEmail", ctx, "ghost@example.com").Return(nil, admins.ErrNotFound)

	_, _, err := NewProvider(store, newTestAuthenticator()).SignIn(ctx, "ghost@example.com", "x")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestProviderSignOut(t *testing.T) {
	ctx := context.Background()
	store := new(mockAdminStore)
	store.On("DeleteRefreshToken", ctx, "adm-1").Return(nil)

	err := NewProvider(store, newTestAuthenticator()).SignOut(ctx, Session{AdminID: "adm-1"})

	assert.NoError(t, err)
	store.AssertExpectations(t)
}

func TestProviderSignOutFailure(t *testing.T) {
	ctx := context.Background()
	store := new(mockAdminStore)
	boom := errors.New("db down")
	store.On("DeleteRefreshToken", ctx, "adm-1").Return(boom)

	err := NewProvider(store, newTestAuthenticator()).SignOut(ctx, Session{AdminID: "adm-1"})

	assert.ErrorIs(t, err, boom)
}

func TestProviderSignOutWithoutSession(t *testing.T) {
	err := NewProvider(new(mockAdminStore), newTestAuthenticator()).SignOut(context.Background(), Session{})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestProviderRefresh(t *testing.T) {
	ctx := context.Background()
	tokens := newTestAuthenticator()
	old, err := tokens.GenerateTokens(Session{AdminID: "adm-1"})
	require.NoError(t, err)

	store := new(mockAdminStore)
	store.On("GetRefreshToken", ctx, "adm-1").Return(old.RefreshToken, nil)
	store.On("GetByID", ctx, "adm-1").Return(newAdmin(t), nil)
	store.On("SaveRefreshToken", ctx, "adm-1", mock.AnythingOfType("string")).Return(nil)

	s, pair, err := NewProvider(store, tokens).Refresh(ctx, old.RefreshToken)

	require.NoError(t, err)
	assert.Equal(t, "adm-1", s.AdminID)
	assert.NotEmpty(t, pair.AccessToken)
	store.AssertExpectations(t)
}

func TestProviderRefreshMismatch(t *testing.T) {
	ctx := context.Background()
	tokens := newTestAuthenticator()
	old, err := tokens.GenerateTokens(Session{AdminID: "adm-1"})
	require.NoError(t, err)

	store := new(mockAdminStore)
	store.On("GetRefreshToken", ctx, "adm-1").Return("", nil)

	_, _, err = NewProvider(store, tokens).Refresh(ctx, old.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, _, err = NewProvider(store, tokens).Refresh(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
