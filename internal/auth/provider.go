package auth

import (
	"context"
	"errors"
	"fmt"

	"eventadmin/internal/domain/admins"

	"github.com/golang-jwt/jwt/v5"
)

// Provider is the admin identity provider: it signs admins in against the
// admins store, rotates refresh tokens and revokes them on sign-out.
type Provider struct {
	admins admins.Store
	tokens Authenticator
}

func NewProvider(store admins.Store, tokens Authenticator) *Provider {
	return &Provider{admins: store, tokens: tokens}
}

func (p *Provider) SignIn(ctx context.Context, email, password string) (Session, TokenPair, error) {
	admin, err := p.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, admins.ErrNotFound) {
			return Session{}, TokenPair{}, ErrInvalidCredentials
		}
		return Session{}, TokenPair{}, err
	}

	if err := admin.Password.Compare(password); err != nil {
		return Session{}, TokenPair{}, ErrInvalidCredentials
	}

	return p.issue(ctx, admin)
}

// SignOut revokes the stored refresh token of the session's admin.
func (p *Provider) SignOut(ctx context.Context, s Session) error {
	if s.AdminID == "" {
		return ErrInvalidToken
	}
	if err := p.admins.DeleteRefreshToken(ctx, s.AdminID); err != nil {
		return fmt.Errorf("sign out %s: %w", s.AdminID, err)
	}
	return nil
}

// Refresh exchanges a valid, current refresh token for a new token pair.
func (p *Provider) Refresh(ctx context.Context, refreshToken string) (Session, TokenPair, error) {
	token, err := p.tokens.ValidateRefreshToken(refreshToken)
	if err != nil || !token.Valid {
		return Session{}, TokenPair{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Session{}, TokenPair{}, ErrInvalidToken
	}
	adminID, err := claims.GetSubject()
	if err != nil || adminID == "" {
		return Session{}, TokenPair{}, ErrInvalidToken
	}

	saved, err := p.admins.GetRefreshToken(ctx, adminID)
	if err != nil || saved != refreshToken {
		return Session{}, TokenPair{}, ErrInvalidToken
	}

	admin, err := p.admins.GetByID(ctx, adminID)
	if err != nil {
		return Session{}, TokenPair{}, err
	}

	return p.issue(ctx, admin)
}

func (p *Provider) issue(ctx context.Context, admin *admins.Admin) (Session, TokenPair, error) {
	s := Session{
		AdminID:     admin.ID,
		DisplayName: admin.DisplayName,
		Role:        admin.Role,
	}

	pair, err := p.tokens.GenerateTokens(s)
	if err != nil {
		return Session{}, TokenPair{}, err
	}

	if err := p.admins.SaveRefreshToken(ctx, admin.ID, pair.RefreshToken); err != nil {
		return Session{}, TokenPair{}, err
	}

	return s, pair, nil
}
