// Package services contains application services for the FlexRent CLI.
// This file defines the session service: register, login, resuming a saved
// session, token refresh and logout.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/flexrent/flexrent/internal/client/client"
	"github.com/flexrent/flexrent/internal/client/repositories/metadata"
	"github.com/flexrent/flexrent/internal/common"
	"github.com/flexrent/flexrent/internal/dbx"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: authenticate against the server and persist the session locally.
//   - Resume: restore the previous session from the saved refresh token.
//   - Refresh: swap the refresh token for a new pair.
//   - Logout: revoke the session on the server (best effort) and wipe it locally.
//   - Ping: check server liveness.
type AuthService interface {
	Register(ctx context.Context, req client.RegisterRequest) error
	Login(ctx context.Context, email string, password []byte) error
	Resume(ctx context.Context) error
	Refresh(ctx context.Context) error
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
	AccessToken() string
	Email() string
}

type authService struct {
	client client.Client
	db     *sql.DB

	mu      sync.RWMutex
	email   string
	session *client.Session
}

// NewAuthService constructs an AuthService bound to the given API client and
// local database.
func NewAuthService(c client.Client, db *sql.DB) AuthService {
	return &authService{client: c, db: db}
}

func (a *authService) repo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

func (a *authService) Register(ctx context.Context, req client.RegisterRequest) error {
	return a.client.Register(ctx, req)
}

func (a *authService) Login(ctx context.Context, email string, password []byte) error {
	s, err := a.client.Login(ctx, email, string(password))
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}

	if err := a.saveSession(ctx, email, s); err != nil {
		return fmt.Errorf("session saving error: %w", err)
	}

	a.setSession(email, s)
	return nil
}

// Resume refreshes the stored token. A rejected token wipes the stale local
// session; with nothing stored it returns client.ErrLocalDataNotAvailable.
func (a *authService) Resume(ctx context.Context) error {
	r := a.repo(a.db)

	email, err := r.Get(ctx, metadata.KeyEmail)
	if err != nil {
		return localErr(err)
	}
	token, err := r.Get(ctx, metadata.KeyRefreshToken)
	if err != nil {
		return localErr(err)
	}

	s, err := a.client.Refresh(ctx, token)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			_ = r.Clear(ctx)
		}
		return err
	}

	if err := a.saveSession(ctx, email, s); err != nil {
		return fmt.Errorf("session saving error: %w", err)
	}
	a.setSession(email, s)
	return nil
}

func localErr(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return client.ErrLocalDataNotAvailable
	}
	return err
}

func (a *authService) Refresh(ctx context.Context) error {
	a.mu.RLock()
	email, cur := a.email, a.session
	a.mu.RUnlock()

	if cur == nil {
		return client.ErrUnauthorized
	}

	s, err := a.client.Refresh(ctx, cur.RefreshToken)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			a.setSession("", nil)
			_ = a.repo(a.db).Clear(ctx)
		}
		return err
	}

	if err := a.saveSession(ctx, email, s); err != nil {
		return fmt.Errorf("session saving error: %w", err)
	}
	a.setSession(email, s)
	return nil
}

// saveSession persists the email, user id and refresh token in a single
// transaction.
func (a *authService) saveSession(ctx context.Context, email string, s *client.Session) error {
	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := a.repo(tx)
		if err := r.Set(ctx, metadata.KeyEmail, email); err != nil {
			return err
		}
		if err := r.Set(ctx, metadata.KeyUserID, s.UserID); err != nil {
			return err
		}
		return r.Set(ctx, metadata.KeyRefreshToken, s.RefreshToken)
	})
}

func (a *authService) setSession(email string, s *client.Session) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.email, a.session = email, s
}

func (a *authService) Logout(ctx context.Context) error {
	a.mu.RLock()
	cur := a.session
	a.mu.RUnlock()

	if cur != nil {
		if err := a.client.Logout(ctx, cur.RefreshToken); err != nil && !client.IsUnavailable(err) {
			return err
		}
	}

	if err := a.repo(a.db).Clear(ctx); err != nil {
		return err
	}
	a.setSession("", nil)
	return nil
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) AccessToken() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.session == nil {
		return ""
	}
	return a.session.AccessToken
}

func (a *authService) Email() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.email
}
