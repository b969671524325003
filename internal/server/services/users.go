// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login, issuing/refreshing JWTs
// plus server-stored refresh tokens, and the dashboard overview.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/flexrent/flexrent/internal/common"
	"github.com/flexrent/flexrent/internal/dbx"
	"github.com/flexrent/flexrent/internal/logging"
	"github.com/flexrent/flexrent/internal/server/auth"
	"github.com/flexrent/flexrent/internal/server/config"
	"github.com/flexrent/flexrent/internal/server/models"
	"github.com/flexrent/flexrent/internal/server/repositories/repomanager"
)

// Messages returned by Register.
const (
	MsgInvalidFields   = "Invalid fields"
	MsgEmailInUse      = "Email already in use."
	MsgCreateFailed    = "Database error: Failed to create user."
	MsgAccountCreated  = "Account created successfully!"
	recentTransactions = 5
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type RegisterRequest struct {
	FirstName    string `json:"firstName" validate:"min=2"`
	LastName     string `json:"lastName" validate:"min=2"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"min=8,containsany=ABCDEFGHIJKLMNOPQRSTUVWXYZ,containsany=0123456789"`
	AgreeToTerms bool   `json:"agreeToTerms" validate:"eq=true"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=8"`
}

// ActionResult is the outcome of a form-style action.
type ActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Session is returned by a successful login or refresh.
type Session struct {
	TokenPair
	UserID string      `json:"userId"`
	Role   models.Role `json:"role"`
}

// Overview is everything the dashboard home shows about the signed-in user.
type Overview struct {
	User               *models.User
	FullName           string
	TenantProfile      *models.TenantProfile
	Accounts           []*models.Account
	RecentTransactions []*models.Transaction
	Goals              []*models.Goal
}

type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	log                          logging.Logger
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		log:                          log.With("module", "users"),
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Register creates a USER account. Every outcome, including failures, is
// reported through the returned ActionResult.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) ActionResult {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := validate.Struct(req); err != nil {
		return ActionResult{Success: false, Message: MsgInvalidFields}
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.GetByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return ActionResult{Success: false, Message: MsgEmailInUse}
	case !errors.Is(err, common.ErrorNotFound):
		s.log.Error(ctx, "email lookup failed", "error", err)
		return ActionResult{Success: false, Message: MsgCreateFailed}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.log.Error(ctx, "password hashing failed", "error", err)
		return ActionResult{Success: false, Message: MsgCreateFailed}
	}

	_, err = repo.Create(ctx, &models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         models.RoleUser,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return ActionResult{Success: false, Message: MsgEmailInUse}
		}
		s.log.Error(ctx, "user insert failed", "error", err)
		return ActionResult{Success: false, Message: MsgCreateFailed}
	}

	s.log.Info(ctx, "user registered", "email", req.Email)
	return ActionResult{Success: true, Message: MsgAccountCreated}
}

// Login verifies credentials and returns a new session. Any failure, including
// users created without a password, yields common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	if err := validate.Struct(req); err != nil {
		return nil, common.ErrorUnauthorized
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.log.Error(ctx, "user lookup failed", "error", err)
		}
		return nil, common.ErrorUnauthorized
	}

	ok, err := auth.CheckPassword(user.PasswordHash, req.Password)
	if err != nil || !ok {
		return nil, common.ErrorUnauthorized
	}

	pair, err := s.generateTokenPair(ctx, user, s.db)
	if err != nil {
		return nil, err
	}
	return &Session{TokenPair: *pair, UserID: user.ID, Role: user.Role}, nil
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh session. Expired tokens yield ErrRefreshTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*Session, error) {
	return dbx.WithTxResult(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (*Session, error) {
		token, err := s.repomanager.RefreshTokens(tx).Consume(ctx, refreshToken)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, common.ErrorUnauthorized
			}
			return nil, fmt.Errorf("error consuming refresh token: %w", err)
		}
		if token.Expires.Before(time.Now()) {
			return nil, common.ErrRefreshTokenExpired
		}

		user, err := s.repomanager.Users(tx).GetByID(ctx, token.UserID)
		if err != nil {
			return nil, fmt.Errorf("error loading user: %w", err)
		}

		pair, err := s.generateTokenPair(ctx, user, tx)
		if err != nil {
			return nil, err
		}
		return &Session{TokenPair: *pair, UserID: user.ID, Role: user.Role}, nil
	})
}

// Logout revokes a refresh token. Unknown tokens are ignored.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.repomanager.RefreshTokens(s.db).Delete(ctx, refreshToken); err != nil {
		return fmt.Errorf("error deleting refresh token: %w", err)
	}
	return nil
}

// Overview loads the signed-in user with profile, accounts, the most recent
// transactions and goals. A user without a tenant profile gets a nil one.
func (s *UserService) Overview(ctx context.Context, userID string) (*Overview, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile, err := s.repomanager.Tenancy(s.db).TenantProfile(ctx, userID)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	accs, err := s.repomanager.Accounts(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	txs, err := s.repomanager.Transactions(s.db).Recent(ctx, userID, recentTransactions)
	if err != nil {
		return nil, err
	}

	gs, err := s.repomanager.Goals(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Overview{
		User:               user,
		FullName:           user.FullName(),
		TenantProfile:      profile,
		Accounts:           accs,
		RecentTransactions: txs,
		Goals:              gs,
	}, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.repomanager.Users(s.db).List(ctx)
}

// --- helpers below ---

func (s *UserService) generateTokenPair(ctx context.Context, user *models.User, tx dbx.DBTX) (*TokenPair, error) {
	access, err := auth.GenerateToken(user.ID, user.Role, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if err := s.repomanager.RefreshTokens(tx).Create(ctx, user.ID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
