// Package services contains server-side business logic. AuthService handles
// registration with e-mail verification, login and token authentication.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/notify"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/accounts"
	"github.com/google/uuid"
)

// Outcome messages returned to callers.
const (
	MsgEmailExists      = "email already exists"
	MsgRegistered       = "successfully registered, please verify your email"
	MsgInvalidCode      = "invalid verification code"
	MsgAccountConfirmed = "account confirmed"
	MsgLoginSuccessful  = "login successful"
	MsgBadCredentials   = "username or password is wrong"
	MsgEmailNotVerified = "email is not verified"
)

const maxCodeAttempts = 3

// Result is the structured outcome of every AuthService operation. Business
// failures are reported here; the error return is kept for infrastructure
// faults.
type Result struct {
	Message   string
	Success   bool
	Token     string
	Principal *models.Principal
}

func success(msg string) *Result { return &Result{Message: msg, Success: true} }
func failure(msg string) *Result { return &Result{Message: msg} }

// RegisterRequest carries registration fields already checked for shape by
// the gateway.
type RegisterRequest struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// TokenIssuer mints and verifies session tokens.
type TokenIssuer interface {
	Generate(subject string, roles []string) (string, error)
	Parse(token string) (*auth.Claims, error)
}

type AuthService struct {
	accounts accounts.Repository
	hasher   auth.Hasher
	tokens   TokenIssuer
	notifier notify.Notifier
	logger   logging.Logger
	metrics  *metrics.Metrics

	requireVerifiedEmail bool
	notifyAsync          bool
	notifyTimeout        time.Duration

	newCode   func() string
	dummyHash string
	pending   sync.WaitGroup
}

// NewAuthService wires the service. m may be nil.
func NewAuthService(
	repo accounts.Repository,
	hasher auth.Hasher,
	tokens TokenIssuer,
	notifier notify.Notifier,
	cfg *config.Config,
	logger logging.Logger,
	m *metrics.Metrics,
) (*AuthService, error) {
	dummyPassword, err := common.MakeRandHexString(16)
	if err != nil {
		return nil, fmt.Errorf("error preparing dummy hash: %w", err)
	}
	dummy, err := hasher.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("error preparing dummy hash: %w", err)
	}

	return &AuthService{
		accounts:             repo,
		hasher:               hasher,
		tokens:               tokens,
		notifier:             notifier,
		logger:               logger.With("module", "auth_service"),
		metrics:              m,
		requireVerifiedEmail: cfg.RequireVerifiedEmailForLogin,
		notifyAsync:          cfg.NotifyAsync,
		notifyTimeout:        cfg.NotifyTimeout,
		newCode:              uuid.NewString,
		dummyHash:            dummy,
	}, nil
}

// Register creates a pending account and sends its verification code. A
// duplicate email is rejected before anything is written. Notification
// failures never change the outcome.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*Result, error) {
	exists, err := s.accounts.ExistsByEmail(ctx, req.Email)
	if err != nil {
		s.metrics.Registration(metrics.StatusError)
		return nil, fmt.Errorf("error checking email: %w", err)
	}
	if exists {
		s.metrics.Registration(metrics.StatusFailure)
		s.logger.Info(ctx, "registration rejected, email exists", "email", req.Email)
		return failure(MsgEmailExists), nil
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.metrics.Registration(metrics.StatusError)
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	account, err := s.saveNewAccount(ctx, req, hash)
	if errors.Is(err, common.ErrorAlreadyExists) {
		// lost a race with a concurrent registration
		s.metrics.Registration(metrics.StatusFailure)
		s.logger.Info(ctx, "registration rejected, email exists", "email", req.Email)
		return failure(MsgEmailExists), nil
	}
	if err != nil {
		s.metrics.Registration(metrics.StatusError)
		return nil, err
	}

	s.metrics.Registration(metrics.StatusSuccess)
	s.logger.Info(ctx, "account registered", "email", account.Email, "id", account.ID)

	s.notify(ctx, account.Email, *account.VerificationCode)

	return success(MsgRegistered), nil
}

// saveNewAccount persists a fresh pending account, drawing a new code when
// the store reports a code collision.
func (s *AuthService) saveNewAccount(ctx context.Context, req RegisterRequest, hash string) (*models.Account, error) {
	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		code := s.newCode()
		account := &models.Account{
			FirstName:        req.FirstName,
			LastName:         req.LastName,
			Email:            req.Email,
			PasswordHash:     hash,
			Roles:            []models.Role{models.RoleUser},
			Enabled:          false,
			VerificationCode: &code,
		}

		saved, err := s.accounts.Save(ctx, account)
		if errors.Is(err, common.ErrVerificationCodeConflict) {
			s.logger.Warn(ctx, "verification code collision, regenerating", "attempt", attempt)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("error saving account: %w", err)
		}
		return saved, nil
	}
	return nil, fmt.Errorf("error saving account: %w", common.ErrVerificationCodeConflict)
}

func (s *AuthService) notify(ctx context.Context, email, code string) {
	if !s.notifyAsync {
		s.sendVerification(ctx, email, code)
		return
	}

	ctx = context.WithoutCancel(ctx)
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		s.sendVerification(ctx, email, code)
	}()
}

func (s *AuthService) sendVerification(ctx context.Context, email, code string) {
	if s.notifyTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.notifyTimeout)
		defer cancel()
	}

	if err := s.notifier.SendVerification(ctx, email, code); err != nil {
		s.metrics.Notification(metrics.StatusFailure)
		s.logger.Warn(ctx, "verification notification failed", "email", email, "error", err)
		return
	}
	s.metrics.Notification(metrics.StatusSuccess)
}

// Wait blocks until asynchronous notifications have finished.
func (s *AuthService) Wait() {
	s.pending.Wait()
}

// VerifyEmail enables the account matching email and code. The code is
// cleared in the same step, so a second attempt with it fails.
func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) (*Result, error) {
	if email == "" || code == "" {
		s.metrics.Verification(metrics.StatusFailure)
		return failure(MsgInvalidCode), nil
	}

	account, err := s.accounts.ConfirmEmail(ctx, email, code)
	if errors.Is(err, common.ErrorNotFound) {
		s.metrics.Verification(metrics.StatusFailure)
		s.logger.Info(ctx, "verification rejected", "email", email)
		return failure(MsgInvalidCode), nil
	}
	if err != nil {
		s.metrics.Verification(metrics.StatusError)
		return nil, fmt.Errorf("error confirming email: %w", err)
	}

	s.metrics.Verification(metrics.StatusSuccess)
	s.logger.Info(ctx, "account confirmed", "email", account.Email)
	return success(MsgAccountConfirmed), nil
}

// Login checks credentials and returns a signed token on success. A missing
// account and a wrong password produce the same outcome.
func (s *AuthService) Login(ctx context.Context, username, password string) (*Result, error) {
	principal, err := s.checkCredentials(ctx, username, password)
	switch {
	case errors.Is(err, common.ErrorUnauthorized):
		s.metrics.Login(metrics.StatusFailure)
		s.logger.Info(ctx, "login rejected", "username", username)
		return failure(MsgBadCredentials), nil
	case errors.Is(err, common.ErrEmailNotVerified):
		s.metrics.Login(metrics.StatusFailure)
		s.logger.Info(ctx, "login rejected, email not verified", "username", username)
		return failure(MsgEmailNotVerified), nil
	case err != nil:
		s.metrics.Login(metrics.StatusError)
		return nil, err
	}

	token, err := s.tokens.Generate(principal.Username, models.RoleNames(principal.Roles))
	if err != nil {
		s.metrics.Login(metrics.StatusError)
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	s.metrics.Login(metrics.StatusSuccess)
	s.logger.Info(ctx, "login successful", "username", principal.Username)

	res := success(MsgLoginSuccessful)
	res.Token = token
	res.Principal = principal
	return res, nil
}

// checkCredentials returns the principal for valid credentials,
// common.ErrorUnauthorized for a missing account or wrong password and
// common.ErrEmailNotVerified when verification is required but pending.
func (s *AuthService) checkCredentials(ctx context.Context, username, password string) (*models.Principal, error) {
	account, err := s.accounts.FindByEmail(ctx, username)
	if errors.Is(err, common.ErrorNotFound) {
		// keep timing close to the wrong-password path
		_, _ = s.hasher.Verify(password, s.dummyHash)
		return nil, common.ErrorUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("error loading account: %w", err)
	}

	view := account.AuthenticationView()

	ok, err := s.hasher.Verify(password, view.PasswordHash)
	if err != nil {
		s.logger.Error(ctx, "stored password hash unreadable", "username", username, "error", err)
		return nil, common.ErrorUnauthorized
	}
	if !ok {
		return nil, common.ErrorUnauthorized
	}

	if s.requireVerifiedEmail && !view.Enabled {
		return nil, common.ErrEmailNotVerified
	}

	return &models.Principal{Username: view.Username, Roles: view.Roles}, nil
}

// Authenticate verifies a session token and returns its principal.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.Principal, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		s.logger.Debug(ctx, "token rejected", "error", err)
		return nil, err
	}
	return &models.Principal{Username: claims.Subject, Roles: models.RolesFromNames(claims.Roles)}, nil
}
