package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/companies-api/internal/dto"
	"github.com/noah-isme/companies-api/internal/middleware"
	"github.com/noah-isme/companies-api/internal/models"
	"github.com/noah-isme/companies-api/internal/repository"
)

// Scopes granted through user permissions.
const (
	ScopeBasicUser    = "basic_user"
	ScopeAdvancedUser = "advanced_user"
)

const tokenTypeBearer = "bearer"

var (
	// ErrInvalidCredentials indicates an unknown user or a wrong password.
	ErrInvalidCredentials = errors.New("incorrect username or password")
	// ErrInactiveUser indicates the account exists but is disabled.
	ErrInactiveUser = errors.New("inactive user")
)

// AuthService issues bearer tokens and resolves the authenticated user.
type AuthService interface {
	IssueToken(ctx context.Context, req dto.TokenRequest) (dto.TokenResponse, error)
	CurrentUser(ctx context.Context, username string) (dto.UserResponse, error)
}

// TokenIssuer signs access tokens.
type TokenIssuer struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

// NewTokenIssuer constructs an HS256 token issuer.
func NewTokenIssuer(secret string, expiry time.Duration) *TokenIssuer {
	if expiry <= 0 {
		expiry = 30 * time.Minute
	}
	return &TokenIssuer{secret: []byte(secret), expiry: expiry, now: time.Now}
}

// Issue returns a signed token carrying the username as subject and the scopes.
func (i *TokenIssuer) Issue(username string, scopes []string) (string, error) {
	now := i.now()
	claims := jwt.MapClaims{
		"sub":    username,
		"scopes": scopes,
		"iat":    now.Unix(),
		"exp":    now.Add(i.expiry).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

type authService struct {
	uow    repository.UnitOfWork
	issuer *TokenIssuer
	audit  AuditService
	logger zerolog.Logger
}

// NewAuthService constructs the authentication service. audit may be nil.
func NewAuthService(uow repository.UnitOfWork, issuer *TokenIssuer, audit AuditService, logger zerolog.Logger) AuthService {
	return &authService{
		uow:    uow,
		issuer: issuer,
		audit:  audit,
		logger: logger.With().Str("component", "auth_service").Logger(),
	}
}

func (s *authService) IssueToken(ctx context.Context, req dto.TokenRequest) (dto.TokenResponse, error) {
	if err := validateStruct(req); err != nil {
		return dto.TokenResponse{}, err
	}

	user, err := s.authenticate(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrInactiveUser) {
			s.record(ctx, req.Username, AuditOutcomeRejected, map[string]interface{}{"reason": err.Error()})
		}
		return dto.TokenResponse{}, err
	}

	scopes := user.ScopeNames()
	token, err := s.issuer.Issue(user.Username, scopes)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to sign access token")
		return dto.TokenResponse{}, err
	}

	s.record(ctx, user.Username, AuditOutcomeSuccess, map[string]interface{}{"scopes": scopes})
	return dto.TokenResponse{
		AccessToken: token,
		TokenType:   tokenTypeBearer,
		ExpiresIn:   int64(s.issuer.expiry.Seconds()),
	}, nil
}

func (s *authService) CurrentUser(ctx context.Context, username string) (dto.UserResponse, error) {
	user, err := s.findUser(ctx, username)
	if err != nil {
		return dto.UserResponse{}, err
	}
	if user == nil {
		return dto.UserResponse{}, ErrInvalidCredentials
	}
	if user.Disabled {
		return dto.UserResponse{}, ErrInactiveUser
	}
	return dto.UserResponse{Username: user.Username, Disabled: user.Disabled, Scopes: user.ScopeNames()}, nil
}

func (s *authService) authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.findUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.Disabled {
		return nil, ErrInactiveUser
	}
	return user, nil
}

func (s *authService) findUser(ctx context.Context, username string) (*models.User, error) {
	var user *models.User
	err := s.uow.Do(ctx, func(ctx context.Context, store repository.Store) error {
		var err error
		user, err = store.Users().FindByUsername(ctx, username)
		return err
	})
	if err != nil {
		s.logger.Error().Err(err).Str("username", username).Msg("user lookup failed")
		return nil, dependencyOrSelf(err)
	}
	return user, nil
}

func (s *authService) record(ctx context.Context, actor, outcome string, metadata map[string]interface{}) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, AuditEvent{
		Actor:         actor,
		Action:        AuditActionTokenIssue,
		Outcome:       outcome,
		CorrelationID: middleware.CorrelationIDFromContext(ctx),
		Metadata:      metadata,
	})
}

// HashPassword returns the bcrypt hash stored for user accounts.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
