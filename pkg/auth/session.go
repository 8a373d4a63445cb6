package auth

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/tendant/nexuspoint/pkg/domain"
	"github.com/tendant/nexuspoint/pkg/repository"
	"github.com/tendant/nexuspoint/pkg/tenancy"
)

const (
	refreshTokenLen = 32

	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

type SessionConfig struct {
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	JWTSecret       []byte
	Issuer          string
}

// SessionService issues, refreshes and validates sessions. Every access
// token is bound to a sessions row through its jti claim.
type SessionService struct {
	config   SessionConfig
	sessions *repository.SessionsRepository
	users    *repository.UsersRepository
}

func NewSessionService(config SessionConfig, sessions *repository.SessionsRepository, users *repository.UsersRepository) *SessionService {
	if config.AccessTokenTTL == 0 {
		config.AccessTokenTTL = DefaultAccessTokenTTL
	}
	if config.RefreshTokenTTL == 0 {
		config.RefreshTokenTTL = DefaultRefreshTokenTTL
	}
	return &SessionService{
		config:   config,
		sessions: sessions,
		users:    users,
	}
}

func (s *SessionService) AccessTokenTTL() time.Duration {
	return s.config.AccessTokenTTL
}

func (s *SessionService) RefreshTokenTTL() time.Duration {
	return s.config.RefreshTokenTTL
}

// IssueSessionOpts is client detail recorded in the session metadata.
type IssueSessionOpts struct {
	IP        string
	UserAgent string
}

// AccessTokenClaims are signed into every access token. The jti is the
// session ID.
type AccessTokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// IssueSession creates a new session and returns access/refresh tokens.
// New sessions start without an active organization.
func (s *SessionService) IssueSession(ctx context.Context, userID uuid.UUID, opts IssueSessionOpts) (*domain.TokenPair, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	// Only the hash of the opaque refresh token is stored.
	refreshToken, err := GenerateToken(refreshTokenLen)
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		ID:        uuid.New(),
		UserID:    userID,
		TokenHash: HashToken(refreshToken),
		CreatedAt: now,
		ExpiresAt: now.Add(s.config.RefreshTokenTTL),
	}
	if opts.IP != "" || opts.UserAgent != "" {
		metadata, err := json.Marshal(domain.SessionMetadata{IP: opts.IP, UserAgent: opts.UserAgent})
		if err != nil {
			return nil, err
		}
		session.Metadata = metadata
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	return s.signAccessToken(user, session.ID, refreshToken, now)
}

// RefreshSession issues a new access token for a live refresh token.
// The refresh token itself is returned unchanged.
func (s *SessionService) RefreshSession(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	session, err := s.sessions.GetByTokenHash(ctx, HashToken(refreshToken))
	if err != nil {
		return nil, err
	}

	if err := checkLive(session); err != nil {
		return nil, err
	}

	_ = s.sessions.UpdateLastSeen(ctx, session.ID)

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	return s.signAccessToken(user, session.ID, refreshToken, time.Now())
}

func (s *SessionService) signAccessToken(user *domain.User, sessionID uuid.UUID, refreshToken string, now time.Time) (*domain.TokenPair, error) {
	expiresAt := now.Add(s.config.AccessTokenTTL)
	name := ""
	if user.Name != nil {
		name = *user.Name
	}
	claims := AccessTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Issuer:    s.config.Issuer,
			ID:        sessionID.String(),
		},
		Email: user.Email,
		Name:  name,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessToken, err := token.SignedString(s.config.JWTSecret)
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.config.AccessTokenTTL.Seconds()),
		ExpiresAt:    expiresAt,
	}, nil
}

// RevokeSession ends the session that owns refreshToken (logout).
func (s *SessionService) RevokeSession(ctx context.Context, refreshToken string) error {
	return s.sessions.RevokeByTokenHash(ctx, HashToken(refreshToken))
}

func (s *SessionService) RevokeAllSessions(ctx context.Context, userID uuid.UUID) error {
	return s.sessions.RevokeAllByUserID(ctx, userID)
}

// ValidateAccessToken checks the signature and expiry only. Use Authenticate
// for request auth; it also checks the session row.
func (s *SessionService) ValidateAccessToken(tokenString string) (*AccessTokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessTokenClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return s.config.JWTSecret, nil
	})
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*AccessTokenClaims)
	if !ok || !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	return claims, nil
}

// Authenticate validates an access token and loads the session row it is
// bound to. The returned Caller carries the session's current active
// organization, so a switch takes effect on the next request.
func (s *SessionService) Authenticate(ctx context.Context, accessToken string) (tenancy.Caller, error) {
	claims, err := s.ValidateAccessToken(accessToken)
	if err != nil {
		return tenancy.Caller{}, err
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return tenancy.Caller{}, domain.ErrInvalidToken
	}
	sessionID, err := uuid.Parse(claims.ID)
	if err != nil {
		return tenancy.Caller{}, domain.ErrInvalidToken
	}

	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return tenancy.Caller{}, domain.ErrInvalidToken
		}
		return tenancy.Caller{}, err
	}
	if session.UserID != userID {
		return tenancy.Caller{}, domain.ErrInvalidToken
	}
	if err := checkLive(session); err != nil {
		return tenancy.Caller{}, err
	}

	return tenancy.Caller{
		UserID:               userID,
		SessionID:            session.ID,
		Email:                claims.Email,
		ActiveOrganizationID: session.ActiveOrganizationID,
	}, nil
}

func checkLive(session *domain.Session) error {
	switch {
	case session.RevokedAt != nil:
		return domain.ErrSessionRevoked
	case !session.IsValid():
		return domain.ErrSessionExpired
	}
	return nil
}
