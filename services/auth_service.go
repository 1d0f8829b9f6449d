package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/Dosada05/tournament-registration/models"
	"github.com/Dosada05/tournament-registration/repositories"
	"github.com/Dosada05/tournament-registration/utils"
)

const sessionTTL = 24 * time.Hour

// Session описывает активную сессию администратора.
type Session struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionEvent передаётся подписчикам OnSessionChange.
type SessionEvent struct {
	Email    string
	SignedIn bool
}

// SessionClaims are the JWT claims of an administrator session.
type SessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type AuthService struct {
	userRepo  repositories.UserRepository
	jwtSecret []byte
	clock     clockwork.Clock

	mu        sync.RWMutex
	revoked   map[string]time.Time // jti -> expiry
	observers map[int]func(SessionEvent)
	nextObsID int
}

func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, clock clockwork.Clock) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		clock:     clock,
		revoked:   make(map[string]time.Time),
		observers: make(map[int]func(SessionEvent)),
	}
}

// SignIn проверяет учётные данные администратора и выдаёт подписанный токен сессии.
// Блокировки после неудачных попыток нет.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrAuthInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrAuthInvalidCredentials
	}

	now := s.clock.Now()
	expiresAt := now.Add(sessionTTL)
	claims := SessionClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.notify(SessionEvent{Email: user.Email, SignedIn: true})
	return &Session{Token: token, Email: user.Email, ExpiresAt: expiresAt}, nil
}

// ValidateToken parses a session token and rejects expired or signed-out sessions.
func (s *AuthService) ValidateToken(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthSessionInvalid, err)
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(s.clock.Now()) {
		return nil, ErrAuthSessionInvalid
	}

	s.mu.RLock()
	_, revoked := s.revoked[claims.ID]
	s.mu.RUnlock()
	if revoked {
		return nil, ErrAuthSessionInvalid
	}
	return claims, nil
}

// SignOut revokes the session token for the rest of its lifetime.
func (s *AuthService) SignOut(ctx context.Context, tokenString string) error {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return err
	}

	s.mu.Lock()
	now := s.clock.Now()
	for id, exp := range s.revoked {
		if exp.Before(now) {
			delete(s.revoked, id)
		}
	}
	s.revoked[claims.ID] = claims.ExpiresAt.Time
	s.mu.Unlock()

	s.notify(SessionEvent{Email: claims.Email, SignedIn: false})
	return nil
}

// OnSessionChange регистрирует обработчик входа/выхода. Возвращает функцию отписки.
func (s *AuthService) OnSessionChange(callback func(SessionEvent)) func() {
	s.mu.Lock()
	id := s.nextObsID
	s.nextObsID++
	s.observers[id] = callback
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

func (s *AuthService) notify(event SessionEvent) {
	s.mu.RLock()
	callbacks := make([]func(SessionEvent), 0, len(s.observers))
	for _, cb := range s.observers {
		callbacks = append(callbacks, cb)
	}
	s.mu.RUnlock()

	for _, cb := range callbacks {
		cb(event)
	}
}

// EnsureAdmin creates the administrator account when it does not exist yet.
// It reports whether an account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return false, err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("failed to hash admin password: %w", err)
	}
	if err := s.userRepo.Create(ctx, &models.User{Email: email, PasswordHash: hash}); err != nil {
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
