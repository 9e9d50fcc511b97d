package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"events-webapp/database"
	"events-webapp/model"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// Code identifies a sign-in failure the way hosted identity providers report them.
type Code string

const (
	CodeInvalidCredential Code = "auth/invalid-credential"
	CodeUserNotFound      Code = "auth/user-not-found"
	CodeWrongPassword     Code = "auth/wrong-password"
	CodeTooManyRequests   Code = "auth/too-many-requests"
)

const (
	MaxFailedAttempts = 5
	FailureWindow     = 15 * time.Minute
)

type Error struct {
	Code Code
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf returns the provider code carried by err, or "" for other errors.
func CodeOf(err error) Code {
	var authErr *Error
	if errors.As(err, &authErr) {
		return authErr.Code
	}
	return ""
}

type Identity struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (i Identity) DisplayName() string {
	return model.DisplayName(i.Email)
}

type Session struct {
	Token     string    `json:"token"`
	Identity  Identity  `json:"identity"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Provider signs admins in against the users collection and issues HS256 tokens.
type Provider struct {
	users      database.Collection[model.User]
	signingKey []byte
	ttl        time.Duration
	now        func() time.Time

	mu       sync.Mutex
	failures map[string][]time.Time
}

func NewProvider(users database.Collection[model.User], signingKey string, ttl time.Duration) *Provider {
	return &Provider{
		users:      users,
		signingKey: []byte(signingKey),
		ttl:        ttl,
		now:        time.Now,
		failures:   map[string][]time.Time{},
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isPasswordHashCorrect(dbHash, pass string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(dbHash), []byte(pass))
	return err == nil
}

// SignIn checks the credentials and returns a signed session token.
func (p *Provider) SignIn(ctx context.Context, email, password string) (Session, error) {
	email = normalizeEmail(email)
	if p.locked(email) {
		return Session{}, &Error{Code: CodeTooManyRequests}
	}

	user, err := p.users.FindBy(ctx, "email", email)
	if errors.Is(err, database.ErrNotFound) {
		p.recordFailure(email)
		return Session{}, &Error{Code: CodeUserNotFound}
	}
	if err != nil {
		return Session{}, fmt.Errorf("sign in: %w", err)
	}

	if user.HashedPassword == "" {
		return Session{}, &Error{Code: CodeInvalidCredential}
	}
	if !isPasswordHashCorrect(user.HashedPassword, password) {
		p.recordFailure(email)
		return Session{}, &Error{Code: CodeWrongPassword}
	}
	p.clearFailures(email)

	identity := Identity{Email: user.Email, Role: user.Role}
	expiresAt := p.now().Add(p.ttl)

	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["email"] = identity.Email
	claims["role"] = identity.Role
	claims["exp"] = expiresAt.Unix()

	signed, err := token.SignedString(p.signingKey)
	if err != nil {
		return Session{}, fmt.Errorf("sign token: %w", err)
	}
	return Session{Token: signed, Identity: identity, ExpiresAt: expiresAt}, nil
}

// Verify parses a session token and returns the identity it was issued to.
func (p *Provider) Verify(tokenString string) (Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.signingKey, nil
	})
	if err != nil {
		return Identity{}, &Error{Code: CodeInvalidCredential, Err: err}
	}
	identity, ok := IdentityFromToken(token)
	if !ok || !token.Valid {
		return Identity{}, &Error{Code: CodeInvalidCredential}
	}
	return identity, nil
}

// IdentityFromToken reads the identity claims of an already validated token.
func IdentityFromToken(token *jwt.Token) (Identity, bool) {
	if token == nil {
		return Identity{}, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, false
	}
	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return Identity{}, false
	}
	role, _ := claims["role"].(string)
	return Identity{Email: email, Role: role}, true
}

// EnsureUser creates the account when no user with that email exists yet.
func (p *Provider) EnsureUser(ctx context.Context, email, password, role string) error {
	email = normalizeEmail(email)
	_, err := p.users.FindBy(ctx, "email", email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	_, err = p.users.Insert(ctx, model.User{
		Email:          email,
		HashedPassword: string(hash),
		Role:           role,
		CreatedAt:      model.At(p.now()),
	})
	return err
}

func (p *Provider) locked(email string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.recent(email)) >= MaxFailedAttempts
}

// recent drops failures older than the window. Callers hold mu.
func (p *Provider) recent(email string) []time.Time {
	cutoff := p.now().Add(-FailureWindow)
	kept := p.failures[email][:0]
	for _, at := range p.failures[email] {
		if at.After(cutoff) {
			kept = append(kept, at)
		}
	}
	if len(kept) == 0 {
		delete(p.failures, email)
		return nil
	}
	p.failures[email] = kept
	return kept
}

func (p *Provider) recordFailure(email string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failures[email] = append(p.recent(email), p.now())
}

func (p *Provider) clearFailures(email string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.failures, email)
}
