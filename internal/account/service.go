// Package account runs the sign-in, sign-up and sign-out flows on top of
// the gateway and keeps the session store in step with them.
package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Adithya91-code/Farmchaingpt/internal/gateway"
	"github.com/Adithya91-code/Farmchaingpt/internal/session"
)

var (
	ErrMissingCredentials = errors.New("account: email and password are required")
	ErrNoToken            = errors.New("account: backend returned no token")
)

// Error is a failure reported by the backend. Message is shown to users as is.
type Error struct {
	Op      string
	Message string
}

func (e *Error) Error() string { return e.Message }

// Backend is the subset of the gateway used here.
type Backend interface {
	SignIn(ctx context.Context, email, password string) gateway.Result[gateway.SignInResponse]
	SignUp(ctx context.Context, req gateway.SignUpRequest) gateway.Result[json.RawMessage]
	SignOut(ctx context.Context) error
}

// Service owns the signed-in identity for one session store.
type Service struct {
	client Backend
	store  *session.Store
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used for identity timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(client Backend, store *session.Store, opts ...Option) *Service {
	s := &Service{client: client, store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SignIn authenticates and persists the resulting identity.
func (s *Service) SignIn(ctx context.Context, email, password string) (session.Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return session.Identity{}, ErrMissingCredentials
	}
	res := s.client.SignIn(ctx, email, password)
	if !res.OK() {
		return session.Identity{}, &Error{Op: "signin", Message: res.Error}
	}
	if res.Data.Token == "" {
		return session.Identity{}, ErrNoToken
	}

	id := identityFrom(res.Data, s.now())
	if err := s.store.SaveIdentity(ctx, id); err != nil {
		return session.Identity{}, fmt.Errorf("save identity: %w", err)
	}
	return id, nil
}

// SignUpInput carries the registration form.
type SignUpInput struct {
	Email    string
	Password string
	Name     string
	Location string
	Role     string
}

// SignUp registers the user and then signs them in.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (session.Identity, error) {
	role, err := session.ParseRole(in.Role)
	if err != nil {
		return session.Identity{}, err
	}
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return session.Identity{}, ErrMissingCredentials
	}
	res := s.client.SignUp(ctx, gateway.SignUpRequest{
		Email:    strings.TrimSpace(in.Email),
		Password: in.Password,
		Name:     in.Name,
		Location: in.Location,
		Role:     role.Wire(),
	})
	if !res.OK() {
		return session.Identity{}, &Error{Op: "signup", Message: res.Error}
	}
	return s.SignIn(ctx, in.Email, in.Password)
}

// SignOut destroys the local session.
func (s *Service) SignOut(ctx context.Context) error {
	if err := s.client.SignOut(ctx); err != nil {
		return err
	}
	return s.store.Clear(ctx)
}

// Current returns the rehydrated identity, if any.
func (s *Service) Current(ctx context.Context) (session.Identity, bool, error) {
	return s.store.Identity(ctx)
}

func identityFrom(r gateway.SignInResponse, now time.Time) session.Identity {
	return session.Identity{
		ID:            r.ID.String(),
		Email:         r.Email.String(),
		Role:          session.Role(strings.ToLower(r.Role.String())),
		CreatedAt:     now.UTC().Format(time.RFC3339),
		FarmerID:      r.FarmerID.String(),
		DistributorID: r.DistributorID.String(),
		Name:          r.Name.String(),
		Location:      r.Location.String(),
	}
}
