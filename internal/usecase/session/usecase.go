package session

import (
	"context"
	"time"

	"cashcraft-backend/internal/auth"
	"cashcraft-backend/internal/domain/user"
	"cashcraft-backend/pkg/id"
	"cashcraft-backend/pkg/pace"
)

// Simulated processing delays, matching the demo's fixed timers.
const (
	loginDelay    = 1000 * time.Millisecond
	registerDelay = 1500 * time.Millisecond
	profileDelay  = 800 * time.Millisecond
	kycDelay      = 2000 * time.Millisecond
)

type Usecase struct {
	store user.Store
	jwt   *auth.JWTer
	pacer pace.Pacer
}

func NewUsecase(store user.Store, jwt *auth.JWTer, pacer pace.Pacer) *Usecase {
	return &Usecase{store: store, jwt: jwt, pacer: pacer}
}

type RegisterInput struct {
	Name  string
	Email string
	Phone string
}

type ProfileUpdate struct {
	Name  *string
	Email *string
	Phone *string
}

type Session struct {
	User  user.User
	Token string
}

// Login always succeeds: the demo fabricates the account rather than
// checking credentials. The password is accepted and ignored.
func (u *Usecase) Login(ctx context.Context, email, _ string) (*Session, error) {
	if err := u.pacer.Wait(ctx, loginDelay); err != nil {
		return nil, err
	}

	usr := &user.User{
		ID:          id.NewID32(),
		Name:        "John Doe",
		Email:       email,
		Phone:       "+254712345678",
		KYCVerified: false,
		Role:        user.RoleForEmail(email),
		CreditScore: user.DefaultLoginScore,
		CreatedAt:   time.Now().UTC(),
	}
	if err := u.store.Put(ctx, usr); err != nil {
		return nil, err
	}
	return u.session(usr)
}

// Register creates a fresh user with no history: score zero,
// unverified, plain user role. Missing fields stay empty strings;
// input validation is the transport layer's concern.
func (u *Usecase) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	if err := u.pacer.Wait(ctx, registerDelay); err != nil {
		return nil, err
	}

	usr := &user.User{
		ID:          id.NewID32(),
		Name:        in.Name,
		Email:       in.Email,
		Phone:       in.Phone,
		KYCVerified: false,
		Role:        user.RoleUser,
		CreditScore: 0,
		CreatedAt:   time.Now().UTC(),
	}
	if err := u.store.Put(ctx, usr); err != nil {
		return nil, err
	}
	return u.session(usr)
}

func (u *Usecase) Current(ctx context.Context, userID string) (*user.User, error) {
	return u.store.Get(ctx, userID)
}

func (u *Usecase) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*user.User, error) {
	usr, err := u.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := u.pacer.Wait(ctx, profileDelay); err != nil {
		return nil, err
	}

	if upd.Name != nil {
		usr.Name = *upd.Name
	}
	if upd.Email != nil {
		usr.Email = *upd.Email
	}
	if upd.Phone != nil {
		usr.Phone = *upd.Phone
	}
	if err := u.store.Put(ctx, usr); err != nil {
		return nil, err
	}
	return usr, nil
}

// VerifyKYC flips the verification flag after the simulated review
// delay. The payload is opaque: nothing in it is validated or stored.
func (u *Usecase) VerifyKYC(ctx context.Context, userID string, _ map[string]any) (*user.User, error) {
	usr, err := u.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := u.pacer.Wait(ctx, kycDelay); err != nil {
		return nil, err
	}

	usr.KYCVerified = true
	if err := u.store.Put(ctx, usr); err != nil {
		return nil, err
	}
	return usr, nil
}

func (u *Usecase) Logout(ctx context.Context, userID string) error {
	return u.store.Delete(ctx, userID)
}

func (u *Usecase) session(usr *user.User) (*Session, error) {
	tok, err := u.jwt.Issue(usr.ID, string(usr.Role))
	if err != nil {
		return nil, err
	}
	return &Session{User: *usr, Token: tok}, nil
}
