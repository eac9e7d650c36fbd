package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"

	"github.com/example/pagdiwala/internal/infrastructure/store"
	"github.com/example/pagdiwala/internal/model"
	"github.com/google/uuid"
)

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidSignUp      = errors.New("invalid sign-up details")
	ErrInvalidProfile     = errors.New("invalid profile details")
	ErrAccountNotFound    = errors.New("account not found")
)

// SignUpRequest carries the fields a new customer registers with
type SignUpRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	FirstName    string `json:"first_name"`
	MiddleName   string `json:"middle_name"`
	LastName     string `json:"last_name"`
	MobileNumber string `json:"mobile_number"`
	Address      string `json:"address"`
}

// Authenticator signs customers up and signs customers and admins in
type Authenticator struct {
	customers store.CustomerStore
	admins    store.AdminStore
	tokens    *JWTService
	now       func() time.Time
}

func NewAuthenticator(customers store.CustomerStore, admins store.AdminStore, tokens *JWTService) *Authenticator {
	return &Authenticator{customers: customers, admins: admins, tokens: tokens, now: time.Now}
}

// normalizeEmail accepts a bare or display-name address and returns the
// lowercased mailbox, which is what gets stored and looked up.
func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return strings.ToLower(addr.Address), nil
}

// cleanProfile trims p and checks the fields both sign-up and the account
// page require. The returned error carries only the reason.
func cleanProfile(p model.Profile) (model.Profile, error) {
	p = model.Profile{
		FirstName:    strings.TrimSpace(p.FirstName),
		MiddleName:   strings.TrimSpace(p.MiddleName),
		LastName:     strings.TrimSpace(p.LastName),
		MobileNumber: strings.TrimSpace(p.MobileNumber),
		Address:      strings.TrimSpace(p.Address),
	}
	switch {
	case p.FirstName == "" || p.LastName == "":
		return p, errors.New("first and last name are required")
	case !model.ValidMobile(p.MobileNumber):
		return p, fmt.Errorf("mobile number must be %d digits", model.MobileDigits)
	case p.Address == "":
		return p, errors.New("address is required")
	}
	return p, nil
}

func (a *Authenticator) SignUp(ctx context.Context, req SignUpRequest) (*model.Customer, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: email", ErrInvalidSignUp)
	}
	profile, err := cleanProfile(model.Profile{
		FirstName:    req.FirstName,
		MiddleName:   req.MiddleName,
		LastName:     req.LastName,
		MobileNumber: req.MobileNumber,
		Address:      req.Address,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignUp, err)
	}

	if _, err := a.admins.GetAdminByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check admin email: %w", err)
	}
	if _, err := a.customers.GetCustomerByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check customer email: %w", err)
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := a.now()
	c := &model.Customer{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    profile.FirstName,
		MiddleName:   profile.MiddleName,
		LastName:     profile.LastName,
		MobileNumber: profile.MobileNumber,
		Address:      profile.Address,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := a.customers.CreateCustomer(ctx, c); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create customer: %w", err)
	}

	log.Printf("[Auth] Customer %s signed up", c.ID)
	return c, nil
}

// SignIn checks admins first, then customers, and issues an access token
func (a *Authenticator) SignIn(ctx context.Context, email, password string) (Session, string, time.Time, error) {
	if normalized, err := normalizeEmail(email); err == nil {
		email = normalized
	}

	sess, hash, err := a.lookup(ctx, email)
	if errors.Is(err, ErrInvalidCredentials) {
		CheckPassword(password, "")
	}
	if err != nil {
		return Session{}, "", time.Time{}, err
	}
	if !CheckPassword(password, hash) {
		return Session{}, "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := a.tokens.IssueToken(sess)
	if err != nil {
		return Session{}, "", time.Time{}, fmt.Errorf("issue token: %w", err)
	}
	log.Printf("[Auth] %s %s signed in", sess.Role, sess.UserID)
	return sess, token, expiresAt, nil
}

func (a *Authenticator) lookup(ctx context.Context, email string) (Session, string, error) {
	admin, err := a.admins.GetAdminByEmail(ctx, email)
	if err == nil {
		return Session{UserID: admin.ID, Email: admin.Email, Role: model.RoleAdmin}, admin.PasswordHash, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return Session{}, "", fmt.Errorf("lookup admin: %w", err)
	}

	customer, err := a.customers.GetCustomerByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return Session{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, "", fmt.Errorf("lookup customer: %w", err)
	}
	return Session{UserID: customer.ID, Email: customer.Email, Role: model.RoleCustomer}, customer.PasswordHash, nil
}

// Profile returns the contact details of the signed-in account
func (a *Authenticator) Profile(ctx context.Context, sess Session) (model.Profile, error) {
	if sess.IsAdmin() {
		admin, err := a.admins.GetAdminByEmail(ctx, sess.Email)
		if errors.Is(err, store.ErrNotFound) || (err == nil && admin.ID != sess.UserID) {
			return model.Profile{}, ErrAccountNotFound
		}
		if err != nil {
			return model.Profile{}, fmt.Errorf("get admin: %w", err)
		}
		return admin.Profile(), nil
	}

	c, err := a.customers.GetCustomer(ctx, sess.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return model.Profile{}, ErrAccountNotFound
	}
	if err != nil {
		return model.Profile{}, fmt.Errorf("get customer: %w", err)
	}
	return c.Profile(), nil
}

// UpdateProfile validates p and writes it to the admin or customer row behind sess
func (a *Authenticator) UpdateProfile(ctx context.Context, sess Session, p model.Profile) (model.Profile, error) {
	p, err := cleanProfile(p)
	if err != nil {
		return model.Profile{}, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}

	var updated model.Profile
	if sess.IsAdmin() {
		admin, err := a.admins.UpdateAdminProfile(ctx, sess.UserID, p, a.now())
		if err != nil {
			return model.Profile{}, profileWriteError(err)
		}
		updated = admin.Profile()
	} else {
		c, err := a.customers.UpdateCustomerProfile(ctx, sess.UserID, p, a.now())
		if err != nil {
			return model.Profile{}, profileWriteError(err)
		}
		updated = c.Profile()
	}

	log.Printf("[Auth] %s %s updated profile", sess.Role, sess.UserID)
	return updated, nil
}

func profileWriteError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrAccountNotFound
	}
	return fmt.Errorf("update profile: %w", err)
}
