package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/example/pagdiwala/internal/infrastructure/store"
	"github.com/example/pagdiwala/internal/infrastructure/store/mocks"
	"github.com/example/pagdiwala/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthenticator(t *testing.T) (*Authenticator, *mocks.MockStore) {
	t.Helper()
	useMinCost(t)

	ms := mocks.NewMockStore()
	hash, err := HashPassword("admin-password")
	require.NoError(t, err)
	ms.AddAdmin(model.AdminUser{ID: "admin-1", Email: "owner@pagdiwala.in", PasswordHash: hash, FirstName: "Owner"})

	return NewAuthenticator(ms, ms, newTestJWTService()), ms
}

func validSignUp() SignUpRequest {
	return SignUpRequest{
		Email:        "kiran@example.com",
		Password:     "safa-lover-99",
		FirstName:    "Kiran",
		LastName:     "Bhati",
		MobileNumber: "9812345678",
		Address:      "Nai Sarak, Jaipur",
	}
}

// ============================================
// SignUp Tests
// ============================================

func TestAuthenticator_SignUp_Success(t *testing.T) {
	a, ms := newTestAuthenticator(t)

	c, err := a.SignUp(context.Background(), validSignUp())

	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.NotEqual(t, "safa-lover-99", c.PasswordHash)
	stored, err := ms.GetCustomerByEmail(context.Background(), "kiran@example.com")
	require.NoError(t, err)
	assert.Equal(t, c.ID, stored.ID)
	assert.True(t, CheckPassword("safa-lover-99", stored.PasswordHash))
}

func TestAuthenticator_SignUp_EmailTaken(t *testing.T) {
	a, _ := newTestAuthenticator(t)
	_, err := a.SignUp(context.Background(), validSignUp())
	require.NoError(t, err)

	req := validSignUp()
	req.Email = "KIRAN@example.com"
	_, err = a.SignUp(context.Background(), req)
	assert.ErrorIs(t, err, ErrEmailTaken)

	req.Email = "owner@pagdiwala.in"
	_, err = a.SignUp(context.Background(), req)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthenticator_SignUp_NormalizesEmail(t *testing.T) {
	a, ms := newTestAuthenticator(t)
	req := validSignUp()
	req.Email = "  Kiran Bhati <Kiran@Example.COM> "

	c, err := a.SignUp(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "kiran@example.com", c.Email)
	stored, err := ms.GetCustomer(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "kiran@example.com", stored.Email)

	// The display-name form of an admin address is still taken
	req.Email = "Shop Owner <OWNER@pagdiwala.in>"
	_, err = a.SignUp(context.Background(), req)
	assert.ErrorIs(t, err, ErrEmailTaken)

	sess, _, _, err := a.SignIn(context.Background(), "KIRAN@example.com", "safa-lover-99")
	require.NoError(t, err)
	assert.Equal(t, c.ID, sess.UserID)
}

func TestAuthenticator_SignUp_Mobile(t *testing.T) {
	a, _ := newTestAuthenticator(t)

	tests := []struct {
		name   string
		mobile string
		ok     bool
	}{
		{"ten digits", "9812345678", true},
		{"padded", " 9812345679 ", true},
		{"nine digits", "981234567", false},
		{"country code", "+919812345678", false},
		{"letters", "98123abcde", false},
		{"empty", "", false},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSignUp()
			req.Email = fmt.Sprintf("guest%d@example.com", i)
			req.MobileNumber = tt.mobile

			c, err := a.SignUp(context.Background(), req)

			if tt.ok {
				require.NoError(t, err)
				assert.Len(t, c.MobileNumber, 10)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidSignUp)
		})
	}
}

func TestAuthenticator_SignUp_Invalid(t *testing.T) {
	a, _ := newTestAuthenticator(t)

	bad := validSignUp()
	bad.Email = "not-an-email"
	_, err := a.SignUp(context.Background(), bad)
	assert.ErrorIs(t, err, ErrInvalidSignUp)

	bad = validSignUp()
	bad.LastName = " "
	_, err = a.SignUp(context.Background(), bad)
	assert.ErrorIs(t, err, ErrInvalidSignUp)

	bad = validSignUp()
	bad.Address = ""
	_, err = a.SignUp(context.Background(), bad)
	assert.ErrorIs(t, err, ErrInvalidSignUp)

	bad = validSignUp()
	bad.Password = "short"
	_, err = a.SignUp(context.Background(), bad)
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

// ============================================
// SignIn Tests
// ============================================

func TestAuthenticator_SignIn_Customer(t *testing.T) {
	a, _ := newTestAuthenticator(t)
	c, err := a.SignUp(context.Background(), validSignUp())
	require.NoError(t, err)

	sess, token, expiresAt, err := a.SignIn(context.Background(), "kiran@example.com", "safa-lover-99")

	require.NoError(t, err)
	assert.Equal(t, Session{UserID: c.ID, Email: "kiran@example.com", Role: model.RoleCustomer}, sess)
	assert.True(t, expiresAt.After(time.Now()))
	parsed, err := a.tokens.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, sess, parsed)
}

func TestAuthenticator_SignIn_Admin(t *testing.T) {
	a, _ := newTestAuthenticator(t)

	sess, _, _, err := a.SignIn(context.Background(), "owner@pagdiwala.in", "admin-password")

	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, sess.Role)
	assert.Equal(t, "admin-1", sess.UserID)
}

func TestAuthenticator_SignIn_BadCredentials(t *testing.T) {
	a, _ := newTestAuthenticator(t)
	_, err := a.SignUp(context.Background(), validSignUp())
	require.NoError(t, err)

	_, _, _, err = a.SignIn(context.Background(), "kiran@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, _, err = a.SignIn(context.Background(), "nobody@example.com", "whatever-123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

// failingAdmins is an AdminStore whose lookups fail
type failingAdmins struct{}

func (failingAdmins) GetAdminByEmail(ctx context.Context, email string) (*model.AdminUser, error) {
	return nil, errors.New("connection refused")
}

func (failingAdmins) UpdateAdminProfile(ctx context.Context, id string, p model.Profile, updatedAt time.Time) (*model.AdminUser, error) {
	return nil, errors.New("connection refused")
}

func TestAuthenticator_SignIn_StoreError(t *testing.T) {
	ms := mocks.NewMockStore()
	a := NewAuthenticator(ms, failingAdmins{}, newTestJWTService())

	_, _, _, err := a.SignIn(context.Background(), "x@example.com", "password-1")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
	assert.NotErrorIs(t, err, store.ErrNotFound)
}

// ============================================
// Profile Tests
// ============================================

func validProfile() model.Profile {
	return model.Profile{
		FirstName:    "Kiran",
		MiddleName:   "Singh",
		LastName:     "Rathore",
		MobileNumber: "9001122334",
		Address:      "Sardarpura, Jodhpur",
	}
}

func TestAuthenticator_UpdateProfile_Customer(t *testing.T) {
	a, ms := newTestAuthenticator(t)
	c, err := a.SignUp(context.Background(), validSignUp())
	require.NoError(t, err)
	sess := Session{UserID: c.ID, Email: c.Email, Role: model.RoleCustomer}

	p := validProfile()
	p.Address = "  Sardarpura, Jodhpur  "
	updated, err := a.UpdateProfile(context.Background(), sess, p)

	require.NoError(t, err)
	assert.Equal(t, validProfile(), updated)
	stored, err := ms.GetCustomer(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rathore", stored.LastName)
	assert.Equal(t, "Sardarpura, Jodhpur", stored.Address)
	assert.Equal(t, c.Email, stored.Email)
	assert.Equal(t, c.PasswordHash, stored.PasswordHash)

	got, err := a.Profile(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, validProfile(), got)
}

func TestAuthenticator_UpdateProfile_Admin(t *testing.T) {
	a, ms := newTestAuthenticator(t)
	sess := Session{UserID: "admin-1", Email: "owner@pagdiwala.in", Role: model.RoleAdmin}

	updated, err := a.UpdateProfile(context.Background(), sess, validProfile())

	require.NoError(t, err)
	assert.Equal(t, "9001122334", updated.MobileNumber)
	admin, err := ms.GetAdminByEmail(context.Background(), "owner@pagdiwala.in")
	require.NoError(t, err)
	assert.Equal(t, "Kiran", admin.FirstName)
	assert.Equal(t, "Sardarpura, Jodhpur", admin.Address)

	got, err := a.Profile(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, validProfile(), got)
}

func TestAuthenticator_UpdateProfile_Invalid(t *testing.T) {
	a, ms := newTestAuthenticator(t)
	c, err := a.SignUp(context.Background(), validSignUp())
	require.NoError(t, err)
	sess := Session{UserID: c.ID, Email: c.Email, Role: model.RoleCustomer}

	tests := []struct {
		name   string
		mutate func(p *model.Profile)
	}{
		{"no first name", func(p *model.Profile) { p.FirstName = " " }},
		{"no last name", func(p *model.Profile) { p.LastName = "" }},
		{"short mobile", func(p *model.Profile) { p.MobileNumber = "90011" }},
		{"mobile with dashes", func(p *model.Profile) { p.MobileNumber = "900-112-233" }},
		{"no address", func(p *model.Profile) { p.Address = "\t" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProfile()
			tt.mutate(&p)

			_, err := a.UpdateProfile(context.Background(), sess, p)

			assert.ErrorIs(t, err, ErrInvalidProfile)
		})
	}

	stored, err := ms.GetCustomer(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bhati", stored.LastName)
}

func TestAuthenticator_UpdateProfile_UnknownAccount(t *testing.T) {
	a, _ := newTestAuthenticator(t)

	_, err := a.UpdateProfile(context.Background(),
		Session{UserID: "gone", Email: "gone@example.com", Role: model.RoleCustomer}, validProfile())
	assert.ErrorIs(t, err, ErrAccountNotFound)

	_, err = a.Profile(context.Background(),
		Session{UserID: "admin-2", Email: "owner@pagdiwala.in", Role: model.RoleAdmin})
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestAuthenticator_UpdateProfile_StoreError(t *testing.T) {
	a, ms := newTestAuthenticator(t)
	ms.UpdateProfileErr = errors.New("connection reset")

	_, err := a.UpdateProfile(context.Background(),
		Session{UserID: "admin-1", Email: "owner@pagdiwala.in", Role: model.RoleAdmin}, validProfile())

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAccountNotFound)
	assert.NotErrorIs(t, err, ErrInvalidProfile)
}
