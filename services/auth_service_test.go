package services

import (
	"testing"

	"aparthotel-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	svc := NewAuthService(newTestDB(t))
	svc.JWTSecret = []byte("test-secret")
	return svc
}

func TestLoginAndTokenRoundTrip(t *testing.T) {
	svc := newAuthService(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{Username: "gulnara", Password: string(hash), Name: "Gulnara", Role: models.RoleOwner}
	require.NoError(t, svc.DB.Create(&user).Error)

	token, got, err := svc.Login("gulnara", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	userID, role, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, models.RoleOwner, role)

	_, _, err = svc.Login("gulnara", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login("nobody", "s3cret")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.ParseToken("not.a.token")
	require.Error(t, err)
}

func TestRegistrationApprovalFlow(t *testing.T) {
	svc := newAuthService(t)

	req, err := svc.Register("marat", "pass123", "Marat", "marat@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RequestPending, req.Status)
	// Stored hashed, never in the clear.
	assert.NotEqual(t, "pass123", req.Password)

	// A duplicate pending request is rejected.
	_, err = svc.Register("marat", "other", "", "")
	require.Error(t, err)

	pending, err := svc.PendingRequests()
	require.NoError(t, err)
	require.Len(t, pending, 1)

	user, err := svc.ApproveRequest(req.ID, models.RoleEmployee)
	require.NoError(t, err)
	assert.Equal(t, models.RoleEmployee, user.Role)

	// The new account can log in with the original password.
	_, _, err = svc.Login("marat", "pass123")
	require.NoError(t, err)

	// Approving twice fails, the request is no longer pending.
	_, err = svc.ApproveRequest(req.ID, models.RoleEmployee)
	require.Error(t, err)

	// A taken username cannot be registered again.
	_, err = svc.Register("marat", "x", "", "")
	require.ErrorIs(t, err, ErrUserExists)
}

func TestRejectRequest(t *testing.T) {
	svc := newAuthService(t)

	req, err := svc.Register("aset", "pw", "", "")
	require.NoError(t, err)
	require.NoError(t, svc.RejectRequest(req.ID))
	require.ErrorIs(t, svc.RejectRequest(req.ID), ErrRequestNotFound)

	_, _, err = svc.Login("aset", "pw")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestListAndFireUsers(t *testing.T) {
	svc := newAuthService(t)

	owner, err := svc.CreateUser("boss", "pw", "Boss", "", models.RoleOwner)
	require.NoError(t, err)
	worker, err := svc.CreateUser("dana", "pw", "Dana", "", models.RoleEmployee)
	require.NoError(t, err)

	users, err := svc.ListUsers()
	require.NoError(t, err)
	require.Len(t, users, 2)

	// Nobody fires themselves.
	require.ErrorIs(t, svc.FireUser(owner.ID, owner.ID), ErrOwnAccount)

	require.NoError(t, svc.FireUser(worker.ID, owner.ID))
	users, err = svc.ListUsers()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "boss", users[0].Username)

	// A fired account can no longer log in.
	_, _, err = svc.Login("dana", "pw")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	require.ErrorIs(t, svc.FireUser(worker.ID, owner.ID), ErrUserNotFound)
}

func TestUpdateUserRole(t *testing.T) {
	svc := newAuthService(t)

	owner, err := svc.CreateUser("boss", "pw", "Boss", "", models.RoleOwner)
	require.NoError(t, err)
	worker, err := svc.CreateUser("dana", "pw", "Dana", "", models.RoleEmployee)
	require.NoError(t, err)

	updated, err := svc.UpdateUserRole(worker.ID, owner.ID, models.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, updated.Role)

	_, err = svc.UpdateUserRole(owner.ID, owner.ID, models.RoleEmployee)
	require.ErrorIs(t, err, ErrOwnAccount)

	_, err = svc.UpdateUserRole(worker.ID, owner.ID, "janitor")
	require.Error(t, err)

	_, err = svc.UpdateUserRole(worker.ID+100, owner.ID, models.RoleEmployee)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfile(t *testing.T) {
	svc := newAuthService(t)

	user, err := svc.CreateUser("dana", "oldpw", "Dana", "dana@example.com", models.RoleEmployee)
	require.NoError(t, err)

	// Empty fields stay untouched.
	updated, err := svc.UpdateProfile(user.ID, &ProfileUpdate{Name: "Dana K.", Photo: "/uploads/dana.jpg"})
	require.NoError(t, err)
	assert.Equal(t, "Dana K.", updated.Name)
	assert.Equal(t, "/uploads/dana.jpg", updated.Photo)
	assert.Equal(t, "dana@example.com", updated.Email)

	_, _, err = svc.Login("dana", "oldpw")
	require.NoError(t, err)

	_, err = svc.UpdateProfile(user.ID, &ProfileUpdate{Password: "newpw"})
	require.NoError(t, err)
	_, _, err = svc.Login("dana", "oldpw")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login("dana", "newpw")
	require.NoError(t, err)

	_, err = svc.UpdateProfile(user.ID+100, &ProfileUpdate{Name: "ghost"})
	require.ErrorIs(t, err, ErrUserNotFound)
}
