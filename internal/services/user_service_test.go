package services

import (
	"testing"

	"bookstore/internal/apperr"
	"bookstore/internal/models"
	"bookstore/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegistration() *models.RegisterRequest {
	return &models.RegisterRequest{
		NationalID:      "1234567A",
		Name:            "Carla",
		Surname:         "Cliente",
		Address:         "Calle Mayor 1",
		Phone:           "600123456",
		Email:           "carla@test.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}
}

func TestRegisterValidation(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewUserService(st, models.RoleCustomer, testLogger())

	cases := []struct {
		name   string
		mutate func(*models.RegisterRequest)
	}{
		{"bad national ID letter", func(r *models.RegisterRequest) { r.NationalID = "1234567a" }},
		{"national ID too short", func(r *models.RegisterRequest) { r.NationalID = "123456A" }},
		{"national ID too long", func(r *models.RegisterRequest) { r.NationalID = "123456789A" }},
		{"short name", func(r *models.RegisterRequest) { r.Name = "C" }},
		{"short surname", func(r *models.RegisterRequest) { r.Surname = "X" }},
		{"bad email", func(r *models.RegisterRequest) { r.Email = "not-an-email" }},
		{"short phone", func(r *models.RegisterRequest) { r.Phone = "123456" }},
		{"long phone", func(r *models.RegisterRequest) { r.Phone = "1234567890123456" }},
		{"short password", func(r *models.RegisterRequest) { r.Password = "abc"; r.ConfirmPassword = "abc" }},
		{"confirmation mismatch", func(r *models.RegisterRequest) { r.ConfirmPassword = "different" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRegistration()
			tc.mutate(req)
			_, err := svc.Register(req)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}
}

func TestRegisterHashesPasswordAndLowercasesEmail(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewUserService(st, models.RoleCustomer, testLogger())

	req := validRegistration()
	req.Email = "Carla@Test.COM"
	user, err := svc.Register(req)
	require.NoError(t, err)

	assert.Equal(t, "carla@test.com", user.Email)
	assert.Equal(t, string(models.RoleCustomer), user.Role)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, req.Password, user.PasswordHash)
}

func TestRegisterUniquenessIsPerRole(t *testing.T) {
	st := store.NewMemoryStore()
	customers := NewUserService(st, models.RoleCustomer, testLogger())
	admins := NewUserService(st, models.RoleAdmin, testLogger())

	_, err := customers.Register(validRegistration())
	require.NoError(t, err)

	// Same email and same role is rejected.
	dup := validRegistration()
	dup.NationalID = "7654321B"
	_, err = customers.Register(dup)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// Same national ID and same role is rejected too.
	dup = validRegistration()
	dup.Email = "other@test.com"
	_, err = customers.Register(dup)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// Same email and national ID under a different role is accepted.
	_, err = admins.Register(validRegistration())
	require.NoError(t, err)
}

func TestRegisterEmailUniquenessIsCaseInsensitive(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewUserService(st, models.RoleCustomer, testLogger())

	_, err := svc.Register(validRegistration())
	require.NoError(t, err)

	dup := validRegistration()
	dup.NationalID = "7654321B"
	dup.Email = "CARLA@TEST.COM"
	_, err = svc.Register(dup)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestAuthenticate(t *testing.T) {
	st := store.NewMemoryStore()
	customers := NewUserService(st, models.RoleCustomer, testLogger())
	admins := NewUserService(st, models.RoleAdmin, testLogger())

	registered, err := customers.Register(validRegistration())
	require.NoError(t, err)

	user, err := customers.Authenticate(&models.LoginRequest{Email: "Carla@Test.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	// Wrong password, unknown email and wrong role all fail the same
	// way.
	for _, req := range []*models.LoginRequest{
		{Email: "carla@test.com", Password: "wrong"},
		{Email: "nobody@test.com", Password: "secret1"},
	} {
		_, err := customers.Authenticate(req)
		require.Error(t, err)
		assert.Equal(t, apperr.KindInvalidCredentials, apperr.KindOf(err))
		assert.Equal(t, "invalid email or password", err.Error())
	}

	_, err = admins.Authenticate(&models.LoginRequest{Email: "carla@test.com", Password: "secret1"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidCredentials, apperr.KindOf(err))
}

func TestGetUserScopedToRole(t *testing.T) {
	st := store.NewMemoryStore()
	customers := NewUserService(st, models.RoleCustomer, testLogger())
	admins := NewUserService(st, models.RoleAdmin, testLogger())

	user, err := customers.Register(validRegistration())
	require.NoError(t, err)

	// The admin partition cannot see a customer.
	_, err = admins.GetUser(user.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestUpdateUser(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewUserService(st, models.RoleCustomer, testLogger())

	user, err := svc.Register(validRegistration())
	require.NoError(t, err)

	updated, err := svc.UpdateUser(user.ID, &models.UpdateUserRequest{
		Name:    "Carlota",
		Address: "Calle Menor 2",
	})
	require.NoError(t, err)
	assert.Equal(t, "Carlota", updated.Name)
	assert.Equal(t, "Calle Menor 2", updated.Address)
	assert.Equal(t, user.Surname, updated.Surname)

	// Role survives updates.
	assert.Equal(t, string(models.RoleCustomer), updated.Role)

	_, err = svc.UpdateUser(user.ID, &models.UpdateUserRequest{
		Password:        "newpass1",
		ConfirmPassword: "mismatch",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestUpdateUserEmailConflict(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewUserService(st, models.RoleCustomer, testLogger())

	first, err := svc.Register(validRegistration())
	require.NoError(t, err)

	other := validRegistration()
	other.NationalID = "7654321B"
	other.Email = "other@test.com"
	second, err := svc.Register(other)
	require.NoError(t, err)

	_, err = svc.UpdateUser(second.ID, &models.UpdateUserRequest{Email: first.Email})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestDeleteUser(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewUserService(st, models.RoleCustomer, testLogger())

	user, err := svc.Register(validRegistration())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(user.ID))

	_, err = svc.GetUser(user.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	err = svc.DeleteUser(user.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
