package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/showroom-backend/internal/users"
	pkgerrors "github.com/angelmondragon/showroom-backend/pkg/errors"
)

type stubUserService struct {
	input users.UpdateAccountInput
	err   error
}

func (s *stubUserService) Get(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	return &users.UserDTO{ID: userID}, s.err
}

func (s *stubUserService) UpdateAccount(ctx context.Context, userID uuid.UUID, input users.UpdateAccountInput) (*users.UserDTO, error) {
	s.input = input
	return &users.UserDTO{ID: userID}, s.err
}

func TestUpdateAccountForwardsNullableAvatar(t *testing.T) {
	svc := &stubUserService{}
	req := asUser(jsonRequest(http.MethodPut, "/api/user/account", `{"name":"Budi","profilePicture":null}`), uuid.NewString())

	rec := serve(UpdateAccount(svc, testLogger()), req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, svc.input.Name)
	assert.Equal(t, "Budi", *svc.input.Name)
	assert.True(t, svc.input.ProfilePicture.Null())
	assert.Nil(t, svc.input.Email)
}

func TestUpdateAccountValidationAndConflict(t *testing.T) {
	user := uuid.NewString()

	rec := serve(UpdateAccount(&stubUserService{}, testLogger()), asUser(jsonRequest(http.MethodPut, "/api/user/account", `{"email":"not-an-email"}`), user))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	conflict := &stubUserService{err: pkgerrors.New(pkgerrors.CodeConflict, "email already in use")}
	rec = serve(UpdateAccount(conflict, testLogger()), asUser(jsonRequest(http.MethodPut, "/api/user/account", `{"email":"taken@example.com"}`), user))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = serve(UpdateAccount(&stubUserService{}, testLogger()), jsonRequest(http.MethodPut, "/api/user/account", `{}`))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetAccount(t *testing.T) {
	id := uuid.New()
	rec := serve(GetAccount(&stubUserService{}, testLogger()), asUser(jsonRequest(http.MethodGet, "/api/user/account", ""), id.String()))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(decodeEnvelope(t, rec).Data), id.String())
}
