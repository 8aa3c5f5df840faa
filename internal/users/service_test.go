package users

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/showroom-backend/internal/media"
	"github.com/angelmondragon/showroom-backend/pkg/config"
	"github.com/angelmondragon/showroom-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/showroom-backend/pkg/errors"
	"github.com/angelmondragon/showroom-backend/pkg/logger"
	"github.com/angelmondragon/showroom-backend/pkg/migrate"
	"github.com/angelmondragon/showroom-backend/pkg/security"
	"github.com/angelmondragon/showroom-backend/pkg/types"
)

const inlinePNG = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="

type deleteCall struct {
	reason string
	urls   []string
}

type stubAvatars struct {
	mu        sync.Mutex
	uploads   int
	deletes   []deleteCall
	uploadErr error
}

func (s *stubAvatars) UploadAll(ctx context.Context, folder string, sources []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	s.uploads++
	out := make([]string, len(sources))
	for i := range sources {
		out[i] = "https://cdn.example.com/showroom/" + folder + "/" + uuid.NewString() + ".png"
	}
	return out, nil
}

func (s *stubAvatars) DeleteAll(ctx context.Context, reason, productID string, urls []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes = append(s.deletes, deleteCall{reason: reason, urls: urls})
	return nil
}

func newService(t *testing.T) (Service, *Repository, *stubAvatars) {
	t.Helper()
	ctx := context.Background()
	client, err := db.New(ctx, config.DBConfig{
		Driver: config.DBDriverSQLite,
		DSN:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, migrate.AutoMigrate(ctx, client))

	repo := NewRepository(client.DB())
	avatars := &stubAvatars{}
	svc, err := NewService(ServiceParams{
		Repo:   repo,
		Images: avatars,
		Logger: logger.New(logger.Options{ServiceName: "users-test", Output: io.Discard}),
	})
	require.NoError(t, err)
	return svc, repo, avatars
}

func seedUser(t *testing.T, repo *Repository, email string) *UserDTO {
	t.Helper()
	user, err := repo.Create(context.Background(), CreateUserDTO{
		Name:         "Rina",
		Email:        email,
		PasswordHash: "x",
		Role:         "user",
	})
	require.NoError(t, err)
	return FromModel(user)
}

func strPtr(v string) *string { return &v }

func TestUpdateAccountNameAndEmail(t *testing.T) {
	svc, repo, _ := newService(t)
	user := seedUser(t, repo, "rina@example.com")

	updated, err := svc.UpdateAccount(context.Background(), user.ID, UpdateAccountInput{
		Name:  strPtr("Rina Putri"),
		Email: strPtr("  Rina.Putri@Example.com "),
	})
	require.NoError(t, err)
	assert.Equal(t, "Rina Putri", updated.Name)
	assert.Equal(t, "rina.putri@example.com", updated.Email)
}

func TestUpdateAccountEmailConflict(t *testing.T) {
	svc, repo, _ := newService(t)
	seedUser(t, repo, "taken@example.com")
	user := seedUser(t, repo, "rina@example.com")

	_, err := svc.UpdateAccount(context.Background(), user.ID, UpdateAccountInput{Email: strPtr("TAKEN@example.com")})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
}

func TestUpdateAccountPasswordIsHashed(t *testing.T) {
	svc, repo, _ := newService(t)
	user := seedUser(t, repo, "rina@example.com")

	_, err := svc.UpdateAccount(context.Background(), user.ID, UpdateAccountInput{Password: strPtr("hunter22")})
	require.NoError(t, err)

	stored, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	ok, err := security.VerifyPassword("hunter22", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUpdateAccountValidation(t *testing.T) {
	svc, repo, avatars := newService(t)
	user := seedUser(t, repo, "rina@example.com")

	_, err := svc.UpdateAccount(context.Background(), user.ID, UpdateAccountInput{
		Name:     strPtr("R"),
		Email:    strPtr("not-an-email"),
		Password: strPtr("123"),
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Len(t, typed.Details(), 3)

	_, err = svc.UpdateAccount(context.Background(), user.ID, UpdateAccountInput{
		ProfilePicture: types.Some("ftp://example.com/a.png"),
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Zero(t, avatars.uploads)
}

func TestUpdateAccountAvatarReplacement(t *testing.T) {
	svc, repo, avatars := newService(t)
	ctx := context.Background()
	user := seedUser(t, repo, "rina@example.com")

	first, err := svc.UpdateAccount(ctx, user.ID, UpdateAccountInput{ProfilePicture: types.Some(inlinePNG)})
	require.NoError(t, err)
	require.NotNil(t, first.ProfilePicture)
	assert.Contains(t, *first.ProfilePicture, "/avatars/")
	assert.Empty(t, avatars.deletes)

	second, err := svc.UpdateAccount(ctx, user.ID, UpdateAccountInput{ProfilePicture: types.Some(inlinePNG)})
	require.NoError(t, err)
	require.NotNil(t, second.ProfilePicture)
	assert.NotEqual(t, *first.ProfilePicture, *second.ProfilePicture)
	require.Len(t, avatars.deletes, 1)
	assert.Equal(t, media.ReasonAvatarReplace, avatars.deletes[0].reason)
	assert.Equal(t, []string{*first.ProfilePicture}, avatars.deletes[0].urls)

	cleared, err := svc.UpdateAccount(ctx, user.ID, UpdateAccountInput{ProfilePicture: types.Nullable[string]{Valid: true}})
	require.NoError(t, err)
	assert.Nil(t, cleared.ProfilePicture)
	require.Len(t, avatars.deletes, 2)
	assert.Equal(t, []string{*second.ProfilePicture}, avatars.deletes[1].urls)
}

func TestUpdateAccountKeepsExternalAvatarURL(t *testing.T) {
	svc, repo, avatars := newService(t)
	user := seedUser(t, repo, "rina@example.com")

	updated, err := svc.UpdateAccount(context.Background(), user.ID, UpdateAccountInput{
		ProfilePicture: types.Some("https://images.example.org/me.jpg"),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.ProfilePicture)
	assert.Equal(t, "https://images.example.org/me.jpg", *updated.ProfilePicture)
	assert.Zero(t, avatars.uploads)
}

func TestUpdateAccountUploadFailure(t *testing.T) {
	svc, repo, avatars := newService(t)
	user := seedUser(t, repo, "rina@example.com")
	avatars.uploadErr = pkgerrors.Wrap(pkgerrors.CodeStorage, errors.New("bucket down"), "image upload failed")

	_, err := svc.UpdateAccount(context.Background(), user.ID, UpdateAccountInput{
		Name:           strPtr("Rina Putri"),
		ProfilePicture: types.Some(inlinePNG),
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStorage))

	stored, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rina", stored.Name)
}

func TestUpdateAccountUnknownUser(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.UpdateAccount(context.Background(), uuid.New(), UpdateAccountInput{Name: strPtr("Someone")})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
