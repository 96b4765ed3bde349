package service

import (
	"context"
	"testing"

	"garagelog/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	byAuthUID map[string]*model.User
	created   []*model.User
	updated   []*model.User
}

func (f *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	u.ID = "usr-new"
	u.Tier = model.TierFree
	f.created = append(f.created, u)
	return nil
}

func (f *fakeUserRepo) GetByAuthUID(_ context.Context, authUID string) (*model.User, error) {
	return f.byAuthUID[authUID], nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	for _, u := range f.byAuthUID {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) UpdateProfile(_ context.Context, u *model.User) error {
	f.updated = append(f.updated, u)
	return nil
}

func strPtr(s string) *string { return &s }

func TestUserSync(t *testing.T) {
	t.Run("first sync creates the user", func(t *testing.T) {
		repo := &fakeUserRepo{byAuthUID: map[string]*model.User{}}
		svc := NewUserService(repo, zerolog.Nop())

		u, created, err := svc.Sync(context.Background(), "auth-1", SyncProfile{
			Username: "ana",
			Email:    "ana@example.com",
		})
		require.NoError(t, err)

		assert.True(t, created)
		assert.Equal(t, model.TierFree, u.Tier)
		assert.Equal(t, "ana", u.Username)
		require.Len(t, repo.created, 1)
	})

	t.Run("username defaults to email", func(t *testing.T) {
		repo := &fakeUserRepo{byAuthUID: map[string]*model.User{}}
		svc := NewUserService(repo, zerolog.Nop())

		u, _, err := svc.Sync(context.Background(), "auth-1", SyncProfile{Email: "ana@example.com"})
		require.NoError(t, err)
		assert.Equal(t, "ana@example.com", u.Username)
	})

	t.Run("later sync fills blank fields only", func(t *testing.T) {
		existing := &model.User{
			ID:         "usr-1",
			AuthUID:    "auth-1",
			Username:   "ana",
			Email:      "ana@example.com",
			NationalID: strPtr("12345"),
		}
		repo := &fakeUserRepo{byAuthUID: map[string]*model.User{"auth-1": existing}}
		svc := NewUserService(repo, zerolog.Nop())

		u, created, err := svc.Sync(context.Background(), "auth-1", SyncProfile{
			Username:   "ana-renamed",
			Email:      "ana@example.com",
			NationalID: strPtr("99999"),
			Phone:      strPtr("555-0100"),
		})
		require.NoError(t, err)

		assert.False(t, created)
		assert.Equal(t, "ana-renamed", u.Username)
		assert.Equal(t, "12345", *u.NationalID)
		assert.Equal(t, "555-0100", *u.Phone)
		require.Len(t, repo.updated, 1)
	})

	t.Run("no-op sync skips the update", func(t *testing.T) {
		existing := &model.User{ID: "usr-1", AuthUID: "auth-1", Username: "ana", Email: "ana@example.com"}
		repo := &fakeUserRepo{byAuthUID: map[string]*model.User{"auth-1": existing}}
		svc := NewUserService(repo, zerolog.Nop())

		_, created, err := svc.Sync(context.Background(), "auth-1", SyncProfile{Username: "ana", Email: "ana@example.com"})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Empty(t, repo.updated)
	})
}

func TestUserGetByAuthUID(t *testing.T) {
	repo := &fakeUserRepo{byAuthUID: map[string]*model.User{
		"auth-1": {ID: "usr-1", AuthUID: "auth-1"},
	}}
	svc := NewUserService(repo, zerolog.Nop())

	u, err := svc.GetByAuthUID(context.Background(), "auth-1")
	require.NoError(t, err)
	assert.Equal(t, "usr-1", u.ID)

	_, err = svc.GetByAuthUID(context.Background(), "auth-404")
	assert.ErrorIs(t, err, ErrNotFound)
}
