package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/projects_api/internal/db/dbtest"
	"github.com/Skotchmaster/projects_api/internal/models"
)

func newRepo(t *testing.T) *GormRepo {
	t.Helper()
	return New(dbtest.New(t))
}

func TestCreateUserIfNotExists(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	u := &models.User{Username: "alice", PasswordHash: "h", Role: models.RoleUser}
	require.NoError(t, r.CreateUserIfNotExists(ctx, u))
	assert.NotZero(t, u.ID)

	dup := &models.User{Username: "alice", PasswordHash: "other", Role: models.RoleAdmin}
	assert.ErrorIs(t, r.CreateUserIfNotExists(ctx, dup), ErrUserAlreadyExist)

	got, err := r.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "h", got.PasswordHash)
	assert.Equal(t, models.RoleUser, got.Role)

	byID, err := r.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
}

func TestGetUser_NotFound(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	_, err := r.GetUserByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = r.GetUserByID(ctx, 42)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteUser(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	u := &models.User{Username: "bob", PasswordHash: "h", Role: models.RoleUser}
	require.NoError(t, r.CreateUserIfNotExists(ctx, u))
	require.NoError(t, r.DeleteUser(ctx, u.ID))

	_, err := r.GetUserByID(ctx, u.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCreateProject_FillsGaps(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, r.CreateProject(ctx, &models.Project{Name: name, Description: name}))
	}

	deleted, err := r.DeleteProject(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "b", deleted.Name)

	p := &models.Project{Name: "d", Description: "d"}
	require.NoError(t, r.CreateProject(ctx, p))
	assert.Equal(t, uint(2), p.ID)

	p = &models.Project{Name: "e", Description: "e"}
	require.NoError(t, r.CreateProject(ctx, p))
	assert.Equal(t, uint(4), p.ID)
}

func TestCreateProject_DuplicateName(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	require.NoError(t, r.CreateProject(ctx, &models.Project{Name: "alpha", Description: "x"}))
	err := r.CreateProject(ctx, &models.Project{Name: "alpha", Description: "y"})
	assert.ErrorIs(t, err, ErrProjectNameTaken)
}

func TestListProjects_Order(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	empty, err := r.ListProjects(ctx, true)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, r.CreateProject(ctx, &models.Project{Name: name, Description: name}))
	}

	asc, err := r.ListProjects(ctx, true)
	require.NoError(t, err)
	require.Len(t, asc, 3)
	assert.Equal(t, []uint{1, 2, 3}, []uint{asc[0].ID, asc[1].ID, asc[2].ID})

	desc, err := r.ListProjects(ctx, false)
	require.NoError(t, err)
	require.Len(t, desc, 3)
	assert.Equal(t, []uint{3, 2, 1}, []uint{desc[0].ID, desc[1].ID, desc[2].ID})
}

func TestSaveProject(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	a := &models.Project{Name: "a", Description: "first"}
	b := &models.Project{Name: "b", Description: "second"}
	require.NoError(t, r.CreateProject(ctx, a))
	require.NoError(t, r.CreateProject(ctx, b))

	a.Description = "changed"
	require.NoError(t, r.SaveProject(ctx, a))

	got, err := r.GetProject(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "changed", got.Description)

	b.Name = "a"
	assert.ErrorIs(t, r.SaveProject(ctx, b), ErrProjectNameTaken)
}

func TestDeleteProject_NotFound(t *testing.T) {
	r := newRepo(t)
	_, err := r.DeleteProject(context.Background(), 7)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
