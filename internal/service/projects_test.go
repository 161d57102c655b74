package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/projects_api/internal/db/dbtest"
	"github.com/Skotchmaster/projects_api/internal/models"
	"github.com/Skotchmaster/projects_api/internal/mykafka"
	"github.com/Skotchmaster/projects_api/internal/repo"
)

type fakePublisher struct {
	mu     sync.Mutex
	events []mykafka.ProjectEvent
	err    error
}

func (f *fakePublisher) PublishEvent(_ context.Context, _ string, event any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event.(mykafka.ProjectEvent))
	return f.err
}

type fakeIndex struct {
	indexed []uint
	deleted []uint
	hits    []models.Project
}

func (f *fakeIndex) IndexProject(_ context.Context, p models.Project) error {
	f.indexed = append(f.indexed, p.ID)
	return nil
}

func (f *fakeIndex) DeleteProject(_ context.Context, id uint) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeIndex) Search(_ context.Context, _ string, _, _ int) (int64, []models.Project, error) {
	return int64(len(f.hits)), f.hits, nil
}

func newTestProjectService(t *testing.T) (*ProjectService, *fakePublisher, *fakeIndex) {
	t.Helper()
	pub := &fakePublisher{}
	ix := &fakeIndex{}
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &ProjectService{
		Repo:   repo.New(dbtest.New(t)),
		Events: pub,
		Search: ix,
		Now:    func() time.Time { return fixed },
	}, pub, ix
}

func TestProjectService_CreateAndList(t *testing.T) {
	svc, pub, ix := newTestProjectService(t)
	ctx := context.Background()

	for _, name := range []string{"alpha", "beta"} {
		_, err := svc.CreateProject(ctx, 1, name, name+" description")
		require.NoError(t, err)
	}

	list, err := svc.ListProjects(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "beta", list[0].Name)

	list, err = svc.ListProjects(ctx, "asc")
	require.NoError(t, err)
	assert.Equal(t, "alpha", list[0].Name)

	_, err = svc.ListProjects(ctx, "sideways")
	assert.ErrorIs(t, err, ErrValidation)

	require.Len(t, pub.events, 2)
	assert.Equal(t, mykafka.EventProjectCreated, pub.events[0].Type)
	assert.Equal(t, uint(1), pub.events[0].ActorID)
	assert.Equal(t, []uint{1, 2}, ix.indexed)
}

func TestProjectService_Create_Conflict(t *testing.T) {
	svc, _, _ := newTestProjectService(t)
	ctx := context.Background()

	_, err := svc.CreateProject(ctx, 1, "alpha", "x")
	require.NoError(t, err)

	_, err = svc.CreateProject(ctx, 1, "alpha", "y")
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.CreateProject(ctx, 1, "  ", "y")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestProjectService_Create_PublishFailureIsNotFatal(t *testing.T) {
	svc, pub, _ := newTestProjectService(t)
	pub.err = errors.New("broker down")

	p, err := svc.CreateProject(context.Background(), 1, "alpha", "x")
	require.NoError(t, err)
	assert.Equal(t, uint(1), p.ID)
}

func TestProjectService_Update(t *testing.T) {
	svc, pub, _ := newTestProjectService(t)
	ctx := context.Background()

	created, err := svc.CreateProject(ctx, 1, "alpha", "first")
	require.NoError(t, err)

	res, err := svc.UpdateProject(ctx, 1, created.ID, "string", "string")
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, "first", res.Project.Description)

	res, err = svc.UpdateProject(ctx, 1, created.ID, "string", "second")
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, "alpha", res.Project.Name)
	assert.Equal(t, "second", res.Project.Description)

	got, err := svc.GetProject(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "second", got.Description)

	require.Len(t, pub.events, 2)
	assert.Equal(t, mykafka.EventProjectUpdated, pub.events[1].Type)
}

func TestProjectService_Update_Errors(t *testing.T) {
	svc, _, _ := newTestProjectService(t)
	ctx := context.Background()

	_, err := svc.CreateProject(ctx, 1, "alpha", "a")
	require.NoError(t, err)
	beta, err := svc.CreateProject(ctx, 1, "beta", "b")
	require.NoError(t, err)

	_, err = svc.UpdateProject(ctx, 1, 99, "x", "y")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.UpdateProject(ctx, 1, beta.ID, "alpha", "string")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestProjectService_Delete(t *testing.T) {
	svc, pub, ix := newTestProjectService(t)
	ctx := context.Background()

	created, err := svc.CreateProject(ctx, 1, "alpha", "a")
	require.NoError(t, err)

	deleted, err := svc.DeleteProject(ctx, 1, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alpha", deleted.Name)
	assert.Equal(t, []uint{created.ID}, ix.deleted)

	last := pub.events[len(pub.events)-1]
	assert.Equal(t, mykafka.EventProjectDeleted, last.Type)
	assert.Empty(t, last.Name)

	_, err = svc.DeleteProject(ctx, 1, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetProject(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProjectService_Search(t *testing.T) {
	svc, _, ix := newTestProjectService(t)
	ctx := context.Background()
	ix.hits = []models.Project{{ID: 1, Name: "alpha"}}

	total, hits, err := svc.SearchProjects(ctx, "alp", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, hits, 1)

	_, _, err = svc.SearchProjects(ctx, " ", 0, 10)
	assert.ErrorIs(t, err, ErrValidation)

	svc.Search = nil
	_, _, err = svc.SearchProjects(ctx, "alp", 0, 10)
	assert.ErrorIs(t, err, ErrSearchDisabled)
}

func TestProjectService_WorksWithoutOptionalBackends(t *testing.T) {
	svc := &ProjectService{Repo: repo.New(dbtest.New(t))}
	ctx := context.Background()

	p, err := svc.CreateProject(ctx, 1, "alpha", "a")
	require.NoError(t, err)
	_, err = svc.DeleteProject(ctx, 1, p.ID)
	require.NoError(t, err)
}
