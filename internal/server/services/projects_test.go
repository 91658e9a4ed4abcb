package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/dmitrijs2005/codeide/internal/common"
	"github.com/dmitrijs2005/codeide/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestProjectLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.register(t, "ana", "ana@mail.com")

	p, err := f.projects.Create(ctx, ana.ID, "  Landing ")
	require.NoError(t, err)
	assert.Equal(t, "Landing", p.Title)
	assert.Equal(t, ana.ID, p.CreatedBy)

	list, err := f.projects.List(ctx, ana.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, p.ID, list[0].ID)

	updated, err := f.projects.Update(ctx, ana.ID, p.ID, models.ProjectPatch{HTMLCode: ptr("<h1>hi</h1>")})
	require.NoError(t, err)
	assert.Equal(t, "<h1>hi</h1>", updated.HTMLCode)
	assert.Empty(t, updated.CSSCode)
	assert.True(t, updated.UpdatedAt.After(p.UpdatedAt))

	got, err := f.projects.Get(ctx, ana.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "<h1>hi</h1>", got.HTMLCode)

	deleted, err := f.projects.Delete(ctx, ana.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, deleted.ID)

	_, err = f.projects.Get(ctx, ana.ID, p.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = f.projects.Delete(ctx, ana.ID, p.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestProjectCreate_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.register(t, "ana", "ana@mail.com")

	_, err := f.projects.Create(ctx, ana.ID, "   ")
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = f.projects.Create(ctx, "ghost", "Landing")
	assert.ErrorIs(t, err, common.ErrActorNotFound)

	list, err := f.projects.List(ctx, ana.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProjectCreate_Concurrent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.register(t, "ana", "ana@mail.com")

	const n = 50
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.projects.Create(ctx, ana.ID, fmt.Sprintf("P%d", i))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	list, err := f.projects.List(ctx, ana.ID)
	require.NoError(t, err)
	assert.Len(t, list, n)
}

func TestProjectList_UnknownActor(t *testing.T) {
	f := newFixture(t)

	_, err := f.projects.List(context.Background(), "ghost")
	assert.ErrorIs(t, err, common.ErrActorNotFound)
}

func TestProjectList_Isolation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.register(t, "ana", "ana@mail.com")
	bo := f.register(t, "bo", "bo@mail.com")

	for _, title := range []string{"A1", "A2"} {
		_, err := f.projects.Create(ctx, ana.ID, title)
		require.NoError(t, err)
	}
	_, err := f.projects.Create(ctx, bo.ID, "B1")
	require.NoError(t, err)

	listA, err := f.projects.List(ctx, ana.ID)
	require.NoError(t, err)
	require.Len(t, listA, 2)
	assert.Equal(t, "A1", listA[0].Title)
	assert.Equal(t, "A2", listA[1].Title)

	listB, err := f.projects.List(ctx, bo.ID)
	require.NoError(t, err)
	require.Len(t, listB, 1)
	assert.Equal(t, "B1", listB[0].Title)
}

func TestProject_NonOwnerIsDenied(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.register(t, "ana", "ana@mail.com")
	bo := f.register(t, "bo", "bo@mail.com")

	p, err := f.projects.Create(ctx, ana.ID, "Landing")
	require.NoError(t, err)

	_, err = f.projects.Get(ctx, bo.ID, p.ID)
	assert.ErrorIs(t, err, common.ErrNotOwner)

	_, err = f.projects.Update(ctx, bo.ID, p.ID, models.ProjectPatch{JSCode: ptr("steal()")})
	assert.ErrorIs(t, err, common.ErrNotOwner)

	_, err = f.projects.Delete(ctx, bo.ID, p.ID)
	assert.ErrorIs(t, err, common.ErrNotOwner)

	got, err := f.projects.Get(ctx, ana.ID, p.ID)
	require.NoError(t, err)
	assert.Empty(t, got.JSCode)
}

func TestProject_ErrorPrecedence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.register(t, "ana", "ana@mail.com")

	_, err := f.projects.Get(ctx, "ghost", "missing")
	assert.ErrorIs(t, err, common.ErrActorNotFound)

	_, err = f.projects.Update(ctx, ana.ID, "missing", models.ProjectPatch{})
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = f.projects.Delete(ctx, ana.ID, "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestProjectUpdate_EmptyPatchWritesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.register(t, "ana", "ana@mail.com")

	p, err := f.projects.Create(ctx, ana.ID, "Landing")
	require.NoError(t, err)

	same, err := f.projects.Update(ctx, ana.ID, p.ID, models.ProjectPatch{})
	require.NoError(t, err)
	assert.True(t, same.UpdatedAt.Equal(p.UpdatedAt))

	stored, err := f.projects.Get(ctx, ana.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, stored.UpdatedAt.Equal(p.UpdatedAt))

	bo := f.register(t, "bo", "bo@mail.com")
	_, err = f.projects.Update(ctx, bo.ID, p.ID, models.ProjectPatch{})
	assert.ErrorIs(t, err, common.ErrNotOwner)
}

func TestProject_UnknownActorBeforeStoreFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.register(t, "ana", "ana@mail.com")

	_, err := f.db.ExecContext(ctx, `DROP TABLE projects`)
	require.NoError(t, err)

	_, err = f.projects.Get(ctx, "ghost", "p-1")
	assert.ErrorIs(t, err, common.ErrActorNotFound)

	_, err = f.projects.Delete(ctx, "ghost", "p-1")
	assert.ErrorIs(t, err, common.ErrActorNotFound)

	_, err = f.projects.Get(ctx, ana.ID, "p-1")
	assert.Equal(t, common.ErrorInternal, err)
}
