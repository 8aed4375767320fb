package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/testutil"
	"github.com/yukikurage/task-tracker-api/internal/utils"
)

func TestTaskRepository_ListVisibility(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	carol := testutil.CreateUser(t, db, "carol")

	aliceProject := testutil.CreateProject(t, db, "Alice's", alice.ID)
	bobProject := testutil.CreateProject(t, db, "Bob's", bob.ID)
	carolProject := testutil.CreateProject(t, db, "Carol's", carol.ID)
	testutil.AddCollaborator(t, db, bobProject.ID, alice.ID, models.RoleViewer)

	mine := testutil.CreateTask(t, db, "personal", alice.ID, nil)
	inOwned := testutil.CreateTask(t, db, "owned project", bob.ID, &aliceProject.ID)
	inShared := testutil.CreateTask(t, db, "shared project", bob.ID, &bobProject.ID)
	assignedElsewhere := testutil.CreateTask(t, db, "assigned in carol's", alice.ID, &carolProject.ID)
	testutil.CreateTask(t, db, "invisible", carol.ID, &carolProject.ID)
	testutil.CreateTask(t, db, "bob personal", bob.ID, nil)

	tasks, total, err := repo.List(ctx, TaskFilter{
		VisibleTo:  alice.ID,
		Pagination: utils.NewPaginationParams(1, 50),
	})
	require.NoError(t, err)
	require.EqualValues(t, 4, total)

	var ids []uint64
	for _, task := range tasks {
		ids = append(ids, task.ID)
	}
	require.ElementsMatch(t, []uint64{mine.ID, inOwned.ID, inShared.ID, assignedElsewhere.ID}, ids)
}

func TestTaskRepository_ListFilters(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	project := testutil.CreateProject(t, db, "Apollo", alice.ID)

	testutil.CreateTask(t, db, "personal", alice.ID, nil)
	inProject := testutil.CreateTask(t, db, "in project", alice.ID, &project.ID)
	done := testutil.CreateTask(t, db, "done", alice.ID, &project.ID)
	done.Status = models.TaskStatusDone
	done.Priority = models.PriorityHigh
	require.NoError(t, repo.Update(ctx, done))

	tasks, total, err := repo.List(ctx, TaskFilter{
		VisibleTo:  alice.ID,
		ProjectID:  &project.ID,
		Pagination: utils.NewPaginationParams(1, 50),
	})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, tasks, 2)

	status := models.TaskStatusDone
	tasks, total, err = repo.List(ctx, TaskFilter{
		VisibleTo:  alice.ID,
		Status:     &status,
		Pagination: utils.NewPaginationParams(1, 50),
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, done.ID, tasks[0].ID)

	priority := models.PriorityMedium
	tasks, _, err = repo.List(ctx, TaskFilter{
		VisibleTo:  alice.ID,
		ProjectID:  &project.ID,
		Priority:   &priority,
		Pagination: utils.NewPaginationParams(1, 50),
	})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, inProject.ID, tasks[0].ID)
}

func TestTaskRepository_ListPagination(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	for i := 0; i < 5; i++ {
		testutil.CreateTask(t, db, "task", alice.ID, nil)
	}

	tasks, total, err := repo.List(ctx, TaskFilter{
		VisibleTo:  alice.ID,
		Pagination: utils.NewPaginationParams(2, 2),
	})
	require.NoError(t, err)
	require.EqualValues(t, 5, total)
	require.Len(t, tasks, 2)
}
