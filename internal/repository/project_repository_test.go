package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/testutil"
	"github.com/yukikurage/task-tracker-api/internal/utils"
	"gorm.io/gorm"
)

func TestProjectRepository_AddCollaborator_RejectsDuplicatePair(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "owner")
	bob := testutil.CreateUser(t, db, "bob")
	project := testutil.CreateProject(t, db, "Apollo", owner.ID)

	require.NoError(t, repo.AddCollaborator(ctx, &models.ProjectCollaborator{
		ProjectID: project.ID, UserID: bob.ID, Role: models.RoleViewer,
	}))

	err := repo.AddCollaborator(ctx, &models.ProjectCollaborator{
		ProjectID: project.ID, UserID: bob.ID, Role: models.RoleEditor,
	})
	require.ErrorIs(t, err, ErrCollaboratorExists)

	existing, err := repo.FindCollaborator(ctx, project.ID, bob.ID)
	require.NoError(t, err)
	require.Equal(t, models.RoleViewer, existing.Role)
}

func TestProjectRepository_AddCollaborator_DriverDuplicateKey(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProjectRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `project_collaborators` WHERE project_id = ? AND user_id = ?")).
		WithArgs(1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))
	mock.ExpectExec("INSERT INTO `project_collaborators`").
		WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry '1-2' for key 'PRIMARY'"})
	mock.ExpectRollback()

	err := repo.AddCollaborator(context.Background(), &models.ProjectCollaborator{
		ProjectID: 1, UserID: 2, Role: models.RoleEditor,
	})
	require.ErrorIs(t, err, ErrCollaboratorExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_CollaboratorRoleAndRemoval(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "owner")
	bob := testutil.CreateUser(t, db, "bob")
	project := testutil.CreateProject(t, db, "Apollo", owner.ID)
	testutil.AddCollaborator(t, db, project.ID, bob.ID, models.RoleViewer)

	require.NoError(t, repo.UpdateCollaboratorRole(ctx, project.ID, bob.ID, models.RoleEditor))
	updated, err := repo.FindCollaborator(ctx, project.ID, bob.ID)
	require.NoError(t, err)
	require.Equal(t, models.RoleEditor, updated.Role)

	collaborators, err := repo.ListCollaborators(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, collaborators, 1)
	require.Equal(t, "bob", collaborators[0].User.Username)

	require.NoError(t, repo.RemoveCollaborator(ctx, project.ID, bob.ID))
	require.ErrorIs(t, repo.RemoveCollaborator(ctx, project.ID, bob.ID), gorm.ErrRecordNotFound)
	require.ErrorIs(t, repo.UpdateCollaboratorRole(ctx, project.ID, bob.ID, models.RoleViewer), gorm.ErrRecordNotFound)
}

func TestProjectRepository_ListForUser(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	owned := testutil.CreateProject(t, db, "Owned", alice.ID)
	shared := testutil.CreateProject(t, db, "Shared", bob.ID)
	testutil.CreateProject(t, db, "Private", bob.ID)
	testutil.AddCollaborator(t, db, shared.ID, alice.ID, models.RoleViewer)

	projects, total, err := repo.ListForUser(ctx, alice.ID, utils.NewPaginationParams(1, 10))
	require.NoError(t, err)
	require.EqualValues(t, 2, total)

	ids := []uint64{projects[0].ID, projects[1].ID}
	require.ElementsMatch(t, []uint64{owned.ID, shared.ID}, ids)
}

func TestProjectRepository_DeleteRemovesTasksAndCollaborators(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "owner")
	bob := testutil.CreateUser(t, db, "bob")
	project := testutil.CreateProject(t, db, "Apollo", owner.ID)
	testutil.AddCollaborator(t, db, project.ID, bob.ID, models.RoleEditor)
	task := testutil.CreateTask(t, db, "Launch", bob.ID, &project.ID)

	require.NoError(t, repo.Delete(ctx, project.ID))

	_, err := repo.FindByID(ctx, project.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = repo.FindCollaborator(ctx, project.ID, bob.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = NewTaskRepository(db).FindByID(ctx, task.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
