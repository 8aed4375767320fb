package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-tracker-api/internal/auth"
	"github.com/yukikurage/task-tracker-api/internal/authz"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"github.com/yukikurage/task-tracker-api/internal/testutil"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fixture struct {
	ctx      context.Context
	db       *gorm.DB
	tokens   *auth.TokenService
	resolver *auth.Resolver
	auth     *AuthService
	projects *ProjectService
	tasks    *TaskService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	guard := authz.NewGuard(projectRepo)

	authService, err := NewAuthService(userRepo, bcrypt.MinCost)
	require.NoError(t, err)

	tokens := auth.NewTokenService("service-test-secret-0123", time.Hour, "test")

	return &fixture{
		ctx:      context.Background(),
		db:       db,
		tokens:   tokens,
		resolver: auth.NewResolver(tokens, userRepo),
		auth:     authService,
		projects: NewProjectService(projectRepo, userRepo, guard),
		tasks:    NewTaskService(taskRepo, projectRepo, userRepo, guard),
	}
}

// signup registers a user and resolves a principal for it the way a request would.
func (f *fixture) signup(t *testing.T, username string) (*models.User, auth.Principal) {
	t.Helper()

	user, err := f.auth.Register(f.ctx, RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	return user, f.principal(t, user)
}

func (f *fixture) principal(t *testing.T, user *models.User) auth.Principal {
	t.Helper()

	token, err := f.tokens.Issue(user)
	require.NoError(t, err)

	principal, err := f.resolver.Resolve(f.ctx, "Bearer "+token)
	require.NoError(t, err)
	return principal
}

func ptr[T any](v T) *T {
	return &v
}
