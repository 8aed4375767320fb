package services

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-tracker-api/internal/models"
)

func TestAuthService_Register(t *testing.T) {
	f := newFixture(t)

	user, err := f.auth.Register(f.ctx, RegisterInput{
		Username: "  alice ",
		Email:    "Alice@Example.COM",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "password123", user.PasswordHash)

	// the issued token resolves to the user that was just created
	token, err := f.tokens.Issue(user)
	require.NoError(t, err)
	claims, err := f.tokens.Verify(token)
	require.NoError(t, err)
	subject, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, user.ID, subject)
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "alice")

	tests := []struct {
		name  string
		input RegisterInput
		field string
	}{
		{"same username", RegisterInput{Username: "alice", Email: "other@example.com", Password: "password123"}, "username"},
		{"same email", RegisterInput{Username: "alicia", Email: "alice@example.com", Password: "password123"}, "email"},
		{"same email different case", RegisterInput{Username: "alicia", Email: "ALICE@example.com", Password: "password123"}, "email"},
		{"both", RegisterInput{Username: "alice", Email: "alice@example.com", Password: "password123"}, "username"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.auth.Register(f.ctx, tt.input)
			require.ErrorIs(t, err, ErrDuplicateIdentity)

			var dupErr *DuplicateIdentityError
			require.True(t, errors.As(err, &dupErr))
			assert.Equal(t, tt.field, dupErr.Field)

			var count int64
			require.NoError(t, f.db.Model(&models.User{}).Count(&count).Error)
			assert.EqualValues(t, 1, count)
		})
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name  string
		input RegisterInput
		want  error
	}{
		{"blank username", RegisterInput{Username: "  ", Email: "a@example.com", Password: "password123"}, ErrInvalidUsername},
		{"short username", RegisterInput{Username: "ab", Email: "a@example.com", Password: "password123"}, ErrInvalidUsername},
		{"long username", RegisterInput{Username: strings.Repeat("a", 51), Email: "a@example.com", Password: "password123"}, ErrInvalidUsername},
		{"username with at sign", RegisterInput{Username: "a@b", Email: "a@example.com", Password: "password123"}, ErrInvalidUsername},
		{"blank email", RegisterInput{Username: "alice", Email: "", Password: "password123"}, ErrEmailRequired},
		{"short password", RegisterInput{Username: "alice", Email: "a@example.com", Password: "short"}, ErrPasswordTooShort},
		{"long password", RegisterInput{Username: "alice", Email: "a@example.com", Password: string(make([]byte, 73))}, ErrPasswordTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.auth.Register(f.ctx, tt.input)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAuthService_Register_ConcurrentDuplicate(t *testing.T) {
	f := newFixture(t)

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		dups      int
		others    []error
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.auth.Register(f.ctx, RegisterInput{
				Username: "racer",
				Email:    "racer" + string(rune('a'+i)) + "@example.com",
				Password: "password123",
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrDuplicateIdentity):
				dups++
			default:
				others = append(others, err)
			}
		}(i)
	}
	wg.Wait()

	require.Empty(t, others)
	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, dups)

	var count int64
	require.NoError(t, f.db.Model(&models.User{}).Where("username = ?", "racer").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAuthService_Verify(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.signup(t, "alice")

	user, err := f.auth.Verify(f.ctx, "alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, user.ID)

	user, err = f.auth.Verify(f.ctx, "ALICE@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, user.ID)

	_, unknownErr := f.auth.Verify(f.ctx, "nobody", "password123")
	require.ErrorIs(t, unknownErr, ErrInvalidCredentials)

	password := "password123"
	for i := range password {
		mutated := []byte(password)
		mutated[i]++
		_, err := f.auth.Verify(f.ctx, "alice", string(mutated))
		require.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Equal(t, unknownErr.Error(), err.Error())
	}
}

func TestAuthService_GetUser(t *testing.T) {
	f := newFixture(t)
	alice, _ := f.signup(t, "alice")

	user, err := f.auth.GetUser(f.ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = f.auth.GetUser(f.ctx, alice.ID+100)
	require.ErrorIs(t, err, ErrUserNotFound)
}
