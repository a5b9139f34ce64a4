package postgres

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/videotube/videotube/internal/apperrors"
	"github.com/videotube/videotube/internal/repository"
	"github.com/videotube/videotube/internal/testutil"
)

func newUserParams(username string) repository.CreateUserParams {
	return repository.CreateUserParams{
		Username:     username,
		Email:        username + "@example.com",
		FullName:     "Test User",
		AvatarURL:    "https://assets.test/avatars/" + username,
		AvatarKey:    "avatars/" + username,
		PasswordHash: "hashed_password",
	}
}

func Test_UserRepo(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	withRepo := func(t *testing.T, fn func(repo *UserRepo)) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			fn(&UserRepo{DB: tx})
		})
	}

	t.Run("CreateUser", func(t *testing.T) {
		t.Run("create ok", func(t *testing.T) {
			withRepo(t, func(repo *UserRepo) {
				user, err := repo.CreateUser(t.Context(), newUserParams("alice"))

				require.NoError(t, err)
				assert.NotEqual(t, uuid.Nil, user.ID, "id should be generated")
				assert.Equal(t, "alice", user.Username)
				assert.Equal(t, "alice@example.com", user.Email)
				assert.Equal(t, "", user.RefreshToken, "fresh user should have no refresh token")
			})
		})

		t.Run("duplicate username", func(t *testing.T) {
			withRepo(t, func(repo *UserRepo) {
				_, err := repo.CreateUser(t.Context(), newUserParams("bob"))
				require.NoError(t, err)

				params := newUserParams("bob")
				params.Email = "other@example.com"
				_, err = repo.CreateUser(t.Context(), params)
				require.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)
			})
		})

		t.Run("duplicate email", func(t *testing.T) {
			withRepo(t, func(repo *UserRepo) {
				_, err := repo.CreateUser(t.Context(), newUserParams("carol"))
				require.NoError(t, err)

				params := newUserParams("carol2")
				params.Email = "carol@example.com"
				_, err = repo.CreateUser(t.Context(), params)
				require.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)
			})
		})
	})

	t.Run("GetUserByLogin", func(t *testing.T) {
		t.Run("match username or email", func(t *testing.T) {
			withRepo(t, func(repo *UserRepo) {
				created, err := repo.CreateUser(t.Context(), newUserParams("dave"))
				require.NoError(t, err)

				byUsername, err := repo.GetUserByLogin(t.Context(), "dave")
				require.NoError(t, err)
				assert.Equal(t, created.ID, byUsername.ID)

				byEmail, err := repo.GetUserByLogin(t.Context(), "dave@example.com")
				require.NoError(t, err)
				assert.Equal(t, created.ID, byEmail.ID)
			})
		})

		t.Run("not found", func(t *testing.T) {
			withRepo(t, func(repo *UserRepo) {
				_, err := repo.GetUserByLogin(t.Context(), "nobody")
				require.ErrorIs(t, err, apperrors.ErrUserNotFound)
			})
		})
	})

	t.Run("SetRefreshToken", func(t *testing.T) {
		t.Run("overwrites unconditionally", func(t *testing.T) {
			withRepo(t, func(repo *UserRepo) {
				user, err := repo.CreateUser(t.Context(), newUserParams("erin"))
				require.NoError(t, err)

				require.NoError(t, repo.SetRefreshToken(t.Context(), user.ID, "first"))
				require.NoError(t, repo.SetRefreshToken(t.Context(), user.ID, "second"))

				got, err := repo.GetUserByID(t.Context(), user.ID)
				require.NoError(t, err)
				assert.Equal(t, "second", got.RefreshToken)
			})
		})

		t.Run("unknown user", func(t *testing.T) {
			withRepo(t, func(repo *UserRepo) {
				err := repo.SetRefreshToken(t.Context(), uuid.New(), "token")
				require.ErrorIs(t, err, apperrors.ErrUserNotFound)
			})
		})
	})

	t.Run("RotateRefreshToken", func(t *testing.T) {
		t.Run("rotate ok", func(t *testing.T) {
			withRepo(t, func(repo *UserRepo) {
				user, err := repo.CreateUser(t.Context(), newUserParams("frank"))
				require.NoError(t, err)
				require.NoError(t, repo.SetRefreshToken(t.Context(), user.ID, "current"))

				err = repo.RotateRefreshToken(t.Context(), user.ID, "current", "next")
				require.NoError(t, err)

				got, err := repo.GetUserByID(t.Context(), user.ID)
				require.NoError(t, err)
				assert.Equal(t, "next", got.RefreshToken)
			})
		})

		t.Run("rotation is single use", func(t *testing.T) {
			withRepo(t, func(repo *UserRepo) {
				user, err := repo.CreateUser(t.Context(), newUserParams("grace"))
				require.NoError(t, err)
				require.NoError(t, repo.SetRefreshToken(t.Context(), user.ID, "current"))

				require.NoError(t, repo.RotateRefreshToken(t.Context(), user.ID, "current", "next"))

				// Second rotation with the already consumed value must fail
				err = repo.RotateRefreshToken(t.Context(), user.ID, "current", "another")
				require.ErrorIs(t, err, apperrors.ErrRefreshTokenReused)

				got, err := repo.GetUserByID(t.Context(), user.ID)
				require.NoError(t, err)
				assert.Equal(t, "next", got.RefreshToken, "stored token should not change on failed rotation")
			})
		})

		t.Run("concurrent rotation has exactly one winner", func(t *testing.T) {
			// Concurrent updates need separate connections, so this
			// test runs on the pool instead of a rolled back tx
			repo := &UserRepo{DB: pg.Pool}

			user, err := repo.CreateUser(t.Context(), newUserParams("judy"))
			require.NoError(t, err)
			t.Cleanup(func() {
				_, _ = pg.Pool.Exec(context.Background(), "DELETE FROM users WHERE id = $1", user.ID)
			})

			require.NoError(t, repo.SetRefreshToken(t.Context(), user.ID, "current"))

			const workers = 8
			errs := make(chan error, workers)

			var wg sync.WaitGroup
			for i := range workers {
				wg.Add(1)
				go func() {
					defer wg.Done()
					errs <- repo.RotateRefreshToken(t.Context(), user.ID, "current", fmt.Sprintf("next-%d", i))
				}()
			}
			wg.Wait()
			close(errs)

			succeeded := 0
			for err := range errs {
				if err == nil {
					succeeded++
					continue
				}
				require.ErrorIs(t, err, apperrors.ErrRefreshTokenReused)
			}
			require.Equal(t, 1, succeeded, "only one rotation should consume the token")
		})

		t.Run("cleared token can not rotate", func(t *testing.T) {
			withRepo(t, func(repo *UserRepo) {
				user, err := repo.CreateUser(t.Context(), newUserParams("heidi"))
				require.NoError(t, err)
				require.NoError(t, repo.SetRefreshToken(t.Context(), user.ID, "current"))

				// Logout clears the stored value
				require.NoError(t, repo.SetRefreshToken(t.Context(), user.ID, ""))

				err = repo.RotateRefreshToken(t.Context(), user.ID, "current", "next")
				require.ErrorIs(t, err, apperrors.ErrRefreshTokenReused)
			})
		})
	})

	t.Run("UpdateUser", func(t *testing.T) {
		t.Run("partial update", func(t *testing.T) {
			withRepo(t, func(repo *UserRepo) {
				user, err := repo.CreateUser(t.Context(), newUserParams("ivan"))
				require.NoError(t, err)

				fullName := "Ivan Fullname"
				got, err := repo.UpdateUser(t.Context(), user.ID, repository.UpdateUserParams{FullName: &fullName})
				require.NoError(t, err)

				assert.Equal(t, "Ivan Fullname", got.FullName)
				assert.Equal(t, "ivan", got.Username, "username should be untouched")
			})
		})

		t.Run("username taken", func(t *testing.T) {
			withRepo(t, func(repo *UserRepo) {
				_, err := repo.CreateUser(t.Context(), newUserParams("judy"))
				require.NoError(t, err)
				user, err := repo.CreateUser(t.Context(), newUserParams("karl"))
				require.NoError(t, err)

				taken := "judy"
				_, err = repo.UpdateUser(t.Context(), user.ID, repository.UpdateUserParams{Username: &taken})
				require.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)
			})
		})
	})

	t.Run("GetChannelProfile", func(t *testing.T) {
		withRepo(t, func(repo *UserRepo) {
			channel, err := repo.CreateUser(t.Context(), newUserParams("channel"))
			require.NoError(t, err)
			viewer, err := repo.CreateUser(t.Context(), newUserParams("viewer"))
			require.NoError(t, err)

			subs := &SubscriptionRepo{DB: repo.DB}
			subscribed, err := subs.Toggle(t.Context(), viewer.ID, channel.ID)
			require.NoError(t, err)
			require.True(t, subscribed)

			profile, err := repo.GetChannelProfile(t.Context(), "channel", viewer.ID)
			require.NoError(t, err)
			assert.Equal(t, channel.ID, profile.User.ID)
			assert.Equal(t, int64(1), profile.SubscriberCount)
			assert.Equal(t, int64(0), profile.SubscribedToCount)
			assert.True(t, profile.IsSubscribed)

			// Same profile as seen by somebody else
			other, err := repo.GetChannelProfile(t.Context(), "channel", channel.ID)
			require.NoError(t, err)
			assert.False(t, other.IsSubscribed)
		})
	})
}
