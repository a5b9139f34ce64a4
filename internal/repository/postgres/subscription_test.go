package postgres

import (
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/videotube/videotube/internal/apperrors"
	"github.com/videotube/videotube/internal/models"
	"github.com/videotube/videotube/internal/testutil"
)

func Test_SubscriptionRepo(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	withRepos := func(t *testing.T, fn func(repo *SubscriptionRepo, subscriber models.User, channel models.User)) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			users := &UserRepo{DB: tx}

			subscriber, err := users.CreateUser(t.Context(), newUserParams("subscriber"))
			require.NoError(t, err)
			channel, err := users.CreateUser(t.Context(), newUserParams("channel"))
			require.NoError(t, err)

			fn(&SubscriptionRepo{DB: tx}, subscriber, channel)
		})
	}

	t.Run("toggle on and off", func(t *testing.T) {
		withRepos(t, func(repo *SubscriptionRepo, subscriber models.User, channel models.User) {
			subscribed, err := repo.Toggle(t.Context(), subscriber.ID, channel.ID)
			require.NoError(t, err)
			assert.True(t, subscribed)

			subscribed, err = repo.Toggle(t.Context(), subscriber.ID, channel.ID)
			require.NoError(t, err)
			assert.False(t, subscribed)
		})
	})

	t.Run("self subscription rejected", func(t *testing.T) {
		withRepos(t, func(repo *SubscriptionRepo, subscriber models.User, _ models.User) {
			_, err := repo.Toggle(t.Context(), subscriber.ID, subscriber.ID)
			require.ErrorIs(t, err, apperrors.ErrSelfSubscription)
		})
	})

	t.Run("listings", func(t *testing.T) {
		withRepos(t, func(repo *SubscriptionRepo, subscriber models.User, channel models.User) {
			_, err := repo.Toggle(t.Context(), subscriber.ID, channel.ID)
			require.NoError(t, err)

			subscribers, err := repo.ListChannelSubscribers(t.Context(), channel.ID)
			require.NoError(t, err)
			require.Len(t, subscribers, 1)
			assert.Equal(t, subscriber.ID, subscribers[0].ID)

			channels, err := repo.ListSubscribedChannels(t.Context(), subscriber.ID)
			require.NoError(t, err)
			require.Len(t, channels, 1)
			assert.Equal(t, channel.ID, channels[0].ID)

			none, err := repo.ListSubscribedChannels(t.Context(), channel.ID)
			require.NoError(t, err)
			assert.Empty(t, none)
		})
	})
}
