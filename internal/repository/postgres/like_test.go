package postgres

import (
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/videotube/videotube/internal/models"
	"github.com/videotube/videotube/internal/testutil"
)

func Test_LikeRepo(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	withRepos := func(t *testing.T, fn func(repo *LikeRepo, user models.User, video models.Video)) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			users := &UserRepo{DB: tx}
			videos := &VideoRepo{DB: tx}

			user, err := users.CreateUser(t.Context(), newUserParams("liker"))
			require.NoError(t, err)
			video, err := videos.CreateVideo(t.Context(), newVideoParams(user.ID, "liked"))
			require.NoError(t, err)

			fn(&LikeRepo{DB: tx}, user, video)
		})
	}

	t.Run("toggle on and off", func(t *testing.T) {
		withRepos(t, func(repo *LikeRepo, user models.User, video models.Video) {
			liked, err := repo.Toggle(t.Context(), user.ID, models.LikeForVideo, video.ID)
			require.NoError(t, err)
			assert.True(t, liked, "first toggle adds the like")

			liked, err = repo.Toggle(t.Context(), user.ID, models.LikeForVideo, video.ID)
			require.NoError(t, err)
			assert.False(t, liked, "second toggle removes it")

			liked, err = repo.Toggle(t.Context(), user.ID, models.LikeForVideo, video.ID)
			require.NoError(t, err)
			assert.True(t, liked, "third toggle adds it back")
		})
	})

	t.Run("targets are independent", func(t *testing.T) {
		withRepos(t, func(repo *LikeRepo, user models.User, video models.Video) {
			comments := &CommentRepo{DB: repo.DB}
			comment, err := comments.CreateComment(t.Context(), video.ID, user.ID, "great")
			require.NoError(t, err)

			_, err = repo.Toggle(t.Context(), user.ID, models.LikeForVideo, video.ID)
			require.NoError(t, err)
			liked, err := repo.Toggle(t.Context(), user.ID, models.LikeForComment, comment.ID)
			require.NoError(t, err)
			assert.True(t, liked, "comment like should not collide with video like")
		})
	})

	t.Run("list liked videos", func(t *testing.T) {
		withRepos(t, func(repo *LikeRepo, user models.User, video models.Video) {
			videos := &VideoRepo{DB: repo.DB}
			other, err := videos.CreateVideo(t.Context(), newVideoParams(user.ID, "other"))
			require.NoError(t, err)

			_, err = repo.Toggle(t.Context(), user.ID, models.LikeForVideo, video.ID)
			require.NoError(t, err)

			liked, err := repo.ListLikedVideos(t.Context(), user.ID)
			require.NoError(t, err)
			require.Len(t, liked, 1)
			assert.Equal(t, video.ID, liked[0].ID)
			assert.NotEqual(t, other.ID, liked[0].ID)
		})
	})
}
