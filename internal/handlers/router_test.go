package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/videotube/videotube/internal/logger"
	"github.com/videotube/videotube/internal/media"
	"github.com/videotube/videotube/internal/repository/postgres"
	"github.com/videotube/videotube/internal/service/auth"
	"github.com/videotube/videotube/internal/service/auth/tokenmanager"
	"github.com/videotube/videotube/internal/service/comment"
	"github.com/videotube/videotube/internal/service/like"
	"github.com/videotube/videotube/internal/service/playlist"
	"github.com/videotube/videotube/internal/service/subscription"
	"github.com/videotube/videotube/internal/service/tweet"
	"github.com/videotube/videotube/internal/service/user"
	"github.com/videotube/videotube/internal/service/video"
	"github.com/videotube/videotube/internal/testutil"
)

// media store stub, remembers keys and serves urls from a fake cdn
type fakeMedia struct {
	mu       sync.Mutex
	uploaded []string
	deleted  []string
}

func (m *fakeMedia) Upload(_ context.Context, key string, _ string, _ io.Reader) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploaded = append(m.uploaded, key)
	return "https://cdn.test/" + key, nil
}

func (m *fakeMedia) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, key)
	return nil
}

// views recorder stub
type fakeViews struct {
	mu       sync.Mutex
	recorded []uuid.UUID
}

func (v *fakeViews) Record(videoID uuid.UUID, _ uuid.UUID) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.recorded = append(v.recorded, videoID)
}

func (v *fakeViews) Recorded() []uuid.UUID {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]uuid.UUID(nil), v.recorded...)
}

type testEnv struct {
	url         string
	userService *user.UserService
	authService *auth.AuthService
	views       *fakeViews
}

func Test_Router(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	// Full production router over in-tx storage,
	// only media store and views recorder are stubbed
	withRouter := func(dbpool *pgxpool.Pool, t *testing.T, fn func(env testEnv)) {
		testutil.WithTx(dbpool, t, func(tx pgx.Tx) {
			storage := postgres.NewStorage(tx)
			mediaStore := &fakeMedia{}
			views := &fakeViews{}

			tokenManager, err := tokenmanager.New(tokenmanager.Config{
				AccessSecret:  "access-secret",
				RefreshSecret: "refresh-secret",
			})
			require.NoError(t, err, "token manager should be created without errors")

			authService, err := auth.NewService(auth.Config{}, tokenManager, storage.User())
			require.NoError(t, err, "auth service starting error")

			userService := user.NewService(nil, storage, mediaStore)

			mux := NewRouter(Services{
				Auth:         authService,
				User:         userService,
				Video:        video.NewService(storage, mediaStore, views),
				Comment:      comment.NewService(storage),
				Tweet:        tweet.NewService(storage),
				Like:         like.NewService(storage),
				Subscription: subscription.NewService(storage),
				Playlist:     playlist.NewService(storage),
			}, logger.NewNoOp())

			srv := httptest.NewServer(mux)
			defer srv.Close()

			fn(testEnv{
				url:         srv.URL + "/api/v1",
				userService: userService,
				authService: authService,
				views:       views,
			})
		})
	}

	register := func(t *testing.T, env testEnv, username string) {
		t.Helper()
		_, err := env.userService.Register(t.Context(), user.RegisterParams{
			Username: username,
			Email:    username + "@example.com",
			FullName: "Test " + username,
			Password: "StrongEnoughPassword",
			Avatar:   media.Upload{Filename: "a.png", ContentType: "image/png", Body: strings.NewReader("img")},
		})
		require.NoError(t, err, "should register test user")
	}

	// Client with cookie jar logged in as username
	login := func(t *testing.T, env testEnv, username string) *http.Client {
		t.Helper()
		jar, err := cookiejar.New(nil)
		require.NoError(t, err)
		client := &http.Client{Jar: jar}

		data := fmt.Sprintf(`{"username": %q, "password": "StrongEnoughPassword"}`, username)
		resp, err := client.Post(env.url+"/users/login", "application/json", strings.NewReader(data))
		require.NoError(t, err)
		defer resp.Body.Close() //nolint:errcheck
		require.Equal(t, http.StatusOK, resp.StatusCode, "login should succeed")

		return client
	}

	readBody := func(t *testing.T, resp *http.Response) string {
		t.Helper()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		defer resp.Body.Close() //nolint:errcheck
		return string(body)
	}

	postJSON := func(t *testing.T, client *http.Client, url string, data string) *http.Response {
		t.Helper()
		resp, err := client.Post(url, "application/json", strings.NewReader(data))
		require.NoError(t, err)
		return resp
	}

	do := func(t *testing.T, client *http.Client, method string, url string, data string) *http.Response {
		t.Helper()
		var body io.Reader
		if data != "" {
			body = strings.NewReader(data)
		}
		req, err := http.NewRequest(method, url, body)
		require.NoError(t, err)
		if data != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		resp, err := client.Do(req)
		require.NoError(t, err)
		return resp
	}

	t.Run("healthcheck", func(t *testing.T) {
		withRouter(pg.Pool, t, func(env testEnv) {
			resp, err := http.Get(env.url + "/healthcheck")
			require.NoError(t, err)
			body := readBody(t, resp)

			require.Equal(t, http.StatusOK, resp.StatusCode)
			require.JSONEq(t, `{"status": "ok"}`, body)
		})
	})

	t.Run("login", func(t *testing.T) {
		withRouter(pg.Pool, t, func(env testEnv) {
			register(t, env, "nk")

			data := `{"username": "nk", "password": "StrongEnoughPassword"}`
			resp, err := http.Post(env.url+"/users/login", "application/json", strings.NewReader(data))
			require.NoError(t, err)
			body := readBody(t, resp)

			require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", body)

			var parsed struct {
				User         map[string]any `json:"user"`
				AccessToken  string         `json:"accessToken"`
				RefreshToken string         `json:"refreshToken"`
			}
			require.NoError(t, json.Unmarshal([]byte(body), &parsed))
			require.Equal(t, "nk", parsed.User["username"])
			require.NotEmpty(t, parsed.AccessToken)
			require.NotEmpty(t, parsed.RefreshToken)
			require.NotContains(t, parsed.User, "password", "password must not leak")
			require.NotContains(t, parsed.User, "refreshToken", "stored refresh token must not leak")

			require.Len(t, resp.Cookies(), 2, "access and refresh cookies should be set")
			for _, cookie := range resp.Cookies() {
				require.Contains(t, []string{"accessToken", "refreshToken"}, cookie.Name)
				require.True(t, cookie.HttpOnly, "auth cookies should be HttpOnly")
				require.Equal(t, "/", cookie.Path)
				require.NotEmpty(t, cookie.Value)
			}
		})
	})

	t.Run("login failed", func(t *testing.T) {
		withRouter(pg.Pool, t, func(env testEnv) {
			register(t, env, "nk")

			data := `{"username": "nk", "password": "WrongPassword"}`
			resp, err := http.Post(env.url+"/users/login", "application/json", strings.NewReader(data))
			require.NoError(t, err)
			body := readBody(t, resp)

			require.Equalf(t, http.StatusUnauthorized, resp.StatusCode, "not expected code. Body: %s", body)
			require.JSONEq(t, `
				{
					"error": "service_error",
					"message": "Invalid credentials"
				}`, body)

			require.Empty(t, resp.Cookies(), "no cookies should be set on login error")
		})
	})

	t.Run("register multipart", func(t *testing.T) {
		withRouter(pg.Pool, t, func(env testEnv) {
			var buf bytes.Buffer
			mw := multipart.NewWriter(&buf)
			require.NoError(t, mw.WriteField("username", "alice"))
			require.NoError(t, mw.WriteField("email", "alice@example.com"))
			require.NoError(t, mw.WriteField("fullName", "Alice A"))
			require.NoError(t, mw.WriteField("password", "StrongEnoughPassword"))
			fw, err := mw.CreateFormFile("avatar", "avatar.png")
			require.NoError(t, err)
			_, err = fw.Write([]byte("img-bytes"))
			require.NoError(t, err)
			require.NoError(t, mw.Close())

			resp, err := http.Post(env.url+"/users/register", mw.FormDataContentType(), &buf)
			require.NoError(t, err)
			body := readBody(t, resp)

			require.Equalf(t, http.StatusCreated, resp.StatusCode, "not expected code. Body: %s", body)

			var parsed map[string]any
			require.NoError(t, json.Unmarshal([]byte(body), &parsed))
			require.Equal(t, "alice", parsed["username"])
			require.Contains(t, parsed["avatar"], "https://cdn.test/", "avatar should point at media store")

			// Registered user can login
			login(t, env, "alice")
		})
	})

	t.Run("register without avatar fails", func(t *testing.T) {
		withRouter(pg.Pool, t, func(env testEnv) {
			var buf bytes.Buffer
			mw := multipart.NewWriter(&buf)
			require.NoError(t, mw.WriteField("username", "bob"))
			require.NoError(t, mw.WriteField("email", "bob@example.com"))
			require.NoError(t, mw.WriteField("fullName", "Bob B"))
			require.NoError(t, mw.WriteField("password", "StrongEnoughPassword"))
			require.NoError(t, mw.Close())

			resp, err := http.Post(env.url+"/users/register", mw.FormDataContentType(), &buf)
			require.NoError(t, err)
			body := readBody(t, resp)

			require.Equalf(t, http.StatusBadRequest, resp.StatusCode, "not expected code. Body: %s", body)
		})
	})

	t.Run("auth required", func(t *testing.T) {
		withRouter(pg.Pool, t, func(env testEnv) {
			resp, err := http.Get(env.url + "/users/current-user")
			require.NoError(t, err)
			body := readBody(t, resp)

			require.Equalf(t, http.StatusUnauthorized, resp.StatusCode, "not expected code. Body: %s", body)
			require.JSONEq(t, `
				{
					"error": "service_error",
					"message": "Unauthorized"
				}`, body)
		})
	})

	t.Run("current user with cookie", func(t *testing.T) {
		withRouter(pg.Pool, t, func(env testEnv) {
			register(t, env, "nk")
			client := login(t, env, "nk")

			resp, err := client.Get(env.url + "/users/current-user")
			require.NoError(t, err)
			body := readBody(t, resp)

			require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", body)
			var parsed map[string]any
			require.NoError(t, json.Unmarshal([]byte(body), &parsed))
			require.Equal(t, "nk", parsed["username"])
		})
	})

	t.Run("current user with bearer token", func(t *testing.T) {
		withRouter(pg.Pool, t, func(env testEnv) {
			register(t, env, "nk")

			resp := postJSON(t, http.DefaultClient, env.url+"/users/login", `{"username": "nk", "password": "StrongEnoughPassword"}`)
			body := readBody(t, resp)

			var parsed struct {
				AccessToken string `json:"accessToken"`
			}
			require.NoError(t, json.Unmarshal([]byte(body), &parsed))

			req, err := http.NewRequest(http.MethodGet, env.url+"/users/current-user", nil)
			require.NoError(t, err)
			req.Header.Set("Authorization", "Bearer "+parsed.AccessToken)

			resp, err = http.DefaultClient.Do(req)
			require.NoError(t, err)
			body = readBody(t, resp)
			require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", body)
		})
	})

	t.Run("refresh token rotation", func(t *testing.T) {
		withRouter(pg.Pool, t, func(env testEnv) {
			register(t, env, "nk")

			resp := postJSON(t, http.DefaultClient, env.url+"/users/login", `{"username": "nk", "password": "StrongEnoughPassword"}`)
			body := readBody(t, resp)

			var parsed struct {
				RefreshToken string `json:"refreshToken"`
			}
			require.NoError(t, json.Unmarshal([]byte(body), &parsed))

			// First refresh with token in body is fine
			refreshBody := fmt.Sprintf(`{"refreshToken": %q}`, parsed.RefreshToken)
			resp = postJSON(t, http.DefaultClient, env.url+"/users/refresh-token", refreshBody)
			body = readBody(t, resp)
			require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", body)

			// Second refresh with the same token must fail, token already rotated
			resp = postJSON(t, http.DefaultClient, env.url+"/users/refresh-token", refreshBody)
			body = readBody(t, resp)
			require.Equalf(t, http.StatusUnauthorized, resp.StatusCode, "not expected code. Body: %s", body)
		})
	})

	t.Run("logout", func(t *testing.T) {
		withRouter(pg.Pool, t, func(env testEnv) {
			register(t, env, "nk")
			client := login(t, env, "nk")

			resp := postJSON(t, client, env.url+"/users/logout", "")
			body := readBody(t, resp)
			require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", body)

			for _, cookie := range resp.Cookies() {
				require.Negative(t, cookie.MaxAge, "auth cookies should be dropped on logout")
			}

			// Cookie jar dropped the cookies, auth is gone
			resp, err := client.Get(env.url + "/users/current-user")
			require.NoError(t, err)
			readBody(t, resp)
			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	})

	t.Run("video lifecycle", func(t *testing.T) {
		withRouter(pg.Pool, t, func(env testEnv) {
			register(t, env, "nk")
			client := login(t, env, "nk")

			// Publish video with files
			var buf bytes.Buffer
			mw := multipart.NewWriter(&buf)
			require.NoError(t, mw.WriteField("title", "First video"))
			require.NoError(t, mw.WriteField("description", "About nothing"))
			require.NoError(t, mw.WriteField("duration", "42.5"))
			fw, err := mw.CreateFormFile("videoFile", "video.mp4")
			require.NoError(t, err)
			_, err = fw.Write([]byte("video-bytes"))
			require.NoError(t, err)
			fw, err = mw.CreateFormFile("thumbnail", "thumb.png")
			require.NoError(t, err)
			_, err = fw.Write([]byte("thumb-bytes"))
			require.NoError(t, err)
			require.NoError(t, mw.Close())

			resp, err := client.Post(env.url+"/videos", mw.FormDataContentType(), &buf)
			require.NoError(t, err)
			body := readBody(t, resp)
			require.Equalf(t, http.StatusCreated, resp.StatusCode, "not expected code. Body: %s", body)

			var published VideoResponse
			require.NoError(t, json.Unmarshal([]byte(body), &published))
			require.Equal(t, "First video", published.Title)
			require.True(t, published.IsPublished, "fresh video is published right away")

			// Get records a view
			resp, err = client.Get(env.url + "/videos/" + published.ID.String())
			require.NoError(t, err)
			body = readBody(t, resp)
			require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", body)
			require.Contains(t, env.views.Recorded(), published.ID, "view should be recorded")

			// Listed for everyone while published
			resp, err = client.Get(env.url + "/videos")
			require.NoError(t, err)
			body = readBody(t, resp)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			var listed []VideoResponse
			require.NoError(t, json.Unmarshal([]byte(body), &listed))
			require.Len(t, listed, 1)

			// Unpublish, gone from the public list but still visible to the owner
			resp = do(t, client, http.MethodPatch, env.url+"/videos/toggle/publish/"+published.ID.String(), "")
			body = readBody(t, resp)
			require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", body)
			var toggled VideoResponse
			require.NoError(t, json.Unmarshal([]byte(body), &toggled))
			require.False(t, toggled.IsPublished)

			resp, err = client.Get(env.url + "/videos")
			require.NoError(t, err)
			body = readBody(t, resp)
			require.NoError(t, json.Unmarshal([]byte(body), &listed))
			require.Empty(t, listed, "unpublished video should not be listed")

			resp, err = client.Get(env.url + "/videos/" + published.ID.String())
			require.NoError(t, err)
			readBody(t, resp)
			require.Equal(t, http.StatusOK, resp.StatusCode, "owner still sees the draft")

			// Delete
			resp = do(t, client, http.MethodDelete, env.url+"/videos/"+published.ID.String(), "")
			body = readBody(t, resp)
			require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", body)

			resp, err = client.Get(env.url + "/videos/" + published.ID.String())
			require.NoError(t, err)
			readBody(t, resp)
			require.Equal(t, http.StatusNotFound, resp.StatusCode)
		})
	})

	t.Run("comments and likes", func(t *testing.T) {
		withRouter(pg.Pool, t, func(env testEnv) {
			register(t, env, "nk")
			client := login(t, env, "nk")

			// Minimal published video created through the api
			var buf bytes.Buffer
			mw := multipart.NewWriter(&buf)
			require.NoError(t, mw.WriteField("title", "To comment"))
			require.NoError(t, mw.WriteField("duration", "1"))
			fw, _ := mw.CreateFormFile("videoFile", "v.mp4")
			_, _ = fw.Write([]byte("v"))
			fw, _ = mw.CreateFormFile("thumbnail", "t.png")
			_, _ = fw.Write([]byte("t"))
			require.NoError(t, mw.Close())

			resp, err := client.Post(env.url+"/videos", mw.FormDataContentType(), &buf)
			require.NoError(t, err)
			var v VideoResponse
			require.NoError(t, json.Unmarshal([]byte(readBody(t, resp)), &v))

			// Comment it
			resp = postJSON(t, client, env.url+"/comments/"+v.ID.String(), `{"content": "nice one"}`)
			body := readBody(t, resp)
			require.Equalf(t, http.StatusCreated, resp.StatusCode, "not expected code. Body: %s", body)
			var c CommentResponse
			require.NoError(t, json.Unmarshal([]byte(body), &c))

			// Comment listed
			resp, err = client.Get(env.url + "/comments/" + v.ID.String())
			require.NoError(t, err)
			body = readBody(t, resp)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			var comments []CommentResponse
			require.NoError(t, json.Unmarshal([]byte(body), &comments))
			require.Len(t, comments, 1)
			require.Equal(t, "nice one", comments[0].Content)

			// Like video, then unlike
			resp = postJSON(t, client, env.url+"/likes/toggle/v/"+v.ID.String(), "")
			body = readBody(t, resp)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			require.JSONEq(t, `{"liked": true}`, body)

			resp, err = client.Get(env.url + "/likes/videos")
			require.NoError(t, err)
			body = readBody(t, resp)
			var liked []VideoResponse
			require.NoError(t, json.Unmarshal([]byte(body), &liked))
			require.Len(t, liked, 1)

			resp = postJSON(t, client, env.url+"/likes/toggle/v/"+v.ID.String(), "")
			body = readBody(t, resp)
			require.JSONEq(t, `{"liked": false}`, body)

			// Like missing comment
			resp = postJSON(t, client, env.url+"/likes/toggle/c/"+uuid.NewString(), "")
			readBody(t, resp)
			require.Equal(t, http.StatusNotFound, resp.StatusCode)
		})
	})

	t.Run("tweets", func(t *testing.T) {
		withRouter(pg.Pool, t, func(env testEnv) {
			register(t, env, "nk")
			client := login(t, env, "nk")

			resp := postJSON(t, client, env.url+"/tweets", `{"content": "hello world"}`)
			body := readBody(t, resp)
			require.Equalf(t, http.StatusCreated, resp.StatusCode, "not expected code. Body: %s", body)
			var tw TweetResponse
			require.NoError(t, json.Unmarshal([]byte(body), &tw))

			resp = do(t, client, http.MethodPatch, env.url+"/tweets/"+tw.ID.String(), `{"content": "edited"}`)
			body = readBody(t, resp)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			resp, err := client.Get(env.url + "/tweets/user/" + tw.Owner.String())
			require.NoError(t, err)
			body = readBody(t, resp)
			var tweets []TweetResponse
			require.NoError(t, json.Unmarshal([]byte(body), &tweets))
			require.Len(t, tweets, 1)
			require.Equal(t, "edited", tweets[0].Content)

			resp = do(t, client, http.MethodDelete, env.url+"/tweets/"+tw.ID.String(), "")
			readBody(t, resp)
			require.Equal(t, http.StatusOK, resp.StatusCode)
		})
	})

	t.Run("subscriptions and channel profile", func(t *testing.T) {
		withRouter(pg.Pool, t, func(env testEnv) {
			register(t, env, "creator")
			register(t, env, "viewer")
			client := login(t, env, "viewer")

			// Find creator channel id via its profile
			resp, err := client.Get(env.url + "/users/c/creator")
			require.NoError(t, err)
			body := readBody(t, resp)
			require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", body)

			var profile struct {
				ID           uuid.UUID `json:"id"`
				IsSubscribed bool      `json:"isSubscribed"`
			}
			require.NoError(t, json.Unmarshal([]byte(body), &profile))
			require.False(t, profile.IsSubscribed)

			// Subscribe
			resp = postJSON(t, client, env.url+"/subscriptions/c/"+profile.ID.String(), "")
			body = readBody(t, resp)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			require.JSONEq(t, `{"subscribed": true}`, body)

			resp, err = client.Get(env.url + "/users/c/creator")
			require.NoError(t, err)
			body = readBody(t, resp)
			require.NoError(t, json.Unmarshal([]byte(body), &profile))
			require.True(t, profile.IsSubscribed)

			// Subscribers listed
			resp, err = client.Get(env.url + "/subscriptions/c/" + profile.ID.String())
			require.NoError(t, err)
			body = readBody(t, resp)
			var subscribers []UserResponse
			require.NoError(t, json.Unmarshal([]byte(body), &subscribers))
			require.Len(t, subscribers, 1)
			require.Equal(t, "viewer", subscribers[0].Username)

			// Self subscription rejected
			resp = postJSON(t, client, env.url+"/subscriptions/c/"+subscribers[0].ID.String(), "")
			readBody(t, resp)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	})

	t.Run("playlists", func(t *testing.T) {
		withRouter(pg.Pool, t, func(env testEnv) {
			register(t, env, "nk")
			client := login(t, env, "nk")

			resp := postJSON(t, client, env.url+"/playlists", `{"name": "Watch later", "description": "later"}`)
			body := readBody(t, resp)
			require.Equalf(t, http.StatusCreated, resp.StatusCode, "not expected code. Body: %s", body)
			var p PlaylistResponse
			require.NoError(t, json.Unmarshal([]byte(body), &p))

			// Publish a video and add it
			var buf bytes.Buffer
			mw := multipart.NewWriter(&buf)
			require.NoError(t, mw.WriteField("title", "For playlist"))
			require.NoError(t, mw.WriteField("duration", "1"))
			fw, _ := mw.CreateFormFile("videoFile", "v.mp4")
			_, _ = fw.Write([]byte("v"))
			fw, _ = mw.CreateFormFile("thumbnail", "t.png")
			_, _ = fw.Write([]byte("t"))
			require.NoError(t, mw.Close())

			resp, err := client.Post(env.url+"/videos", mw.FormDataContentType(), &buf)
			require.NoError(t, err)
			var v VideoResponse
			require.NoError(t, json.Unmarshal([]byte(readBody(t, resp)), &v))

			resp = do(t, client, http.MethodPatch, env.url+"/playlists/add/"+v.ID.String()+"/"+p.ID.String(), "")
			body = readBody(t, resp)
			require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", body)
			require.NoError(t, json.Unmarshal([]byte(body), &p))
			require.Len(t, p.Videos, 1)

			// Second add conflicts
			resp = do(t, client, http.MethodPatch, env.url+"/playlists/add/"+v.ID.String()+"/"+p.ID.String(), "")
			readBody(t, resp)
			require.Equal(t, http.StatusConflict, resp.StatusCode)

			resp = do(t, client, http.MethodPatch, env.url+"/playlists/remove/"+v.ID.String()+"/"+p.ID.String(), "")
			body = readBody(t, resp)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			require.NoError(t, json.Unmarshal([]byte(body), &p))
			require.Empty(t, p.Videos)
		})
	})

	t.Run("dashboard", func(t *testing.T) {
		withRouter(pg.Pool, t, func(env testEnv) {
			register(t, env, "nk")
			client := login(t, env, "nk")

			resp, err := client.Get(env.url + "/dashboard/stats")
			require.NoError(t, err)
			body := readBody(t, resp)
			require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", body)
			require.JSONEq(t, `
				{
					"totalVideos": 0,
					"totalViews": 0,
					"totalSubscribers": 0,
					"totalLikes": 0
				}`, body)

			resp, err = client.Get(env.url + "/dashboard/videos")
			require.NoError(t, err)
			body = readBody(t, resp)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			require.JSONEq(t, `[]`, body)
		})
	})
}
