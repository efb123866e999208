package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sushihentaime/bloglist/internal/auth"
	"github.com/sushihentaime/bloglist/internal/blogservice"
	"github.com/sushihentaime/bloglist/internal/common"
	"github.com/sushihentaime/bloglist/internal/userservice"
)

const testSecret = "testsecret"

func intptr(i int) *int {
	return &i
}

func strptr(s string) *string {
	return &s
}

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)

	t.Cleanup(ts.Close)

	return &testServer{ts}
}

func newTestConfig() *Config {
	cfg := &Config{
		Port:              ":0",
		Environment:       "testing",
		Version:           "test",
		TrustedOrigins:    []string{"http://localhost:5173"},
		Secret:            testSecret,
		TokenTTL:          time.Hour,
		PasswordMinLength: userservice.DefaultPasswordMinLength,
	}
	cfg.Limiter.RPS = 2
	cfg.Limiter.Burst = 4

	return cfg
}

func newTestApplication(t *testing.T) (*application, *sql.DB) {
	db := common.TestDB("file://../../migrations", t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := newTestConfig()
	tokens := auth.NewIssuer(cfg.Secret, cfg.TokenTTL)

	app := &application{
		config:      cfg,
		logger:      logger,
		tokens:      tokens,
		userService: userservice.NewUserService(db, tokens, cfg.PasswordMinLength),
		blogService: blogservice.NewBlogService(db, nil, logger),
		limiters:    common.NewCache(3*time.Minute, time.Minute),
	}

	return app, db
}

func resetDB(t *testing.T, db *sql.DB) {
	_, err := db.Exec("TRUNCATE blogs, users")
	require.NoError(t, err)
}

// request sends payload as JSON. A string payload is sent as is and a nil payload sends no body.
func (ts *testServer) request(t *testing.T, method, path string, payload any, headers map[string]string) (int, http.Header, []byte) {
	var body io.Reader

	switch p := payload.(type) {
	case nil:
	case string:
		body = bytes.NewReader([]byte(p))
	default:
		jsonPayload, err := json.Marshal(p)
		require.NoError(t, err)
		body = bytes.NewReader(jsonPayload)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	require.NoError(t, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	res, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	responseBody, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	return res.StatusCode, res.Header, responseBody
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func decode[T any](t *testing.T, body []byte) T {
	var v T
	require.NoError(t, json.Unmarshal(body, &v), string(body))
	return v
}

func errorMessage(t *testing.T, body []byte) string {
	env := decode[map[string]string](t, body)
	return env["error"]
}

func createTestUser(t *testing.T, app *application, username, password string) *userservice.User {
	user, err := app.userService.CreateUser(context.Background(), &userservice.CreateUserRequest{
		Username: username,
		Name:     "Test " + username,
		Password: password,
	})
	require.NoError(t, err)

	return user
}

func loginTestUser(t *testing.T, app *application, username, password string) string {
	res, err := app.userService.LoginUser(context.Background(), username, password)
	require.NoError(t, err)

	return res.Token
}

var initialBlogs = []blogservice.CreateBlogRequest{
	{
		Title:  "React patterns",
		Author: "Michael Chan",
		URL:    "https://reactpatterns.com/",
		Likes:  intptr(7),
	},
	{
		Title:  "Go To Statement Considered Harmful",
		Author: "Edsger W. Dijkstra",
		URL:    "http://www.u.arizona.edu/~rubinson/copyright_violations/Go_To_Considered_Harmful.html",
		Likes:  intptr(5),
	},
}

func seedBlogs(t *testing.T, app *application, owner *userservice.User) []blogservice.Blog {
	blogs := make([]blogservice.Blog, 0, len(initialBlogs))

	for i := range initialBlogs {
		blog, err := app.blogService.CreateBlog(context.Background(), &initialBlogs[i], owner)
		require.NoError(t, err)
		blogs = append(blogs, *blog)
	}

	return blogs
}

func countBlogs(t *testing.T, db *sql.DB) int {
	var count int
	require.NoError(t, db.QueryRow("SELECT count(*) FROM blogs").Scan(&count))
	return count
}
