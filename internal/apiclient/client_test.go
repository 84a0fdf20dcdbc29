package apiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/exam-platform/internal/config"
	"github.com/stemsi/exam-platform/internal/examclient"
	"github.com/stemsi/exam-platform/internal/handler"
	"github.com/stemsi/exam-platform/internal/model"
	"github.com/stemsi/exam-platform/internal/repository/memstore"
	"github.com/stemsi/exam-platform/internal/response"
	"github.com/stemsi/exam-platform/internal/router"
	"github.com/stemsi/exam-platform/internal/service"
	"github.com/stemsi/exam-platform/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

func newServer(t *testing.T, qs ...model.Question) *httptest.Server {
	t.Helper()
	validator.Setup()

	cfg := &config.Config{
		GinMode:       gin.TestMode,
		JWTSecret:     "client-test",
		JWTExpiry:     time.Hour,
		BcryptCost:    4,
		QuestionLimit: 10,
		AuthRateLimit: 1000,
	}
	log := zerolog.Nop()

	authService := service.NewAuthService(cfg, memstore.NewUsers())
	questionService := service.NewQuestionService(memstore.NewQuestions(qs...), nil, cfg.QuestionLimit, log)
	scoringService := service.NewScoringService(memstore.NewAttempts(), questionService, log)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	r := router.SetupRouter(ctx, authService, &router.Handlers{
		Auth:   handler.NewAuthHandler(authService),
		Exam:   handler.NewExamHandler(questionService, scoringService),
		Health: handler.NewHealthHandler(okPinger{}),
	}, cfg, log)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientFlow(t *testing.T) {
	q1 := model.Question{ID: uuid.New(), QuestionText: "1+1?", Options: []string{"2", "3"}, CorrectAnswer: 0}
	q2 := model.Question{ID: uuid.New(), QuestionText: "2+2?", Options: []string{"3", "4"}, CorrectAnswer: 1}
	srv := newServer(t, q1, q2)
	ctx := context.Background()

	c := New(srv.URL + "/")
	res, err := c.Register(ctx, "a@x.com", "pw123456", "A")
	require.NoError(t, err)
	assert.Equal(t, res.Token, c.Token())

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", me.Email)

	qs, err := c.Questions(ctx)
	require.NoError(t, err)
	assert.Len(t, qs, 2)

	sub, err := c.Submit(ctx, map[string]int{q1.ID.String(): 0, q2.ID.String(): 0}, 42)
	require.NoError(t, err)
	assert.Equal(t, 1, sub.Score)
	assert.Equal(t, 2, sub.TotalQuestions)
	assert.Equal(t, 50, sub.Percentage)

	got, err := c.Result(ctx, sub.AttemptID.String())
	require.NoError(t, err)
	assert.Equal(t, 42, got.TimeTaken)

	list, err := c.Results(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, sub.AttemptID, list[0].AttemptID)
}

func TestClientErrors(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()

	c := New(srv.URL)
	_, err := c.Questions(ctx)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, response.ErrTokenRequired, apiErr.Code)
	assert.True(t, IsAuthError(err))

	_, err = c.Login(ctx, "ghost@x.com", "pw123456")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
	assert.Empty(t, c.Token())

	_, err = c.Register(ctx, "a@x.com", "pw123456", "A")
	require.NoError(t, err)
	_, err = c.Result(ctx, uuid.NewString())
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.False(t, IsAuthError(err))
}

func TestSessionOverClient(t *testing.T) {
	q := model.Question{ID: uuid.New(), QuestionText: "pick", Options: []string{"x", "y"}, CorrectAnswer: 1}
	srv := newServer(t, q)
	ctx := context.Background()

	c := New(srv.URL)
	_, err := c.Register(ctx, "a@x.com", "pw123456", "A")
	require.NoError(t, err)

	s := examclient.NewSession(c)
	require.NoError(t, s.Load(ctx))
	require.NoError(t, s.Select(q.ID.String(), 1))
	require.NoError(t, s.Tick(ctx))

	res, err := s.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Score)
	assert.Equal(t, 100, res.Percentage)
	assert.Equal(t, 1, res.TimeTaken)
	assert.True(t, res.Passed)
}

func TestTokenStore(t *testing.T) {
	store := NewTokenStore(filepath.Join(t.TempDir(), "nested", "token"))

	tok, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, tok)

	require.NoError(t, store.Save("abc"))
	tok, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	tok, _ = store.Load()
	assert.Empty(t, tok)
}

func TestRestoreAndLogout(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()
	store := NewTokenStore(filepath.Join(t.TempDir(), "token"))

	user, err := Restore(ctx, New(srv.URL), store)
	require.NoError(t, err)
	assert.Nil(t, user)

	c := New(srv.URL)
	_, err = c.Register(ctx, "a@x.com", "pw123456", "A")
	require.NoError(t, err)
	require.NoError(t, store.Save(c.Token()))

	fresh := New(srv.URL)
	user, err = Restore(ctx, fresh, store)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "a@x.com", user.Email)
	assert.Equal(t, c.Token(), fresh.Token())

	require.NoError(t, Logout(fresh, store))
	assert.Empty(t, fresh.Token())
	tok, _ := store.Load()
	assert.Empty(t, tok)
}

func TestRestoreDropsRejectedToken(t *testing.T) {
	srv := newServer(t)
	store := NewTokenStore(filepath.Join(t.TempDir(), "token"))
	require.NoError(t, store.Save("not-a-jwt"))

	c := New(srv.URL)
	user, err := Restore(context.Background(), c, store)
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Empty(t, c.Token())

	tok, _ := store.Load()
	assert.Empty(t, tok)
}
