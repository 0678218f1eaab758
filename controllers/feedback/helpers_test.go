package feedbackController

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"fbs/config"
	"fbs/database"
	"fbs/middleware"
	"fbs/models"
	feedbackValidators "fbs/validators/feedback"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	config.LoadConfig()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()

	feedbackGroup := app.Group("/feedback")
	feedbackGroup.Get("/tags", middleware.JWTMiddleware, TagList)
	feedbackGroup.Post("/requests", feedbackValidators.CreateRequest(), middleware.JWTMiddleware, CreateFeedbackRequest)
	feedbackGroup.Get("/requests", middleware.JWTMiddleware, FeedbackRequestList)
	feedbackGroup.Patch("/requests/:id/complete", middleware.JWTMiddleware, CompleteFeedbackRequest)
	feedbackGroup.Post("/", feedbackValidators.CreateFeedback(), middleware.JWTMiddleware, CreateFeedback)
	feedbackGroup.Get("/", middleware.JWTMiddleware, FeedbackList)
	feedbackGroup.Get("/:id", middleware.JWTMiddleware, GetFeedback)
	feedbackGroup.Put("/:id", feedbackValidators.UpdateFeedback(), middleware.JWTMiddleware, UpdateFeedback)
	feedbackGroup.Delete("/:id", middleware.JWTMiddleware, DeleteFeedback)
	feedbackGroup.Post("/:id/acknowledge", middleware.JWTMiddleware, AcknowledgeFeedback)
	feedbackGroup.Post("/:id/unacknowledge", middleware.JWTMiddleware, UnacknowledgeFeedback)
	feedbackGroup.Post("/:id/comment", feedbackValidators.Comment(), middleware.JWTMiddleware, AddComment)
	feedbackGroup.Put("/:id/comment", feedbackValidators.Comment(), middleware.JWTMiddleware, UpdateComment)
	feedbackGroup.Delete("/:id/comment", middleware.JWTMiddleware, DeleteComment)

	return app
}

func newUser(t *testing.T, name, role string) models.User {
	t.Helper()

	user := models.User{
		Name:     name,
		Username: name,
		Email:    name + "@example.com",
		Password: "not-a-real-hash",
		Role:     role,
	}
	require.NoError(t, database.Database.Db.Create(&user).Error)
	return user
}

func bearer(t *testing.T, user models.User) string {
	t.Helper()

	token, err := middleware.GenerateJWT(user.ID, user.Username, user.Role)
	require.NoError(t, err)
	return "Bearer " + token
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func do(t *testing.T, app *fiber.App, method, path string, body interface{}, user *models.User) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != nil {
		req.Header.Set("Authorization", bearer(t, *user))
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &env))

	return resp.StatusCode, env
}

func decodeData(t *testing.T, env envelope, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func createFeedback(t *testing.T, app *fiber.App, author models.User, payload map[string]interface{}) feedbackView {
	t.Helper()

	code, env := do(t, app, http.MethodPost, "/feedback/", payload, &author)
	require.Equal(t, http.StatusCreated, code, env.Message)

	var view feedbackView
	decodeData(t, env, &view)
	return view
}
