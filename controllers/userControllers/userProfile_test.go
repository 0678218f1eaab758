package userController

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
	userValidators "fbs/validators/userValidator"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
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

	userGroup := app.Group("/users")
	userGroup.Get("/profile", middleware.JWTMiddleware, GetProfile)
	userGroup.Put("/profile", userValidators.UpdateProfile(), middleware.JWTMiddleware, UpdateProfile)
	userGroup.Delete("/profile", middleware.JWTMiddleware, DeleteProfile)
	userGroup.Get("/employees", middleware.JWTMiddleware, EmployeeList)
	userGroup.Get("/managers", middleware.JWTMiddleware, ManagerList)

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
		token, err := middleware.GenerateJWT(user.ID, user.Username, user.Role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
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

func TestGetProfile(t *testing.T) {
	app := setupApp(t)
	user := newUser(t, "bob", models.RoleEmployee)

	code, env := do(t, app, http.MethodGet, "/users/profile", nil, &user)
	require.Equal(t, http.StatusOK, code)

	var profile map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "bob", profile["username"])
	// Password hash never leaves the API
	_, exposed := profile["password"]
	assert.False(t, exposed)
}

func TestUpdateProfile(t *testing.T) {
	app := setupApp(t)
	user := newUser(t, "bob", models.RoleEmployee)

	t.Run("name and email change", func(t *testing.T) {
		code, env := do(t, app, http.MethodPut, "/users/profile", map[string]interface{}{
			"name":  "Robert",
			"email": "robert@example.com",
		}, &user)
		require.Equal(t, http.StatusOK, code, env.Message)

		var stored models.User
		require.NoError(t, database.Database.Db.First(&stored, user.ID).Error)
		assert.Equal(t, "Robert", stored.Name)
		assert.Equal(t, "robert@example.com", stored.Email)
	})

	t.Run("taken email conflicts", func(t *testing.T) {
		newUser(t, "carol", models.RoleEmployee)

		code, _ := do(t, app, http.MethodPut, "/users/profile", map[string]interface{}{
			"email": "carol@example.com",
		}, &user)
		assert.Equal(t, http.StatusConflict, code)
	})
}

func TestDeleteProfileCascades(t *testing.T) {
	app := setupApp(t)
	manager := newUser(t, "alice", models.RoleManager)
	employee := newUser(t, "bob", models.RoleEmployee)
	db := database.Database.Db

	// The account being deleted appears as author in one entry and subject
	// in another
	authored := models.Feedback{ManagerID: employee.ID, EmployeeID: manager.ID, Strengths: "s", Improvements: "i", Sentiment: models.SentimentNeutral}
	received := models.Feedback{ManagerID: manager.ID, EmployeeID: employee.ID, Strengths: "s", Improvements: "i", Sentiment: models.SentimentPositive}
	require.NoError(t, db.Create(&authored).Error)
	require.NoError(t, db.Create(&received).Error)

	request := models.FeedbackRequest{EmployeeID: employee.ID, ManagerID: manager.ID, Status: models.RequestPending}
	require.NoError(t, db.Create(&request).Error)

	notification := models.Notification{UserID: employee.ID, Message: "m"}
	require.NoError(t, db.Create(&notification).Error)

	code, _ := do(t, app, http.MethodDelete, "/users/profile", nil, &employee)
	require.Equal(t, http.StatusOK, code)

	var count int64
	db.Model(&models.Feedback{}).Where("manager_id = ? OR employee_id = ?", employee.ID, employee.ID).Count(&count)
	assert.Equal(t, int64(0), count)

	db.Model(&models.FeedbackRequest{}).Where("employee_id = ?", employee.ID).Count(&count)
	assert.Equal(t, int64(0), count)

	db.Model(&models.Notification{}).Where("user_id = ?", employee.ID).Count(&count)
	assert.Equal(t, int64(0), count)

	var gone models.User
	assert.Error(t, db.First(&gone, employee.ID).Error)

	// A deleted account's token no longer works
	code, _ = do(t, app, http.MethodGet, "/users/profile", nil, &employee)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestEmployeeList(t *testing.T) {
	app := setupApp(t)
	manager := newUser(t, "alice", models.RoleManager)
	employee := newUser(t, "bob", models.RoleEmployee)
	newUser(t, "carol", models.RoleEmployee)

	t.Run("employees are refused", func(t *testing.T) {
		code, _ := do(t, app, http.MethodGet, "/users/employees", nil, &employee)
		assert.Equal(t, http.StatusForbidden, code)
	})

	t.Run("managers get the roster", func(t *testing.T) {
		code, env := do(t, app, http.MethodGet, "/users/employees", nil, &manager)
		require.Equal(t, http.StatusOK, code)

		var employees []models.User
		require.NoError(t, json.Unmarshal(env.Data, &employees))
		require.Len(t, employees, 2)
		assert.Equal(t, "bob", employees[0].Username)
		assert.Equal(t, "carol", employees[1].Username)
	})
}

func TestManagerList(t *testing.T) {
	app := setupApp(t)
	newUser(t, "alice", models.RoleManager)
	employee := newUser(t, "bob", models.RoleEmployee)

	code, env := do(t, app, http.MethodGet, "/users/managers", nil, &employee)
	require.Equal(t, http.StatusOK, code)

	var managers []models.User
	require.NoError(t, json.Unmarshal(env.Data, &managers))
	require.Len(t, managers, 1)
	assert.Equal(t, "alice", managers[0].Username)
}
