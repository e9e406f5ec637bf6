package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mfernan/user-tasks-api/internal/models"
	"github.com/mfernan/user-tasks-api/internal/repository"
	"github.com/mfernan/user-tasks-api/internal/services"
)

// newTestRouter wires handlers over the given DB with the production routes.
func newTestRouter(db *gorm.DB) *gin.Engine {
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	userService := services.NewUserService(userRepo)
	taskService := services.NewTaskService(taskRepo, userRepo)

	userHandler := NewUserHandler(userService)
	taskHandler := NewTaskHandler(taskService)

	r := gin.New()

	users := r.Group("/users")
	{
		users.POST("", userHandler.CreateUser)
		users.GET("", userHandler.ListUsers)
		users.GET("/:id", userHandler.GetUser)
		users.GET("/:id/details", userHandler.GetUserDetails)
		users.PUT("/:id", userHandler.UpdateUser)
		users.PATCH("/:id/premium", userHandler.PromoteUser)
		users.DELETE("/:id", userHandler.DeleteUser)
		users.POST("/:id/tasks", taskHandler.CreateTaskForUser)
		users.GET("/:id/tasks", taskHandler.ListUserTasks)
	}

	tasks := r.Group("/tasks")
	{
		tasks.GET("", taskHandler.ListTasks)
		tasks.GET("/:id", taskHandler.GetTask)
		tasks.PUT("/:id", taskHandler.UpdateTask)
		tasks.DELETE("/:id", taskHandler.DeleteTask)
	}

	return r
}

type UserHandlerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
}

func (suite *UserHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(&models.User{}, &models.Task{})
	suite.Require().NoError(err)

	gin.SetMode(gin.TestMode)
	suite.router = newTestRouter(suite.db)
}

func (suite *UserHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *UserHandlerTestSuite) request(method, url string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *UserHandlerTestSuite) createUser(name, email string) map[string]any {
	w := suite.request("POST", "/users", map[string]any{
		"name":     name,
		"email":    email,
		"age":      30,
		"password": "secret",
	})
	suite.Require().Equal(http.StatusCreated, w.Code)

	var created map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &created))
	return created
}

func (suite *UserHandlerTestSuite) TestCreateUser_Success() {
	w := suite.request("POST", "/users", map[string]any{
		"name":     "Ana",
		"email":    "a@x.com",
		"age":      30,
		"password": "secret",
	})

	suite.Require().Equal(http.StatusCreated, w.Code)

	var response map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.NotZero(suite.T(), response["id"])
	assert.Equal(suite.T(), "Ana", response["name"])
	assert.Equal(suite.T(), "active", response["status"])
	assert.Equal(suite.T(), "regular", response["user_type"])
	assert.NotContains(suite.T(), response, "password")
	assert.NotContains(suite.T(), response, "password_hash")
	assert.NotContains(suite.T(), w.Body.String(), "secret")
}

func (suite *UserHandlerTestSuite) TestCreateUser_DuplicateEmail() {
	suite.createUser("Ana", "a@x.com")

	w := suite.request("POST", "/users", map[string]any{
		"name":     "Someone Else",
		"email":    "a@x.com",
		"password": "otherpassword",
	})

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "DUPLICATE_KEY")
}

func (suite *UserHandlerTestSuite) TestCreateUser_MissingFields() {
	w := suite.request("POST", "/users", map[string]any{
		"name": "Ana",
	})

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *UserHandlerTestSuite) TestGetUser_Success() {
	created := suite.createUser("Ana", "a@x.com")
	id := created["id"].(float64)

	w := suite.request("GET", "/users/1", nil)

	suite.Require().Equal(http.StatusOK, w.Code)

	var response map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), id, response["id"])
	assert.Equal(suite.T(), "a@x.com", response["email"])
}

func (suite *UserHandlerTestSuite) TestGetUser_NotFound() {
	w := suite.request("GET", "/users/999", nil)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *UserHandlerTestSuite) TestGetUser_InvalidID() {
	w := suite.request("GET", "/users/abc", nil)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *UserHandlerTestSuite) TestGetUserDetails_IncludesTasks() {
	suite.createUser("Ana", "a@x.com")

	w := suite.request("POST", "/users/1/tasks", map[string]any{
		"title":    "Buy milk",
		"priority": 2,
	})
	suite.Require().Equal(http.StatusCreated, w.Code)

	w = suite.request("GET", "/users/1/details", nil)

	suite.Require().Equal(http.StatusOK, w.Code)

	var response map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	tasks := response["tasks"].([]any)
	suite.Require().Len(tasks, 1)
	assert.Equal(suite.T(), "Buy milk", tasks[0].(map[string]any)["title"])
}

func (suite *UserHandlerTestSuite) TestListUsers_LimitZero() {
	suite.createUser("Ana", "a@x.com")

	w := suite.request("GET", "/users?limit=0", nil)

	suite.Require().Equal(http.StatusOK, w.Code)

	var response []map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Empty(suite.T(), response)
}

func (suite *UserHandlerTestSuite) TestListUsers_SkipBeyondCount() {
	suite.createUser("Ana", "a@x.com")

	w := suite.request("GET", "/users?skip=50", nil)

	suite.Require().Equal(http.StatusOK, w.Code)

	var response []map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Empty(suite.T(), response)
}

func (suite *UserHandlerTestSuite) TestListUsers_NeverExceedsLimit() {
	suite.createUser("Ana", "a@x.com")
	suite.createUser("Bea", "b@x.com")
	suite.createUser("Cleo", "c@x.com")

	w := suite.request("GET", "/users?limit=2", nil)

	suite.Require().Equal(http.StatusOK, w.Code)

	var response []map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(suite.T(), response, 2)
}

func (suite *UserHandlerTestSuite) TestListUsers_ActiveFilter() {
	suite.createUser("Ana", "a@x.com")
	suite.createUser("Bea", "b@x.com")

	w := suite.request("PUT", "/users/2", map[string]any{"status": "inactive"})
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.request("GET", "/users?active=true", nil)

	suite.Require().Equal(http.StatusOK, w.Code)

	var response []map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response, 1)
	assert.Equal(suite.T(), "Ana", response[0]["name"])
}

func (suite *UserHandlerTestSuite) TestListUsers_InvalidFilter() {
	w := suite.request("GET", "/users?active=maybe", nil)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *UserHandlerTestSuite) TestUpdateUser_Partial() {
	suite.createUser("Ana", "a@x.com")

	w := suite.request("PUT", "/users/1", map[string]any{"name": "Ana Maria"})

	suite.Require().Equal(http.StatusOK, w.Code)

	var response map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "Ana Maria", response["name"])
	assert.Equal(suite.T(), "a@x.com", response["email"])
	assert.Equal(suite.T(), float64(30), response["age"])
}

func (suite *UserHandlerTestSuite) TestUpdateUser_NullAgeClears() {
	suite.createUser("Ana", "a@x.com")

	w := suite.request("PUT", "/users/1", map[string]any{"age": nil})

	suite.Require().Equal(http.StatusOK, w.Code)

	var response map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Nil(suite.T(), response["age"])
}

func (suite *UserHandlerTestSuite) TestUpdateUser_DuplicateEmail() {
	suite.createUser("Ana", "a@x.com")
	suite.createUser("Bea", "b@x.com")

	w := suite.request("PUT", "/users/2", map[string]any{"email": "a@x.com"})

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "DUPLICATE_KEY")
}

func (suite *UserHandlerTestSuite) TestUpdateUser_NotFound() {
	w := suite.request("PUT", "/users/999", map[string]any{"name": "Nobody"})

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *UserHandlerTestSuite) TestUpdateUser_InvalidEmail() {
	suite.createUser("Ana", "a@x.com")

	for _, email := range []any{"", "not-an-address", 42} {
		w := suite.request("PUT", "/users/1", map[string]any{"email": email})
		assert.Equal(suite.T(), http.StatusBadRequest, w.Code, "email %v", email)
	}

	w := suite.request("GET", "/users/1", nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var response map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "a@x.com", response["email"])
}

func (suite *UserHandlerTestSuite) TestUpdateUser_InvalidAge() {
	suite.createUser("Ana", "a@x.com")

	for _, age := range []any{30.9, -1, "thirty"} {
		w := suite.request("PUT", "/users/1", map[string]any{"age": age})
		assert.Equal(suite.T(), http.StatusBadRequest, w.Code, "age %v", age)
	}

	w := suite.request("GET", "/users/1", nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var response map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), float64(30), response["age"])
}

func (suite *UserHandlerTestSuite) TestUpdateUser_InvalidStatus() {
	suite.createUser("Ana", "a@x.com")

	w := suite.request("PUT", "/users/1", map[string]any{"status": "sleeping"})

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *UserHandlerTestSuite) TestPromoteUser_Idempotent() {
	suite.createUser("Ana", "a@x.com")

	for i := 0; i < 2; i++ {
		w := suite.request("PATCH", "/users/1/premium", nil)
		suite.Require().Equal(http.StatusOK, w.Code)

		var response map[string]any
		suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(suite.T(), "premium", response["user_type"])
	}
}

func (suite *UserHandlerTestSuite) TestPromoteUser_NotFound() {
	w := suite.request("PATCH", "/users/999/premium", nil)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *UserHandlerTestSuite) TestDeleteUser_Lifecycle() {
	suite.createUser("Ana", "a@x.com")

	w := suite.request("DELETE", "/users/1", nil)
	assert.Equal(suite.T(), http.StatusNoContent, w.Code)

	w = suite.request("GET", "/users/1", nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *UserHandlerTestSuite) TestDeleteUser_CascadesTasks() {
	suite.createUser("Ana", "a@x.com")

	w := suite.request("POST", "/users/1/tasks", map[string]any{"title": "Buy milk"})
	suite.Require().Equal(http.StatusCreated, w.Code)

	w = suite.request("DELETE", "/users/1", nil)
	suite.Require().Equal(http.StatusNoContent, w.Code)

	w = suite.request("GET", "/tasks/1", nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *UserHandlerTestSuite) TestDeleteUser_NotFound() {
	w := suite.request("DELETE", "/users/999", nil)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *UserHandlerTestSuite) TestResponsesNeverExposePasswordHash() {
	suite.createUser("Ana", "a@x.com")

	for _, url := range []string{"/users", "/users/1", "/users/1/details"} {
		w := suite.request("GET", url, nil)
		suite.Require().Equal(http.StatusOK, w.Code)
		assert.NotContains(suite.T(), w.Body.String(), "password")
	}
}

func TestUserHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(UserHandlerTestSuite))
}
