package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"todoapi/internal/bootstrap"
	"todoapi/internal/config"
	"todoapi/internal/model"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Task{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	cfg := &config.Config{
		App: config.AppConfig{
			Name:    "todoapi-test",
			Env:     "test",
			GinMode: gin.TestMode,
		},
		Auth: config.AuthConfig{
			JWTSecret:     "test-secret",
			JWTExpireHour: 24,
		},
	}

	return NewRouter(&bootstrap.App{Config: cfg, DB: db, StartedAt: time.Now()})
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func signup(t *testing.T, router *gin.Engine, email, password string) map[string]interface{} {
	t.Helper()
	w := doJSON(t, router, nethttp.MethodPost, "/api/auth/signup", "", gin.H{"email": email, "password": password})
	require.Equal(t, nethttp.StatusCreated, w.Code, w.Body.String())
	return decodeBody(t, w)
}

func signin(t *testing.T, router *gin.Engine, email, password string) (string, string) {
	t.Helper()
	w := doJSON(t, router, nethttp.MethodPost, "/api/auth/signin", "", gin.H{"email": email, "password": password})
	require.Equal(t, nethttp.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	user := body["user"].(map[string]interface{})
	return body["access_token"].(string), user["id"].(string)
}

func TestSignupValidation(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, nethttp.MethodPost, "/api/auth/signup", "", gin.H{"email": "a@x.com", "password": "short"})
	assert.Equal(t, nethttp.StatusBadRequest, w.Code)

	w = doJSON(t, router, nethttp.MethodPost, "/api/auth/signup", "", gin.H{"email": "not-an-email", "password": "password123"})
	assert.Equal(t, nethttp.StatusBadRequest, w.Code)
}

func TestSignupConflict(t *testing.T) {
	router := newTestRouter(t)

	body := signup(t, router, "a@x.com", "password123")
	assert.Equal(t, "a@x.com", body["email"])
	assert.NotContains(t, body, "hashed_password")

	w := doJSON(t, router, nethttp.MethodPost, "/api/auth/signup", "", gin.H{"email": "a@x.com", "password": "another-password"})
	assert.Equal(t, nethttp.StatusConflict, w.Code)
}

func TestSigninUniformUnauthorized(t *testing.T) {
	router := newTestRouter(t)
	signup(t, router, "a@x.com", "password123")

	wrongPassword := doJSON(t, router, nethttp.MethodPost, "/api/auth/signin", "", gin.H{"email": "a@x.com", "password": "wrong-password"})
	unknownEmail := doJSON(t, router, nethttp.MethodPost, "/api/auth/signin", "", gin.H{"email": "nobody@x.com", "password": "password123"})

	assert.Equal(t, nethttp.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, nethttp.StatusUnauthorized, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestSignout(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, nethttp.MethodPost, "/api/auth/signout", "", nil)
	assert.Equal(t, nethttp.StatusOK, w.Code)
}

func TestMe(t *testing.T) {
	router := newTestRouter(t)
	created := signup(t, router, "a@x.com", "password123")
	token, _ := signin(t, router, "a@x.com", "password123")

	w := doJSON(t, router, nethttp.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, nethttp.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, created["id"], body["id"])
	assert.Equal(t, "a@x.com", body["email"])
	assert.NotContains(t, body, "hashed_password")

	w = doJSON(t, router, nethttp.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, nethttp.StatusUnauthorized, w.Code)
}

func TestTaskRoutesRequireAuth(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, nethttp.MethodGet, "/api/some-user/tasks", "", nil)
	assert.Equal(t, nethttp.StatusUnauthorized, w.Code)

	w = doJSON(t, router, nethttp.MethodGet, "/api/some-user/tasks", "garbage-token", nil)
	assert.Equal(t, nethttp.StatusUnauthorized, w.Code)
}

func TestPathUserMismatchIsForbidden(t *testing.T) {
	router := newTestRouter(t)

	signup(t, router, "a@x.com", "password123")
	signup(t, router, "b@x.com", "password123")
	tokenA, _ := signin(t, router, "a@x.com", "password123")
	_, userB := signin(t, router, "b@x.com", "password123")

	// A valid token used against another user's URL space is rejected before
	// any data access, whether or not anything exists there.
	w := doJSON(t, router, nethttp.MethodGet, "/api/"+userB+"/tasks", tokenA, nil)
	assert.Equal(t, nethttp.StatusForbidden, w.Code)

	w = doJSON(t, router, nethttp.MethodPost, "/api/"+userB+"/tasks", tokenA, gin.H{"title": "intrusion"})
	assert.Equal(t, nethttp.StatusForbidden, w.Code)

	w = doJSON(t, router, nethttp.MethodDelete, "/api/"+userB+"/tasks/"+uuid.NewString(), tokenA, nil)
	assert.Equal(t, nethttp.StatusForbidden, w.Code)
}

func TestCrossUserTaskAccessIsNotFound(t *testing.T) {
	router := newTestRouter(t)

	signup(t, router, "a@x.com", "password123")
	signup(t, router, "b@x.com", "password123")
	tokenA, userA := signin(t, router, "a@x.com", "password123")
	tokenB, userB := signin(t, router, "b@x.com", "password123")

	w := doJSON(t, router, nethttp.MethodPost, "/api/"+userA+"/tasks", tokenA, gin.H{"title": "mine"})
	require.Equal(t, nethttp.StatusCreated, w.Code)
	taskID := decodeBody(t, w)["id"].(string)

	// B stays inside their own URL space but asks for A's task id.
	w = doJSON(t, router, nethttp.MethodGet, "/api/"+userB+"/tasks/"+taskID, tokenB, nil)
	assert.Equal(t, nethttp.StatusNotFound, w.Code)

	w = doJSON(t, router, nethttp.MethodPut, "/api/"+userB+"/tasks/"+taskID, tokenB, gin.H{"completed": true})
	assert.Equal(t, nethttp.StatusNotFound, w.Code)
}

func TestCreateTaskValidation(t *testing.T) {
	router := newTestRouter(t)

	signup(t, router, "a@x.com", "password123")
	token, userID := signin(t, router, "a@x.com", "password123")

	w := doJSON(t, router, nethttp.MethodPost, "/api/"+userID+"/tasks", token, gin.H{"title": ""})
	assert.Equal(t, nethttp.StatusBadRequest, w.Code)
}

func TestTaskLifecycle(t *testing.T) {
	router := newTestRouter(t)

	// signup -> signin -> create -> list -> partial update -> delete -> 404
	user := signup(t, router, "a@x.com", "password123")
	assert.NotEmpty(t, user["id"])

	token, userID := signin(t, router, "a@x.com", "password123")
	require.NotEmpty(t, token)

	w := doJSON(t, router, nethttp.MethodPost, "/api/"+userID+"/tasks", token, gin.H{"title": "buy milk"})
	require.Equal(t, nethttp.StatusCreated, w.Code, w.Body.String())
	created := decodeBody(t, w)
	taskID := created["id"].(string)
	assert.Equal(t, "buy milk", created["title"])
	assert.Equal(t, false, created["completed"])
	assert.Equal(t, userID, created["user_id"])

	w = doJSON(t, router, nethttp.MethodGet, "/api/"+userID+"/tasks", token, nil)
	require.Equal(t, nethttp.StatusOK, w.Code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, taskID, list[0]["id"])

	w = doJSON(t, router, nethttp.MethodPut, "/api/"+userID+"/tasks/"+taskID, token, gin.H{"completed": true})
	require.Equal(t, nethttp.StatusOK, w.Code, w.Body.String())
	updated := decodeBody(t, w)
	assert.Equal(t, true, updated["completed"])
	assert.Equal(t, "buy milk", updated["title"])

	w = doJSON(t, router, nethttp.MethodDelete, "/api/"+userID+"/tasks/"+taskID, token, nil)
	require.Equal(t, nethttp.StatusNoContent, w.Code)

	w = doJSON(t, router, nethttp.MethodGet, "/api/"+userID+"/tasks/"+taskID, token, nil)
	assert.Equal(t, nethttp.StatusNotFound, w.Code)
}
