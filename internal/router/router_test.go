// Package router 路由层集成测试
// 通过httptest走完整的HTTP链路，校验状态码与响应信封
package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weiwangfds/ideaboard/config"
	"github.com/weiwangfds/ideaboard/internal/database"
	"github.com/weiwangfds/ideaboard/internal/middleware"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupRouter 构建测试路由
func setupRouter(t *testing.T) *Router {
	db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{})
	require.NoError(t, err)

	// 内存数据库按连接隔离，限制为单连接避免表丢失
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&database.User{},
		&database.Session{},
		&database.Note{},
		&database.Tag{},
		&database.NoteTag{},
	)
	require.NoError(t, err)

	cfg := &config.Config{
		Auth: config.AuthConfig{
			SessionTTL: 3600,
			BcryptCost: bcrypt.MinCost,
		},
	}

	return NewRouter(middleware.NewLoggerMiddleware(), db, cfg)
}

// doJSON 发送JSON请求
func doJSON(t *testing.T, r *Router, method, path, token string, body interface{}) *httptest.ResponseRecorder {
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
	r.GetEngine().ServeHTTP(w, req)
	return w
}

// envelope 解析统一响应信封
func envelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// registerAndLogin 注册并登录，返回会话令牌
func registerAndLogin(t *testing.T, r *Router, email string) string {
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    email,
		"password": "test-password",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": "test-password",
	})
	require.Equal(t, http.StatusOK, w.Code)

	resp := envelope(t, w)
	data := resp["data"].(map[string]interface{})
	return data["token"].(string)
}

// TestHealthEndpoint 测试健康检查
func TestHealthEndpoint(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

// TestAuthEndpoints 测试认证接口
func TestAuthEndpoints(t *testing.T) {
	r := setupRouter(t)

	t.Run("注册成功返回用户投影", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", map[string]string{
			"email":    "user@example.com",
			"password": "secret",
		})
		require.Equal(t, http.StatusOK, w.Code)

		resp := envelope(t, w)
		assert.Equal(t, true, resp["success"])
		data := resp["data"].(map[string]interface{})
		assert.Equal(t, "user@example.com", data["email"])
		assert.NotContains(t, data, "password_hash")
	})

	t.Run("重复注册返回409", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", map[string]string{
			"email":    "user@example.com",
			"password": "secret",
		})
		assert.Equal(t, http.StatusConflict, w.Code)

		resp := envelope(t, w)
		assert.Equal(t, false, resp["success"])
		assert.NotEmpty(t, resp["error"])
	})

	t.Run("缺少字段返回400", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", map[string]string{
			"email": "incomplete@example.com",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("凭据错误返回401", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "user@example.com",
			"password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("登录后可查询当前用户", func(t *testing.T) {
		token := registerAndLogin(t, r, "me@example.com")

		w := doJSON(t, r, http.MethodGet, "/api/auth/me", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		resp := envelope(t, w)
		data := resp["data"].(map[string]interface{})
		assert.Equal(t, "me@example.com", data["email"])
	})

	t.Run("登出后令牌失效", func(t *testing.T) {
		token := registerAndLogin(t, r, "bye@example.com")

		w := doJSON(t, r, http.MethodPost, "/api/auth/logout", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, r, http.MethodGet, "/api/auth/me", token, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

// TestNoteEndpoints 测试笔记接口
func TestNoteEndpoints(t *testing.T) {
	r := setupRouter(t)
	token := registerAndLogin(t, r, "writer@example.com")

	t.Run("未携带令牌返回401", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/notes", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		resp := envelope(t, w)
		assert.Equal(t, false, resp["success"])
	})

	t.Run("创建并查询笔记", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/notes", token, map[string]interface{}{
			"content": "note body",
			"tags":    []string{"Work", "work "},
		})
		require.Equal(t, http.StatusOK, w.Code)

		resp := envelope(t, w)
		assert.Equal(t, true, resp["success"])
		data := resp["data"].(map[string]interface{})
		noteID := data["id"].(string)
		assert.NotEmpty(t, data["share_id"])
		assert.Equal(t, []interface{}{"work"}, data["tags"])

		w = doJSON(t, r, http.MethodGet, "/api/notes/"+noteID, token, nil)
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("内容缺失返回400", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/notes", token, map[string]interface{}{
			"tags": []string{"solo"},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("按内容和标签过滤列表", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/notes", token, map[string]interface{}{
			"content": "filter target",
			"tags":    []string{"filter"},
		})
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, r, http.MethodGet, "/api/notes?q=filter+target&tag=filter", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		resp := envelope(t, w)
		data := resp["data"].([]interface{})
		require.Len(t, data, 1)
	})

	t.Run("他人笔记返回404", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/notes", token, map[string]interface{}{
			"content": "private note",
		})
		require.Equal(t, http.StatusOK, w.Code)
		noteID := envelope(t, w)["data"].(map[string]interface{})["id"].(string)

		otherToken := registerAndLogin(t, r, "intruder@example.com")
		w = doJSON(t, r, http.MethodGet, "/api/notes/"+noteID, otherToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = doJSON(t, r, http.MethodDelete, "/api/notes/"+noteID, otherToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("更新与删除", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/notes", token, map[string]interface{}{
			"content": "to change",
		})
		require.Equal(t, http.StatusOK, w.Code)
		noteID := envelope(t, w)["data"].(map[string]interface{})["id"].(string)

		w = doJSON(t, r, http.MethodPut, "/api/notes/"+noteID, token, map[string]interface{}{
			"content": "changed",
		})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "changed", envelope(t, w)["data"].(map[string]interface{})["content"])

		w = doJSON(t, r, http.MethodDelete, "/api/notes/"+noteID, token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, r, http.MethodGet, "/api/notes/"+noteID, token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

// TestShareEndpoint 测试公开分享接口
func TestShareEndpoint(t *testing.T) {
	r := setupRouter(t)
	token := registerAndLogin(t, r, "sharer@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/notes", token, map[string]interface{}{
		"content": "shared note",
		"tags":    []string{"open"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	shareID := envelope(t, w)["data"].(map[string]interface{})["share_id"].(string)

	t.Run("无需认证即可访问", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/shared/"+shareID, "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		resp := envelope(t, w)
		assert.Equal(t, true, resp["success"])
		data := resp["data"].(map[string]interface{})
		assert.Equal(t, "shared note", data["content"])
		// 公开投影不暴露所有者
		assert.NotContains(t, data, "owner_id")
	})

	t.Run("未知分享标识返回404", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/shared/no-such-share", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		resp := envelope(t, w)
		assert.Equal(t, false, resp["success"])
	})
}

// TestTagEndpoint 测试标签列表接口
func TestTagEndpoint(t *testing.T) {
	r := setupRouter(t)
	token := registerAndLogin(t, r, "tagger@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/notes", token, map[string]interface{}{
		"content": "tagged",
		"tags":    []string{"alpha", "beta"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/tags", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := envelope(t, w)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["total"])
}
