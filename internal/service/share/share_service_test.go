// Package share 分享服务单元测试
// 覆盖公开投影的字段裁剪与不存在分享的处理
package share

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weiwangfds/ideaboard/internal/database"
	apperrors "github.com/weiwangfds/ideaboard/internal/errors"
	noteservice "github.com/weiwangfds/ideaboard/internal/service/note"
	tagservice "github.com/weiwangfds/ideaboard/internal/service/tag"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB 设置测试数据库
func setupTestDB(t *testing.T) *gorm.DB {
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

	return db
}

// TestGetNoteByShareID 测试通过分享标识获取笔记
func TestGetNoteByShareID(t *testing.T) {
	db := setupTestDB(t)

	// 笔记行的owner_id受外键约束，先写入用户行
	owner := database.User{
		UserID:       "owner-1",
		Email:        "owner@example.com",
		PasswordHash: "irrelevant",
	}
	require.NoError(t, db.Create(&owner).Error)

	notes := noteservice.NewNoteService(db, tagservice.NewTagService(db))
	service := NewShareService(db)

	created, err := notes.CreateNote("owner-1", &noteservice.CreateNoteRequest{
		Content: "shared content",
		Tags:    []string{"public", "demo"},
	})
	require.NoError(t, err)

	t.Run("返回公开投影", func(t *testing.T) {
		shared, err := service.GetNoteByShareID(created.ShareID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, shared.ID)
		assert.Equal(t, "shared content", shared.Content)
		assert.Equal(t, []string{"public", "demo"}, shared.Tags)
	})

	t.Run("投影不包含所有者信息", func(t *testing.T) {
		shared, err := service.GetNoteByShareID(created.ShareID)
		require.NoError(t, err)

		// 序列化结果中不应出现任何所有者字段
		raw, err := json.Marshal(shared)
		require.NoError(t, err)

		var fields map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &fields))
		assert.NotContains(t, fields, "owner_id")
		assert.NotContains(t, fields, "owner")
		assert.NotContains(t, fields, "user_id")
	})

	t.Run("笔记标识不能当作分享标识使用", func(t *testing.T) {
		_, err := service.GetNoteByShareID(created.ID)
		require.Error(t, err)
		appErr, ok := apperrors.GetAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrNoteNotFound, appErr.Code)
	})

	t.Run("不存在的分享返回未找到", func(t *testing.T) {
		_, err := service.GetNoteByShareID("no-such-share")
		require.Error(t, err)
		appErr, ok := apperrors.GetAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrNoteNotFound, appErr.Code)
	})

	t.Run("分享标识在更新后保持可用", func(t *testing.T) {
		_, err := notes.UpdateNote(created.ID, "owner-1", &noteservice.UpdateNoteRequest{
			Content: "edited content",
		})
		require.NoError(t, err)

		shared, err := service.GetNoteByShareID(created.ShareID)
		require.NoError(t, err)
		assert.Equal(t, "edited content", shared.Content)
	})
}
