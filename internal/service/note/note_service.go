// Package note 提供笔记管理相关的业务逻辑服务
// 包含笔记的创建、修改、删除、查询等核心功能
// 所有操作都以所有者为作用域，归属他人的笔记与不存在的笔记不可区分
package note

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/weiwangfds/ideaboard/internal/database"
	apperrors "github.com/weiwangfds/ideaboard/internal/errors"
	"github.com/weiwangfds/ideaboard/internal/logger"
	tagservice "github.com/weiwangfds/ideaboard/internal/service/tag"
	"gorm.io/gorm"
)

// NoteService 笔记服务接口
// 提供完整的笔记管理功能，包括内容过滤、标签筛选和标签集合维护
type NoteService interface {
	// ListNotes 列出用户的全部笔记，每条笔记附带完整的标签集合
	// 参数:
	//   ownerID - 所有者用户标识
	//   contentQuery - 内容过滤，非空时仅返回内容包含该子串的笔记
	//   tagFilter - 标签过滤，非空时仅返回关联了该标签（与存储值精确相等）的笔记
	// 返回:
	//   []NoteWithTags - 笔记列表
	//   error - 错误信息
	ListNotes(ownerID, contentQuery, tagFilter string) ([]NoteWithTags, error)

	// GetNote 获取单条笔记及其标签集合
	// 笔记不存在或归属其他用户时统一返回"笔记未找到"
	// 参数:
	//   noteID - 笔记对外标识
	//   ownerID - 所有者用户标识
	// 返回:
	//   *NoteWithTags - 笔记信息
	//   error - 错误信息
	GetNote(noteID, ownerID string) (*NoteWithTags, error)

	// CreateNote 创建新笔记
	// 内容为空时失败；分享标识在创建时生成且终身不变
	// 参数:
	//   ownerID - 所有者用户标识
	//   req - 创建笔记请求
	// 返回:
	//   *NoteWithTags - 创建的笔记信息，标签为解析后的集合，不再回查
	//   error - 错误信息
	CreateNote(ownerID string, req *CreateNoteRequest) (*NoteWithTags, error)

	// UpdateNote 更新笔记
	// 整体替换内容并刷新修改时间；Tags字段缺省时保留原有关联，
	// 提供时（包括空序列）整体替换关联集合
	// 参数:
	//   noteID - 笔记对外标识
	//   ownerID - 所有者用户标识
	//   req - 更新笔记请求
	// 返回:
	//   *NoteWithTags - 更新后的笔记信息
	//   error - 错误信息
	UpdateNote(noteID, ownerID string, req *UpdateNoteRequest) (*NoteWithTags, error)

	// DeleteNote 删除笔记
	// 关联关系由外键级联移除
	// 参数:
	//   noteID - 笔记对外标识
	//   ownerID - 所有者用户标识
	// 返回:
	//   error - 错误信息
	DeleteNote(noteID, ownerID string) error
}

// CreateNoteRequest 创建笔记请求
type CreateNoteRequest struct {
	Content string   `json:"content"` // 笔记内容，必填
	Tags    []string `json:"tags"`    // 原始标签文本列表，可选
}

// UpdateNoteRequest 更新笔记请求
// Tags为nil表示请求未携带该字段，原有标签关联保持不变
type UpdateNoteRequest struct {
	Content string   `json:"content"` // 笔记内容，必填
	Tags    []string `json:"tags"`    // 原始标签文本列表；nil保留原关联，空序列清空关联
}

// NoteWithTags 笔记及其聚合后的标签集合
type NoteWithTags struct {
	ID        string   `json:"id"`         // 笔记对外标识
	Content   string   `json:"content"`    // 笔记内容
	ShareID   string   `json:"share_id"`   // 公开分享标识
	CreatedAt int64    `json:"created_at"` // 创建时间（Unix秒）
	UpdatedAt int64    `json:"updated_at"` // 最后修改时间（Unix秒）
	Tags      []string `json:"tags"`       // 标签文本集合，按关联建立顺序排列
}

// noteService 笔记服务实现
type noteService struct {
	db         *gorm.DB
	tagService tagservice.TagService
}

// NewNoteService 创建笔记服务实例
// 参数:
//
//	db - 数据库连接
//	tagService - 标签服务
//
// 返回:
//
//	NoteService - 笔记服务接口
func NewNoteService(db *gorm.DB, tagService tagservice.TagService) NoteService {
	return &noteService{
		db:         db,
		tagService: tagService,
	}
}

// noteRow 笔记与标签联查的扁平结果行
type noteRow struct {
	NoteID    string
	Content   string
	ShareID   string
	CreatedAt time.Time
	UpdatedAt time.Time
	Label     *string
}

// ListNotes 列出用户的全部笔记
func (s *noteService) ListNotes(ownerID, contentQuery, tagFilter string) ([]NoteWithTags, error) {
	query := s.db.Model(&database.Note{}).
		Select("notes.note_id, notes.content, notes.share_id, "+
			"notes.created_at, notes.updated_at, tags.label AS label").
		Joins("LEFT JOIN note_tags ON note_tags.note_id = notes.id").
		Joins("LEFT JOIN tags ON tags.id = note_tags.tag_id").
		Where("notes.owner_id = ?", ownerID)

	if contentQuery != "" {
		query = query.Where("notes.content LIKE ?", "%"+contentQuery+"%")
	}

	// 标签过滤通过子查询收敛笔记集合，外层联查仍然聚合每条笔记的完整标签集
	if tagFilter != "" {
		query = query.Where("notes.id IN (?)", s.db.Model(&database.NoteTag{}).
			Select("note_tags.note_id").
			Joins("JOIN tags ON tags.id = note_tags.tag_id").
			Where("tags.label = ?", tagFilter))
	}

	var rows []noteRow
	if err := query.Order("notes.updated_at DESC, notes.id DESC, note_tags.created_at ASC, note_tags.tag_id ASC").Scan(&rows).Error; err != nil {
		logger.Errorf("Failed to list notes for user %s: %v", ownerID, err)
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, apperrors.GetErrorMessage(apperrors.ErrDatabaseQuery), err)
	}

	return groupNoteRows(rows), nil
}

// groupNoteRows 把联查的扁平行聚合为每条笔记一项的结果
// 同一笔记的多行合并为一个标签集合，保持笔记与标签各自的出现顺序
func groupNoteRows(rows []noteRow) []NoteWithTags {
	notes := make([]NoteWithTags, 0)
	index := make(map[string]int)

	for _, row := range rows {
		i, ok := index[row.NoteID]
		if !ok {
			i = len(notes)
			index[row.NoteID] = i
			notes = append(notes, NoteWithTags{
				ID:        row.NoteID,
				Content:   row.Content,
				ShareID:   row.ShareID,
				CreatedAt: row.CreatedAt.Unix(),
				UpdatedAt: row.UpdatedAt.Unix(),
				Tags:      []string{},
			})
		}
		if row.Label != nil {
			notes[i].Tags = append(notes[i].Tags, *row.Label)
		}
	}

	return notes
}

// GetNote 获取单条笔记及其标签集合
func (s *noteService) GetNote(noteID, ownerID string) (*NoteWithTags, error) {
	var note database.Note
	if err := s.db.Where("note_id = ? AND owner_id = ?", noteID, ownerID).First(&note).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNoteNotFoundError
		}
		logger.Errorf("Failed to get note %s: %v", noteID, err)
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, apperrors.GetErrorMessage(apperrors.ErrDatabaseQuery), err)
	}

	labels, err := s.noteLabels(s.db, note.ID)
	if err != nil {
		return nil, err
	}

	return toNoteWithTags(&note, labels), nil
}

// CreateNote 创建新笔记
func (s *noteService) CreateNote(ownerID string, req *CreateNoteRequest) (*NoteWithTags, error) {
	if req.Content == "" {
		return nil, apperrors.ErrContentRequiredError
	}

	// 开始事务
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	note := &database.Note{
		NoteID:  uuid.New().String(),
		OwnerID: ownerID,
		Content: req.Content,
		ShareID: uuid.New().String(),
	}

	if err := tx.Create(note).Error; err != nil {
		tx.Rollback()
		logger.Errorf("Failed to create note: %v", err)
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, apperrors.GetErrorMessage(apperrors.ErrDatabaseQuery), err)
	}

	labels, err := s.linkTags(tx, note.ID, req.Tags)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	// 提交事务
	if err := tx.Commit().Error; err != nil {
		logger.Errorf("Failed to commit note creation transaction: %v", err)
		return nil, apperrors.Wrap(apperrors.ErrDatabaseTransaction, apperrors.GetErrorMessage(apperrors.ErrDatabaseTransaction), err)
	}

	logger.Infof("Note created: %s (owner: %s)", note.NoteID, ownerID)
	return toNoteWithTags(note, labels), nil
}

// UpdateNote 更新笔记
func (s *noteService) UpdateNote(noteID, ownerID string, req *UpdateNoteRequest) (*NoteWithTags, error) {
	if req.Content == "" {
		return nil, apperrors.ErrContentRequiredError
	}

	// 开始事务
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// 获取现有笔记，归属校验与存在性校验合并
	var note database.Note
	if err := tx.Where("note_id = ? AND owner_id = ?", noteID, ownerID).First(&note).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNoteNotFoundError
		}
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, apperrors.GetErrorMessage(apperrors.ErrDatabaseQuery), err)
	}

	// 整体替换内容并刷新修改时间，分享标识保持不变
	note.Content = req.Content
	if err := tx.Model(&note).Update("content", req.Content).Error; err != nil {
		tx.Rollback()
		logger.Errorf("Failed to update note %s: %v", noteID, err)
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, apperrors.GetErrorMessage(apperrors.ErrDatabaseQuery), err)
	}

	if req.Tags != nil {
		// 整体替换标签关联：先删除现有关联，再解析并插入新集合
		if err := tx.Where("note_id = ?", note.ID).Delete(&database.NoteTag{}).Error; err != nil {
			tx.Rollback()
			logger.Errorf("Failed to remove existing tags for note %s: %v", noteID, err)
			return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, apperrors.GetErrorMessage(apperrors.ErrDatabaseQuery), err)
		}

		labels, err := s.linkTags(tx, note.ID, req.Tags)
		if err != nil {
			tx.Rollback()
			return nil, err
		}

		if err := tx.Commit().Error; err != nil {
			logger.Errorf("Failed to commit note update transaction: %v", err)
			return nil, apperrors.Wrap(apperrors.ErrDatabaseTransaction, apperrors.GetErrorMessage(apperrors.ErrDatabaseTransaction), err)
		}

		logger.Infof("Note updated: %s (tags replaced: %d)", noteID, len(labels))
		return s.refreshedNote(noteID, ownerID, labels)
	}

	// Tags缺省，保留原有关联
	if err := tx.Commit().Error; err != nil {
		logger.Errorf("Failed to commit note update transaction: %v", err)
		return nil, apperrors.Wrap(apperrors.ErrDatabaseTransaction, apperrors.GetErrorMessage(apperrors.ErrDatabaseTransaction), err)
	}

	labels, err := s.noteLabels(s.db, note.ID)
	if err != nil {
		return nil, err
	}

	logger.Infof("Note updated: %s (tags untouched)", noteID)
	return s.refreshedNote(noteID, ownerID, labels)
}

// refreshedNote 回读更新后的笔记行以取得刷新的时间戳
func (s *noteService) refreshedNote(noteID, ownerID string, labels []string) (*NoteWithTags, error) {
	var note database.Note
	if err := s.db.Where("note_id = ? AND owner_id = ?", noteID, ownerID).First(&note).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, apperrors.GetErrorMessage(apperrors.ErrDatabaseQuery), err)
	}
	return toNoteWithTags(&note, labels), nil
}

// DeleteNote 删除笔记
func (s *noteService) DeleteNote(noteID, ownerID string) error {
	var note database.Note
	if err := s.db.Where("note_id = ? AND owner_id = ?", noteID, ownerID).First(&note).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNoteNotFoundError
		}
		return apperrors.Wrap(apperrors.ErrDatabaseQuery, apperrors.GetErrorMessage(apperrors.ErrDatabaseQuery), err)
	}

	// 关联行由外键级联清理，这里只删除笔记本身
	if err := s.db.Delete(&note).Error; err != nil {
		logger.Errorf("Failed to delete note %s: %v", noteID, err)
		return apperrors.Wrap(apperrors.ErrDatabaseQuery, apperrors.GetErrorMessage(apperrors.ErrDatabaseQuery), err)
	}

	logger.Infof("Note deleted: %s (owner: %s)", noteID, ownerID)
	return nil
}

// linkTags 解析标签文本并建立关联（内部方法，运行在外层事务中）
// 返回解析后的规范化标签文本，顺序与首次出现顺序一致
func (s *noteService) linkTags(tx *gorm.DB, notePK uint, rawLabels []string) ([]string, error) {
	tags, err := s.tagService.ResolveLabels(tx, rawLabels)
	if err != nil {
		logger.Errorf("Failed to resolve tags: %v", err)
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, apperrors.GetErrorMessage(apperrors.ErrDatabaseQuery), err)
	}

	labels := make([]string, 0, len(tags))
	for _, tag := range tags {
		noteTag := &database.NoteTag{
			NoteID: notePK,
			TagID:  tag.ID,
		}
		if err := tx.Create(noteTag).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery,
				fmt.Sprintf("failed to link tag %q", tag.Label), err)
		}
		labels = append(labels, tag.Label)
	}

	return labels, nil
}

// noteLabels 查询笔记当前关联的标签文本，按关联建立顺序排列
func (s *noteService) noteLabels(db *gorm.DB, notePK uint) ([]string, error) {
	labels := []string{}
	err := db.Model(&database.Tag{}).
		Select("tags.label").
		Joins("JOIN note_tags ON note_tags.tag_id = tags.id").
		Where("note_tags.note_id = ?", notePK).
		Order("note_tags.created_at ASC, note_tags.tag_id ASC").
		Pluck("tags.label", &labels).Error
	if err != nil {
		logger.Errorf("Failed to get labels for note %d: %v", notePK, err)
		return nil, apperrors.Wrap(apperrors.ErrDatabaseQuery, apperrors.GetErrorMessage(apperrors.ErrDatabaseQuery), err)
	}
	return labels, nil
}

// toNoteWithTags 组装笔记响应结构
func toNoteWithTags(note *database.Note, labels []string) *NoteWithTags {
	if labels == nil {
		labels = []string{}
	}
	return &NoteWithTags{
		ID:        note.NoteID,
		Content:   note.Content,
		ShareID:   note.ShareID,
		CreatedAt: note.CreatedAt.Unix(),
		UpdatedAt: note.UpdatedAt.Unix(),
		Tags:      labels,
	}
}
