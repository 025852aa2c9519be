package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/weiwangfds/ideaboard/internal/errors"
	"github.com/weiwangfds/ideaboard/internal/service/note"
)

// NoteHandler 笔记处理器
// 提供笔记管理的HTTP接口，所有操作以当前会话用户为作用域
type NoteHandler struct {
	noteService note.NoteService
}

// NewNoteHandler 创建笔记处理器实例
// 参数:
//
//	noteService - 笔记服务接口
//
// 返回:
//
//	*NoteHandler - 笔记处理器实例
func NewNoteHandler(noteService note.NoteService) *NoteHandler {
	return &NoteHandler{
		noteService: noteService,
	}
}

// ListNotes 列出当前用户的笔记
// @Summary 获取笔记列表
// @Description 列出当前用户的全部笔记，支持内容子串过滤和标签精确过滤
// @Tags 笔记管理
// @Accept json
// @Produce json
// @Param q query string false "内容过滤，按字面子串匹配"
// @Param tag query string false "标签过滤，与存储的标签文本精确相等"
// @Success 200 {object} APIResponse{data=[]note.NoteWithTags} "获取成功"
// @Failure 401 {object} APIResponse "未授权"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /api/notes [get]
func (h *NoteHandler) ListNotes(c *gin.Context) {
	ownerID := c.GetString("user_id")

	notes, err := h.noteService.ListNotes(ownerID, c.Query("q"), c.Query("tag"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, notes)
}

// GetNote 获取单条笔记
// @Summary 获取笔记详情
// @Description 获取当前用户的一条笔记及其标签集合
// @Tags 笔记管理
// @Accept json
// @Produce json
// @Param id path string true "笔记ID"
// @Success 200 {object} APIResponse{data=note.NoteWithTags} "获取成功"
// @Failure 401 {object} APIResponse "未授权"
// @Failure 404 {object} APIResponse "笔记不存在"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /api/notes/{id} [get]
func (h *NoteHandler) GetNote(c *gin.Context) {
	ownerID := c.GetString("user_id")

	result, err := h.noteService.GetNote(c.Param("id"), ownerID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, result)
}

// CreateNote 创建笔记
// @Summary 创建新笔记
// @Description 创建一条笔记，支持附带标签文本，分享标识在创建时生成
// @Tags 笔记管理
// @Accept json
// @Produce json
// @Param note body note.CreateNoteRequest true "创建笔记请求"
// @Success 200 {object} APIResponse{data=note.NoteWithTags} "创建成功"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Failure 401 {object} APIResponse "未授权"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /api/notes [post]
func (h *NoteHandler) CreateNote(c *gin.Context) {
	var req note.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Error:   apperrors.GetErrorMessage(apperrors.ErrInvalidParams),
		})
		return
	}

	ownerID := c.GetString("user_id")

	result, err := h.noteService.CreateNote(ownerID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, result)
}

// UpdateNote 更新笔记
// @Summary 更新笔记
// @Description 整体替换笔记内容；请求携带tags字段时整体替换标签集合，缺省时保留原有标签
// @Tags 笔记管理
// @Accept json
// @Produce json
// @Param id path string true "笔记ID"
// @Param note body note.UpdateNoteRequest true "更新笔记请求"
// @Success 200 {object} APIResponse{data=note.NoteWithTags} "更新成功"
// @Failure 400 {object} APIResponse "请求参数错误"
// @Failure 401 {object} APIResponse "未授权"
// @Failure 404 {object} APIResponse "笔记不存在"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /api/notes/{id} [put]
func (h *NoteHandler) UpdateNote(c *gin.Context) {
	var req note.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Error:   apperrors.GetErrorMessage(apperrors.ErrInvalidParams),
		})
		return
	}

	ownerID := c.GetString("user_id")

	result, err := h.noteService.UpdateNote(c.Param("id"), ownerID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, result)
}

// DeleteNote 删除笔记
// @Summary 删除笔记
// @Description 删除当前用户的一条笔记，标签关联级联移除
// @Tags 笔记管理
// @Accept json
// @Produce json
// @Param id path string true "笔记ID"
// @Success 200 {object} APIResponse "删除成功"
// @Failure 401 {object} APIResponse "未授权"
// @Failure 404 {object} APIResponse "笔记不存在"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /api/notes/{id} [delete]
func (h *NoteHandler) DeleteNote(c *gin.Context) {
	ownerID := c.GetString("user_id")

	if err := h.noteService.DeleteNote(c.Param("id"), ownerID); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, nil)
}
