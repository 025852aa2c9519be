package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/weiwangfds/ideaboard/internal/service/tag"
)

// TagHandler 标签处理器
// 提供标签列表查询接口，附带各标签的笔记引用数
type TagHandler struct {
	tagService tag.TagService
}

// NewTagHandler 创建标签处理器实例
// 参数:
//
//	tagService - 标签服务接口
//
// 返回:
//
//	*TagHandler - 标签处理器实例
func NewTagHandler(tagService tag.TagService) *TagHandler {
	return &TagHandler{
		tagService: tagService,
	}
}

// ListTags 获取标签列表
// @Summary 获取标签列表
// @Description 分页列出全部标签及其笔记引用数
// @Tags 标签管理
// @Accept json
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(50)
// @Success 200 {object} APIResponse{data=[]tag.TagWithCount} "获取成功"
// @Failure 401 {object} APIResponse "未授权"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /api/tags [get]
func (h *TagHandler) ListTags(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))

	tags, total, err := h.tagService.ListTags(page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, gin.H{
		"tags":  tags,
		"total": total,
	})
}
