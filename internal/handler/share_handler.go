package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/weiwangfds/ideaboard/internal/service/share"
)

// ShareHandler 分享处理器
// 提供通过分享标识访问笔记的公开只读接口
type ShareHandler struct {
	shareService share.ShareService
}

// NewShareHandler 创建分享处理器实例
// 参数:
//
//	shareService - 分享服务接口
//
// 返回:
//
//	*ShareHandler - 分享处理器实例
func NewShareHandler(shareService share.ShareService) *ShareHandler {
	return &ShareHandler{
		shareService: shareService,
	}
}

// GetSharedNote 获取分享的笔记
// @Summary 获取分享笔记
// @Description 通过分享标识获取笔记的公开投影，无需身份校验，不包含所有者信息
// @Tags 公开分享
// @Accept json
// @Produce json
// @Param shareId path string true "分享标识"
// @Success 200 {object} APIResponse{data=share.SharedNote} "获取成功"
// @Failure 404 {object} APIResponse "分享不存在"
// @Failure 500 {object} APIResponse "服务器内部错误"
// @Router /api/shared/{shareId} [get]
func (h *ShareHandler) GetSharedNote(c *gin.Context) {
	result, err := h.shareService.GetNoteByShareID(c.Param("shareId"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, result)
}
