package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"pageforge-backend/internal/model"
	"pageforge-backend/internal/service"
	"pageforge-backend/internal/utils"
	"pageforge-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

type AIHandler struct {
	pipeline *service.Pipeline
}

func NewAIHandler(pipeline *service.Pipeline) *AIHandler {
	return &AIHandler{
		pipeline: pipeline,
	}
}

// CreateProjectStream AI 生成项目，SSE 推送进度事件流
func (h *AIHandler) CreateProjectStream(c *gin.Context) {
	var req model.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	// 空提示词在流水线启动前就拒绝，不触发任何后端调用
	if strings.TrimSpace(req.Prompt) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Prompt is required and cannot be empty"})
		return
	}

	ctx := c.Request.Context()
	sseWriter := utils.NewSSEWriter(c.Writer)
	events := h.pipeline.Run(ctx, &req)

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				sseWriter.Close()
				return
			}

			data, err := json.Marshal(ev)
			if err != nil {
				logger.Errorf("Failed to marshal progress event: %v", err)
				continue
			}

			if err := sseWriter.Write("", string(data)); err != nil {
				logger.Errorf("Failed to write SSE: %v", err)
				return
			}

		case <-ctx.Done():
			// 客户端断开，流水线会在下一个发射点自行停止
			return
		}
	}
}

// GetTokenInfo 返回当前 token 预算信息
func (h *AIHandler) GetTokenInfo(c *gin.Context) {
	limit := h.pipeline.TokenLimit()

	c.JSON(http.StatusOK, model.TokenInfoResponse{
		Remaining: limit,
		Limit:     limit,
		Used:      0,
	})
}
