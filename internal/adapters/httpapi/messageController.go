package httpapi

import (
	"net/http"

	"snapgram/internal/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MessageController struct {
	mc     MessageUseCase
	logger *zap.Logger
}

func NewMessageController(mc MessageUseCase, logger *zap.Logger) *MessageController {
	return &MessageController{mc: mc, logger: logger}
}

func (ctl *MessageController) SendMessage(c *gin.Context) {
	var req struct {
		Message string `json:"message" form:"message"`
	}
	if err := c.ShouldBind(&req); err != nil {
		badInput(c)
		return
	}
	msg, err := ctl.mc.SendMessage(c.Request.Context(), currentUserID(c), c.Param("id"), req.Message)
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	metrics.MessagesSent.Inc()
	respond(c, http.StatusCreated, "Message sent!", gin.H{"newMessage": msg})
}

// AllMessages an empty list when the two users never talked.
func (ctl *MessageController) AllMessages(c *gin.Context) {
	messages, err := ctl.mc.GetMessages(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, ctl.logger, err)
		return
	}
	respond(c, http.StatusOK, "Messages fetched!", gin.H{"messages": messages})
}
