package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/circuitboard-backend/internal/http/response"
	"github.com/yungbote/circuitboard-backend/internal/platform/apierr"
	"github.com/yungbote/circuitboard-backend/internal/platform/logger"
	"github.com/yungbote/circuitboard-backend/internal/services"
)

const userApology = "Sorry, I wasn't able to answer just now. Please try again in a moment."

type ChatHandler struct {
	log  *logger.Logger
	chat services.ChatService
}

func NewChatHandler(log *logger.Logger, chat services.ChatService) *ChatHandler {
	return &ChatHandler{
		log:  log.With("handler", "ChatHandler"),
		chat: chat,
	}
}

type chatRequest struct {
	Message string `json:"message"`
}

// POST /api/circuits/:id/chat
func (h *ChatHandler) Respond(c *gin.Context) {
	rd, ok := callerIdentity(c)
	if !ok {
		return
	}
	circuitID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_json", err)
		return
	}

	reply, err := h.chat.Respond(c.Request.Context(), rd.UserID, circuitID, req.Message)
	if err != nil {
		ae := apierr.From(err)
		switch ae.Code {
		case apierr.CodeUpstreamAuth, apierr.CodeUpstreamRateLimited, apierr.CodeUpstreamTransient:
			// The turn is over; the caller gets an apology, not provider
			// internals.
			h.log.Warn("Chat turn aborted by upstream failure", "circuit_id", circuitID, "code", ae.Code)
			c.JSON(http.StatusOK, gin.H{"reply": userApology, "degraded": true})
		default:
			response.RespondAPIError(c, err)
		}
		return
	}
	response.RespondOK(c, gin.H{"reply": reply})
}
