package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kanban-chat-api/internal/dto"
	"kanban-chat-api/internal/response"
	"kanban-chat-api/internal/service"
)

type ConversationHandler struct {
	conversationService service.ConversationService
}

func NewConversationHandler(conversationService service.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversationService: conversationService}
}

// GetOrCreateConversation godoc
// @Summary      대화 생성 또는 조회
// @Description  두 사용자 사이의 유일한 대화를 반환합니다. 순서와 관계없이 같은 대화입니다
// @Tags         conversations
// @Produce      json
// @Param        a path string true "User ID (UUID)"
// @Param        b path string true "User ID (UUID)"
// @Success      200 {object} dto.ConversationResponse
// @Failure      400 {object} response.ErrorResponse "같은 사용자"
// @Failure      401 {object} response.ErrorResponse "당사자가 아니거나 친구가 아님"
// @Router       /conversation/{a}/{b} [post]
func (h *ConversationHandler) GetOrCreateConversation(c *gin.Context) {
	a, ok := parseUUIDParam(c, "a")
	if !ok {
		return
	}
	b, ok := parseUUIDParam(c, "b")
	if !ok {
		return
	}
	userID, ok := ExtractUserID(c)
	if !ok {
		return
	}

	conv, err := h.conversationService.GetOrCreate(c.Request.Context(), userID, a, b)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, dto.ToConversationResponse(conv))
}

// GetConversation godoc
// @Summary      대화 조회
// @Tags         conversations
// @Produce      json
// @Param        a path string true "User ID (UUID)"
// @Param        b path string true "User ID (UUID)"
// @Success      200 {object} dto.ConversationResponse
// @Failure      404 {object} response.ErrorResponse "대화가 없음"
// @Router       /conversation/{a}/{b} [get]
func (h *ConversationHandler) GetConversation(c *gin.Context) {
	a, ok := parseUUIDParam(c, "a")
	if !ok {
		return
	}
	b, ok := parseUUIDParam(c, "b")
	if !ok {
		return
	}
	userID, ok := ExtractUserID(c)
	if !ok {
		return
	}

	conv, err := h.conversationService.Find(c.Request.Context(), userID, a, b)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, dto.ToConversationResponse(conv))
}

// LastMessages godoc
// @Summary      최근 메시지
// @Description  최근 100개 메시지를 최신순으로 반환합니다
// @Tags         conversations
// @Produce      json
// @Param        conversationId path string true "Conversation ID (UUID)"
// @Success      200 {array} domain.ChatMessage
// @Failure      401 {object} response.ErrorResponse "대화 당사자가 아님"
// @Failure      404 {object} response.ErrorResponse "대화가 없음"
// @Router       /chat_source/last_messages/{conversationId} [get]
func (h *ConversationHandler) LastMessages(c *gin.Context) {
	conversationID, ok := parseUUIDParam(c, "conversationId")
	if !ok {
		return
	}
	userID, ok := ExtractUserID(c)
	if !ok {
		return
	}

	messages, err := h.conversationService.LastMessages(c.Request.Context(), userID, conversationID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, messages)
}
