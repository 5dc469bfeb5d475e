package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"kanban-chat-api/internal/dto"
	"kanban-chat-api/internal/response"
	"kanban-chat-api/internal/service"
)

type CardHandler struct {
	cardService service.CardService
}

func NewCardHandler(cardService service.CardService) *CardHandler {
	return &CardHandler{cardService: cardService}
}

// CreateCard godoc
// @Summary      Card 생성
// @Tags         cards
// @Accept       json
// @Produce      json
// @Param        boardId path string true "Board ID (UUID)"
// @Param        columnId path string true "Column ID (UUID)"
// @Param        request body dto.CreateCardRequest true "Card 생성 요청"
// @Success      201 {object} domain.PubCard
// @Failure      400 {object} response.ErrorResponse "잘못된 위치"
// @Failure      401 {object} response.ErrorResponse "멤버가 아님"
// @Failure      404 {object} response.ErrorResponse "Column을 찾을 수 없음"
// @Router       /boards/{boardId}/columns/{columnId}/cards [post]
func (h *CardHandler) CreateCard(c *gin.Context) {
	boardID, ok := parseUUIDParam(c, "boardId")
	if !ok {
		return
	}
	columnID, ok := parseUUIDParam(c, "columnId")
	if !ok {
		return
	}
	userID, ok := ExtractUserID(c)
	if !ok {
		return
	}

	var req dto.CreateCardRequest
	if !bindJSON(c, &req) {
		return
	}

	card, err := h.cardService.CreateCard(c.Request.Context(), userID, boardID, columnID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, card)
}

// ListCards godoc
// @Summary      Column의 Card 목록
// @Tags         cards
// @Produce      json
// @Param        boardId path string true "Board ID (UUID)"
// @Param        columnId path string true "Column ID (UUID)"
// @Success      200 {array} domain.PubCard
// @Failure      401 {object} response.ErrorResponse "멤버가 아님"
// @Router       /boards/{boardId}/columns/{columnId}/cards [get]
func (h *CardHandler) ListCards(c *gin.Context) {
	boardID, ok := parseUUIDParam(c, "boardId")
	if !ok {
		return
	}
	columnID, ok := parseUUIDParam(c, "columnId")
	if !ok {
		return
	}
	userID, ok := ExtractUserID(c)
	if !ok {
		return
	}

	cards, err := h.cardService.ListCards(c.Request.Context(), userID, boardID, columnID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, cards)
}

// GetCard godoc
// @Summary      Card 조회
// @Tags         cards
// @Produce      json
// @Param        boardId path string true "Board ID (UUID)"
// @Param        cardId path string true "Card ID (UUID)"
// @Success      200 {object} domain.PubCard
// @Failure      404 {object} response.ErrorResponse "Card를 찾을 수 없음"
// @Router       /boards/{boardId}/cards/{cardId} [get]
func (h *CardHandler) GetCard(c *gin.Context) {
	boardID, ok := parseUUIDParam(c, "boardId")
	if !ok {
		return
	}
	cardID, ok := parseUUIDParam(c, "cardId")
	if !ok {
		return
	}
	userID, ok := ExtractUserID(c)
	if !ok {
		return
	}

	card, err := h.cardService.GetCard(c.Request.Context(), userID, boardID, cardID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, card)
}

// GetColumnCard godoc
// @Summary      Column 안의 Card 조회
// @Tags         cards
// @Produce      json
// @Param        boardId path string true "Board ID (UUID)"
// @Param        columnId path string true "Column ID (UUID)"
// @Param        cardId path string true "Card ID (UUID)"
// @Success      200 {object} domain.PubCard
// @Failure      404 {object} response.ErrorResponse "Column 또는 Card를 찾을 수 없음"
// @Router       /boards/{boardId}/columns/{columnId}/cards/{cardId} [get]
func (h *CardHandler) GetColumnCard(c *gin.Context) {
	boardID, ok := parseUUIDParam(c, "boardId")
	if !ok {
		return
	}
	columnID, ok := parseUUIDParam(c, "columnId")
	if !ok {
		return
	}
	cardID, ok := parseUUIDParam(c, "cardId")
	if !ok {
		return
	}
	userID, ok := ExtractUserID(c)
	if !ok {
		return
	}

	card, err := h.cardService.GetColumnCard(c.Request.Context(), userID, boardID, columnID, cardID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, card)
}

// UpdateCard godoc
// @Summary      Card 수정
// @Description  이름과 설명만 바꾸며 위치는 그대로입니다
// @Tags         cards
// @Accept       json
// @Produce      json
// @Param        boardId path string true "Board ID (UUID)"
// @Param        columnId path string true "Column ID (UUID)"
// @Param        cardId path string true "Card ID (UUID)"
// @Param        request body dto.UpdateCardRequest true "Card 수정 요청"
// @Success      200 {object} domain.PubCard
// @Failure      404 {object} response.ErrorResponse "Card를 찾을 수 없음"
// @Router       /boards/{boardId}/columns/{columnId}/cards/{cardId} [put]
func (h *CardHandler) UpdateCard(c *gin.Context) {
	boardID, ok := parseUUIDParam(c, "boardId")
	if !ok {
		return
	}
	columnID, ok := parseUUIDParam(c, "columnId")
	if !ok {
		return
	}
	cardID, ok := parseUUIDParam(c, "cardId")
	if !ok {
		return
	}
	userID, ok := ExtractUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateCardRequest
	if !bindJSON(c, &req) {
		return
	}

	card, err := h.cardService.UpdateCard(c.Request.Context(), userID, boardID, columnID, cardID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, card)
}

// ReorderCard godoc
// @Summary      Card 이동
// @Description  같은 Column 안에서 또는 다른 Column으로 Card를 옮깁니다. position은 범위 안으로 보정됩니다
// @Tags         cards
// @Produce      json
// @Param        boardId path string true "Board ID (UUID)"
// @Param        columnId path string true "현재 Column ID (UUID)"
// @Param        cardId path string true "Card ID (UUID)"
// @Param        toColumnId path string true "대상 Column ID (UUID)"
// @Param        position path int true "대상 위치"
// @Success      200 {object} domain.PubCard
// @Failure      400 {object} response.ErrorResponse "잘못된 위치 또는 Column 불일치"
// @Failure      404 {object} response.ErrorResponse "Card 또는 Column을 찾을 수 없음"
// @Router       /boards/{boardId}/columns/{columnId}/cards/{cardId}/reorder/{toColumnId}/{position} [put]
func (h *CardHandler) ReorderCard(c *gin.Context) {
	boardID, ok := parseUUIDParam(c, "boardId")
	if !ok {
		return
	}
	fromColumn, ok := parseUUIDParam(c, "columnId")
	if !ok {
		return
	}
	cardID, ok := parseUUIDParam(c, "cardId")
	if !ok {
		return
	}
	toColumn, ok := parseUUIDParam(c, "toColumnId")
	if !ok {
		return
	}
	position, err := strconv.Atoi(c.Param("position"))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeInvalidRequest, "Invalid position")
		return
	}
	userID, ok := ExtractUserID(c)
	if !ok {
		return
	}

	card, err := h.cardService.ReorderCard(c.Request.Context(), userID, boardID, cardID, fromColumn, toColumn, position)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, card)
}

// DeleteCard godoc
// @Summary      Card 삭제
// @Tags         cards
// @Produce      json
// @Param        boardId path string true "Board ID (UUID)"
// @Param        columnId path string true "Column ID (UUID)"
// @Param        cardId path string true "Card ID (UUID)"
// @Success      200 {object} dto.IDResponse
// @Failure      404 {object} response.ErrorResponse "Card를 찾을 수 없음"
// @Router       /boards/{boardId}/columns/{columnId}/cards/{cardId} [delete]
func (h *CardHandler) DeleteCard(c *gin.Context) {
	boardID, ok := parseUUIDParam(c, "boardId")
	if !ok {
		return
	}
	columnID, ok := parseUUIDParam(c, "columnId")
	if !ok {
		return
	}
	cardID, ok := parseUUIDParam(c, "cardId")
	if !ok {
		return
	}
	userID, ok := ExtractUserID(c)
	if !ok {
		return
	}

	id, err := h.cardService.DeleteCard(c.Request.Context(), userID, boardID, columnID, cardID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, dto.IDResponse{ID: id})
}
