package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"kanban-chat-api/internal/dto"
	"kanban-chat-api/internal/response"
	"kanban-chat-api/internal/service"
)

type CollaboratorHandler struct {
	collaboratorService service.CollaboratorService
}

func NewCollaboratorHandler(collaboratorService service.CollaboratorService) *CollaboratorHandler {
	return &CollaboratorHandler{collaboratorService: collaboratorService}
}

// AddCollaborator godoc
// @Summary      협업자 추가
// @Description  Board 생성자만 가능합니다. 이미 멤버이면 그대로 성공합니다
// @Tags         collaborators
// @Accept       json
// @Produce      json
// @Param        boardId path string true "Board ID (UUID)"
// @Param        request body dto.AddCollaboratorRequest true "추가할 사용자"
// @Success      200 {object} dto.IDResponse
// @Failure      400 {object} response.ErrorResponse "잘못된 User ID"
// @Failure      401 {object} response.ErrorResponse "권한 없음"
// @Failure      404 {object} response.ErrorResponse "사용자를 찾을 수 없음"
// @Router       /boards/{boardId}/collaborators [post]
func (h *CollaboratorHandler) AddCollaborator(c *gin.Context) {
	boardID, ok := parseUUIDParam(c, "boardId")
	if !ok {
		return
	}
	userID, ok := ExtractUserID(c)
	if !ok {
		return
	}

	var req dto.AddCollaboratorRequest
	if !bindJSON(c, &req) {
		return
	}
	collaboratorID, err := uuid.Parse(req.UserID)
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeFailedToParseUUID, "Invalid user_id")
		return
	}

	id, err := h.collaboratorService.AddCollaborator(c.Request.Context(), userID, boardID, collaboratorID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, dto.IDResponse{ID: id})
}

// ListCollaborators godoc
// @Summary      협업자 목록
// @Tags         collaborators
// @Produce      json
// @Param        boardId path string true "Board ID (UUID)"
// @Success      200 {array} domain.PubUser
// @Failure      401 {object} response.ErrorResponse "멤버가 아님"
// @Router       /boards/{boardId}/collaborators [get]
func (h *CollaboratorHandler) ListCollaborators(c *gin.Context) {
	boardID, ok := parseUUIDParam(c, "boardId")
	if !ok {
		return
	}
	userID, ok := ExtractUserID(c)
	if !ok {
		return
	}

	users, err := h.collaboratorService.ListCollaborators(c.Request.Context(), userID, boardID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, users)
}

// RemoveCollaborator godoc
// @Summary      협업자 제거
// @Description  Board 생성자만 가능하며 생성자 자신은 제거할 수 없습니다
// @Tags         collaborators
// @Produce      json
// @Param        boardId path string true "Board ID (UUID)"
// @Param        userId path string true "User ID (UUID)"
// @Success      200 {object} dto.IDResponse
// @Failure      400 {object} response.ErrorResponse "생성자 제거 불가"
// @Failure      401 {object} response.ErrorResponse "권한 없음"
// @Router       /boards/{boardId}/collaborators/{userId} [delete]
func (h *CollaboratorHandler) RemoveCollaborator(c *gin.Context) {
	boardID, ok := parseUUIDParam(c, "boardId")
	if !ok {
		return
	}
	collaboratorID, ok := parseUUIDParam(c, "userId")
	if !ok {
		return
	}
	userID, ok := ExtractUserID(c)
	if !ok {
		return
	}

	id, err := h.collaboratorService.RemoveCollaborator(c.Request.Context(), userID, boardID, collaboratorID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, dto.IDResponse{ID: id})
}
