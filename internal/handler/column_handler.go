package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kanban-chat-api/internal/dto"
	"kanban-chat-api/internal/response"
	"kanban-chat-api/internal/service"
)

type ColumnHandler struct {
	columnService service.ColumnService
}

func NewColumnHandler(columnService service.ColumnService) *ColumnHandler {
	return &ColumnHandler{columnService: columnService}
}

// CreateColumn godoc
// @Summary      Column 생성
// @Description  position이 Column 수보다 크면 맨 뒤에 추가됩니다
// @Tags         columns
// @Accept       json
// @Produce      json
// @Param        boardId path string true "Board ID (UUID)"
// @Param        request body dto.CreateColumnRequest true "Column 생성 요청"
// @Success      201 {object} domain.PubColumn
// @Failure      400 {object} response.ErrorResponse "잘못된 위치"
// @Failure      401 {object} response.ErrorResponse "멤버가 아님"
// @Router       /boards/{boardId}/columns [post]
func (h *ColumnHandler) CreateColumn(c *gin.Context) {
	boardID, ok := parseUUIDParam(c, "boardId")
	if !ok {
		return
	}
	userID, ok := ExtractUserID(c)
	if !ok {
		return
	}

	var req dto.CreateColumnRequest
	if !bindJSON(c, &req) {
		return
	}

	column, err := h.columnService.CreateColumn(c.Request.Context(), userID, boardID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, column)
}

// ListColumns godoc
// @Summary      Column 목록
// @Tags         columns
// @Produce      json
// @Param        boardId path string true "Board ID (UUID)"
// @Success      200 {array} domain.PubColumn
// @Failure      401 {object} response.ErrorResponse "멤버가 아님"
// @Router       /boards/{boardId}/columns [get]
func (h *ColumnHandler) ListColumns(c *gin.Context) {
	boardID, ok := parseUUIDParam(c, "boardId")
	if !ok {
		return
	}
	userID, ok := ExtractUserID(c)
	if !ok {
		return
	}

	columns, err := h.columnService.ListColumns(c.Request.Context(), userID, boardID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, columns)
}

// GetColumn godoc
// @Summary      Column 조회
// @Tags         columns
// @Produce      json
// @Param        boardId path string true "Board ID (UUID)"
// @Param        columnId path string true "Column ID (UUID)"
// @Success      200 {object} domain.PubColumn
// @Failure      404 {object} response.ErrorResponse "Column을 찾을 수 없음"
// @Router       /boards/{boardId}/columns/{columnId} [get]
func (h *ColumnHandler) GetColumn(c *gin.Context) {
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

	column, err := h.columnService.GetColumn(c.Request.Context(), userID, boardID, columnID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, column)
}

// UpdateColumn godoc
// @Summary      Column 수정
// @Description  이름 변경과 위치 이동을 함께 처리합니다
// @Tags         columns
// @Accept       json
// @Produce      json
// @Param        boardId path string true "Board ID (UUID)"
// @Param        columnId path string true "Column ID (UUID)"
// @Param        request body dto.UpdateColumnRequest true "Column 수정 요청"
// @Success      200 {object} domain.PubColumn
// @Failure      400 {object} response.ErrorResponse "잘못된 위치"
// @Failure      404 {object} response.ErrorResponse "Column을 찾을 수 없음"
// @Router       /boards/{boardId}/columns/{columnId} [put]
func (h *ColumnHandler) UpdateColumn(c *gin.Context) {
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

	var req dto.UpdateColumnRequest
	if !bindJSON(c, &req) {
		return
	}

	column, err := h.columnService.UpdateColumn(c.Request.Context(), userID, boardID, columnID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, column)
}

// DeleteColumn godoc
// @Summary      Column 삭제
// @Description  Column의 Card와 첨부파일도 함께 삭제됩니다
// @Tags         columns
// @Produce      json
// @Param        boardId path string true "Board ID (UUID)"
// @Param        columnId path string true "Column ID (UUID)"
// @Success      200 {object} domain.PubColumn
// @Failure      404 {object} response.ErrorResponse "Column을 찾을 수 없음"
// @Router       /boards/{boardId}/columns/{columnId} [delete]
func (h *ColumnHandler) DeleteColumn(c *gin.Context) {
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

	column, err := h.columnService.DeleteColumn(c.Request.Context(), userID, boardID, columnID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, column)
}
