package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kanban-chat-api/internal/dto"
	"kanban-chat-api/internal/response"
	"kanban-chat-api/internal/service"
)

// BoardHandler handles board-related requests
type BoardHandler struct {
	boardService service.BoardService
}

func NewBoardHandler(boardService service.BoardService) *BoardHandler {
	return &BoardHandler{boardService: boardService}
}

// CreateBoard godoc
// @Summary      Board 생성
// @Description  Board를 만들고 생성자를 멤버로 추가합니다
// @Tags         boards
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateBoardRequest true "Board 생성 요청"
// @Success      201 {object} dto.IDResponse "Board 생성 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      401 {object} response.ErrorResponse "인증 필요"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /boards [post]
func (h *BoardHandler) CreateBoard(c *gin.Context) {
	userID, ok := ExtractUserID(c)
	if !ok {
		return
	}

	var req dto.CreateBoardRequest
	if !bindJSON(c, &req) {
		return
	}

	id, err := h.boardService.CreateBoard(c.Request.Context(), userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, dto.IDResponse{ID: id})
}

// ListBoards godoc
// @Summary      내 Board 목록
// @Tags         boards
// @Produce      json
// @Success      200 {array} domain.PubBoard
// @Failure      401 {object} response.ErrorResponse "인증 필요"
// @Router       /boards [get]
func (h *BoardHandler) ListBoards(c *gin.Context) {
	userID, ok := ExtractUserID(c)
	if !ok {
		return
	}

	boards, err := h.boardService.ListBoards(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, boards)
}

// GetBoard godoc
// @Summary      Board 조회
// @Description  Board와 모든 Column, Card를 위치 순서대로 반환합니다
// @Tags         boards
// @Produce      json
// @Param        boardId path string true "Board ID (UUID)"
// @Success      200 {object} domain.BoardInfo
// @Failure      400 {object} response.ErrorResponse "잘못된 Board ID"
// @Failure      401 {object} response.ErrorResponse "멤버가 아님"
// @Failure      404 {object} response.ErrorResponse "Board를 찾을 수 없음"
// @Router       /boards/{boardId} [get]
func (h *BoardHandler) GetBoard(c *gin.Context) {
	boardID, ok := parseUUIDParam(c, "boardId")
	if !ok {
		return
	}
	userID, ok := ExtractUserID(c)
	if !ok {
		return
	}

	board, err := h.boardService.GetBoard(c.Request.Context(), userID, boardID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, board)
}

// UpdateBoard godoc
// @Summary      Board 이름 변경
// @Description  생성자만 가능합니다
// @Tags         boards
// @Accept       json
// @Produce      json
// @Param        boardId path string true "Board ID (UUID)"
// @Param        request body dto.UpdateBoardRequest true "Board 수정 요청"
// @Success      200 {object} dto.IDResponse
// @Failure      401 {object} response.ErrorResponse "권한 없음"
// @Failure      404 {object} response.ErrorResponse "Board를 찾을 수 없음"
// @Router       /boards/{boardId} [put]
func (h *BoardHandler) UpdateBoard(c *gin.Context) {
	boardID, ok := parseUUIDParam(c, "boardId")
	if !ok {
		return
	}
	userID, ok := ExtractUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateBoardRequest
	if !bindJSON(c, &req) {
		return
	}

	id, err := h.boardService.UpdateBoard(c.Request.Context(), userID, boardID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, dto.IDResponse{ID: id})
}

// DeleteBoard godoc
// @Summary      Board 삭제
// @Description  생성자만 가능합니다. Column, Card, 첨부파일이 함께 삭제됩니다
// @Tags         boards
// @Produce      json
// @Param        boardId path string true "Board ID (UUID)"
// @Success      200 {object} dto.IDResponse
// @Failure      401 {object} response.ErrorResponse "권한 없음"
// @Failure      404 {object} response.ErrorResponse "Board를 찾을 수 없음"
// @Router       /boards/{boardId} [delete]
func (h *BoardHandler) DeleteBoard(c *gin.Context) {
	boardID, ok := parseUUIDParam(c, "boardId")
	if !ok {
		return
	}
	userID, ok := ExtractUserID(c)
	if !ok {
		return
	}

	id, err := h.boardService.DeleteBoard(c.Request.Context(), userID, boardID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, dto.IDResponse{ID: id})
}
