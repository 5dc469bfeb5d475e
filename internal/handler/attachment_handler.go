package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kanban-chat-api/internal/response"
	"kanban-chat-api/internal/service"
)

// MaxFileSize defines the maximum allowed file size for uploads (50MB).
const MaxFileSize = 50 * 1024 * 1024

// AttachmentHandler handles card attachment requests
type AttachmentHandler struct {
	attachmentService service.AttachmentService
}

func NewAttachmentHandler(attachmentService service.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{attachmentService: attachmentService}
}

// AddAttachment godoc
// @Summary      첨부파일 추가
// @Description  multipart의 file 필드를 저장하고 Card에 연결합니다. 첫 첨부파일은 커버가 됩니다
// @Tags         attachments
// @Accept       multipart/form-data
// @Produce      json
// @Param        boardId path string true "Board ID (UUID)"
// @Param        cardId path string true "Card ID (UUID)"
// @Param        file formData file true "업로드할 파일"
// @Success      201 {array} domain.PubAttachment "Card의 전체 첨부파일"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      401 {object} response.ErrorResponse "멤버가 아님"
// @Failure      404 {object} response.ErrorResponse "Card를 찾을 수 없음"
// @Router       /boards/{boardId}/cards/{cardId}/attachments [post]
func (h *AttachmentHandler) AddAttachment(c *gin.Context) {
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

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxFileSize)
	header, err := c.FormFile("file")
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeInvalidRequest, "file is required")
		return
	}
	file, err := header.Open()
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeInvalidRequest, "Failed to read upload")
		return
	}
	defer file.Close()

	attachments, err := h.attachmentService.AddAttachment(c.Request.Context(), userID, boardID, cardID, header.Filename, file)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, attachments)
}

// ListAttachments godoc
// @Summary      첨부파일 목록
// @Tags         attachments
// @Produce      json
// @Param        boardId path string true "Board ID (UUID)"
// @Param        cardId path string true "Card ID (UUID)"
// @Success      200 {array} domain.PubAttachment
// @Failure      401 {object} response.ErrorResponse "멤버가 아님"
// @Failure      404 {object} response.ErrorResponse "Card를 찾을 수 없음"
// @Router       /boards/{boardId}/cards/{cardId}/attachments [get]
func (h *AttachmentHandler) ListAttachments(c *gin.Context) {
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

	attachments, err := h.attachmentService.ListAttachments(c.Request.Context(), userID, boardID, cardID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, attachments)
}

// RemoveAttachment godoc
// @Summary      첨부파일 삭제
// @Description  커버였다면 커버도 비워집니다
// @Tags         attachments
// @Produce      json
// @Param        boardId path string true "Board ID (UUID)"
// @Param        cardId path string true "Card ID (UUID)"
// @Param        attachmentId path string true "Attachment(File) ID (UUID)"
// @Success      200 {array} domain.PubAttachment "남은 첨부파일"
// @Failure      404 {object} response.ErrorResponse "첨부파일을 찾을 수 없음"
// @Router       /boards/{boardId}/cards/{cardId}/attachments/{attachmentId} [delete]
func (h *AttachmentHandler) RemoveAttachment(c *gin.Context) {
	boardID, ok := parseUUIDParam(c, "boardId")
	if !ok {
		return
	}
	cardID, ok := parseUUIDParam(c, "cardId")
	if !ok {
		return
	}
	fileID, ok := parseUUIDParam(c, "attachmentId")
	if !ok {
		return
	}
	userID, ok := ExtractUserID(c)
	if !ok {
		return
	}

	attachments, err := h.attachmentService.RemoveAttachment(c.Request.Context(), userID, boardID, cardID, fileID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, attachments)
}
