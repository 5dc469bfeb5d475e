package handler

import (
	"io"
	"mime"
	"net/http"
	"path"
	"strconv"

	"github.com/gin-gonic/gin"

	"kanban-chat-api/internal/dto"
	"kanban-chat-api/internal/response"
	"kanban-chat-api/internal/service"
)

// FileHandler serves standalone uploads
type FileHandler struct {
	fileService service.FileService
}

func NewFileHandler(fileService service.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

// CreateFile godoc
// @Summary      파일 업로드
// @Tags         files
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "업로드할 파일"
// @Param        filename formData string false "저장할 파일 이름 (기본값: 업로드 파일 이름)"
// @Param        is_private formData bool false "비공개 여부"
// @Success      201 {object} dto.FileResponse
// @Failure      400 {object} response.ErrorResponse "잘못된 파일"
// @Failure      401 {object} response.ErrorResponse "인증 필요"
// @Router       /api/file/create [post]
func (h *FileHandler) CreateFile(c *gin.Context) {
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
	filename := c.PostForm("filename")
	if filename == "" {
		filename = header.Filename
	}
	private := false
	if raw := c.PostForm("is_private"); raw != "" {
		private, err = strconv.ParseBool(raw)
		if err != nil {
			response.SendError(c, http.StatusBadRequest, response.ErrCodeInvalidRequest, "is_private must be a boolean")
			return
		}
	}

	body, err := header.Open()
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeInvalidRequest, "Failed to read upload")
		return
	}
	defer body.Close()

	file, err := h.fileService.Upload(c.Request.Context(), userID, filename, header.Header.Get("Content-Type"), private, body)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, dto.ToFileResponse(file))
}

// GetFile godoc
// @Summary      파일 다운로드
// @Description  공개 파일은 누구나, 비공개 파일은 소유자만 받을 수 있습니다
// @Tags         files
// @Produce      octet-stream
// @Param        name path string true "파일 이름"
// @Success      200 {file} binary
// @Failure      403 {object} response.ErrorResponse "소유자가 아님"
// @Failure      404 {object} response.ErrorResponse "파일을 찾을 수 없음"
// @Router       /api/file/{name} [get]
func (h *FileHandler) GetFile(c *gin.Context) {
	name := c.Param("name")

	file, body, err := h.fileService.Open(c.Request.Context(), optionalUserID(c), name)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	defer body.Close()

	contentType := mime.TypeByExtension(path.Ext(file.Name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, body); err != nil {
		_ = c.Error(err)
	}
}

// DeleteFile godoc
// @Summary      파일 삭제
// @Description  소유자만 가능합니다. Card에 연결된 파일은 연결이 해제되고 커버도 비워집니다
// @Tags         files
// @Produce      json
// @Param        name path string true "파일 이름"
// @Success      200 {object} dto.IDResponse
// @Failure      403 {object} response.ErrorResponse "소유자가 아님"
// @Failure      404 {object} response.ErrorResponse "파일을 찾을 수 없음"
// @Router       /api/file/{name} [delete]
func (h *FileHandler) DeleteFile(c *gin.Context) {
	userID, ok := ExtractUserID(c)
	if !ok {
		return
	}

	id, err := h.fileService.Delete(c.Request.Context(), userID, c.Param("name"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, dto.IDResponse{ID: id})
}

// ListFiles godoc
// @Summary      파일 목록
// @Description  공개 파일과 내 파일을 반환합니다. 익명 사용자는 공개 파일만 봅니다
// @Tags         files
// @Produce      json
// @Success      200 {array} dto.FileResponse
// @Router       /api/files [get]
func (h *FileHandler) ListFiles(c *gin.Context) {
	files, err := h.fileService.List(c.Request.Context(), optionalUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, dto.ToFileResponses(files))
}
