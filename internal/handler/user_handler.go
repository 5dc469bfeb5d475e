package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"kanban-chat-api/internal/dto"
	"kanban-chat-api/internal/response"
	"kanban-chat-api/internal/service"
)

// UserHandler handles account and profile requests
type UserHandler struct {
	authService service.AuthService
	cookieTTL   time.Duration
}

// NewUserHandler creates a new UserHandler; cookieTTL should match the token lifetime
func NewUserHandler(authService service.AuthService, cookieTTL time.Duration) *UserHandler {
	return &UserHandler{
		authService: authService,
		cookieTTL:   cookieTTL,
	}
}

// Register godoc
// @Summary      회원가입
// @Description  계정을 생성하고 token 쿠키를 설정합니다
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body dto.RegisterRequest true "회원가입 요청"
// @Success      201 {object} domain.PubUser "회원가입 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      409 {object} response.ErrorResponse "이미 존재하는 사용자"
// @Failure      422 {object} response.ErrorResponse "필수 필드 누락"
// @Router       /api/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, token, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	setTokenCookie(c, token, int(h.cookieTTL.Seconds()))
	response.SendSuccess(c, http.StatusCreated, user)
}

// Login godoc
// @Summary      로그인
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "로그인 요청"
// @Success      200 {object} domain.PubUser "로그인 성공"
// @Failure      401 {object} response.ErrorResponse "비밀번호 불일치"
// @Failure      404 {object} response.ErrorResponse "사용자를 찾을 수 없음"
// @Router       /api/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	setTokenCookie(c, token, int(h.cookieTTL.Seconds()))
	response.SendSuccess(c, http.StatusOK, user)
}

// Logout godoc
// @Summary      로그아웃
// @Description  token 쿠키를 삭제합니다
// @Tags         users
// @Produce      json
// @Success      200 {object} dto.MessageResponse
// @Router       /api/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	setTokenCookie(c, "", -1)
	response.SendSuccess(c, http.StatusOK, dto.MessageResponse{Message: "Logged out"})
}

// GetCurrentUser godoc
// @Summary      내 정보 조회
// @Tags         users
// @Produce      json
// @Success      200 {object} domain.User
// @Failure      401 {object} response.ErrorResponse "인증 필요"
// @Router       /api/user [get]
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := ExtractUserID(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, user)
}

// GetUser godoc
// @Summary      사용자 공개 정보 조회
// @Tags         users
// @Produce      json
// @Param        userId path string true "User ID (UUID)"
// @Success      200 {object} domain.PubUser
// @Failure      400 {object} response.ErrorResponse "잘못된 User ID"
// @Failure      404 {object} response.ErrorResponse "사용자를 찾을 수 없음"
// @Router       /api/user/{userId} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := parseUUIDParam(c, "userId")
	if !ok {
		return
	}

	user, err := h.authService.GetPublicUser(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, user)
}

// UpdateUser godoc
// @Summary      프로필 수정
// @Description  사용자 이름이 바뀌면 토큰을 다시 발급하고 쿠키를 갱신합니다
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body dto.UpdateUserRequest true "프로필 수정 요청"
// @Success      200 {object} domain.PubUser
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      401 {object} response.ErrorResponse "비밀번호 불일치"
// @Failure      409 {object} response.ErrorResponse "이미 사용 중인 이름"
// @Router       /api/user [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, ok := ExtractUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, token, err := h.authService.UpdateUser(c.Request.Context(), userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	setTokenCookie(c, token, int(h.cookieTTL.Seconds()))
	response.SendSuccess(c, http.StatusOK, user)
}
