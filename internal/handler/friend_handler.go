package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kanban-chat-api/internal/dto"
	"kanban-chat-api/internal/response"
	"kanban-chat-api/internal/service"
)

type FriendHandler struct {
	friendService service.FriendService
}

func NewFriendHandler(friendService service.FriendService) *FriendHandler {
	return &FriendHandler{friendService: friendService}
}

// GenerateCode godoc
// @Summary      친구 코드 발급
// @Description  48시간 동안 유효한 8자리 코드를 발급합니다. 기존 코드는 교체됩니다
// @Tags         friends
// @Produce      json
// @Success      200 {object} domain.FriendCode
// @Failure      401 {object} response.ErrorResponse "인증 필요"
// @Router       /friends/code [post]
func (h *FriendHandler) GenerateCode(c *gin.Context) {
	userID, ok := ExtractUserID(c)
	if !ok {
		return
	}

	code, err := h.friendService.GenerateCode(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, code)
}

// GetCode godoc
// @Summary      내 친구 코드 조회
// @Description  코드가 없으면 null을 반환합니다
// @Tags         friends
// @Produce      json
// @Success      200 {object} domain.FriendCode
// @Router       /friends/code [get]
func (h *FriendHandler) GetCode(c *gin.Context) {
	userID, ok := ExtractUserID(c)
	if !ok {
		return
	}

	code, err := h.friendService.GetCode(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, code)
}

// Redeem godoc
// @Summary      친구 코드 사용
// @Tags         friends
// @Accept       json
// @Produce      json
// @Param        request body dto.RedeemFriendCodeRequest true "친구 코드"
// @Success      200 {object} domain.PubUser "새 친구"
// @Failure      400 {object} response.ErrorResponse "잘못되었거나 만료된 코드"
// @Router       /friends/redeem [post]
func (h *FriendHandler) Redeem(c *gin.Context) {
	userID, ok := ExtractUserID(c)
	if !ok {
		return
	}

	var req dto.RedeemFriendCodeRequest
	if !bindJSON(c, &req) {
		return
	}
	req.Normalize()

	friend, err := h.friendService.Redeem(c.Request.Context(), userID, req.Code)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, friend)
}

// ListFriends godoc
// @Summary      친구 목록
// @Tags         friends
// @Produce      json
// @Success      200 {array} domain.PubUser
// @Router       /friends/list [get]
func (h *FriendHandler) ListFriends(c *gin.Context) {
	userID, ok := ExtractUserID(c)
	if !ok {
		return
	}

	friends, err := h.friendService.ListFriends(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, friends)
}
