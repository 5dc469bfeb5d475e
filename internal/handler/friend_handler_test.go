package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kanban-chat-api/internal/domain"
	"kanban-chat-api/internal/response"
)

func TestFriendHandler_Redeem(t *testing.T) {
	userID := uuid.New()
	friendID := uuid.New()

	tests := []struct {
		name           string
		body           string
		mockService    func(*MockFriendService)
		expectedStatus int
	}{
		{
			name: "성공: 소문자와 공백이 섞인 코드",
			body: `{"code":"  x1y2z3a4 "}`,
			mockService: func(m *MockFriendService) {
				m.RedeemFunc = func(ctx context.Context, uid uuid.UUID, code string) (*domain.PubUser, error) {
					assert.Equal(t, "X1Y2Z3A4", code)
					return &domain.PubUser{ID: friendID, Username: "u1"}, nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "실패: 만료된 코드",
			body: `{"code":"X1Y2Z3A4"}`,
			mockService: func(m *MockFriendService) {
				m.RedeemFunc = func(ctx context.Context, uid uuid.UUID, code string) (*domain.PubUser, error) {
					return nil, response.NewInvalidRequestError("Friend code expired", "")
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "실패: 코드 누락",
			body:           `{}`,
			mockService:    func(m *MockFriendService) {},
			expectedStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockFriendService{}
			tt.mockService(mockService)
			router := setupTestRouter()
			router.Use(asUser(userID))
			router.POST("/friends/redeem", NewFriendHandler(mockService).Redeem)

			req := httptest.NewRequest(http.MethodPost, "/friends/redeem", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
		})
	}
}

func TestFriendHandler_GetCodeWithoutCodeIsNull(t *testing.T) {
	mockService := &MockFriendService{
		GetCodeFunc: func(ctx context.Context, uid uuid.UUID) (*domain.FriendCode, error) {
			return nil, nil
		},
		GenerateCodeFunc: func(ctx context.Context, uid uuid.UUID) (*domain.FriendCode, error) {
			return &domain.FriendCode{Code: "ABCDEFGH", ExpiresAt: time.Now().Add(48 * time.Hour)}, nil
		},
	}
	handler := NewFriendHandler(mockService)
	router := setupTestRouter()
	router.Use(asUser(uuid.New()))
	router.GET("/friends/code", handler.GetCode)
	router.POST("/friends/code", handler.GenerateCode)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/friends/code", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/friends/code", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"ABCDEFGH"`)
}
