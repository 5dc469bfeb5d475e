package handler

import (
	"context"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"kanban-chat-api/internal/domain"
	"kanban-chat-api/internal/dto"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// asUser stands in for the auth middleware
func asUser(id uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextUserID, id)
		c.Next()
	}
}

// MockBoardService is a mock implementation of BoardService
type MockBoardService struct {
	CreateBoardFunc func(ctx context.Context, userID uuid.UUID, req *dto.CreateBoardRequest) (uuid.UUID, error)
	ListBoardsFunc  func(ctx context.Context, userID uuid.UUID) ([]domain.PubBoard, error)
	GetBoardFunc    func(ctx context.Context, userID, boardID uuid.UUID) (*domain.BoardInfo, error)
	UpdateBoardFunc func(ctx context.Context, userID, boardID uuid.UUID, req *dto.UpdateBoardRequest) (uuid.UUID, error)
	DeleteBoardFunc func(ctx context.Context, userID, boardID uuid.UUID) (uuid.UUID, error)
}

func (m *MockBoardService) CreateBoard(ctx context.Context, userID uuid.UUID, req *dto.CreateBoardRequest) (uuid.UUID, error) {
	if m.CreateBoardFunc != nil {
		return m.CreateBoardFunc(ctx, userID, req)
	}
	return uuid.Nil, nil
}

func (m *MockBoardService) ListBoards(ctx context.Context, userID uuid.UUID) ([]domain.PubBoard, error) {
	if m.ListBoardsFunc != nil {
		return m.ListBoardsFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockBoardService) GetBoard(ctx context.Context, userID, boardID uuid.UUID) (*domain.BoardInfo, error) {
	if m.GetBoardFunc != nil {
		return m.GetBoardFunc(ctx, userID, boardID)
	}
	return nil, nil
}

func (m *MockBoardService) UpdateBoard(ctx context.Context, userID, boardID uuid.UUID, req *dto.UpdateBoardRequest) (uuid.UUID, error) {
	if m.UpdateBoardFunc != nil {
		return m.UpdateBoardFunc(ctx, userID, boardID, req)
	}
	return uuid.Nil, nil
}

func (m *MockBoardService) DeleteBoard(ctx context.Context, userID, boardID uuid.UUID) (uuid.UUID, error) {
	if m.DeleteBoardFunc != nil {
		return m.DeleteBoardFunc(ctx, userID, boardID)
	}
	return uuid.Nil, nil
}

// MockCardService is a mock implementation of CardService
type MockCardService struct {
	CreateCardFunc    func(ctx context.Context, userID, boardID, columnID uuid.UUID, req *dto.CreateCardRequest) (*domain.PubCard, error)
	ListCardsFunc     func(ctx context.Context, userID, boardID, columnID uuid.UUID) ([]domain.PubCard, error)
	GetCardFunc       func(ctx context.Context, userID, boardID, cardID uuid.UUID) (*domain.PubCard, error)
	GetColumnCardFunc func(ctx context.Context, userID, boardID, columnID, cardID uuid.UUID) (*domain.PubCard, error)
	UpdateCardFunc    func(ctx context.Context, userID, boardID, columnID, cardID uuid.UUID, req *dto.UpdateCardRequest) (*domain.PubCard, error)
	ReorderCardFunc   func(ctx context.Context, userID, boardID, cardID, fromColumn, toColumn uuid.UUID, toPos int) (*domain.PubCard, error)
	DeleteCardFunc    func(ctx context.Context, userID, boardID, columnID, cardID uuid.UUID) (uuid.UUID, error)
}

func (m *MockCardService) CreateCard(ctx context.Context, userID, boardID, columnID uuid.UUID, req *dto.CreateCardRequest) (*domain.PubCard, error) {
	if m.CreateCardFunc != nil {
		return m.CreateCardFunc(ctx, userID, boardID, columnID, req)
	}
	return nil, nil
}

func (m *MockCardService) ListCards(ctx context.Context, userID, boardID, columnID uuid.UUID) ([]domain.PubCard, error) {
	if m.ListCardsFunc != nil {
		return m.ListCardsFunc(ctx, userID, boardID, columnID)
	}
	return nil, nil
}

func (m *MockCardService) GetCard(ctx context.Context, userID, boardID, cardID uuid.UUID) (*domain.PubCard, error) {
	if m.GetCardFunc != nil {
		return m.GetCardFunc(ctx, userID, boardID, cardID)
	}
	return nil, nil
}

func (m *MockCardService) GetColumnCard(ctx context.Context, userID, boardID, columnID, cardID uuid.UUID) (*domain.PubCard, error) {
	if m.GetColumnCardFunc != nil {
		return m.GetColumnCardFunc(ctx, userID, boardID, columnID, cardID)
	}
	return nil, nil
}

func (m *MockCardService) UpdateCard(ctx context.Context, userID, boardID, columnID, cardID uuid.UUID, req *dto.UpdateCardRequest) (*domain.PubCard, error) {
	if m.UpdateCardFunc != nil {
		return m.UpdateCardFunc(ctx, userID, boardID, columnID, cardID, req)
	}
	return nil, nil
}

func (m *MockCardService) ReorderCard(ctx context.Context, userID, boardID, cardID, fromColumn, toColumn uuid.UUID, toPos int) (*domain.PubCard, error) {
	if m.ReorderCardFunc != nil {
		return m.ReorderCardFunc(ctx, userID, boardID, cardID, fromColumn, toColumn, toPos)
	}
	return nil, nil
}

func (m *MockCardService) DeleteCard(ctx context.Context, userID, boardID, columnID, cardID uuid.UUID) (uuid.UUID, error) {
	if m.DeleteCardFunc != nil {
		return m.DeleteCardFunc(ctx, userID, boardID, columnID, cardID)
	}
	return uuid.Nil, nil
}

// MockAuthService is a mock implementation of AuthService
type MockAuthService struct {
	RegisterFunc      func(ctx context.Context, req *dto.RegisterRequest) (*domain.PubUser, string, error)
	LoginFunc         func(ctx context.Context, req *dto.LoginRequest) (*domain.PubUser, string, error)
	VerifyFunc        func(ctx context.Context, token string) (*domain.User, error)
	GetUserFunc       func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetPublicUserFunc func(ctx context.Context, userID uuid.UUID) (*domain.PubUser, error)
	UpdateUserFunc    func(ctx context.Context, userID uuid.UUID, req *dto.UpdateUserRequest) (*domain.PubUser, string, error)
}

func (m *MockAuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*domain.PubUser, string, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, req)
	}
	return nil, "", nil
}

func (m *MockAuthService) Login(ctx context.Context, req *dto.LoginRequest) (*domain.PubUser, string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, req)
	}
	return nil, "", nil
}

func (m *MockAuthService) Verify(ctx context.Context, token string) (*domain.User, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, token)
	}
	return nil, nil
}

func (m *MockAuthService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockAuthService) GetPublicUser(ctx context.Context, userID uuid.UUID) (*domain.PubUser, error) {
	if m.GetPublicUserFunc != nil {
		return m.GetPublicUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockAuthService) UpdateUser(ctx context.Context, userID uuid.UUID, req *dto.UpdateUserRequest) (*domain.PubUser, string, error) {
	if m.UpdateUserFunc != nil {
		return m.UpdateUserFunc(ctx, userID, req)
	}
	return nil, "", nil
}

// MockFriendService is a mock implementation of FriendService
type MockFriendService struct {
	GenerateCodeFunc func(ctx context.Context, userID uuid.UUID) (*domain.FriendCode, error)
	GetCodeFunc      func(ctx context.Context, userID uuid.UUID) (*domain.FriendCode, error)
	RedeemFunc       func(ctx context.Context, userID uuid.UUID, code string) (*domain.PubUser, error)
	ListFriendsFunc  func(ctx context.Context, userID uuid.UUID) ([]domain.PubUser, error)
	AreFriendsFunc   func(ctx context.Context, a, b uuid.UUID) (bool, error)
}

func (m *MockFriendService) GenerateCode(ctx context.Context, userID uuid.UUID) (*domain.FriendCode, error) {
	if m.GenerateCodeFunc != nil {
		return m.GenerateCodeFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockFriendService) GetCode(ctx context.Context, userID uuid.UUID) (*domain.FriendCode, error) {
	if m.GetCodeFunc != nil {
		return m.GetCodeFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockFriendService) Redeem(ctx context.Context, userID uuid.UUID, code string) (*domain.PubUser, error) {
	if m.RedeemFunc != nil {
		return m.RedeemFunc(ctx, userID, code)
	}
	return nil, nil
}

func (m *MockFriendService) ListFriends(ctx context.Context, userID uuid.UUID) ([]domain.PubUser, error) {
	if m.ListFriendsFunc != nil {
		return m.ListFriendsFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockFriendService) AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error) {
	if m.AreFriendsFunc != nil {
		return m.AreFriendsFunc(ctx, a, b)
	}
	return false, nil
}

// MockFileService is a mock implementation of FileService
type MockFileService struct {
	UploadFunc func(ctx context.Context, ownerID uuid.UUID, filename, contentType string, private bool, body io.Reader) (*domain.File, error)
	OpenFunc   func(ctx context.Context, viewer *uuid.UUID, name string) (*domain.File, io.ReadCloser, error)
	DeleteFunc func(ctx context.Context, userID uuid.UUID, name string) (uuid.UUID, error)
	ListFunc   func(ctx context.Context, viewer *uuid.UUID) ([]*domain.File, error)
}

func (m *MockFileService) Upload(ctx context.Context, ownerID uuid.UUID, filename, contentType string, private bool, body io.Reader) (*domain.File, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, ownerID, filename, contentType, private, body)
	}
	return nil, nil
}

func (m *MockFileService) Open(ctx context.Context, viewer *uuid.UUID, name string) (*domain.File, io.ReadCloser, error) {
	if m.OpenFunc != nil {
		return m.OpenFunc(ctx, viewer, name)
	}
	return nil, nil, nil
}

func (m *MockFileService) Delete(ctx context.Context, userID uuid.UUID, name string) (uuid.UUID, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, name)
	}
	return uuid.Nil, nil
}

func (m *MockFileService) List(ctx context.Context, viewer *uuid.UUID) ([]*domain.File, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, viewer)
	}
	return nil, nil
}

// MockAttachmentService is a mock implementation of AttachmentService
type MockAttachmentService struct {
	AddAttachmentFunc    func(ctx context.Context, userID, boardID, cardID uuid.UUID, filename string, body io.Reader) ([]domain.PubAttachment, error)
	ListAttachmentsFunc  func(ctx context.Context, userID, boardID, cardID uuid.UUID) ([]domain.PubAttachment, error)
	RemoveAttachmentFunc func(ctx context.Context, userID, boardID, cardID, fileID uuid.UUID) ([]domain.PubAttachment, error)
}

func (m *MockAttachmentService) AddAttachment(ctx context.Context, userID, boardID, cardID uuid.UUID, filename string, body io.Reader) ([]domain.PubAttachment, error) {
	if m.AddAttachmentFunc != nil {
		return m.AddAttachmentFunc(ctx, userID, boardID, cardID, filename, body)
	}
	return nil, nil
}

func (m *MockAttachmentService) ListAttachments(ctx context.Context, userID, boardID, cardID uuid.UUID) ([]domain.PubAttachment, error) {
	if m.ListAttachmentsFunc != nil {
		return m.ListAttachmentsFunc(ctx, userID, boardID, cardID)
	}
	return nil, nil
}

func (m *MockAttachmentService) RemoveAttachment(ctx context.Context, userID, boardID, cardID, fileID uuid.UUID) ([]domain.PubAttachment, error) {
	if m.RemoveAttachmentFunc != nil {
		return m.RemoveAttachmentFunc(ctx, userID, boardID, cardID, fileID)
	}
	return nil, nil
}
