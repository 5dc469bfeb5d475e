package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"kanban-chat-api/internal/auth"
	"kanban-chat-api/internal/database"
	"kanban-chat-api/internal/domain"
	"kanban-chat-api/internal/dto"
	"kanban-chat-api/internal/hub"
	"kanban-chat-api/internal/metrics"
	"kanban-chat-api/internal/repository"
	"kanban-chat-api/internal/storage"
)

type testApp struct {
	engine *gin.Engine
	store  *repository.Store
	hub    *hub.Hub
}

// setupTestRouter creates a router over sqlite and a temp blob root
func setupTestRouter(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))

	blobs, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	logger := zap.NewNop()
	m := metrics.NewWithRegistry(prometheus.NewRegistry(), logger)
	store := repository.NewStore(db)
	services := NewServices(store, blobs, auth.NewTokenManager("test-secret", time.Hour), true, m, logger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	persister := hub.NewPersister(services.Conversations, 16, m, logger)
	go persister.Run(ctx)
	h := hub.New(services.Auth, services.Conversations, persister, hub.Options{}, m, logger)

	engine := Setup(Config{
		Store:          store,
		Services:       services,
		Hub:            h,
		Metrics:        m,
		Logger:         logger,
		AllowedOrigins: []string{"*"},
		CookieTTL:      time.Hour,
		EnableSwagger:  true,
	})
	return &testApp{engine: engine, store: store, hub: h}
}

func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

type account struct {
	user  domain.PubUser
	token string
}

func (a *testApp) register(t *testing.T, name string) account {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/register", "", dto.RegisterRequest{
		Username: name,
		Email:    name + "@example.com",
		Password: "password-" + name,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var acc account
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &acc.user))
	for _, c := range w.Result().Cookies() {
		if c.Name == "token" {
			acc.token = c.Value
		}
	}
	require.NotEmpty(t, acc.token)
	return acc
}

func (a *testApp) befriend(t *testing.T, x, y account) {
	t.Helper()
	w := a.do(t, http.MethodPost, "/friends/code", x.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var code domain.FriendCode
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &code))

	w = a.do(t, http.MethodPost, "/friends/redeem", y.token, dto.RedeemFriendCodeRequest{Code: strings.ToLower(code.Code)})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestMetricsEndpoint_NoAuthentication(t *testing.T) {
	app := setupTestRouter(t)

	w := app.do(t, http.MethodGet, "/metrics", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, w.Body.String(), "# HELP")
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestHealthEndpoint(t *testing.T) {
	app := setupTestRouter(t)

	w := app.do(t, http.MethodGet, "/health", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["database"])
	assert.EqualValues(t, 0, body["ws_connections"])
}

func TestSwaggerEndpoint(t *testing.T) {
	app := setupTestRouter(t)

	w := app.do(t, http.MethodGet, "/swagger/doc.json", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/boards")
}

func TestProtectedRoutesRequireCredentials(t *testing.T) {
	app := setupTestRouter(t)

	for _, path := range []string{"/api/user", "/boards", "/friends/list", "/conversation/" + uuid.NewString() + "/" + uuid.NewString()} {
		method := http.MethodGet
		if strings.HasPrefix(path, "/conversation") {
			method = http.MethodPost
		}
		w := app.do(t, method, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	w := app.do(t, http.MethodGet, "/boards", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "InvalidToken")
}

func TestBoardAccessIsLimitedToMembers(t *testing.T) {
	app := setupTestRouter(t)
	owner := app.register(t, "owner")
	stranger := app.register(t, "stranger")

	w := app.do(t, http.MethodPost, "/boards", owner.token, dto.CreateBoardRequest{Name: "Sprint"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created dto.IDResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	boardPath := "/boards/" + created.ID.String()

	w = app.do(t, http.MethodGet, boardPath, owner.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var info domain.BoardInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "Sprint", info.Name)

	w = app.do(t, http.MethodGet, boardPath, stranger.token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = app.do(t, http.MethodGet, boardPath+"/columns/"+uuid.NewString()+"/cards", stranger.token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	cardPath := boardPath + "/columns/" + uuid.NewString() + "/cards/" + uuid.NewString()
	w = app.do(t, http.MethodGet, cardPath, stranger.token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = app.do(t, http.MethodGet, cardPath, owner.token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NotFound")
}

func TestConversationIsSharedByBothOrders(t *testing.T) {
	app := setupTestRouter(t)
	alice := app.register(t, "alice")
	bob := app.register(t, "bob")
	app.befriend(t, alice, bob)

	w := app.do(t, http.MethodPost, "/conversation/"+alice.user.ID.String()+"/"+bob.user.ID.String(), alice.token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var first dto.ConversationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))

	w = app.do(t, http.MethodPost, "/conversation/"+bob.user.ID.String()+"/"+alice.user.ID.String(), bob.token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var second dto.ConversationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))

	assert.Equal(t, first.Conversation.ID, second.Conversation.ID)
}

func TestChatOverWebSocket(t *testing.T) {
	app := setupTestRouter(t)
	alice := app.register(t, "alice")
	bob := app.register(t, "bob")
	app.befriend(t, alice, bob)

	w := app.do(t, http.MethodPost, "/conversation/"+alice.user.ID.String()+"/"+bob.user.ID.String(), alice.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var conv dto.ConversationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &conv))
	convID := conv.Conversation.ID

	server := httptest.NewServer(app.engine)
	t.Cleanup(server.Close)
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/chat_source/events"

	dial := func(token string) *websocket.Conn {
		conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
		require.NoError(t, err)
		t.Cleanup(func() { conn.Close() })
		require.NoError(t, conn.WriteJSON(hub.Handshake{Token: token, ConversationID: convID.String()}))
		return conn
	}
	a := dial(alice.token)
	b := dial(bob.token)
	require.Eventually(t, func() bool { return len(app.hub.Members(convID)) == 2 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, a.WriteJSON(hub.ClientMessage{Content: "hello bob", ConversationID: convID.String()}))

	require.NoError(t, b.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got domain.ChatMessage
	require.NoError(t, b.ReadJSON(&got))
	assert.Equal(t, "hello bob", got.Content)
	assert.Equal(t, alice.user.ID, got.SenderID)

	require.Eventually(t, func() bool {
		w := app.do(t, http.MethodGet, "/chat_source/last_messages/"+convID.String(), bob.token, nil)
		if w.Code != http.StatusOK {
			return false
		}
		var msgs []domain.ChatMessage
		return json.Unmarshal(w.Body.Bytes(), &msgs) == nil && len(msgs) == 1
	}, 2*time.Second, 20*time.Millisecond)
}
