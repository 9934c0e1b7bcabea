package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pixelkeys/pixelkeys-backend/internal/auth"
	"github.com/pixelkeys/pixelkeys-backend/internal/cart"
	"github.com/pixelkeys/pixelkeys-backend/internal/catalog"
	"github.com/pixelkeys/pixelkeys-backend/internal/keys"
	"github.com/pixelkeys/pixelkeys-backend/internal/orders"
	"github.com/pixelkeys/pixelkeys-backend/internal/users"
	pkgAuth "github.com/pixelkeys/pixelkeys-backend/pkg/auth"
	"github.com/pixelkeys/pixelkeys-backend/pkg/auth/session"
	"github.com/pixelkeys/pixelkeys-backend/pkg/config"
	"github.com/pixelkeys/pixelkeys-backend/pkg/enums"
	"github.com/pixelkeys/pixelkeys-backend/pkg/logger"
	"github.com/pixelkeys/pixelkeys-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, email, password string) (*auth.LoginResult, error) {
	return &auth.LoginResult{Token: "token"}, nil
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error {
	return nil
}

type stubUsersService struct{}

func (stubUsersService) Register(ctx context.Context, input users.RegisterInput) (*users.UserDTO, error) {
	return &users.UserDTO{Email: input.Email}, nil
}

func (stubUsersService) UpdateProfile(ctx context.Context, userID uint, input users.UpdateProfileInput) (*users.UserDTO, error) {
	return &users.UserDTO{ID: userID}, nil
}

func (stubUsersService) GetUser(ctx context.Context, id uint) (*users.UserDTO, error) {
	return &users.UserDTO{ID: id}, nil
}

func (stubUsersService) ListUsers(ctx context.Context, params pagination.Params) (*users.UserListDTO, error) {
	return &users.UserListDTO{}, nil
}

func (stubUsersService) UpdateStatus(ctx context.Context, id uint, status enums.UserStatus) (*users.UserDTO, error) {
	return &users.UserDTO{ID: id}, nil
}

type stubCatalogService struct{}

func (stubCatalogService) ListActive(ctx context.Context, filters catalog.Filters) (*catalog.GameListDTO, error) {
	return &catalog.GameListDTO{}, nil
}

func (stubCatalogService) GetGame(ctx context.Context, id uint) (*catalog.GameDTO, error) {
	return &catalog.GameDTO{ID: id}, nil
}

func (stubCatalogService) ListAll(ctx context.Context) ([]catalog.GameDTO, error) {
	return nil, nil
}

func (stubCatalogService) CreateGame(ctx context.Context, input catalog.CreateGameInput) (*catalog.GameDTO, error) {
	return &catalog.GameDTO{Title: input.Title}, nil
}

func (stubCatalogService) UpdateGame(ctx context.Context, id uint, input catalog.UpdateGameInput) (*catalog.GameDTO, error) {
	return &catalog.GameDTO{ID: id}, nil
}

func (stubCatalogService) DeleteGame(ctx context.Context, id uint) error {
	return nil
}

func (stubCatalogService) UpdateStatus(ctx context.Context, id uint, status enums.GameStatus) (*catalog.GameDTO, error) {
	return &catalog.GameDTO{ID: id}, nil
}

type stubCartService struct{}

func (stubCartService) Get(ctx context.Context, userID uint) (*cart.CartDTO, error) {
	return &cart.CartDTO{}, nil
}

func (stubCartService) AddItem(ctx context.Context, userID, gameID uint, quantity int) (*cart.CartDTO, error) {
	return &cart.CartDTO{}, nil
}

func (stubCartService) UpdateQuantity(ctx context.Context, userID, gameID uint, quantity int) (*cart.CartDTO, error) {
	return &cart.CartDTO{}, nil
}

func (stubCartService) RemoveItem(ctx context.Context, userID, gameID uint) (*cart.CartDTO, error) {
	return &cart.CartDTO{}, nil
}

func (stubCartService) Clear(ctx context.Context, userID uint) error {
	return nil
}

func (stubCartService) Lines(ctx context.Context, userID uint) ([]cart.Line, error) {
	return nil, nil
}

type stubOrdersService struct{}

func (stubOrdersService) Checkout(ctx context.Context, userID uint) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{UserID: userID}, nil
}

func (stubOrdersService) GetOrderForUser(ctx context.Context, userID, orderID uint) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{ID: orderID, UserID: userID}, nil
}

func (stubOrdersService) ListForUser(ctx context.Context, userID uint) ([]orders.OrderDTO, error) {
	return nil, nil
}

func (stubOrdersService) ListAll(ctx context.Context, params pagination.Params) (*orders.OrderListDTO, error) {
	return &orders.OrderListDTO{}, nil
}

func (stubOrdersService) UpdateStatus(ctx context.Context, orderID uint, status enums.OrderStatus) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{ID: orderID, Status: int(status)}, nil
}

type stubKeysService struct{}

func (stubKeysService) ListKeys(ctx context.Context) ([]keys.KeyDTO, error) {
	return nil, nil
}

func (stubKeysService) CreateKeys(ctx context.Context, input keys.CreateKeysInput) ([]keys.KeyDTO, error) {
	return nil, nil
}

func (stubKeysService) DeleteKey(ctx context.Context, id uint) error {
	return nil
}

type stubPaymentsService struct{}

func (stubPaymentsService) ProcessWebhook(ctx context.Context, paymentID int) error {
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		nil,
		stubSessionChecker{},
		nil,
		nil,
		Services{
			Auth:     stubAuthService{},
			Users:    stubUsersService{},
			Catalog:  stubCatalogService{},
			Cart:     stubCartService{},
			Orders:   stubOrdersService{},
			Keys:     stubKeysService{},
			Payments: stubPaymentsService{},
		},
	)
}

func buildToken(t *testing.T, cfg *config.Config, userID uint, isAdmin bool) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:  userID,
		IsAdmin: isAdmin,
		JTI:     session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestCatalogBrowsingIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	for _, path := range []string{
		"/api/v1/games/showActivityGames",
		"/api/v1/games/showGamesById/1",
		"/api/v1/payments/callback?status=approved",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

func TestCartRequiresAuth(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}

	authed := httptest.NewRequest(http.MethodGet, "/api/v1/cart/", nil)
	authed.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, 7, false))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, authed)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with token got %d", resp.Code)
	}
}

func TestAdminRoutesRequireAdminFlag(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	buyer := httptest.NewRequest(http.MethodGet, "/api/v1/games/showGames", nil)
	buyer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, 7, false))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, buyer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/v1/games/showGames", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, 7, true))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestOrderHistoryRequiresAuth(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/user", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}

	authed := httptest.NewRequest(http.MethodGet, "/api/v1/orders/user", nil)
	authed.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, 7, false))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, authed)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with token got %d", resp.Code)
	}
}

func TestWebhookAcknowledgesNonPaymentTopics(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook?topic=merchant_order&id=123", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
