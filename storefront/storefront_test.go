package storefront

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Cloud-Net-Park/Gravel/config"
	"github.com/Cloud-Net-Park/Gravel/initializers"
	"github.com/Cloud-Net-Park/Gravel/models"
	"github.com/Cloud-Net-Park/Gravel/realtime"
	"github.com/Cloud-Net-Park/Gravel/routes"
	"github.com/Cloud-Net-Park/Gravel/store"
	"github.com/Cloud-Net-Park/Gravel/utils"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func startBackend(t *testing.T) (*config.Config, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, initializers.Migrate(db))
	require.NoError(t, initializers.SeedProducts(db))

	cfg := &config.Config{
		APIKey:           "e2e-key",
		CORSAllowOrigins: []string{"*"},
		CORSAllowMethods: []string{"GET", "POST", "PATCH", "DELETE"},
		CORSAllowHeaders: []string{"Content-Type", "Authorization", "apikey"},
		SessionDir:       t.TempDir(),
		PollInterval:     time.Hour,
	}

	ctx, cancel := context.WithCancel(context.Background())
	hub := realtime.NewHub()
	go hub.Run(ctx)

	srv := httptest.NewServer(routes.SetupRouter(db, hub, utils.NewJWTManager("secret", time.Hour), cfg))
	t.Cleanup(func() {
		srv.Close()
		cancel()
		sqlDB.Close()
	})
	cfg.BackendURL = srv.URL
	return cfg, db
}

func openStore(t *testing.T, cfg *config.Config) *store.Store {
	t.Helper()
	s := Open(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)),
		store.WithScheduler(store.Immediate{}))
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStorefrontEndToEnd(t *testing.T) {
	cfg, _ := startBackend(t)
	s := openStore(t, cfg)
	ctx := context.Background()

	require.Len(t, s.Products(), 4)
	assert.True(t, s.BackendReachable())
	assert.Equal(t, "Oxford Shirt", s.Products()[0].Name, "newest first")

	require.True(t, s.Register(ctx, "Ada", "ada@example.com", "secret1"))
	user := s.CurrentUser()
	require.NotNil(t, user)
	assert.Equal(t, "Ada", user.Name)

	shirt := s.Products()[0]
	s.AddToCart(shirt, "M", 1)
	s.AddToCart(shirt, "M", 1)
	order, err := s.CreateOrder()
	require.NoError(t, err)
	assert.Equal(t, "ORD-001", order.ID)
	assert.Equal(t, shirt.Price*2, order.Total)

	added, err := s.AddProduct(ctx, models.ProductInput{Name: "Linen Trousers", Price: 3999, Fabric: "Linen"})
	require.NoError(t, err)
	assert.Len(t, s.Products(), 5)

	price := 2999.0
	require.NoError(t, s.UpdateProduct(ctx, added.ID, models.ProductPatch{Price: &price}))
	p, ok := s.Product(added.ID)
	require.True(t, ok)
	assert.Equal(t, 2999.0, p.Price)

	s.DeleteProduct(ctx, added.ID)
	_, ok = s.Product(added.ID)
	assert.False(t, ok)
	assert.Len(t, s.Products(), 4)

	require.NoError(t, s.AddFitProfile(ctx, models.FitProfileInput{
		UserID: user.ID, Height: "170", Weight: "60", Chest: "90", Waist: "70",
		PreferredFit: models.FitRegular, PreferredSize: "M",
	}))
	profile, ok := s.FitProfileFor(user.ID)
	require.True(t, ok)
	assert.Equal(t, "ada@example.com", profile.UserEmail)

	s.DeleteAllProducts(ctx)
	assert.Empty(t, s.Products())

	s.Logout(ctx)
	assert.Nil(t, s.CurrentUser())
	require.True(t, s.Login(ctx, "ada@example.com", "secret1"))
}

func TestSessionSurvivesRestart(t *testing.T) {
	cfg, _ := startBackend(t)
	ctx := context.Background()

	first := openStore(t, cfg)
	require.True(t, first.Register(ctx, "Grace", "grace@example.com", "secret1"))
	require.NoError(t, first.Close())

	second := openStore(t, cfg)
	user := second.CurrentUser()
	require.NotNil(t, user)
	assert.Equal(t, "Grace", user.Name)
}

func TestRealtimeFeedRefreshesProducts(t *testing.T) {
	cfg, db := startBackend(t)
	s := openStore(t, cfg)
	require.Len(t, s.Products(), 4)

	// a second client adds a product; the change feed brings it in
	other := openStore(t, cfg)
	_, err := other.AddProduct(context.Background(), models.ProductInput{Name: "Wool Scarf", Price: 1500})
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return len(s.Products()) == 5 }, 2*time.Second, 10*time.Millisecond)

	var count int64
	require.NoError(t, db.Model(&models.Product{}).Where("is_active = ?", true).Count(&count).Error)
	assert.Equal(t, int64(5), count)
}

func TestUnreachableBackendFailsClosed(t *testing.T) {
	cfg := &config.Config{
		BackendURL:   "http://127.0.0.1:1",
		APIKey:       "k",
		SessionDir:   t.TempDir(),
		PollInterval: time.Hour,
	}
	s := openStore(t, cfg)

	assert.Empty(t, s.Products())
	assert.False(t, s.BackendReachable())

	// the local fallback still registers and signs in
	require.True(t, s.Register(context.Background(), "Ada", "ada@example.com", "pw"))
	assert.True(t, s.Login(context.Background(), "ada@example.com", "pw"))
}
