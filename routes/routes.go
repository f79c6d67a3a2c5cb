package routes

import (
	"github.com/Cloud-Net-Park/Gravel/config"
	"github.com/Cloud-Net-Park/Gravel/handlers"
	"github.com/Cloud-Net-Park/Gravel/middleware"
	"github.com/Cloud-Net-Park/Gravel/realtime"
	"github.com/Cloud-Net-Park/Gravel/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter builds the backend service router
func SetupRouter(db *gorm.DB, hub *realtime.Hub, jwt *utils.JWTManager, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware(cfg.CORSAllowOrigins, cfg.CORSAllowMethods, cfg.CORSAllowHeaders))

	r.GET("/health-check", handlers.CheckConnection(db))

	AuthRoutes(r, handlers.NewAuthHandler(db, jwt, hub), jwt)

	rest := r.Group("/rest")
	rest.Use(middleware.APIKeyRequired(cfg.APIKey))
	ProductRoutes(rest, handlers.NewProductHandler(db, hub))
	UserRoutes(rest, handlers.NewUserHandler(db))
	FitProfileRoutes(rest, handlers.NewFitProfileHandler(db, hub))

	realtimeGroup := r.Group("/realtime")
	realtimeGroup.Use(middleware.APIKeyRequired(cfg.APIKey))
	realtimeGroup.GET("/:table", handlers.NewRealtimeHandler(hub).Subscribe)

	return r
}

func AuthRoutes(r *gin.Engine, h *handlers.AuthHandler, jwt *utils.JWTManager) {
	auth := r.Group("/auth")
	auth.POST("/signup", h.SignUp)
	auth.POST("/signin", h.SignIn)

	// Protected routes (authentication required)
	protected := auth.Group("/")
	protected.Use(middleware.AuthMiddleware(jwt))
	{
		protected.GET("/user", h.GetUser)
		protected.POST("/signout", h.SignOut)
	}
}

func ProductRoutes(rg *gin.RouterGroup, h *handlers.ProductHandler) {
	rg.GET("/products", h.GetAllProducts)
	rg.POST("/products", h.CreateProduct)
	rg.PATCH("/products/:id", h.UpdateProduct)
	rg.DELETE("/products/:id", h.DeleteProduct)
	rg.DELETE("/products", h.DeleteAllProducts)
}

func UserRoutes(rg *gin.RouterGroup, h *handlers.UserHandler) {
	rg.GET("/users", h.GetAllUsers)
}

func FitProfileRoutes(rg *gin.RouterGroup, h *handlers.FitProfileHandler) {
	rg.GET("/fit-profiles", h.GetFitProfiles)
	rg.POST("/fit-profiles", h.UpsertFitProfile)
	rg.PATCH("/fit-profiles/:userID", h.UpdateFitProfile)
	rg.DELETE("/fit-profiles/:userID", h.DeleteFitProfile)
}
