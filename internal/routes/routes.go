package routes

import (
	"net/http"
	"time"

	"github.com/01moynul/valuefurniture-golang/internal/handlers"
	"github.com/01moynul/valuefurniture-golang/internal/middleware"
	"github.com/01moynul/valuefurniture-golang/internal/models"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// SessionName is the cookie carrying the cart id, checkout state and flashes.
const SessionName = "vf_session"

// Options are the router settings that come from configuration.
type Options struct {
	CORSOrigins   []string
	SessionSecret string
	SecureCookie  bool
}

func corsConfig(origins []string) cors.Config {
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

func SetupRouter(h *handlers.Handlers, opts Options) *gin.Engine {
	router := gin.Default()

	// --- CORS first, then the session cookie ---
	router.Use(cors.New(corsConfig(opts.CORSOrigins)))

	store := cookie.NewStore([]byte(opts.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int((14 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		Secure:   opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions(SessionName, store))

	// Product pictures
	router.Static("/uploads", h.UploadDir)

	requireAuth := middleware.RequireAuth(h.Tokens, h.DB)

	v1 := router.Group("/v1")
	v1.Use(middleware.OptionalAuth(h.Tokens, h.DB))
	{
		// --- Ping Route (Public) ---
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong!"})
		})

		// --- Auth Routes (Public) ---
		v1.POST("/register", h.Register)
		v1.POST("/login", h.Login)

		// --- Catalog Routes (Public) ---
		v1.GET("/products", h.ListProducts)
		v1.GET("/products/popular", h.PopularProducts)
		v1.GET("/products/available", h.AvailableProducts)
		v1.GET("/products/:id", h.GetProduct)
		v1.GET("/categories", h.GetCategoryMenu)
		v1.GET("/categories/:name/products", h.BrowseCategory)

		// --- Cart Routes (anonymous or signed in) ---
		v1.GET("/cart", h.GetCart)
		v1.GET("/cart/summary", h.CartSummary)
		v1.POST("/cart/items/:product_id", h.AddToCart)
		v1.DELETE("/cart/items/:product_id", h.RemoveFromCart)

		// --- Protected Routes (Login Required) ---
		auth := v1.Group("/")
		auth.Use(requireAuth)
		{
			auth.GET("/me", h.Me)

			// --- Notification Routes ---
			auth.GET("/notifications", h.GetMyNotifications)
			auth.PATCH("/notifications/:id/read", h.MarkNotificationAsRead)

			// --- Checkout ---
			co := auth.Group("/checkout")
			{
				co.GET("/address", h.GetAddress)
				co.POST("/address", h.SubmitAddress)
				co.GET("/token", h.ClientToken)
				co.POST("/payment", h.SubmitPayment)
				co.GET("/transactions/:id", h.GetTransaction)
				co.GET("/complete/:id", h.CompleteOrder)
			}

			// --- Orders ---
			auth.GET("/orders/mine", middleware.RequireRole(models.RoleUser), h.MyOrders)
			orders := auth.Group("/orders")
			orders.Use(middleware.RequireRole(models.RoleUser, models.RoleAdministrator))
			{
				orders.GET("/:id", h.GetOrder)
				orders.GET("/:id/cancel", h.CancelCheck)
				orders.POST("/:id/cancel", h.CancelOrder)
			}
		}

		// --- Administrator-Only Routes ---
		admin := v1.Group("/admin")
		admin.Use(requireAuth)
		admin.Use(middleware.RequireRole(models.RoleAdministrator))
		{
			admin.GET("/dashboard-stats", h.GetDashboardStats)

			admin.GET("/users", h.AdminListUsers)
			admin.PATCH("/users/:id/role", h.SetUserRole)

			admin.GET("/categories/:id", h.GetCategory)
			admin.POST("/categories", h.CreateCategory)
			admin.PUT("/categories/:id", h.UpdateCategory)
			admin.DELETE("/categories/:id", h.DeleteCategory)

			admin.GET("/products", h.AdminListProducts)
			admin.POST("/products", h.CreateProduct)
			admin.PUT("/products/:id", h.UpdateProduct)
			admin.DELETE("/products/:id", h.DeleteProduct)
			admin.POST("/products/:id/picture", h.UploadProductPicture)
			admin.GET("/products/export/:format", h.ExportProducts)
			admin.POST("/products/import/xlsx", h.ImportProducts)

			admin.GET("/orders", h.AdminListOrders)
			admin.GET("/orders/:id", h.GetOrder)
			admin.POST("/orders", h.AdminCreateOrder)
			admin.PUT("/orders/:id", h.AdminUpdateOrder)
			admin.DELETE("/orders/:id", h.AdminDeleteOrder)
			admin.GET("/orders/export/:format", h.ExportOrders)
		}
	}

	return router
}
