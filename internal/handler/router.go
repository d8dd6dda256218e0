package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"checkout-service/internal/handler/api"
	"checkout-service/internal/handler/middleware"
	"checkout-service/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	transactionHandler *api.TransactionHandler,
	sagaHandler *api.SagaHandler,
	inventoryHandler *api.InventoryHandler,
	eventHandler *api.EventHandler,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, transactionHandler, sagaHandler, inventoryHandler, eventHandler)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	transactionHandler *api.TransactionHandler,
	sagaHandler *api.SagaHandler,
	inventoryHandler *api.InventoryHandler,
	eventHandler *api.EventHandler,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		transactions := apiGroup.Group("/transactions")
		{
			addRoutes(transactions, []route{
				{Method: http.MethodPost, Path: "", Handler: transactionHandler.CreateTransaction},
				{Method: http.MethodGet, Path: "", Handler: transactionHandler.GetAllTransactions},
				{Method: http.MethodGet, Path: "/:id", Handler: transactionHandler.GetTransaction},
			})
		}

		saga := apiGroup.Group("/saga")
		{
			addRoutes(saga, []route{
				{Method: http.MethodPost, Path: "/validate", Handler: sagaHandler.Validate},
				{Method: http.MethodPost, Path: "/process-payment", Handler: sagaHandler.ProcessPayment},
				{Method: http.MethodPost, Path: "/payment-status", Handler: sagaHandler.CheckPaymentStatus},
				{Method: http.MethodPost, Path: "/update-inventory", Handler: sagaHandler.UpdateInventory},
				{Method: http.MethodPost, Path: "/compensate", Handler: sagaHandler.Compensate},
			})
		}

		addRoutes(apiGroup, []route{
			{Method: http.MethodGet, Path: "/inventory", Handler: inventoryHandler.GetAllInventory},
			{Method: http.MethodGet, Path: "/events", Handler: eventHandler.GetEvents},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
