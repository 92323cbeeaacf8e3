package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fitfusion-users/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	userH *UserHandler,
	jwtSvc *service.JWTService,
	allowedOrigins []string,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery, CORS y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), corsMiddleware(allowedOrigins), jsonContentTypeMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	users := r.Group("/api/users")
	users.POST("/create", userH.CreateUser)
	users.POST("/login", userH.Login)

	protected := users.Group("", JWTAuthMiddleware(jwtSvc))
	protected.GET("/me", userH.Me)
	protected.PUT("/update", userH.UpdateMe)
	protected.DELETE("/delete", userH.DeleteMe)
	protected.GET("/all", userH.ListUsers)
	protected.GET("/:id", userH.GetUserByID)
	protected.PUT("/:id", userH.UpdateUserByID)
	protected.DELETE("/:id", userH.DeleteUserByID)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "route not found"})
	})

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}

// corsMiddleware setea headers CORS y responde OPTIONS con 200 para que el
// preflight nunca reciba 403. Sin lista configurada se permite cualquier
// origen, igual que el default permisivo de desarrollo.
func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := allowedOrigin(c.GetHeader("Origin"), allowedOrigins)
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Max-Age", "300")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}

// allowedOrigin devuelve el Origin del request si está en la lista permitida
// (case-insensitive). Con lista vacía devuelve "*".
func allowedOrigin(origin string, allowed []string) string {
	origin = strings.TrimSpace(origin)
	if len(allowed) == 0 {
		return "*"
	}
	if origin == "" {
		return ""
	}
	originLower := strings.ToLower(origin)
	for _, a := range allowed {
		if strings.TrimSpace(strings.ToLower(a)) == originLower {
			return origin
		}
	}
	return ""
}
