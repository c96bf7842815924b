package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

// CORS allows the storefront origins to call the API. Preflight requests
// are answered here and never reach the handlers.
func CORS(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		// Browsers send Access-Control-Request-Headers lowercased.
		AllowedHeaders: []string{"content-type", "accept", strings.ToLower(RequestIDHeader)},
		ExposedHeaders: []string{RequestIDHeader, "Location"},
		MaxAge:         600,
	})
	return func(ctx *gin.Context) {
		passed := false
		c.Handler(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			passed = true
			ctx.Request = r
		})).ServeHTTP(ctx.Writer, ctx.Request)
		if !passed {
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}
