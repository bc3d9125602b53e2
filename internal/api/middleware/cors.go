package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORSConfig represents CORS configuration
type CORSConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposeHeaders    []string
	AllowCredentials bool
	MaxAge           int
	// PreflightBody, when set, answers OPTIONS with 200 and this text
	// instead of 204.
	PreflightBody string
}

// DefaultCORSConfig returns the configuration of the REST API.
func DefaultCORSConfig(origins []string) CORSConfig {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Request-ID",
			"X-User-ID",
		},
		ExposeHeaders: []string{
			"X-Request-ID",
			"X-Total-Count",
			"Content-Disposition",
		},
		AllowCredentials: false,
		MaxAge:           3600,
	}
}

// ProxyCORSConfig returns the permissive headers the transcription proxy
// sends on every response, errors included.
func ProxyCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"POST", "OPTIONS"},
		AllowHeaders:  []string{"authorization", "x-client-info", "apikey", "content-type"},
		PreflightBody: "ok",
	}
}

// CORS returns a CORS middleware with the given configuration
func CORS(config CORSConfig) gin.HandlerFunc {
	methods := strings.Join(config.AllowMethods, ", ")
	headers := strings.Join(config.AllowHeaders, ", ")
	expose := strings.Join(config.ExposeHeaders, ", ")
	wildcard := slices.Contains(config.AllowOrigins, "*")

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if wildcard {
			c.Header("Access-Control-Allow-Origin", "*")
		} else if origin != "" && slices.Contains(config.AllowOrigins, origin) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}

		if methods != "" {
			c.Header("Access-Control-Allow-Methods", methods)
		}
		if headers != "" {
			c.Header("Access-Control-Allow-Headers", headers)
		}
		if expose != "" {
			c.Header("Access-Control-Expose-Headers", expose)
		}
		if config.AllowCredentials {
			c.Header("Access-Control-Allow-Credentials", "true")
		}
		if config.MaxAge > 0 {
			c.Header("Access-Control-Max-Age", strconv.Itoa(config.MaxAge))
		}

		// Handle preflight requests
		if c.Request.Method == http.MethodOptions {
			if config.PreflightBody != "" {
				c.String(http.StatusOK, config.PreflightBody)
				c.Abort()
				return
			}
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// CORSByPath applies the first config whose prefix matches the request
// path and fallback otherwise. It is installed on the engine so preflight
// requests reach it even though no OPTIONS route exists.
func CORSByPath(fallback CORSConfig, byPrefix map[string]CORSConfig) gin.HandlerFunc {
	def := CORS(fallback)
	prefixes := make([]string, 0, len(byPrefix))
	handlers := make(map[string]gin.HandlerFunc, len(byPrefix))
	for prefix, cfg := range byPrefix {
		prefixes = append(prefixes, prefix)
		handlers[prefix] = CORS(cfg)
	}
	// Longest prefix wins.
	slices.SortFunc(prefixes, func(a, b string) int { return len(b) - len(a) })

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, prefix := range prefixes {
			if strings.HasPrefix(path, prefix) {
				handlers[prefix](c)
				return
			}
		}
		def(c)
	}
}
