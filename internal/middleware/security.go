package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kexportlab/tradematch-api/pkg/config"
)

// SecurityHeadersMiddleware adds security headers to all responses
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		// API-only CSP: nothing renders, nothing loads
		csp := "default-src 'none'; " +
			"connect-src 'self'; " +
			"frame-src 'none'; " +
			"base-uri 'none'; " +
			"form-action 'none'"
		c.Header("Content-Security-Policy", csp)

		// Match results and compliance verdicts must never be cached
		c.Header("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")

		c.Header("Server", "")

		c.Next()
	}
}

// CORSMiddleware handles Cross-Origin Resource Sharing with environment-based configuration
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		var allowedOrigins []string
		if cfg.IsDevelopment() {
			allowedOrigins = []string{
				"http://localhost:3000",
				"http://localhost:8080",
				"http://127.0.0.1:3000",
				"http://127.0.0.1:8080",
			}
		} else {
			allowedOrigins = cfg.GetAllowedOrigins()
		}

		for _, allowed := range allowedOrigins {
			if origin == allowed {
				c.Header("Access-Control-Allow-Origin", origin)
				break
			}
		}

		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Requested-With")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// InputValidationMiddleware rejects malformed or oversized requests before
// they reach a handler.
func InputValidationMiddleware(maxRequestSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestSize)

		if c.Request.Method == "POST" || c.Request.Method == "PUT" {
			contentType := c.GetHeader("Content-Type")
			if contentType == "" {
				c.JSON(http.StatusBadRequest, gin.H{
					"error": "Content-Type header is required",
				})
				c.Abort()
				return
			}

			allowedTypes := []string{
				"application/json",
				"text/csv",
				"multipart/form-data",
			}

			isValidType := false
			for _, allowedType := range allowedTypes {
				if strings.HasPrefix(contentType, allowedType) {
					isValidType = true
					break
				}
			}

			if !isValidType {
				c.JSON(http.StatusUnsupportedMediaType, gin.H{
					"error":         "Unsupported content type",
					"allowed_types": allowedTypes,
				})
				c.Abort()
				return
			}
		}

		c.Next()
	}
}

// RateLimitingMiddleware provides basic per-IP rate limiting
func RateLimitingMiddleware() gin.HandlerFunc {
	// In-memory sliding window; fine for a single instance. Gin runs
	// handlers concurrently, so the window map needs the mutex.
	var mu sync.Mutex
	clients := make(map[string][]time.Time)

	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		now := time.Now()

		mu.Lock()
		if timestamps, exists := clients[clientIP]; exists {
			var valid []time.Time
			for _, ts := range timestamps {
				if now.Sub(ts) <= time.Minute {
					valid = append(valid, ts)
				}
			}
			clients[clientIP] = valid
		}

		// 100 requests per minute per IP
		if len(clients[clientIP]) >= 100 {
			mu.Unlock()
			c.Header("Retry-After", "60")
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": "60",
			})
			c.Abort()
			return
		}

		clients[clientIP] = append(clients[clientIP], now)
		mu.Unlock()

		c.Next()
	}
}

// LoggingMiddleware logs every request with latency and status
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		clientIP := c.ClientIP()
		method := c.Request.Method
		statusCode := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		fmt.Printf("[REQ] %v | %3d | %13v | %15s | %-7s %s\n",
			start.Format("2006/01/02 - 15:04:05"),
			statusCode,
			latency,
			clientIP,
			method,
			path,
		)
	}
}
