// Package httpapi serves the console's local API: the polled owner
// dashboard plus proxies to the sales, attendance and audit endpoints.
package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"bakeryconsole/backend/internal/apiclient"
	"bakeryconsole/backend/internal/apierror"
	"bakeryconsole/backend/internal/poller"
	"bakeryconsole/backend/internal/service"
	"bakeryconsole/backend/internal/store"
)

const (
	correlationHeader = "X-Correlation-ID"
	maxJSONBody       = 1 << 20
)

type Options struct {
	AllowedOrigin string
	// TokenHash is a bcrypt hash of the console bearer token. Empty disables the guard.
	TokenHash string
	Logger    logrus.FieldLogger
}

type API struct {
	service       *service.Service
	poller        *poller.Poller
	archive       store.SnapshotArchive
	allowedOrigin string
	tokenHash     []byte
	limiter       *attemptLimiter
	log           logrus.FieldLogger
}

func New(svc *service.Service, p *poller.Poller, archive store.SnapshotArchive, opts Options) *API {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	api := &API{
		service:       svc,
		poller:        p,
		archive:       archive,
		allowedOrigin: strings.TrimSpace(opts.AllowedOrigin),
		limiter:       newAttemptLimiter(5, time.Minute),
		log:           logger.WithField("component", "httpapi"),
	}
	if hash := strings.TrimSpace(opts.TokenHash); hash != "" {
		api.tokenHash = []byte(hash)
	}
	return api
}

func (a *API) Handler() http.Handler {
	r := gin.New()
	_ = r.SetTrustedProxies(nil)

	r.Use(a.correlationID())
	r.Use(a.requestLogger())
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		a.log.WithField("panic", recovered).Error("handler panicked")
		abortWithError(c, http.StatusInternalServerError, errors.New("panic"))
	}))
	r.Use(securityHeaders())
	r.Use(cors.New(a.corsConfig()))
	r.Use(limitJSONBody())

	r.GET("/healthz", a.handleHealth)

	v1 := r.Group("/api/v1", a.requireConsoleToken())
	v1.GET("/dashboard", a.handleDashboard)
	v1.GET("/dashboard/history", a.handleDashboardHistory)
	v1.GET("/dashboard/stream", a.handleDashboardStream)

	v1.GET("/sales", a.handleListSales)
	v1.POST("/sales", a.handleCreateSale)
	v1.GET("/sales/export", a.handleExportSales)
	v1.GET("/sales/cashier-statement", a.handleCashierStatement)
	v1.GET("/sales/:id", a.handleGetSale)
	v1.DELETE("/sales/:id", a.handleDeleteSale)

	v1.GET("/attendance", a.handleListAttendance)
	v1.POST("/attendance", a.handleUpsertAttendance)
	v1.GET("/attendance/summary", a.handleAttendanceSummary)
	v1.PATCH("/attendance/:id", a.handleUpdateAttendance)
	v1.DELETE("/attendance/:id", a.handleDeleteAttendance)

	v1.GET("/audit", a.handleListAuditLogs)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})
	return r
}

func (a *API) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok": true,
		"at": time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *API) corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	if a.allowedOrigin == "" || a.allowedOrigin == "*" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = splitAndTrim(a.allowedOrigin)
	}
	cfg.AddAllowMethods(http.MethodPatch)
	cfg.AddAllowHeaders("Authorization", "If-None-Match", correlationHeader)
	cfg.AddExposeHeaders("ETag", "Content-Disposition", correlationHeader)
	return cfg
}

// correlationID reuses the caller's id or mints one, and forwards it to the
// backend as the outbound request id.
func (a *API) correlationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		cid := strings.TrimSpace(c.GetHeader(correlationHeader))
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Set(correlationHeader, cid)
		c.Header(correlationHeader, cid)
		c.Request = c.Request.WithContext(apiclient.WithRequestID(c.Request.Context(), cid))
		c.Next()
	}
}

func (a *API) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		entry := a.log.WithFields(logrus.Fields{
			"status":         c.Writer.Status(),
			"method":         c.Request.Method,
			"path":           c.Request.URL.Path,
			"latency":        time.Since(start).String(),
			"correlation_id": c.GetString(correlationHeader),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Warn("request")
			return
		}
		entry.Info("request")
	}
}

func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Cross-Origin-Opener-Policy", "same-origin")
		c.Next()
	}
}

func limitJSONBody() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPatch, http.MethodPut:
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxJSONBody)
		}
		c.Next()
	}
}

// writeError maps service and backend failures onto local status codes.
// Backend 4xx answers keep their status; credential, transport and 5xx
// failures surface as 502 with the extracted message.
func (a *API) writeError(c *gin.Context, err error) {
	var verr *service.ValidationError
	var apiErr *apierror.Error
	switch {
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request", "fields": verr.Fields})
	case errors.Is(err, service.ErrInvalidRequest):
		abortWithError(c, http.StatusBadRequest, err)
	case errors.Is(err, store.ErrNotFound):
		abortWithError(c, http.StatusNotFound, err)
	case errors.Is(err, apiclient.ErrTokenExpired):
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case errors.As(err, &apiErr):
		status := http.StatusBadGateway
		if apiErr.Status >= 400 && apiErr.Status < 500 && apiErr.Status != http.StatusUnauthorized {
			status = apiErr.Status
		}
		a.log.WithError(err).WithField("correlation_id", c.GetString(correlationHeader)).Warn("backend call failed")
		c.AbortWithStatusJSON(status, gin.H{"error": apiErr.Message()})
	default:
		a.log.WithError(err).Error("internal error")
		abortWithError(c, http.StatusInternalServerError, err)
	}
}

// abortWithError hides the cause of 5xx responses from the caller.
func abortWithError(c *gin.Context, status int, err error) {
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		msg = "internal server error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		abortWithError(c, http.StatusBadRequest, errors.New("id must be a positive integer"))
		return 0, false
	}
	return id, true
}

func parsePositiveLimit(raw string, fallback int, max int) int {
	limit := fallback
	trimmed := strings.TrimSpace(raw)
	if trimmed != "" {
		if parsed, err := strconv.Atoi(trimmed); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if max > 0 && limit > max {
		return max
	}
	return limit
}

func splitAndTrim(csv string) []string {
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
