package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"infobot/internal/entities"
	"infobot/internal/interfaces"
	"infobot/internal/usecases"
)

// Handler exposes the operator API: health, snapshot inspection,
// forced refresh and content replacement.
type Handler struct {
	cache  *usecases.Cache
	source interfaces.RowSource
	log    *zap.Logger
}

func NewHandler(cache *usecases.Cache, source interfaces.RowSource, log *zap.Logger) *Handler {
	return &Handler{cache: cache, source: source, log: log}
}

func SetupRoutes(r *gin.Engine, cache *usecases.Cache, source interfaces.RowSource, auth *usecases.Auth, middleware *Middleware, log *zap.Logger) {
	h := NewHandler(cache, source, log)

	r.Use(SecurityHeaders())
	r.Use(RequestSizeLimiter(1 << 20)) // 1MB is plenty for content rows
	r.Use(middleware.CORSMiddleware())

	r.GET("/healthz", h.Health)

	r.POST("/api/auth/login", func(c *gin.Context) {
		var loginReq struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&loginReq); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		token, err := auth.Login(loginReq.Username, loginReq.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token})
	})

	api := r.Group("/api")
	api.Use(middleware.AuthRequired())
	api.Use(middleware.RateLimitPerUser(5, 10))
	{
		api.GET("/items", h.GetItems)
		api.PUT("/items", h.ReplaceItems)
		api.POST("/cache/refresh", h.RefreshCache)
	}
}

func (h *Handler) Health(c *gin.Context) {
	age, valid := h.cache.Age()
	c.JSON(http.StatusOK, gin.H{
		"status":            "ok",
		"cache_valid":       valid,
		"cache_age_seconds": int(age.Seconds()),
	})
}

func (h *Handler) GetItems(c *gin.Context) {
	snap, err := h.cache.Get(c.Request.Context(), false)
	if err != nil {
		h.log.Error("items fetch failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "data source unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": snap, "count": len(snap)})
}

func (h *Handler) RefreshCache(c *gin.Context) {
	h.cache.Invalidate()
	snap, err := h.cache.Get(c.Request.Context(), true)
	if err != nil {
		h.log.Error("forced refresh failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "data source unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "refreshed", "count": len(snap)})
}

type itemPayload struct {
	ID     string `json:"id"`
	Parent string `json:"parent"`
	Text   string `json:"text"`
	Data   string `json:"data"`
	Type   string `json:"type"`
	Extra  string `json:"extra"`
}

// ReplaceItems writes a whole new content tree to the data source
// and invalidates the cache so the bot picks it up immediately.
func (h *Handler) ReplaceItems(c *gin.Context) {
	var payload []itemPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	rows := [][]string{entities.HeaderRow()}
	for i, p := range payload {
		if !ValidItemID(p.ID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id", "index": i})
			return
		}
		if !ValidateLength(strings.TrimSpace(p.Text), 1, MaxTextLength) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "text is required", "index": i})
			return
		}
		if !ValidateLength(p.Data, 0, MaxDataLength) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "data too long", "index": i})
			return
		}

		item := entities.Item{
			ID:     p.ID,
			Parent: SanitizeString(p.Parent),
			Text:   SanitizeString(p.Text),
			Data:   SanitizeString(p.Data),
			Type:   entities.ParseContentType(p.Type),
			Extra:  SanitizeString(p.Extra),
		}
		rows = append(rows, item.Row())
	}

	if err := h.source.ReplaceRows(c.Request.Context(), rows); err != nil {
		h.log.Error("content replace failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "data source unavailable"})
		return
	}

	h.cache.Invalidate()
	h.log.Info("content replaced via admin API", zap.Int("items", len(payload)))
	c.JSON(http.StatusOK, gin.H{"status": "updated", "count": len(payload)})
}
