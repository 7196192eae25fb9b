// Package api exposes the HTTP endpoints for submitting new sauces.
package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// SauceStore is the write side of the sauce collection. Both the Postgres
// and the in-memory store satisfy it.
type SauceStore interface {
	CreateQuote(ctx context.Context, quote, answer string) (string, error)
	CreateImage(ctx context.Context, imageURL, answer string) (string, error)
}

// Register mounts the /sauce routes. POSTs are rate limited per IP.
func Register(r *gin.Engine, store SauceStore, postsPerHour int) {
	g := r.Group("/sauce")
	g.GET("", describe)
	g.POST("", describe)

	limited := g.Group("", perIPRateLimit(postsPerHour))

	limited.POST("/quote", func(c *gin.Context) {
		var req struct {
			Quote  string `json:"quote"`
			Answer string `json:"answer"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Request is missing required data"})
			return
		}
		id, err := store.CreateQuote(c.Request.Context(), req.Quote, req.Answer)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		log.Info().Str("id", id).Msg("quote sauce created")
		c.JSON(http.StatusCreated, gin.H{"message": "Sauce created", "id": id})
	})

	limited.POST("/image", func(c *gin.Context) {
		var req struct {
			ImageURL string `json:"imageUrl"`
			Answer   string `json:"answer"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Request is missing required data"})
			return
		}
		id, err := store.CreateImage(c.Request.Context(), req.ImageURL, req.Answer)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		log.Info().Str("id", id).Msg("image sauce created")
		c.JSON(http.StatusCreated, gin.H{"message": "Sauce created", "id": id})
	})
}

func describe(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"description": "To add a new quote sauce: POST /sauce/quote\nTo add a new image sauce: POST /sauce/image",
	})
}
