package api

import (
	"net/http"
	"strconv"

	"trenchwars/service"

	"github.com/gin-gonic/gin"
)

// TokenHandler handles token and price feed requests
type TokenHandler struct {
	tokenService service.TokenService
}

func NewTokenHandler(tokenService service.TokenService) *TokenHandler {
	return &TokenHandler{tokenService: tokenService}
}

// ListTokens handles GET /api/tokens
func (h *TokenHandler) ListTokens(ctx *gin.Context) {
	tokens, err := h.tokenService.ListTokens(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, tokens)
}

// RegisterToken handles POST /api/tokens
func (h *TokenHandler) RegisterToken(ctx *gin.Context) {
	type Request struct {
		Symbol    string  `json:"symbol" binding:"required"`
		Name      string  `json:"name"`
		Price     float64 `json:"price"`
		MarketCap int64   `json:"market_cap"`
	}
	var req Request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.tokenService.RegisterToken(ctx.Request.Context(), req.Symbol, req.Name, req.Price, req.MarketCap)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, token)
}

// GetPrice handles GET /api/prices/:symbol
func (h *TokenHandler) GetPrice(ctx *gin.Context) {
	token, err := h.tokenService.GetToken(ctx.Request.Context(), ctx.Param("symbol"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, token)
}

// RecordPrice handles POST /api/prices
func (h *TokenHandler) RecordPrice(ctx *gin.Context) {
	type Request struct {
		Symbol    string  `json:"symbol" binding:"required"`
		Price     float64 `json:"price" binding:"required"`
		Change24h float64 `json:"change_24h"`
	}
	var req Request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.tokenService.RecordPrice(ctx.Request.Context(), req.Symbol, req.Price, req.Change24h)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, token)
}

// GetPriceHistory handles GET /api/prices/:symbol/history
func (h *TokenHandler) GetPriceHistory(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "100"))

	history, err := h.tokenService.GetPriceHistory(ctx.Request.Context(), ctx.Param("symbol"), limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, history)
}
