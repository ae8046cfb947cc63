package api

import (
	"net/http"
	"strconv"

	"trenchwars/models"
	"trenchwars/service"

	"github.com/gin-gonic/gin"
)

// BetHandler handles betting and claim requests
type BetHandler struct {
	betService service.BetService
}

func NewBetHandler(betService service.BetService) *BetHandler {
	return &BetHandler{betService: betService}
}

// PlaceBet handles POST /api/bets
func (h *BetHandler) PlaceBet(ctx *gin.Context) {
	type Request struct {
		WarID                int64          `json:"war_id" binding:"required"`
		WalletAddress        string         `json:"wallet_address" binding:"required"`
		Side                 models.BetSide `json:"side" binding:"required"`
		Amount               int64          `json:"amount" binding:"required"`
		TransactionSignature string         `json:"transaction_signature" binding:"required"`
	}
	var req Request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bet, err := h.betService.PlaceBet(ctx.Request.Context(), service.PlaceBetParams{
		WarID:                req.WarID,
		WalletAddress:        req.WalletAddress,
		Side:                 req.Side,
		Amount:               req.Amount,
		TransactionSignature: req.TransactionSignature,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, bet)
}

// GetWarBets handles GET /api/bets/war/:id
func (h *BetHandler) GetWarBets(ctx *gin.Context) {
	warID, err := parseID(ctx, "id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid war id"})
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "100"))

	bets, err := h.betService.GetWarBets(ctx.Request.Context(), warID, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, bets)
}

// GetUserBets handles GET /api/bets/user/:wallet
func (h *BetHandler) GetUserBets(ctx *gin.Context) {
	wallet := ctx.Param("wallet")
	if wallet == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "wallet is required"})
		return
	}

	bets, err := h.betService.GetUserBets(ctx.Request.Context(), wallet)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, bets)
}

// PreviewWinnings handles GET /api/bets/winnings/:war_id/:choice/:amount
func (h *BetHandler) PreviewWinnings(ctx *gin.Context) {
	warID, err := parseID(ctx, "war_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid war id"})
		return
	}

	choice := models.BetSide(ctx.Param("choice"))
	amount, err := strconv.ParseInt(ctx.Param("amount"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		return
	}

	preview, err := h.betService.PreviewWinnings(ctx.Request.Context(), warID, choice, amount)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, preview)
}

// ClaimWinnings handles POST /api/bets/:id/claim
func (h *BetHandler) ClaimWinnings(ctx *gin.Context) {
	betID, err := parseID(ctx, "id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid bet id"})
		return
	}

	type Request struct {
		WalletAddress string `json:"wallet_address" binding:"required"`
	}
	var req Request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.betService.ClaimWinnings(ctx.Request.Context(), betID, req.WalletAddress)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}
