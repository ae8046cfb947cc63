package api

import (
	"net/http"
	"strconv"

	"trenchwars/service"

	"github.com/gin-gonic/gin"
)

// WarHandler handles war lifecycle requests
type WarHandler struct {
	warService        service.WarService
	settlementService service.SettlementService
}

func NewWarHandler(warService service.WarService, settlementService service.SettlementService) *WarHandler {
	return &WarHandler{
		warService:        warService,
		settlementService: settlementService,
	}
}

// ListWars handles GET /api/wars
func (h *WarHandler) ListWars(ctx *gin.Context) {
	wars, err := h.warService.ListWars(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, wars)
}

// ListActiveWars handles GET /api/wars/active
func (h *WarHandler) ListActiveWars(ctx *gin.Context) {
	wars, err := h.warService.ListActiveWars(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, wars)
}

// GetWar handles GET /api/wars/:id
func (h *WarHandler) GetWar(ctx *gin.Context) {
	warID, err := parseID(ctx, "id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid war id"})
		return
	}

	detail, err := h.warService.GetWar(ctx.Request.Context(), warID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, detail)
}

// CreateWar handles POST /api/wars
func (h *WarHandler) CreateWar(ctx *gin.Context) {
	type Request struct {
		TokenASymbol  string `json:"token_a_symbol" binding:"required"`
		TokenBSymbol  string `json:"token_b_symbol" binding:"required"`
		DurationHours int    `json:"duration_hours" binding:"required"`
		MinBetAmount  int64  `json:"min_bet_amount"`
		Description   string `json:"description"`
		CreatorWallet string `json:"creator_wallet"`
	}
	var req Request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	detail, err := h.warService.CreateWar(ctx.Request.Context(), service.CreateWarParams{
		TokenASymbol:  req.TokenASymbol,
		TokenBSymbol:  req.TokenBSymbol,
		DurationHours: req.DurationHours,
		MinBetAmount:  req.MinBetAmount,
		Description:   req.Description,
		CreatorWallet: req.CreatorWallet,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, detail)
}

// GetWarStats handles GET /api/wars/:id/stats
func (h *WarHandler) GetWarStats(ctx *gin.Context) {
	warID, err := parseID(ctx, "id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid war id"})
		return
	}

	stats, err := h.warService.GetWarStats(ctx.Request.Context(), warID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, stats)
}

// SettleWar handles POST /api/wars/:id/settle
func (h *WarHandler) SettleWar(ctx *gin.Context) {
	warID, err := parseID(ctx, "id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid war id"})
		return
	}

	settlement, err := h.settlementService.SettleWar(ctx.Request.Context(), warID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, settlement)
}

// GetSettlement handles GET /api/wars/:id/settlement
func (h *WarHandler) GetSettlement(ctx *gin.Context) {
	warID, err := parseID(ctx, "id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid war id"})
		return
	}

	settlement, err := h.settlementService.GetSettlement(ctx.Request.Context(), warID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, settlement)
}

func parseID(ctx *gin.Context, param string) (int64, error) {
	return strconv.ParseInt(ctx.Param(param), 10, 64)
}
