package restapi

import (
	"errors"
	"net/http"

	"activity_checker/internal/domain/entity"
	"activity_checker/internal/port"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WalletHandler handles HTTP requests driving the wallet session.
type WalletHandler struct {
	walletService port.WalletService
	logger        *zap.Logger
}

// NewWalletHandler creates a new instance of WalletHandler.
func NewWalletHandler(ws port.WalletService, logger *zap.Logger) *WalletHandler {
	return &WalletHandler{
		walletService: ws,
		logger:        logger.Named("WalletHandler"),
	}
}

// chainRequest is the body of chain-targeting wallet operations.
type chainRequest struct {
	ChainID int64 `json:"chainId" binding:"required"`
}

// GetSessionHandler handles GET /api/v1/wallet.
func (h *WalletHandler) GetSessionHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"session": h.walletService.Session()}})
}

// ConnectHandler handles POST /api/v1/wallet/connect.
func (h *WalletHandler) ConnectHandler(c *gin.Context) {
	if err := h.walletService.Connect(c.Request.Context()); err != nil {
		h.respondWalletError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"session": h.walletService.Session()}})
}

// DisconnectHandler handles POST /api/v1/wallet/disconnect.
func (h *WalletHandler) DisconnectHandler(c *gin.Context) {
	h.walletService.Disconnect()
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"session": h.walletService.Session()}})
}

// SwitchChainHandler handles POST /api/v1/wallet/switch-chain.
func (h *WalletHandler) SwitchChainHandler(c *gin.Context) {
	var req chainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chainId is required"})
		return
	}
	if err := h.walletService.SwitchChain(c.Request.Context(), req.ChainID); err != nil {
		h.respondWalletError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"session": h.walletService.Session()}})
}

// SetSelectedChainHandler handles PUT /api/v1/wallet/selected-chain.
func (h *WalletHandler) SetSelectedChainHandler(c *gin.Context) {
	var req chainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chainId is required"})
		return
	}
	if err := h.walletService.SetSelectedChainID(req.ChainID); err != nil {
		h.respondWalletError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"session": h.walletService.Session()}})
}

// respondWalletError maps wallet errors to HTTP statuses. The session is
// included so clients can render lastError without a second round trip.
func (h *WalletHandler) respondWalletError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, entity.ErrUnsupportedChain):
		status = http.StatusBadRequest
	case errors.Is(err, entity.ErrProviderUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, entity.ErrConnectInFlight), errors.Is(err, entity.ErrAlreadyConnected):
		status = http.StatusConflict
	case entity.IsUserRejected(err):
		status = http.StatusForbidden
	default:
		var swErr *entity.ChainSwitchError
		if errors.As(err, &swErr) {
			status = http.StatusBadGateway
		}
	}

	h.logger.Warn("Wallet operation failed", zap.Int("status", status), zap.Error(err))
	c.JSON(status, gin.H{
		"error": err.Error(),
		"data":  gin.H{"session": h.walletService.Session()},
	})
}
