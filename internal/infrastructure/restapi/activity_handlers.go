package restapi

import (
	"errors"
	"net/http"
	"strconv"

	"activity_checker/internal/domain/entity"
	"activity_checker/internal/pkg/utils"
	"activity_checker/internal/port"
	"activity_checker/internal/registry"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// APIActivityRow is one feed row plus display-ready fields.
type APIActivityRow struct {
	entity.ActivityRecord
	FromDisplay string `json:"fromDisplay"`
	ToDisplay   string `json:"toDisplay"`
	TimeDisplay string `json:"timeDisplay,omitempty"`
}

// APIActivityResponse is the response body of the activity endpoint.
type APIActivityResponse struct {
	Data struct {
		Activity []APIActivityRow `json:"activity"`
	} `json:"data"`
	StatusMessage string `json:"status_message"`
}

// APIChainsResponse is the response body of the chains endpoint.
type APIChainsResponse struct {
	Data struct {
		Chains         []entity.Chain `json:"chains"`
		DefaultChainID int64          `json:"defaultChainId"`
	} `json:"data"`
}

// ActivityHandler handles HTTP requests for the activity feed and the chain
// catalog.
type ActivityHandler struct {
	activityService port.ActivityService
	chains          *registry.Registry
	logger          *zap.Logger
}

// NewActivityHandler creates a new instance of ActivityHandler.
func NewActivityHandler(as port.ActivityService, chains *registry.Registry, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{
		activityService: as,
		chains:          chains,
		logger:          logger.Named("ActivityHandler"),
	}
}

// GetActivityHandler handles GET /api/v1/activity?address=&chainId=.
func (h *ActivityHandler) GetActivityHandler(c *gin.Context) {
	address := c.Query("address")
	if !common.IsHexAddress(address) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address must be a valid hex address"})
		return
	}

	chainID, err := strconv.ParseInt(c.Query("chainId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chainId must be a decimal chain id"})
		return
	}
	chain, ok := h.chains.ByID(chainID)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": entity.ErrUnsupportedChain.Error()})
		return
	}

	records, err := h.activityService.GetRecentActivity(c.Request.Context(), address, chain)
	if err != nil {
		h.logger.Error("Activity fetch failed",
			zap.String("address", address), zap.Int64("chainID", chainID), zap.Error(err))
		var activityErr *entity.ActivityError
		if errors.As(err, &activityErr) {
			c.JSON(http.StatusBadGateway, gin.H{"error": activityErr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	rows := make([]APIActivityRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, APIActivityRow{
			ActivityRecord: record,
			FromDisplay:    utils.FormatAddress(record.From),
			ToDisplay:      utils.FormatAddress(record.To),
			TimeDisplay:    utils.FormatTimestamp(record.Timestamp),
		})
	}

	response := APIActivityResponse{}
	response.Data.Activity = rows
	if len(rows) == 0 {
		response.StatusMessage = "No recent activity found for this address on the selected chain."
	} else {
		response.StatusMessage = "Activity retrieved successfully."
	}
	c.JSON(http.StatusOK, response)
}

// GetChainsHandler handles GET /api/v1/chains.
func (h *ActivityHandler) GetChainsHandler(c *gin.Context) {
	response := APIChainsResponse{}
	response.Data.Chains = h.chains.All()
	response.Data.DefaultChainID = h.chains.Default().ID
	c.JSON(http.StatusOK, response)
}
