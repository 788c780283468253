package restapi

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter configures and returns the Gin router.
func SetupRouter(activityHandler *ActivityHandler, walletHandler *WalletHandler) *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true // Adjust for production
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))
	router.Use(gin.Recovery())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/chains", activityHandler.GetChainsHandler)
		v1.GET("/activity", activityHandler.GetActivityHandler)

		wallet := v1.Group("/wallet")
		{
			wallet.GET("", walletHandler.GetSessionHandler)
			wallet.POST("/connect", walletHandler.ConnectHandler)
			wallet.POST("/disconnect", walletHandler.DisconnectHandler)
			wallet.POST("/switch-chain", walletHandler.SwitchChainHandler)
			wallet.PUT("/selected-chain", walletHandler.SetSelectedChainHandler)
		}
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	return router
}
