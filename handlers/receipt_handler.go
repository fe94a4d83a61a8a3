package handlers

import (
	"FairShare/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterReceiptRoutes(router *gin.RouterGroup, receiptController *controllers.ReceiptController) {
	visionGroup := router.Group("/openai_vision")
	{
		visionGroup.POST("/process-receipt", receiptController.ProcessReceipt)
	}
}
