package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"royal-dine/services"
)

type chatPayload struct {
	Message string `json:"message"`
}

type AssistantController struct {
	Service *services.AssistantService
}

func NewAssistantController(svc *services.AssistantService) *AssistantController {
	return &AssistantController{Service: svc}
}

// Chat always answers with 200; the assistant degrades to a fixed apology.
func (ctrl *AssistantController) Chat(c *gin.Context) {
	var p chatPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"response": services.AssistantFallbackReply})
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": ctrl.Service.Reply(c.Request.Context(), p.Message)})
}
