package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"royal-dine/services"
)

type FeedbackPayload struct {
	BookingID string `json:"booking_id"`
	Feedback  string `json:"feedback"`
}

type FeedbackController struct {
	Service *services.BookingService
}

func NewFeedbackController(svc *services.BookingService) *FeedbackController {
	return &FeedbackController{Service: svc}
}

func (ctrl *FeedbackController) SubmitFeedback(c *gin.Context) {
	var p FeedbackPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, services.FeedbackOutcome{Success: false, Message: "Invalid request body"})
		return
	}
	out, err := ctrl.Service.SubmitFeedback(c.Request.Context(), p.BookingID, p.Feedback)
	if err != nil {
		c.JSON(statusFor(err), out)
		return
	}
	c.JSON(http.StatusCreated, out)
}
