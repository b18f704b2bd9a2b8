package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"royal-dine/services"
)

type requestOTPPayload struct {
	Email string `json:"email"`
}

type verifyOTPPayload struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// AuthController handles the email one-time-code login.
type AuthController struct {
	Service *services.BookingService
}

func NewAuthController(svc *services.BookingService) *AuthController {
	return &AuthController{Service: svc}
}

func (ctrl *AuthController) RequestOTP(c *gin.Context) {
	var payload requestOTPPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, services.ResultOutcome{Success: false, Message: "Invalid request body"})
		return
	}
	out, err := ctrl.Service.RequestOTP(c.Request.Context(), payload.Email)
	c.JSON(statusFor(err), out)
}

func (ctrl *AuthController) VerifyOTP(c *gin.Context) {
	var payload verifyOTPPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, services.VerifyOutcome{Success: false, Message: "Invalid request body"})
		return
	}
	out, err := ctrl.Service.VerifyOTP(c.Request.Context(), payload.Email, payload.OTP)
	c.JSON(statusFor(err), out)
}
