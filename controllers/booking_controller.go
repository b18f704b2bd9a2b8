// controllers/booking_controller.go
package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"royal-dine/middleware"
	"royal-dine/services"
	"royal-dine/utils"
)

// ---------------------------
// Payload / DTOs
// ---------------------------

type CreateBookingPayload struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Date   string `json:"date"`
	Time   string `json:"time"`
	People int    `json:"people"`
}

type BookingIDPayload struct {
	BookingID string `json:"booking_id" binding:"required"`
}

const msgReceiptNotFound = "Booking not found or may have been deleted."

type BookingController struct {
	Service *services.BookingService
}

func NewBookingController(svc *services.BookingService) *BookingController {
	return &BookingController{Service: svc}
}

// ---------------------------
// Handlers
// ---------------------------

func (ctrl *BookingController) CreateBooking(c *gin.Context) {
	var p CreateBookingPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, services.CreateOutcome{Success: false, Message: "Invalid request body"})
		return
	}

	out, err := ctrl.Service.CreateBooking(c.Request.Context(), services.BookingInput{
		Name:      p.Name,
		Email:     p.Email,
		Phone:     p.Phone,
		Date:      p.Date,
		Time:      p.Time,
		PartySize: p.People,
	})
	if err != nil {
		c.JSON(statusFor(err), out)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// CheckBooking takes the id from the JSON body.
func (ctrl *BookingController) CheckBooking(c *gin.Context) {
	var p BookingIDPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, services.CheckOutcome{Found: false})
		return
	}
	ctrl.check(c, p.BookingID)
}

// GetBooking takes the id from the path.
func (ctrl *BookingController) GetBooking(c *gin.Context) {
	ctrl.check(c, c.Param("id"))
}

func (ctrl *BookingController) check(c *gin.Context, id string) {
	out, err := ctrl.Service.CheckBooking(c.Request.Context(), id)
	c.JSON(statusFor(err), out)
}

func (ctrl *BookingController) CancelBooking(c *gin.Context) {
	var p BookingIDPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, services.ResultOutcome{Success: false, Message: "booking_id is required"})
		return
	}
	out, err := ctrl.Service.CancelBooking(c.Request.Context(), p.BookingID)
	c.JSON(statusFor(err), out)
}

func (ctrl *BookingController) DownloadReceipt(c *gin.Context) {
	receipt, err := ctrl.Service.GetReceipt(c.Request.Context(), c.Param("id"))
	if errors.Is(err, services.ErrBookingNotFound) {
		c.String(http.StatusNotFound, msgReceiptNotFound)
		return
	}
	if err != nil {
		log.Printf("❌ receipt %s: %v", c.Param("id"), err)
		utils.JSONError(c, http.StatusInternalServerError, "Could not generate the receipt")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, receipt.Filename))
	c.Data(http.StatusOK, receipt.ContentType, receipt.Data)
}

// MyBookings lists the bookings of the guest behind the session token.
func (ctrl *BookingController) MyBookings(c *gin.Context) {
	email := c.GetString(middleware.ContextEmail)
	list, err := ctrl.Service.MyBookings(c.Request.Context(), email)
	if err != nil {
		log.Printf("❌ list bookings for %s: %v", utils.MaskEmail(email), err)
		utils.JSONError(c, http.StatusInternalServerError, "Could not load your bookings")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}
