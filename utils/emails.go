package utils

import (
	"fmt"
	"strings"

	"royal-dine/models"
)

const (
	SubjectBookingConfirmation = "Royal Dine Booking Confirmation"
	SubjectOTPLogin            = "Royal Dine OTP Login"
)

// BookingConfirmationEmail is sent once a booking has been stored.
func BookingConfirmationEmail(b models.Booking) Email {
	text := fmt.Sprintf(
		"Hello %s,\n\n"+
			"✅ Your table has been booked!\n"+
			"Booking ID: %s\n"+
			"Guests: %d\n"+
			"Date: %s\n"+
			"Time: %s\n\n"+
			"Keep your booking ID to check or cancel the reservation.\n",
		b.Name, b.BookingID, b.PartySize, b.Date, b.Time,
	)

	html := fmt.Sprintf(`<!doctype html>
<html>
<head><meta charset="utf-8"><title>Booking Confirmation</title></head>
<body style="font-family:Arial, Helvetica, sans-serif; color:#222;">
  <h2>Your table is booked</h2>
  <p>Hello %s,</p>
  <p><strong>Booking ID:</strong> %s<br>
     <strong>Guests:</strong> %d<br>
     <strong>Date:</strong> %s<br>
     <strong>Time:</strong> %s</p>
  <p>Keep your booking ID to check or cancel the reservation.</p>
</body>
</html>`,
		htmlEscape(b.Name), htmlEscape(b.BookingID), b.PartySize, htmlEscape(b.Date), htmlEscape(b.Time),
	)

	return Email{To: b.Email, Subject: SubjectBookingConfirmation, Text: text, HTML: html}
}

// OTPEmail carries a login code.
func OTPEmail(to, code string) Email {
	return Email{
		To:      to,
		Subject: SubjectOTPLogin,
		Text:    fmt.Sprintf("Your OTP for Royal Dine is: %s", code),
	}
}

// minimal html escaper for the small strings we use
func htmlEscape(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
	return replacer.Replace(s)
}
