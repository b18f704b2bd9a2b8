package utils

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"

	"royal-dine/models"
)

const (
	ReceiptTitle       = "Royal Dine - Booking Receipt"
	ReceiptContentType = "application/pdf"
)

// ReceiptRenderer turns a booking snapshot into a downloadable document.
type ReceiptRenderer interface {
	Render(b models.Booking) ([]byte, error)
}

// ReceiptField is one labelled line of a receipt.
type ReceiptField struct {
	Label string
	Value string
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

// ReceiptFields lists what a receipt shows, in print order.
func ReceiptFields(b models.Booking) []ReceiptField {
	guests := "N/A"
	if b.PartySize > 0 {
		guests = strconv.Itoa(b.PartySize)
	}
	return []ReceiptField{
		{"Booking ID", orNA(b.BookingID)},
		{"Name", orNA(b.Name)},
		{"Email", orNA(b.Email)},
		{"Phone", orNA(b.Phone)},
		{"Date & Time", fmt.Sprintf("%s %s", orNA(b.Date), orNA(b.Time))},
		{"Guests", guests},
		{"Status", orNA(string(b.Status))},
	}
}

func ReceiptFilename(bookingID string) string {
	return bookingID + "_receipt.pdf"
}

// PDFReceiptRenderer renders an A4 single page receipt.
type PDFReceiptRenderer struct{}

func (PDFReceiptRenderer) Render(b models.Booking) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(ReceiptTitle, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 12, ReceiptTitle, "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 12)
	for _, f := range ReceiptFields(b) {
		pdf.CellFormat(40, 8, tr(f.Label+":"), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 8, tr(f.Value), "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render receipt: %w", err)
	}
	return buf.Bytes(), nil
}
