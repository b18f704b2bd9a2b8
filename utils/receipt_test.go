package utils

import (
	"bytes"
	"testing"

	"royal-dine/models"
)

func TestReceiptFields(t *testing.T) {
	b := models.Booking{
		BookingID: "RD-00001",
		Name:      "Alice",
		Email:     "a@x.com",
		Date:      "2024-05-01",
		Time:      "19:00",
		PartySize: 4,
		Status:    models.BookingCancelled,
	}
	want := map[string]string{
		"Booking ID":  "RD-00001",
		"Phone":       "N/A",
		"Date & Time": "2024-05-01 19:00",
		"Guests":      "4",
		"Status":      "cancelled",
	}
	fields := ReceiptFields(b)
	if len(fields) != 7 {
		t.Fatalf("len(fields) = %d, want 7", len(fields))
	}
	for _, f := range fields {
		if w, ok := want[f.Label]; ok && f.Value != w {
			t.Errorf("%s = %q, want %q", f.Label, f.Value, w)
		}
	}
}

func TestPDFReceiptRenderer(t *testing.T) {
	data, err := PDFReceiptRenderer{}.Render(models.Booking{
		BookingID: "RD-00042",
		Name:      "José",
		Email:     "j@x.com",
		Date:      "2024-05-01",
		Time:      "19:00",
		PartySize: 2,
		Status:    models.BookingConfirmed,
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("output does not look like a PDF: %q", data[:8])
	}
	if got := ReceiptFilename("RD-00042"); got != "RD-00042_receipt.pdf" {
		t.Errorf("ReceiptFilename() = %q", got)
	}
}
