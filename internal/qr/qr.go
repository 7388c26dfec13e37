// Package qr renders payment QR codes for the checkout flow.
package qr

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// PaymentCode encodes the order code and amount due into a QR PNG and
// returns it as a data URI for inline display.
func PaymentCode(orderCode string, amountCents int64) (string, error) {
	content := fmt.Sprintf("%s|%.2f", orderCode, float64(amountCents)/100)

	png, err := qrcode.Encode(content, qrcode.Medium, 256)
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
