// Package venmo builds the peer-payment deep link and QR code parents use to
// pay for an order. The code in the memo is how the office later matches an
// incoming payment to its order.
package venmo

import (
	"fmt"
	"net/url"

	qrcode "github.com/skip2/go-qrcode"
)

// PaymentLink returns a venmo.com pay link pre-filled with amount and memo.
func PaymentLink(handle string, amountCents int64, code string) string {
	q := url.Values{}
	q.Set("txn", "pay")
	q.Set("amount", fmt.Sprintf("%.2f", float64(amountCents)/100))
	q.Set("note", "Sunridge camp "+code)

	return fmt.Sprintf("https://venmo.com/%s?%s", url.PathEscape(handle), q.Encode())
}

// QRCodePNG renders the payment link as a PNG for scanning at pickup.
func QRCodePNG(link string, size int) ([]byte, error) {
	png, err := qrcode.Encode(link, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("qrcode.Encode -> %w", err)
	}
	return png, nil
}
