package service

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

type QRGenerator interface {
	Generate(orderID string) ([]byte, error)
}

// TrackingQRGenerator encodes a link to an order's tracking page.
type TrackingQRGenerator struct {
	BaseURL string
}

func (g TrackingQRGenerator) Generate(orderID string) ([]byte, error) {
	qrData := fmt.Sprintf("%s/orders/%s/status", g.BaseURL, orderID)
	return qrcode.Encode(qrData, qrcode.Medium, 256)
}
