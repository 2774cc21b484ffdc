package system

import (
	"github.com/skip2/go-qrcode"
)

// QRString renders url as a terminal-friendly QR code so a phone can open
// the touch player.
func QRString(url string) (string, error) {
	q, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return "", err
	}
	return q.ToSmallString(false), nil
}
