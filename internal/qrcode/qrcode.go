// Package qrcode renders QR images for distributable resolve URLs.
package qrcode

import qr "github.com/skip2/go-qrcode"

const defaultSize = 256

// EncodePNG renders the payload as a PNG at the default size.
func EncodePNG(payload string) ([]byte, error) {
	return qr.Encode(payload, qr.Medium, defaultSize)
}
