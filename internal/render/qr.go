package render

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/skip2/go-qrcode"
)

// DefaultQRSize is the edge length in pixels of a generated QR code.
const DefaultQRSize = 512

// ErrContentTooLong means the content does not fit the largest QR code at
// the highest recovery level. Long records need a reference code instead.
var ErrContentTooLong = errors.New("content too long for a QR code")

// QRCodePNG renders content as a PNG QR code at the highest recovery level,
// so a partly damaged sticker still scans.
func QRCodePNG(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultQRSize
	}

	// qrcode.New only fails when no QR version can hold the content
	code, err := qrcode.New(content, qrcode.Highest)
	if err != nil {
		return nil, fmt.Errorf("%w (%d bytes): %v", ErrContentTooLong, len(content), err)
	}

	png, err := code.PNG(size)
	if err != nil {
		return nil, fmt.Errorf("failed to render QR code: %w", err)
	}
	return png, nil
}

// QRCodeDataURI is QRCodePNG as a data: URI for embedding in JSON or HTML.
func QRCodeDataURI(content string, size int) (string, error) {
	png, err := QRCodePNG(content, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
