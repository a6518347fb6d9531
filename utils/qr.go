package utils

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

const qrImageSize = 512 // px, print-friendly

// BuildTicketArchive renders each ticket code as a QR PNG and bundles them
// into a single zip, plus a manifest listing code per file. The archive is
// the printable artifact handed to the campaign team; the codes in the
// database remain the source of truth.
func BuildTicketArchive(codes []string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	var manifest strings.Builder
	for i, code := range codes {
		png, err := qrcode.Encode(code, qrcode.Medium, qrImageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to render QR for %s: %w", code, err)
		}

		name := fmt.Sprintf("ticket-%04d.png", i+1)
		w, err := zw.Create(name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(png); err != nil {
			return nil, err
		}
		fmt.Fprintf(&manifest, "%s\t%s\n", name, code)
	}

	mw, err := zw.Create("manifest.txt")
	if err != nil {
		return nil, err
	}
	if _, err := mw.Write([]byte(manifest.String())); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
