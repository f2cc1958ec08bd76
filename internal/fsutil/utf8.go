// Package fsutil holds small filesystem helpers shared by the file-backed
// adapters.
package fsutil

import (
	"fmt"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ReadUTF8File reads a UTF-8 file, dropping a leading byte order mark.
// A UTF-16 BOM switches decoding to UTF-16, so files saved by editors that
// default to it still load as text.
func ReadUTF8File(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeUTF8(raw)
}

// DecodeUTF8 strips an optional BOM from raw and returns UTF-8 bytes.
func DecodeUTF8(raw []byte) ([]byte, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(decoder, raw)
	if err != nil {
		return nil, fmt.Errorf("decode text: %w", err)
	}
	return out, nil
}
