package batch

import (
	"path/filepath"
	"strconv"
	"strings"
)

// QuantityFromFilename returns the piece count encoded as a trailing
// "_<n>" in name, or 1 when there is none or it is below 1.
func QuantityFromFilename(name string) int {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	i := strings.LastIndexByte(base, '_')
	if i < 0 {
		return 1
	}
	digits := base[i+1:]
	if digits == "" || strings.TrimLeft(digits, "0123456789") != "" {
		return 1
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// IsDrawing reports whether name has a .dxf extension in any case.
func IsDrawing(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".dxf")
}
