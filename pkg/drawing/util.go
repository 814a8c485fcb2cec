package drawing

import (
	"strconv"
	"strings"
)

func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

func lower(s string) string { return strings.ToLower(s) }
