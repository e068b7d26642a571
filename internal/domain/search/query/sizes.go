package query

import (
	"regexp"
	"strconv"
	"strings"
)

// sizeRe matches [<>]N[unit]: optional operator, decimal number, optional
// unit suffix (default bytes).
var sizeRe = regexp.MustCompile(`^([<>])?(\d+(?:\.\d+)?)(b|kb|mb|gb)?$`)

// unitBytes maps a unit suffix to its byte multiplier.
var unitBytes = map[string]float64{
	"":   1,
	"b":  1,
	"kb": 1 << 10,
	"mb": 1 << 20,
	"gb": 1 << 30,
}

// approxBand is the tolerance around a bare size value: "size:10mb" means
// "about 10 MB", i.e. 10% either side.
const approxBand = 0.10

// ParseSizeValue parses a size filter value into byte bounds.
// ">" sets only a minimum, "<" only a maximum, and a bare number an
// approximate band around the value. Unrecognized input returns ok=false
// and the filter degrades to "no constraint".
func ParseSizeValue(value string) (min, max *int64, ok bool) {
	m := sizeRe.FindStringSubmatch(strings.ToLower(strings.TrimSpace(value)))
	if m == nil {
		return nil, nil, false
	}

	n, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return nil, nil, false
	}
	bytes := n * unitBytes[m[3]]

	switch m[1] {
	case ">":
		lo := int64(bytes)
		return &lo, nil, true
	case "<":
		hi := int64(bytes)
		return nil, &hi, true
	default:
		lo := int64(bytes * (1 - approxBand))
		hi := int64(bytes * (1 + approxBand))
		return &lo, &hi, true
	}
}
