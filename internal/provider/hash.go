package provider

import "unicode/utf16"

// addressHash is a 31-multiplier polynomial hash over the UTF-16 code units of
// s, wrapped to 32 bits, returned as an absolute value. The result is widened
// so that math.MinInt32 stays positive.
func addressHash(s string) int64 {
	var h int32
	for _, cu := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(cu)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v
}
