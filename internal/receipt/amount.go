package receipt

import "strings"

// NormalizeAmount converts a free-form rupiah amount into a canonical
// digit-only string:
//
//	"48.000,00" -> "48000"
//	"10,000.00" -> "10000"
//	"1.000.000" -> "1000000"
//	"10000.00"  -> "10000"
//	"10000"     -> "10000"
//
// OCR output and model output disagree on whether '.' and ',' mean
// thousands or decimals, so the rules are positional: when both separators
// appear, the rightmost one is the decimal separator; a lone ",dd" or ".dd"
// tail is a decimal separator; every other separator is thousands grouping.
// Input with no digits normalizes to "0". The function is idempotent.
func NormalizeAmount(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}
	s2 := b.String()
	if s2 == "" {
		return "0"
	}

	lastComma := strings.LastIndex(s2, ",")
	lastDot := strings.LastIndex(s2, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		// Mixed separators. "10,000.00" must pick the dot even though a
		// lone-comma reading would call the comma decimal.
		if lastComma > lastDot {
			return stripToDigits(s2[:lastComma])
		}
		return stripToDigits(s2[:lastDot])
	case lastComma >= 0:
		if strings.Count(s2, ",") == 1 && hasTwoDigitTail(s2, lastComma) {
			return stripToDigits(s2[:lastComma])
		}
		return stripToDigits(s2)
	case lastDot >= 0:
		if strings.Count(s2, ".") == 1 && hasTwoDigitTail(s2, lastDot) {
			return stripToDigits(s2[:lastDot])
		}
		return stripToDigits(s2)
	default:
		return stripToDigits(s2)
	}
}

// hasTwoDigitTail reports whether exactly two digits follow the separator
// at index sep, i.e. the string ends in ",dd" or ".dd".
func hasTwoDigitTail(s string, sep int) bool {
	tail := s[sep+1:]
	if len(tail) != 2 {
		return false
	}
	return tail[0] >= '0' && tail[0] <= '9' && tail[1] >= '0' && tail[1] <= '9'
}

// stripToDigits drops everything but digits and trims leading zeros,
// never reducing the result below "0".
func stripToDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	d := strings.TrimLeft(b.String(), "0")
	if d == "" {
		return "0"
	}
	return d
}
