package receipt

import "strings"

// Keyword signatures per document kind. The sets overlap (a blu receipt can
// mention "kasir"-style words), so classification runs in a fixed priority
// order: blu, then BCA legacy, then retail.

var bluKeywords = []string{
	"no. ref blu", "ref blu", "aplikasi blu", "blu by bca digital", "\nblu", " blu ",
	"tipe transaksi", "kategori", "qris",
}

var retailKeywords = []string{
	"subtotal", "sub total", "pajak", "ppn", "kembalian", "kasir", "no trx", "member", "dine in",
}

func isBlu(textLower string) bool {
	for _, k := range bluKeywords {
		if strings.Contains(textLower, k) {
			return true
		}
	}
	return strings.Contains(textLower, "transaksi berhasil") && strings.Contains(textLower, "qris")
}

func isBCALegacy(textLower string) bool {
	return strings.Contains(textLower, "m-transfer") && strings.Contains(textLower, "berhasil")
}

func isRetailReceipt(textLower string) bool {
	for _, k := range retailKeywords {
		if strings.Contains(textLower, k) {
			return true
		}
	}
	return false
}

// Classify labels raw OCR text with a document kind. The boolean is false
// when no signature fires; callers treat that as "this tier declined", not
// as an error.
func Classify(text string) (Kind, bool) {
	tl := strings.ToLower(text)
	switch {
	case isBlu(tl):
		return KindTransferBlu, true
	case isBCALegacy(tl):
		return KindTransferBCA, true
	case isRetailReceipt(tl):
		return KindRetailReceipt, true
	default:
		return KindOther, false
	}
}
