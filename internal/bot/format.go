package bot

import (
	"strings"

	"github.com/rakhadi/duitbot/internal/receipt"
)

// FormatRupiah renders a normalized digit string as a display amount with
// Indonesian thousands separators, e.g. "48000" -> "Rp48.000".
func FormatRupiah(digits string) string {
	if digits == "" {
		digits = "0"
	}
	var b strings.Builder
	b.WriteString("Rp")
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// successMessage is the confirmation sent after a transaction landed in
// the ledger.
func successMessage(tx receipt.Transaction, url string) string {
	var b strings.Builder
	b.WriteString("Sip! 📝\n")
	b.WriteString("*" + string(tx.Kind) + "* sebesar *" + FormatRupiah(tx.Amount) + "* ke *" + tx.Recipient + "* udah dicatat. ✅\n")

	if tx.HasNote() && *tx.Note != "-" {
		b.WriteString("Catatan: _" + *tx.Note + "_\n\n")
	} else {
		b.WriteString("\n")
	}

	b.WriteString("Cek laporannya di sini:\n" + url)
	return b.String()
}
