package receipt

import (
	"regexp"
	"strings"
)

// Regex recipes per document kind. These are deliberately narrow: an
// extractor that is not sure declines, and the caller escalates to the
// vision tier.
var (
	bluAmountRe    = regexp.MustCompile(`(?i)(?:Nominal|Total)\s*(?:\n|:)\s*Rp\s*([\d.,]+)`)
	bluAmountIDRRe = regexp.MustCompile(`(?i)\bIDR\s*([\d.,]+)`)
	bluDenyLineRe  = regexp.MustCompile(`(?i)^(TANGERANG|TIPE TRANSAKSI|KATEGORI|NO\.?\s*REF|BENEFICIARY|IDR|BCA\s*-|Transfer Method)`)
	bluRpLineRe    = regexp.MustCompile(`(?i)^Rp\b`)
	beneficiaryRe  = regexp.MustCompile(`(?i)Beneficiary Name\s*\n\s*([^\n]+)`)

	bcaRecipientRe = regexp.MustCompile(`\n([A-Z\s]+)\nRp`)
	bcaAmountRe    = regexp.MustCompile(`Rp[.\s]*([\d.,]+)`)

	retailTotalRe      = regexp.MustCompile(`(?i)\bTotal(?: Belanja)?(?:\s*[:\-]?\s*Rp?)?\s*\n\s*([\d.,]+)`)
	retailGrandTotalRe = regexp.MustCompile(`(?i)\bGrand\s*Total(?:\s*[:\-]?\s*Rp?)?\s*\n?\s*([\d.,]+)`)
	companyLineRe      = regexp.MustCompile(`(?i)^\s*(PT|CV)\b`)
	boilerplateLineRe  = regexp.MustCompile(`(?i)(beepos|pos|npwp|alamat|jl\.|jl\s|jalan)`)
)

// extractWithPatterns runs the per-kind extractors in fixed priority order
// and returns the first hit. False means the whole pattern tier declined.
func extractWithPatterns(text string) (*Transaction, bool) {
	if tx, ok := extractBlu(text); ok {
		return tx, true
	}
	if tx, ok := extractBCALegacy(text); ok {
		return tx, true
	}
	if tx, ok := extractRetail(text); ok {
		return tx, true
	}
	return nil, false
}

// extractBlu handles transfer receipts from the blu app, including the
// English-language "Transfer Successful" variant.
func extractBlu(text string) (*Transaction, bool) {
	tl := strings.ToLower(text)
	if !isBlu(tl) && !strings.Contains(tl, "transfer successful") {
		return nil, false
	}

	m := bluAmountRe.FindStringSubmatchIndex(text)
	if m == nil {
		m = bluAmountIDRRe.FindStringSubmatchIndex(text)
	}
	if m == nil {
		return nil, false
	}
	amount := NormalizeAmount(text[m[2]:m[3]])

	// The recipient is the first line after the amount that is not a
	// field label or another amount.
	recipient := ""
	tail := text[m[1]:]
	for _, ln := range strings.Split(tail, "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" {
			continue
		}
		if bluDenyLineRe.MatchString(ln) || bluRpLineRe.MatchString(ln) {
			continue
		}
		recipient = ln
		break
	}

	// English-layout receipts label the recipient explicitly instead.
	if recipient == "" {
		if bm := beneficiaryRe.FindStringSubmatch(text); bm != nil {
			recipient = strings.TrimSpace(bm[1])
		}
	}

	return &Transaction{Amount: amount, Recipient: recipient, Kind: KindTransferBlu}, true
}

// extractBCALegacy handles the old BCA m-transfer receipt layout: the
// recipient is the ALL-CAPS line right above the Rp line.
func extractBCALegacy(text string) (*Transaction, bool) {
	if !isBCALegacy(strings.ToLower(text)) {
		return nil, false
	}

	recipient := ""
	if rm := bcaRecipientRe.FindStringSubmatch(text); rm != nil {
		recipient = strings.TrimSpace(rm[1])
	}

	amount := "0"
	if am := bcaAmountRe.FindStringSubmatch(text); am != nil {
		amount = NormalizeAmount(am[1])
	}
	if amount == "0" {
		return nil, false
	}

	return &Transaction{Amount: amount, Recipient: recipient, Kind: KindTransferBCA}, true
}

// extractRetail handles point-of-sale receipts.
func extractRetail(text string) (*Transaction, bool) {
	if !isRetailReceipt(strings.ToLower(text)) {
		return nil, false
	}

	am := retailTotalRe.FindStringSubmatch(text)
	if am == nil {
		am = retailGrandTotalRe.FindStringSubmatch(text)
	}
	if am == nil {
		return nil, false
	}
	amount := NormalizeAmount(am[1])

	recipient := extractCompanyLine(text)
	if recipient == "" {
		lines := nonBlankLines(text)
		if len(lines) > 0 {
			// The first line is often printer boilerplate (POS vendor,
			// tax ID, address); prefer the second line in that case.
			if boilerplateLineRe.MatchString(lines[0]) && len(lines) > 1 {
				recipient = lines[1]
			} else {
				recipient = lines[0]
			}
		}
	}

	return &Transaction{Amount: amount, Recipient: recipient, Kind: KindRetailReceipt}, true
}

// extractCompanyLine returns the first line starting with a PT/CV legal
// entity prefix, or "" when there is none.
func extractCompanyLine(text string) string {
	for _, ln := range strings.Split(text, "\n") {
		if companyLineRe.MatchString(ln) {
			return strings.TrimSpace(ln)
		}
	}
	return ""
}

func nonBlankLines(text string) []string {
	var lines []string
	for _, ln := range strings.Split(text, "\n") {
		ln = strings.TrimSpace(ln)
		if ln != "" {
			lines = append(lines, ln)
		}
	}
	return lines
}
