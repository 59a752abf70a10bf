package receipt

// Kind classifies the document a transaction was extracted from.
// The labels double as the display strings written to the ledger.
type Kind string

const (
	// KindTransferBlu is a transfer receipt from the blu by BCA Digital app.
	KindTransferBlu Kind = "Transfer BLU"
	// KindTransferBCA is a legacy BCA m-transfer receipt.
	KindTransferBCA Kind = "Transfer BCA"
	// KindRetailReceipt is a point-of-sale shopping receipt.
	KindRetailReceipt Kind = "Struk Belanja"
	// KindManualEntry is a transaction typed in by the user.
	KindManualEntry Kind = "Catatan Manual"
	// KindOther is anything the classifier could not place.
	KindOther Kind = "Lainnya"
)

// Transaction is one normalized expense ready to be written to the ledger.
type Transaction struct {
	// Amount is a digit-only rupiah amount with no separators and no
	// leading zeros. See NormalizeAmount.
	Amount string

	// Recipient names the merchant, payee, or transfer beneficiary.
	// May be empty when it could not be discovered.
	Recipient string

	Kind Kind

	// Note is the user-supplied annotation. nil means no note was ever
	// supplied, which is distinct from an explicitly empty note.
	Note *string
}

// HasNote reports whether a non-empty note is attached.
func (t *Transaction) HasNote() bool {
	return t.Note != nil && *t.Note != ""
}
