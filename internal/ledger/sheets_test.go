package ledger

import (
	"testing"
	"time"

	"github.com/rakhadi/duitbot/internal/receipt"
)

func TestBuildRow(t *testing.T) {
	now := time.Date(2025, time.September, 1, 14, 30, 0, 0, time.UTC)
	note := "transport ke kantor"

	tx := receipt.Transaction{
		Amount:    "25000",
		Recipient: "Gojek",
		Kind:      receipt.KindManualEntry,
		Note:      &note,
	}

	row := buildRow(tx, now)
	if len(row) != 5 {
		t.Fatalf("row has %d columns, want 5", len(row))
	}
	if row[0] != "2025-09-01 14:30:00" {
		t.Errorf("timestamp = %v, want 2025-09-01 14:30:00", row[0])
	}
	if row[1] != int64(25000) {
		t.Errorf("amount = %v (%T), want int64 25000", row[1], row[1])
	}
	if row[2] != "Catatan Manual" {
		t.Errorf("kind = %v, want Catatan Manual", row[2])
	}
	if row[3] != "Gojek" {
		t.Errorf("recipient = %v, want Gojek", row[3])
	}
	if row[4] != note {
		t.Errorf("note = %v, want %q", row[4], note)
	}
}

func TestBuildRow_NoNote(t *testing.T) {
	tx := receipt.Transaction{Amount: "48000", Recipient: "Budi", Kind: receipt.KindTransferBlu}
	row := buildRow(tx, time.Now())
	if row[4] != "" {
		t.Errorf("note = %v, want empty string for absent note", row[4])
	}
}

func TestBuildRow_UnparseableAmountKeptAsString(t *testing.T) {
	tx := receipt.Transaction{Amount: "", Recipient: "Budi", Kind: receipt.KindOther}
	row := buildRow(tx, time.Now())
	if row[1] != "" {
		t.Errorf("amount = %v, want raw string passthrough", row[1])
	}
}
