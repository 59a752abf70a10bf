package bot

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/rakhadi/duitbot/internal/pending"
	"github.com/rakhadi/duitbot/internal/receipt"
)

const bluReceiptText = "Transaksi berhasil\nQRIS\nNominal\nRp 48.000,00\nTANGERANG\nBudi Santoso\n"

type fakeOCR struct {
	text string
	err  error
}

func (f *fakeOCR) RecognizeText(ctx context.Context, imageBytes []byte) (string, error) {
	return f.text, f.err
}

type fakeLedger struct {
	appends []receipt.Transaction
	url     string
	err     error
}

func (f *fakeLedger) Append(ctx context.Context, tx receipt.Transaction) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.appends = append(f.appends, tx)
	return f.url, nil
}

type fakeVision struct {
	response string
	err      error
}

func (f *fakeVision) Generate(ctx context.Context, prompt string, imageBytes []byte) (string, error) {
	return f.response, f.err
}

type fixture struct {
	svc     *Service
	ocr     *fakeOCR
	ledger  *fakeLedger
	pending *pending.Store
}

func newFixture(ocrText string, vision *fakeVision) *fixture {
	o := &fakeOCR{text: ocrText}
	l := &fakeLedger{url: "https://docs.google.com/spreadsheets/d/test"}
	p := pending.NewStore(time.Hour)
	parser := receipt.NewParser(vision, zerolog.Nop())
	return &fixture{
		svc:     NewService(o, parser, l, p, nil, zerolog.Nop()),
		ocr:     o,
		ledger:  l,
		pending: p,
	}
}

func imagePayload(sender, caption string) Payload {
	return Payload{
		Sender:  sender,
		Message: caption,
		Image: &Image{
			MimeType: "image/jpeg",
			Data:     base64.StdEncoding.EncodeToString([]byte("fake-jpeg-bytes")),
		},
	}
}

func TestHandle_ManualEntry(t *testing.T) {
	f := newFixture("", &fakeVision{err: errors.New("unused")})

	reply := f.svc.Handle(context.Background(), Payload{
		Sender:  "sender-1",
		Message: "25000#Gojek#transport ke kantor",
	})

	if len(f.ledger.appends) != 1 {
		t.Fatalf("ledger got %d appends, want 1", len(f.ledger.appends))
	}
	tx := f.ledger.appends[0]
	if tx.Amount != "25000" || tx.Recipient != "Gojek" || tx.Kind != receipt.KindManualEntry {
		t.Errorf("appended %+v, want 25000/Gojek/manual entry", tx)
	}
	if tx.Note == nil || *tx.Note != "transport ke kantor" {
		t.Errorf("Note = %v, want transport ke kantor", tx.Note)
	}
	if !strings.Contains(reply, "Rp25.000") || !strings.Contains(reply, "Gojek") {
		t.Errorf("reply %q missing amount or recipient", reply)
	}
	if !strings.Contains(reply, f.ledger.url) {
		t.Errorf("reply %q missing ledger URL", reply)
	}
}

func TestHandle_ManualEntryDefaultNote(t *testing.T) {
	f := newFixture("", &fakeVision{})

	f.svc.Handle(context.Background(), Payload{Sender: "s", Message: "15000#Warung"})

	if len(f.ledger.appends) != 1 {
		t.Fatalf("ledger got %d appends, want 1", len(f.ledger.appends))
	}
	if n := f.ledger.appends[0].Note; n == nil || *n != "-" {
		t.Errorf("Note = %v, want default \"-\"", n)
	}
}

func TestHandle_ManualEntryBadAmount(t *testing.T) {
	f := newFixture("", &fakeVision{})

	reply := f.svc.Handle(context.Background(), Payload{
		Sender:  "sender-1",
		Message: "abc#Gojek",
	})

	if reply != replyBadAmountFormat {
		t.Errorf("reply = %q, want format-error hint", reply)
	}
	if len(f.ledger.appends) != 0 {
		t.Errorf("ledger got %d appends, want 0 (no persistence on bad input)", len(f.ledger.appends))
	}
}

func TestHandle_HelpKeyword(t *testing.T) {
	f := newFixture("", &fakeVision{})

	for _, kw := range []string{"bantuan", "HELP", "halo"} {
		if reply := f.svc.Handle(context.Background(), Payload{Sender: "s", Message: kw}); reply != replyHelp {
			t.Errorf("Handle(%q) = %q, want help text", kw, reply)
		}
	}
	if len(f.ledger.appends) != 0 {
		t.Errorf("help keywords must not persist anything")
	}
}

func TestHandle_EmptyMessage(t *testing.T) {
	f := newFixture("", &fakeVision{})
	if reply := f.svc.Handle(context.Background(), Payload{Sender: "s"}); reply != replyEmpty {
		t.Errorf("reply = %q, want empty-message hint", reply)
	}
}

func TestHandle_UnparseableText(t *testing.T) {
	f := newFixture("", &fakeVision{})
	if reply := f.svc.Handle(context.Background(), Payload{Sender: "s", Message: "gimana kabarnya"}); reply != replyUnparseable {
		t.Errorf("reply = %q, want unparseable hint", reply)
	}
}

func TestHandle_ImageWithCaption(t *testing.T) {
	f := newFixture(bluReceiptText, &fakeVision{err: errors.New("unused")})

	reply := f.svc.Handle(context.Background(), imagePayload("sender-1", "bayar utang"))

	if len(f.ledger.appends) != 1 {
		t.Fatalf("ledger got %d appends, want 1", len(f.ledger.appends))
	}
	tx := f.ledger.appends[0]
	if tx.Amount != "48000" || tx.Recipient != "Budi Santoso" || tx.Kind != receipt.KindTransferBlu {
		t.Errorf("appended %+v, want blu transfer 48000 to Budi Santoso", tx)
	}
	if tx.Note == nil || *tx.Note != "bayar utang" {
		t.Errorf("Note = %v, want caption", tx.Note)
	}
	if !strings.Contains(reply, "Rp48.000") {
		t.Errorf("reply %q missing formatted amount", reply)
	}
}

// A noteless image parks the transaction; the next text message from the
// same sender completes it; a repeat of that text is ordinary text again.
func TestHandle_PendingNoteFlow(t *testing.T) {
	f := newFixture(bluReceiptText, &fakeVision{err: errors.New("unused")})
	ctx := context.Background()

	reply := f.svc.Handle(ctx, imagePayload("sender-1", ""))
	if reply != replyAskForNote {
		t.Fatalf("image reply = %q, want ask-for-note", reply)
	}
	if len(f.ledger.appends) != 0 {
		t.Fatalf("noteless image must not be persisted yet")
	}

	reply = f.svc.Handle(ctx, Payload{Sender: "sender-1", Message: "makan siang tim"})
	if len(f.ledger.appends) != 1 {
		t.Fatalf("ledger got %d appends after note, want 1", len(f.ledger.appends))
	}
	tx := f.ledger.appends[0]
	if tx.Note == nil || *tx.Note != "makan siang tim" {
		t.Errorf("Note = %v, want follow-up text", tx.Note)
	}
	if !strings.Contains(reply, "udah dicatat") {
		t.Errorf("completion reply = %q, want confirmation", reply)
	}

	// Entry consumed: the identical text now reads as ordinary text.
	reply = f.svc.Handle(ctx, Payload{Sender: "sender-1", Message: "makan siang tim"})
	if reply != replyUnparseable {
		t.Errorf("repeat text reply = %q, want unparseable hint", reply)
	}
	if len(f.ledger.appends) != 1 {
		t.Errorf("ledger got %d appends, want still 1", len(f.ledger.appends))
	}
}

// The pending entry belongs to one sender only.
func TestHandle_PendingIsPerSender(t *testing.T) {
	f := newFixture(bluReceiptText, &fakeVision{err: errors.New("unused")})
	ctx := context.Background()

	f.svc.Handle(ctx, imagePayload("sender-1", ""))

	if reply := f.svc.Handle(ctx, Payload{Sender: "sender-2", Message: "catatan nyasar"}); reply != replyUnparseable {
		t.Errorf("other sender reply = %q, want unparseable hint", reply)
	}
	if _, ok := f.pending.Get("sender-1"); !ok {
		t.Error("sender-1's pending entry was consumed by another sender")
	}
}

// A pending note wins even over text that looks like a help keyword or a
// manual entry.
func TestHandle_PendingBeatsOtherReadings(t *testing.T) {
	f := newFixture(bluReceiptText, &fakeVision{err: errors.New("unused")})
	ctx := context.Background()

	f.svc.Handle(ctx, imagePayload("sender-1", ""))
	f.svc.Handle(ctx, Payload{Sender: "sender-1", Message: "bantuan"})

	if len(f.ledger.appends) != 1 {
		t.Fatalf("ledger got %d appends, want 1", len(f.ledger.appends))
	}
	if n := f.ledger.appends[0].Note; n == nil || *n != "bantuan" {
		t.Errorf("Note = %v, want the literal text as note", n)
	}
}

func TestHandle_OCRFailure(t *testing.T) {
	f := newFixture("", &fakeVision{})
	f.ocr.err = errors.New("vision API unavailable")

	if reply := f.svc.Handle(context.Background(), imagePayload("s", "")); reply != replyInternalError {
		t.Errorf("reply = %q, want internal-error apology", reply)
	}
}

func TestHandle_PipelineExhausted(t *testing.T) {
	f := newFixture("tulisan buram", &fakeVision{err: errors.New("model down")})

	if reply := f.svc.Handle(context.Background(), imagePayload("s", "")); reply != replyUnreadable {
		t.Errorf("reply = %q, want retake-photo message", reply)
	}
	if len(f.ledger.appends) != 0 {
		t.Errorf("exhausted pipeline must not persist anything")
	}
}

func TestHandle_LedgerFailureAfterExtraction(t *testing.T) {
	f := newFixture(bluReceiptText, &fakeVision{err: errors.New("unused")})
	f.ledger.err = errors.New("quota exceeded")

	reply := f.svc.Handle(context.Background(), imagePayload("s", "bayar kopi"))
	if reply != replyLedgerDown {
		t.Errorf("reply = %q, want read-but-not-recorded message", reply)
	}
}

func TestHandle_BadImageEncoding(t *testing.T) {
	f := newFixture("", &fakeVision{})
	p := Payload{Sender: "s", Image: &Image{MimeType: "image/jpeg", Data: "%%% not base64 %%%"}}

	if reply := f.svc.Handle(context.Background(), p); reply != replyInternalError {
		t.Errorf("reply = %q, want internal-error apology", reply)
	}
}

func TestFormatRupiah(t *testing.T) {
	tests := []struct {
		digits string
		want   string
	}{
		{"0", "Rp0"},
		{"500", "Rp500"},
		{"25000", "Rp25.000"},
		{"48000", "Rp48.000"},
		{"1000000", "Rp1.000.000"},
		{"", "Rp0"},
	}
	for _, tt := range tests {
		t.Run(tt.digits, func(t *testing.T) {
			if got := FormatRupiah(tt.digits); got != tt.want {
				t.Errorf("FormatRupiah(%q) = %q, want %q", tt.digits, got, tt.want)
			}
		})
	}
}
