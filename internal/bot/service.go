// Package bot routes inbound chat messages through the extraction
// pipeline and shapes the replies.
package bot

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rakhadi/duitbot/internal/archive"
	"github.com/rakhadi/duitbot/internal/ledger"
	"github.com/rakhadi/duitbot/internal/ocr"
	"github.com/rakhadi/duitbot/internal/pending"
	"github.com/rakhadi/duitbot/internal/receipt"
)

// Payload is one inbound chat message as delivered by the webhook bridge.
type Payload struct {
	Sender  string `json:"sender"`
	Message string `json:"message"`
	Image   *Image `json:"image,omitempty"`
}

// Image is an attached picture, base64-encoded by the bridge.
type Image struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

// Service handles chat messages end to end: image messages run through the
// extraction pipeline, text messages are pending-note completions, manual
// entries, or help requests.
type Service struct {
	ocr     ocr.TextRecognizer
	parser  *receipt.Parser
	ledger  ledger.Ledger
	pending *pending.Store
	archive archive.Archive // nil disables image archiving
	log     zerolog.Logger
}

// NewService wires a message handler from its collaborators.
func NewService(
	recognizer ocr.TextRecognizer,
	parser *receipt.Parser,
	ldg ledger.Ledger,
	pendingStore *pending.Store,
	arc archive.Archive,
	log zerolog.Logger,
) *Service {
	return &Service{
		ocr:     recognizer,
		parser:  parser,
		ledger:  ldg,
		pending: pendingStore,
		archive: arc,
		log:     log,
	}
}

// Handle processes one message and returns the reply text. Images take
// priority over any message body, which then acts as the caption.
func (s *Service) Handle(ctx context.Context, p Payload) string {
	body := strings.TrimSpace(p.Message)

	switch {
	case p.Image != nil:
		return s.handleImage(ctx, p.Sender, p.Image, body)
	case body != "":
		return s.handleText(ctx, p.Sender, body)
	default:
		return replyEmpty
	}
}

func (s *Service) handleImage(ctx context.Context, sender string, img *Image, caption string) string {
	data, err := base64.StdEncoding.DecodeString(img.Data)
	if err != nil {
		s.log.Error().Err(err).Str("sender", sender).Msg("Failed to decode image payload")
		return replyInternalError
	}

	if s.archive != nil {
		uri, err := s.archive.SaveImage(ctx, sender, data)
		if err != nil {
			// Archiving is best-effort; extraction continues.
			s.log.Warn().Err(err).Str("sender", sender).Msg("Failed to archive receipt image")
		} else {
			s.log.Debug().Str("uri", uri).Msg("Receipt image archived")
		}
	}

	text, err := s.ocr.RecognizeText(ctx, data)
	if err != nil {
		s.log.Error().Err(err).Str("sender", sender).Msg("OCR failed")
		return replyInternalError
	}

	tx := s.parser.ParseReceipt(ctx, text, data, caption)
	if tx == nil {
		return replyUnreadable
	}

	if !tx.HasNote() && caption == "" {
		// Hold the transaction until the sender replies with a note.
		s.pending.Put(sender, *tx)
		return replyAskForNote
	}

	return s.record(ctx, sender, *tx)
}

func (s *Service) handleText(ctx context.Context, sender, body string) string {
	// A pending transaction wins over every other reading of the text:
	// the message body is its missing note.
	if tx, ok := s.pending.Take(sender); ok {
		note := body
		tx.Note = &note
		return s.record(ctx, sender, tx)
	}

	if helpKeywords[strings.ToLower(body)] {
		return replyHelp
	}

	if parts := strings.Split(body, "#"); len(parts) >= 2 {
		amount := strings.TrimSpace(parts[0])
		recipient := strings.TrimSpace(parts[1])
		note := "-"
		if len(parts) >= 3 {
			note = strings.TrimSpace(parts[2])
		}

		if !isAllDigits(amount) {
			return replyBadAmountFormat
		}

		tx := receipt.Transaction{
			Amount:    amount,
			Recipient: recipient,
			Kind:      receipt.KindManualEntry,
			Note:      &note,
		}
		return s.record(ctx, sender, tx)
	}

	return replyUnparseable
}

// record appends the transaction to the ledger and builds the reply.
// Extraction already succeeded at this point, so a ledger failure is
// reported as "read but not recorded" rather than a total failure.
func (s *Service) record(ctx context.Context, sender string, tx receipt.Transaction) string {
	url, err := s.ledger.Append(ctx, tx)
	if err != nil {
		s.log.Error().Err(err).Str("sender", sender).Str("kind", string(tx.Kind)).Msg("Ledger append failed")
		return replyLedgerDown
	}

	s.log.Info().
		Str("sender", sender).
		Str("kind", string(tx.Kind)).
		Str("amount", tx.Amount).
		Str("recipient", tx.Recipient).
		Msg("Transaction recorded")

	return successMessage(tx, url)
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
