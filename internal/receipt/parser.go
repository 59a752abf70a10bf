package receipt

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// Parser is the tiered extraction pipeline: fast regex patterns over OCR
// text first, escalation to the vision model when every pattern declines,
// and a reconciliation pass over whichever tier produced a result.
type Parser struct {
	vision VisionModel
	log    zerolog.Logger
}

// NewParser wires the pipeline with the given vision fallback.
func NewParser(vision VisionModel, log zerolog.Logger) *Parser {
	return &Parser{vision: vision, log: log}
}

// ParseReceipt extracts a transaction from a receipt image. ocrText is the
// recognized text of imageBytes; userCaption, when non-empty, becomes the
// transaction note. A nil result means every tier declined; that is the
// "could not read this" outcome, not an error.
func (p *Parser) ParseReceipt(ctx context.Context, ocrText string, imageBytes []byte, userCaption string) *Transaction {
	tx, ok := extractWithPatterns(ocrText)
	if ok {
		p.log.Debug().Str("kind", string(tx.Kind)).Msg("Pattern tier matched")
	} else {
		var err error
		tx, err = parseWithVision(ctx, p.vision, imageBytes, ocrText)
		if err != nil {
			// Vision failure is tier failure; with patterns already
			// declined the pipeline is exhausted.
			p.log.Warn().Err(err).Msg("Vision tier failed")
			return nil
		}
	}

	// Reconciliation: caption beats any note the vision tier found, the
	// amount is re-normalized no matter which tier produced it, and a blu
	// signature in the OCR text overrides any inferred kind.
	if userCaption != "" {
		caption := userCaption
		tx.Note = &caption
	}
	tx.Amount = NormalizeAmount(tx.Amount)
	if isBlu(strings.ToLower(ocrText)) {
		tx.Kind = KindTransferBlu
	}
	return tx
}
