// Package ledger persists extracted transactions into a spreadsheet, one
// worksheet per calendar month.
package ledger

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/rakhadi/duitbot/internal/receipt"
)

// Ledger appends one transaction row and returns a link the user can open.
type Ledger interface {
	Append(ctx context.Context, tx receipt.Transaction) (string, error)
}

var headerRow = []interface{}{"Tanggal", "Jumlah", "Tipe", "Penerima/Toko", "Catatan"}

// SheetsLedger writes rows into a Google Sheets spreadsheet. The worksheet
// for the current month is created on first use with a header row.
type SheetsLedger struct {
	svc           *sheets.Service
	spreadsheetID string

	now func() time.Time
}

// NewSheetsLedger creates a ledger over the given spreadsheet. Credentials
// come from Application Default Credentials unless overridden via opts.
func NewSheetsLedger(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*SheetsLedger, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("NewSheetsLedger: spreadsheet ID is required")
	}
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewSheetsLedger: create sheets service: %w", err)
	}
	return &SheetsLedger{svc: svc, spreadsheetID: spreadsheetID, now: time.Now}, nil
}

// Append writes the transaction as a row in this month's worksheet and
// returns the spreadsheet URL.
func (l *SheetsLedger) Append(ctx context.Context, tx receipt.Transaction) (string, error) {
	now := l.now()
	sheetName := now.Month().String()

	if err := l.ensureSheet(ctx, sheetName); err != nil {
		return "", err
	}

	vr := &sheets.ValueRange{Values: [][]interface{}{buildRow(tx, now)}}
	_, err := l.svc.Spreadsheets.Values.
		Append(l.spreadsheetID, sheetName, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("SheetsLedger.Append: append row to %q: %w", sheetName, err)
	}

	return l.URL(), nil
}

// URL returns the browser link to the spreadsheet.
func (l *SheetsLedger) URL() string {
	return "https://docs.google.com/spreadsheets/d/" + l.spreadsheetID
}

// ensureSheet creates the named worksheet with a header row when it does
// not exist yet.
func (l *SheetsLedger) ensureSheet(ctx context.Context, name string) error {
	ss, err := l.svc.Spreadsheets.Get(l.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("ensureSheet: get spreadsheet: %w", err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == name {
			return nil
		}
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: name}}},
		},
	}
	if _, err := l.svc.Spreadsheets.BatchUpdate(l.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("ensureSheet: add sheet %q: %w", name, err)
	}

	header := &sheets.ValueRange{Values: [][]interface{}{headerRow}}
	_, err = l.svc.Spreadsheets.Values.
		Append(l.spreadsheetID, name, header).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("ensureSheet: write header to %q: %w", name, err)
	}
	return nil
}

// buildRow maps a transaction onto the fixed ledger columns. The amount is
// written as a number when it parses, so the spreadsheet can sum it.
func buildRow(tx receipt.Transaction, now time.Time) []interface{} {
	var amount interface{} = tx.Amount
	if n, err := strconv.ParseInt(tx.Amount, 10, 64); err == nil {
		amount = n
	}

	note := ""
	if tx.Note != nil {
		note = *tx.Note
	}

	return []interface{}{
		now.Format("2006-01-02 15:04:05"),
		amount,
		string(tx.Kind),
		tx.Recipient,
		note,
	}
}
