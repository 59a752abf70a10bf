package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/rakhadi/duitbot/internal/bot"
	"github.com/rakhadi/duitbot/internal/ledger"
	"github.com/rakhadi/duitbot/internal/pending"
	"github.com/rakhadi/duitbot/internal/receipt"
)

type fakeLedger struct {
	appended int
}

func (f *fakeLedger) Append(ctx context.Context, tx receipt.Transaction) (string, error) {
	f.appended++
	return "https://docs.google.com/spreadsheets/d/test", nil
}

var _ ledger.Ledger = (*fakeLedger)(nil)

type fakeVision struct{}

func (fakeVision) Generate(ctx context.Context, prompt string, imageBytes []byte) (string, error) {
	return "", errors.New("not configured")
}

type fakeOCR struct{}

func (fakeOCR) RecognizeText(ctx context.Context, imageBytes []byte) (string, error) {
	return "", nil
}

func newHandler(ldg *fakeLedger) *WebhookHandler {
	svc := bot.NewService(
		fakeOCR{},
		receipt.NewParser(fakeVision{}, zerolog.Nop()),
		ldg,
		pending.NewStore(time.Hour),
		nil,
		zerolog.Nop(),
	)
	return NewWebhookHandler(svc, zerolog.Nop())
}

func TestReceive_ManualEntry(t *testing.T) {
	ldg := &fakeLedger{}
	h := newHandler(ldg)

	body := `{"sender":"628123","message":"25000#Gojek#transport"}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Receive(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["reply"] == "" {
		t.Error("reply is empty")
	}
	if ldg.appended != 1 {
		t.Errorf("ledger appended %d times, want 1", ldg.appended)
	}
}

func TestReceive_InvalidJSON(t *testing.T) {
	h := newHandler(&fakeLedger{})

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	h.Receive(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestReceive_MissingSender(t *testing.T) {
	h := newHandler(&fakeLedger{})

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"message":"halo"}`))
	rec := httptest.NewRecorder()

	h.Receive(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	h := newHandler(&fakeLedger{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	h.Health(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("body = %q, want ok status", rec.Body.String())
	}
}
