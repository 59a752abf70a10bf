package receipt

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/genai"
)

// VisionModel generates a free-form text response for a prompt plus a
// receipt image. The pipeline expects (but does not trust) the response to
// be a JSON object.
type VisionModel interface {
	Generate(ctx context.Context, prompt string, imageBytes []byte) (string, error)
}

// DefaultVisionModelName is the Gemini model used for receipt images.
const DefaultVisionModelName = "gemini-2.5-flash"

const visionPrompt = `Analisis gambar struk atau bukti transfer ini. Ekstrak informasi berikut secara akurat:
1. ` + "`jumlah`" + `: Total akhir pembayaran atau jumlah transfer. Jangan ambil subtotal.
2. ` + "`penerima`" + `: Nama toko, merchant, atau penerima transfer.
3. ` + "`tipe`" + `: Klasifikasikan sebagai "Struk Belanja", "Transfer BCA", "Transfer BLU", atau "Lainnya".
4. ` + "`catatan`" + `: Deskripsi, berita, atau catatan transfer jika ada. Jika tidak ada, kembalikan null.

Berikan jawaban HANYA dalam format JSON yang valid. Jika tidak yakin, kembalikan null untuk field tersebut.
Contoh: {"jumlah": "191475", "penerima": "Cafe Bee", "tipe": "Struk Belanja", "catatan": "Bayar kopi"}`

// GeminiVision is the production VisionModel backed by the Gemini API.
type GeminiVision struct {
	Model string
}

// NewGeminiVision returns a GeminiVision using DefaultVisionModelName.
func NewGeminiVision() *GeminiVision {
	return &GeminiVision{Model: DefaultVisionModelName}
}

// Generate sends the prompt and image to Gemini and returns the raw text
// response. Credentials come from the environment (GOOGLE_API_KEY).
func (g *GeminiVision) Generate(ctx context.Context, prompt string, imageBytes []byte) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return "", fmt.Errorf("GeminiVision.Generate: create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
				{
					InlineData: &genai.Blob{
						MIMEType: "image/jpeg",
						Data:     imageBytes,
					},
				},
			},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, g.Model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("GeminiVision.Generate: generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("GeminiVision.Generate: empty response from model")
	}
	return text, nil
}

// parseWithVision escalates to the vision model and repairs its answer with
// the deterministic heuristics: the amount is re-normalized (the model
// tends to read "48.000,00" as 4800000), an unknown tipe is re-classified
// from the OCR text, and a PT/CV company line in the OCR text always
// overrides the model's recipient. A transaction counts as found only when
// both a real amount and a recipient came back.
func parseWithVision(ctx context.Context, model VisionModel, imageBytes []byte, ocrText string) (*Transaction, error) {
	raw, err := model.Generate(ctx, visionPrompt, imageBytes)
	if err != nil {
		return nil, err
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(cleanModelJSON(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("parseWithVision: unmarshal model response: %w", err)
	}
	if parsed == nil {
		return nil, fmt.Errorf("parseWithVision: model returned non-object response")
	}

	tx := &Transaction{
		Amount:    NormalizeAmount(stringField(parsed, "jumlah")),
		Recipient: stringField(parsed, "penerima"),
	}
	if note := stringField(parsed, "catatan"); note != "" {
		tx.Note = &note
	}

	tx.Kind = repairKind(stringField(parsed, "tipe"), ocrText)

	if company := extractCompanyLine(ocrText); company != "" {
		tx.Recipient = company
	}

	if tx.Amount == "0" || tx.Recipient == "" {
		return nil, fmt.Errorf("parseWithVision: incomplete extraction (amount=%q, recipient=%q)", tx.Amount, tx.Recipient)
	}
	return tx, nil
}

// repairKind maps the model's tipe string onto the closed Kind set,
// falling back to the keyword heuristics over the OCR text when the model
// answered something outside it.
func repairKind(tipe, ocrText string) Kind {
	switch strings.ToLower(strings.TrimSpace(tipe)) {
	case "struk belanja":
		return KindRetailReceipt
	case "transfer bca":
		return KindTransferBCA
	case "transfer blu":
		return KindTransferBlu
	}
	if kind, ok := Classify(ocrText); ok {
		return kind
	}
	return KindOther
}

// cleanModelJSON strips Markdown code fences and any surrounding prose the
// model wrapped around its JSON object.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}
	return s
}

// stringField reads a field that the model may emit as string, number, or
// null. Missing and null both come back as "".
func stringField(m map[string]interface{}, key string) string {
	switch v := m[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
