package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/api/option"

	"github.com/rakhadi/duitbot/internal/api/handlers"
	"github.com/rakhadi/duitbot/internal/api/middleware"
	"github.com/rakhadi/duitbot/internal/archive"
	"github.com/rakhadi/duitbot/internal/bot"
	"github.com/rakhadi/duitbot/internal/ledger"
	"github.com/rakhadi/duitbot/internal/logger"
	"github.com/rakhadi/duitbot/internal/ocr"
	"github.com/rakhadi/duitbot/internal/pending"
	"github.com/rakhadi/duitbot/internal/receipt"
)

func main() {
	var (
		port        = flag.String("port", envOr("PORT", "8080"), "HTTP server port")
		sheetID     = flag.String("sheet", os.Getenv("SPREADSHEET_ID"), "Google Sheets spreadsheet ID (or set SPREADSHEET_ID env)")
		bucket      = flag.String("bucket", os.Getenv("GCS_BUCKET"), "GCS bucket for receipt image archiving (or set GCS_BUCKET env)")
		credentials = flag.String("credentials", os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"), "Service account key file (or set GOOGLE_APPLICATION_CREDENTIALS env)")
		pendingTTL  = flag.Duration("pending-ttl", pending.DefaultTTL, "How long a noteless receipt waits for its note")
	)
	flag.Parse()

	log := logger.New()

	if *sheetID == "" {
		log.Fatal().Msg("No spreadsheet configured - set SPREADSHEET_ID or pass --sheet")
	}
	if *bucket == "" {
		log.Warn().Msg("No GCS bucket configured - receipt images will not be archived")
	}

	ctx := context.Background()

	var clientOpts []option.ClientOption
	if *credentials != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(*credentials))
	}

	recognizer, err := ocr.NewGoogleOCR(ctx, clientOpts...)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create OCR client")
	}

	ldg, err := ledger.NewSheetsLedger(ctx, *sheetID, clientOpts...)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Sheets ledger")
	}

	var arc archive.Archive
	if *bucket != "" {
		arc = archive.NewGCSArchive(*bucket)
	}

	pendingStore := pending.NewStore(*pendingTTL)
	parser := receipt.NewParser(receipt.NewGeminiVision(), log)
	svc := bot.NewService(recognizer, parser, ldg, pendingStore, arc, log)

	// Sweep expired pending entries in the background
	sweepCtx, cancelSweep := context.WithCancel(ctx)
	defer cancelSweep()
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				if n := pendingStore.Sweep(); n > 0 {
					log.Info().Int("expired", n).Msg("Swept expired pending transactions")
				}
			}
		}
	}()

	webhookHandler := handlers.NewWebhookHandler(svc, log)

	mux := http.NewServeMux()

	mux.HandleFunc("/webhook", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			webhookHandler.Receive(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/health", webhookHandler.Health)

	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(mux),
		),
	)

	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", *port).Msg("Starting bot server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cancelSweep()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
