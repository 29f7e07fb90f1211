package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"grocery-sorter/internal/config"
	"grocery-sorter/internal/database"
	"grocery-sorter/internal/handlers"
	"grocery-sorter/internal/logging"
	"grocery-sorter/internal/middleware"
	"grocery-sorter/internal/repository"
	"grocery-sorter/internal/vocabulary"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(cfg.RulesDB)
	if err != nil {
		return fmt.Errorf("open rules db: %w", err)
	}
	defer db.Close()

	csrfStore := middleware.NewCSRFTokenStore(30*time.Minute, 10*time.Minute)
	defer csrfStore.Close()

	h, err := newHandler(ctx, cfg, repository.NewRuleRepository(db), csrfStore, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           h.Router(cfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", cfg.ListenAddr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newHandler seeds an empty rule store and builds the handler. The catch-all
// name comes from CATCH_ALL_CATEGORY when set, otherwise from the vocabulary.
func newHandler(ctx context.Context, cfg *config.Cfg, rules repository.RuleRepository, csrf *middleware.CSRFTokenStore, logger *zap.Logger) (*handlers.Handler, error) {
	vocab := vocabulary.Default()
	source := "built-in"
	if cfg.VocabularyFile != "" {
		v, err := vocabulary.Load(cfg.VocabularyFile)
		if err != nil {
			return nil, err
		}
		vocab, source = v, cfg.VocabularyFile
	}

	if err := seed(ctx, rules, vocab, source, logger); err != nil {
		return nil, err
	}

	catchAll := cfg.CatchAll
	if catchAll == "" {
		catchAll = vocab.CatchAll
	}
	return handlers.New(ctx, rules, csrf, catchAll, logger)
}

func seed(ctx context.Context, rules repository.RuleRepository, vocab *vocabulary.Vocabulary, source string, logger *zap.Logger) error {
	existing, err := rules.Count(ctx)
	if err != nil {
		return fmt.Errorf("count rules: %w", err)
	}
	if existing > 0 {
		logger.Info("using existing rule store", zap.Int("rules", existing))
		return nil
	}

	added, err := rules.Seed(ctx, vocab.Categories)
	if err != nil {
		return fmt.Errorf("seed rules: %w", err)
	}
	logger.Info("seeded rule store", zap.String("source", source), zap.Int("rules", added))
	return nil
}
