// main package for the narration tts-service: a NATS worker that turns
// Hinglish narration jobs into audio artifacts in the shared object store.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/book-expert/logger"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"github.com/soni0021/manim-narrator/internal/audiocache"
	"github.com/soni0021/manim-narrator/internal/backend/clone"
	"github.com/soni0021/manim-narrator/internal/backend/edge"
	"github.com/soni0021/manim-narrator/internal/backend/eleven"
	"github.com/soni0021/manim-narrator/internal/config"
	"github.com/soni0021/manim-narrator/internal/hinglish"
	"github.com/soni0021/manim-narrator/internal/manager"
	"github.com/soni0021/manim-narrator/internal/objectstore"
	"github.com/soni0021/manim-narrator/internal/ttsutils"
	"github.com/soni0021/manim-narrator/internal/voiceprofile"
	"github.com/soni0021/manim-narrator/internal/worker"
)

const logFileName = "tts-service.log"

func setupLogger(logPath string) (*logger.Logger, error) {
	log, err := logger.New(logPath, logFileName)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return log, nil
}

func run() error {
	// A temporary logger carries the bootstrap; the real one needs the
	// configured log directory, which we do not know yet.
	bootstrapLog, err := setupLogger(os.TempDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to create bootstrap logger: %v\n", err)

		return err
	}

	// .env is optional; the premium backend reads its key from the
	// environment and a developer .env is the convenient way to set it.
	_ = godotenv.Load()

	cfg, err := config.Load(bootstrapLog)
	if err != nil {
		bootstrapLog.Error("Failed to load configuration: %v", err)

		return fmt.Errorf("failed to load configuration: %w", err)
	}

	finalLog, err := setupLogger(cfg.Paths.BaseLogsDir)
	if err != nil {
		bootstrapLog.Error("Failed to create final logger: %v", err)

		return fmt.Errorf("failed to create final logger: %w", err)
	}

	defer func() {
		closeErr := finalLog.Close()
		if closeErr != nil {
			fmt.Fprintf(os.Stderr, "error closing final logger: %v\n", closeErr)
		}
	}()

	return runService(cfg, finalLog)
}

func runService(cfg *config.Config, log *logger.Logger) error {
	natsConnection, err := nats.Connect(cfg.NATS.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS at %s: %w", cfg.NATS.URL, err)
	}
	defer natsConnection.Close()

	jetstreamContext, err := natsConnection.JetStream()
	if err != nil {
		return fmt.Errorf("failed to create JetStream context: %w", err)
	}

	store, err := objectstore.New(jetstreamContext, cfg.NATS.AudioBucket)
	if err != nil {
		return fmt.Errorf("failed to initialize audio store: %w", err)
	}

	synthesisManager, err := buildManager(cfg, log)
	if err != nil {
		return err
	}

	natsWorker := worker.NewNatsWorker(
		natsConnection, cfg.NATS.NarrationJobSubject, store, synthesisManager, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.System("Narration service initialized. Listening for jobs on subject: %s",
		cfg.NATS.NarrationJobSubject)

	err = natsWorker.Run(ctx)
	if err != nil {
		return fmt.Errorf("worker stopped with error: %w", err)
	}

	return nil
}

// buildManager assembles the synthesis pipeline: text processor, voice
// profiles, audio cache, and the three speech backends.
func buildManager(cfg *config.Config, log *logger.Logger) (*manager.Manager, error) {
	cacheDir := cfg.Paths.CacheDir
	if cacheDir == "" {
		cacheDir = ttsutils.AudioCacheDir()
	}

	cache, err := audiocache.New(cacheDir, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio cache: %w", err)
	}

	voicesDir := cfg.Paths.ReferenceVoicesDir
	if voicesDir == "" {
		voicesDir = "reference_voices"
	}

	profiles, err := voiceprofile.New(voicesDir, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize voice profiles: %w", err)
	}

	return manager.New(
		hinglish.NewProcessor(),
		profiles,
		cache,
		log,
		edge.New(cfg.Backends.Edge, log),
		clone.New(cfg.Backends.Clone, log),
		eleven.New(cfg.Backends.Eleven, log),
	), nil
}

func main() {
	err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Service exited with error: %v\n", err)
		os.Exit(1)
	}
}
