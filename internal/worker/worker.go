// Package worker provides a NATS worker that processes narration synthesis
// jobs and publishes the finished audio into the object store.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/book-expert/logger"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/soni0021/manim-narrator/internal/core"
	"github.com/soni0021/manim-narrator/internal/manager"
	"github.com/soni0021/manim-narrator/internal/ttsutils"
)

// handleMessageTimeout bounds one job end to end: text adaptation, backend
// attempts including fallbacks, and the audio upload. Cloning on a cold
// model dominates this budget.
const handleMessageTimeout = 120 * time.Second

var (
	// ErrEmptyJobText indicates a job without narration text.
	ErrEmptyJobText = errors.New("job text cannot be empty")
	// ErrUnknownQuality indicates a quality outside the known tiers.
	ErrUnknownQuality = errors.New("unknown quality tier")
	// ErrUnknownSubject indicates a subject outside the known personas.
	ErrUnknownSubject = errors.New("unknown subject")
	// ErrSynthesisFailed indicates that every candidate backend failed.
	ErrSynthesisFailed = errors.New("all speech services failed or were unavailable")
)

// NarrationJob is the wire payload a producer publishes to request one
// narration line.
type NarrationJob struct {
	JobID    string `json:"job_id"`
	Text     string `json:"text"`
	Quality  string `json:"quality"`
	Subject  string `json:"subject"`
	UseCache bool   `json:"use_cache"`
}

// NarrationResult is the reply payload. AudioKey names the uploaded artifact
// in the audio bucket when OK is true; Error carries the failure reason
// otherwise.
type NarrationResult struct {
	JobID    string `json:"job_id"`
	AudioKey string `json:"audio_key,omitempty"`
	OK       bool   `json:"ok"`
	Error    string `json:"error,omitempty"`
}

// Synthesizer is the slice of the manager the worker needs. Satisfied by
// *manager.Manager; tests substitute a scripted implementation.
type Synthesizer interface {
	SynthesizeSpeech(ctx context.Context, text, outputPath string, opts manager.Options) bool
}

// NatsWorker listens for narration jobs on a NATS subject and processes
// them one at a time.
type NatsWorker struct {
	natsConnection *nats.Conn
	subject        string
	store          core.ObjectStore
	synthesizer    Synthesizer
	log            *logger.Logger
}

// NewNatsWorker creates a new instance of a NATS worker.
func NewNatsWorker(
	natsConnection *nats.Conn,
	subject string,
	store core.ObjectStore,
	synthesizer Synthesizer,
	log *logger.Logger,
) *NatsWorker {
	return &NatsWorker{
		natsConnection: natsConnection,
		subject:        subject,
		store:          store,
		synthesizer:    synthesizer,
		log:            log,
	}
}

// Run starts the worker and blocks until ctx is canceled, then drains the
// subscription so in-flight jobs finish.
func (w *NatsWorker) Run(ctx context.Context) error {
	sub, err := w.natsConnection.Subscribe(w.subject, w.handleMessage)
	if err != nil {
		return fmt.Errorf("failed to subscribe to subject %s: %w", w.subject, err)
	}

	<-ctx.Done()

	drainErr := sub.Drain()
	if drainErr != nil {
		return fmt.Errorf("failed to drain subscription: %w", drainErr)
	}

	return nil
}

func (w *NatsWorker) handleMessage(msg *nats.Msg) {
	ctx, cancel := context.WithTimeout(context.Background(), handleMessageTimeout)
	defer cancel()

	job, err := w.parseAndValidateJob(msg)
	if err != nil {
		w.log.Error("Rejecting narration job: %v", err)
		w.replyError(msg, job, err)

		return
	}

	audioKey, processErr := w.processNarrationJob(ctx, job)
	if processErr != nil {
		w.log.Error("Failed to process narration job %s: %v", job.JobID, processErr)
		w.replyError(msg, job, processErr)

		return
	}

	w.reply(msg, &NarrationResult{
		JobID:    job.JobID,
		AudioKey: audioKey,
		OK:       true,
		Error:    "",
	})
}

// processNarrationJob synthesizes the job into a private temporary file and
// uploads the audio under a fresh key. The temporary file never outlives the
// job, success or not. The job ID lands in the file name for traceability;
// it arrives over the wire, so it gets sanitized first.
func (w *NatsWorker) processNarrationJob(ctx context.Context, job *NarrationJob) (string, error) {
	tempName := ttsutils.SanitizeFilename(
		fmt.Sprintf("narration-job-%s-%s.wav", job.JobID, uuid.NewString()))
	outputPath := filepath.Join(os.TempDir(), tempName)

	defer func() {
		_ = os.Remove(outputPath)
	}()

	opts := manager.Options{
		Quality:  core.Quality(job.Quality),
		Subject:  core.Subject(job.Subject),
		UseCache: job.UseCache,
	}

	if !w.synthesizer.SynthesizeSpeech(ctx, job.Text, outputPath, opts) {
		return "", ErrSynthesisFailed
	}

	audioData, err := os.ReadFile(outputPath)
	if err != nil {
		return "", fmt.Errorf("failed to read synthesized audio: %w", err)
	}

	audioKey := uuid.NewString() + ".wav"

	err = w.store.Upload(ctx, audioKey, audioData)
	if err != nil {
		return "", fmt.Errorf("failed to upload audio for key '%s': %w", audioKey, err)
	}

	return audioKey, nil
}

// parseAndValidateJob decodes the payload and checks it against the known
// tiers and personas. The decoded job is returned even on validation errors
// so the reply can echo the job ID.
func (w *NatsWorker) parseAndValidateJob(msg *nats.Msg) (*NarrationJob, error) {
	var job NarrationJob

	err := json.Unmarshal(msg.Data, &job)
	if err != nil {
		return &job, fmt.Errorf("failed to unmarshal job: %w", err)
	}

	if job.Text == "" {
		return &job, ErrEmptyJobText
	}

	switch core.Quality(job.Quality) {
	case core.QualityFast, core.QualityHigh, core.QualityPremium:
	default:
		return &job, fmt.Errorf("%w: '%s'", ErrUnknownQuality, job.Quality)
	}

	switch core.Subject(job.Subject) {
	case core.SubjectPhysics, core.SubjectChemistry, core.SubjectBiology, core.SubjectGeneral:
	default:
		return &job, fmt.Errorf("%w: '%s'", ErrUnknownSubject, job.Subject)
	}

	return &job, nil
}

func (w *NatsWorker) replyError(msg *nats.Msg, job *NarrationJob, jobErr error) {
	w.reply(msg, &NarrationResult{
		JobID:    job.JobID,
		AudioKey: "",
		OK:       false,
		Error:    jobErr.Error(),
	})
}

// reply responds on the message's reply subject when one is set. Jobs
// published fire-and-forget simply get no reply.
func (w *NatsWorker) reply(msg *nats.Msg, result *NarrationResult) {
	if msg.Reply == "" {
		return
	}

	replyData, err := json.Marshal(result)
	if err != nil {
		w.log.Error("Failed to marshal reply for job %s: %v", result.JobID, err)

		return
	}

	err = msg.Respond(replyData)
	if err != nil {
		w.log.Error("Failed to publish reply for job %s: %v", result.JobID, err)
	}
}
