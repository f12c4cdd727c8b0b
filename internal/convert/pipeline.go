package convert

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"inkjet/internal/history"
	"inkjet/internal/logging"
	"inkjet/internal/services"
	"inkjet/internal/services/adobe"
	"inkjet/internal/textutil"
)

// Pipeline runs conversions through the vendor client and records outcomes.
type Pipeline struct {
	client  *adobe.Client
	options adobe.RenderOptions
	store   *history.Store
	logger  *slog.Logger
}

// Result summarizes one pipeline run. It is populated on failure too, so
// callers can report and record partial progress.
type Result struct {
	RequestID    string
	Title        string
	Status       history.Status
	InputBytes   int64
	OutputBytes  int64
	PollAttempts int
	Duration     time.Duration
}

// New constructs a Pipeline. store may be nil to disable history recording.
func New(client *adobe.Client, options adobe.RenderOptions, store *history.Store, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		client:  client,
		options: options,
		store:   store,
		logger:  logging.NewComponentLogger(logger, "convert"),
	}
}

// Run converts html to PDF and streams the document into dst. Bytes reach
// dst incrementally; on a mid-stream failure dst is left in whatever partial
// state the transport produced.
func (p *Pipeline) Run(ctx context.Context, html []byte, dst io.Writer) (Result, error) {
	started := time.Now()
	result := Result{
		RequestID:  uuid.NewString(),
		Title:      textutil.DocumentTitle(string(html)),
		Status:     history.StatusFailed,
		InputBytes: int64(len(html)),
	}
	log := p.logger.With(logging.String(logging.FieldRequestID, result.RequestID))

	err := p.run(ctx, log, html, dst, &result)
	result.Duration = time.Since(started)

	if err != nil {
		log.Error("conversion failed",
			logging.String(logging.FieldStatus, string(result.Status)),
			logging.Int(logging.FieldAttempt, result.PollAttempts),
			logging.Duration(logging.FieldDuration, result.Duration),
			logging.Error(err))
	} else {
		result.Status = history.StatusSucceeded
		log.Info("conversion complete",
			logging.Int64(logging.FieldBytes, result.OutputBytes),
			logging.Int(logging.FieldAttempt, result.PollAttempts),
			logging.Duration(logging.FieldDuration, result.Duration))
	}

	p.record(result, err)
	return result, err
}

func (p *Pipeline) run(ctx context.Context, log *slog.Logger, html []byte, dst io.Writer, result *Result) error {
	token, err := p.client.Authenticate(ctx)
	if err != nil {
		return err
	}
	log.Debug("authenticated")

	handle, err := p.client.CreateAsset(ctx, token, adobe.MediaTypeHTML)
	if err != nil {
		return err
	}
	log.Debug("upload slot minted", logging.String("asset_id", handle.AssetID))

	if err := p.client.UploadAsset(ctx, handle.UploadURI, adobe.MediaTypeHTML, html); err != nil {
		return err
	}

	pollingURL, err := p.client.StartJob(ctx, token, handle.AssetID, p.options)
	if err != nil {
		return err
	}
	log.Debug("job started")

	job, err := p.client.PollJob(ctx, token, pollingURL)
	result.PollAttempts = job.Attempts
	if err != nil {
		if job.Outcome == adobe.OutcomeTimedOut {
			result.Status = history.StatusTimedOut
		}
		return err
	}

	body, err := p.client.Download(ctx, job.DownloadURI)
	if err != nil {
		return err
	}
	defer body.Close()

	written, err := io.Copy(dst, body)
	result.OutputBytes = written
	if err != nil {
		return services.Wrap(services.ErrStreaming, "convert", "stream result", "transfer interrupted", err)
	}
	return nil
}

func (p *Pipeline) record(result Result, runErr error) {
	if p.store == nil {
		return
	}
	// Recording must survive a cancelled request context; a disconnected
	// caller still counts as a finished conversion.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	record := history.Record{
		RequestID:    result.RequestID,
		Title:        result.Title,
		Status:       result.Status,
		InputBytes:   result.InputBytes,
		OutputBytes:  result.OutputBytes,
		PollAttempts: result.PollAttempts,
		Duration:     result.Duration,
		FinishedAt:   time.Now().UTC(),
	}
	record.CreatedAt = record.FinishedAt.Add(-result.Duration)
	if runErr != nil {
		record.ErrorMessage = runErr.Error()
	}
	if _, err := p.store.Add(ctx, record); err != nil {
		p.logger.Warn("history record failed",
			logging.String(logging.FieldRequestID, result.RequestID),
			logging.Error(err))
	}
}
