package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kbukum/audioscript/httpclient"
	"github.com/kbukum/audioscript/logger"
	"github.com/kbukum/audioscript/transcription"
)

// Name identifies the client in logs and circuit breaker events.
const Name = "transcription-api"

// Client talks to the transcription API.
type Client struct {
	adapter *httpclient.Adapter
	log     *logger.Logger
}

var _ transcription.Service = (*Client)(nil)

// New creates a client. Adapter options are passed through, which lets
// tests substitute the transport or the request id source.
func New(cfg Config, opts ...httpclient.Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	hc := httpclient.Config{
		Name:      Name,
		BaseURL:   strings.TrimRight(cfg.Endpoint, "/"),
		Timeout:   cfg.Timeout,
		Auth:      httpclient.BearerAuth(cfg.Token),
		Headers:   map[string]string{"Accept": "application/json"},
		RequestID: true,
	}
	if cfg.CircuitBreaker {
		hc.CircuitBreaker = httpclient.DefaultCircuitBreakerConfig(Name)
	}

	adapter, err := httpclient.New(hc, opts...)
	if err != nil {
		return nil, fmt.Errorf("remote: %w", err)
	}
	return &Client{
		adapter: adapter,
		log:     logger.WithComponent("remote"),
	}, nil
}

// Name returns the client name.
func (c *Client) Name() string { return Name }

// IsAvailable reports whether requests are currently allowed through.
func (c *Client) IsAvailable(ctx context.Context) bool {
	return c.adapter.IsAvailable(ctx)
}

// Close releases idle connections.
func (c *Client) Close(ctx context.Context) error {
	return c.adapter.Close(ctx)
}

type uploadResponse struct {
	ID string `json:"id"`
}

// Upload sends the audio file and its effective options.
func (c *Client) Upload(ctx context.Context, file transcription.AudioFile, opts transcription.EffectiveOptions) (string, error) {
	if file.Open == nil {
		return "", fmt.Errorf("remote: upload %s: no content", file.Name)
	}
	optsJSON, err := json.Marshal(opts)
	if err != nil {
		return "", fmt.Errorf("remote: encode options: %w", err)
	}
	rc, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("remote: open %s: %w", file.Name, err)
	}
	defer rc.Close()

	body := &httpclient.MultipartBody{
		Fields: map[string]string{"options": string(optsJSON)},
		Files: []httpclient.FileField{{
			FieldName:   "file",
			FileName:    file.Name,
			ContentType: transcription.CanonicalType(file.MIMEType),
			Reader:      rc,
		}},
	}

	start := time.Now()
	resp, err := httpclient.Post[uploadResponse](ctx, c.adapter, "/upload", body)
	if err != nil {
		return "", apiError("upload", err)
	}
	if resp.Data.ID == "" {
		return "", fmt.Errorf("remote: upload: response carried no job id")
	}
	c.log.WithContext(ctx).Debug("upload accepted", logger.Fields(
		logger.FieldJobID, resp.Data.ID,
		logger.FieldFileName, file.Name,
		logger.FieldSize, file.Size,
		logger.FieldDuration, time.Since(start).Milliseconds(),
	))
	return resp.Data.ID, nil
}

// Status fetches the current state of a job.
func (c *Client) Status(ctx context.Context, jobID string) (*transcription.Job, error) {
	resp, err := httpclient.Get[*transcription.Job](ctx, c.adapter, "/status/"+url.PathEscape(jobID))
	if err != nil {
		return nil, apiError("status", err)
	}
	job := resp.Data
	if job == nil {
		return nil, fmt.Errorf("remote: status %s: empty response", jobID)
	}
	if job.ID == "" {
		job.ID = jobID
	}
	return job, nil
}

// Cancel asks the service to stop a job.
func (c *Client) Cancel(ctx context.Context, jobID string) error {
	_, err := c.adapter.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/cancel/" + url.PathEscape(jobID),
	})
	if err != nil {
		return apiError("cancel", err)
	}
	return nil
}

type errorBody struct {
	Detail  string `json:"detail"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// apiError annotates err with the message the service put in an error
// response body, when there is one.
func apiError(op string, err error) error {
	var herr *httpclient.Error
	if !errors.As(err, &herr) || len(herr.Body) == 0 {
		return fmt.Errorf("remote: %s: %w", op, err)
	}
	var body errorBody
	if json.Unmarshal(herr.Body, &body) != nil {
		return fmt.Errorf("remote: %s: %w", op, err)
	}
	for _, msg := range []string{body.Detail, body.Error, body.Message} {
		if msg != "" {
			return fmt.Errorf("remote: %s: %s: %w", op, msg, err)
		}
	}
	return fmt.Errorf("remote: %s: %w", op, err)
}
