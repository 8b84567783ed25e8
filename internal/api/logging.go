package api

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/qgen/internal/question"
)

// LoggingClient is a decorator that logs every API call.
type LoggingClient struct {
	inner Client
	log   logrus.FieldLogger
}

// WithLogging wraps a Client with request logging.
func WithLogging(c Client, log logrus.FieldLogger) Client {
	return &LoggingClient{inner: c, log: log}
}

func (l *LoggingClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	ctx = ensureRequestID(ctx)
	start := time.Now()

	resp, err := l.inner.Generate(ctx, req)

	fields := logrus.Fields{
		"file":       req.File.Name,
		"size":       req.File.Size,
		"count":      req.Params.Count,
		"difficulty": req.Params.Difficulty,
		"type":       req.Params.Type,
	}
	if resp != nil {
		fields["questions"] = len(resp.Questions)
	}
	l.record(ctx, start, fields, err)
	return resp, err
}

func (l *LoggingClient) GenerateAnswer(ctx context.Context, req AnswerRequest) (*question.Answer, error) {
	ctx = ensureRequestID(ctx)
	start := time.Now()

	ans, err := l.inner.GenerateAnswer(ctx, req)

	fields := logrus.Fields{
		"question_len": len(req.Question),
		"context_len":  len(req.Context),
	}
	l.record(ctx, start, fields, err)
	return ans, err
}

func (l *LoggingClient) record(ctx context.Context, start time.Time, fields logrus.Fields, err error) {
	fields["purpose"] = PurposeFrom(ctx)
	fields["request_id"] = RequestIDFrom(ctx)
	fields["latency_ms"] = time.Since(start).Milliseconds()

	var se *StatusError
	if errors.As(err, &se) {
		fields["status"] = se.StatusCode
	}

	entry := l.log.WithFields(fields)
	if err != nil {
		entry.WithError(err).Warn("api request failed")
		return
	}
	entry.Info("api request")
}

// ensureRequestID assigns a fresh request id unless ctx already has one, so
// the logged id matches the X-Request-ID header.
func ensureRequestID(ctx context.Context) context.Context {
	if RequestIDFrom(ctx) != "" {
		return ctx
	}
	return WithRequestID(ctx, uuid.NewString())
}
