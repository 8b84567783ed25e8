package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/abhisek/qgen/internal/document"
	"github.com/abhisek/qgen/internal/question"
)

const maxResponseBytes = 8 << 20

// HTTPClient talks to the API over HTTP.
type HTTPClient struct {
	cl        *http.Client
	baseURL   string
	userAgent string
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient from cfg.
func NewHTTPClient(cfg Config) (*HTTPClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &HTTPClient{
		cl:        &http.Client{Timeout: cfg.Timeout},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
	}, nil
}

// apiURL joins the base URL and path; path may omit the leading slash.
func (c *HTTPClient) apiURL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

func (c *HTTPClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if err := req.Params.Validate(); err != nil {
		return nil, err
	}
	if err := document.Validate(req.File); err != nil {
		return nil, err
	}

	body, contentType, err := encodeGenerateForm(req)
	if err != nil {
		return nil, err
	}

	raw, err := c.do(ctx, "/generate", contentType, body)
	if err != nil {
		return nil, err
	}

	if err := validateResponse(generateSchema, raw); err != nil {
		return nil, err
	}
	var out GenerateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &InvalidResponseError{Body: raw, Err: err}
	}
	return &out, nil
}

func (c *HTTPClient) GenerateAnswer(ctx context.Context, req AnswerRequest) (*question.Answer, error) {
	if strings.TrimSpace(req.Question) == "" {
		return nil, fmt.Errorf("question text is required")
	}
	bs, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	raw, err := c.do(ctx, "/generate-answer", "application/json", bytes.NewReader(bs))
	if err != nil {
		return nil, err
	}

	if err := validateResponse(answerSchema, raw); err != nil {
		return nil, err
	}
	var out question.Answer
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &InvalidResponseError{Body: raw, Err: err}
	}
	return &out, nil
}

// do sends a POST and returns the body of a 2xx response.
func (c *HTTPClient) do(ctx context.Context, path, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL(path), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	id := RequestIDFrom(ctx)
	if id == "" {
		id = uuid.NewString()
	}
	req.Header.Set("X-Request-ID", id)

	resp, err := c.cl.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Detail: parseDetail(raw)}
	}
	return raw, nil
}

// encodeGenerateForm builds the multipart body for POST /generate.
func encodeGenerateForm(req GenerateRequest) (io.Reader, string, error) {
	src, err := req.File.Reader()
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", req.File.Name, err)
	}
	defer src.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	mimeType := req.File.MIMEType
	if mimeType == "" {
		mimeType = document.MIMETypePDF
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, req.File.Name))
	h.Set("Content-Type", mimeType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, src); err != nil {
		return nil, "", fmt.Errorf("read %s: %w", req.File.Name, err)
	}

	fields := []struct{ name, value string }{
		{"num_questions", strconv.Itoa(req.Params.Count)},
		{"difficulty", string(req.Params.Difficulty)},
		{"question_type", string(req.Params.Type)},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// parseDetail extracts the "detail" message of an error body. Validation
// errors carry a list of objects with "msg" fields instead of a string.
func parseDetail(raw []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(body.Detail, &s); err == nil {
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(body.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}
