package api

import (
	"context"

	"github.com/abhisek/qgen/internal/document"
	"github.com/abhisek/qgen/internal/question"
)

// Client is the abstraction over the question generation API.
// Both calls block until the API responds or the transport fails.
type Client interface {
	// Generate uploads a document and returns the generated questions.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// GenerateAnswer asks for an answer to a single question, grounded in
	// the given context text.
	GenerateAnswer(ctx context.Context, req AnswerRequest) (*question.Answer, error)
}

// GenerateRequest describes a POST /generate call.
type GenerateRequest struct {
	File   document.File
	Params question.Params
}

// GenerateResponse is the decoded body of a successful POST /generate.
type GenerateResponse struct {
	Questions []question.Question `json:"questions"`
}

// AnswerRequest is the JSON body of POST /generate-answer.
type AnswerRequest struct {
	Question string `json:"question"`
	Context  string `json:"context"`
}
