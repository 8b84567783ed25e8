package api

import (
	"context"
	"sync"

	"github.com/abhisek/qgen/internal/question"
)

// MockResponse is a canned result for the MockClient. Set Questions for a
// Generate call or Answer for a GenerateAnswer call.
type MockResponse struct {
	Questions []question.Question
	Answer    *question.Answer
	Err       error
}

// MockClient is a deterministic Client for testing.
// It returns canned responses in FIFO order and records all requests.
type MockClient struct {
	mu          sync.Mutex
	responses   []MockResponse
	Calls       []GenerateRequest
	AnswerCalls []AnswerRequest
}

var _ Client = (*MockClient)(nil)

// NewMockClient creates a MockClient with the given canned responses.
func NewMockClient(responses ...MockResponse) *MockClient {
	return &MockClient{responses: responses}
}

// Generate returns the next canned response, or a TransportError when the
// queue is empty.
func (m *MockClient) Generate(_ context.Context, req GenerateRequest) (*GenerateResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	resp, err := m.next()
	if err != nil {
		return nil, err
	}
	return &GenerateResponse{Questions: resp.Questions}, nil
}

// GenerateAnswer returns the next canned response, or a TransportError when
// the queue is empty.
func (m *MockClient) GenerateAnswer(_ context.Context, req AnswerRequest) (*question.Answer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.AnswerCalls = append(m.AnswerCalls, req)

	resp, err := m.next()
	if err != nil {
		return nil, err
	}
	if resp.Answer == nil {
		return &question.Answer{}, nil
	}
	a := *resp.Answer
	return &a, nil
}

func (m *MockClient) next() (MockResponse, error) {
	if len(m.responses) == 0 {
		return MockResponse{}, &TransportError{Err: errNoMockResponse}
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	if resp.Err != nil {
		return MockResponse{}, resp.Err
	}
	return resp, nil
}

// AddResponse appends a canned response to the queue.
func (m *MockClient) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Generate and GenerateAnswer calls made.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls) + len(m.AnswerCalls)
}

type mockError string

func (e mockError) Error() string { return string(e) }

const errNoMockResponse = mockError("no canned response")
