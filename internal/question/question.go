package question

import "strings"

// Difficulty is the difficulty tag attached to a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyExpert Difficulty = "expert"
)

// Difficulties lists every difficulty in ascending order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert}

// DisplayName returns the capitalized label, e.g. "Medium".
func (d Difficulty) DisplayName() string {
	return capitalize(string(d))
}

// Type is the cognitive category of a question.
type Type string

const (
	TypeComprehension Type = "comprehension"
	TypeAnalysis      Type = "analysis"
	TypeApplication   Type = "application"
	TypeEvaluation    Type = "evaluation"
)

// Types lists every question type.
var Types = []Type{TypeComprehension, TypeAnalysis, TypeApplication, TypeEvaluation}

// DisplayName returns the capitalized label, e.g. "Analysis".
func (t Type) DisplayName() string {
	return capitalize(string(t))
}

// Question is a single generated interview question. Answer and Rationale
// are filled either by the generation call or later on demand.
type Question struct {
	Question   string     `json:"question"`
	Answer     string     `json:"answer,omitempty"`
	Rationale  string     `json:"rationale,omitempty"`
	Difficulty Difficulty `json:"difficulty,omitempty"`
	Type       Type       `json:"type,omitempty"`
}

// HasAnswer reports whether both answer and rationale are present.
// A question carrying only one of them is treated as unanswered.
func (q Question) HasAnswer() bool {
	return strings.TrimSpace(q.Answer) != "" && strings.TrimSpace(q.Rationale) != ""
}

// DisplayDifficulty returns the difficulty to show, falling back to medium.
func (q Question) DisplayDifficulty() Difficulty {
	if q.Difficulty == "" {
		return DifficultyMedium
	}
	return q.Difficulty
}

// DisplayType returns the type to show, falling back to comprehension.
func (q Question) DisplayType() Type {
	if q.Type == "" {
		return TypeComprehension
	}
	return q.Type
}

// Answer is the result of an on-demand answer generation.
type Answer struct {
	Answer    string `json:"answer"`
	Rationale string `json:"rationale"`
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
