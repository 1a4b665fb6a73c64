package answer

import (
	"context"

	"github.com/aangers/ragmeta/internal/aggregate"
	"github.com/aangers/ragmeta/internal/taxonomy"
)

// Analysis is the model's routing of one question.
type Analysis struct {
	MetadataCategory taxonomy.Category `json:"metadata_category"`
	Currency         string            `json:"currency"`
	SearchLocations  []string          `json:"search_locations"`
}

// Answer is the model's structured answer to one question.
type Answer struct {
	DataAnalysis []string `json:"data_analysis"`
	Reasoning    []string `json:"reasoning"`
	AnswerType   string   `json:"answer_type"`
	Answer       any      `json:"answer"`
	Pages        int      `json:"pages"`
}

// AnswerRequest carries one question and its metadata context to the model.
type AnswerRequest struct {
	CompanyName     string
	QuestionText    string
	QuestionKind    string
	Elements        []aggregate.Element
	SearchLocations []string
}

// Model is the LLM collaborator for the question stages. Implementations
// block on network I/O; all methods honor ctx cancellation.
type Model interface {
	// AnalyzeQuestion routes a question onto a metadata category.
	AnalyzeQuestion(ctx context.Context, questionText string) (Analysis, error)

	// AnswerQuestion answers a question from its metadata context.
	AnswerQuestion(ctx context.Context, req AnswerRequest) (Answer, error)
}
