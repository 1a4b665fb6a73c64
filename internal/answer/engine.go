package answer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aangers/ragmeta/internal/aggregate"
	"github.com/aangers/ragmeta/internal/taxonomy"
)

// Engine runs the question analysis and answering stages over a companies
// map.
type Engine struct {
	Model Model

	// FinalDir holds the reorganized <stem>_final.json aggregates.
	FinalDir string

	Logger *slog.Logger
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

// AnalyzeQuestions routes every question onto a metadata category. Analysis
// failures are logged and leave the question unrouted.
func (e *Engine) AnalyzeQuestions(ctx context.Context, companies Companies) {
	for sha1, company := range companies {
		for i := range company.Questions {
			question := &company.Questions[i]
			if question.Text == "" {
				continue
			}

			analysis, err := e.Model.AnalyzeQuestion(ctx, question.Text)
			if err != nil {
				e.logger().Error("question analysis failed",
					"company", company.CompanyName,
					"sha1", sha1,
					"error", err)
				continue
			}
			question.MetadataCategory = analysis.MetadataCategory
			question.Currency = analysis.Currency
			question.SearchLocations = analysis.SearchLocations
		}
	}
}

// AnswerQuestions answers every routed question from the final aggregates.
// Questions with no metadata evidence get type-appropriate defaults.
func (e *Engine) AnswerQuestions(ctx context.Context, companies Companies) {
	answered := 0
	for sha1, company := range companies {
		if !company.HasQuestions {
			continue
		}

		record, err := e.loadFinalRecord(sha1)
		if err != nil {
			e.logger().Warn("no final aggregate for company",
				"company", company.CompanyName,
				"sha1", sha1,
				"error", err)
			continue
		}

		for i := range company.Questions {
			question := &company.Questions[i]
			if question.MetadataCategory == "" {
				continue
			}

			question.MetadataElements = record.elements(question.MetadataCategory)
			if len(question.MetadataElements) == 0 {
				e.applyDefault(question)
				answered++
				continue
			}

			result, err := e.Model.AnswerQuestion(ctx, AnswerRequest{
				CompanyName:     company.CompanyName,
				QuestionText:    question.Text,
				QuestionKind:    question.Kind,
				Elements:        question.MetadataElements,
				SearchLocations: question.SearchLocations,
			})
			if err != nil {
				e.logger().Error("question answering failed",
					"company", company.CompanyName,
					"error", err)
				e.applyDefault(question)
				answered++
				continue
			}

			question.AnswerDataAnalysis = result.DataAnalysis
			question.AnswerReasoning = result.Reasoning
			question.AnswerType = result.AnswerType
			question.AnswerValue = result.Answer
			question.Pages = result.Pages
			answered++
		}
	}
	e.logger().Info("questions answered", "count", answered)
}

// applyDefault fills the no-evidence answer: false for boolean questions,
// "N/A" otherwise.
func (e *Engine) applyDefault(question *Question) {
	question.AnswerReasoning = []string{"No metadata evidence found for this question."}
	question.AnswerDataAnalysis = []string{"No metadata available."}
	question.AnswerType = question.Kind
	if question.Kind == "boolean" {
		question.AnswerValue = false
	} else {
		question.AnswerValue = "N/A"
	}
	question.Pages = 0
}

// finalRecord is the slice of a final aggregate the engine needs.
type finalRecord struct {
	Meta map[string]json.RawMessage `json:"meta"`
}

type metaSlot struct {
	Value    bool                `json:"value"`
	Elements []aggregate.Element `json:"elements"`
}

func (r *finalRecord) elements(category taxonomy.Category) []aggregate.Element {
	field, ok := taxonomy.FieldFor(category)
	if !ok {
		return nil
	}
	raw, ok := r.Meta[field]
	if !ok {
		return nil
	}
	var slot metaSlot
	if err := json.Unmarshal(raw, &slot); err != nil {
		return nil
	}
	return slot.Elements
}

// loadFinalRecord finds the final aggregate whose filename starts with the
// document sha1.
func (e *Engine) loadFinalRecord(sha1 string) (*finalRecord, error) {
	matches, err := filepath.Glob(filepath.Join(e.FinalDir, sha1+"*"))
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no final aggregate matching %s", sha1)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		return nil, err
	}
	var record finalRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse final aggregate: %w", err)
	}
	return &record, nil
}
