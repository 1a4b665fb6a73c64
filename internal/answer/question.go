// Package answer routes challenge questions onto aggregated metadata and
// produces the final answer submission.
package answer

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aangers/ragmeta/internal/aggregate"
	"github.com/aangers/ragmeta/internal/taxonomy"
)

// Question is one challenge question attached to a company.
type Question struct {
	Text string `json:"text"`
	Kind string `json:"kind"`

	// Filled by question analysis.
	MetadataCategory taxonomy.Category `json:"metadata_category,omitempty"`
	Currency         string            `json:"currency,omitempty"`
	SearchLocations  []string          `json:"search_locations,omitempty"`

	// Filled by answering.
	MetadataElements   []aggregate.Element `json:"metadata_elements,omitempty"`
	AnswerReasoning    []string            `json:"answer_reasoning,omitempty"`
	AnswerDataAnalysis []string            `json:"answer_data_analysis,omitempty"`
	AnswerType         string              `json:"answer_type,omitempty"`
	AnswerValue        any                 `json:"answer_value,omitempty"`
	Pages              int                 `json:"pages,omitempty"`
}

// Company carries one document's identity and its questions.
type Company struct {
	CompanyName  string     `json:"company_name"`
	HasQuestions bool       `json:"has_questions"`
	Questions    []Question `json:"questions"`
}

// Companies maps document sha1 to company info.
type Companies map[string]*Company

// BuildCompanies extracts company identities from the final aggregates and
// attaches every question whose text mentions the company name.
func BuildCompanies(finalResultsPath, questionsPath string, logger *slog.Logger) (Companies, error) {
	if logger == nil {
		logger = slog.Default()
	}

	data, err := os.ReadFile(finalResultsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read final results: %w", err)
	}
	var records map[string]struct {
		SHA1 string `json:"sha1"`
		Meta struct {
			CompanyName string `json:"company_name"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse final results: %w", err)
	}

	questionsData, err := os.ReadFile(questionsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read questions: %w", err)
	}
	var questions []Question
	if err := json.Unmarshal(questionsData, &questions); err != nil {
		return nil, fmt.Errorf("failed to parse questions: %w", err)
	}

	companies := make(Companies)
	for _, record := range records {
		if record.SHA1 == "" || record.Meta.CompanyName == "" {
			continue
		}
		company := &Company{CompanyName: record.Meta.CompanyName}
		for _, question := range questions {
			if strings.Contains(question.Text, company.CompanyName) {
				company.Questions = append(company.Questions, Question{
					Text: question.Text,
					Kind: question.Kind,
				})
			}
		}
		company.HasQuestions = len(company.Questions) > 0
		companies[record.SHA1] = company
	}

	matched := 0
	for _, company := range companies {
		matched += len(company.Questions)
	}
	logger.Info("question coverage computed",
		"companies", len(companies),
		"questions", len(questions),
		"matched", matched)
	return companies, nil
}

// SaveCompanies writes the companies map as indented JSON.
func SaveCompanies(path string, companies Companies) error {
	data, err := json.MarshalIndent(companies, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal companies: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadCompanies reads a companies map written by SaveCompanies.
func LoadCompanies(path string) (Companies, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var companies Companies
	if err := json.Unmarshal(data, &companies); err != nil {
		return nil, fmt.Errorf("failed to parse companies: %w", err)
	}
	return companies, nil
}
