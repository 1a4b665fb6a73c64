package answer

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// SourceReference points at the page of a source PDF backing an answer.
type SourceReference struct {
	PDFSHA1   string `json:"pdf_sha1"`
	PageIndex int    `json:"page_index"`
}

// SubmissionAnswer is one answer in the challenge submission format.
type SubmissionAnswer struct {
	QuestionText string            `json:"question_text"`
	Kind         string            `json:"kind"`
	Value        any               `json:"value"`
	References   []SourceReference `json:"references"`
}

// Submission is the challenge answer payload.
type Submission struct {
	Answers        []SubmissionAnswer `json:"answers"`
	TeamEmail      string             `json:"team_email"`
	SubmissionName string             `json:"submission_name"`
}

// BuildSubmission converts answered companies into the submission format,
// coercing answer values to their declared kinds.
func BuildSubmission(companies Companies, teamEmail, submissionName string) Submission {
	submission := Submission{
		Answers:        []SubmissionAnswer{},
		TeamEmail:      teamEmail,
		SubmissionName: submissionName,
	}

	for sha1, company := range companies {
		if !company.HasQuestions {
			continue
		}
		for _, question := range company.Questions {
			value := question.AnswerValue
			if value == nil {
				value = "N/A"
			}
			value = coerceValue(question.Kind, value)

			submission.Answers = append(submission.Answers, SubmissionAnswer{
				QuestionText: question.Text,
				Kind:         question.Kind,
				Value:        value,
				References: []SourceReference{
					{PDFSHA1: sha1, PageIndex: question.Pages},
				},
			})
		}
	}
	return submission
}

// coerceValue forces string values into the declared answer kind.
func coerceValue(kind string, value any) any {
	text, isString := value.(string)
	if !isString {
		return value
	}

	switch kind {
	case "boolean":
		switch strings.ToLower(text) {
		case "true":
			return true
		case "false":
			return false
		}
	case "number":
		if text == "N/A" {
			return text
		}
		if number, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", ""), 64); err == nil {
			return number
		}
		return "N/A"
	}
	return value
}

// Write saves the submission as indented JSON.
func (s Submission) Write(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal submission: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write submission: %w", err)
	}
	return nil
}
