package validation

import (
	"strings"
	"unicode/utf8"

	"go-artwork-pipeline/pkg/models"
)

// RecordIssue represents one problem found while validating a merged record
type RecordIssue struct {
	Field    string `json:"field"`
	Message  string `json:"message"`
	Severity string `json:"severity"` // "error" or "warning"
}

// RecordValidator checks whether a merged artwork record is ready to be
// persisted. Construction never enforces these rules; only the save path
// does, so a user can keep a half-filled form as long as they like.
type RecordValidator struct {
	maxFieldLength int
}

// NewRecordValidator creates a record validator with default limits
func NewRecordValidator() *RecordValidator {
	return &RecordValidator{maxFieldLength: 2048}
}

// ValidateSaveReady returns the issues preventing or discouraging a save.
// A record is save-ready when no error-severity issue is present; the only
// hard rule is a non-empty title.
func (v *RecordValidator) ValidateSaveReady(record models.MergedArtworkRecord) []RecordIssue {
	var issues []RecordIssue

	if strings.TrimSpace(record.Title) == "" {
		issues = append(issues, RecordIssue{
			Field:    "title",
			Message:  "title must not be empty",
			Severity: "error",
		})
	}

	for field, value := range map[string]string{
		"title":       record.Title,
		"artist":      record.Artist,
		"description": record.Description,
	} {
		if utf8.RuneCountInString(value) > v.maxFieldLength {
			issues = append(issues, RecordIssue{
				Field:    field,
				Message:  "field is unreasonably long for a catalog record",
				Severity: "warning",
			})
		}
	}

	return issues
}

// IsSaveReady reports whether the record has no error-severity issues
func (v *RecordValidator) IsSaveReady(record models.MergedArtworkRecord) bool {
	for _, issue := range v.ValidateSaveReady(record) {
		if issue.Severity == "error" {
			return false
		}
	}
	return true
}

// ConvertIssuesToMessages flattens issues into display strings
func (v *RecordValidator) ConvertIssuesToMessages(issues []RecordIssue) []string {
	messages := make([]string, 0, len(issues))
	for _, issue := range issues {
		messages = append(messages, issue.Field+": "+issue.Message)
	}
	return messages
}
