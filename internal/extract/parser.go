// Package extract turns raw completion text into the typed fields used to pre-fill the upload form.
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/applytrack/applytrack/internal/domain/model"
)

// ErrUnparseableCompletion is returned when the completion is not a JSON object.
// Callers treat it as "no auto-fill available".
var ErrUnparseableCompletion = errors.New("completion is not a JSON object")

const fieldsSchema = `{
	"type": "object",
	"properties": {
		"company": {"type": "string", "minLength": 1},
		"role":    {"type": "string", "minLength": 1},
		"status":  {"enum": ["applied", "interview", "offer", "rejected"]},
		"date":    {"type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$"}
	}
}`

var schema = jsonschema.MustCompileString("extracted_fields.json", fieldsSchema)

// Result is a parsed completion plus advisory schema issues.
type Result struct {
	Fields model.ExtractedFields
	// Issues lists schema violations. They never fail parsing.
	Issues []string
}

// Parse decodes raw completion text into ExtractedFields.
func Parse(raw string) (model.ExtractedFields, error) {
	res, err := ParseWithIssues(raw)
	return res.Fields, err
}

// ParseWithIssues decodes raw into fields and reports schema violations.
// Each field is read independently: missing or non-string values stay empty and
// status is lowercased. It never panics on malformed input.
func ParseWithIssues(raw string) (Result, error) {
	body := stripCodeFence(strings.TrimSpace(raw))

	var doc map[string]any
	if err := json.Unmarshal([]byte(body), &doc); err != nil || doc == nil {
		if err == nil {
			err = errors.New("null document")
		}
		return Result{}, fmt.Errorf("%w: %w", ErrUnparseableCompletion, err)
	}

	fields := model.ExtractedFields{
		Company: stringField(doc, "company"),
		Role:    stringField(doc, "role"),
		Status:  strings.ToLower(stringField(doc, "status")),
		Date:    stringField(doc, "date"),
	}
	return Result{Fields: fields, Issues: schemaIssues(doc, fields)}, nil
}

func stringField(doc map[string]any, key string) string {
	s, ok := doc[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// stripCodeFence removes a surrounding ``` or ```json fence.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(s, "```"), "```")
	if nl := strings.IndexByte(inner, '\n'); nl >= 0 && !strings.ContainsAny(inner[:nl], "{[") {
		inner = inner[nl+1:]
	}
	return strings.TrimSpace(inner)
}

func schemaIssues(doc map[string]any, fields model.ExtractedFields) []string {
	normalized := make(map[string]any, len(doc))
	for k, v := range doc {
		normalized[k] = v
	}
	if fields.Status != "" {
		normalized["status"] = fields.Status
	}

	err := schema.Validate(normalized)
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return []string{err.Error()}
	}
	var issues []string
	collectIssues(verr, &issues)
	sort.Strings(issues)
	return issues
}

func collectIssues(verr *jsonschema.ValidationError, out *[]string) {
	if len(verr.Causes) == 0 {
		loc := verr.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		*out = append(*out, loc+": "+verr.Message)
		return
	}
	for _, c := range verr.Causes {
		collectIssues(c, out)
	}
}
