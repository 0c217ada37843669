package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/salmonumbrella/draftpm/internal/convert"
	"github.com/salmonumbrella/draftpm/internal/draft"
	"github.com/salmonumbrella/draftpm/internal/output"
)

// UnmatchedError is returned by --strict when a conversion left anything
// unmatched. The document is still written before the error.
type UnmatchedError struct {
	Unmatched *convert.Unmatched
}

func (e *UnmatchedError) Error() string {
	u := e.Unmatched
	if u == nil {
		return "conversion left unmatched content"
	}
	return fmt.Sprintf("conversion left unmatched content: %d block(s), %d entity(ies), %d style range(s)",
		len(u.Blocks), len(u.Entities), len(u.InlineStyles))
}

func validateErrorFormat(format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "auto", "text", "json", "yaml":
		return nil
	default:
		return fmt.Errorf("invalid --error-format %q (expected auto|text|json|yaml)", format)
	}
}

func effectiveErrorFormat(ctx context.Context) string {
	format := strings.ToLower(strings.TrimSpace(ErrorFormatFromContext(ctx)))
	if format == "" || format == "auto" {
		if ctx == nil {
			return "text"
		}
		switch output.FormatFromContext(ctx) {
		case output.FormatJSON, output.FormatNDJSON:
			return "json"
		case output.FormatYAML:
			return "yaml"
		default:
			return "text"
		}
	}
	return format
}

func printCommandError(ctx context.Context, err error) {
	if err == nil {
		return
	}

	switch effectiveErrorFormat(ctx) {
	case "json":
		enc := json.NewEncoder(stderrFromContext(ctx))
		enc.SetEscapeHTML(false)
		_ = enc.Encode(buildErrorEnvelope(err))
		return
	case "yaml":
		enc := yaml.NewEncoder(stderrFromContext(ctx))
		enc.SetIndent(2)
		_ = enc.Encode(buildErrorEnvelope(err))
		_ = enc.Close()
		return
	}

	_, _ = fmt.Fprintln(stderrFromContext(ctx), err)
}

func buildErrorEnvelope(err error) map[string]interface{} {
	errMap := map[string]interface{}{
		"message":  err.Error(),
		"category": "system",
		"type":     "error",
	}

	var parseErr *draft.ParseError
	if errors.As(err, &parseErr) {
		errMap["type"] = "parse"
		errMap["category"] = "user"
	}

	var unmatchedErr *UnmatchedError
	if errors.As(err, &unmatchedErr) {
		errMap["type"] = "unmatched"
		errMap["category"] = "user"
		if u := unmatchedErr.Unmatched; u != nil {
			errMap["count"] = u.Count()
			if len(u.Faults) > 0 {
				errMap["faults"] = len(u.Faults)
			}
		}
	}

	return map[string]interface{}{"error": errMap}
}
