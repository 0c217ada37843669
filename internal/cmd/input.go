package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

// readInputSource reads content from a file path or stdin when source is "-".
func readInputSource(source string, stdin io.Reader) ([]byte, error) {
	trimmed := strings.TrimSpace(source)
	if trimmed == "" {
		return nil, fmt.Errorf("empty input source")
	}

	var r io.Reader
	if trimmed == "-" {
		if stdin != nil {
			r = stdin
		} else {
			r = os.Stdin
		}
	} else {
		file, err := os.Open(trimmed)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", trimmed, err)
		}
		defer file.Close()
		r = file
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	return data, nil
}

func inputHasData(r io.Reader) bool {
	if r == nil {
		r = os.Stdin
	}
	if file, ok := r.(*os.File); ok {
		stat, err := file.Stat()
		if err != nil {
			return false
		}
		return (stat.Mode() & os.ModeCharDevice) == 0
	}
	return true
}

const draftInputHint = "Draft.js content required (pass a file, - for stdin, or pipe JSON)"

// readDraftInput reads raw Draft.js JSON from the first argument or piped stdin.
func readDraftInput(args []string, stdin io.Reader) ([]byte, error) {
	source := ""
	if len(args) > 0 {
		source = args[0]
	} else if inputHasData(stdin) {
		source = "-"
	}
	if source == "" {
		return nil, fmt.Errorf("%s", draftInputHint)
	}

	raw, err := readInputSource(source, stdin)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("%s", draftInputHint)
	}
	return raw, nil
}
