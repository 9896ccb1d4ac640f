package store

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrDecode marks a stored JSON blob that no longer parses back into its
// structured field. The write succeeded long ago; only this read fails.
// Callers can distinguish it from plain SQL errors with errors.Is.
var ErrDecode = errors.New("store: malformed stored blob")

// CodeExample is a titled snippet with its explanation.
type CodeExample struct {
	Title       string `json:"title"`
	Code        string `json:"code"`
	Explanation string `json:"explanation"`
}

// CommandFlag is one flag of a toolchain command.
type CommandFlag struct {
	Flag        string `json:"flag"`
	Description string `json:"description"`
}

// Concept is a core language concept with a textbook-style explanation.
type Concept struct {
	ID           string        `json:"id"`
	Topic        string        `json:"topic"`
	Title        string        `json:"title"`
	Explanation  string        `json:"explanation"`
	CodeExamples []CodeExample `json:"code_examples"`
	Mistakes     []string      `json:"common_mistakes"`
	// Related holds concept ids. Informational only: nothing checks that
	// they exist, so dangling references are possible.
	Related []string `json:"related_concepts"`
	Tags    []string `json:"tags"`
}

// Pattern is a reusable code pattern or idiom.
type Pattern struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Template     string        `json:"template"`
	WhenToUse    string        `json:"when_to_use"`
	WhenNotToUse string        `json:"when_not_to_use"`
	Examples     []CodeExample `json:"examples"`
}

// CompilerError explains one compiler error code with a fix.
type CompilerError struct {
	ErrorCode     string   `json:"error_code"`
	Title         string   `json:"title"`
	Explanation   string   `json:"explanation"`
	ExampleBad    string   `json:"example_bad"`
	ExampleGood   string   `json:"example_good"`
	FixStrategies []string `json:"fix_strategies"`
}

// Command is a toolchain command reference. Commands have a surrogate
// numeric id and no content uniqueness: repeated loads insert duplicates.
type Command struct {
	ID          int64         `json:"id"`
	Tool        string        `json:"tool"`
	Command     string        `json:"command"`
	Description string        `json:"description"`
	Flags       []CommandFlag `json:"flags"`
	Examples    []string      `json:"examples"`
}

// encodeBlob serialises a nested field for a JSON text column.
func encodeBlob(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode blob: %w", err)
	}
	return string(data), nil
}

// decodeBlob parses a JSON text column back into its structured field.
// what names the column for the error message.
func decodeBlob(data, what string, dst any) error {
	if err := json.Unmarshal([]byte(data), dst); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDecode, what, err)
	}
	return nil
}
