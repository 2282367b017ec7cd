package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// writeResultJSON persists v pretty-printed with four-space indentation.
// HTML escaping is disabled so accented characters and symbols stay literal
// in the file.
func writeResultJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}
