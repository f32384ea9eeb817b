package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	data := map[string]string{"outcome": "auth_admin"}

	if err := WriteJSON(&buf, data); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	var decoded map[string]string
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["outcome"] != "auth_admin" {
		t.Errorf("decoded = %v", decoded)
	}
	if !strings.Contains(buf.String(), "  ") {
		t.Error("output not indented")
	}
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Error("output missing trailing newline")
	}
}
