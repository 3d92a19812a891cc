package session

import (
	"encoding/json"
	"testing"
)

// mustMarshal encodes v as JSON or fails the test.
func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()

	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	return data
}
