package schema

import (
	"errors"
	"testing"
)

func TestValidateLearningMap(t *testing.T) {
	payload := []byte(`{
        "topic": "Pottery",
        "targetLevel": "beginner",
        "overview": "Clay to kiln",
        "nodes": [
            {"id": "1", "title": "Wheel Throwing", "resources": "not an array"},
            "junk"
        ]
    }`)
	if err := ValidateLearningMap(payload); err != nil {
		t.Fatalf("expected payload to validate: %v", err)
	}
}

func TestValidateLearningMapFails(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    error
	}{
		{name: "not json", payload: `Sure! Here is your learning map:`, want: ErrNotJSON},
		{name: "truncated", payload: `{"nodes": [`, want: ErrNotJSON},
		{name: "trailing text", payload: `{"nodes": []} thanks`, want: ErrNotJSON},
		{name: "missing nodes", payload: `{"topic": "Pottery"}`, want: ErrShape},
		{name: "nodes not array", payload: `{"nodes": {"id": "1"}}`, want: ErrShape},
		{name: "top level array", payload: `[{"id": "1"}]`, want: ErrShape},
	}
	for _, tt := range tests {
		err := ValidateLearningMap([]byte(tt.payload))
		if !errors.Is(err, tt.want) {
			t.Fatalf("%s: expected %v, got %v", tt.name, tt.want, err)
		}
	}
}
