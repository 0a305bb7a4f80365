package llm

import (
	"errors"
	"testing"
)

func TestDecodeObject(t *testing.T) {
	type payload struct {
		Title string `json:"title"`
		Year  int    `json:"year"`
	}

	tests := []struct {
		name     string
		response string
		wantErr  bool
		want     payload
	}{
		{
			name:     "clean JSON",
			response: `{"title": "Dune", "year": 2021}`,
			want:     payload{Title: "Dune", Year: 2021},
		},
		{
			name:     "JSON wrapped in prose",
			response: "Sure! Here is the structured result:\n\n{\"title\": \"Dune\", \"year\": 2021}\n\nLet me know if you need anything else.",
			want:     payload{Title: "Dune", Year: 2021},
		},
		{
			name:     "nested objects use outermost braces",
			response: `prefix {"title": "Dune", "year": 2021, "extra": {"a": 1}} suffix`,
			want:     payload{Title: "Dune", Year: 2021},
		},
		{
			name:     "truncated JSON",
			response: `{"title": "Dune", "ye`,
			wantErr:  true,
		},
		{
			name:     "no braces at all",
			response: "I could not produce JSON for that request.",
			wantErr:  true,
		},
		{
			name:     "empty response",
			response: "",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got payload
			err := DecodeObject(StageIntent, tt.response, &got)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				var pe *ParseError
				if !errors.As(err, &pe) {
					t.Fatalf("expected *ParseError, got %T", err)
				}
				if pe.Stage != StageIntent {
					t.Errorf("Stage = %q, want %q", pe.Stage, StageIntent)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecodeArray(t *testing.T) {
	var got []int
	err := DecodeArray(StageEvaluation, "the scores are: [1, 2, 3] as requested", &got)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Errorf("got %v, want [1 2 3]", got)
	}

	err = DecodeArray(StageEvaluation, "no array here", &got)
	if err == nil {
		t.Fatal("expected error for response without brackets")
	}
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Stage != StageEvaluation {
		t.Errorf("expected evaluation-stage ParseError, got %v", err)
	}
}

func TestDecodeArrayClosingBeforeOpening(t *testing.T) {
	var got []int
	if err := DecodeArray(StageEvaluation, "] mismatched [", &got); err == nil {
		t.Fatal("expected error when closing bracket precedes opening bracket")
	}
}
