package llm

import (
	"testing"

	"github.com/plumline/taxon/internal/model"
)

func TestParseDecision(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    *model.Decision
		wantNil bool
	}{
		{
			name:  "bare JSON",
			input: `{"selected_code": "fb-1-3-1", "confidence": 0.92, "reasoning": "Chips category fits."}`,
			want:  &model.Decision{SelectedCode: "fb-1-3-1", Confidence: 0.92, Reasoning: "Chips category fits."},
		},
		{
			name: "code fence wrapping",
			input: "```json\n" +
				`{"selected_code": "ap-2-1", "confidence": 0.8, "reasoning": "T-shirt."}` +
				"\n```",
			want: &model.Decision{SelectedCode: "ap-2-1", Confidence: 0.8, Reasoning: "T-shirt."},
		},
		{
			name: "surrounding prose",
			input: `Looking at the candidates, this is clearly a snack food.

{"selected_code": "fb-1-3", "confidence": 0.75, "reasoning": "Snack food."}

Let me know if you need anything else!`,
			want: &model.Decision{SelectedCode: "fb-1-3", Confidence: 0.75, Reasoning: "Snack food."},
		},
		{
			name:  "confidence above one clamps to exactly 1.0",
			input: `{"selected_code":"fb-1-3-1","confidence":1.5,"reasoning":"Very sure."}`,
			want:  &model.Decision{SelectedCode: "fb-1-3-1", Confidence: 1.0, Reasoning: "Very sure."},
		},
		{
			name:  "negative confidence clamps to zero",
			input: `{"selected_code":"fb-1","confidence":-0.3,"reasoning":"Unsure."}`,
			want:  &model.Decision{SelectedCode: "fb-1", Confidence: 0.0, Reasoning: "Unsure."},
		},
		{
			name:  "braces inside reasoning string",
			input: `{"selected_code":"fb-1","confidence":0.6,"reasoning":"Matches {snacks} best."}`,
			want:  &model.Decision{SelectedCode: "fb-1", Confidence: 0.6, Reasoning: "Matches {snacks} best."},
		},
		{
			name:    "no JSON at all",
			input:   "I think this product is a snack food, probably chips.",
			wantNil: true,
		},
		{
			name:    "unbalanced braces",
			input:   `{"selected_code":"fb-1","confidence":0.6`,
			wantNil: true,
		},
		{
			name:    "missing selected code",
			input:   `{"confidence":0.9,"reasoning":"No idea which."}`,
			wantNil: true,
		},
		{
			name:    "invalid JSON in block",
			input:   `{selected_code: fb-1}`,
			wantNil: true,
		},
		{
			name:    "empty input",
			input:   "",
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDecision(tt.input)
			if tt.wantNil {
				if got != nil {
					t.Errorf("ParseDecision() = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("ParseDecision() = nil, want decision")
			}
			if *got != *tt.want {
				t.Errorf("ParseDecision() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseAttributes(t *testing.T) {
	category := &model.Category{
		Code:     "fb-1-3-1",
		FullPath: "Food & Beverage > Snacks > Chips > Potato Chips",
		Attributes: []model.CategoryAttribute{
			{Handle: "flavor", Name: "Flavor"},
			{Handle: "dietary", Name: "Dietary Preference", Values: []string{"Vegan", "Gluten-Free"}},
		},
	}

	tests := []struct {
		name  string
		input string
		want  int
	}{
		{
			name:  "valid assignments",
			input: `{"attributes":[{"handle":"flavor","value":"Sea Salt","confidence":0.9},{"handle":"dietary","value":"Vegan","confidence":0.7}]}`,
			want:  2,
		},
		{
			name:  "unknown handles are dropped",
			input: `{"attributes":[{"handle":"flavor","value":"BBQ","confidence":0.8},{"handle":"color","value":"Red","confidence":0.9}]}`,
			want:  1,
		},
		{
			name:  "empty values are dropped",
			input: `{"attributes":[{"handle":"flavor","value":"","confidence":0.8}]}`,
			want:  0,
		},
		{
			name:  "malformed response degrades to empty",
			input: "Sorry, I could not extract any attributes for this product.",
			want:  0,
		},
		{
			name:  "wrong shape degrades to empty",
			input: `{"attrs": "flavor=salt"}`,
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAttributes(tt.input, category)
			if len(got) != tt.want {
				t.Errorf("ParseAttributes() returned %d assignments, want %d: %+v", len(got), tt.want, got)
			}
		})
	}
}

func TestParseAttributes_FillsDisplayNameAndClamps(t *testing.T) {
	category := &model.Category{
		Code:       "fb-1",
		Attributes: []model.CategoryAttribute{{Handle: "flavor", Name: "Flavor"}},
	}

	got := ParseAttributes(`{"attributes":[{"handle":"flavor","value":"Lime","confidence":2.0}]}`, category)
	if len(got) != 1 {
		t.Fatalf("expected one assignment, got %d", len(got))
	}
	if got[0].Name != "Flavor" {
		t.Errorf("display name = %q, want Flavor", got[0].Name)
	}
	if got[0].Confidence != 1.0 {
		t.Errorf("confidence = %.2f, want clamped 1.0", got[0].Confidence)
	}
}

func TestExtractJSONBlock_Nested(t *testing.T) {
	input := `prefix {"a": {"b": 1}, "c": "x"} suffix {"d": 2}`
	got := extractJSONBlock(input)
	want := `{"a": {"b": 1}, "c": "x"}`
	if got != want {
		t.Errorf("extractJSONBlock() = %q, want %q", got, want)
	}
}
