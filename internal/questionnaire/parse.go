package questionnaire

import (
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/pitchforge/pitchforge/internal/llmtext"
	"github.com/pitchforge/pitchforge/internal/model"
)

// ValidationError reports the first malformed question in a batch. The
// whole batch is rejected; survey questions are not worth showing half
// repaired.
type ValidationError struct {
	Index int
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("question %d missing required field %q", e.Index+1, e.Field)
}

// ParseQuestions parses model output into a validated question batch.
// Unlike element extraction there is no repair step: the output must be
// a valid JSON object with a questions array, and every question must
// carry id, category, type, question and purpose, plus options when the
// type requires them.
func ParseQuestions(raw string) ([]model.Question, error) {
	content := llmtext.StripThink(raw)
	content = llmtext.StripFences(content)

	candidate, ok := llmtext.BraceSpan(content)
	if !ok {
		return nil, eris.New("questionnaire output contains no JSON object")
	}

	var batch struct {
		Questions []model.Question `json:"questions"`
	}
	if err := json.Unmarshal([]byte(candidate), &batch); err != nil {
		return nil, eris.Wrap(err, "parse questionnaire JSON")
	}
	if batch.Questions == nil {
		return nil, eris.New("questionnaire JSON missing questions array")
	}

	for i, q := range batch.Questions {
		if err := validate(i, q); err != nil {
			return nil, err
		}
	}
	return batch.Questions, nil
}

func validate(i int, q model.Question) error {
	switch {
	case q.ID == 0:
		return &ValidationError{Index: i, Field: "id"}
	case q.Category == "":
		return &ValidationError{Index: i, Field: "category"}
	case q.Type == "":
		return &ValidationError{Index: i, Field: "type"}
	case q.Question == "":
		return &ValidationError{Index: i, Field: "question"}
	case q.Purpose == "":
		return &ValidationError{Index: i, Field: "purpose"}
	case q.Type.NeedsOptions() && len(q.Options) == 0:
		return &ValidationError{Index: i, Field: "options"}
	}
	return nil
}
