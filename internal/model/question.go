package model

// QuestionType enumerates questionnaire question kinds.
type QuestionType string

const (
	QuestionChoice   QuestionType = "choice"
	QuestionMultiple QuestionType = "multiple"
	QuestionScale    QuestionType = "scale"
	QuestionText     QuestionType = "text"
)

// NeedsOptions reports whether the question type requires an options list.
func (t QuestionType) NeedsOptions() bool {
	return t == QuestionChoice || t == QuestionMultiple
}

// Question is a single market-validation questionnaire entry. Downstream
// rendering assumes every field is populated, so a question missing any
// required field invalidates the whole batch at parse time.
type Question struct {
	ID       int          `json:"id"`
	Category string       `json:"category"`
	Type     QuestionType `json:"type"`
	Question string       `json:"question"`
	Options  []string     `json:"options,omitempty"`
	Purpose  string       `json:"purpose"`
}
