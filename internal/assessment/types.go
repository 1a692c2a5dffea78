package assessment

// OptionCount is the number of options every question carries.
const OptionCount = 4

// DefaultQuestionCount is the number of questions generated per week.
const DefaultQuestionCount = 20

// Question is one multiple-choice item. Answer equals one of Options.
type Question struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// Batch is the set of questions generated for one roadmap week. A new
// batch replaces the previous one wholesale.
type Batch struct {
	Week      string     `json:"week"`
	Task      string     `json:"task"`
	Questions []Question `json:"questions"`
}

// Key returns the correct answer of every question, in order.
func (b *Batch) Key() []string {
	if b == nil {
		return nil
	}
	key := make([]string, len(b.Questions))
	for i, q := range b.Questions {
		key[i] = q.Answer
	}
	return key
}

// Len returns the number of questions in the batch.
func (b *Batch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Questions)
}

// AnswerReview pairs a submitted answer with the correct one.
type AnswerReview struct {
	Question string
	Given    string
	Correct  string
	OK       bool
}

// Review lines up answers against the batch for display after grading.
// Missing answers show as empty strings.
func (b *Batch) Review(answers map[int]string) []AnswerReview {
	if b == nil {
		return nil
	}
	out := make([]AnswerReview, len(b.Questions))
	for i, q := range b.Questions {
		given := answers[i]
		out[i] = AnswerReview{
			Question: q.Question,
			Given:    given,
			Correct:  q.Answer,
			OK:       given == q.Answer,
		}
	}
	return out
}
