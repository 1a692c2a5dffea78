package assessment

import "fmt"

func buildPrompt(task string, count int) string {
	return fmt.Sprintf(`For this task generate %d multiple-choice questions.
Respond as JSON list with objects containing: "question" (str), "options" (list of 4 strings), and "answer" (correct option text).
Task description: %s
`, count, task)
}
