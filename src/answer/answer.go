// Package answer holds the fixed instruction prompt and the pure rules applied
// to inference responses: normalization and overlay layout selection.
package answer

import "strings"

// Prompt is sent with every screenshot. Its bytes are part of the response
// contract (single option letter, full code solution, or "Cannot determine").
const Prompt = `Look at this screenshot carefully. This could be a multiple choice question (MCQ) or a coding question.

Your task:
1. Identify if this is an MCQ or coding question
2. For MCQs: Return the correct option letter (A, B, C, D, etc.)
3. For coding questions: Return the complete code solution in nodejs or java language

For MCQ questions:
- Read the question and all answer options (A, B, C, D, etc.)
- Use logical reasoning to determine the correct answer
- Return ONLY the correct option letter

For coding questions:
- Analyze the code problem, error, or requirement
- Provide the complete, working code solution
- Include proper formatting and indentation
- Analyze the question if its a a coding question of nodejs or moongoes  the code should be in the language of the question


Response format:
- MCQ: Just the letter (A, B, C, D, etc.)
- Coding: Complete code solution

Examples:
- MCQ: B
- Coding: 
class Solution {
    public int add(int a, int b) {
        return a + b;
    }
}

If you cannot see the question clearly, respond: Cannot determine`

// ErrorPrefix marks an answer that carries a pipeline failure instead of a response.
const ErrorPrefix = "Error: "

var answerMarkers = []string{"Answer:", "answer:"}

// Normalize trims the response and, for each marker in turn, keeps only the
// text after its last occurrence. The markers are case-sensitive and checked
// independently, so "answer:" is looked for in what "Answer:" left behind.
func Normalize(response string) string {
	text := strings.TrimSpace(response)
	for _, marker := range answerMarkers {
		if i := strings.LastIndex(text, marker); i >= 0 {
			text = strings.TrimSpace(text[i+len(marker):])
		}
	}
	return text
}

// FromError renders a pipeline failure as an answer.
func FromError(err error) string {
	return ErrorPrefix + err.Error()
}
