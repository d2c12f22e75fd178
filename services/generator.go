package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/quanghuy/intelliquiz-backend/models"
)

// QuestionDraft is the fixed shape every generator provider must produce:
// question text, exactly four options, a zero-based correct index and an
// explanation.
type QuestionDraft struct {
	Text          string            `json:"text"`
	Options       []string          `json:"options"`
	CorrectAnswer int               `json:"correct_answer"`
	Explanation   string            `json:"explanation"`
	Difficulty    models.Difficulty `json:"difficulty"`
}

// TextGenerator is a text-completion backend (Gemini, Ollama, ...).
type TextGenerator interface {
	Name() string
	GenerateText(ctx context.Context, prompt string) (string, error)
}

const (
	maxContentLength  = 3000
	questionsPerBatch = 3
)

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

var difficultyGuide = map[models.Difficulty]string{
	models.DifficultyEasy:   "basic understanding and recall",
	models.DifficultyMedium: "application and analysis",
	models.DifficultyHard:   "critical thinking and synthesis",
}

// DefaultGenerator picks the configured provider: Gemini when GEMINI_API_KEY
// is set, otherwise Ollama when OLLAMA_URL is set, otherwise nil (the
// template fallback alone serves generation).
func DefaultGenerator() TextGenerator {
	if os.Getenv("GEMINI_API_KEY") != "" {
		return &GeminiGenerator{}
	}
	if os.Getenv("OLLAMA_URL") != "" {
		return NewOllamaGenerator()
	}
	return nil
}

// GenerateQuestions produces count drafts from the material content. Model
// calls run in batches of at most three questions; any upstream failure or
// unparsable output degrades to deterministic template questions so the
// caller is never blocked by generator unavailability.
func GenerateQuestions(ctx context.Context, gen TextGenerator, content string, count int, difficulty models.Difficulty) []QuestionDraft {
	if gen == nil {
		return FallbackQuestions(content, count, difficulty)
	}

	chunk := content
	if len(chunk) > maxContentLength {
		chunk = truncateUTF8(chunk, maxContentLength) + "..."
	}

	drafts := make([]QuestionDraft, 0, count)
	for len(drafts) < count {
		batchSize := count - len(drafts)
		if batchSize > questionsPerBatch {
			batchSize = questionsPerBatch
		}

		resp, err := gen.GenerateText(ctx, BuildPrompt(chunk, batchSize, difficulty))
		if err != nil {
			log.Printf("generator %s failed: %v, falling back to templates", gen.Name(), err)
			return append(drafts, FallbackQuestions(content, count-len(drafts), difficulty)...)
		}

		parsed := ParseQuestions(resp, difficulty)
		if len(parsed) == 0 {
			log.Printf("generator %s returned unparsable output, falling back to templates", gen.Name())
			return append(drafts, FallbackQuestions(content, count-len(drafts), difficulty)...)
		}
		drafts = append(drafts, parsed...)
	}

	return drafts[:count]
}

func BuildPrompt(content string, count int, difficulty models.Difficulty) string {
	return fmt.Sprintf(`You are an expert educator creating quiz questions from educational material.

MATERIAL CONTENT:
%s

TASK:
Generate exactly %d %s difficulty multiple-choice questions based on the material above.
Each question should test %s.

FORMAT EACH QUESTION EXACTLY AS FOLLOWS (use this exact format):
---
QUESTION: [Your question text here]
A) [First option]
B) [Second option]
C) [Third option]
D) [Fourth option]
CORRECT: [Letter of correct answer: A, B, C, or D]
EXPLANATION: [Why this answer is correct]
---

REQUIREMENTS:
- Questions must be directly related to the content
- Make options plausible but only one correct
- Ensure variety in question topics
- Keep questions clear and unambiguous
- Explanations should be educational

Generate %d questions now:`, content, count, strings.ToLower(string(difficulty)), difficultyGuide[difficulty], count)
}

var (
	questionRe    = regexp.MustCompile(`^QUESTION:\s*(.*)`)
	optionRe      = regexp.MustCompile(`^([A-D])\)\s*(.*)`)
	correctRe     = regexp.MustCompile(`^CORRECT:\s*\[?([A-D])`)
	explanationRe = regexp.MustCompile(`^EXPLANATION:\s*(.*)`)
)

// ParseQuestions extracts drafts from the model's QUESTION/A-D/CORRECT/
// EXPLANATION format. Malformed blocks are skipped, not fatal.
func ParseQuestions(response string, difficulty models.Difficulty) []QuestionDraft {
	var drafts []QuestionDraft

	for _, block := range strings.Split(response, "---") {
		if strings.TrimSpace(block) == "" {
			continue
		}
		if d, ok := parseBlock(block, difficulty); ok {
			drafts = append(drafts, d)
		}
	}

	return drafts
}

func parseBlock(block string, difficulty models.Difficulty) (QuestionDraft, bool) {
	draft := QuestionDraft{CorrectAnswer: -1, Difficulty: difficulty}
	options := make([]string, 0, 4)

	// Markers start a section; unmarked lines continue the previous one.
	const (
		inNone = iota
		inQuestion
		inOption
		inExplanation
	)
	section := inNone

	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch {
		case questionRe.MatchString(line):
			draft.Text = questionRe.FindStringSubmatch(line)[1]
			section = inQuestion
		case optionRe.MatchString(line):
			m := optionRe.FindStringSubmatch(line)
			options = append(options, strings.TrimSpace(m[2]))
			section = inOption
		case correctRe.MatchString(line):
			letter := correctRe.FindStringSubmatch(line)[1]
			draft.CorrectAnswer = int(letter[0] - 'A')
			section = inNone
		case explanationRe.MatchString(line):
			draft.Explanation = explanationRe.FindStringSubmatch(line)[1]
			section = inExplanation
		default:
			switch section {
			case inQuestion:
				draft.Text += " " + line
			case inOption:
				options[len(options)-1] += " " + line
			case inExplanation:
				draft.Explanation += " " + line
			}
		}
	}

	draft.Text = strings.TrimSpace(draft.Text)
	if draft.Text == "" || len(options) < 4 {
		return QuestionDraft{}, false
	}
	draft.Options = options[:4]
	if draft.CorrectAnswer < 0 || draft.CorrectAnswer >= len(draft.Options) {
		return QuestionDraft{}, false
	}
	if draft.Explanation == "" {
		draft.Explanation = "No explanation provided"
	}
	return draft, true
}

// FallbackQuestions builds deterministic placeholder questions so quiz
// authoring keeps working while the model service is down.
func FallbackQuestions(content string, count int, difficulty models.Difficulty) []QuestionDraft {
	snippet := strings.TrimSpace(content)
	if len(snippet) > 50 {
		snippet = truncateUTF8(snippet, 50) + "..."
	}

	drafts := make([]QuestionDraft, 0, count)
	for i := 1; i <= count; i++ {
		drafts = append(drafts, QuestionDraft{
			Text: fmt.Sprintf("Generated Question %d: Based on the material, what is concept %d?", i, i),
			Options: []string{
				fmt.Sprintf("Option A for question %d", i),
				fmt.Sprintf("Option B for question %d", i),
				fmt.Sprintf("Option C for question %d", i),
				fmt.Sprintf("Option D for question %d", i),
			},
			CorrectAnswer: 0,
			Explanation:   fmt.Sprintf("This is the explanation for question %d. %s", i, snippet),
			Difficulty:    difficulty,
		})
	}
	return drafts
}
