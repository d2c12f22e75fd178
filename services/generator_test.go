package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/quanghuy/intelliquiz-backend/models"
)

const sampleResponse = `---
QUESTION: What does a mutex protect?
A) Shared state
B) The network stack
C) The file system
D) The scheduler
CORRECT: A
EXPLANATION: A mutex serializes access to shared state.
---
QUESTION: Which call blocks until the lock is free?
A) TryLock
B) Lock
C) Unlock
D) RLock
CORRECT: [B]
EXPLANATION: Lock waits for the holder to release.
---`

func TestParseQuestions(t *testing.T) {
	drafts := ParseQuestions(sampleResponse, models.DifficultyMedium)
	if len(drafts) != 2 {
		t.Fatalf("got %d drafts, want 2", len(drafts))
	}

	first := drafts[0]
	if first.Text != "What does a mutex protect?" {
		t.Fatalf("text = %q", first.Text)
	}
	if len(first.Options) != 4 || first.Options[0] != "Shared state" {
		t.Fatalf("options = %v", first.Options)
	}
	if first.CorrectAnswer != 0 {
		t.Fatalf("correct = %d, want 0", first.CorrectAnswer)
	}
	if first.Difficulty != models.DifficultyMedium {
		t.Fatalf("difficulty = %q", first.Difficulty)
	}

	// Bracketed answer letters are accepted too.
	if drafts[1].CorrectAnswer != 1 {
		t.Fatalf("second correct = %d, want 1", drafts[1].CorrectAnswer)
	}
}

func TestParseQuestionsContinuationLines(t *testing.T) {
	response := `QUESTION: A question split
over two lines?
A) First
B) Second
option continued
C) Third
D) Fourth
CORRECT: C
EXPLANATION: Spread
across lines.`

	drafts := ParseQuestions(response, models.DifficultyEasy)
	if len(drafts) != 1 {
		t.Fatalf("got %d drafts, want 1", len(drafts))
	}
	d := drafts[0]
	if d.Text != "A question split over two lines?" {
		t.Fatalf("text = %q", d.Text)
	}
	if d.Options[1] != "Second option continued" {
		t.Fatalf("option B = %q", d.Options[1])
	}
	if d.Explanation != "Spread across lines." {
		t.Fatalf("explanation = %q", d.Explanation)
	}
}

func TestParseQuestionsSkipsMalformedBlocks(t *testing.T) {
	response := `---
QUESTION: Too few options?
A) One
B) Two
CORRECT: A
---
QUESTION: No correct marker?
A) One
B) Two
C) Three
D) Four
---
QUESTION: Valid one?
A) One
B) Two
C) Three
D) Four
CORRECT: D
---`

	drafts := ParseQuestions(response, models.DifficultyHard)
	if len(drafts) != 1 {
		t.Fatalf("got %d drafts, want 1", len(drafts))
	}
	if drafts[0].CorrectAnswer != 3 {
		t.Fatalf("correct = %d, want 3", drafts[0].CorrectAnswer)
	}
	if drafts[0].Explanation != "No explanation provided" {
		t.Fatalf("explanation default missing, got %q", drafts[0].Explanation)
	}
}

func TestFallbackQuestions(t *testing.T) {
	drafts := FallbackQuestions("Process scheduling decides which thread runs next on the CPU.", 4, models.DifficultyEasy)
	if len(drafts) != 4 {
		t.Fatalf("got %d drafts, want 4", len(drafts))
	}
	for i, d := range drafts {
		if d.Text == "" || len(d.Options) != 4 {
			t.Fatalf("draft %d malformed: %+v", i, d)
		}
		if d.CorrectAnswer < 0 || d.CorrectAnswer >= len(d.Options) {
			t.Fatalf("draft %d correct index out of range", i)
		}
		if d.Difficulty != models.DifficultyEasy {
			t.Fatalf("draft %d difficulty = %q", i, d.Difficulty)
		}
	}
}

type stubGenerator struct {
	response string
	err      error
	calls    int
}

func (s *stubGenerator) Name() string { return "stub" }

func (s *stubGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	s.calls++
	return s.response, s.err
}

func TestGenerateQuestionsBatches(t *testing.T) {
	gen := &stubGenerator{response: sampleResponse}
	drafts := GenerateQuestions(context.Background(), gen, "material", 5, models.DifficultyMedium)
	if len(drafts) != 5 {
		t.Fatalf("got %d drafts, want 5", len(drafts))
	}
	// Two parsed questions per call, so five require three calls.
	if gen.calls != 3 {
		t.Fatalf("generator called %d times, want 3", gen.calls)
	}
}

func TestGenerateQuestionsFallsBackOnError(t *testing.T) {
	gen := &stubGenerator{err: errors.New("model unavailable")}
	drafts := GenerateQuestions(context.Background(), gen, "material", 3, models.DifficultyHard)
	if len(drafts) != 3 {
		t.Fatalf("got %d drafts, want 3", len(drafts))
	}
	for _, d := range drafts {
		if !strings.HasPrefix(d.Text, "Generated Question") {
			t.Fatalf("expected template question, got %q", d.Text)
		}
	}
}

func TestGenerateQuestionsFallsBackOnGarbage(t *testing.T) {
	gen := &stubGenerator{response: "I cannot help with that."}
	drafts := GenerateQuestions(context.Background(), gen, "material", 2, models.DifficultyEasy)
	if len(drafts) != 2 {
		t.Fatalf("got %d drafts, want 2", len(drafts))
	}
}

func TestGenerateQuestionsNilGenerator(t *testing.T) {
	drafts := GenerateQuestions(context.Background(), nil, "material", 2, models.DifficultyEasy)
	if len(drafts) != 2 {
		t.Fatalf("got %d drafts, want 2", len(drafts))
	}
}

func TestFallbackQuestionsMultibyteContent(t *testing.T) {
	// Byte 50 lands inside a rune; the snippet must stay valid UTF-8.
	content := strings.Repeat("ất", 40)
	drafts := FallbackQuestions(content, 1, models.DifficultyEasy)
	if !utf8.ValidString(drafts[0].Explanation) {
		t.Fatalf("explanation contains a split rune: %q", drafts[0].Explanation)
	}
}

func TestTruncateUTF8(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 3, "hel"},
		{"aấb", 2, "a"},  // cut would split the 3-byte rune
		{"aấb", 4, "aấ"}, // boundary cut keeps the rune
		{"", 5, ""},
	}
	for _, tc := range cases {
		if got := truncateUTF8(tc.in, tc.n); got != tc.want {
			t.Errorf("truncateUTF8(%q, %d) = %q, want %q", tc.in, tc.n, got, tc.want)
		}
	}
}

func TestBuildPromptTruncatedContent(t *testing.T) {
	prompt := BuildPrompt("short content", 3, models.DifficultyMedium)
	if !strings.Contains(prompt, "short content") {
		t.Fatalf("prompt missing content")
	}
	if !strings.Contains(prompt, "Generate exactly 3 medium difficulty") {
		t.Fatalf("prompt missing count and difficulty: %q", prompt)
	}
	if !strings.Contains(prompt, "application and analysis") {
		t.Fatalf("prompt missing difficulty guidance")
	}
}
