package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"unicode/utf8"
)

// DefaultSeedCount is used when a seeding request does not say how many
// pairs to generate.
const DefaultSeedCount = 20

// TextGenerator completes a prompt. The Gemini client is the production
// implementation.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// SeedPair is one generated question and answer.
type SeedPair struct {
	Question string
	Answer   string
}

// Seeder asks a TextGenerator for question/answer pairs on a topic.
type Seeder struct {
	gen        TextGenerator
	maxRetries int
}

func NewSeeder(gen TextGenerator, maxRetries int) *Seeder {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Seeder{gen: gen, maxRetries: maxRetries}
}

// Seed returns the generated pairs ordered by question. An empty or
// unparseable reply is retried maxRetries times before giving up with an
// UpstreamError.
func (s *Seeder) Seed(ctx context.Context, request string, count int) ([]SeedPair, error) {
	if count <= 0 {
		count = DefaultSeedCount
	}
	prompt := buildSeedPrompt(request, count)

	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		reply, err := s.gen.Generate(ctx, prompt)
		if err != nil {
			lastErr = err
			log.Printf("seed attempt %d: generator error: %v", attempt+1, err)
			continue
		}

		pairs, err := parseSeedReply(reply)
		if err != nil {
			lastErr = err
			log.Printf("seed attempt %d: %v", attempt+1, err)
			continue
		}
		return pairs, nil
	}

	return nil, &UpstreamError{Message: "AI service did not return usable fish", Err: lastErr}
}

// extractObject keeps the text from the first '{' to the last '}'. It
// returns "" when there is no such span.
func extractObject(s string) string {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return ""
	}
	return s[start : end+1]
}

func parseSeedReply(reply string) ([]SeedPair, error) {
	obj := extractObject(reply)
	if obj == "" {
		return nil, fmt.Errorf("reply contains no JSON object")
	}

	var raw map[string]string
	if err := json.Unmarshal([]byte(obj), &raw); err != nil {
		return nil, fmt.Errorf("reply is not a question/answer object: %w", err)
	}

	questions := make([]string, 0, len(raw))
	for q := range raw {
		questions = append(questions, q)
	}
	sort.Strings(questions)

	pairs := make([]SeedPair, 0, len(questions))
	for _, q := range questions {
		a := raw[q]
		if !validFishText(q) || !validFishText(a) {
			continue
		}
		pairs = append(pairs, SeedPair{Question: q, Answer: a})
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("reply contains no usable pairs")
	}
	return pairs, nil
}

func validFishText(s string) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(s))
	return n > 0 && n <= 1024
}

func buildSeedPrompt(request string, count int) string {
	var b strings.Builder

	b.WriteString("You are an expert flashcard creator.\n\n")
	b.WriteString("CRITICAL: Return ONLY a valid JSON object. No preamble, no markdown, no backticks.\n\n")
	b.WriteString(fmt.Sprintf("Generate exactly %d question/answer pairs for the following request:\n", count))
	b.WriteString(request)
	b.WriteString("\n\n")
	b.WriteString(`Format: {"question 1": "answer 1", "question 2": "answer 2"}` + "\n")
	b.WriteString("Each question and each answer must be at most 1000 characters. Questions must be unique.\n")

	return b.String()
}
