package questionbank

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed catalog.json
var catalogJSON []byte

//go:embed catalog.schema.json
var catalogSchemaJSON []byte

type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

// ParseDifficulty accepts the canonical names in any letter case.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

// Question is one multiple-choice item. Options always has four entries.
type Question struct {
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correctOption"`
	Explanation   string   `json:"explanation"`
}

// Quiz is a selectable quiz card. Title doubles as the question bank topic.
type Quiz struct {
	ID            int        `json:"id"`
	Title         string     `json:"title"`
	Subject       string     `json:"subject"`
	QuestionCount int        `json:"questionCount"`
	TimeEstimate  string     `json:"timeEstimate"`
	Difficulty    Difficulty `json:"difficulty"`
	Points        int        `json:"points"`
}

type catalog struct {
	Topics []struct {
		Name         string                    `json:"name"`
		Subject      string                    `json:"subject"`
		Difficulties map[Difficulty][]Question `json:"difficulties"`
	} `json:"topics"`
	Quizzes []Quiz `json:"quizzes"`
}

// Bank is the read-only question catalog. Safe for concurrent use.
type Bank struct {
	topics   []string
	subjects map[string]string
	pools    map[string]map[Difficulty][]Question
	quizzes  []Quiz
}

var (
	defaultOnce sync.Once
	defaultBank *Bank
	defaultErr  error
)

// Default returns the embedded catalog, parsed once.
func Default() (*Bank, error) {
	defaultOnce.Do(func() {
		defaultBank, defaultErr = Parse(catalogJSON)
	})
	return defaultBank, defaultErr
}

// Parse validates raw catalog JSON against the catalog schema and builds a Bank.
func Parse(data []byte) (*Bank, error) {
	if err := validateCatalog(data); err != nil {
		return nil, err
	}

	var c catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	b := &Bank{
		subjects: make(map[string]string),
		pools:    make(map[string]map[Difficulty][]Question),
	}
	for _, t := range c.Topics {
		if _, dup := b.pools[t.Name]; dup {
			return nil, fmt.Errorf("duplicate topic %q", t.Name)
		}
		b.topics = append(b.topics, t.Name)
		b.subjects[t.Name] = t.Subject
		b.pools[t.Name] = t.Difficulties
	}

	seen := make(map[int]bool)
	for _, q := range c.Quizzes {
		if seen[q.ID] {
			return nil, fmt.Errorf("duplicate quiz id %d", q.ID)
		}
		seen[q.ID] = true
		b.quizzes = append(b.quizzes, q)
	}
	return b, nil
}

func validateCatalog(data []byte) error {
	schemaDoc, err := jsonschema.UnmarshalJSON(bytes.NewReader(catalogSchemaJSON))
	if err != nil {
		return fmt.Errorf("parse catalog schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema://catalog.json", schemaDoc); err != nil {
		return fmt.Errorf("add catalog schema: %w", err)
	}
	schema, err := c.Compile("schema://catalog.json")
	if err != nil {
		return fmt.Errorf("compile catalog schema: %w", err)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("parse catalog: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("invalid catalog: %w", err)
	}
	return nil
}

// Lookup returns the ordered questions for a topic and difficulty.
// Unknown pairs yield an empty slice.
func (b *Bank) Lookup(topic string, difficulty Difficulty) []Question {
	pool := b.pools[topic][difficulty]
	out := make([]Question, len(pool))
	copy(out, pool)
	return out
}

// PoolSize is len(Lookup(topic, difficulty)) without the copy.
func (b *Bank) PoolSize(topic string, difficulty Difficulty) int {
	return len(b.pools[topic][difficulty])
}

// Topics lists topic names in catalog order.
func (b *Bank) Topics() []string {
	out := make([]string, len(b.topics))
	copy(out, b.topics)
	return out
}

func (b *Bank) Subject(topic string) string {
	return b.subjects[topic]
}

// Quizzes returns the quiz cards in catalog order.
func (b *Bank) Quizzes() []Quiz {
	out := make([]Quiz, len(b.quizzes))
	copy(out, b.quizzes)
	return out
}

func (b *Bank) Quiz(id int) (Quiz, bool) {
	for _, q := range b.quizzes {
		if q.ID == id {
			return q, true
		}
	}
	return Quiz{}, false
}
