package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"greenregu-be/pkg/llm"
	"greenregu-be/pkg/rag"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ErrMalformedMetadata is returned when the model output is not exactly one
// JSON object of the expected shape.
var ErrMalformedMetadata = errors.New("malformed metadata")

// Metadata is what the model may say about a document.
type Metadata struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Description string   `json:"description" validate:"max=2000"`
	Region      string   `json:"region" validate:"max=100"`
	Category    string   `json:"category" validate:"max=100"`
	Tags        []string `json:"tags" validate:"max=20,dive,required,max=50"`
}

// Config controls extraction.
type Config struct {
	// MaxInputChars bounds how much of the document is sent to the model.
	MaxInputChars int
	Timeout       time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxInputChars: 4000,
		Timeout:       60 * time.Second,
	}
}

// Extractor asks a language model for document metadata and accepts only
// output that parses strictly.
type Extractor struct {
	provider llm.LLMProvider
	validate *validator.Validate
	config   Config
	logger   *zap.Logger
}

func NewExtractor(provider llm.LLMProvider, config Config, logger *zap.Logger) *Extractor {
	d := DefaultConfig()
	if config.MaxInputChars <= 0 {
		config.MaxInputChars = d.MaxInputChars
	}
	if config.Timeout <= 0 {
		config.Timeout = d.Timeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		provider: provider,
		validate: validator.New(),
		config:   config,
		logger:   logger,
	}
}

// Extract returns metadata for the document text. Generation failures are
// *rag.BackendError; unusable output is ErrMalformedMetadata.
func (e *Extractor) Extract(ctx context.Context, text string) (*Metadata, error) {
	ctx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	out, err := e.provider.Generate(ctx, buildPrompt(head(text, e.config.MaxInputChars)), llm.WithTemperature(0))
	if err != nil {
		return nil, rag.NewBackendError(ctx, rag.BackendGeneration, err)
	}

	md, err := Parse(out, e.validate)
	if err != nil {
		e.logger.Warn("metadata rejected", zap.Error(err), zap.Int("output_length", len(out)))
		return nil, err
	}
	return md, nil
}

// Parse decodes model output into Metadata. Markdown code fences are
// tolerated; anything else around the object, unknown keys, wrong types and
// failed validation are rejected.
func Parse(raw string, validate *validator.Validate) (*Metadata, error) {
	body := stripFences(strings.TrimSpace(raw))
	if !strings.HasPrefix(body, "{") {
		return nil, fmt.Errorf("%w: output is not a JSON object", ErrMalformedMetadata)
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	dec.DisallowUnknownFields()

	var md Metadata
	if err := dec.Decode(&md); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMetadata, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after object", ErrMalformedMetadata)
	}

	if validate == nil {
		validate = validator.New()
	}
	if err := validate.Struct(md); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMetadata, err)
	}

	md.Title = strings.TrimSpace(md.Title)
	md.Tags = normalizeTags(md.Tags)
	return &md, nil
}

func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		return ""
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func head(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func buildPrompt(text string) string {
	var prompt strings.Builder
	prompt.WriteString("<task>\n")
	prompt.WriteString("Read the beginning of a regulatory document and describe it.\n")
	prompt.WriteString("</task>\n\n")
	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Reply with exactly one JSON object and nothing else:\n")
	prompt.WriteString(`{"title": string, "description": string, "region": string, "category": string, "tags": [string]}`)
	prompt.WriteString("\n- title is required\n")
	prompt.WriteString("- at most 20 tags, each a short lowercase phrase\n")
	prompt.WriteString("</output_format>\n\n")
	prompt.WriteString("<document>\n")
	prompt.WriteString(text)
	prompt.WriteString("\n</document>")
	return prompt.String()
}
