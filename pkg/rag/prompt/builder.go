package prompt

import (
	"strings"

	"greenregu-be/pkg/llm"
	ragcontext "greenregu-be/pkg/rag/context"
)

// CitationBuilder builds the message list for a cited answer
type CitationBuilder struct {
	query   string
	context *ragcontext.Context
	history []llm.Message
}

// NewCitationBuilder creates a new citation prompt builder
func NewCitationBuilder(query string, ctx *ragcontext.Context, history []llm.Message) *CitationBuilder {
	return &CitationBuilder{
		query:   query,
		context: ctx,
		history: history,
	}
}

// Messages returns the system instructions, the conversation so far and the
// question with its numbered context, in that order.
func (b *CitationBuilder) Messages() []llm.Message {
	messages := make([]llm.Message, 0, len(b.history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: b.System()})
	messages = append(messages, b.history...)
	messages = append(messages, llm.Message{Role: "user", Content: b.User()})
	return messages
}

// System returns the fixed instructions.
func (b *CitationBuilder) System() string {
	var prompt strings.Builder

	b.writeTask(&prompt)
	b.writeGuidelines(&prompt)
	b.writeCitationExample(&prompt)
	b.writeContextFormat(&prompt)

	return prompt.String()
}

// User returns the question followed by the rendered context.
func (b *CitationBuilder) User() string {
	var prompt strings.Builder
	prompt.WriteString("Question: ")
	prompt.WriteString(b.query)
	prompt.WriteString("\n\nContext:\n")
	if b.context != nil {
		prompt.WriteString(b.context.Render())
	}
	return prompt.String()
}

func (b *CitationBuilder) writeTask(prompt *strings.Builder) {
	prompt.WriteString("You are an AI assistant specialized in renewable energy regulations.\n")
	prompt.WriteString("Your task is to provide accurate, well-sourced answers based on the provided context.\n\n")
}

func (b *CitationBuilder) writeGuidelines(prompt *strings.Builder) {
	prompt.WriteString("Guidelines:\n")
	prompt.WriteString("- Use ONLY the information from the provided context\n")
	prompt.WriteString("- If you can't answer from the context, say so\n")
	prompt.WriteString("- ALWAYS cite sources using [index] format, where index is the chunk number\n")
	prompt.WriteString("- Every relevant statement must have a citation\n")
	prompt.WriteString("- If a statement combines information from multiple chunks, cite all relevant chunks like [0,2,3]\n")
	prompt.WriteString("- Keep responses clear and concise\n")
	prompt.WriteString("- Maintain professional tone\n\n")
}

func (b *CitationBuilder) writeCitationExample(prompt *strings.Builder) {
	prompt.WriteString("Example citation format:\n")
	prompt.WriteString("\"The renewable energy target for 2030 is 42.5% [0]. This includes specific provisions for hydrogen production [0,3] and storage requirements [2].\"\n\n")
}

func (b *CitationBuilder) writeContextFormat(prompt *strings.Builder) {
	prompt.WriteString("Context format:\n")
	prompt.WriteString("Each context chunk starts with a header line \"[index] Page N / Section\" followed by its text.\n")
	prompt.WriteString("Use the index from the header in citations.")
}
