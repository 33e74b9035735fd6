package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"greenregu-be/pkg/embedding"
	"greenregu-be/pkg/llm/ollama"
	"greenregu-be/pkg/rag/citation"
	ragcontext "greenregu-be/pkg/rag/context"
	"greenregu-be/pkg/rag/prompt"
	"greenregu-be/pkg/rag/search"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ollamaEnv(t *testing.T) (baseURL, chatModel, embedModel string) {
	t.Helper()
	if os.Getenv("OLLAMA_INTEGRATION") != "true" {
		t.Skip("Skipping Ollama integration test: OLLAMA_INTEGRATION not set")
	}
	baseURL = os.Getenv("OLLAMA_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	chatModel = os.Getenv("LLM_MODEL")
	if chatModel == "" {
		chatModel = "llama3"
	}
	embedModel = os.Getenv("OLLAMA_EMBEDDING_MODEL")
	if embedModel == "" {
		embedModel = "nomic-embed-text"
	}
	return baseURL, chatModel, embedModel
}

func TestOllamaEmbedding(t *testing.T) {
	baseURL, _, embedModel := ollamaEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	res, err := embedding.NewOllamaProvider(baseURL, embedModel).Generate(ctx, "Offshore wind permits", embedding.TaskRetrievalQuery)

	require.NoError(t, err)
	assert.Len(t, res.Embedding.Values, 768)
}

func TestOllamaCitedAnswer(t *testing.T) {
	baseURL, chatModel, _ := ollamaEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	rctx := ragcontext.Build([]search.Candidate{
		{Chunk: search.Chunk{ID: "a", DocumentID: "d", PageNumber: 3, SectionTitle: "Article 5",
			Content: "Member States shall ensure that the share of renewable energy is at least 42.5% by 2030."}, Score: 0.9},
	})
	messages := prompt.NewCitationBuilder("What is the 2030 renewable target?", rctx, nil).Messages()

	answer, err := ollama.NewOllamaProvider(baseURL, chatModel).Chat(ctx, messages)

	require.NoError(t, err)
	t.Logf("answer: %s", answer)
	assert.NotEmpty(t, answer)
	assert.NotEmpty(t, citation.Reconcile(answer, rctx.Entries), "model did not cite the context")
}
