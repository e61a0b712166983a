package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/smallnest/longformqa/retrieval"
	"github.com/smallnest/longformqa/retrieval/memory"
)

// scriptedLLM routes calls by signature: queries and entailment checks get
// fixed answers, paragraph generations are consumed from a script so retries
// can be exercised.
type scriptedLLM struct {
	paragraphs     []string
	paragraphCalls int
	queryCalls     int
	entailCalls    int
	lastPrompts    []string
}

func (m *scriptedLLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	var prompt strings.Builder
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if tc, ok := part.(llms.TextContent); ok {
				prompt.WriteString(tc.Text)
				prompt.WriteString("\n")
			}
		}
	}
	p := prompt.String()
	m.lastPrompts = append(m.lastPrompts, p)

	var completion string
	switch {
	case strings.Contains(p, "search query"):
		m.queryCalls++
		completion = "Query: gary zukav dancing wu li masters"
	case strings.Contains(p, "supported by the premise"):
		m.entailCalls++
		completion = "Faithful: yes"
	default:
		i := m.paragraphCalls
		if i >= len(m.paragraphs) {
			i = len(m.paragraphs) - 1
		}
		m.paragraphCalls++
		completion = "Paragraph: " + m.paragraphs[i]
	}

	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: completion}},
	}, nil
}

func (m *scriptedLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return "", nil
}

func testStore(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	err := store.Add(context.Background(), []retrieval.Passage{
		{Title: "Gary Zukav", Text: "Gary Zukav is an American spiritual teacher and author."},
		{Title: "The Dancing Wu Li Masters", Text: "The Dancing Wu Li Masters is a 1979 book by Gary Zukav that won a U.S. National Book Award."},
	})
	require.NoError(t, err)
	return store
}

func TestMultiHopQARun(t *testing.T) {
	llm := &scriptedLLM{paragraphs: []string{
		"Gary Zukav's first book won a National Book Award [2].",
	}}

	qa := NewMultiHopQA(Config{
		LLM:       llm,
		Retriever: testStore(t),
	})

	answer, err := qa.Run(context.Background(), "Which award did Gary Zukav's first book receive?")
	require.NoError(t, err)

	assert.Contains(t, answer.Paragraph, "National Book Award [2].")
	assert.Len(t, answer.Queries, 2)
	// Both hops retrieve the same passages; dedup keeps two
	assert.Len(t, answer.Context, 2)
	assert.Equal(t, 2, llm.queryCalls)
	assert.Equal(t, 1, llm.paragraphCalls)
	assert.Equal(t, 1, llm.entailCalls)
}

func TestMultiHopQABacktracksOnFormat(t *testing.T) {
	llm := &scriptedLLM{paragraphs: []string{
		"The first book won an award. It was about physics.", // no citations
		"The first book won a National Book Award [2].",      // fixed
	}}

	qa := NewMultiHopQA(Config{
		LLM:       llm,
		Retriever: testStore(t),
	})

	answer, err := qa.Run(context.Background(), "Which award did Gary Zukav's first book receive?")
	require.NoError(t, err)

	assert.Equal(t, 2, llm.paragraphCalls)
	assert.Contains(t, answer.Paragraph, "[2].")

	// The retry prompt carried the format feedback
	var sawFeedback bool
	for _, p := range llm.lastPrompts {
		if strings.Contains(p, "Make sure every 1-2 sentences has citations.") {
			sawFeedback = true
		}
	}
	assert.True(t, sawFeedback)
}

func TestMultiHopQASoftExhaustionKeepsLastParagraph(t *testing.T) {
	llm := &scriptedLLM{paragraphs: []string{
		"Never cites anything properly.",
	}}

	qa := NewMultiHopQA(Config{
		LLM:           llm,
		Retriever:     testStore(t),
		MaxBacktracks: 1,
	})

	answer, err := qa.Run(context.Background(), "Which award?")
	require.NoError(t, err)
	// Suggestions are soft: the last output is returned unchanged
	assert.Equal(t, "Never cites anything properly.", answer.Paragraph)
	assert.Equal(t, 2, llm.paragraphCalls)
}

func TestMultiHopQAUseQuestionAsFirstQuery(t *testing.T) {
	llm := &scriptedLLM{paragraphs: []string{
		"The book won a National Book Award [2].",
	}}

	qa := NewMultiHopQA(Config{
		LLM:                     llm,
		Retriever:               testStore(t),
		UseQuestionAsFirstQuery: true,
	})

	answer, err := qa.Run(context.Background(), "dancing wu li masters award")
	require.NoError(t, err)
	assert.Equal(t, "dancing wu li masters award", answer.Queries[0])
	// Only the second hop generated a query
	assert.Equal(t, 1, llm.queryCalls)
}

func TestMultiHopQARequiresCollaborators(t *testing.T) {
	qa := NewMultiHopQA(Config{})
	_, err := qa.Run(context.Background(), "anything")
	assert.Error(t, err)
}

func TestRenderContext(t *testing.T) {
	assert.Equal(t, "N/A", RenderContext(nil))

	rendered := RenderContext([]retrieval.Passage{
		{Title: "France", Text: "Paris is the capital of France."},
		{Title: "Seine", Text: "The Seine flows through Paris."},
	})
	assert.Equal(t, "[1] France | Paris is the capital of France.\n[2] Seine | The Seine flows through Paris.", rendered)
}
