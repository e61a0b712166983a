package signature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func querySignature() *Signature {
	return New("generate_query",
		"Write a simple search query that will help answer a complex question.").
		AddInput("Context", "may contain relevant facts").
		AddInput("Question", "the question to answer").
		AddOutput("Query", "a simple search query")
}

func TestRender(t *testing.T) {
	sig := querySignature()

	system, user := sig.Render(map[string]string{
		"Context":  "[1] France | Paris is the capital of France.",
		"Question": "What is the capital of France?",
	})

	assert.Contains(t, system, "Write a simple search query")
	assert.Contains(t, system, "Follow the following format.")
	assert.Contains(t, system, "Context: may contain relevant facts")
	assert.Contains(t, system, "Query: a simple search query")

	assert.Contains(t, user, "Question: What is the capital of France?")
	// The user prompt ends with the first output label
	assert.True(t, len(user) > 0 && user[len(user)-len("Query:"):] == "Query:")
}

func TestRenderExtraInstructions(t *testing.T) {
	sig := querySignature()

	system, _ := sig.Render(map[string]string{},
		"Make sure every 1-2 sentences has citations.")
	assert.Contains(t, system, "Make sure every 1-2 sentences has citations.")
}

func TestParseOutputsLabeled(t *testing.T) {
	sig := New("answer", "Answer the question.").
		AddOutput("Reasoning", "step by step reasoning").
		AddOutput("Answer", "the final answer")

	out, err := sig.ParseOutputs("Reasoning: France's capital is well known.\nAnswer: Paris")
	require.NoError(t, err)
	assert.Equal(t, "France's capital is well known.", out["Reasoning"])
	assert.Equal(t, "Paris", out["Answer"])
}

func TestParseOutputsSingleFieldUnlabeled(t *testing.T) {
	sig := querySignature()

	out, err := sig.ParseOutputs("capital of France")
	require.NoError(t, err)
	assert.Equal(t, "capital of France", out["Query"])
}

func TestParseOutputsCaseInsensitive(t *testing.T) {
	sig := querySignature()

	out, err := sig.ParseOutputs("query: capital of France")
	require.NoError(t, err)
	assert.Equal(t, "capital of France", out["Query"])
}

func TestParseOutputsMissingField(t *testing.T) {
	sig := New("answer", "Answer the question.").
		AddOutput("Reasoning", "step by step reasoning").
		AddOutput("Answer", "the final answer")

	_, err := sig.ParseOutputs("Reasoning: something without the answer label")
	assert.ErrorIs(t, err, ErrMissingOutputField)
}

func TestParseOutputsLabelInsideText(t *testing.T) {
	sig := querySignature()

	// A label not at a line start must not be picked up as a section
	out, err := sig.ParseOutputs("Query: how to query: databases")
	require.NoError(t, err)
	assert.Equal(t, "how to query: databases", out["Query"])
}
