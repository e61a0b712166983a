package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/smallnest/longformqa/citation"
	"github.com/smallnest/longformqa/constraint"
	"github.com/smallnest/longformqa/log"
	"github.com/smallnest/longformqa/predict"
	"github.com/smallnest/longformqa/retrieval"
	"github.com/smallnest/longformqa/signature"
)

// State is the per-question state flowing through the pipeline. Retrieved
// context accumulates across hops and is preserved across backtracking
// retries of the answer step.
type State struct {
	Question  string
	Queries   []string
	Context   []retrieval.Passage
	Paragraph string
}

// Answer is the result of one pipeline run.
type Answer struct {
	// Paragraph is the generated long-form answer with [n] citations.
	Paragraph string
	// Context is the deduplicated retrieved context the citations index into.
	Context []retrieval.Passage
	// Queries are the per-hop search queries, for inspection.
	Queries []string
}

// Config configures a MultiHopQA pipeline.
type Config struct {
	// LLM is the generation collaborator. Required.
	LLM llms.Model
	// Retriever is the retrieval collaborator. Required.
	Retriever retrieval.Retriever

	// MaxHops is the number of retrieval rounds. Default 2.
	MaxHops int
	// PassagesPerHop is how many passages each hop retrieves. Default 3.
	PassagesPerHop int
	// MaxBacktracks bounds the answer step's constraint retries.
	// Default constraint.DefaultMaxBacktracks.
	MaxBacktracks int

	// UseQuestionAsFirstQuery skips query generation on the first hop and
	// searches with the raw question instead.
	UseQuestionAsFirstQuery bool
	// DisableFaithfulness turns off the per-span entailment validator,
	// leaving only the citation format check.
	DisableFaithfulness bool

	// Logger defaults to the package-level logger.
	Logger log.Logger
}

// StepGenerateParagraph is the name of the generating step the citation
// validators target.
const StepGenerateParagraph = "generate_cited_paragraph"

// GenerateQuerySignature returns the contract of the per-hop query step.
func GenerateQuerySignature() *signature.Signature {
	return signature.New("generate_query",
		"Write a simple search query that will help answer a complex question.").
		AddInput("Context", "may contain relevant facts").
		AddInput("Question", "the question to answer").
		AddOutput("Query", "a simple search query")
}

// GenerateCitedParagraphSignature returns the contract of the answer step.
func GenerateCitedParagraphSignature() *signature.Signature {
	return signature.New(StepGenerateParagraph,
		"Generate a paragraph that answers the question using only the numbered context passages, citing them in 'text... [x].' format.").
		AddInput("Context", "numbered passages containing relevant facts").
		AddInput("Question", "the question to answer").
		AddOutput("Paragraph", "an answer paragraph with citations")
}

// MultiHopQA is a sequential multi-hop question-answering pipeline: per hop
// it generates a search query, retrieves passages and accumulates
// deduplicated context, then generates a cited paragraph under citation
// constraints with backtracking retries.
type MultiHopQA struct {
	config       Config
	queryStep    *predict.Predict
	answerStep   *predict.Predict
	faithfulness *citation.FaithfulnessChecker
	logger       log.Logger
}

// NewMultiHopQA creates a pipeline from the config, filling in defaults.
func NewMultiHopQA(config Config) *MultiHopQA {
	if config.MaxHops == 0 {
		config.MaxHops = 2
	}
	if config.PassagesPerHop == 0 {
		config.PassagesPerHop = 3
	}
	if config.MaxBacktracks == 0 {
		config.MaxBacktracks = constraint.DefaultMaxBacktracks
	}
	logger := config.Logger
	if logger == nil {
		logger = log.GetDefaultLogger()
	}

	return &MultiHopQA{
		config:       config,
		queryStep:    predict.New(GenerateQuerySignature(), config.LLM),
		answerStep:   predict.New(GenerateCitedParagraphSignature(), config.LLM),
		faithfulness: citation.NewFaithfulnessChecker(config.LLM),
		logger:       logger,
	}
}

// Run answers one question. Hops run in a fixed-size loop; every model and
// retriever call blocks in turn.
func (m *MultiHopQA) Run(ctx context.Context, question string) (*Answer, error) {
	if m.config.LLM == nil {
		return nil, fmt.Errorf("pipeline requires an LLM")
	}
	if m.config.Retriever == nil {
		return nil, fmt.Errorf("pipeline requires a retriever")
	}

	state := State{Question: question}

	for hop := 0; hop < m.config.MaxHops; hop++ {
		query, err := m.hopQuery(ctx, state, hop)
		if err != nil {
			return nil, err
		}
		state.Queries = append(state.Queries, query)

		m.logger.Debug("hop %d: retrieving %q", hop+1, query)
		passages, err := m.config.Retriever.Retrieve(ctx, query, m.config.PassagesPerHop)
		if err != nil {
			return nil, fmt.Errorf("retrieval failed on hop %d: %w", hop+1, err)
		}

		state.Context = retrieval.Dedup(append(state.Context, passages...))
	}

	retry := constraint.NewRetry(StepGenerateParagraph, m.answerParagraph, m.validators(),
		constraint.WithMaxBacktracks[State](m.config.MaxBacktracks),
		constraint.WithLogger[State](m.logger),
	)

	state, err := retry.Run(ctx, state)
	if err != nil {
		return nil, err
	}

	return &Answer{
		Paragraph: state.Paragraph,
		Context:   state.Context,
		Queries:   state.Queries,
	}, nil
}

// hopQuery produces the search query for one hop.
func (m *MultiHopQA) hopQuery(ctx context.Context, state State, hop int) (string, error) {
	if hop == 0 && m.config.UseQuestionAsFirstQuery {
		return state.Question, nil
	}

	out, err := m.queryStep.Call(ctx, map[string]string{
		"Context":  RenderContext(state.Context),
		"Question": state.Question,
	})
	if err != nil {
		return "", fmt.Errorf("query generation failed on hop %d: %w", hop+1, err)
	}

	query := strings.TrimSpace(out["Query"])
	if query == "" {
		// A blank query retrieves nothing useful; fall back to the question
		query = state.Question
	}
	return query, nil
}

// answerParagraph is the generating step wrapped by constraint.Retry.
// Validator feedback arrives as extra instructions on retries.
func (m *MultiHopQA) answerParagraph(ctx context.Context, state State, feedback []string) (State, error) {
	out, err := m.answerStep.Call(ctx, map[string]string{
		"Context":  RenderContext(state.Context),
		"Question": state.Question,
	}, feedback...)
	if err != nil {
		return state, err
	}
	state.Paragraph = out["Paragraph"]
	return state, nil
}

// validators builds the citation constraints on the answer step, format
// check first.
func (m *MultiHopQA) validators() []constraint.Validator[State] {
	validators := []constraint.Validator[State]{m.checkFormat}
	if !m.config.DisableFaithfulness {
		validators = append(validators, m.checkFaithfulness)
	}
	return validators
}

func (m *MultiHopQA) checkFormat(ctx context.Context, state State) constraint.Result {
	ok := citation.CheckFormat(state.Paragraph)
	return constraint.Suggest(ok, citation.FormatFeedback, StepGenerateParagraph)
}

func (m *MultiHopQA) checkFaithfulness(ctx context.Context, state State) constraint.Result {
	ok, unfaithful, err := m.faithfulness.Check(ctx, state.Paragraph, state.Context)
	if err != nil {
		// Cancellation surfaces on the retry loop's next ctx check
		return constraint.Suggest(false, "", StepGenerateParagraph)
	}
	if ok {
		return constraint.Suggest(true, "", StepGenerateParagraph)
	}

	feedback := citation.FaithfulnessFeedback(unfaithful)
	if len(unfaithful) == 0 {
		feedback = citation.NoCitationsFeedback
	}
	return constraint.Suggest(false, feedback, StepGenerateParagraph)
}

// RenderContext numbers the passages the way citations index them:
// "[1] title | text" per line.
func RenderContext(passages []retrieval.Passage) string {
	if len(passages) == 0 {
		return "N/A"
	}
	lines := make([]string, len(passages))
	for i, p := range passages {
		lines[i] = fmt.Sprintf("[%d] %s", i+1, p.String())
	}
	return strings.Join(lines, "\n")
}
