// Long-Form QA - Multi-Hop Question Answering with Citation Constraints
//
// longformqa is a Go library for building multi-hop question-answering
// pipelines that produce long-form answers annotated with citations, and for
// checking those answers against runtime constraints with automatic
// self-correction retries.
//
// # Quick Start
//
// Install the package:
//
//	go get github.com/smallnest/longformqa
//
// Basic example:
//
//	package main
//
//	import (
//		"context"
//		"fmt"
//
//		"github.com/smallnest/longformqa/pipeline"
//		"github.com/smallnest/longformqa/retrieval/memory"
//		"github.com/tmc/langchaingo/llms/openai"
//	)
//
//	func main() {
//		llm, _ := openai.New()
//		store := memory.NewStore()
//		// ... load passages into the store ...
//
//		qa := pipeline.NewMultiHopQA(pipeline.Config{
//			LLM:       llm,
//			Retriever: store,
//		})
//
//		answer, err := qa.Run(context.Background(), "Which award did the first book of Gary Zukav receive?")
//		if err != nil {
//			panic(err)
//		}
//		fmt.Println(answer.Paragraph)
//	}
//
// # Packages
//
//   - signature: declared input/output field contracts for LM calls
//   - predict: executes a signature against a langchaingo llms.Model
//   - constraint: Suggest/Assert checks and backtracking retries
//   - citation: citation extraction, format and faithfulness validators
//   - retrieval: passage model and keyword retrieval backends (memory, sqlite, postgres, redis)
//   - loader: bulk passage loading from HTML, Markdown and JSON sources
//   - pipeline: the multi-hop retrieve-then-generate pipeline
//   - eval: datasets, metrics and the evaluation loop
//   - llm/openai: llms.Model adapter over the sashabaranov/go-openai client
//   - log: pluggable logging with a golog backend
package longformqa // import "github.com/smallnest/longformqa"
