// Package signature declares input/output field contracts for generation
// calls.
//
// A Signature pairs an instruction string with ordered, described input and
// output fields. Rendering produces a system prompt (instructions plus a
// format section) and a user prompt (the filled input fields ending with the
// first output label), and ParseOutputs recovers the labeled output fields
// from the model's completion:
//
//	sig := signature.New("generate_query",
//		"Write a simple search query that will help answer a complex question.").
//		AddInput("Context", "may contain relevant facts").
//		AddInput("Question", "the question to answer").
//		AddOutput("Query", "a simple search query")
package signature
