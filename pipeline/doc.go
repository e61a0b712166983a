// Package pipeline implements the multi-hop retrieve-then-generate QA flow.
//
// Each question runs a fixed number of hops: generate a search query from
// the question and the context gathered so far, retrieve passages, append
// and deduplicate. The final step generates a long-form paragraph whose
// claims cite context passages by 1-based index, wrapped in
// constraint.Retry with the citation format and faithfulness validators as
// soft suggestions: a failing check re-generates the paragraph with the
// validator's feedback appended to the instructions, and after the retry
// bound the last paragraph stands.
//
// Everything is strictly sequential; one question at a time, every model
// and retriever call blocking.
package pipeline
