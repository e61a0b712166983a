// Package predict executes declared signatures against a langchaingo
// llms.Model. Each Call is one blocking round-trip: render prompt, generate,
// parse the labeled output fields.
package predict
