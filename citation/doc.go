// Package citation extracts and validates citations in generated text.
//
// Citations are "[n]" markers whose n is a 1-based index into the retrieved
// context. CheckFormat enforces that every 1-2 sentence span ends with a
// citation; FaithfulnessChecker asks a model whether each cited span is
// actually supported by its source passage. Both are plain predicates: the
// pipeline wires them into constraint.Retry as soft suggestions.
package citation
