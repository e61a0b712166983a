// Package eval iterates a dataset through a QA pipeline and computes four
// scalar averages: answer correctness, citation recall, citation precision
// and citation faithfulness. Examples whose pipeline run errors are logged
// and excluded from the averages.
package eval
