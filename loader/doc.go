// Package loader bulk-loads passages into retrieval backends from HTML,
// Markdown and JSON sources.
package loader
