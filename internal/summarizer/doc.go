// Package summarizer implements the summarization stage.
package summarizer
