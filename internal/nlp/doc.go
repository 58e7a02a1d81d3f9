// Package nlp provides the local language-processing capabilities the
// pipeline falls back to when the remote AI service is unavailable: sentence
// splitting, tokenization, keyword extraction, lexicon sentiment scoring,
// and intent classification.
package nlp
