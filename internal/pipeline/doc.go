// Package pipeline orchestrates the five processing stages over submitted
// meetings: transcription and analysis are fatal, summarization, tracking,
// and planning degrade without failing the job.
package pipeline
