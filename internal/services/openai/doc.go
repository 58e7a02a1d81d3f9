// Package openai wraps the remote AI service the pipeline stages prefer
// before falling back to local processing. It exposes the four capabilities
// the orchestrator consumes: transcribe, analyze, summarize, and plan.
package openai
