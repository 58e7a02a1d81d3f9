// Package analyzer implements the analysis stage: transcript in, structured
// topics, sentiment, questions, objectives, and tasks out.
package analyzer
