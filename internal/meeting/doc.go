// Package meeting defines the pipeline's data model: jobs and their stage
// results, transcripts and their input variants, analysis findings, tracked
// objectives and tasks, plans with Gantt data, and the job store the
// orchestrator persists into.
package meeting
