// Package tracker implements the tracking stage: analysis findings become
// objective and task records with inferred due dates, assignees, and
// objective links, optionally persisted to SQLite.
package tracker
