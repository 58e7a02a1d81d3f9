// Package planner implements the planning stage: tracking records become a
// dated plan with Gantt scheduling data.
package planner
