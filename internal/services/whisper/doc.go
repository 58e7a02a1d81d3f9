// Package whisper shells out to a locally installed whisper CLI to
// transcribe meeting audio without network access.
package whisper
