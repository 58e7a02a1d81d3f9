// Package transcriber implements the first pipeline stage: audio in,
// transcript out.
package transcriber
