// Package uploadservice owns resumable chunked uploads: session lifecycle, the
// per-actor upload lock, part signing and final assembly into content objects.
package uploadservice
