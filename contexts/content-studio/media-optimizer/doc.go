// Package mediaoptimizer produces a web playback rendition for uploaded video.
// Jobs run detached from the upload request and every failure is best effort.
package mediaoptimizer
