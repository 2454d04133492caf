package entities

import (
	"path"
	"strings"
)

const DerivativeFilename = "optimized.mp4"

// DerivativeContentType is what the transcode always produces.
const DerivativeContentType = "video/mp4"

type OptimizationJob struct {
	ContentID   string `json:"content_id"`
	ObjectKey   string `json:"object_key"`
	ContentType string `json:"content_type"`
}

func (j OptimizationJob) Valid() bool {
	return strings.TrimSpace(j.ContentID) != "" && strings.TrimSpace(j.ObjectKey) != ""
}

// DerivativeKey places the rendition next to its source under the same tenant prefix.
func DerivativeKey(objectKey string) string {
	dir := path.Dir(objectKey)
	if dir == "." || dir == "/" {
		return DerivativeFilename
	}
	return dir + "/" + DerivativeFilename
}
