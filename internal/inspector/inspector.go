package inspector

import "context"

// Metadata holds the probed properties of a media file.
type Metadata struct {
	Duration   float64
	Width      int
	Height     int
	FPS        float64
	FrameCount int
	Codec      string
}

// Inspector probes local media files and extracts still frames.
type Inspector interface {
	Inspect(ctx context.Context, path string) (Metadata, error)
	ExtractFrame(ctx context.Context, path string, atSeconds float64, width, height, quality int, outPath string) error
}

// Default is the main inspector instance.
var Default Inspector

// ThumbnailSize scales source dimensions so the longer edge fits
// maxEdge, preserving aspect ratio. Dimensions are forced even because
// ffmpeg rejects odd sizes for most pixel formats.
func ThumbnailSize(srcWidth, srcHeight, maxEdge int) (int, int) {
	if srcWidth <= 0 || srcHeight <= 0 || maxEdge <= 0 {
		return srcWidth, srcHeight
	}
	width, height := srcWidth, srcHeight
	if srcWidth >= srcHeight {
		if srcWidth > maxEdge {
			width = maxEdge
			height = srcHeight * maxEdge / srcWidth
		}
	} else {
		if srcHeight > maxEdge {
			height = maxEdge
			width = srcWidth * maxEdge / srcHeight
		}
	}
	if width%2 != 0 {
		width--
	}
	if height%2 != 0 {
		height--
	}
	if width < 2 {
		width = 2
	}
	if height < 2 {
		height = 2
	}
	return width, height
}
