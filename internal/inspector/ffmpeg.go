package inspector

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// FFmpegInspector shells out to ffprobe/ffmpeg.
type FFmpegInspector struct{}

// InitFFmpeg installs the ffmpeg-backed inspector as the default.
func InitFFmpeg() {
	Default = &FFmpegInspector{}
}

// Inspect probes a media file with ffprobe.
func (f *FFmpegInspector) Inspect(ctx context.Context, path string) (Metadata, error) {
	cmd := exec.CommandContext(
		ctx,
		"ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=codec_name,width,height,r_frame_rate,nb_frames:format=duration",
		"-of", "default=noprint_wrappers=1",
		path,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return Metadata{}, fmt.Errorf("ffprobe: %v: %s", err, strings.TrimSpace(stderr.String()))
	}

	meta, err := parseProbeOutput(stdout.String())
	if err != nil {
		return Metadata{}, err
	}
	return meta, nil
}

// ExtractFrame grabs one frame at the given timestamp, scaled to the
// given dimensions, and writes it as a JPEG.
func (f *FFmpegInspector) ExtractFrame(ctx context.Context, path string, atSeconds float64, width, height, quality int, outPath string) error {
	args := []string{
		"-y",
		"-ss", fmt.Sprintf("%.3f", atSeconds),
		"-i", path,
		"-vframes", "1",
	}
	if width > 0 && height > 0 {
		args = append(args, "-vf", fmt.Sprintf("scale=%d:%d", width, height))
	}
	args = append(args, "-q:v", strconv.Itoa(jpegQScale(quality)), outPath)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg: %v: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// jpegQScale maps a 0-100 JPEG quality to ffmpeg's 2-31 qscale range
// (lower is better).
func jpegQScale(quality int) int {
	if quality >= 100 {
		return 2
	}
	if quality <= 0 {
		return 31
	}
	q := 2 + (100-quality)*29/100
	if q > 31 {
		q = 31
	}
	return q
}

func parseProbeOutput(output string) (Metadata, error) {
	var meta Metadata
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		key, value, found := strings.Cut(line, "=")
		if !found || value == "" || value == "N/A" {
			continue
		}
		switch key {
		case "codec_name":
			meta.Codec = value
		case "width":
			meta.Width, _ = strconv.Atoi(value)
		case "height":
			meta.Height, _ = strconv.Atoi(value)
		case "r_frame_rate":
			meta.FPS = parseRate(value)
		case "nb_frames":
			meta.FrameCount, _ = strconv.Atoi(value)
		case "duration":
			meta.Duration, _ = strconv.ParseFloat(value, 64)
		}
	}
	if meta.Width == 0 || meta.Height == 0 {
		return Metadata{}, fmt.Errorf("no video stream found in ffprobe output")
	}
	// Containers without a frame count still allow a midpoint estimate.
	if meta.FrameCount == 0 && meta.FPS > 0 {
		meta.FrameCount = int(meta.Duration * meta.FPS)
	}
	return meta, nil
}

// parseRate parses ffprobe rational rates like "30000/1001".
func parseRate(value string) float64 {
	num, den, found := strings.Cut(value, "/")
	if !found {
		rate, _ := strconv.ParseFloat(value, 64)
		return rate
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}
