package inspector

import (
	"math"
	"testing"
)

func TestParseProbeOutput(t *testing.T) {
	output := `codec_name=h264
width=1920
height=1080
r_frame_rate=30000/1001
nb_frames=3754
duration=125.208000
`
	meta, err := parseProbeOutput(output)
	if err != nil {
		t.Fatal("parse:", err)
	}
	if meta.Codec != "h264" {
		t.Fatalf("codec = %q", meta.Codec)
	}
	if meta.Width != 1920 || meta.Height != 1080 {
		t.Fatalf("dimensions = %dx%d", meta.Width, meta.Height)
	}
	if math.Abs(meta.FPS-29.97) > 0.001 {
		t.Fatalf("fps = %v", meta.FPS)
	}
	if meta.FrameCount != 3754 {
		t.Fatalf("frame count = %d", meta.FrameCount)
	}
	if math.Abs(meta.Duration-125.208) > 1e-9 {
		t.Fatalf("duration = %v", meta.Duration)
	}
}

func TestParseProbeOutputEstimatesFrameCount(t *testing.T) {
	output := `codec_name=vp9
width=640
height=360
r_frame_rate=25/1
nb_frames=N/A
duration=10.0
`
	meta, err := parseProbeOutput(output)
	if err != nil {
		t.Fatal("parse:", err)
	}
	if meta.FrameCount != 250 {
		t.Fatalf("frame count = %d, want 250", meta.FrameCount)
	}
}

func TestParseProbeOutputNoVideoStream(t *testing.T) {
	output := "duration=30.5\n"
	if _, err := parseProbeOutput(output); err == nil {
		t.Fatal("expected error for audio-only input")
	}
}

func TestParseRate(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"25/1", 25},
		{"30000/1001", 29.97002997002997},
		{"24", 24},
		{"0/0", 0},
		{"bogus", 0},
	}
	for _, tc := range cases {
		if got := parseRate(tc.in); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("parseRate(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestJpegQScale(t *testing.T) {
	cases := []struct {
		quality int
		want    int
	}{
		{100, 2},
		{80, 7},
		{0, 31},
		{-5, 31},
		{150, 2},
	}
	for _, tc := range cases {
		if got := jpegQScale(tc.quality); got != tc.want {
			t.Errorf("jpegQScale(%d) = %d, want %d", tc.quality, got, tc.want)
		}
	}
}
