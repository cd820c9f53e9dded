package media

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPreviewArgsClampsToVideoDuration(t *testing.T) {
	args := previewArgs("/tmp/in.mp4", "/tmp/out.gif", 10, 6.5)
	require.Contains(t, args, "6.500")

	args = previewArgs("/tmp/in.mp4", "/tmp/out.gif", 10, 42)
	require.Contains(t, args, "10.000")
}

func TestPreviewArgsUsesPaletteFilter(t *testing.T) {
	args := previewArgs("/tmp/in.mp4", "/tmp/out.gif", 10, 30)
	joined := strings.Join(args, " ")
	require.Contains(t, joined, "palettegen")
	require.Contains(t, joined, "paletteuse")
	require.Contains(t, joined, "fps=10")
	require.Contains(t, joined, "scale=320:-1")
}

func TestThumbnailSeekClampsShortVideos(t *testing.T) {
	require.InDelta(t, 2.0, thumbnailSeek(30), 0.001)
	require.InDelta(t, 0.75, thumbnailSeek(1.5), 0.001)
	require.Zero(t, thumbnailSeek(0))
}
