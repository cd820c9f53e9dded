package media

import (
	"PropTour/internal/api/config"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// thumbnailOffset 截帧时间点，秒
const thumbnailOffset = 2.0

type ThumbnailRenderer struct {
	ffmpegPath string
}

func NewThumbnailRenderer(cfg config.LibPathConfig) *ThumbnailRenderer {
	return &ThumbnailRenderer{ffmpegPath: cfg.FFmpeg}
}

// Render 在固定偏移处截取一帧，宽 320 按比例缩放。
// 短于偏移的视频取中点截帧，避免 seek 越过流末尾。
func (s *ThumbnailRenderer) Render(ctx context.Context, videoPath string, info *ProbeInfo) (string, error) {
	outputPath := filepath.Join(filepath.Dir(videoPath), "thumbnail-"+uuid.NewString()+".jpg")

	cmd := exec.CommandContext(ctx, s.ffmpegPath, thumbnailArgs(videoPath, outputPath, info.Duration)...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		_ = os.Remove(outputPath)
		return "", errors.Wrapf(ErrRenderFailed, "ffmpeg thumbnail: %v: %s", err, strings.TrimSpace(string(out)))
	}

	// 编码器可能静默失败，校验输出确实是一张可解码的图片
	img, err := imaging.Open(outputPath)
	if err != nil {
		_ = os.Remove(outputPath)
		return "", errors.Wrapf(ErrRenderFailed, "thumbnail not decodable: %v", err)
	}
	if img.Bounds().Empty() {
		_ = os.Remove(outputPath)
		return "", errors.Wrap(ErrRenderFailed, "thumbnail has zero area")
	}

	return outputPath, nil
}

func thumbnailArgs(videoPath, outputPath string, videoDuration float64) []string {
	return []string{
		"-ss", fmt.Sprintf("%.3f", thumbnailSeek(videoDuration)),
		"-i", videoPath,
		"-vf", "scale=320:-1",
		"-frames:v", "1",
		"-q:v", "2",
		"-y",
		outputPath,
	}
}

func thumbnailSeek(videoDuration float64) float64 {
	if videoDuration > thumbnailOffset {
		return thumbnailOffset
	}
	return videoDuration / 2
}
