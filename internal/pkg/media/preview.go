package media

import (
	"PropTour/internal/api/config"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var ErrRenderFailed = errors.New("渲染失败")

// Renderer 从本地视频生成一个派生文件，返回派生文件的本地路径。
// 失败时不得在磁盘上留下输出文件；成功后的清理由调用方负责。
type Renderer interface {
	Render(ctx context.Context, videoPath string, info *ProbeInfo) (string, error)
}

// previewFilter 两遍调色板量化，单遍编码在 320px 下色彩断层明显
const previewFilter = "fps=10,scale=320:-1:flags=lanczos,split[s0][s1];[s0]palettegen[p];[s1][p]paletteuse"

type PreviewRenderer struct {
	ffmpegPath     string
	targetDuration float64
}

func NewPreviewRenderer(libCfg config.LibPathConfig, mediaCfg config.MediaConfig) *PreviewRenderer {
	targetDuration := float64(mediaCfg.PreviewDuration)
	if targetDuration <= 0 {
		targetDuration = 10
	}
	return &PreviewRenderer{
		ffmpegPath:     libCfg.FFmpeg,
		targetDuration: targetDuration,
	}
}

// Render 从 t=0 截取 min(目标时长, 视频时长) 生成循环 GIF
func (s *PreviewRenderer) Render(ctx context.Context, videoPath string, info *ProbeInfo) (string, error) {
	outputPath := filepath.Join(filepath.Dir(videoPath), "preview-"+uuid.NewString()+".gif")

	cmd := exec.CommandContext(ctx, s.ffmpegPath, previewArgs(videoPath, outputPath, s.targetDuration, info.Duration)...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		_ = os.Remove(outputPath)
		return "", errors.Wrapf(ErrRenderFailed, "ffmpeg preview: %v: %s", err, strings.TrimSpace(string(out)))
	}

	if _, err = os.Stat(outputPath); err != nil {
		return "", errors.Wrapf(ErrRenderFailed, "preview output missing: %v", err)
	}
	return outputPath, nil
}

func previewArgs(videoPath, outputPath string, targetDuration, videoDuration float64) []string {
	duration := targetDuration
	if videoDuration < duration {
		duration = videoDuration
	}

	return []string{
		"-ss", "0",
		"-t", fmt.Sprintf("%.3f", duration),
		"-i", videoPath,
		"-vf", previewFilter,
		"-y",
		outputPath,
	}
}
