package media

import (
	"PropTour/internal/api/config"
	"context"
	"os/exec"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrProbeFailed     = errors.New("无法解析媒体文件")
	ErrNoVideoStream   = errors.New("文件不包含视频流")
	ErrUnknownDuration = errors.New("无法确定视频时长")
)

// ProbeInfo 源视频元信息
type ProbeInfo struct {
	HasVideo bool
	Duration float64
}

// VideoProber 探测本地视频文件
type VideoProber interface {
	Probe(ctx context.Context, path string) (*ProbeInfo, error)
}

type Prober struct {
	ffprobePath string
}

func NewProber(cfg config.LibPathConfig) *Prober {
	return &Prober{ffprobePath: cfg.FFprobe}
}

// Probe 通过 ffprobe 读取流类型与容器时长
func (s *Prober) Probe(ctx context.Context, path string) (*ProbeInfo, error) {
	cmd := exec.CommandContext(ctx, s.ffprobePath,
		"-v", "error",
		"-show_entries", "stream=codec_type",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1",
		"-i", path,
	)

	out, err := cmd.CombinedOutput()
	if err != nil {
		return nil, errors.Wrapf(ErrProbeFailed, "ffprobe: %v: %s", err, strings.TrimSpace(string(out)))
	}

	info := parseProbeOutput(string(out))
	if !info.HasVideo {
		return nil, ErrNoVideoStream
	}
	if info.Duration <= 0 {
		return nil, ErrUnknownDuration
	}
	return info, nil
}

func parseProbeOutput(out string) *ProbeInfo {
	info := &ProbeInfo{}
	for _, line := range strings.Split(out, "\n") {
		parts := strings.SplitN(strings.TrimSpace(line), "=", 2)
		if len(parts) != 2 {
			continue
		}
		switch parts[0] {
		case "codec_type":
			if parts[1] == "video" {
				info.HasVideo = true
			}
		case "duration":
			if d, err := strconv.ParseFloat(parts[1], 64); err == nil {
				info.Duration = d
			}
		}
	}
	return info
}
