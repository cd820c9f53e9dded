package media

import (
	"PropTour/internal/api/config"
	"PropTour/internal/pkg/consts"
	"PropTour/internal/pkg/storage"
	"context"
	"io"
	log "log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var ErrBlobUploadFailed = errors.New("对象上传失败")

// Uploader 对象存储能力，由 storage.Client 实现
type Uploader interface {
	Upload(ctx context.Context, bucket, objectName string, reader io.Reader, size int64, opts storage.UploadOptions) (string, error)
	Remove(ctx context.Context, bucket, objectName string) error
	PublicURL(bucket, objectName string) string
}

// OrphanRecorder 登记已上传但不再被任何记录引用的对象，由回收任务延迟删除
type OrphanRecorder interface {
	Record(ctx context.Context, bucket, objectName string)
}

// DerivedAssets 派生产物的公共URL与存储键
type DerivedAssets struct {
	PreviewURL   string
	PreviewKey   string
	ThumbnailURL string
	ThumbnailKey string
}

// Pipeline 媒体派生流水线：探测 → 预览渲染 → 截帧 → 上传。
// 本次调用创建的所有本地文件在返回前删除，无论哪一步失败。
type Pipeline struct {
	prober          VideoProber
	preview         Renderer
	thumbnail       Renderer
	store           Uploader
	orphans         OrphanRecorder
	previewBucket   string
	thumbnailBucket string
	stepTimeout     time.Duration
}

func NewPipeline(
	prober VideoProber,
	preview Renderer,
	thumbnail Renderer,
	store Uploader,
	orphans OrphanRecorder,
	minioCfg config.MinIOConfig,
	mediaCfg config.MediaConfig,
) *Pipeline {
	stepTimeout := time.Duration(mediaCfg.RenderTimeout) * time.Second
	if stepTimeout <= 0 {
		stepTimeout = 2 * time.Minute
	}
	return &Pipeline{
		prober:          prober,
		preview:         preview,
		thumbnail:       thumbnail,
		store:           store,
		orphans:         orphans,
		previewBucket:   minioCfg.PreviewBucket,
		thumbnailBucket: minioCfg.ThumbnailBucket,
		stepTimeout:     stepTimeout,
	}
}

// Derive 对本地视频执行完整派生流程
func (s *Pipeline) Derive(ctx context.Context, videoPath string) (*DerivedAssets, error) {
	var localFiles []string
	defer func() {
		for _, p := range localFiles {
			removeLocalFile(ctx, p)
		}
	}()

	info, err := s.probeStep(ctx, videoPath)
	if err != nil {
		return nil, err
	}

	previewPath, err := s.renderStep(ctx, s.preview, videoPath, info)
	if err != nil {
		return nil, err
	}
	localFiles = append(localFiles, previewPath)

	previewKey, err := s.uploadStep(ctx, s.previewBucket, previewPath, "preview-", ".gif", consts.ContentTypeGif)
	if err != nil {
		return nil, err
	}

	thumbnailPath, err := s.renderStep(ctx, s.thumbnail, videoPath, info)
	if err != nil {
		// 预览对象已经上传，不做回滚，交给回收任务
		s.orphans.Record(ctx, s.previewBucket, previewKey)
		return nil, err
	}
	localFiles = append(localFiles, thumbnailPath)

	thumbnailKey, err := s.uploadStep(ctx, s.thumbnailBucket, thumbnailPath, "thumbnail-", ".jpg", consts.ContentTypeJpeg)
	if err != nil {
		s.orphans.Record(ctx, s.previewBucket, previewKey)
		return nil, err
	}

	return &DerivedAssets{
		PreviewURL:   s.store.PublicURL(s.previewBucket, previewKey),
		PreviewKey:   previewKey,
		ThumbnailURL: s.store.PublicURL(s.thumbnailBucket, thumbnailKey),
		ThumbnailKey: thumbnailKey,
	}, nil
}

func (s *Pipeline) probeStep(ctx context.Context, videoPath string) (*ProbeInfo, error) {
	stepCtx, cancel := context.WithTimeout(ctx, s.stepTimeout)
	defer cancel()
	return s.prober.Probe(stepCtx, videoPath)
}

func (s *Pipeline) renderStep(ctx context.Context, renderer Renderer, videoPath string, info *ProbeInfo) (string, error) {
	stepCtx, cancel := context.WithTimeout(ctx, s.stepTimeout)
	defer cancel()
	return renderer.Render(stepCtx, videoPath, info)
}

func (s *Pipeline) uploadStep(ctx context.Context, bucket, localPath, keyPrefix, keyExt, contentType string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", errors.Wrapf(ErrBlobUploadFailed, "open %s: %v", filepath.Base(localPath), err)
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return "", errors.Wrapf(ErrBlobUploadFailed, "stat %s: %v", filepath.Base(localPath), err)
	}

	objectName := keyPrefix + uuid.NewString() + keyExt
	key, err := s.store.Upload(ctx, bucket, objectName, f, stat.Size(), storage.UploadOptions{
		ContentType:  contentType,
		CacheControl: consts.CacheControlDerived,
	})
	if err != nil {
		return "", errors.Wrapf(ErrBlobUploadFailed, "bucket %s: %v", bucket, err)
	}
	return key, nil
}

func removeLocalFile(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.WarnContext(ctx, "failed to remove local temp file", "path", path, "err", err)
	}
}
