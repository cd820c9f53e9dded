package service

import (
	"PropTour/internal/api/config"
	"PropTour/internal/api/dto"
	"PropTour/internal/model"
	"PropTour/internal/pkg/consts"
	"PropTour/internal/pkg/media"
	"PropTour/internal/pkg/storage"
	"PropTour/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"net/url"
	"os"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

// DerivationPipeline 媒体派生流水线能力
type DerivationPipeline interface {
	Derive(ctx context.Context, videoPath string) (*media.DerivedAssets, error)
}

type VideoTourService interface {
	Upload(ctx context.Context, userID string, points int64, file *dto.UploadedFile, form *dto.VideoTourUploadDTO) (*dto.VideoTourDTO, error)
	List(ctx context.Context, listingID string, page, pageSize int) (*dto.VideoTourPageDTO, error)
	GetByID(ctx context.Context, id, userID string) (*dto.VideoTourDTO, error)
	Update(ctx context.Context, id, userID string, updateDTO *dto.VideoTourUpdateDTO) (*dto.VideoTourDTO, error)
	Delete(ctx context.Context, id, userID string) error
	Count(ctx context.Context, userID string) (*dto.VideoCountDTO, error)
}

type videoTourServiceImpl struct {
	tourRepo repository.VideoTourRepo
	pipeline DerivationPipeline
	store    media.Uploader
	orphans  media.OrphanRecorder
	minioCfg config.MinIOConfig
	mediaCfg config.MediaConfig
}

func NewVideoTourService(
	tourRepo repository.VideoTourRepo,
	pipeline DerivationPipeline,
	store media.Uploader,
	orphans media.OrphanRecorder,
	minioCfg config.MinIOConfig,
	mediaCfg config.MediaConfig,
) VideoTourService {
	return &videoTourServiceImpl{
		tourRepo: tourRepo,
		pipeline: pipeline,
		store:    store,
		orphans:  orphans,
		minioCfg: minioCfg,
		mediaCfg: mediaCfg,
	}
}

// Upload 执行完整上传流程：额度检查 → 媒体派生 → 源视频上传 → 元数据落库。
// 本地上传文件在任一路径上都会被删除。
func (s *videoTourServiceImpl) Upload(ctx context.Context, userID string, points int64, file *dto.UploadedFile, form *dto.VideoTourUploadDTO) (*dto.VideoTourDTO, error) {
	defer func() {
		if err := os.Remove(file.Path); err != nil && !os.IsNotExist(err) {
			log.WarnContext(ctx, "failed to remove uploaded file", "path", file.Path, "err", err)
		}
	}()

	// 超过免费额度后需要足够积分才能继续上传。
	// 数量检查与最终插入之间没有事务，并发请求可能短暂超额
	count, err := s.tourRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}
	if count >= s.mediaCfg.MaxVideoPerUser && points < s.mediaCfg.DefaultCostPoint {
		return nil, ErrInsufficientPoints
	}

	storageKey := uuid.NewString() + path.Ext(file.OriginalName)

	assets, err := s.pipeline.Derive(ctx, file.Path)
	if err != nil {
		if errors.Is(err, media.ErrBlobUploadFailed) {
			return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrMediaProcessFailed, err)
	}

	videoURL, err := s.uploadSourceVideo(ctx, storageKey, file)
	if err != nil {
		s.orphans.Record(ctx, s.minioCfg.PreviewBucket, assets.PreviewKey)
		s.orphans.Record(ctx, s.minioCfg.ThumbnailBucket, assets.ThumbnailKey)
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	tour := &model.VideoTour{
		ID:           uuid.NewString(),
		UserID:       userID,
		ListingID:    form.ListingID,
		Filename:     file.OriginalName,
		ContentType:  file.ContentType,
		FileSize:     file.Size,
		StoragePath:  storageKey,
		VideoURL:     videoURL,
		PreviewURL:   assets.PreviewURL,
		ThumbnailURL: assets.ThumbnailURL,
		Title:        form.Title,
		Instagram:    form.Instagram,
		Tiktok:       form.Tiktok,
		Youtube:      form.Youtube,
		UploadedAt:   time.Now(),
	}

	if err = s.tourRepo.Create(ctx, tour); err != nil {
		s.orphans.Record(ctx, s.minioCfg.VideoBucket, storageKey)
		s.orphans.Record(ctx, s.minioCfg.PreviewBucket, assets.PreviewKey)
		s.orphans.Record(ctx, s.minioCfg.ThumbnailBucket, assets.ThumbnailKey)
		return nil, fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}

	log.InfoContext(ctx, "video tour uploaded", "id", tour.ID, "listing_id", tour.ListingID, "size", tour.FileSize)
	return toVideoTourDTO(tour), nil
}

func (s *videoTourServiceImpl) uploadSourceVideo(ctx context.Context, storageKey string, file *dto.UploadedFile) (string, error) {
	f, err := os.Open(file.Path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	key, err := s.store.Upload(ctx, s.minioCfg.VideoBucket, storageKey, f, file.Size, storage.UploadOptions{
		ContentType:  file.ContentType,
		CacheControl: consts.CacheControlVideo,
	})
	if err != nil {
		return "", err
	}
	return s.store.PublicURL(s.minioCfg.VideoBucket, key), nil
}

// List 按 listing 分页查询，页码越界时回落到最后一个非空页
func (s *videoTourServiceImpl) List(ctx context.Context, listingID string, page, pageSize int) (*dto.VideoTourPageDTO, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > 100 {
		pageSize = 100
	}

	total, err := s.tourRepo.CountByListing(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if page > totalPages && total > 0 {
		page = totalPages
	}

	tours, err := s.tourRepo.ListByListing(ctx, listingID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}

	data := make([]*dto.VideoTourDTO, 0, len(tours))
	for _, tour := range tours {
		data = append(data, toVideoTourDTO(tour))
	}

	return &dto.VideoTourPageDTO{
		Data: data,
		Pagination: dto.PaginationDTO{
			Total:      total,
			Page:       page,
			PageSize:   pageSize,
			TotalPages: totalPages,
			HasMore:    page < totalPages,
		},
	}, nil
}

func (s *videoTourServiceImpl) GetByID(ctx context.Context, id, userID string) (*dto.VideoTourDTO, error) {
	tour, err := s.tourRepo.GetByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoTourNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}
	return toVideoTourDTO(tour), nil
}

func (s *videoTourServiceImpl) Update(ctx context.Context, id, userID string, updateDTO *dto.VideoTourUpdateDTO) (*dto.VideoTourDTO, error) {
	fields := map[string]interface{}{}
	if updateDTO.Title != nil {
		fields["title"] = *updateDTO.Title
	}
	if updateDTO.Instagram != nil {
		fields["instagram"] = *updateDTO.Instagram
	}
	if updateDTO.Tiktok != nil {
		fields["tiktok"] = *updateDTO.Tiktok
	}
	if updateDTO.Youtube != nil {
		fields["youtube"] = *updateDTO.Youtube
	}
	if len(fields) == 0 {
		return nil, ErrParamInvalid
	}

	tour, err := s.tourRepo.Update(ctx, id, userID, fields)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoTourNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}
	return toVideoTourDTO(tour), nil
}

// Delete 先尽力删除三个已记录的对象，再删除元数据行。
// 单个对象删除失败只登记到回收台账，不阻断整体删除
func (s *videoTourServiceImpl) Delete(ctx context.Context, id, userID string) error {
	tour, err := s.tourRepo.GetByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVideoTourNotFound
		}
		return fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}

	s.removeBlob(ctx, s.minioCfg.PreviewBucket, tour.PreviewURL)
	s.removeBlob(ctx, s.minioCfg.ThumbnailBucket, tour.ThumbnailURL)
	s.removeBlob(ctx, s.minioCfg.VideoBucket, tour.VideoURL)

	if err = s.tourRepo.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVideoTourNotFound
		}
		return fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}
	return nil
}

func (s *videoTourServiceImpl) removeBlob(ctx context.Context, bucket, blobURL string) {
	if blobURL == "" {
		return
	}
	key := blobKeyFromURL(blobURL)
	if key == "" {
		return
	}
	if err := s.store.Remove(ctx, bucket, key); err != nil {
		log.ErrorContext(ctx, "failed to delete blob, recording orphan", "bucket", bucket, "key", key, "err", err)
		s.orphans.Record(ctx, bucket, key)
	}
}

func (s *videoTourServiceImpl) Count(ctx context.Context, userID string) (*dto.VideoCountDTO, error) {
	count, err := s.tourRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}
	return &dto.VideoCountDTO{Count: count}, nil
}

// blobKeyFromURL 从公共URL提取末段作为存储键
func blobKeyFromURL(blobURL string) string {
	u, err := url.Parse(blobURL)
	if err != nil {
		return path.Base(blobURL)
	}
	return path.Base(u.Path)
}

func toVideoTourDTO(tour *model.VideoTour) *dto.VideoTourDTO {
	var out dto.VideoTourDTO
	_ = copier.Copy(&out, tour)
	out.UploadedAt = tour.UploadedAt.Format(time.RFC3339)
	return &out
}
