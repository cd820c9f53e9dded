package service

import (
	"PropTour/internal/api/config"
	"PropTour/internal/api/dto"
	"PropTour/internal/model"
	"PropTour/internal/pkg/media"
	"PropTour/internal/pkg/storage"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeTourRepo struct {
	tours       []*model.VideoTour
	created     []*model.VideoTour
	createErr   error
	deleted     []string
	deleteErr   error
	countByUser int64
}

func (s *fakeTourRepo) Create(_ context.Context, tour *model.VideoTour) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, tour)
	s.tours = append(s.tours, tour)
	return nil
}

func (s *fakeTourRepo) CountByUser(_ context.Context, _ string) (int64, error) {
	return s.countByUser, nil
}

func (s *fakeTourRepo) CountByListing(_ context.Context, listingID string) (int64, error) {
	var count int64
	for _, tour := range s.tours {
		if tour.ListingID == listingID {
			count++
		}
	}
	return count, nil
}

func (s *fakeTourRepo) ListByListing(_ context.Context, listingID string, offset, limit int) ([]*model.VideoTour, error) {
	var matched []*model.VideoTour
	for _, tour := range s.tours {
		if tour.ListingID == listingID {
			matched = append(matched, tour)
		}
	}
	if offset >= len(matched) {
		return nil, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (s *fakeTourRepo) GetByID(_ context.Context, id string, userID string) (*model.VideoTour, error) {
	for _, tour := range s.tours {
		if tour.ID == id && tour.UserID == userID {
			return tour, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeTourRepo) Update(_ context.Context, id string, userID string, fields map[string]interface{}) (*model.VideoTour, error) {
	for _, tour := range s.tours {
		if tour.ID == id && tour.UserID == userID {
			if title, ok := fields["title"].(string); ok {
				tour.Title = title
			}
			return tour, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeTourRepo) Delete(_ context.Context, id string, userID string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	for i, tour := range s.tours {
		if tour.ID == id && tour.UserID == userID {
			s.tours = append(s.tours[:i], s.tours[i+1:]...)
			s.deleted = append(s.deleted, id)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakePipeline struct {
	assets *media.DerivedAssets
	err    error
	calls  int
}

func (s *fakePipeline) Derive(_ context.Context, _ string) (*media.DerivedAssets, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.assets, nil
}

type fakeBlobStore struct {
	uploads    []string
	removed    []string
	failRemove string
	uploadErr  error
}

func (s *fakeBlobStore) Upload(_ context.Context, bucket, objectName string, _ io.Reader, _ int64, _ storage.UploadOptions) (string, error) {
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	s.uploads = append(s.uploads, bucket+"/"+objectName)
	return objectName, nil
}

func (s *fakeBlobStore) Remove(_ context.Context, bucket, objectName string) error {
	if bucket == s.failRemove {
		return errors.New("storage error")
	}
	s.removed = append(s.removed, bucket+"/"+objectName)
	return nil
}

func (s *fakeBlobStore) PublicURL(bucket, objectName string) string {
	return "https://cdn.example.com/" + bucket + "/" + objectName
}

type fakeOrphanRecorder struct {
	recorded []string
}

func (s *fakeOrphanRecorder) Record(_ context.Context, bucket, objectName string) {
	s.recorded = append(s.recorded, bucket+"/"+objectName)
}

var testMinIOCfg = config.MinIOConfig{
	VideoBucket:     "videos",
	PreviewBucket:   "previews",
	ThumbnailBucket: "thumbnails",
}

var testMediaCfg = config.MediaConfig{
	MaxFileSize:      50 * 1024 * 1024,
	MaxVideoPerUser:  2,
	DefaultCostPoint: 25,
	PreviewDuration:  10,
}

func newTestService(repo *fakeTourRepo, pipeline *fakePipeline, store *fakeBlobStore, orphans *fakeOrphanRecorder) VideoTourService {
	return NewVideoTourService(repo, pipeline, store, orphans, testMinIOCfg, testMediaCfg)
}

func writeUploadedFile(t *testing.T) *dto.UploadedFile {
	t.Helper()
	p := filepath.Join(t.TempDir(), "source.mp4")
	require.NoError(t, os.WriteFile(p, []byte("video-bytes"), 0o644))
	return &dto.UploadedFile{
		Path:         p,
		OriginalName: "tour.mp4",
		ContentType:  "video/mp4",
		Size:         11,
	}
}

func testAssets() *media.DerivedAssets {
	return &media.DerivedAssets{
		PreviewURL:   "https://cdn.example.com/previews/p.gif",
		PreviewKey:   "p.gif",
		ThumbnailURL: "https://cdn.example.com/thumbnails/t.jpg",
		ThumbnailKey: "t.jpg",
	}
}

func TestUploadSuccess(t *testing.T) {
	repo := &fakeTourRepo{}
	pipeline := &fakePipeline{assets: testAssets()}
	store := &fakeBlobStore{}
	svc := newTestService(repo, pipeline, store, &fakeOrphanRecorder{})

	file := writeUploadedFile(t)
	form := &dto.VideoTourUploadDTO{ListingID: "l-1", Title: "海景房"}

	tour, err := svc.Upload(context.Background(), "u-1", 100, file, form)
	require.NoError(t, err)
	require.Equal(t, "u-1", tour.UserID)
	require.Equal(t, "l-1", tour.ListingID)
	require.Equal(t, "tour.mp4", tour.Filename)
	require.NotEmpty(t, tour.VideoURL)
	require.Equal(t, testAssets().PreviewURL, tour.PreviewURL)
	require.Len(t, repo.created, 1)
	require.Len(t, store.uploads, 1)

	_, statErr := os.Stat(file.Path)
	require.True(t, os.IsNotExist(statErr), "uploaded file must be removed")
}

func TestUploadRejectedWhenOverQuotaWithoutPoints(t *testing.T) {
	repo := &fakeTourRepo{countByUser: 2}
	pipeline := &fakePipeline{assets: testAssets()}
	store := &fakeBlobStore{}
	svc := newTestService(repo, pipeline, store, &fakeOrphanRecorder{})

	file := writeUploadedFile(t)

	_, err := svc.Upload(context.Background(), "u-1", 10, file, &dto.VideoTourUploadDTO{ListingID: "l-1"})
	require.ErrorIs(t, err, ErrInsufficientPoints)

	// 拒绝发生在任何存储副作用之前
	require.Zero(t, pipeline.calls)
	require.Empty(t, store.uploads)

	_, statErr := os.Stat(file.Path)
	require.True(t, os.IsNotExist(statErr))
}

func TestUploadAllowedOverQuotaWithPoints(t *testing.T) {
	repo := &fakeTourRepo{countByUser: 2}
	pipeline := &fakePipeline{assets: testAssets()}
	svc := newTestService(repo, pipeline, &fakeBlobStore{}, &fakeOrphanRecorder{})

	_, err := svc.Upload(context.Background(), "u-1", 100, writeUploadedFile(t), &dto.VideoTourUploadDTO{ListingID: "l-1"})
	require.NoError(t, err)
}

func TestUploadPipelineFailureCleansUp(t *testing.T) {
	repo := &fakeTourRepo{}
	pipeline := &fakePipeline{err: media.ErrNoVideoStream}
	store := &fakeBlobStore{}
	svc := newTestService(repo, pipeline, store, &fakeOrphanRecorder{})

	file := writeUploadedFile(t)

	_, err := svc.Upload(context.Background(), "u-1", 100, file, &dto.VideoTourUploadDTO{ListingID: "l-1"})
	require.ErrorIs(t, err, ErrMediaProcessFailed)
	require.Empty(t, store.uploads)
	require.Empty(t, repo.created)

	_, statErr := os.Stat(file.Path)
	require.True(t, os.IsNotExist(statErr))
}

func TestUploadPersistFailureRecordsOrphans(t *testing.T) {
	repo := &fakeTourRepo{createErr: errors.New("db down")}
	pipeline := &fakePipeline{assets: testAssets()}
	store := &fakeBlobStore{}
	orphans := &fakeOrphanRecorder{}
	svc := newTestService(repo, pipeline, store, orphans)

	file := writeUploadedFile(t)

	_, err := svc.Upload(context.Background(), "u-1", 100, file, &dto.VideoTourUploadDTO{ListingID: "l-1"})
	require.ErrorIs(t, err, ErrPersistFailed)
	require.Len(t, orphans.recorded, 3)

	_, statErr := os.Stat(file.Path)
	require.True(t, os.IsNotExist(statErr))
}

func seedTours(repo *fakeTourRepo, listingID string, n int) {
	base := time.Now()
	for i := 0; i < n; i++ {
		repo.tours = append(repo.tours, &model.VideoTour{
			ID:         "v-" + string(rune('a'+i%26)) + string(rune('0'+i/26)),
			UserID:     "u-1",
			ListingID:  listingID,
			UploadedAt: base.Add(-time.Duration(i) * time.Minute),
		})
	}
}

func TestListPagination(t *testing.T) {
	repo := &fakeTourRepo{}
	seedTours(repo, "l-1", 25)
	svc := newTestService(repo, &fakePipeline{}, &fakeBlobStore{}, &fakeOrphanRecorder{})

	page, err := svc.List(context.Background(), "l-1", 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Data, 10)
	require.EqualValues(t, 25, page.Pagination.Total)
	require.Equal(t, 3, page.Pagination.TotalPages)
	require.True(t, page.Pagination.HasMore)

	page, err = svc.List(context.Background(), "l-1", 3, 10)
	require.NoError(t, err)
	require.Len(t, page.Data, 5)
	require.False(t, page.Pagination.HasMore)
}

func TestListClampsOutOfRangePageToLast(t *testing.T) {
	repo := &fakeTourRepo{}
	seedTours(repo, "l-1", 25)
	svc := newTestService(repo, &fakePipeline{}, &fakeBlobStore{}, &fakeOrphanRecorder{})

	page, err := svc.List(context.Background(), "l-1", 99, 10)
	require.NoError(t, err)
	require.Equal(t, 3, page.Pagination.Page)
	require.Len(t, page.Data, 5)
	require.False(t, page.Pagination.HasMore)
}

func TestListClampsPageSize(t *testing.T) {
	repo := &fakeTourRepo{}
	seedTours(repo, "l-1", 5)
	svc := newTestService(repo, &fakePipeline{}, &fakeBlobStore{}, &fakeOrphanRecorder{})

	page, err := svc.List(context.Background(), "l-1", 0, 500)
	require.NoError(t, err)
	require.Equal(t, 1, page.Pagination.Page)
	require.Equal(t, 100, page.Pagination.PageSize)
}

func TestGetByIDOtherUserNotFound(t *testing.T) {
	repo := &fakeTourRepo{}
	repo.tours = append(repo.tours, &model.VideoTour{ID: "v-1", UserID: "owner", ListingID: "l-1"})
	svc := newTestService(repo, &fakePipeline{}, &fakeBlobStore{}, &fakeOrphanRecorder{})

	_, err := svc.GetByID(context.Background(), "v-1", "intruder")
	require.ErrorIs(t, err, ErrVideoTourNotFound)

	tour, err := svc.GetByID(context.Background(), "v-1", "owner")
	require.NoError(t, err)
	require.Equal(t, "v-1", tour.ID)
}

func TestDeleteRemovesRowAndBlobs(t *testing.T) {
	repo := &fakeTourRepo{}
	repo.tours = append(repo.tours, &model.VideoTour{
		ID:           "v-1",
		UserID:       "u-1",
		VideoURL:     "https://cdn.example.com/videos/v.mp4",
		PreviewURL:   "https://cdn.example.com/previews/p.gif",
		ThumbnailURL: "https://cdn.example.com/thumbnails/t.jpg",
	})
	store := &fakeBlobStore{}
	svc := newTestService(repo, &fakePipeline{}, store, &fakeOrphanRecorder{})

	require.NoError(t, svc.Delete(context.Background(), "v-1", "u-1"))
	require.Len(t, store.removed, 3)
	require.Contains(t, store.removed, "videos/v.mp4")

	_, err := svc.GetByID(context.Background(), "v-1", "u-1")
	require.ErrorIs(t, err, ErrVideoTourNotFound)
}

func TestDeleteSurvivesBlobFailure(t *testing.T) {
	repo := &fakeTourRepo{}
	repo.tours = append(repo.tours, &model.VideoTour{
		ID:           "v-1",
		UserID:       "u-1",
		VideoURL:     "https://cdn.example.com/videos/v.mp4",
		PreviewURL:   "https://cdn.example.com/previews/p.gif",
		ThumbnailURL: "https://cdn.example.com/thumbnails/t.jpg",
	})
	store := &fakeBlobStore{failRemove: "previews"}
	orphans := &fakeOrphanRecorder{}
	svc := newTestService(repo, &fakePipeline{}, store, orphans)

	require.NoError(t, svc.Delete(context.Background(), "v-1", "u-1"))
	require.Len(t, repo.deleted, 1)
	require.Contains(t, orphans.recorded, "previews/p.gif")

	_, err := svc.GetByID(context.Background(), "v-1", "u-1")
	require.ErrorIs(t, err, ErrVideoTourNotFound)
}

func TestUpdateMutableFieldsOnly(t *testing.T) {
	repo := &fakeTourRepo{}
	repo.tours = append(repo.tours, &model.VideoTour{ID: "v-1", UserID: "u-1", Title: "旧标题"})
	svc := newTestService(repo, &fakePipeline{}, &fakeBlobStore{}, &fakeOrphanRecorder{})

	title := "新标题"
	tour, err := svc.Update(context.Background(), "v-1", "u-1", &dto.VideoTourUpdateDTO{Title: &title})
	require.NoError(t, err)
	require.Equal(t, "新标题", tour.Title)

	_, err = svc.Update(context.Background(), "v-1", "u-1", &dto.VideoTourUpdateDTO{})
	require.ErrorIs(t, err, ErrParamInvalid)

	_, err = svc.Update(context.Background(), "v-1", "intruder", &dto.VideoTourUpdateDTO{Title: &title})
	require.ErrorIs(t, err, ErrVideoTourNotFound)

	_, err = svc.Update(context.Background(), "missing", "u-1", &dto.VideoTourUpdateDTO{Title: &title})
	require.ErrorIs(t, err, ErrVideoTourNotFound)
}
