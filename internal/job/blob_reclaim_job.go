package job

import (
	"PropTour/internal/pkg/consts"
	"PropTour/internal/pkg/media"
	"PropTour/internal/pkg/redis"
	"PropTour/internal/pkg/storage"
	"context"
	log "log/slog"
	"time"

	"github.com/goccy/go-json"
)

// BlobReclaimJob 清理部分失败后遗留的孤儿对象。
// 上传与落库之间没有两阶段提交，失败路径只登记台账，由这里兜底删除
type BlobReclaimJob struct {
	store media.Uploader
}

func NewBlobReclaimJob(store media.Uploader) *BlobReclaimJob {
	return &BlobReclaimJob{store: store}
}

func (s *BlobReclaimJob) Run() {
	ctx := context.Background()
	log.Info("start blob reclaim job")

	entries, err := redis.HGetAll(ctx, consts.OrphanBlobKey)
	if err != nil {
		log.Error("failed to read orphan blob ledger", "err", err)
		return
	}

	now := time.Now().Unix()
	gracePeriod := int64(24 * 60 * 60)
	count := 0

	for field, val := range entries {
		var entry storage.OrphanEntry
		if err := json.Unmarshal([]byte(val), &entry); err != nil {
			log.Warn("invalid orphan ledger entry", "field", field)
			continue
		}

		if now-entry.CreatedAt > gracePeriod {
			if err = s.store.Remove(ctx, entry.Bucket, entry.Key); err != nil {
				log.Error("failed to delete orphan blob", "bucket", entry.Bucket, "key", entry.Key, "err", err)
				continue
			}

			if err = redis.HDel(ctx, consts.OrphanBlobKey, field); err != nil {
				log.Error("failed to remove ledger entry", "field", field, "err", err)
			}

			count++
			log.Info("reclaimed orphan blob", "bucket", entry.Bucket, "key", entry.Key)
		}
	}

	if count > 0 {
		log.Info("blob reclaim job finished", "reclaimed_count", count)
	}
}
