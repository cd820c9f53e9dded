package storage

import (
	"PropTour/internal/pkg/consts"
	"PropTour/internal/pkg/redis"
	"context"
	log "log/slog"
	"time"

	"github.com/goccy/go-json"
)

// OrphanEntry 孤儿对象登记项
type OrphanEntry struct {
	Bucket    string `json:"bucket"`
	Key       string `json:"key"`
	CreatedAt int64  `json:"created_at"`
}

// OrphanLedger 记录部分失败后遗留在对象存储中的对象，
// 登记本身是尽力而为，失败只记日志，不影响主流程
type OrphanLedger struct{}

func NewOrphanLedger() *OrphanLedger {
	return &OrphanLedger{}
}

func (s *OrphanLedger) Record(ctx context.Context, bucket, objectName string) {
	entry := OrphanEntry{
		Bucket:    bucket,
		Key:       objectName,
		CreatedAt: time.Now().Unix(),
	}
	data, _ := json.Marshal(entry)

	if err := redis.HSet(ctx, consts.OrphanBlobKey, bucket+"/"+objectName, string(data)); err != nil {
		log.ErrorContext(ctx, "failed to record orphan blob", "bucket", bucket, "key", objectName, "err", err)
		return
	}
	log.InfoContext(ctx, "orphan blob recorded", "bucket", bucket, "key", objectName)
}
