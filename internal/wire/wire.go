package wire

import (
	"PropTour/internal/api"
	"PropTour/internal/api/config"
	"PropTour/internal/api/handler"
	"PropTour/internal/job"
	"PropTour/internal/pkg/cron"
	"PropTour/internal/pkg/media"
	"PropTour/internal/pkg/storage"
	"PropTour/internal/repository"
	"PropTour/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router  *gin.Engine
	DB      *gorm.DB
	CronMgr *cron.Manager
}

func BuildApplication(db *gorm.DB, store *storage.Client, cfg *config.Config) (*ApplicationContainer, error) {
	tourRepo := repository.NewVideoTourRepository(db)

	orphanLedger := storage.NewOrphanLedger()
	prober := media.NewProber(cfg.LibPath)
	previewRenderer := media.NewPreviewRenderer(cfg.LibPath, cfg.Media)
	thumbnailRenderer := media.NewThumbnailRenderer(cfg.LibPath)
	pipeline := media.NewPipeline(prober, previewRenderer, thumbnailRenderer, store, orphanLedger, cfg.MinIO, cfg.Media)

	accountService := service.NewAccountService(cfg.EdgeProp)
	tourService := service.NewVideoTourService(tourRepo, pipeline, store, orphanLedger, cfg.MinIO, cfg.Media)

	handlers := &api.HandlersGroup{
		VideoTourHandler: handler.NewVideoTourHandler(tourService, cfg.Server, cfg.Media),
	}

	router := api.SetupRouter(handlers, accountService)

	cronMgr := cron.NewCronManager(job.NewBlobReclaimJob(store))

	return &ApplicationContainer{
		Router:  router,
		DB:      db,
		CronMgr: cronMgr,
	}, nil
}
