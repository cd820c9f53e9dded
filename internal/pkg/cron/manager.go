package cron

import (
	"PropTour/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine         *cron.Cron
	blobReclaimJob *job.BlobReclaimJob
}

func NewCronManager(blobReclaimJob *job.BlobReclaimJob) *Manager {
	return &Manager{
		engine:         cron.New(cron.WithSeconds()),
		blobReclaimJob: blobReclaimJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob("@daily", s.blobReclaimJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	s.engine.Stop()
}

// InitCron 注册全部任务并启动引擎
func InitCron(mgr *Manager) error {
	if err := mgr.RegisterJobs(); err != nil {
		return err
	}
	mgr.Start()
	return nil
}
