package handler

import (
	"PropTour/internal/api/config"
	"PropTour/internal/api/dto"
	"PropTour/internal/pkg/consts"
	"PropTour/internal/pkg/response"
	"PropTour/internal/pkg/util"
	"PropTour/internal/service"
	log "log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type VideoTourHandler struct {
	tourSvc   service.VideoTourService
	serverCfg config.ServerConfig
	mediaCfg  config.MediaConfig
}

func NewVideoTourHandler(tourSvc service.VideoTourService, serverCfg config.ServerConfig, mediaCfg config.MediaConfig) *VideoTourHandler {
	return &VideoTourHandler{
		tourSvc:   tourSvc,
		serverCfg: serverCfg,
		mediaCfg:  mediaCfg,
	}
}

// Upload 接收单个视频文件与可选元数据表单
func (s *VideoTourHandler) Upload(c *gin.Context) {
	userID := c.GetString("user_id")
	points := c.GetInt64("points")

	var form dto.VideoTourUploadDTO
	if err := c.ShouldBind(&form); err != nil {
		response.Error(c, err)
		return
	}

	file, err := c.FormFile("video")
	if err != nil || file == nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if file.Size > s.mediaCfg.MaxFileSize {
		response.Error(c, service.ErrFileTooLarge)
		return
	}

	reader, err := file.Open()
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	defer func() { _ = reader.Close() }()

	contentType, err := util.GetSafeContentType(reader)
	if err != nil {
		response.Error(c, err)
		return
	}
	if contentType == "application/octet-stream" {
		// mov 等容器嗅探不出来，退回客户端声明
		contentType = file.Header.Get("Content-Type")
	}
	if !strings.HasPrefix(contentType, consts.MimePrefixVideo) {
		response.Error(c, service.ErrFileNotSupported)
		return
	}

	if err = os.MkdirAll(s.serverCfg.UploadDir, 0o755); err != nil {
		log.ErrorContext(c.Request.Context(), "failed to create upload dir", "err", err)
		response.Error(c, service.UnExpectedError)
		return
	}
	localPath := filepath.Join(s.serverCfg.UploadDir, "video-"+uuid.NewString()+path.Ext(file.Filename))
	if err = c.SaveUploadedFile(file, localPath); err != nil {
		log.ErrorContext(c.Request.Context(), "failed to save uploaded file", "err", err)
		response.Error(c, service.UnExpectedError)
		return
	}

	uploaded := &dto.UploadedFile{
		Path:         localPath,
		OriginalName: file.Filename,
		ContentType:  contentType,
		Size:         file.Size,
	}

	tour, err := s.tourSvc.Upload(c.Request.Context(), userID, points, uploaded, &form)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tour)
}

func (s *VideoTourHandler) List(c *gin.Context) {
	listingID := c.Param("listing_id")
	if listingID == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var listDTO dto.VideoTourListDTO
	if err := c.ShouldBindQuery(&listDTO); err != nil {
		response.Error(c, err)
		return
	}

	page, err := s.tourSvc.List(c.Request.Context(), listingID, listDTO.Page, listDTO.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

func (s *VideoTourHandler) GetByID(c *gin.Context) {
	userID := c.GetString("user_id")
	id := c.Param("id")

	tour, err := s.tourSvc.GetByID(c.Request.Context(), id, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tour)
}

func (s *VideoTourHandler) Update(c *gin.Context) {
	userID := c.GetString("user_id")
	id := c.Param("id")

	var updateDTO dto.VideoTourUpdateDTO
	if err := c.ShouldBindJSON(&updateDTO); err != nil {
		response.Error(c, err)
		return
	}

	tour, err := s.tourSvc.Update(c.Request.Context(), id, userID, &updateDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tour)
}

func (s *VideoTourHandler) Delete(c *gin.Context) {
	userID := c.GetString("user_id")
	id := c.Param("id")

	if err := s.tourSvc.Delete(c.Request.Context(), id, userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *VideoTourHandler) Count(c *gin.Context) {
	userID := c.GetString("user_id")

	count, err := s.tourSvc.Count(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, count)
}
