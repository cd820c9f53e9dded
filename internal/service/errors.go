package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	PayloadTooLarge     = 413
	InternalServerError = 500
)

var (
	ErrParamInvalid       = errors.New("参数错误")
	ErrFileNotSupported   = errors.New("不支持的文件类型")
	ErrFileTooLarge       = errors.New("文件大小超过限制")
	ErrVideoTourNotFound  = errors.New("视频导览不存在")
	ErrInsufficientPoints = errors.New("积分不足，无法上传更多视频")
	ErrVideoLimitReached  = errors.New("视频数量已达上限")
	ErrMediaProcessFailed = errors.New("视频处理失败")
	ErrUploadFailed       = errors.New("文件上传失败")
	ErrPersistFailed      = errors.New("数据保存失败")
	UnauthorizedError     = errors.New("权限不足")
	UnExpectedError       = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:       BadRequest,
	ErrFileNotSupported:   BadRequest,
	ErrFileTooLarge:       PayloadTooLarge,
	ErrVideoTourNotFound:  NotFound,
	ErrInsufficientPoints: Forbidden,
	ErrVideoLimitReached:  Forbidden,
	ErrMediaProcessFailed: InternalServerError,
	ErrUploadFailed:       InternalServerError,
	ErrPersistFailed:      InternalServerError,
	UnauthorizedError:     Unauthorized,
	UnExpectedError:       InternalServerError,
}

// CodeOf 按错误链匹配业务码，避免依赖错误文本
func CodeOf(err error) (int, bool) {
	for e, code := range ErrorMap {
		if errors.Is(err, e) {
			return code, true
		}
	}
	return 0, false
}
