package service

import (
	"PropTour/internal/api/config"
	"PropTour/internal/api/dto"
	"PropTour/internal/pkg/consts"
	"PropTour/internal/pkg/redis"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
)

// AccountService 外部账号/积分服务
type AccountService interface {
	GetUserInfo(ctx context.Context, sessionID string) (*dto.EdgePropUserDTO, error)
	GetPoints(ctx context.Context, userID string) (int64, error)
}

type AccountServiceImpl struct {
	client   *resty.Client
	infoURL  string
	pointURL string
	apiKey   string
}

func NewAccountService(cfg config.EdgePropConfig) AccountService {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &AccountServiceImpl{
		client:   client,
		infoURL:  cfg.BaseURL + "/index.php?option=com_analytica&task=getDrupalInfo",
		pointURL: cfg.PointURL + "/api/getPoint",
		apiKey:   cfg.ApiKey,
	}
}

// GetUserInfo 用会话凭据换取用户身份，命中缓存则不回源
func (s *AccountServiceImpl) GetUserInfo(ctx context.Context, sessionID string) (*dto.EdgePropUserDTO, error) {
	cacheKey := consts.SessionUserKey + sessionID
	if cached, err := redis.GetValue(ctx, cacheKey); err == nil && cached != "" {
		var user dto.EdgePropUserDTO
		if err = json.Unmarshal([]byte(cached), &user); err == nil {
			return &user, nil
		}
	}

	var user dto.EdgePropUserDTO
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("session_id", sessionID).
		SetResult(&user).
		Get(s.infoURL)
	if err != nil {
		log.ErrorContext(ctx, "edgeprop user info request failed", "err", err)
		return nil, UnauthorizedError
	}
	if !resp.IsSuccess() || user.User.UID == "" {
		return nil, UnauthorizedError
	}

	if data, err := json.Marshal(&user); err == nil {
		_ = redis.SetWithExpiration(ctx, cacheKey, string(data), 5*time.Minute)
	}
	return &user, nil
}

// GetPoints 查询用户可用积分余额
func (s *AccountServiceImpl) GetPoints(ctx context.Context, userID string) (int64, error) {
	cacheKey := consts.UserPointsKey + userID
	if cached, err := redis.GetValue(ctx, cacheKey); err == nil && cached != "" {
		if points, err := strconv.ParseInt(cached, 10, 64); err == nil {
			return points, nil
		}
	}

	var body struct {
		Result dto.EdgePropPointsDTO `json:"result"`
	}
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"apiKey":  s.apiKey,
			"agentId": userID,
		}).
		SetResult(&body).
		Get(s.pointURL)
	if err != nil {
		log.ErrorContext(ctx, "edgeprop points request failed", "err", err)
		return 0, UnauthorizedError
	}
	if !resp.IsSuccess() || !body.Result.Status {
		return 0, UnauthorizedError
	}

	_ = redis.SetWithExpiration(ctx, cacheKey, strconv.FormatInt(body.Result.TotalAmount, 10), time.Minute)
	return body.Result.TotalAmount, nil
}
