package dto

// EdgePropUserDTO 外部账号服务返回的用户信息
type EdgePropUserDTO struct {
	User struct {
		UID  string `json:"uid"`
		Name string `json:"name"`
	} `json:"user"`
}

// EdgePropPointsDTO 外部积分服务返回的积分信息
type EdgePropPointsDTO struct {
	Status      bool  `json:"status"`
	TotalAmount int64 `json:"total_amount"`
}
