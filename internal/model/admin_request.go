package model

// 注册申请状态
const (
	RequestPending  = "approval"
	RequestAccepted = "accepted"
	RequestRejected = "rejected"
)

type AdminRequestInfo struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Email   string `json:"email"`
}

// AdminRequest 注册申请，等待管理员批准；每个用户只允许一条
type AdminRequest struct {
	BaseModel
	UserID uint             `gorm:"uniqueIndex;not null" json:"userId"`
	Info   AdminRequestInfo `gorm:"type:json;serializer:json" json:"info"`
	Status string           `gorm:"size:20;not null" json:"status"`
}

func (AdminRequest) TableName() string {
	return "admin_requests"
}
