package model

// Feedback 用户对某次 LLM 交互的反馈，一经写入不再修改
type Feedback struct {
	BaseModel
	Value       string `gorm:"size:20;not null" json:"value"`
	UserComment string `gorm:"type:text" json:"userComment"`
	RequestID   uint   `gorm:"index;not null" json:"requestId"`
	Viewed      bool   `gorm:"default:false" json:"viewed"` // 管理员已查看
}

func (Feedback) TableName() string {
	return "feedbacks"
}
