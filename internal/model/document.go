package model

// Document 已加载进 LLM 微服务的文档，name 对应微服务中的索引名
type Document struct {
	BaseModel
	Name           string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Type           string `gorm:"size:10" json:"type"`
	Description    string `gorm:"size:500;not null" json:"description"`
	ChunkSize      int    `json:"chunkSize"`
	EmbeddingModel string `gorm:"size:100" json:"embeddingModel"`
	UserID         uint   `gorm:"index" json:"userId"`
	InContest      bool   `gorm:"default:false" json:"inContest"` // 竞赛文档参与排行榜
}

func (Document) TableName() string {
	return "docs"
}
