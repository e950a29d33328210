package model

import (
	"time"
)

// 操作类型：问答查询 / 测验生成
const (
	OperationAnswerLookup   = "answer_lookup"
	OperationQuizGeneration = "quiz_generation"
)

// InteractionRecord 每次 LLM 调用一行，只增不改，作为审计日志。
// Timestamp 为部署时区的"本地裸时间"（去掉时区信息），全系统统一用该约定比较时间。
type InteractionRecord struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID          uint      `gorm:"index;not null" json:"userId"`
	Timestamp       time.Time `gorm:"index;not null" json:"timestamp"`
	Operation       string    `gorm:"size:20;not null" json:"operation"`
	DocName         string    `gorm:"size:100;index" json:"docName"`
	PromptPath      string    `gorm:"size:255;not null" json:"promptPath"`
	Tokens          int       `gorm:"not null" json:"tokens"`
	EmbeddingTokens int       `json:"embeddingTokens"`
	TotalTime       float64   `gorm:"type:decimal(10,3);not null" json:"totalTime"`
	GigachatTime    float64   `gorm:"type:decimal(10,3)" json:"gigachatTime"`
	FromCache       bool      `gorm:"default:false" json:"fromCache"`
}

func (InteractionRecord) TableName() string {
	return "interaction_records"
}

// QuizDetail 测验生成的明细。AnsweredAt 为空表示尚未作答。
type QuizDetail struct {
	ID                 uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	RequestID          uint       `gorm:"uniqueIndex;not null" json:"requestId"`
	Question           string     `gorm:"type:text;not null" json:"question"`
	Option1            string     `gorm:"type:text;not null" json:"option1"`
	Option2            string     `gorm:"type:text;not null" json:"option2"`
	Option3            string     `gorm:"type:text;not null" json:"option3"`
	Option4            string     `gorm:"type:text;not null" json:"option4"`
	RightAnswer        string     `gorm:"type:text;not null" json:"-"`
	GenerationAttempts int        `json:"generationAttempts"`
	AnsweredAt         *time.Time `json:"answeredAt"`
}

func (QuizDetail) TableName() string {
	return "quiz_details"
}

// AnswerDetail 问答查询的明细，与 InteractionRecord 一对一
type AnswerDetail struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	RequestID uint   `gorm:"uniqueIndex;not null" json:"requestId"`
	Question  string `gorm:"type:text;not null" json:"question"`
	Answer    string `gorm:"type:text;not null" json:"answer"`
	Metrics   []int  `gorm:"type:json;serializer:json" json:"metrics"`
}

func (AnswerDetail) TableName() string {
	return "answer_details"
}
