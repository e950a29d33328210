package model

// ContestEntry 按 (user_id, doc_name) 累计的竞赛台账。
// Points 每次答题加 0 / 0.5 / 1，所有累加都走相对更新，避免并发丢失。
type ContestEntry struct {
	ID                      uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID                  uint    `gorm:"not null;uniqueIndex:idx_contest_user_doc" json:"userId"`
	DocName                 string  `gorm:"size:100;not null;uniqueIndex:idx_contest_user_doc" json:"docName"`
	TotalTests              int     `gorm:"not null;default:0" json:"totalTests"`
	Points                  float64 `gorm:"type:decimal(8,1);not null;default:0" json:"points"`
	CheatTests              int     `gorm:"not null;default:0" json:"cheatTests"`
	TestFeedbacks           int     `gorm:"not null;default:0" json:"testFeedbacks"`
	AnswerQuestionFeedbacks int     `gorm:"not null;default:0" json:"answerQuestionFeedbacks"`
}

func (ContestEntry) TableName() string {
	return "contest_entries"
}
