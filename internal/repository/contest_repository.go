package repository

import (
	"errors"

	"docqa_backend/internal/model"

	"gorm.io/gorm"
)

type ContestRepository struct {
	DB *gorm.DB
}

func NewContestRepository(db *gorm.DB) *ContestRepository {
	return &ContestRepository{DB: db}
}

// LeaderboardRow 排行榜一行，联表取用户姓名
type LeaderboardRow struct {
	UserID     uint    `json:"userId"`
	Name       string  `json:"name"`
	Surname    string  `json:"surname"`
	Points     float64 `json:"points"`
	TotalTests int     `json:"totalTests"`
}

func (r *ContestRepository) scoreIncrements(score float64, cheat bool) map[string]interface{} {
	cheatInc := 0
	if cheat {
		cheatInc = 1
	}
	return map[string]interface{}{
		"total_tests": gorm.Expr("total_tests + ?", 1),
		"points":      gorm.Expr("points + ?", score),
		"cheat_tests": gorm.Expr("cheat_tests + ?", cheatInc),
	}
}

// UpsertScore 按 (user_id, doc_name) 累加成绩。所有增量都是相对更新，
// 同一用户并发提交时不会丢失；插入撞唯一索引则回退为更新。
func (r *ContestRepository) UpsertScore(userID uint, docName string, score float64, cheat bool) error {
	res := r.DB.Model(&model.ContestEntry{}).
		Where("user_id = ? AND doc_name = ?", userID, docName).
		Updates(r.scoreIncrements(score, cheat))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	cheatInc := 0
	if cheat {
		cheatInc = 1
	}
	entry := &model.ContestEntry{
		UserID:     userID,
		DocName:    docName,
		TotalTests: 1,
		Points:     score,
		CheatTests: cheatInc,
	}
	if err := r.DB.Create(entry).Error; err != nil {
		// 两个首提并发竞争插入时，落败方改走更新
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return r.DB.Model(&model.ContestEntry{}).
				Where("user_id = ? AND doc_name = ?", userID, docName).
				Updates(r.scoreIncrements(score, cheat)).Error
		}
		return err
	}
	return nil
}

// IncrementFeedback 反馈计数只在台账行已存在时累加，不因反馈创建新行
func (r *ContestRepository) IncrementFeedback(userID uint, docName string, column string) error {
	return r.DB.Model(&model.ContestEntry{}).
		Where("user_id = ? AND doc_name = ?", userID, docName).
		Update(column, gorm.Expr(column+" + ?", 1)).
		Error
}

func (r *ContestRepository) FindEntry(userID uint, docName string) (*model.ContestEntry, error) {
	var entry model.ContestEntry
	err := r.DB.Where("user_id = ? AND doc_name = ?", userID, docName).First(&entry).Error
	return &entry, err
}

// LeaderboardRows 指定文档的全部台账行，积分降序，同分按主键升序保证稳定
func (r *ContestRepository) LeaderboardRows(docName string) ([]LeaderboardRow, error) {
	var rows []LeaderboardRow
	err := r.DB.Model(&model.ContestEntry{}).
		Select("contest_entries.user_id, users.name, users.surname, contest_entries.points, contest_entries.total_tests").
		Joins("JOIN users ON users.id = contest_entries.user_id").
		Where("contest_entries.doc_name = ?", docName).
		Order("contest_entries.points DESC, contest_entries.id ASC").
		Scan(&rows).Error
	return rows, err
}
