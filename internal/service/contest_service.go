package service

import (
	"docqa_backend/internal/repository"
	"docqa_backend/internal/util"
)

// ContestService 排行榜构建，只读竞赛台账
type ContestService struct {
	contestRepo *repository.ContestRepository
	docRepo     *repository.DocumentRepository
}

func NewContestService(contestRepo *repository.ContestRepository, docRepo *repository.DocumentRepository) *ContestService {
	return &ContestService{
		contestRepo: contestRepo,
		docRepo:     docRepo,
	}
}

// RankedEntry 排行榜条目，名次从 1 开始按位置连续编号
type RankedEntry struct {
	Rank       int     `json:"rank"`
	UserID     uint    `json:"-"`
	Name       string  `json:"name"`
	Surname    string  `json:"surname"`
	Points     float64 `json:"points"`
	TotalTests int     `json:"totalTests"`
}

// Leaderboard 指定文档的完整榜单。行序由仓储层保证稳定
// （积分降序、主键升序），重复调用静态数据下名次可复现。
func (s *ContestService) Leaderboard(docName string) ([]RankedEntry, error) {
	inContest, err := s.docRepo.IsContestDoc(docName)
	if err != nil {
		return nil, err
	}
	if !inContest {
		return nil, util.ErrDocumentNotFound
	}

	rows, err := s.contestRepo.LeaderboardRows(docName)
	if err != nil {
		return nil, err
	}

	entries := make([]RankedEntry, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, RankedEntry{
			Rank:       i + 1,
			UserID:     row.UserID,
			Name:       row.Name,
			Surname:    row.Surname,
			Points:     row.Points,
			TotalTests: row.TotalTests,
		})
	}
	return entries, nil
}

// MyLeaderboard 前三名，加上调用者自己的行（若名次在三名开外）。
// 调用者没有台账行不算错误，只返回前三。
func (s *ContestService) MyLeaderboard(docName string, userID uint) ([]RankedEntry, error) {
	entries, err := s.Leaderboard(docName)
	if err != nil {
		return nil, err
	}

	top := entries
	if len(top) > 3 {
		top = entries[:3]
	}

	result := make([]RankedEntry, len(top))
	copy(result, top)

	for _, e := range entries[len(top):] {
		if e.UserID == userID {
			result = append(result, e)
			break
		}
	}
	return result, nil
}
