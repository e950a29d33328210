package service

import (
	"errors"
	"time"

	"docqa_backend/internal/config"
	"docqa_backend/internal/model"
	"docqa_backend/internal/repository"
	"docqa_backend/internal/util"

	"gorm.io/gorm"
)

// QuizService 测验生成与判卷。判卷时先做作弊检测再写竞赛台账。
type QuizService struct {
	statRepo    *repository.StatisticRepository
	contestRepo *repository.ContestRepository
	docRepo     *repository.DocumentRepository
	llm         *LLMService
	statistic   *StatisticService
	cfg         *config.Config
}

func NewQuizService(
	statRepo *repository.StatisticRepository,
	contestRepo *repository.ContestRepository,
	docRepo *repository.DocumentRepository,
	llm *LLMService,
	statistic *StatisticService,
	cfg *config.Config,
) *QuizService {
	return &QuizService{
		statRepo:    statRepo,
		contestRepo: contestRepo,
		docRepo:     docRepo,
		llm:         llm,
		statistic:   statistic,
		cfg:         cfg,
	}
}

// QuizReply 返回给用户的测验，不含正确答案
type QuizReply struct {
	Question  string `json:"question"`
	Option1   string `json:"option_1"`
	Option2   string `json:"option_2"`
	Option3   string `json:"option_3"`
	Option4   string `json:"option_4"`
	RequestID uint   `json:"request_id"`
}

type CheckReply struct {
	RightAnswer string `json:"right_answer"`
}

func (s *QuizService) GetQuiz(userID uint, filename string) (*QuizReply, error) {
	exists, err := s.docRepo.Exists(filename)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, util.ErrDocumentNotFound
	}

	res, err := s.llm.ProcessData(filename)
	if err != nil {
		return nil, err
	}

	requestID, err := s.statistic.RecordQuizGeneration(userID, filename, res)
	if err != nil {
		return nil, err
	}

	return &QuizReply{
		Question:  res.Result.Question,
		Option1:   res.Result.Option1,
		Option2:   res.Result.Option2,
		Option3:   res.Result.Option3,
		Option4:   res.Result.Option4,
		RequestID: requestID,
	}, nil
}

// CheckQuiz 判卷：盖答题时间戳，算分，累加台账，返回正确答案
func (s *QuizService) CheckQuiz(userID uint, requestID uint, selectedOption string) (*CheckReply, error) {
	quiz, err := s.statRepo.FindUnansweredQuiz(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionAnswered
		}
		return nil, err
	}

	rec, err := s.statRepo.FindRecordByID(requestID)
	if err != nil {
		return nil, err
	}

	answeredAt := s.statistic.Now()
	if err := s.statRepo.MarkQuizAnswered(requestID, answeredAt); err != nil {
		return nil, err
	}

	score, err := s.scoreAnswer(userID, rec.DocName, selectedOption, quiz, rec.Timestamp, answeredAt)
	if err != nil {
		return nil, err
	}

	// 0.5 分即作弊标记：得分不是整数说明走了部分计分
	cheat := score != float64(int64(score))
	if err := s.contestRepo.UpsertScore(userID, rec.DocName, score, cheat); err != nil {
		return nil, err
	}

	return &CheckReply{RightAnswer: quiz.RightAnswer}, nil
}

// scoreAnswer 作弊检测计分。
// 答错直接 0 分。答对后查本人在收到测验到提交答案之间（开区间）对同一文档
// 发出的问答查询：没有查询给满分；有查询且归一化后与测验问题完全一致，
// 视为疑似借助问答作答，给部分分；查询的是无关问题不算作弊，仍给满分。
func (s *QuizService) scoreAnswer(
	userID uint,
	docName string,
	selectedOption string,
	quiz *model.QuizDetail,
	receivedAt, answeredAt time.Time,
) (float64, error) {
	if selectedOption != quiz.RightAnswer {
		return 0, nil
	}

	questions, err := s.statRepo.LookupQuestionsBetween(userID, docName, receivedAt, answeredAt)
	if err != nil {
		return 0, err
	}

	for _, q := range questions {
		if util.SameQuestion(q, quiz.Question) {
			return s.cfg.Limits.PartialCredit, nil
		}
	}
	return 1, nil
}
