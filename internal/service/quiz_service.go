package service

import (
	"corpquiz_backend/internal/model"
	"corpquiz_backend/internal/repository"
	"corpquiz_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type QuizService struct {
	QuizRepo *repository.QuizRepository
}

func NewQuizService(quizRepo *repository.QuizRepository) *QuizService {
	return &QuizService{QuizRepo: quizRepo}
}

// QuizInput 创建测验的入参，整棵树一次提交
type QuizInput struct {
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description"`
	Frequency   int             `json:"frequency" binding:"required,min=1"`
	Questions   []QuestionInput `json:"questions" binding:"required"`
}

type QuestionInput struct {
	Text    string        `json:"text" binding:"required"`
	Options []OptionInput `json:"options" binding:"required"`
}

type OptionInput struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"isCorrect"`
}

// CreateQuiz 校验在任何写入之前完成：至少 2 道题，每题至少 2 个选项；
// 校验通过后整棵树在一个事务里落库
func (s *QuizService) CreateQuiz(companyID uint, input QuizInput) (*model.Quiz, error) {
	if len(input.Questions) < 2 {
		return nil, util.ErrTooFewQuestions
	}
	for _, q := range input.Questions {
		if len(q.Options) < 2 {
			return nil, util.ErrTooFewOptions
		}
	}

	quiz := &model.Quiz{
		Title:       input.Title,
		Description: input.Description,
		Frequency:   input.Frequency,
		CompanyID:   companyID,
	}
	for _, q := range input.Questions {
		question := model.Question{Text: q.Text}
		for _, o := range q.Options {
			question.Options = append(question.Options, model.Option{
				Text:      o.Text,
				IsCorrect: o.IsCorrect,
			})
		}
		quiz.Questions = append(quiz.Questions, question)
	}

	if err := s.QuizRepo.CreateTree(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) GetQuiz(id uint) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	} else if err != nil {
		return nil, err
	}

	questions, err := s.QuizRepo.Questions(id)
	if err != nil {
		return nil, err
	}
	quiz.Questions = questions
	return quiz, nil
}

func (s *QuizService) GetCompanyQuizzes(companyID uint) ([]model.Quiz, error) {
	return s.QuizRepo.ListByCompany(companyID)
}

func (s *QuizService) GetQuestions(quizID uint) ([]model.Question, error) {
	if _, err := s.QuizRepo.FindByID(quizID); errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return s.QuizRepo.Questions(quizID)
}

// CompanyOfQuiz 供控制器按公司做权限判定
func (s *QuizService) CompanyOfQuiz(quizID uint) (uint, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, util.ErrNotFound
	} else if err != nil {
		return 0, err
	}
	return quiz.CompanyID, nil
}

func (s *QuizService) CompanyOfQuestion(questionID uint) (uint, error) {
	question, err := s.QuizRepo.FindQuestionByID(questionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, util.ErrNotFound
	} else if err != nil {
		return 0, err
	}
	return s.CompanyOfQuiz(question.QuizID)
}

func (s *QuizService) CompanyOfOption(optionID uint) (uint, error) {
	option, err := s.QuizRepo.FindOptionByID(optionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, util.ErrNotFound
	} else if err != nil {
		return 0, err
	}
	return s.CompanyOfQuestion(option.QuestionID)
}

type UpdateQuizInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Frequency   int    `json:"frequency"`
}

func (s *QuizService) UpdateQuiz(id uint, input UpdateQuizInput) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	} else if err != nil {
		return nil, err
	}

	if input.Title != "" {
		quiz.Title = input.Title
	}
	if input.Description != "" {
		quiz.Description = input.Description
	}
	if input.Frequency > 0 {
		quiz.Frequency = input.Frequency
	}

	if err := s.QuizRepo.UpdateQuiz(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) UpdateQuestion(id uint, text string) (*model.Question, error) {
	question, err := s.QuizRepo.FindQuestionByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	} else if err != nil {
		return nil, err
	}

	question.Text = text
	if err := s.QuizRepo.UpdateQuestion(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *QuizService) UpdateOption(id uint, text string, isCorrect *bool) (*model.Option, error) {
	option, err := s.QuizRepo.FindOptionByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	} else if err != nil {
		return nil, err
	}

	if text != "" {
		option.Text = text
	}
	if isCorrect != nil {
		option.IsCorrect = *isCorrect
	}
	if err := s.QuizRepo.UpdateOption(option); err != nil {
		return nil, err
	}
	return option, nil
}

func (s *QuizService) DeleteQuiz(id uint) (DeleteResult, error) {
	ok, err := s.QuizRepo.DeleteQuiz(id)
	if err != nil {
		return DeleteResult{}, err
	}
	if !ok {
		return DeleteResult{Message: "Quiz not found", ID: -1}, nil
	}
	return DeleteResult{Message: "Quiz deleted", ID: int64(id)}, nil
}

func (s *QuizService) DeleteQuestion(id uint) (DeleteResult, error) {
	ok, err := s.QuizRepo.DeleteQuestion(id)
	if err != nil {
		return DeleteResult{}, err
	}
	if !ok {
		return DeleteResult{Message: "Question not found", ID: -1}, nil
	}
	return DeleteResult{Message: "Question deleted", ID: int64(id)}, nil
}

func (s *QuizService) DeleteOption(id uint) (DeleteResult, error) {
	ok, err := s.QuizRepo.DeleteOption(id)
	if err != nil {
		return DeleteResult{}, err
	}
	if !ok {
		return DeleteResult{Message: "Option not found", ID: -1}, nil
	}
	return DeleteResult{Message: "Option deleted", ID: int64(id)}, nil
}
