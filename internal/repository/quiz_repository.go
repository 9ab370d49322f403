package repository

import (
	"corpquiz_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

// CreateTree 在一个事务里插入测验及其全部题目和选项，
// 任何一步失败则整棵树回滚，不留孤儿记录
func (r *QuizRepository) CreateTree(quiz *model.Quiz) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		questions := quiz.Questions
		quiz.Questions = nil
		if err := tx.Create(quiz).Error; err != nil {
			return err
		}
		for i := range questions {
			options := questions[i].Options
			questions[i].Options = nil
			questions[i].QuizID = quiz.ID
			if err := tx.Create(&questions[i]).Error; err != nil {
				return err
			}
			for j := range options {
				options[j].QuestionID = questions[i].ID
			}
			if len(options) > 0 {
				if err := tx.Create(&options).Error; err != nil {
					return err
				}
			}
			questions[i].Options = options
		}
		quiz.Questions = questions
		return nil
	})
}

func (r *QuizRepository) FindByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.First(&quiz, id).Error
	return &quiz, err
}

func (r *QuizRepository) ListByCompany(companyID uint) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.Where("company_id = ?", companyID).Order("created_at desc").Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) ListAll() ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.Find(&quizzes).Error
	return quizzes, err
}

// Questions 返回测验的题目，选项随题目一并加载
func (r *QuizRepository) Questions(quizID uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Where("quiz_id = ?", quizID).Preload("Options").
		Order("created_at asc").Find(&questions).Error
	return questions, err
}

func (r *QuizRepository) FindQuestionByID(id uint) (*model.Question, error) {
	var question model.Question
	err := r.DB.First(&question, id).Error
	return &question, err
}

func (r *QuizRepository) FindOptionByID(id uint) (*model.Option, error) {
	var option model.Option
	err := r.DB.First(&option, id).Error
	return &option, err
}

func (r *QuizRepository) UpdateQuiz(quiz *model.Quiz) error {
	return r.DB.Save(quiz).Error
}

func (r *QuizRepository) UpdateQuestion(question *model.Question) error {
	return r.DB.Save(question).Error
}

func (r *QuizRepository) UpdateOption(option *model.Option) error {
	return r.DB.Save(option).Error
}

// DeleteQuiz 级联删除测验树
func (r *QuizRepository) DeleteQuiz(id uint) (bool, error) {
	var deleted bool
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var questionIDs []uint
		if err := tx.Model(&model.Question{}).Where("quiz_id = ?", id).Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		if len(questionIDs) > 0 {
			if err := tx.Where("question_id IN ?", questionIDs).Delete(&model.Option{}).Error; err != nil {
				return err
			}
			if err := tx.Where("quiz_id = ?", id).Delete(&model.Question{}).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&model.Quiz{}, id)
		deleted = res.RowsAffected > 0
		return res.Error
	})
	return deleted, err
}

func (r *QuizRepository) DeleteQuestion(id uint) (bool, error) {
	var deleted bool
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).Delete(&model.Option{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Question{}, id)
		deleted = res.RowsAffected > 0
		return res.Error
	})
	return deleted, err
}

func (r *QuizRepository) DeleteOption(id uint) (bool, error) {
	res := r.DB.Delete(&model.Option{}, id)
	return res.RowsAffected > 0, res.Error
}

// CorrectOptionIDs 按题目分组返回测验内全部正确选项的 ID，评分用
func (r *QuizRepository) CorrectOptionIDs(quizID uint) (map[uint][]uint, error) {
	var rows []model.Option
	err := r.DB.Model(&model.Option{}).
		Joins("JOIN questions ON questions.id = options.question_id").
		Where("questions.quiz_id = ? AND options.is_correct = ? AND questions.deleted_at IS NULL", quizID, true).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	correct := make(map[uint][]uint, len(rows))
	for _, opt := range rows {
		correct[opt.QuestionID] = append(correct[opt.QuestionID], opt.ID)
	}
	return correct, nil
}
