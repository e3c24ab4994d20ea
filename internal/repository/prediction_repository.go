package repository

import (
	"context"
	"errors"

	"score_predictor_backend/internal/model"
	"score_predictor_backend/internal/util"

	"gorm.io/gorm"
)

type PredictionRepository struct {
	DB *gorm.DB
}

func NewPredictionRepository(db *gorm.DB) *PredictionRepository {
	return &PredictionRepository{DB: db}
}

// Create inserts one prediction in a single statement. If the owning user no
// longer exists the foreign key rejects the row and util.ErrUserNotFound is
// returned.
func (r *PredictionRepository) Create(ctx context.Context, p *model.Prediction) error {
	err := r.DB.WithContext(ctx).Omit("User").Create(p).Error
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return util.ErrUserNotFound
	}
	return err
}

// FindByID loads a prediction together with its owner's id and username.
func (r *PredictionRepository) FindByID(ctx context.Context, id string) (*model.Prediction, error) {
	var p model.Prediction
	err := r.DB.WithContext(ctx).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username")
		}).
		Where("id = ?", id).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrPredictionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByUser returns one page of a user's predictions, newest first, and the
// user's total prediction count.
func (r *PredictionRepository) ListByUser(ctx context.Context, userID string, page, limit int) ([]model.PredictionSummary, int64, error) {
	var total int64
	query := r.DB.WithContext(ctx).Model(&model.Prediction{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.Prediction
	offset := (page - 1) * limit
	err := r.DB.WithContext(ctx).
		Select("id", "student_name", "age", "gender_code", "exam_score", "created_at").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Order("id desc").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	summaries := make([]model.PredictionSummary, 0, len(rows))
	for _, p := range rows {
		summaries = append(summaries, model.PredictionSummary{
			PredictionID: p.ID,
			StudentName:  p.StudentName,
			Age:          p.Age,
			GenderCode:   p.GenderCode,
			ExamScore:    p.ExamScore,
			CreatedAt:    p.CreatedAt,
		})
	}
	return summaries, total, nil
}
