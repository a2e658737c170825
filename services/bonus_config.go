package services

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sweetappleplus/gamified-task-manager-backend/models"
)

// BonusConfigService manages the per-task-type bonus percentages. The task
// lifecycle only reads it; admins own the CRUD.
type BonusConfigService struct {
	db *gorm.DB
}

func NewBonusConfigService(db *gorm.DB) *BonusConfigService {
	return &BonusConfigService{db: db}
}

type CreateBonusConfigInput struct {
	TaskType     models.TaskType
	Name         string
	Description  *string
	BonusPercent decimal.Decimal
}

type UpdateBonusConfigInput struct {
	TaskType     *models.TaskType
	Name         *string
	Description  *string
	BonusPercent *decimal.Decimal
}

func (s *BonusConfigService) Create(ctx context.Context, in CreateBonusConfigInput) (*models.BonusConfig, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if in.BonusPercent.IsNegative() {
		return nil, fmt.Errorf("%w: bonus percent must not be negative", ErrValidation)
	}

	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.BonusConfig{}).Where("task_type = ?", in.TaskType).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: bonus config with task type %q already exists", ErrConflict, in.TaskType)
	}
	if err := db.Model(&models.BonusConfig{}).Where("name = ?", in.Name).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: bonus config with name %q already exists", ErrConflict, in.Name)
	}

	config := models.BonusConfig{
		TaskType:     in.TaskType,
		Name:         in.Name,
		Description:  in.Description,
		BonusPercent: in.BonusPercent,
	}
	if err := db.Create(&config).Error; err != nil {
		return nil, err
	}

	log.Printf("[bonus-config] created: %s (%s)", config.Name, config.TaskType)
	return &config, nil
}

func (s *BonusConfigService) List(ctx context.Context) ([]models.BonusConfig, error) {
	var configs []models.BonusConfig
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&configs).Error; err != nil {
		return nil, err
	}
	return configs, nil
}

func (s *BonusConfigService) Get(ctx context.Context, id string) (*models.BonusConfig, error) {
	var config models.BonusConfig
	if err := s.db.WithContext(ctx).First(&config, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: bonus config with id %q", ErrNotFound, id)
		}
		return nil, err
	}
	return &config, nil
}

// ByTaskType looks up the bonus configuration for a task type.
func (s *BonusConfigService) ByTaskType(ctx context.Context, taskType models.TaskType) (*models.BonusConfig, error) {
	var config models.BonusConfig
	if err := s.db.WithContext(ctx).First(&config, "task_type = ?", taskType).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: bonus config with task type %q", ErrNotFound, taskType)
		}
		return nil, err
	}
	return &config, nil
}

func (s *BonusConfigService) Update(ctx context.Context, id string, in UpdateBonusConfigInput) (*models.BonusConfig, error) {
	db := s.db.WithContext(ctx)

	var existing models.BonusConfig
	if err := db.First(&existing, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: bonus config with id %q", ErrNotFound, id)
		}
		return nil, err
	}

	if in.TaskType != nil && *in.TaskType != existing.TaskType {
		var count int64
		if err := db.Model(&models.BonusConfig{}).Where("task_type = ?", *in.TaskType).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, fmt.Errorf("%w: bonus config with task type %q already exists", ErrConflict, *in.TaskType)
		}
		existing.TaskType = *in.TaskType
	}
	if in.Name != nil && *in.Name != existing.Name {
		var count int64
		if err := db.Model(&models.BonusConfig{}).Where("name = ?", *in.Name).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, fmt.Errorf("%w: bonus config with name %q already exists", ErrConflict, *in.Name)
		}
		existing.Name = *in.Name
	}
	if in.Description != nil {
		existing.Description = in.Description
	}
	if in.BonusPercent != nil {
		if in.BonusPercent.IsNegative() {
			return nil, fmt.Errorf("%w: bonus percent must not be negative", ErrValidation)
		}
		existing.BonusPercent = *in.BonusPercent
	}

	if err := db.Save(&existing).Error; err != nil {
		return nil, err
	}

	log.Printf("[bonus-config] updated: %s (%s)", existing.Name, existing.TaskType)
	return &existing, nil
}

func (s *BonusConfigService) Delete(ctx context.Context, id string) error {
	db := s.db.WithContext(ctx)

	var existing models.BonusConfig
	if err := db.First(&existing, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("%w: bonus config with id %q", ErrNotFound, id)
		}
		return err
	}

	if err := db.Delete(&existing).Error; err != nil {
		return err
	}

	log.Printf("[bonus-config] deleted: %s (%s)", existing.Name, existing.TaskType)
	return nil
}
