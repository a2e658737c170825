package services

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/sweetappleplus/gamified-task-manager-backend/models"
)

// CategoryService manages task categories. The task lifecycle only needs
// Exists; the CRUD is the admin surface.
type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

type CategoryInput struct {
	Name        string
	Description *string
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*models.TaskCategory, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.TaskCategory{}).Where("name = ?", in.Name).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: category with name %q already exists", ErrConflict, in.Name)
	}

	category := models.TaskCategory{Name: in.Name, Description: in.Description}
	if err := db.Create(&category).Error; err != nil {
		return nil, err
	}

	log.Printf("[category] created: %s", category.Name)
	return &category, nil
}

func (s *CategoryService) List(ctx context.Context) ([]models.TaskCategory, error) {
	var categories []models.TaskCategory
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *CategoryService) Get(ctx context.Context, id string) (*models.TaskCategory, error) {
	var category models.TaskCategory
	if err := s.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: task category with id %q", ErrNotFound, id)
		}
		return nil, err
	}
	return &category, nil
}

// Exists reports whether the category id refers to a stored category.
func (s *CategoryService) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.TaskCategory{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, in CategoryInput) (*models.TaskCategory, error) {
	db := s.db.WithContext(ctx)

	var category models.TaskCategory
	if err := db.First(&category, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: task category with id %q", ErrNotFound, id)
		}
		return nil, err
	}

	if in.Name != "" && in.Name != category.Name {
		var count int64
		if err := db.Model(&models.TaskCategory{}).Where("name = ?", in.Name).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, fmt.Errorf("%w: category with name %q already exists", ErrConflict, in.Name)
		}
		category.Name = in.Name
	}
	if in.Description != nil {
		category.Description = in.Description
	}

	if err := db.Save(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// Delete refuses to remove a category that still has tasks pointing at it.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	db := s.db.WithContext(ctx)

	var category models.TaskCategory
	if err := db.First(&category, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("%w: task category with id %q", ErrNotFound, id)
		}
		return err
	}

	var inUse int64
	if err := db.Model(&models.Task{}).Where("category_id = ?", id).Count(&inUse).Error; err != nil {
		return err
	}
	if inUse > 0 {
		return fmt.Errorf("%w: category %q is referenced by %d task(s)", ErrConflict, category.Name, inUse)
	}

	if err := db.Delete(&category).Error; err != nil {
		return err
	}

	log.Printf("[category] deleted: %s", category.Name)
	return nil
}
