package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"askgpt/internal/model"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(project *model.Project) error {
	if err := r.db.Create(project).Error; err != nil {
		return fmt.Errorf("create project failed: %w", err)
	}
	return nil
}

func (r *ProjectRepository) GetByID(id uint) (*model.Project, error) {
	var project model.Project
	if err := r.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query project by id failed: %w", err)
	}
	return &project, nil
}

func (r *ProjectRepository) ListByUserID(userID uint) ([]model.Project, error) {
	var projects []model.Project
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("list projects failed: %w", err)
	}
	return projects, nil
}

func (r *ProjectRepository) SetChatActive(id uint, active bool) error {
	if err := r.db.Model(&model.Project{}).Where("id = ?", id).Update("is_chat_active", active).Error; err != nil {
		return fmt.Errorf("update project chat flag failed: %w", err)
	}
	return nil
}
