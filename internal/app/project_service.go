package app

import (
	"strings"

	"askgpt/internal/model"
)

type ProjectLister interface {
	ProjectStore
	Create(project *model.Project) error
	ListByUserID(userID uint) ([]model.Project, error)
	SetChatActive(id uint, active bool) error
}

type ProjectService struct {
	projects ProjectLister
}

type CreateProjectInput struct {
	UserID       uint
	Name         string
	IsChatActive bool
}

func NewProjectService(projects ProjectLister) *ProjectService {
	return &ProjectService{projects: projects}
}

func (s *ProjectService) CreateProject(input CreateProjectInput) (*model.Project, error) {
	if input.UserID == 0 {
		return nil, ErrInvalidInput
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}

	project := &model.Project{
		UserID:       input.UserID,
		Name:         name,
		IsChatActive: input.IsChatActive,
	}
	if err := s.projects.Create(project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) ListProjects(userID uint) ([]model.Project, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.projects.ListByUserID(userID)
}

func (s *ProjectService) SetChatActive(userID, projectID uint, active bool) (*model.Project, error) {
	if userID == 0 || projectID == 0 {
		return nil, ErrInvalidInput
	}

	project, err := s.projects.GetByID(projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}
	if project.UserID != userID {
		return nil, ErrNotProjectOwner
	}

	if err := s.projects.SetChatActive(projectID, active); err != nil {
		return nil, err
	}
	project.IsChatActive = active
	return project, nil
}
