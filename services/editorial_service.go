package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"tau-journal/clients"
	"tau-journal/helper"
	"tau-journal/identity"
	"tau-journal/models"
	"tau-journal/repositories"
)

type PagedEditorialTasks struct {
	Items      []models.EditorialTask `json:"items"`
	Pagination models.Pagination      `json:"pagination"`
}

type EditorialService interface {
	Create(ident *identity.Identity, req models.EditorialTaskCreateRequest) (*models.EditorialTask, error)
	Update(ctx context.Context, ident *identity.Identity, id uint, req models.EditorialTaskUpdateRequest) (*models.EditorialTask, error)
	Get(id uint) (*models.EditorialTask, error)
	ListByArticle(articleID uint) ([]models.EditorialTask, error)
	List(page, pageSize int) (*PagedEditorialTasks, error)
}

type editorialService struct {
	tasks         repositories.EditorialTaskRepository
	notifications *clients.NotificationClient
}

func NewEditorialService(tasks repositories.EditorialTaskRepository, notifications *clients.NotificationClient) EditorialService {
	return &editorialService{tasks: tasks, notifications: notifications}
}

// Create opens a decision record for one article. One task per
// (article, editor); a second editor may still open their own.
func (s *editorialService) Create(ident *identity.Identity, req models.EditorialTaskCreateRequest) (*models.EditorialTask, error) {
	task := &models.EditorialTask{
		ArticleID:   req.ArticleID,
		EditorID:    ident.UserID,
		Status:      models.WorkflowSubmitted,
		ReviewerIDs: req.ReviewerIDs,
	}
	if err := s.tasks.Create(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *editorialService) Update(ctx context.Context, ident *identity.Identity, id uint, req models.EditorialTaskUpdateRequest) (*models.EditorialTask, error) {
	task, err := s.getOr404(id)
	if err != nil {
		return nil, err
	}
	if task.EditorID != ident.UserID {
		return nil, forbidden("Only the owning editor can update this task")
	}
	if !models.ValidWorkflowStatus(req.Status) {
		return nil, badRequest(fmt.Sprintf("Invalid workflow status: %s", req.Status))
	}

	task.Status = req.Status
	if req.Decision != nil {
		task.Decision = req.Decision
	}
	if req.DecisionComment != nil {
		task.DecisionComment = req.DecisionComment
	}
	if req.ReviewerIDs != nil {
		task.ReviewerIDs = req.ReviewerIDs
	}
	if err := s.tasks.Save(task); err != nil {
		return nil, err
	}

	if task.Status == models.WorkflowAccepted || task.Status == models.WorkflowRejected {
		s.notifications.Send(ctx, ident, models.Notification{
			UserID:        task.EditorID,
			Type:          models.NotifyEditorial,
			Title:         "Editorial decision recorded",
			Message:       fmt.Sprintf("Task %d for article %d is now %s", task.ID, task.ArticleID, task.Status),
			RelatedEntity: fmt.Sprintf("article:%d", task.ArticleID),
		})
	}
	return task, nil
}

func (s *editorialService) Get(id uint) (*models.EditorialTask, error) {
	return s.getOr404(id)
}

// ListByArticle returns every editor's task for the article. Several
// editors may each own one.
func (s *editorialService) ListByArticle(articleID uint) ([]models.EditorialTask, error) {
	tasks, err := s.tasks.ListByArticle(articleID)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []models.EditorialTask{}
	}
	return tasks, nil
}

func (s *editorialService) List(page, pageSize int) (*PagedEditorialTasks, error) {
	if page < 1 {
		return nil, badRequest("Page must be at least 1")
	}
	if pageSize < 1 || pageSize > 100 {
		return nil, badRequest("Page size must be between 1 and 100")
	}

	tasks, total, err := s.tasks.List(page, pageSize)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []models.EditorialTask{}
	}
	return &PagedEditorialTasks{
		Items:      tasks,
		Pagination: helper.NewPagination(total, page, pageSize),
	}, nil
}

func (s *editorialService) getOr404(id uint) (*models.EditorialTask, error) {
	task, err := s.tasks.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Editorial task not found")
		}
		return nil, err
	}
	return task, nil
}
