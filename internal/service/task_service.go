package service

import (
	"context"

	"ai-taskmanager-be/internal/dto"
	"ai-taskmanager-be/internal/entity"
	"ai-taskmanager-be/internal/pkg/apperror"
	"ai-taskmanager-be/internal/pkg/logger"
	"ai-taskmanager-be/internal/repository/specification"
	"ai-taskmanager-be/internal/repository/unitofwork"
	"ai-taskmanager-be/pkg/events"
)

var ErrTaskNotFound = apperror.NotFound("Задача не найдена")

type ITaskService interface {
	List(ctx context.Context, userId uint, completed *bool) ([]*dto.TaskResponse, error)
	Show(ctx context.Context, userId, taskId uint) (*dto.TaskResponse, error)
	Create(ctx context.Context, userId uint, req *dto.CreateTaskRequest) (*dto.TaskResponse, error)
	Update(ctx context.Context, userId uint, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error)
	SetCompleted(ctx context.Context, userId, taskId uint, completed bool) (*dto.TaskResponse, error)
	Delete(ctx context.Context, userId, taskId uint) error
}

type taskService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher events.Publisher
	logger         logger.ILogger
}

func NewTaskService(uowFactory unitofwork.RepositoryFactory, eventPublisher events.Publisher, logger logger.ILogger) ITaskService {
	return &taskService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

func (s *taskService) List(ctx context.Context, userId uint, completed *bool) ([]*dto.TaskResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	}
	if completed != nil {
		specs = append(specs, specification.ByCompleted{Completed: *completed})
	}

	tasks, err := uow.TaskRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		res = append(res, toTaskResponse(t))
	}
	return res, nil
}

func (s *taskService) Show(ctx context.Context, userId, taskId uint) (*dto.TaskResponse, error) {
	task, err := s.findOwned(ctx, s.uowFactory.NewUnitOfWork(ctx), userId, taskId)
	if err != nil {
		return nil, err
	}
	return toTaskResponse(task), nil
}

func (s *taskService) Create(ctx context.Context, userId uint, req *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	task, err := createTask(ctx, s.uowFactory.NewUnitOfWork(ctx), userId, req.Title, req.Description)
	if err != nil {
		return nil, err
	}

	s.logger.Info("TASK", "Task created", map[string]interface{}{"task_id": task.Id, "user_id": userId})
	publish(ctx, s.eventPublisher, s.logger, events.NewTaskCreated(task.Id, userId, task.Title))

	return toTaskResponse(task), nil
}

func (s *taskService) Update(ctx context.Context, userId uint, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	task, err := s.findOwned(ctx, uow, userId, req.Id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Completed != nil {
		task.Completed = *req.Completed
	}

	if err := uow.TaskRepository().Update(ctx, task); err != nil {
		return nil, err
	}
	return toTaskResponse(task), nil
}

func (s *taskService) SetCompleted(ctx context.Context, userId, taskId uint, completed bool) (*dto.TaskResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	task, err := s.findOwned(ctx, uow, userId, taskId)
	if err != nil {
		return nil, err
	}

	task.Completed = completed
	if err := uow.TaskRepository().Update(ctx, task); err != nil {
		return nil, err
	}

	publish(ctx, s.eventPublisher, s.logger, events.NewTaskCompleted(task.Id, userId, completed))
	return toTaskResponse(task), nil
}

func (s *taskService) Delete(ctx context.Context, userId, taskId uint) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.findOwned(ctx, uow, userId, taskId); err != nil {
		return err
	}
	return uow.TaskRepository().Delete(ctx, taskId)
}

func (s *taskService) findOwned(ctx context.Context, uow unitofwork.UnitOfWork, userId, taskId uint) (*entity.Task, error) {
	task, err := uow.TaskRepository().FindOne(ctx,
		specification.ByID{ID: taskId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

// createTask is shared by the HTTP path and the seeding consumer.
func createTask(ctx context.Context, uow unitofwork.UnitOfWork, userId uint, title, description string) (*entity.Task, error) {
	task := &entity.Task{
		Title:       title,
		Description: description,
		UserId:      userId,
	}
	if err := uow.TaskRepository().Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func toTaskResponse(t *entity.Task) *dto.TaskResponse {
	return &dto.TaskResponse{
		Id:          t.Id,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		UserId:      t.UserId,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
