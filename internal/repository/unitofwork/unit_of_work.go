package unitofwork

import (
	"context"

	"ai-taskmanager-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	TaskRepository() contract.TaskRepository
	DocumentRepository() contract.DocumentRepository
}
