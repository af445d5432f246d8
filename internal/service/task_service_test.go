package service

import (
	"context"
	"testing"

	"ai-taskmanager-be/internal/dto"
	"ai-taskmanager-be/internal/pkg/logger"
	"ai-taskmanager-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskServiceLifecycle(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc := NewTaskService(newFakeDB(), pub, logger.NewNopLogger())

	created, err := svc.Create(ctx, 1, &dto.CreateTaskRequest{Title: "Купить молоко"})
	require.NoError(t, err)
	assert.False(t, created.Completed)
	assert.Equal(t, uint(1), created.UserId)
	assert.Equal(t, []string{events.TaskCreated}, pub.types())

	_, err = svc.Create(ctx, 1, &dto.CreateTaskRequest{Title: "Позвонить"})
	require.NoError(t, err)

	done, err := svc.SetCompleted(ctx, 1, created.Id, true)
	require.NoError(t, err)
	assert.True(t, done.Completed)

	completed := true
	list, err := svc.List(ctx, 1, &completed)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.Id, list[0].Id)

	pending := false
	list, err = svc.List(ctx, 1, &pending)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	all, err := svc.List(ctx, 1, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	title := "Купить кефир"
	updated, err := svc.Update(ctx, 1, &dto.UpdateTaskRequest{Id: created.Id, Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.True(t, updated.Completed)

	require.NoError(t, svc.Delete(ctx, 1, created.Id))
	_, err = svc.Show(ctx, 1, created.Id)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestTaskServiceOwnerScoping(t *testing.T) {
	ctx := context.Background()
	svc := NewTaskService(newFakeDB(), nil, logger.NewNopLogger())

	task, err := svc.Create(ctx, 1, &dto.CreateTaskRequest{Title: "Секрет"})
	require.NoError(t, err)

	_, err = svc.Show(ctx, 2, task.Id)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	_, err = svc.SetCompleted(ctx, 2, task.Id, true)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, 2, task.Id), ErrTaskNotFound)

	others, err := svc.List(ctx, 2, nil)
	require.NoError(t, err)
	assert.Empty(t, others)
}
