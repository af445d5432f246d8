package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	e := NewTaskCreated(7, 2, "Купить молоко")
	assert.Equal(t, TaskCreated, e.EventType())
	assert.Equal(t, uint(7), e.Payload()["task_id"])
	assert.False(t, e.Timestamp().IsZero())

	q := NewQuestionAnswered("doc", 1, "coordinator", 0)
	assert.Equal(t, QuestionAnswered, q.EventType())
	assert.Equal(t, int64(0), q.Payload()["elapsed_ms"])
}
