package events

import (
	"context"
	"time"
)

const (
	TaskCreated      = "TASK_CREATED"
	TaskCompleted    = "TASK_COMPLETED"
	DocumentUploaded = "DOCUMENT_UPLOADED"
	DocumentDeleted  = "DOCUMENT_DELETED"
	QuestionAnswered = "QUESTION_ANSWERED"
	UserRegistered   = "USER_REGISTERED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "TASK_CREATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	Timestamp() time.Time
}

// Publisher is implemented by the NATS publisher; services depend on this so
// the bus stays optional.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now()}
}

func NewTaskCreated(taskId, userId uint, title string) BaseEvent {
	return New(TaskCreated, map[string]interface{}{
		"task_id": taskId,
		"user_id": userId,
		"title":   title,
	})
}

func NewTaskCompleted(taskId, userId uint, completed bool) BaseEvent {
	return New(TaskCompleted, map[string]interface{}{
		"task_id":   taskId,
		"user_id":   userId,
		"completed": completed,
	})
}

func NewDocumentUploaded(documentId string, userId uint, filename string, size int64) BaseEvent {
	return New(DocumentUploaded, map[string]interface{}{
		"document_id": documentId,
		"user_id":     userId,
		"filename":    filename,
		"file_size":   size,
	})
}

func NewDocumentDeleted(documentId string, userId uint) BaseEvent {
	return New(DocumentDeleted, map[string]interface{}{
		"document_id": documentId,
		"user_id":     userId,
	})
}

func NewQuestionAnswered(documentId string, userId uint, strategy string, elapsed time.Duration) BaseEvent {
	return New(QuestionAnswered, map[string]interface{}{
		"document_id": documentId,
		"user_id":     userId,
		"agent_type":  strategy,
		"elapsed_ms":  elapsed.Milliseconds(),
	})
}

func NewUserRegistered(userId uint, email string) BaseEvent {
	return New(UserRegistered, map[string]interface{}{
		"user_id": userId,
		"email":   email,
	})
}
