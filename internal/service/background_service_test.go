package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"ai-taskmanager-be/internal/dto"
	"ai-taskmanager-be/internal/entity"
	"ai-taskmanager-be/internal/pkg/logger"
	"ai-taskmanager-be/pkg/events"
	pktNats "ai-taskmanager-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func acked(msg *message.Message) bool {
	select {
	case <-msg.Acked():
		return true
	default:
		return false
	}
}

func TestConsumerCreatesTaskForExistingUser(t *testing.T) {
	ctx := context.Background()
	db := newFakeDB()
	user := &entity.User{Email: "seed@example.com"}
	require.NoError(t, fakeUsers{db}.Create(ctx, user))

	pub := &recordingPublisher{}
	cs := NewConsumerService(nil, "SEED_TASK", db, pub, logger.NewNopLogger()).(*consumerService)

	payload, _ := json.Marshal(dto.SeedTaskMessage{UserId: user.Id, Title: "Полить цветы"})
	msg := message.NewMessage(watermill.NewUUID(), payload)
	cs.processMessage(ctx, msg)

	assert.True(t, acked(msg))
	tasks, _ := fakeTasks{db}.FindAll(ctx)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Полить цветы", tasks[0].Title)
	assert.Equal(t, []string{events.TaskCreated}, pub.types())
}

func TestConsumerAcksUnprocessableMessages(t *testing.T) {
	ctx := context.Background()
	db := newFakeDB()
	cs := NewConsumerService(nil, "SEED_TASK", db, nil, logger.NewNopLogger()).(*consumerService)

	missingUser, _ := json.Marshal(dto.SeedTaskMessage{UserId: 42, Title: "x"})
	for _, payload := range [][]byte{[]byte("{not json"), missingUser, []byte(`{"user_id":1}`)} {
		msg := message.NewMessage(watermill.NewUUID(), payload)
		cs.processMessage(ctx, msg)
		assert.True(t, acked(msg))
	}

	tasks, _ := fakeTasks{db}.FindAll(ctx)
	assert.Empty(t, tasks)
}

func TestSeederPublishesThroughConsumer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db := newFakeDB()
	user := &entity.User{Email: "seed@example.com"}
	require.NoError(t, fakeUsers{db}.Create(ctx, user))

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	cs := NewConsumerService(pubSub, "SEED_TASK", db, nil, logger.NewNopLogger())
	require.NoError(t, cs.Consume(ctx))

	seeder := NewSeederService(NewPublisherService("SEED_TASK", pubSub), []uint{user.Id}, time.Hour, logger.NewNopLogger())
	sent, err := seeder.SeedOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.Id, sent.UserId)

	require.Eventually(t, func() bool {
		tasks, _ := fakeTasks{db}.FindAll(ctx)
		return len(tasks) == 1 && tasks[0].Title == sent.Title
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSeederWithoutUsers(t *testing.T) {
	seeder := NewSeederService(nil, nil, time.Second, logger.NewNopLogger())
	_, err := seeder.SeedOnce(context.Background())
	assert.ErrorIs(t, err, errNoSeedUsers)
}

func TestSeederRunStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewSeederService(nil, []uint{1}, time.Hour, logger.NewNopLogger()).Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("seeder did not stop")
	}
}

type fakeSubscriber struct {
	mu       sync.Mutex
	subject  string
	durable  string
	handler  pktNats.EventHandler
	failWith error
}

func (s *fakeSubscriber) Subscribe(ctx context.Context, subject, durableName string, handler pktNats.EventHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subject, s.durable, s.handler = subject, durableName, handler
	return s.failWith
}

func TestActivityServiceSubscribesToAllEvents(t *testing.T) {
	ctx := context.Background()
	sub := &fakeSubscriber{}
	svc := NewActivityService(sub, logger.NewNopLogger())

	require.NoError(t, svc.Start(ctx))
	assert.Equal(t, pktNats.SubjectPattern, sub.subject)
	assert.Equal(t, activityDurable, sub.durable)
	require.NotNil(t, sub.handler)
	assert.NoError(t, sub.handler(ctx, events.NewTaskCreated(1, 1, "x")))

	failing := NewActivityService(&fakeSubscriber{failWith: errors.New("no stream")}, logger.NewNopLogger())
	assert.Error(t, failing.Start(ctx))

	assert.NoError(t, NewActivityService(nil, logger.NewNopLogger()).Start(ctx))
}
