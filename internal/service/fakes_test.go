package service

import (
	"context"
	"sync"
	"time"

	"ai-taskmanager-be/internal/entity"
	"ai-taskmanager-be/internal/repository/contract"
	"ai-taskmanager-be/internal/repository/specification"
	"ai-taskmanager-be/internal/repository/unitofwork"
	"ai-taskmanager-be/pkg/events"

	"github.com/google/uuid"
)

// fakeDB is an in-memory stand-in for the GORM repositories. It understands
// the filtering specifications the services use and ignores ordering.
type fakeDB struct {
	mu        sync.Mutex
	users     map[uint]*entity.User
	tasks     map[uint]*entity.Task
	documents map[uuid.UUID]*entity.Document
	nextId    uint
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		users:     map[uint]*entity.User{},
		tasks:     map[uint]*entity.Task{},
		documents: map[uuid.UUID]*entity.Document{},
	}
}

func (db *fakeDB) id() uint {
	db.nextId++
	return db.nextId
}

func (db *fakeDB) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUoW{db: db}
}

type fakeUoW struct {
	db *fakeDB
}

func (u *fakeUoW) Begin(ctx context.Context) error { return nil }
func (u *fakeUoW) Commit() error                   { return nil }
func (u *fakeUoW) Rollback() error                 { return nil }

func (u *fakeUoW) UserRepository() contract.UserRepository         { return fakeUsers{u.db} }
func (u *fakeUoW) TaskRepository() contract.TaskRepository         { return fakeTasks{u.db} }
func (u *fakeUoW) DocumentRepository() contract.DocumentRepository { return fakeDocuments{u.db} }

type fakeUsers struct{ db *fakeDB }

func (r fakeUsers) Create(ctx context.Context, user *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	user.Id = r.db.id()
	user.CreatedAt = time.Now()
	cp := *user
	r.db.users[user.Id] = &cp
	return nil
}

func (r fakeUsers) match(u *entity.User, specs []specification.Specification) bool {
	for _, s := range specs {
		switch s := s.(type) {
		case specification.ByID:
			if u.Id != s.ID {
				return false
			}
		case specification.ByEmail:
			if u.Email != s.Email {
				return false
			}
		}
	}
	return true
}

func (r fakeUsers) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if r.match(u, specs) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r fakeUsers) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for _, u := range r.db.users {
		if r.match(u, specs) {
			n++
		}
	}
	return n, nil
}

type fakeTasks struct{ db *fakeDB }

func (r fakeTasks) match(t *entity.Task, specs []specification.Specification) bool {
	for _, s := range specs {
		switch s := s.(type) {
		case specification.ByID:
			if t.Id != s.ID {
				return false
			}
		case specification.UserOwnedBy:
			if t.UserId != s.UserID {
				return false
			}
		case specification.ByCompleted:
			if t.Completed != s.Completed {
				return false
			}
		}
	}
	return true
}

func (r fakeTasks) Create(ctx context.Context, task *entity.Task) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	task.Id = r.db.id()
	task.CreatedAt = time.Now()
	cp := *task
	r.db.tasks[task.Id] = &cp
	return nil
}

func (r fakeTasks) Update(ctx context.Context, task *entity.Task) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := time.Now()
	task.UpdatedAt = &now
	cp := *task
	r.db.tasks[task.Id] = &cp
	return nil
}

func (r fakeTasks) Delete(ctx context.Context, id uint) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.tasks, id)
	return nil
}

func (r fakeTasks) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Task, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r fakeTasks) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Task, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var res []*entity.Task
	for _, t := range r.db.tasks {
		if r.match(t, specs) {
			cp := *t
			res = append(res, &cp)
		}
	}
	return res, nil
}

func (r fakeTasks) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

type fakeDocuments struct{ db *fakeDB }

func (r fakeDocuments) Create(ctx context.Context, document *entity.Document) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	document.CreatedAt = time.Now()
	cp := *document
	r.db.documents[document.Id] = &cp
	return nil
}

func (r fakeDocuments) Delete(ctx context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.documents, id)
	return nil
}

func (r fakeDocuments) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r fakeDocuments) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var res []*entity.Document
	for _, d := range r.db.documents {
		ok := true
		for _, s := range specs {
			switch s := s.(type) {
			case specification.ByUUID:
				ok = ok && d.Id == s.ID
			case specification.UserOwnedBy:
				ok = ok && d.UserId == s.UserID
			}
		}
		if ok {
			cp := *d
			res = append(res, &cp)
		}
	}
	return res, nil
}

// recordingPublisher keeps published events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}
