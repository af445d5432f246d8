package service

import (
	"context"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"ai-taskmanager-be/internal/dto"
	"ai-taskmanager-be/internal/entity"
	"ai-taskmanager-be/internal/pkg/apperror"
	"ai-taskmanager-be/internal/pkg/logger"
	"ai-taskmanager-be/internal/repository/specification"
	"ai-taskmanager-be/internal/repository/unitofwork"
	"ai-taskmanager-be/pkg/agent/history"
	"ai-taskmanager-be/pkg/events"
	"ai-taskmanager-be/pkg/filestore"

	"github.com/google/uuid"
)

var (
	ErrDocumentNotFound    = apperror.NotFound("Файл не найден или у вас нет прав доступа")
	ErrDocumentUnreadable  = apperror.BadRequest("Не удалось прочитать содержимое файла")
	ErrDocumentTooLarge    = apperror.New(http.StatusRequestEntityTooLarge, "Файл слишком большой")
	ErrDocumentUnsupported = apperror.New(http.StatusUnsupportedMediaType, "Неподдерживаемый тип файла")
	ErrDocumentEmptyUpload = apperror.BadRequest("Файл не передан")
)

// FileStorage keeps document bytes; filestore.LocalStore is the production one.
type FileStorage interface {
	Save(data []byte, originalName string) (string, error)
	Read(storedName string) ([]byte, error)
	Delete(storedName string) error
}

// DocumentContent is a readable document together with its metadata.
type DocumentContent struct {
	Document *entity.Document
	Text     string
}

// DocumentSource is what question answering needs from documents. Both
// methods fail with ErrDocumentNotFound for documents the user does not own.
type DocumentSource interface {
	GetInfo(ctx context.Context, userId uint, documentId string) (*dto.DocumentResponse, error)
	GetContent(ctx context.Context, userId uint, documentId string) (*DocumentContent, error)
}

type IDocumentService interface {
	DocumentSource
	Upload(ctx context.Context, userId uint, req *dto.UploadDocumentRequest) (*dto.DocumentResponse, error)
	List(ctx context.Context, userId uint) ([]*dto.DocumentResponse, error)
	Delete(ctx context.Context, userId uint, documentId string) error
}

type DocumentServiceConfig struct {
	MaxUploadBytes   int64
	AllowedMimeTypes []string
}

type documentService struct {
	uowFactory     unitofwork.RepositoryFactory
	storage        FileStorage
	history        history.Store
	eventPublisher events.Publisher
	logger         logger.ILogger
	maxBytes       int64
	allowed        map[string]struct{}
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	storage FileStorage,
	historyStore history.Store,
	eventPublisher events.Publisher,
	logger logger.ILogger,
	cfg DocumentServiceConfig,
) IDocumentService {
	allowed := make(map[string]struct{}, len(cfg.AllowedMimeTypes))
	for _, t := range cfg.AllowedMimeTypes {
		allowed[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}
	return &documentService{
		uowFactory:     uowFactory,
		storage:        storage,
		history:        historyStore,
		eventPublisher: eventPublisher,
		logger:         logger,
		maxBytes:       cfg.MaxUploadBytes,
		allowed:        allowed,
	}
}

// The builtin mime table lacks plain text formats unless the host ships mime.types.
func init() {
	for ext, typ := range map[string]string{
		".txt": "text/plain",
		".csv": "text/csv",
		".md":  "text/markdown",
	} {
		_ = mime.AddExtensionType(ext, typ)
	}
}

// MediaType strips parameters such as charset and falls back to the extension.
func MediaType(contentType, filename string) string {
	// Clients send octet-stream for types they do not know, so the extension decides.
	if contentType == "" || strings.HasPrefix(contentType, "application/octet-stream") {
		contentType = mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mediaType
}

func (s *documentService) Upload(ctx context.Context, userId uint, req *dto.UploadDocumentRequest) (*dto.DocumentResponse, error) {
	if len(req.Data) == 0 {
		return nil, ErrDocumentEmptyUpload
	}
	if s.maxBytes > 0 && int64(len(req.Data)) > s.maxBytes {
		return nil, ErrDocumentTooLarge
	}
	contentType := MediaType(req.ContentType, req.Filename)
	if _, ok := s.allowed[contentType]; !ok {
		return nil, ErrDocumentUnsupported
	}

	storedName, err := s.storage.Save(req.Data, req.Filename)
	if err != nil {
		return nil, err
	}

	doc := &entity.Document{
		Id:           uuid.New(),
		UserId:       userId,
		OriginalName: filepath.Base(req.Filename),
		StoredName:   storedName,
		ContentType:  contentType,
		Size:         int64(len(req.Data)),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.DocumentRepository().Create(ctx, doc); err != nil {
		if delErr := s.storage.Delete(storedName); delErr != nil {
			s.logger.Warn("DOCUMENT", "Failed to remove orphaned file", map[string]interface{}{
				"stored_name": storedName,
				"error":       delErr.Error(),
			})
		}
		return nil, err
	}

	s.logger.Info("DOCUMENT", "Document uploaded", map[string]interface{}{
		"document_id": doc.Id.String(),
		"user_id":     userId,
		"size":        doc.Size,
	})
	publish(ctx, s.eventPublisher, s.logger, events.NewDocumentUploaded(doc.Id.String(), userId, doc.OriginalName, doc.Size))

	return toDocumentResponse(doc), nil
}

func (s *documentService) List(ctx context.Context, userId uint) ([]*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	docs, err := uow.DocumentRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		res = append(res, toDocumentResponse(d))
	}
	return res, nil
}

func (s *documentService) GetInfo(ctx context.Context, userId uint, documentId string) (*dto.DocumentResponse, error) {
	doc, err := s.findOwned(ctx, s.uowFactory.NewUnitOfWork(ctx), userId, documentId)
	if err != nil {
		return nil, err
	}
	return toDocumentResponse(doc), nil
}

func (s *documentService) GetContent(ctx context.Context, userId uint, documentId string) (*DocumentContent, error) {
	doc, err := s.findOwned(ctx, s.uowFactory.NewUnitOfWork(ctx), userId, documentId)
	if err != nil {
		return nil, err
	}

	data, err := s.storage.Read(doc.StoredName)
	if err != nil {
		return nil, ErrDocumentUnreadable.Wrap(err)
	}
	text, err := filestore.DecodeText(data)
	if err != nil {
		return nil, ErrDocumentUnreadable.Wrap(err)
	}
	if text == "" {
		return nil, ErrDocumentUnreadable
	}

	return &DocumentContent{Document: doc, Text: text}, nil
}

func (s *documentService) Delete(ctx context.Context, userId uint, documentId string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := s.findOwned(ctx, uow, userId, documentId)
	if err != nil {
		return err
	}

	if err := uow.DocumentRepository().Delete(ctx, doc.Id); err != nil {
		return err
	}
	if err := s.storage.Delete(doc.StoredName); err != nil {
		s.logger.Warn("DOCUMENT", "Failed to remove file", map[string]interface{}{
			"document_id": documentId,
			"error":       err.Error(),
		})
	}
	if _, err := s.history.Clear(ctx, history.Key{UserId: userId, DocumentId: doc.Id.String()}); err != nil {
		s.logger.Warn("DOCUMENT", "Failed to clear history", map[string]interface{}{
			"document_id": documentId,
			"error":       err.Error(),
		})
	}

	publish(ctx, s.eventPublisher, s.logger, events.NewDocumentDeleted(doc.Id.String(), userId))
	return nil
}

func (s *documentService) findOwned(ctx context.Context, uow unitofwork.UnitOfWork, userId uint, documentId string) (*entity.Document, error) {
	id, err := uuid.Parse(documentId)
	if err != nil {
		return nil, ErrDocumentNotFound
	}
	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByUUID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrDocumentNotFound
	}
	return doc, nil
}

func toDocumentResponse(d *entity.Document) *dto.DocumentResponse {
	return &dto.DocumentResponse{
		Id:          d.Id,
		Filename:    d.OriginalName,
		FileSize:    d.Size,
		ContentType: d.ContentType,
		CreatedAt:   d.CreatedAt,
	}
}

var _ FileStorage = (*filestore.LocalStore)(nil)

