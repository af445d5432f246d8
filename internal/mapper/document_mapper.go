package mapper

import (
	"ai-taskmanager-be/internal/entity"
	"ai-taskmanager-be/internal/model"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(d *model.Document) *entity.Document {
	if d == nil {
		return nil
	}
	return &entity.Document{
		Id:           d.Id,
		UserId:       d.UserId,
		OriginalName: d.OriginalName,
		StoredName:   d.StoredName,
		ContentType:  d.ContentType,
		Size:         d.Size,
		CreatedAt:    d.CreatedAt,
	}
}

func (m *DocumentMapper) ToModel(d *entity.Document) *model.Document {
	if d == nil {
		return nil
	}
	return &model.Document{
		Id:           d.Id,
		UserId:       d.UserId,
		OriginalName: d.OriginalName,
		StoredName:   d.StoredName,
		ContentType:  d.ContentType,
		Size:         d.Size,
		CreatedAt:    d.CreatedAt,
	}
}

func (m *DocumentMapper) ToEntities(docs []*model.Document) []*entity.Document {
	entities := make([]*entity.Document, len(docs))
	for i, d := range docs {
		entities[i] = m.ToEntity(d)
	}
	return entities
}
