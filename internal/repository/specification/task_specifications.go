package specification

import "gorm.io/gorm"

type ByCompleted struct {
	Completed bool
}

func (s ByCompleted) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("completed = ?", s.Completed)
}
