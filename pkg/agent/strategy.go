// Package agent answers questions about a document through interchangeable
// strategies and a coordinator that can chain two of them.
package agent

import "context"

const defaultFilename = "файл"

// Input is one question about one document.
type Input struct {
	Content  string
	Question string
	Filename string
}

func (in Input) filename() string {
	if in.Filename == "" {
		return defaultFilename
	}
	return in.Filename
}

// Strategy answers a question about document text. Process never fails; every
// problem is folded into the returned answer.
type Strategy interface {
	Name() string
	Description() string
	// Available is fixed at construction and never changes afterwards.
	Available() bool
	Process(ctx context.Context, in Input) string
}

// CapabilityProvider is implemented by strategies that advertise their own tags.
type CapabilityProvider interface {
	Capabilities() []string
}

var DefaultCapabilities = []string{"Анализ текста", "Ответы на вопросы", "Обработка файлов"}

// CapabilitiesOf returns the strategy's own tags or DefaultCapabilities.
func CapabilitiesOf(s Strategy) []string {
	if cp, ok := s.(CapabilityProvider); ok {
		if caps := cp.Capabilities(); len(caps) > 0 {
			return caps
		}
	}
	return DefaultCapabilities
}
