package agent

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	HeuristicName = "heuristic"

	EmptyDocumentAnswer = "Не удалось прочитать содержимое файла."

	maxSearchResults  = 5
	maxContextLines   = 3
	minKeywordRunes   = 4
	previewLineNumber = 3
)

type bucket int

const (
	bucketGeneral bucket = iota
	bucketQuantity
	bucketContent
	bucketSearch
	bucketSummary
)

var searchTriggers = []string{"найди", "найти", "поиск", "ищи"}

var questionBuckets = classifier[bucket]{
	rules: []rule[bucket]{
		{keywords: []string{"сколько", "количество", "число"}, result: bucketQuantity},
		{keywords: []string{"что", "какой", "какая", "какое"}, result: bucketContent},
		{keywords: searchTriggers, result: bucketSearch},
		{keywords: []string{"резюме", "краткое", "суммарно", "итог"}, result: bucketSummary},
	},
	fallback: bucketGeneral,
}

// Heuristic answers from keyword rules over the raw text. It needs nothing external.
type Heuristic struct{}

func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

func (h *Heuristic) Name() string { return HeuristicName }

func (h *Heuristic) Description() string {
	return "Простой агент для базового анализа текста без внешних API"
}

func (h *Heuristic) Available() bool { return true }

func (h *Heuristic) Process(_ context.Context, in Input) string {
	return HeuristicAnswer(in.Content, in.Question)
}

// HeuristicAnswer is the deterministic routine shared by every strategy that
// has to fall back to local analysis.
func HeuristicAnswer(content, question string) string {
	if content == "" {
		return EmptyDocumentAnswer
	}

	lowered := strings.ToLower(question)
	doc := newDocStats(content)

	switch questionBuckets.classify(lowered) {
	case bucketQuantity:
		return doc.count(lowered)
	case bucketContent:
		return doc.preview()
	case bucketSearch:
		return doc.search(lowered)
	case bucketSummary:
		return doc.summary()
	default:
		return doc.general(question)
	}
}

type docStats struct {
	lines []string
	words int
	chars int
}

func newDocStats(content string) docStats {
	return docStats{
		lines: strings.Split(content, "\n"),
		words: len(strings.Fields(content)),
		chars: utf8.RuneCountInString(content),
	}
}

func (d docStats) count(question string) string {
	switch {
	case containsAny(question, []string{"строк", "линий"}):
		return fmt.Sprintf("В файле %d строк.", len(d.lines))
	case strings.Contains(question, "слов"):
		return fmt.Sprintf("В файле %d слов.", d.words)
	case containsAny(question, []string{"символов", "букв"}):
		return fmt.Sprintf("В файле %d символов.", d.chars)
	default:
		return fmt.Sprintf("Статистика файла: %d строк, %d слов, %d символов.", len(d.lines), d.words, d.chars)
	}
}

func (d docStats) preview() string {
	return "Файл содержит следующую информацию:\n\nПервые строки:\n" + strings.Join(head(d.lines, previewLineNumber), "\n")
}

func (d docStats) search(question string) string {
	var terms []string
	for _, word := range strings.Fields(question) {
		if utf8.RuneCountInString(word) >= minKeywordRunes && !isSearchTrigger(word) {
			terms = append(terms, word)
		}
	}
	if len(terms) == 0 {
		return "Не удалось определить, что искать в файле."
	}

	var results []string
	for i, line := range d.lines {
		if containsAny(strings.ToLower(line), terms) {
			results = append(results, fmt.Sprintf("Строка %d: %s", i+1, strings.TrimSpace(line)))
		}
	}

	if len(results) == 0 {
		return "Не найдено совпадений для: " + strings.Join(terms, ", ")
	}
	return fmt.Sprintf("Найдено совпадений: %d\n\n", len(results)) + strings.Join(head(results, maxSearchResults), "\n")
}

func (d docStats) summary() string {
	var nonEmpty []string
	for _, line := range d.lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			nonEmpty = append(nonEmpty, trimmed)
		}
	}

	var edges []string
	if len(nonEmpty) > 0 {
		edges = append(edges, "Начало: "+nonEmpty[0])
		if len(nonEmpty) > 1 {
			edges = append(edges, "Конец: "+nonEmpty[len(nonEmpty)-1])
		}
	}

	return fmt.Sprintf("Краткое резюме файла:\n- Всего строк: %d\n- Всего слов: %d\n\n", len(d.lines), d.words) + strings.Join(edges, "\n")
}

func (d docStats) general(question string) string {
	var keywords []string
	for _, word := range strings.Fields(question) {
		if utf8.RuneCountInString(word) >= minKeywordRunes {
			keywords = append(keywords, strings.ToLower(word))
		}
	}

	var found []string
	if len(keywords) > 0 {
		for _, line := range d.lines {
			if containsAny(strings.ToLower(line), keywords) {
				found = append(found, strings.TrimSpace(line))
			}
		}
	}

	if len(found) == 0 {
		return fmt.Sprintf("Не удалось найти прямого ответа на ваш вопрос в файле. Файл содержит %d строк и %d слов.", len(d.lines), d.words)
	}
	return "По вашему вопросу найдена следующая информация:\n\n" + strings.Join(head(found, maxContextLines), "\n")
}

func isSearchTrigger(word string) bool {
	for _, t := range searchTriggers {
		if word == t {
			return true
		}
	}
	return false
}

func head(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
