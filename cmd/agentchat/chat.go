package main

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ai-taskmanager-be/pkg/agent"
	"ai-taskmanager-be/pkg/agent/history"
	"ai-taskmanager-be/pkg/filestore"

	"github.com/fatih/color"
)

const separator = "============================================================"

// chat is a single-user session over one loaded file.
type chat struct {
	registry *agent.Registry
	history  history.Store
	in       io.Reader
	out      io.Writer

	path    string
	content string

	title   *color.Color
	info    *color.Color
	success *color.Color
	failure *color.Color
	answer  *color.Color
}

func newChat(registry *agent.Registry, store history.Store, in io.Reader, out io.Writer) *chat {
	return &chat{
		registry: registry,
		history:  store,
		in:       in,
		out:      out,
		title:    color.New(color.FgCyan, color.Bold),
		info:     color.New(color.FgWhite),
		success:  color.New(color.FgGreen),
		failure:  color.New(color.FgRed),
		answer:   color.New(color.FgYellow),
	}
}

func (c *chat) run(ctx context.Context) error {
	c.banner()

	scanner := bufio.NewScanner(c.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		c.info.Fprint(c.out, "\n> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		if done := c.handle(ctx, strings.TrimSpace(scanner.Text())); done {
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

// handle executes one input line and reports whether the session is over.
func (c *chat) handle(ctx context.Context, line string) bool {
	if line == "" {
		return false
	}
	cmd, arg, _ := strings.Cut(line, " ")
	switch strings.ToLower(cmd) {
	case "exit", "quit":
		c.success.Fprintln(c.out, "👋 До свидания!")
		return true
	case "help":
		c.banner()
	case "load":
		c.load(strings.TrimSpace(arg))
	case "agents":
		c.agents()
	case "history":
		c.showHistory(ctx)
	case "clear":
		c.clearHistory(ctx)
	default:
		c.ask(ctx, line)
	}
	return false
}

func (c *chat) banner() {
	c.title.Fprintln(c.out, separator)
	c.title.Fprintln(c.out, "🤖 АГЕНТНАЯ СИСТЕМА АНАЛИЗА ФАЙЛОВ")
	c.title.Fprintln(c.out, separator)
	c.info.Fprintln(c.out, "Команды:")
	c.info.Fprintln(c.out, "  load <путь_к_файлу>  - Загрузить файл")
	c.info.Fprintln(c.out, "  agents               - Показать доступных агентов")
	c.info.Fprintln(c.out, "  history              - Показать историю чата")
	c.info.Fprintln(c.out, "  clear                - Очистить историю чата")
	c.info.Fprintln(c.out, "  help                 - Показать эту справку")
	c.info.Fprintln(c.out, "  exit                 - Выйти")
	c.info.Fprintln(c.out, "Любой другой ввод - вопрос по загруженному файлу")
	c.title.Fprintln(c.out, separator)
}

func (c *chat) load(path string) {
	if path == "" {
		c.failure.Fprintln(c.out, "❌ Укажите путь к файлу")
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		c.failure.Fprintf(c.out, "❌ Файл не найден: %s\n", path)
		return
	}
	text, err := filestore.DecodeText(data)
	if err != nil || strings.TrimSpace(text) == "" {
		c.failure.Fprintln(c.out, "❌ Не удалось прочитать содержимое файла")
		return
	}

	c.path = path
	c.content = text
	c.success.Fprintln(c.out, "✅ Файл загружен успешно!")
	c.info.Fprintf(c.out, "   Имя: %s\n", filepath.Base(path))
	c.info.Fprintf(c.out, "   Размер: %d байт\n", len(data))
}

func (c *chat) agents() {
	c.title.Fprintln(c.out, "🤖 Доступные агенты:")
	for _, info := range c.registry.List() {
		mark := "🟢"
		if info.Status != agent.StatusActive {
			mark = "🔴"
		}
		c.info.Fprintf(c.out, "  %s %s (%s): %s\n", mark, info.Name, info.Id, info.Description)
	}
}

func (c *chat) key() history.Key {
	return history.Key{DocumentId: c.path}
}

func (c *chat) showHistory(ctx context.Context) {
	if c.path == "" {
		c.failure.Fprintln(c.out, "❌ Сначала загрузите файл командой load")
		return
	}
	entries, err := c.history.List(ctx, c.key())
	if err != nil {
		c.failure.Fprintf(c.out, "❌ Ошибка: %v\n", err)
		return
	}
	if len(entries) == 0 {
		c.info.Fprintln(c.out, "📝 История чата пуста")
		return
	}
	c.title.Fprintf(c.out, "📝 История чата (%d):\n", len(entries))
	for i, e := range entries {
		c.info.Fprintf(c.out, "%d. [%s] ❓ %s\n", i+1, e.Timestamp.Format("15:04:05"), e.Question)
		c.answer.Fprintf(c.out, "   🤖 [%s]: %s\n", e.Strategy, e.Answer)
	}
}

func (c *chat) clearHistory(ctx context.Context) {
	if c.path == "" {
		c.failure.Fprintln(c.out, "❌ Сначала загрузите файл командой load")
		return
	}
	cleared, err := c.history.Clear(ctx, c.key())
	if err != nil {
		c.failure.Fprintf(c.out, "❌ Ошибка: %v\n", err)
		return
	}
	if cleared {
		c.success.Fprintln(c.out, "✅ История чата очищена")
		return
	}
	c.info.Fprintln(c.out, "📝 История чата уже пуста")
}

func (c *chat) ask(ctx context.Context, question string) {
	if c.path == "" {
		c.failure.Fprintln(c.out, "❌ Сначала загрузите файл командой load")
		return
	}
	entry, ok := c.registry.Default()
	if !ok {
		c.failure.Fprintln(c.out, "❌ Агент по умолчанию не настроен")
		return
	}

	c.info.Fprintln(c.out, "🤔 Обрабатываю вопрос...")
	reply := entry.Process(ctx, agent.Input{
		Content:  c.content,
		Question: question,
		Filename: filepath.Base(c.path),
	})

	_ = c.history.Append(ctx, c.key(), history.Exchange{
		Timestamp: time.Now(),
		Question:  question,
		Answer:    reply,
		Strategy:  entry.Name(),
	})
	c.answer.Fprintf(c.out, "🤖 [%s]: %s\n", entry.Name(), reply)
}

