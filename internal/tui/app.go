package tui

import (
	"fmt"
	"slices"
	"strings"

	"agentwindow/internal/config"
	"agentwindow/internal/events"
	"agentwindow/internal/history"
	"agentwindow/internal/logger"
	"agentwindow/internal/message"
	"agentwindow/internal/tui/render"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// Options 配置根模型。
type Options struct {
	Config    config.Config
	ClassName string
	// Bus 为 nil 时窗口只显示 Messages。
	Bus      *events.Bus
	Messages []message.Message
	// Clipboard 默认写入系统剪贴板。
	Clipboard func(string) error
	// History 为 nil 时搜索历史只保存在内存中。
	History   *history.Store
	AltScreen bool
}

type busEventMsg struct {
	Event events.Event
}

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D7A85")).Padding(0, 1)
	doneStyle   = lipgloss.NewStyle().Faint(true)
)

// App 是持有消息状态的父组件：订阅事件流、追加消息，并把切片交给 ChatWindow。
type App struct {
	window    *ChatWindow
	messages  []message.Message
	sub       <-chan events.Event
	runID     string
	keys      keyMap
	help      help.Model
	search    textinput.Model
	searching bool
	history   searchHistory
	store     *history.Store
	run       *RunStatus
	status    string
	copyFn    func(string) error
	log       *logger.LogEntry
}

// NewApp 创建根模型。
func NewApp(opts Options) *App {
	log := logger.Named("app")
	copyFn := opts.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "search transcript"

	a := &App{
		messages: slices.Clip(opts.Messages),
		keys:     defaultKeyMap(),
		help:     help.New(),
		search:   ti,
		run:      NewRunStatus(opts.Config.Animations, nil),
		store:    opts.History,
		copyFn:   copyFn,
		log:      log,
	}
	if a.store != nil {
		queries, err := a.store.LoadQueries()
		if err != nil {
			log.WithError(err).Warn("load search history failed")
		}
		a.history.Set(queries)
	}
	a.window = NewChatWindow(ChatWindowOptions{
		Messages:  a.messages,
		ClassName: opts.ClassName,
		Config:    opts.Config,
		Log:       logger.Named("window"),
	})
	if opts.Bus != nil {
		a.sub = opts.Bus.Subscribe()
	}
	return a
}

func (a *App) Init() tea.Cmd {
	return a.listen()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.help.Width = msg.Width
		return a, a.window.SetSize(msg.Width, msg.Height-a.chromeHeight())
	case busEventMsg:
		cmd := a.handleEvent(msg.Event)
		return a, tea.Batch(cmd, a.listen())
	case tea.KeyMsg:
		if a.searching {
			return a, a.updateSearch(msg)
		}
		switch {
		case key.Matches(msg, a.keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, a.keys.Help):
			a.help.ShowAll = !a.help.ShowAll
			return a, nil
		case key.Matches(msg, a.keys.Search):
			a.searching = true
			a.search.Reset()
			return a, a.search.Focus()
		case key.Matches(msg, a.keys.Copy):
			a.copyTranscript()
			return a, nil
		}
	}
	return a, a.window.Update(msg)
}

func (a *App) View() string {
	bottom := a.status
	if run := render.LinesToStrings(render.RenderLines(a.run, a.window.innerWidth())); len(run) > 0 {
		bottom = strings.TrimSpace(run[0] + "  " + bottom)
	}
	bottom = statusStyle.Render(bottom)
	if a.searching {
		bottom = statusStyle.Render(a.search.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, a.window.View(), bottom, a.help.View(a.keys))
}

// Messages returns the transcript accumulated so far.
func (a *App) Messages() []message.Message {
	return slices.Clone(a.messages)
}

// Window exposes the chat window component.
func (a *App) Window() *ChatWindow {
	return a.window
}

func (a *App) chromeHeight() int {
	// 状态行 + 帮助（短帮助 1 行，完整帮助按列数）。
	return 1 + lipgloss.Height(a.help.View(a.keys))
}

func (a *App) listen() tea.Cmd {
	if a.sub == nil {
		return nil
	}
	sub := a.sub
	return func() tea.Msg {
		evt, ok := <-sub
		if !ok {
			return nil
		}
		return busEventMsg{Event: evt}
	}
}

func (a *App) handleEvent(evt events.Event) tea.Cmd {
	switch evt.Kind {
	case events.KindReset:
		a.runID = evt.RunID
		a.messages = nil
		a.status = ""
		a.run.Start(evt.RunID)
		return tea.Batch(a.window.SetChildren(nil), a.window.SetMessages(a.messages))
	case events.KindMessage:
		if evt.RunID != "" && a.runID != "" && evt.RunID != a.runID {
			a.log.WithField("run", evt.RunID).Debug("dropping message from stale run")
			return nil
		}
		// Clip 保证 append 产生新的底层数组，窗口据此识别依赖变化。
		a.messages = append(slices.Clip(a.messages), evt.Message)
		a.run.Append()
		return a.window.SetMessages(a.messages)
	case events.KindDone:
		a.run.Finish()
		note := fmt.Sprintf("— run finished · %d messages —", len(a.messages))
		return a.window.SetChildren(render.NewInset(
			render.PlainTextRenderable{Text: note, Style: doneStyle},
			render.VH(0, 2),
		))
	}
	return nil
}

func (a *App) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		a.searching = false
		a.search.Blur()
		a.history.ResetBrowsing()
		return nil
	case tea.KeyEnter:
		a.searching = false
		a.search.Blur()
		a.recordSearch(a.search.Value(), a.runSearch(a.search.Value()))
		return nil
	case tea.KeyUp:
		if query, ok := a.history.Prev(a.search.Value()); ok {
			a.search.SetValue(query)
			a.search.CursorEnd()
		}
		return nil
	case tea.KeyDown:
		if query, ok := a.history.Next(); ok {
			a.search.SetValue(query)
			a.search.CursorEnd()
		}
		return nil
	}
	var cmd tea.Cmd
	a.search, cmd = a.search.Update(msg)
	return cmd
}

func (a *App) recordSearch(query string, matches int) {
	a.history.Add(query)
	if a.store == nil || strings.TrimSpace(query) == "" {
		return
	}
	if err := a.store.Append(query, matches); err != nil {
		a.log.WithError(err).Warn("save search history failed")
	}
}

// runSearch 跳到最佳匹配的消息，返回匹配数。
func (a *App) runSearch(query string) int {
	query = strings.TrimSpace(query)
	if query == "" {
		a.status = ""
		return 0
	}
	texts := make([]string, 0, len(a.messages))
	for _, msg := range a.messages {
		texts = append(texts, render.NewChatMessage(msg).Plain())
	}
	matches := fuzzy.Find(query, texts)
	if len(matches) == 0 {
		a.status = fmt.Sprintf("no match for %q", query)
		return 0
	}
	best := matches[0]
	a.window.ScrollToMessage(best.Index)
	a.status = fmt.Sprintf("match 1/%d: %s", len(matches), message.Key(best.Index, a.messages[best.Index]))
	return len(matches)
}

func (a *App) copyTranscript() {
	if err := a.copyFn(a.window.PlainText()); err != nil {
		a.log.WithError(err).Warn("copy transcript failed")
		a.status = fmt.Sprintf("copy failed: %v", err)
		return
	}
	a.status = fmt.Sprintf("copied %d messages", len(a.messages))
}
