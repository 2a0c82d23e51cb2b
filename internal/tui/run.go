package tui

import (
	"errors"

	"agentwindow/internal/message"

	tea "github.com/charmbracelet/bubbletea"
)

// Result 返回 TUI 退出时的对话内容。
type Result struct {
	Messages []message.Message
}

// Run 封装 Bubble Tea 入口。
func Run(opts Options) (Result, error) {
	return RunApp(NewApp(opts), opts.AltScreen)
}

// RunApp runs an already constructed App. Callers that publish onto the bus
// create the App first so its subscription exists before the first event.
func RunApp(app *App, altScreen bool) (Result, error) {
	programOptions := []tea.ProgramOption{tea.WithMouseCellMotion()}
	if altScreen {
		programOptions = append(programOptions, tea.WithAltScreen())
	}
	program := tea.NewProgram(app, programOptions...)
	m, err := program.Run()
	if err != nil {
		return Result{}, err
	}
	final, ok := m.(*App)
	if !ok {
		return Result{}, errors.New("unexpected tui model")
	}
	return Result{Messages: final.Messages()}, nil
}
