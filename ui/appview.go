package ui

import (
	"fmt"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sevi/config"
	appmodel "sevi/model"
)

type screen int

const (
	screenChat screen = iota
	screenQuiz
)

// changeFlags are raised by data-layer callbacks, which may run off the UI
// goroutine, and consumed in Update.
type changeFlags struct {
	transcript atomic.Bool
	help       atomic.Pointer[string] // id of the last help slot that changed
}

type AppView struct {
	// Reference to core data model
	dataModel *appmodel.Model
	keys      *config.KeyBindingsConfig
	changes   *changeFlags

	// UI Components
	viewport       viewport.Model
	textarea       textarea.Model
	loadingSpinner spinner.Model

	// Window state
	width  int
	height int
	ready  bool
	screen screen

	showHelp bool

	// Acknowledge modal (load errors and the like)
	ackTitle   string
	ackMessage string

	// One-line status under the input, cleared by FlashTickMsg
	flash string

	backendStatus string

	quiz quizState

	// Source handed to Init for the first quiz load
	startQuiz string
}

// NewAppView builds the TUI around dataModel. A non-empty quizSource is
// loaded on start and opens the quiz screen.
func NewAppView(dataModel *appmodel.Model, quizSource string) AppView {
	keys := dataModel.Config.Keybindings
	if keys == nil {
		keys = config.DefaultKeybindings()
	}

	ta := textarea.New()
	ta.Placeholder = "Ask Sevi anything about your lessons..."
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(80)

	// Enter sends; Alt+Enter breaks the line
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))

	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "| "
	})

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = AssistantStyle

	changes := &changeFlags{}
	changes.transcript.Store(true)
	dataModel.Chat.Transcript().OnChange(func() { changes.transcript.Store(true) })
	dataModel.Help.OnUpdate(func(id string) { changes.help.Store(&id) })

	a := AppView{
		dataModel:      dataModel,
		keys:           keys,
		changes:        changes,
		viewport:       viewport.New(0, 0),
		textarea:       ta,
		loadingSpinner: sp,
		quiz:           newQuizState(),
		startQuiz:      quizSource,
	}
	if quizSource != "" {
		a.screen = screenQuiz
		a.quiz.loading = true
		a.textarea.Blur()
	}
	return a
}

func (a AppView) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textarea.Blink,
		a.loadingSpinner.Tick,
		a.dataModel.CheckBackend(),
	}
	if a.startQuiz != "" {
		cmds = append(cmds, a.dataModel.LoadQuiz(a.startQuiz))
	}
	return tea.Batch(cmds...)
}

func (a AppView) View() string {
	if !a.ready {
		return "Loading Sevi..."
	}

	if a.ackTitle != "" {
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
			renderModal(a.ackTitle, a.ackMessage, "", "Press Enter to acknowledge", a.width, warningColor))
	}

	if a.showHelp {
		return renderHelpModal(a.keys, a.dataModel.Version, a.width, a.height)
	}

	if a.screen == screenQuiz {
		return a.renderQuizScreen()
	}

	title := AssistantStyle.Render("Sevi") + TitleStyle.Render(" - Chat") + a.titleStatus()

	descStyle := lipgloss.NewStyle().Foreground(successColor).Bold(true)
	statusBar := fmt.Sprintf("%s %s  %s %s  %s %s  Enter %s  %s %s",
		a.keys.DisplayActionKey("quit"), descStyle.Render("Quit"),
		a.keys.DisplayActionKey("new_chat"), descStyle.Render("New chat"),
		a.keys.DisplayActionKey("yank_last_response"), descStyle.Render("Copy"),
		descStyle.Render("Send"),
		a.keys.DisplayActionKey("help"), descStyle.Render("Help"),
	)
	if a.flash != "" {
		statusBar = HighlightStyle.Render(a.flash)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		a.viewport.View(),
		a.textarea.View(),
		StatusStyle.Render(statusBar),
	)
}

// titleStatus is the backend indicator shared by both screens.
func (a AppView) titleStatus() string {
	name := a.dataModel.Backend.Name()
	if a.backendStatus != "" {
		return DimStyle.Render(fmt.Sprintf(" | %s: %s", name, a.backendStatus))
	}
	return DimStyle.Render(" | " + name)
}
