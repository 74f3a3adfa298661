package ui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"sevi/chat"
	"sevi/config"
	"sevi/format"
	appmodel "sevi/model"
)

const flashDuration = 2 * time.Second

func flashCmd() tea.Cmd {
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return appmodel.FlashTickMsg{}
	})
}

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

		// title, blank line, 3-line textarea, status bar
		a.viewport.Width = a.width
		a.viewport.Height = max(a.height-6, 1)
		a.textarea.SetWidth(a.width)
		a.quiz.resize(a.width)

		a.ready = true
		a.changes.transcript.Store(false)
		a.updateViewportContent(true)
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.loadingSpinner, cmd = a.loadingSpinner.Update(msg)
		if a.ready && a.dataModel.Chat.Transcript().HasLoader() {
			a.updateViewportContent(false)
		}
		return a, cmd

	case appmodel.ChatReplyMsg:
		if a.dataModel.ApplyChatReply(msg) && a.screen == screenChat {
			cmds = append(cmds, a.textarea.Focus())
		}

	case appmodel.HelpDoneMsg:
		if config.DebugLog != nil {
			config.DebugLog.Printf("[UI] help slot %s settled", msg.ID)
		}

	case appmodel.QuizLoadedMsg:
		a.quiz.loading = false
		if err := a.dataModel.ApplyQuiz(msg); err != nil {
			a.ackTitle = "Could not load the lecture"
			a.ackMessage = err.Error()
			break
		}
		a.quiz.reset(a.dataModel.Quiz)
		a.screen = screenQuiz
		a.textarea.Blur()

	case appmodel.QuizSubmittedMsg:
		a.quiz.submitting = false
		a.dataModel.ApplyQuizResult(msg)
		a.quiz.setResult(a.dataModel.LastResult, msg.Err)

	case appmodel.BackendStatusMsg:
		if msg.Err != nil {
			a.backendStatus = "offline"
			if config.DebugLog != nil {
				config.DebugLog.Printf("[UI] backend %s unreachable: %v", msg.Name, msg.Err)
			}
		} else {
			a.backendStatus = "online"
		}

	case appmodel.FlashTickMsg:
		a.flash = ""

	case tea.KeyMsg:
		updated, cmd := a.handleKey(msg)
		next := updated.(AppView)
		sync := next.syncChanges()
		return next, tea.Batch(cmd, sync)

	default:
		var cmd tea.Cmd
		a.textarea, cmd = a.textarea.Update(msg)
		cmds = append(cmds, cmd)
		a.quiz.filter, cmd = a.quiz.filter.Update(msg)
		cmds = append(cmds, cmd)
		a.quiz.answer, cmd = a.quiz.answer.Update(msg)
		cmds = append(cmds, cmd)
	}

	cmds = append(cmds, a.syncChanges())
	return a, tea.Batch(cmds...)
}

// syncChanges consumes the flags raised by the data-layer callbacks.
func (a *AppView) syncChanges() tea.Cmd {
	if a.ready && a.changes.transcript.Swap(false) {
		a.updateViewportContent(true)
	}

	id := a.changes.help.Swap(nil)
	if id == nil {
		return nil
	}
	slot, ok := a.dataModel.Help.Slot(*id)
	if !ok || !slot.Visible || slot.Pending {
		return nil
	}
	if cur, ok := a.quiz.current(); a.screen == screenQuiz && ok && cur == *id {
		return nil
	}
	a.flash = fmt.Sprintf("Sevi answered question %s", *id)
	return flashCmd()
}

func (a AppView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()

	if k == "ctrl+c" {
		a.dataModel.Quitting = true
		return a, tea.Quit
	}

	if a.ackTitle != "" {
		if k == "enter" || k == "esc" {
			a.ackTitle, a.ackMessage = "", ""
		}
		return a, nil
	}

	if a.showHelp {
		if k == "esc" || k == a.keys.GetActionKey("help") {
			a.showHelp = false
		}
		return a, nil
	}

	switch k {
	case a.keys.GetActionKey("quit"):
		a.dataModel.Quitting = true
		return a, tea.Quit

	case a.keys.GetActionKey("help"):
		a.showHelp = true
		return a, nil

	case a.keys.GetActionKey("switch_view"):
		if a.quiz.capturing() {
			break
		}
		if a.screen == screenChat {
			a.screen = screenQuiz
			a.textarea.Blur()
			return a, nil
		}
		a.screen = screenChat
		if a.dataModel.Chat.InputEnabled() {
			return a, a.textarea.Focus()
		}
		return a, nil

	case a.keys.GetActionKey("new_chat"):
		a.dataModel.NewChat()
		a.textarea.Reset()
		if a.screen == screenChat {
			return a, a.textarea.Focus()
		}
		return a, nil
	}

	if a.screen == screenQuiz {
		return a.handleQuizKey(msg)
	}
	return a.handleChatKey(msg)
}

func (a AppView) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if !a.dataModel.Chat.InputEnabled() {
			return a, nil
		}
		input := a.textarea.Value()
		cmd := a.dataModel.SendChat(input)
		if cmd == nil {
			if n := utf8.RuneCountInString(strings.TrimSpace(input)); n > chat.MaxInputLength {
				a.flash = fmt.Sprintf("Message is %d characters; the limit is %d", n, chat.MaxInputLength)
				return a, flashCmd()
			}
			return a, nil
		}
		a.textarea.Reset()
		a.textarea.Blur()
		return a, cmd

	case a.keys.GetActionKey("yank_last_response"):
		body, ok := a.dataModel.Chat.LastReply()
		if !ok {
			return a, nil
		}
		if err := clipboard.WriteAll(format.PlainText(body)); err != nil {
			a.flash = "Copy failed: " + err.Error()
		} else {
			a.flash = "Copied Sevi's last reply"
		}
		return a, flashCmd()

	case a.keys.GetActionKey("scroll_down"), "pgdown":
		a.viewport.HalfPageDown()
		return a, nil

	case a.keys.GetActionKey("scroll_up"), "pgup":
		a.viewport.HalfPageUp()
		return a, nil

	case a.keys.GetActionKey("scroll_to_top"):
		a.viewport.GotoTop()
		return a, nil

	case a.keys.GetActionKey("scroll_to_bottom"):
		a.viewport.GotoBottom()
		return a, nil
	}

	if !a.dataModel.Chat.InputEnabled() {
		return a, nil
	}
	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	return a, cmd
}
