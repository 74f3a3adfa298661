package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"

	"sevi/avatar"
	"sevi/backend"
	"sevi/config"
	"sevi/format"
	appmodel "sevi/model"
	"sevi/quiz"
	"sevi/ui"
)

const Version = "v0.1.0"

const usageText = `Usage: sevi [-config path] [command] [args]

Commands:
  chat                       open the chat screen (default)
  quiz <page>                open a lecture page (file path or server path)
  ask <text>                 send one chat message and print the reply
  status                     check that the backend is reachable
  use <backend>              switch backend in settings (lms, openai, anthropic, ollama)
  history                    print the server-side chat log
  avatars <male|female>      list the server's avatars
  save-avatar <gender> <n>   save avatar n from the list as your picture
  version                    print the version
`

// app bundles what every command needs.
type app struct {
	cfg     *config.Config
	backend appmodel.Backend
	server  *backend.LMS // nil without a server base URL
	out     io.Writer
}

func main() {
	flags := flag.NewFlagSet("sevi", flag.ExitOnError)
	settingsPath := flags.String("config", config.GetSettingsFilePath(), "path to settings.toml")
	flags.Usage = func() { fmt.Fprint(os.Stderr, usageText) }
	_ = flags.Parse(os.Args[1:])

	cmd, args := "chat", flags.Args()
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	if cmd == "version" {
		fmt.Println("sevi", Version)
		return
	}

	interactive := cmd == "chat" || cmd == "quiz"

	if cmd == "use" {
		if len(args) != 1 {
			usage()
		}
		if err := config.SetBackend(*settingsPath, args[0]); err != nil {
			fail(err)
		}
		color.New(color.FgGreen).Printf("✓ Sevi now answers through the %s backend\n", strings.ToLower(args[0]))
		return
	}

	cfg, err := config.LoadFrom(*settingsPath)
	if err != nil {
		if interactive {
			showError("Configuration Error", err.Error(), "Edit "+*settingsPath+" and start Sevi again.")
			os.Exit(1)
		}
		fail(err)
	}

	config.InitDebugLog(cfg.DataDir())

	a, err := newApp(cfg)
	if err != nil {
		if interactive {
			showError("Backend Error", err.Error(), "Check the [assistant] section of "+*settingsPath+".")
			os.Exit(1)
		}
		fail(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch cmd {
	case "chat":
		err = a.runTUI("")
	case "quiz":
		if len(args) != 1 {
			usage()
		}
		err = a.runTUI(args[0])
	case "ask":
		if len(args) == 0 {
			usage()
		}
		err = a.ask(ctx, strings.Join(args, " "))
	case "status":
		err = a.status(ctx)
	case "history":
		err = a.history(ctx)
	case "avatars":
		if len(args) != 1 {
			usage()
		}
		err = a.avatars(ctx, args[0])
	case "save-avatar":
		if len(args) != 2 {
			usage()
		}
		err = a.saveAvatar(ctx, args[0], args[1])
	default:
		usage()
	}

	if err != nil {
		fail(err)
	}
}

func newApp(cfg *config.Config) (*app, error) {
	b, err := backend.New(cfg)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, backend: b, out: os.Stdout}
	if lms, ok := b.(*backend.LMS); ok {
		a.server = lms
	} else if cfg.BaseURL != "" {
		// Pages and grading still come from the platform when another
		// backend answers the chat.
		a.server, err = backend.NewLMS(cfg.BaseURL, cfg.SessionCookie, cfg.Timeout)
		if err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *app) model() *appmodel.Model {
	var (
		fetcher   quiz.Fetcher
		submitter quiz.Submitter
	)
	if a.server != nil {
		fetcher, submitter = a.server, a.server
	}
	return appmodel.NewModel(a.cfg, a.backend, fetcher, submitter, Version)
}

func (a *app) runTUI(quizSource string) error {
	p := tea.NewProgram(
		ui.NewAppView(a.model(), quizSource),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running sevi: %w", err)
	}
	return nil
}

func (a *app) ask(ctx context.Context, text string) error {
	reply, err := a.backend.SendChat(ctx, text)
	if err != nil {
		return err
	}
	color.New(color.FgCyan, color.Bold).Fprintln(a.out, "Sevi:")
	fmt.Fprintln(a.out, format.Terminal(format.Reply(reply), 0))
	return nil
}

func (a *app) status(ctx context.Context) error {
	if err := backend.Probe(ctx, a.backend); err != nil {
		color.New(color.FgRed, color.Bold).Fprintf(a.out, "✗ %s backend unreachable\n", a.backend.Name())
		return err
	}
	color.New(color.FgGreen).Fprintf(a.out, "✓ %s backend is online\n", a.backend.Name())
	return nil
}

func (a *app) requireServer() error {
	if a.server == nil {
		return fmt.Errorf("no server configured: set [server] base_url or SEVI_BASE_URL")
	}
	return nil
}

func (a *app) history(ctx context.Context) error {
	if err := a.requireServer(); err != nil {
		return err
	}
	entries, err := a.server.History(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		color.New(color.FgYellow).Fprintln(a.out, "No messages yet.")
		return nil
	}

	you := color.New(color.FgGreen, color.Bold)
	sevi := color.New(color.FgCyan, color.Bold)
	for _, e := range entries {
		if e.FromUser() {
			you.Fprint(a.out, "You: ")
		} else {
			sevi.Fprint(a.out, "Sevi: ")
		}
		fmt.Fprintln(a.out, format.PlainText(e.Content))
	}
	return nil
}

func (a *app) avatars(ctx context.Context, gender string) error {
	if err := a.requireServer(); err != nil {
		return err
	}
	picker := avatar.NewPicker(a.server)
	if _, err := picker.Load(ctx, gender); err != nil {
		return err
	}

	blue := color.New(color.FgCyan)
	for i, u := range picker.URLs() {
		blue.Fprintf(a.out, "%3d  ", i+1)
		fmt.Fprintln(a.out, a.server.Resolve(u))
	}
	return nil
}

func (a *app) saveAvatar(ctx context.Context, gender, index string) error {
	if err := a.requireServer(); err != nil {
		return err
	}
	n, err := strconv.Atoi(index)
	if err != nil {
		return fmt.Errorf("avatar number %q is not a number", index)
	}

	picker := avatar.NewPicker(a.server)
	if _, err := picker.Load(ctx, gender); err != nil {
		return err
	}
	if err := picker.Select(n - 1); err != nil {
		return err
	}
	if err := picker.Save(ctx); err != nil {
		return err
	}

	picture, _ := picker.Selected()
	color.New(color.FgGreen).Fprintf(a.out, "✓ Profile picture set to %s\n", picture)
	return nil
}

func showError(title, message, hint string) {
	p := tea.NewProgram(ui.NewErrorModal(title, message, hint), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, usageText)
	os.Exit(2)
}

func fail(err error) {
	color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "✗ %v\n", err)
	os.Exit(1)
}
