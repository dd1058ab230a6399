package update

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/sandeepkv93/questd/internal/calsync"
	"github.com/sandeepkv93/questd/internal/scheduler"
	"github.com/sandeepkv93/questd/internal/store"
)

type View string

const (
	ViewToday View = "Today"
	ViewWeek  View = "Week"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Today   string
	Week    string
	Sync    string
	Palette string
	Help    string
	Quit    string
}

// Syncer imports calendar events into the store.
type Syncer interface {
	Sync(ctx context.Context, now time.Time) (calsync.Result, error)
}

type Deps struct {
	Store                *store.Store
	Syncer               Syncer
	Scheduler            *scheduler.Engine
	Notifier             DesktopNotifier
	DesktopNotifications bool
	SyncInterval         time.Duration
	Clock                func() time.Time
	Logger               *slog.Logger
}

type Model struct {
	CurrentView    View
	SelectedTaskID string
	Today          TodayState
	Week           WeekState
	Palette        CommandPaletteState
	HelpVisible    bool
	ReminderLog    []scheduler.ReminderEvent
	Notifications  []Notification
	DesktopEnabled bool
	Syncing        bool
	LastSync       calsync.Result
	Status         StatusBar
	Keys           GlobalKeyMap
	Quitting       bool
	LastError      error

	store        *store.Store
	syncer       Syncer
	scheduler    *scheduler.Engine
	notifier     DesktopNotifier
	syncInterval time.Duration
	clock        func() time.Time
	logger       *slog.Logger

	commandInput textinput.Model
	syncSpinner  spinner.Model
	xpProgress   progress.Model
	helpModel    help.Model
}

type TodayState struct {
	Cursor int
}

type WeekState struct {
	Offset int
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type DesktopNotifier interface {
	Send(Notification) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(Notification) error { return nil }

type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type AppErrorMsg struct {
	Err error
}

type ReminderDueMsg struct {
	Event scheduler.ReminderEvent
}

// SyncTickMsg asks for a calendar sync; the throttle decides whether it runs.
type SyncTickMsg struct{}

type SyncDoneMsg struct {
	Result calsync.Result
	Err    error
}

func NewModel(deps Deps) Model {
	m := Model{
		CurrentView:    ViewToday,
		DesktopEnabled: deps.DesktopNotifications,
		store:          deps.Store,
		syncer:         deps.Syncer,
		scheduler:      deps.Scheduler,
		notifier:       deps.Notifier,
		syncInterval:   deps.SyncInterval,
		clock:          deps.Clock,
		logger:         deps.Logger,
		Keys: GlobalKeyMap{
			Today:   "t",
			Week:    "w",
			Sync:    "s",
			Palette: "/",
			Help:    "?",
			Quit:    "q",
		},
	}
	if m.store == nil {
		m.store = store.New()
	}
	if m.notifier == nil {
		m.notifier = NoopDesktopNotifier{}
	}
	if m.syncInterval <= 0 {
		m.syncInterval = calsync.DefaultInterval
	}
	if m.clock == nil {
		m.clock = time.Now
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	m.initBubbleComponents()
	return m
}

func (m *Model) initBubbleComponents() {
	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.Placeholder = "add Stretch at 07:30 on mon,wed"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.syncSpinner = spinner.New()
	m.syncSpinner.Spinner = spinner.Dot

	m.xpProgress = progress.New(progress.WithDefaultGradient(), progress.WithWidth(24), progress.WithoutPercentage())

	m.helpModel = help.New()
	m.helpModel.ShowAll = true
}

func (m Model) now() time.Time {
	return m.clock()
}
