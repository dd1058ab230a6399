package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/questd/internal/views"
)

const commandHelpMarkdown = `## Commands

- ` + "`add <title> [at HH:MM] [on mon,wed|daily|weekdays|weekends]`" + `
- ` + "`remind med|water <title> at HH:MM[,HH:MM] [on ...]`" + `
- ` + "`delete <n>`" + ` removes quest n of today
- ` + "`week [offset]`" + `
- ` + "`sync`" + `

Completing a quest earns 10 XP once per day, up to 100.
`

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	var plain []string
	for _, kb := range m.viewBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	global := toKeyBindings(m.globalBindings())
	local := toKeyBindings(m.viewBindings())
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: append(global, local...),
			full:  [][]key.Binding{global, local},
		}),
		Markdown: commandHelpMarkdown,
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Today, Action: "switch to Today"},
		{Key: m.Keys.Week, Action: "switch to Week"},
		{Key: m.Keys.Sync, Action: "sync calendar"},
		{Key: m.Keys.Palette, Action: "open command palette"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) viewBindings() []KeyBinding {
	switch m.CurrentView {
	case ViewToday:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "space", Action: "complete / reopen"},
			{Key: "d", Action: "delete selected"},
		}
	case ViewWeek:
		return []KeyBinding{
			{Key: "h/l", Action: "previous/next week"},
			{Key: "0", Action: "this week"},
		}
	default:
		return []KeyBinding{{Key: "-", Action: "no contextual bindings"}}
	}
}

func toKeyBindings(items []KeyBinding) []key.Binding {
	out := make([]key.Binding, 0, len(items))
	for _, kb := range items {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
