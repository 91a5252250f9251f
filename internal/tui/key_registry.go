package tui

import (
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// KeyHandler reacts to a key press on the board.
type KeyHandler func(m BoardModel) (BoardModel, tea.Cmd)

type KeyBinding struct {
	Keys        []string
	Handler     KeyHandler
	Description string
	Priority    int
}

type HandlerRegistry struct {
	bindings []KeyBinding
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{}
}

func (r *HandlerRegistry) Register(b KeyBinding) {
	r.bindings = append(r.bindings, b)
	sort.SliceStable(r.bindings, func(i, j int) bool {
		return r.bindings[i].Priority > r.bindings[j].Priority
	})
}

func (r *HandlerRegistry) Handle(m BoardModel, key string) (BoardModel, tea.Cmd, bool) {
	for _, b := range r.bindings {
		for _, k := range b.Keys {
			if k == key {
				next, cmd := b.Handler(m)
				return next, cmd, true
			}
		}
	}
	return m, nil, false
}

// Help renders "[key]description" pairs in priority order.
func (r *HandlerRegistry) Help() string {
	var parts []string
	for _, b := range r.bindings {
		if b.Description == "" || len(b.Keys) == 0 {
			continue
		}
		parts = append(parts, "["+b.Keys[0]+"]"+b.Description)
	}
	return strings.Join(parts, " | ")
}

func defaultBindings() *HandlerRegistry {
	r := NewHandlerRegistry()
	r.Register(KeyBinding{
		Keys:        []string{"q", "ctrl+c", "esc"},
		Description: "quit",
		Priority:    100,
		Handler: func(m BoardModel) (BoardModel, tea.Cmd) {
			return m, tea.Quit
		},
	})
	r.Register(KeyBinding{
		Keys:        []string{"r"},
		Description: "refresh",
		Priority:    50,
		Handler: func(m BoardModel) (BoardModel, tea.Cmd) {
			return m, m.load()
		},
	})
	r.Register(KeyBinding{
		Keys:        []string{"left", "h"},
		Description: "prev column",
		Priority:    10,
		Handler: func(m BoardModel) (BoardModel, tea.Cmd) {
			m.moveFocus(-1)
			return m, nil
		},
	})
	r.Register(KeyBinding{
		Keys:        []string{"right", "l"},
		Description: "next column",
		Priority:    10,
		Handler: func(m BoardModel) (BoardModel, tea.Cmd) {
			m.moveFocus(1)
			return m, nil
		},
	})
	return r
}
