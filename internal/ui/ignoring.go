package ui

import (
	"context"
	"fmt"

	"ignorebtc/internal/view"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const scrollStep = 8

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

// IgnoringModel shows a view and lets the user scroll the detail table and
// pick a link. The terminal size is observed through tea.WindowSizeMsg.
type IgnoringModel struct {
	view     view.View
	layout   view.Layout
	viewport view.Viewport
	links    []view.LinkRef
	offset   int
	cursor   int
	selected string
}

func NewIgnoringModel(v view.View, layout view.Layout) IgnoringModel {
	m := IgnoringModel{view: v, layout: layout}
	if r, ok := v.(view.Report); ok {
		m.links = r.Links()
	}
	return m
}

func (m IgnoringModel) Init() tea.Cmd {
	return nil
}

func (m IgnoringModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport = view.Viewport{Width: msg.Width, Height: msg.Height}
		m.offset = m.clampOffset(m.offset)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "left", "h":
			m.offset = m.clampOffset(m.offset - scrollStep)
		case "right", "l":
			m.offset = m.clampOffset(m.offset + scrollStep)
		case "tab":
			if len(m.links) > 0 {
				m.cursor = (m.cursor + 1) % len(m.links)
			}
		case "shift+tab":
			if len(m.links) > 0 {
				m.cursor = (m.cursor - 1 + len(m.links)) % len(m.links)
			}
		case "enter":
			if len(m.links) > 0 {
				m.selected = m.links[m.cursor].Path
				return m, tea.Quit
			}
		}
	}

	return m, nil
}

func (m IgnoringModel) View() string {
	cursor := -1
	if len(m.links) > 0 {
		cursor = m.cursor
	}
	body := Render(m.view, RenderOptions{
		Width:  m.ContainerWidth(),
		Offset: m.offset,
		Cursor: cursor,
	})

	help := "Press 'q' to quit"
	if len(m.links) > 0 {
		help = "←/→ scroll • tab select link • enter open • q quit"
	}
	return body + "\n\n" + helpStyle.Render(help)
}

// ContainerWidth is the width currently available to the detail table.
func (m IgnoringModel) ContainerWidth() int {
	return m.layout.ContainerWidth(m.viewport)
}

// Selected is the path of the link chosen with enter, if any.
func (m IgnoringModel) Selected() string {
	return m.selected
}

func (m IgnoringModel) Offset() int {
	return m.offset
}

func (m IgnoringModel) clampOffset(offset int) int {
	r, ok := m.view.(view.Report)
	if !ok {
		return 0
	}
	limit := DetailWidth(r) - m.ContainerWidth()
	if offset > limit {
		offset = limit
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

// RunIgnoringUI shows v until the user quits and returns the selected route.
// Without a terminal the view is printed once, clipped to width when width is
// positive.
func RunIgnoringUI(ctx context.Context, v view.View, layout view.Layout, width int) (string, error) {
	if !isInteractiveTerminal() {
		opts := RenderOptions{Width: -1, Cursor: -1}
		if width > 0 {
			opts.Width = layout.ContainerWidth(view.Viewport{Width: width})
		}
		if out := Render(v, opts); out != "" {
			fmt.Println(out)
		}
		return "", nil
	}

	p := tea.NewProgram(NewIgnoringModel(v, layout), tea.WithAltScreen(), tea.WithContext(ctx))

	final, err := p.Run()
	if err != nil {
		return "", err
	}
	if m, ok := final.(IgnoringModel); ok {
		return m.Selected(), nil
	}
	return "", nil
}
