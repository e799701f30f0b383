package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title  lipgloss.Style
	help   lipgloss.Style
	err    lipgloss.Style
	ok     lipgloss.Style
	tab    lipgloss.Style
	active lipgloss.Style
	field  lipgloss.Style
}

func newStyles(dark bool) styles {
	fg, dim, accent := lipgloss.Color("15"), lipgloss.Color("8"), lipgloss.Color("10")
	if !dark {
		fg, dim, accent = lipgloss.Color("0"), lipgloss.Color("244"), lipgloss.Color("28")
	}
	return styles{
		title:  lipgloss.NewStyle().Bold(true).Foreground(accent),
		help:   lipgloss.NewStyle().Foreground(dim),
		err:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		ok:     lipgloss.NewStyle().Foreground(accent),
		tab:    lipgloss.NewStyle().Padding(0, 1).Foreground(dim),
		active: lipgloss.NewStyle().Padding(0, 1).Bold(true).Underline(true).Foreground(fg),
		field:  lipgloss.NewStyle().Bold(true).Foreground(fg).Border(lipgloss.RoundedBorder()).BorderForeground(dim).Padding(0, 2),
	}
}

func (m model) View() string {
	st := newStyles(m.dark)
	var b strings.Builder
	b.WriteString(st.title.Render(appTitle) + "  " + m.tabBar(st) + "\n")
	switch {
	case m.lastErr != nil:
		b.WriteString(st.err.Render("Error: "+m.lastErr.Error()) + "\n")
	case m.infoLine != "":
		b.WriteString(st.ok.Render(m.infoLine) + "\n")
	default:
		b.WriteString("\n")
	}

	if m.tab == tabConfig {
		b.WriteString(m.viewConfig(st))
		b.WriteString(st.help.Render(m.help.ShortHelpView(m.keys.configHelp())))
		return b.String()
	}
	b.WriteString(m.viewData(st))
	b.WriteString(st.help.Render(m.help.ShortHelpView(m.keys.dataHelp())))
	return b.String()
}

func (m model) tabBar(st styles) string {
	cfg, data := st.tab.Render("Config"), st.tab.Render("Data")
	if m.tab == tabConfig {
		cfg = st.active.Render("Config")
	} else {
		data = st.active.Render("Data")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cfg, data)
}

func (m model) viewData(st styles) string {
	var b strings.Builder
	b.WriteString(st.field.Render(m.lineOutput) + "\n")
	if s := m.window.Stats(); s.N > 0 {
		b.WriteString(st.help.Render(fmt.Sprintf("last %d: mean %.1f  sd %.1f  min %g  max %g",
			s.N, s.Mean, s.StdDev, s.Min, s.Max)) + "\n")
	} else {
		b.WriteString("\n")
	}
	b.WriteString(m.history.View() + "\n")
	return b.String()
}

func (m model) viewConfig(st styles) string {
	ports := make([]string, 0, len(m.ports))
	for i, p := range m.ports {
		ports = append(ports, listItem(p, i == m.portCursor && m.focus == focusPorts, p == m.serialPort))
	}
	if len(ports) == 0 {
		ports = append(ports, st.help.Render("(no ports found)"))
	}
	bauds := make([]string, 0, len(baudRates))
	for i, r := range baudRates {
		bauds = append(bauds, listItem(fmt.Sprint(r), i == m.baudCursor && m.focus == focusBaud, r == m.baudRate))
	}

	portCol := st.title.Render("Serial Port") + "\n" + strings.Join(ports, "\n")
	baudCol := st.title.Render("Baud Rate") + "\n" + strings.Join(bauds, "\n")
	cols := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().PaddingRight(4).Render(portCol), baudCol)
	return cols + "\n\n" + st.help.Render("Press Enter to apply. The UI restarts with the new settings.") + "\n"
}

func listItem(label string, cursor, current bool) string {
	c, mark := " ", " "
	if cursor {
		c = ">"
	}
	if current {
		mark = "*"
	}
	return fmt.Sprintf("%s %s %s", c, mark, label)
}
