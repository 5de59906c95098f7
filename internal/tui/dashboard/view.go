package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/clubdash/internal/output"
	"github.com/marcus/clubdash/internal/people"
)

// renderView renders the complete TUI view
func (m Model) renderView() string {
	if m.Width == 0 || m.Height == 0 {
		return "Loading..."
	}

	// Handle small terminal sizes gracefully
	if m.Width < MinWidth || m.Height < MinHeight {
		return m.renderCompact()
	}

	if m.Viewer == nil {
		return m.renderSignedOut()
	}

	if m.ShowHelp {
		return m.renderHelp()
	}

	// Two rows of two panels + search line + footer
	availableHeight := m.Height - 4
	topHeight := availableHeight / 2
	bottomHeight := availableHeight - topHeight
	halfWidth := m.Width / 2

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderPeoplePanel(halfWidth, topHeight),
		m.renderRequestsPanel(m.Width-halfWidth, topHeight),
	)
	bottom := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderFriendsPanel(halfWidth, bottomHeight),
		m.renderNewsPanel(m.Width-halfWidth, bottomHeight),
	)

	base := lipgloss.JoinVertical(lipgloss.Left, m.renderSearchLine(), top, bottom, m.renderFooter())

	if m.ConfirmRemove != nil {
		modal := confirmStyle.Render(fmt.Sprintf("Remove %s from your friends?\n\ny: remove  n: cancel", m.ConfirmRemove.FullName()))
		return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, modal,
			lipgloss.WithWhitespaceChars(" "),
			lipgloss.WithWhitespaceForeground(lipgloss.Color("0")))
	}

	return base
}

// renderCompact renders a minimal view for small terminals
func (m Model) renderCompact() string {
	var s strings.Builder

	s.WriteString("clubdash (resize for full view)\n\n")
	if m.Viewer != nil {
		s.WriteString(fmt.Sprintf("Signed in: %s\n", m.Viewer.FullName()))
	}
	s.WriteString(fmt.Sprintf("People: %d | Requests: %d | Friends: %d | News: %d\n",
		len(m.People), len(m.PendingRequests()), len(m.Friended), len(m.News)))
	s.WriteString("\nq:quit r:refresh ?:help")

	return s.String()
}

func (m Model) renderSignedOut() string {
	msg := titleStyle.Render("Not signed in") + "\n\n" +
		subtleStyle.Render("Run `clubdash auth login` in another terminal; this view updates when you do.") +
		"\n\n" + helpStyle.Render("q:quit")
	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, msg)
}

func (m Model) renderSearchLine() string {
	if m.Searching || m.SearchInput.Value() != "" {
		return " / " + m.SearchInput.View()
	}
	return " " + subtleStyle.Render("press / to search people")
}

// renderPeoplePanel renders the directory with relationship labels (Panel 1)
func (m Model) renderPeoplePanel(width, height int) string {
	var content strings.Builder
	rows := m.VisiblePeople()

	if len(rows) == 0 {
		content.WriteString(subtleStyle.Render("No matching people"))
	} else {
		cursor := m.Cursor[PanelPeople]
		offset := scrollOffset(cursor, height-3)
		visible := m.visibleItems(len(rows), offset, height-3)
		for i := offset; i < offset+visible; i++ {
			u := rows[i]
			rel := people.LabelFor(m.Friends, m.Pending, u.ID)
			line := fmt.Sprintf("%s  %s", u.FullName(), formatRelation(rel))
			if m.ActivePanel == PanelPeople && cursor == i {
				line = selectedRowStyle.Render("> ") + line
			} else {
				line = "  " + line
			}
			content.WriteString(line)
			content.WriteString("\n")
		}
	}

	title := fmt.Sprintf("PEOPLE (%d)", len(rows))
	return m.wrapPanel(title, content.String(), width, height, PanelPeople)
}

// renderRequestsPanel renders received requests awaiting an answer (Panel 2)
func (m Model) renderRequestsPanel(width, height int) string {
	var content strings.Builder
	rows := m.PendingRequests()

	if len(rows) == 0 {
		content.WriteString(subtleStyle.Render("No pending requests"))
	} else {
		cursor := m.Cursor[PanelRequests]
		offset := scrollOffset(cursor, height-3)
		visible := m.visibleItems(len(rows), offset, height-3)
		for i := offset; i < offset+visible; i++ {
			r := rows[i]
			line := fmt.Sprintf("%s  %s", r.SenderName, timestampStyle.Render(output.FormatTimeAgo(r.CreatedAt)))
			if m.ActivePanel == PanelRequests && cursor == i {
				line = selectedRowStyle.Render("> ") + line
			} else {
				line = "  " + line
			}
			content.WriteString(line)
			content.WriteString("\n")
		}
	}

	title := fmt.Sprintf("REQUESTS (%d)", len(rows))
	return m.wrapPanel(title, content.String(), width, height, PanelRequests)
}

// renderFriendsPanel renders the friend list (Panel 3)
func (m Model) renderFriendsPanel(width, height int) string {
	var content strings.Builder

	if len(m.Friended) == 0 {
		content.WriteString(subtleStyle.Render("No friends yet"))
	} else {
		cursor := m.Cursor[PanelFriends]
		offset := scrollOffset(cursor, height-3)
		visible := m.visibleItems(len(m.Friended), offset, height-3)
		for i := offset; i < offset+visible; i++ {
			f := m.Friended[i]
			line := f.FullName()
			if f.Email != "" {
				line += "  " + subtleStyle.Render(f.Email)
			}
			if m.ActivePanel == PanelFriends && cursor == i {
				line = selectedRowStyle.Render("> ") + line
			} else {
				line = "  " + line
			}
			content.WriteString(line)
			content.WriteString("\n")
		}
	}

	title := fmt.Sprintf("FRIENDS (%d)", len(m.Friended))
	return m.wrapPanel(title, content.String(), width, height, PanelFriends)
}

// renderNewsPanel renders latest news (Panel 4)
func (m Model) renderNewsPanel(width, height int) string {
	var content strings.Builder

	if len(m.News) == 0 {
		content.WriteString(subtleStyle.Render("No news"))
	} else {
		cursor := m.Cursor[PanelNews]
		offset := scrollOffset(cursor, height-3)
		visible := m.visibleItems(len(m.News), offset, height-3)
		for i := offset; i < offset+visible; i++ {
			n := m.News[i]
			line := n.Title
			if !n.CreatedAt.IsZero() {
				line += "  " + timestampStyle.Render(output.FormatTimeAgo(n.CreatedAt))
			}
			if m.ActivePanel == PanelNews && cursor == i {
				line = selectedRowStyle.Render("> ") + line
			} else {
				line = "  " + line
			}
			content.WriteString(line)
			content.WriteString("\n")
		}
	}

	return m.wrapPanel("NEWS", content.String(), width, height, PanelNews)
}

func (m Model) renderFooter() string {
	keys := helpStyle.Render(m.footerKeys())

	var status string
	switch {
	case m.Err != nil:
		status = errorStyle.Render(" " + m.Err.Error() + " ")
	case m.Status != "":
		status = statusStyle.Render(" " + m.Status + " ")
	}

	refresh := ""
	if !m.LastRefresh.IsZero() {
		refresh = timestampStyle.Render(fmt.Sprintf("Last: %s", m.LastRefresh.Format("15:04:05")))
	}

	// Calculate spacing
	padding := m.Width - lipgloss.Width(keys) - lipgloss.Width(status) - lipgloss.Width(refresh) - 2
	if padding < 0 {
		padding = 0
	}

	return fmt.Sprintf(" %s%s%s%s", keys, strings.Repeat(" ", padding), status, refresh)
}

func (m Model) footerKeys() string {
	switch m.ActivePanel {
	case PanelPeople:
		return "q:quit  tab:switch  /:search  a:add friend  ?:help"
	case PanelRequests:
		return "q:quit  tab:switch  a:accept  d:decline  ?:help"
	case PanelFriends:
		return "q:quit  tab:switch  x:remove  ?:help"
	}
	return "q:quit  tab:switch  r:refresh  ?:help"
}

func (m Model) renderHelp() string {
	help := `
CLUBDASH - Key Bindings

NAVIGATION:
  Tab / Shift+Tab   Switch between panels
  1 / 2 / 3 / 4     Jump to panel
  ↑ / ↓ / j / k     Select row in active panel

PEOPLE:
  /                 Search by name or email
  Esc               Clear search
  a                 Send friend request

REQUESTS:
  a                 Accept
  d                 Decline

FRIENDS:
  x                 Remove (asks first)

ACTIONS:
  r                 Force refresh
  q / Ctrl+C        Quit

Press ? to close help
`
	return helpStyle.Render(help)
}

func (m Model) wrapPanel(title, content string, width, height int, panel Panel) string {
	style := panelStyle
	if m.ActivePanel == panel {
		style = activePanelStyle
	}

	titleStr := panelTitleStyle.Render(title)

	contentWidth := width - 4 // Account for border and padding

	lines := strings.Split(content, "\n")
	contentHeight := height - 3 // Title + border

	for len(lines) < contentHeight {
		lines = append(lines, "")
	}
	if contentHeight >= 0 && len(lines) > contentHeight {
		lines = lines[:contentHeight]
	}

	for i, line := range lines {
		if lipgloss.Width(line) > contentWidth {
			lines[i] = truncateString(line, contentWidth)
		}
	}

	inner := lipgloss.JoinVertical(lipgloss.Left, titleStr, strings.Join(lines, "\n"))
	return style.Width(width - 2).Render(inner)
}

func (m Model) visibleItems(total, offset, height int) int {
	remaining := total - offset
	if remaining > height {
		return height
	}
	if remaining < 0 {
		return 0
	}
	return remaining
}

// scrollOffset keeps the cursor row inside a window of height rows.
func scrollOffset(cursor, height int) int {
	if height <= 0 || cursor < height {
		return 0
	}
	return cursor - height + 1
}

func truncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > maxLen {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
