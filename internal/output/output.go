// Package output provides styled terminal output helpers (success, error,
// warning, record formatting) using lipgloss.
package output

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/marcus/clubdash/internal/models"
)

var (
	// Styles
	titleStyle    = lipgloss.NewStyle().Bold(true)
	subtleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	idStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	relationStyle = map[models.Relationship]lipgloss.Style{
		models.RelationAddable: lipgloss.NewStyle().Foreground(lipgloss.Color("45")),
		models.RelationPending: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		models.RelationFriend:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	}
	requestStyle = map[models.RequestStatus]lipgloss.Style{
		models.RequestPending:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		models.RequestAccepted: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		models.RequestRejected: lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
	}
)

// Success prints a success message
func Success(format string, args ...interface{}) {
	fmt.Println(successStyle.Render(fmt.Sprintf(format, args...)))
}

// Error prints an error message
func Error(format string, args ...interface{}) {
	fmt.Println(errorStyle.Render("ERROR: " + fmt.Sprintf(format, args...)))
}

// Warning prints a warning message
func Warning(format string, args ...interface{}) {
	fmt.Println(warningStyle.Render("Warning: " + fmt.Sprintf(format, args...)))
}

// Info prints an info message
func Info(format string, args ...interface{}) {
	fmt.Println(fmt.Sprintf(format, args...))
}

// JSON outputs data as JSON
func JSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// Error codes for structured JSON output
const (
	ErrCodeNotFound      = "not_found"
	ErrCodeInvalidInput  = "invalid_input"
	ErrCodeUnauthorized  = "unauthorized"
	ErrCodeNetworkError  = "network_error"
	ErrCodeNotSignedIn   = "not_signed_in"
	ErrCodeNothingStaged = "nothing_staged"
)

// JSONError outputs an error as JSON
func JSONError(code, message string) {
	data, _ := json.Marshal(map[string]interface{}{
		"error": map[string]string{"code": code, "message": message},
	})
	fmt.Println(string(data))
}

// RelationBadge returns the relationship with a symbol,
// e.g. "+ addable", "… pending", "✓ friend".
func RelationBadge(r models.Relationship) string {
	symbols := map[models.Relationship]string{
		models.RelationAddable: "+",
		models.RelationPending: "…",
		models.RelationFriend:  "✓",
	}
	symbol, ok := symbols[r]
	if !ok {
		symbol = "?"
	}
	if style, ok := relationStyle[r]; ok {
		return style.Render(fmt.Sprintf("%s %s", symbol, r))
	}
	return fmt.Sprintf("%s %s", symbol, r)
}

// FormatRequestStatus formats a request status with color
func FormatRequestStatus(s models.RequestStatus) string {
	style, ok := requestStyle[s]
	if !ok {
		return string(s)
	}
	return style.Render(fmt.Sprintf("[%s]", s))
}

// FormatID renders a record id.
func FormatID(id int64) string {
	return idStyle.Render(fmt.Sprintf("#%d", id))
}

// FormatUser formats a directory entry with the viewer's relationship to it.
func FormatUser(u models.User, rel models.Relationship) string {
	parts := []string{FormatID(u.ID), titleStyle.Render(u.FullName())}
	if u.Email != "" {
		parts = append(parts, subtleStyle.Render(u.Email))
	}
	parts = append(parts, RelationBadge(rel))
	return strings.Join(parts, "  ")
}

// FormatFriend formats a friendship.
func FormatFriend(f models.Friend) string {
	parts := []string{FormatID(f.FriendID), titleStyle.Render(f.FullName())}
	if f.Email != "" {
		parts = append(parts, subtleStyle.Render(f.Email))
	}
	if !f.CreatedAt.IsZero() {
		parts = append(parts, subtleStyle.Render("since "+FormatTimeAgo(f.CreatedAt)))
	}
	return strings.Join(parts, "  ")
}

// FormatRequest formats a friend request. received selects which side of
// the request is shown.
func FormatRequest(r models.FriendRequest, received bool) string {
	name, email, dir := r.ReceiverName, r.ReceiverEmail, "to"
	if received {
		name, email, dir = r.SenderName, r.SenderEmail, "from"
	}
	parts := []string{FormatID(r.ID), dir, titleStyle.Render(name)}
	if email != "" {
		parts = append(parts, subtleStyle.Render(email))
	}
	parts = append(parts, FormatRequestStatus(r.Status))
	if !r.CreatedAt.IsZero() {
		parts = append(parts, subtleStyle.Render(FormatTimeAgo(r.CreatedAt)))
	}
	return strings.Join(parts, "  ")
}

// FormatGame formats a game in short format
func FormatGame(g models.Game) string {
	parts := []string{FormatID(g.ID), titleStyle.Render(g.Name)}
	if g.Genre != "" {
		parts = append(parts, subtleStyle.Render(g.Genre))
	}
	return strings.Join(parts, "  ")
}

// FormatTeam formats a team in short format
func FormatTeam(t models.Team) string {
	parts := []string{FormatID(t.ID), titleStyle.Render(t.Name)}
	if t.GameID != 0 {
		parts = append(parts, subtleStyle.Render(fmt.Sprintf("game #%d", t.GameID)))
	}
	return strings.Join(parts, "  ")
}

// FormatTournament formats a tournament in short format
func FormatTournament(t models.Tournament) string {
	parts := []string{FormatID(t.ID), titleStyle.Render(t.Name)}
	dates := t.StartDate
	if t.EndDate != "" {
		dates += " → " + t.EndDate
	}
	parts = append(parts, dates)
	if t.Location != "" {
		parts = append(parts, subtleStyle.Render(t.Location))
	}
	if t.PrizePool != "" {
		parts = append(parts, subtleStyle.Render("prize "+t.PrizePool))
	}
	return strings.Join(parts, "  ")
}

// FormatNewsShort formats a news item in one line
func FormatNewsShort(n models.News) string {
	parts := []string{FormatID(n.ID), titleStyle.Render(n.Title)}
	if n.AuthorName != "" {
		parts = append(parts, subtleStyle.Render(n.AuthorName))
	}
	if !n.CreatedAt.IsZero() {
		parts = append(parts, subtleStyle.Render(FormatTimeAgo(n.CreatedAt)))
	}
	return strings.Join(parts, "  ")
}

// FormatNewsLong formats a news item with its rendered body and comments.
// mine reports which comments the viewer may edit.
func FormatNewsLong(n models.News, body string, comments []models.Comment, mine func(models.Comment) bool) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(fmt.Sprintf("#%d: %s", n.ID, n.Title)))
	sb.WriteString("\n")
	if n.AuthorName != "" || !n.CreatedAt.IsZero() {
		meta := n.AuthorName
		if !n.CreatedAt.IsZero() {
			if meta != "" {
				meta += ", "
			}
			meta += FormatTimeAgo(n.CreatedAt)
		}
		sb.WriteString(subtleStyle.Render(meta))
		sb.WriteString("\n")
	}

	if body != "" {
		sb.WriteString("\n")
		sb.WriteString(body)
		sb.WriteString("\n")
	}

	sb.WriteString(SectionHeader(fmt.Sprintf("comments (%s)", humanize.Comma(int64(len(comments))))))
	if len(comments) == 0 {
		sb.WriteString(subtleStyle.Render("  No comments yet"))
		sb.WriteString("\n")
	}
	for _, c := range comments {
		sb.WriteString(FormatComment(c, mine != nil && mine(c)))
		sb.WriteString("\n")
	}
	return sb.String()
}

// FormatComment formats a comment; own comments are marked.
func FormatComment(c models.Comment, own bool) string {
	header := []string{FormatID(c.ID), titleStyle.Render(c.AuthorName)}
	if !c.CreatedAt.IsZero() {
		header = append(header, subtleStyle.Render(FormatTimeAgo(c.CreatedAt)))
	}
	if own {
		header = append(header, subtleStyle.Render("(you)"))
	}
	return "  " + strings.Join(header, "  ") + "\n" + IndentString(c.Content, 4)
}

// FormatTimeAgo formats a time as a human-readable "ago" string
func FormatTimeAgo(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1h ago"
		}
		return fmt.Sprintf("%dh ago", hours)
	case diff < 7*24*time.Hour:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "1d ago"
		}
		return fmt.Sprintf("%dd ago", days)
	default:
		return humanize.Time(t)
	}
}

// SectionHeader returns a formatted section header for CLI output
// e.g., "\nFRIENDS:\n"
func SectionHeader(title string) string {
	return fmt.Sprintf("\n%s:\n", strings.ToUpper(title))
}

// IndentLines indents each line by the specified number of spaces
func IndentLines(lines []string, spaces int) []string {
	indent := strings.Repeat(" ", spaces)
	result := make([]string, len(lines))
	for i, line := range lines {
		result[i] = indent + line
	}
	return result
}

// IndentString indents each line in a string by the specified number of spaces
func IndentString(s string, spaces int) string {
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	indented := IndentLines(lines, spaces)
	return strings.Join(indented, "\n")
}
