// Package writer renders search results, queue listings and player banners
// for the terminal.
package writer

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/ftxrc/gpymusic/models"
)

// Styles for terminal output
var (
	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#95E1A3"))

	goodbyeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	indexStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	songStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))
)

// Writer prints styled lines to a terminal.
type Writer struct {
	out io.Writer
}

// New returns a Writer bound to stdout.
func New() *Writer {
	return &Writer{out: os.Stdout}
}

// NewTo returns a Writer bound to an arbitrary sink.
func NewTo(out io.Writer) *Writer {
	return &Writer{out: out}
}

// NowPlaying prints the banner shown as each song starts.
func (w *Writer) NowPlaying(msg string) {
	fmt.Fprintln(w.out, bannerStyle.Render(msg))
}

// Goodbye prints the parting message when playback or the session ends.
func (w *Writer) Goodbye(msg string) {
	fmt.Fprintln(w.out, goodbyeStyle.Render(msg))
}

// Errorf prints a styled error line.
func (w *Writer) Errorf(format string, args ...interface{}) {
	fmt.Fprintln(w.out, errorStyle.Render(fmt.Sprintf(format, args...)))
}

// Infof prints a plain informational line.
func (w *Writer) Infof(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format+"\n", args...)
}

// Hint prints a dim suggestion line, for typo corrections and help nudges.
func (w *Writer) Hint(msg string) {
	fmt.Fprintln(w.out, dimStyle.Render(msg))
}

// Line renders one numbered pick for a page listing.
func Line(n Numbered) string {
	label := fmt.Sprint(n.Item)
	if song, ok := n.Item.(*models.Song); ok {
		label = songStyle.Render(fmt.Sprintf("%s (%s)", song, song.Time))
	}
	return fmt.Sprintf("%s %s  %s",
		indexStyle.Render(fmt.Sprintf("%3d", n.Index)),
		kindStyle.Render(fmt.Sprintf("%-6s", n.Item.Kind())),
		label)
}

// Page prints the pager's current page with a position footer.
func (w *Writer) Page(p *Pager) {
	if p.Len() == 0 {
		fmt.Fprintln(w.out, dimStyle.Render("Nothing to show."))
		return
	}
	for _, n := range p.Current() {
		fmt.Fprintln(w.out, Line(n))
	}
	current, total := p.Position()
	if total > 1 {
		fmt.Fprintln(w.out, dimStyle.Render(fmt.Sprintf("page %d/%d (n: next, b: back)", current, total)))
	}
}
