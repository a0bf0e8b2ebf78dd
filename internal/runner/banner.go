package runner

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// separatorWidth is the length of the rule printed around invocations.
const separatorWidth = 60

// FinalMessage is printed exactly once after the batch loop, including
// the zero-files case.
const FinalMessage = "All dataset files processed."

// Banners renders the per-file markers around each harness invocation.
// Styling is optional so piped output stays plain.
type Banners struct {
	styled    bool
	startSty  lipgloss.Style
	doneSty   lipgloss.Style
	sepSty    lipgloss.Style
	finalSty  lipgloss.Style
	separator string
}

// NewBanners creates a banner renderer. styled enables lipgloss
// coloring; pass false when stdout is not a terminal.
func NewBanners(styled bool) *Banners {
	return &Banners{
		styled:    styled,
		startSty:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		doneSty:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		sepSty:    lipgloss.NewStyle().Faint(true),
		finalSty:  lipgloss.NewStyle().Bold(true),
		separator: strings.Repeat("-", separatorWidth),
	}
}

// Start returns the banner announcing the file about to be processed.
func (b *Banners) Start(path string) string {
	return b.render(b.startSty, fmt.Sprintf(">>> validating %s", path))
}

// Done returns the completion banner for a file. It is emitted whether
// or not the invocation succeeded.
func (b *Banners) Done(path string) string {
	return b.render(b.doneSty, fmt.Sprintf("<<< finished %s", path))
}

// Separator returns the rule printed after each banner.
func (b *Banners) Separator() string {
	return b.render(b.sepSty, b.separator)
}

// Final returns the end-of-batch message.
func (b *Banners) Final() string {
	return b.render(b.finalSty, FinalMessage)
}

func (b *Banners) render(style lipgloss.Style, text string) string {
	if !b.styled {
		return text
	}
	return style.Render(text)
}
