package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/waabox/catalogdeck/internal/notify"
)

// toastDuration is how long a notification stays on screen.
const toastDuration = 2500 * time.Millisecond

// ToastMsg carries a notification from the bus into the program.
// Seq orders notifications: a lower Seq never replaces a higher one.
type ToastMsg struct {
	Seq          uint64
	Notification notify.Notification
}

// toastExpiredMsg hides the toast with the same seq.
type toastExpiredMsg struct {
	seq uint64
}

var toastSeq atomic.Uint64

// NewToastMsg stamps n with the next sequence number.
func NewToastMsg(n notify.Notification) ToastMsg {
	return ToastMsg{Seq: toastSeq.Add(1), Notification: n}
}

func expireToast(seq uint64) tea.Cmd {
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

var toastStyles = map[notify.Severity]lipgloss.Style{
	notify.Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	notify.Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	notify.Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	notify.Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
}

func renderToast(n notify.Notification) string {
	style, ok := toastStyles[n.Severity]
	if !ok {
		style = toastStyles[notify.Info]
	}
	return " " + style.Render(n.Message) + "\n"
}
