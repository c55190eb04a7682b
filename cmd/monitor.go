// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/kbw/scanctl/pkg/dispatch"
	"github.com/kbw/scanctl/pkg/wire"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var monitorPollMs int

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Live TUI view of dispatcher/position/scan state",
	Long: `Polls read_state and read_position at a fixed interval and renders
a live status view: status byte fields, motor positions, and a log of
recent state transitions and device-reported errors.

Press 'q' or Ctrl+C to quit.`,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
	monitorCmd.Flags().IntVar(&monitorPollMs, "poll-ms", 200, "Milliseconds between status polls")
}

type logEntry struct {
	timestamp time.Time
	message   string
	isError   bool
}

// pollSession guards concurrent access to the session's transport:
// the monitor's poll loop runs on its own goroutine, one read_state
// exchange at a time, the way cmd/control.go's connectionManager
// takes a lock around its own connection rather than sharing one
// raw across goroutines.
type pollSession struct {
	mu sync.Mutex
	s  *dispatch.Session
}

func (p *pollSession) poll(ctx context.Context) (wire.StatusByte, uint64, []int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	status, word, err := p.s.ReadState(ctx)
	if err != nil {
		return 0, 0, nil, err
	}
	positions, err := p.s.ReadPosition(ctx)
	if err != nil {
		return status, word, nil, err
	}
	return status, word, positions, nil
}

type monitorModel struct {
	session     *pollSession
	connInfo    string
	pollMs      int
	lastStatus  wire.StatusByte
	lastWord    uint64
	positions   []int64
	haveReading bool
	log         []logEntry
	maxLog      int
	width       int
	height      int
	quitting    bool
}

type pollResultMsg struct {
	status    wire.StatusByte
	word      uint64
	positions []int64
	err       error
}

type monitorTickMsg time.Time

func monitorTickCmd(ms int) tea.Cmd {
	return tea.Tick(time.Duration(ms)*time.Millisecond, func(t time.Time) tea.Msg {
		return monitorTickMsg(t)
	})
}

func pollCmd(p *pollSession) tea.Cmd {
	return func() tea.Msg {
		status, word, positions, err := p.poll(context.Background())
		return pollResultMsg{status: status, word: word, positions: positions, err: err}
	}
}

func newMonitorModel(session *pollSession, connInfo string, pollMs int) monitorModel {
	return monitorModel{
		session: session,
		connInfo: connInfo,
		pollMs:   pollMs,
		maxLog:   100,
		width:    80,
		height:   24,
	}
}

func (m monitorModel) Init() tea.Cmd {
	return tea.Batch(tea.EnterAltScreen, pollCmd(m.session))
}

func (m *monitorModel) addLog(message string, isError bool) {
	m.log = append(m.log, logEntry{timestamp: time.Now(), message: message, isError: isError})
	if len(m.log) > m.maxLog {
		m.log = m.log[len(m.log)-m.maxLog:]
	}
}

func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case pollResultMsg:
		if msg.err != nil {
			m.addLog(fmt.Sprintf("poll error: %v", msg.err), true)
		} else {
			prev := m.lastStatus
			m.lastStatus = msg.status
			m.lastWord = msg.word
			m.positions = msg.positions
			m.haveReading = true
			if msg.status.ParseError() && !prev.ParseError() {
				m.addLog("device reported parse_error", true)
			}
			if msg.status.DispatchError() && !prev.DispatchError() {
				m.addLog("device reported dispatch_error", true)
			}
			if msg.status.MemoryFull() != prev.MemoryFull() {
				m.addLog(fmt.Sprintf("memory_full -> %v", msg.status.MemoryFull()), false)
			}
			if msg.status.Executing() != prev.Executing() {
				m.addLog(fmt.Sprintf("executing -> %v", msg.status.Executing()), false)
			}
		}
		return m, monitorTickCmd(m.pollMs)

	case monitorTickMsg:
		return m, pollCmd(m.session)
	}

	return m, nil
}

func (m monitorModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Background(lipgloss.Color("235")).Padding(0, 1)
	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	boxStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)

	var s strings.Builder
	s.WriteString(titleStyle.Render("SCANCTL - MONITOR"))
	s.WriteString("\n")
	s.WriteString(headerStyle.Render(fmt.Sprintf("%s | poll: %dms | Press 'q' to quit", m.connInfo, m.pollMs)))
	s.WriteString("\n\n")

	if !m.haveReading {
		s.WriteString(headerStyle.Render("waiting for first read_state..."))
		s.WriteString("\n\n")
	} else {
		statusContent := strings.Builder{}
		statusContent.WriteString(fmt.Sprintf("%s %s   %s %s\n",
			labelStyle.Render("version:"), valueStyle.Render(fmt.Sprintf("%d", m.lastStatus.Version())),
			labelStyle.Render("executing:"), valueStyle.Render(fmt.Sprintf("%v", m.lastStatus.Executing())),
		))
		memField := valueStyle
		if m.lastStatus.MemoryFull() {
			memField = errorStyle
		}
		statusContent.WriteString(fmt.Sprintf("%s %s   %s %s\n",
			labelStyle.Render("memory_full:"), memField.Render(fmt.Sprintf("%v", m.lastStatus.MemoryFull())),
			labelStyle.Render("pins:"), valueStyle.Render(fmt.Sprintf("0x%X", m.lastWord)),
		))
		errField := valueStyle
		if m.lastStatus.ParseError() || m.lastStatus.DispatchError() {
			errField = errorStyle
		}
		statusContent.WriteString(fmt.Sprintf("%s %s",
			labelStyle.Render("errors:"),
			errField.Render(fmt.Sprintf("parse=%v dispatch=%v", m.lastStatus.ParseError(), m.lastStatus.DispatchError())),
		))
		s.WriteString(boxStyle.Render(statusContent.String()))
		s.WriteString("\n\n")

		posContent := strings.Builder{}
		for i, p := range m.positions {
			posContent.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render(fmt.Sprintf("motor %d:", i)), valueStyle.Render(fmt.Sprintf("%d", p))))
		}
		s.WriteString(labelStyle.Render("Positions:"))
		s.WriteString("\n")
		s.WriteString(boxStyle.Render(strings.TrimRight(posContent.String(), "\n")))
		s.WriteString("\n\n")
	}

	s.WriteString(labelStyle.Render("Recent Events:"))
	s.WriteString("\n")

	logHeight := m.height - 18
	if logHeight < 5 {
		logHeight = 5
	}
	startIdx := len(m.log) - logHeight
	if startIdx < 0 {
		startIdx = 0
	}

	logContent := strings.Builder{}
	if len(m.log) == 0 {
		logContent.WriteString(headerStyle.Render("  (no events yet)"))
	} else {
		for i := startIdx; i < len(m.log); i++ {
			e := m.log[i]
			ts := e.timestamp.Format("15:04:05.000")
			if e.isError {
				logContent.WriteString(fmt.Sprintf("%s %s\n", headerStyle.Render(ts), errorStyle.Render("✗ "+e.message)))
			} else {
				logContent.WriteString(fmt.Sprintf("%s %s\n", headerStyle.Render(ts), valueStyle.Render("  "+e.message)))
			}
		}
	}
	s.WriteString(boxStyle.Width(m.width - 4).Render(logContent.String()))

	return s.String()
}

func runMonitor(cmd *cobra.Command, args []string) error {
	s, connInfo, err := OpenSession()
	if err != nil {
		return err
	}
	defer s.Close()

	p := &pollSession{s: s}
	program := tea.NewProgram(newMonitorModel(p, connInfo, monitorPollMs), tea.WithAltScreen())
	_, err = program.Run()
	return err
}
