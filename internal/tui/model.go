// Package tui is the optional full-screen front-end: it shows conversion
// progress, the confirmation gates before each encoder stage, and the
// final summary. The pipeline itself runs in the stage commands supplied
// by the caller; the model only sequences phases.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrjulesfletcher/dng-to-video/internal/domain"
)

// Phase is the TUI's position in the run.
type Phase int

const (
	PhaseConverting Phase = iota
	PhaseConfirmAssemble
	PhaseAssembling
	PhaseConfirmGrade
	PhaseGrading
	PhaseDone
	PhaseError
)

// Messages exchanged with the stage commands.
type (
	ConvertProgressMsg struct {
		Completed int
		Total     int
	}
	ConvertDoneMsg struct {
		Outcome *domain.BatchOutcome
	}
	StageDoneMsg struct {
		State domain.PipelineState
		Path  string
	}
	ErrorMsg struct {
		Err error
	}
	ConfirmMsg struct{ Confirmed bool }
	tickMsg    time.Time
)

// Stages supplies the blocking pipeline calls as bubbletea commands.
// Each runs in its own goroutine and reports back with one message.
type Stages struct {
	Convert  tea.Cmd
	Assemble tea.Cmd
	Grade    tea.Cmd
}

// Config parameterizes the TUI run.
type Config struct {
	InputDir  string
	SkipGrade bool
	Stages    Stages
}

type Model struct {
	config Config

	Phase     Phase
	Outcome   *domain.BatchOutcome
	FlatPath  string
	FinalPath string
	Err       error
	// OptedOut is set when the user declined a gate; a clean terminal.
	OptedOut bool
	Quitting bool

	spinner          spinner.Model
	progress         progress.Model
	completed        int
	total            int
	confirmSelection bool
	width            int
}

func NewModel(cfg Config) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(50),
		progress.WithoutPercentage(),
	)

	return Model{
		config:           cfg,
		Phase:            PhaseConverting,
		spinner:          s,
		progress:         p,
		confirmSelection: true,
		width:            80,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tickCmd(), m.config.Stages.Convert)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = min(msg.Width-20, 60)
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)

	case ConvertProgressMsg:
		m.completed = msg.Completed
		m.total = msg.Total
		return m, nil

	case ConvertDoneMsg:
		m.Outcome = msg.Outcome
		m.Phase = PhaseConfirmAssemble
		m.confirmSelection = true
		return m, nil

	case StageDoneMsg:
		return m.advance(msg)

	case ConfirmMsg:
		return m.confirm(msg.Confirmed)

	case ErrorMsg:
		m.Phase = PhaseError
		m.Err = msg.Err
		return m, nil

	case spinner.TickMsg:
		if m.working() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case tickMsg:
		if m.Phase == PhaseConverting {
			var cmds []tea.Cmd
			if m.total > 0 {
				cmds = append(cmds, m.progress.SetPercent(float64(m.completed)/float64(m.total)))
			}
			cmds = append(cmds, tickCmd(), m.spinner.Tick)
			return m, tea.Batch(cmds...)
		}
		if m.working() {
			return m, tea.Batch(tickCmd(), m.spinner.Tick)
		}
	}

	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.Quitting = true
		if !m.Phase.terminal() {
			m.OptedOut = true
		}
		return m, tea.Quit
	case "left", "h", "y", "Y":
		if m.confirming() {
			m.confirmSelection = true
		}
	case "right", "l", "n", "N":
		if m.confirming() {
			m.confirmSelection = false
		}
	case "enter":
		if m.confirming() {
			selection := m.confirmSelection
			return m, func() tea.Msg { return ConfirmMsg{Confirmed: selection} }
		}
		if m.Phase.terminal() {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) confirm(confirmed bool) (tea.Model, tea.Cmd) {
	if !confirmed {
		m.OptedOut = true
		m.Phase = PhaseDone
		return m, nil
	}
	switch m.Phase {
	case PhaseConfirmAssemble:
		m.Phase = PhaseAssembling
		return m, tea.Batch(tickCmd(), m.spinner.Tick, m.config.Stages.Assemble)
	case PhaseConfirmGrade:
		m.Phase = PhaseGrading
		return m, tea.Batch(tickCmd(), m.spinner.Tick, m.config.Stages.Grade)
	}
	return m, nil
}

func (m Model) advance(msg StageDoneMsg) (tea.Model, tea.Cmd) {
	switch msg.State {
	case domain.StateFlatVideoReady:
		m.FlatPath = msg.Path
		if m.config.SkipGrade {
			m.Phase = PhaseDone
			return m, nil
		}
		m.Phase = PhaseConfirmGrade
		m.confirmSelection = true
	case domain.StateGradedVideoReady:
		m.FinalPath = msg.Path
		m.Phase = PhaseDone
	}
	return m, nil
}

func (m Model) working() bool {
	switch m.Phase {
	case PhaseConverting, PhaseAssembling, PhaseGrading:
		return true
	default:
		return false
	}
}

func (m Model) confirming() bool {
	return m.Phase == PhaseConfirmAssemble || m.Phase == PhaseConfirmGrade
}

func (p Phase) terminal() bool {
	return p == PhaseDone || p == PhaseError
}

func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch m.Phase {
	case PhaseConverting:
		b.WriteString(m.renderConverting())
	case PhaseConfirmAssemble:
		b.WriteString(m.renderSummary())
		b.WriteString("\n")
		b.WriteString(m.renderConfirm("Create the flat video from the processed frames?"))
	case PhaseAssembling:
		b.WriteString(m.renderSummary())
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("%s Assembling flat video...", m.spinner.View()))
	case PhaseConfirmGrade:
		b.WriteString(m.renderStageList())
		b.WriteString("\n")
		b.WriteString(m.renderConfirm("Apply the LUT to create a graded video?"))
	case PhaseGrading:
		b.WriteString(m.renderStageList())
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("%s Applying LUT...", m.spinner.View()))
	case PhaseDone:
		b.WriteString(m.renderDone())
	case PhaseError:
		b.WriteString(m.renderError())
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m Model) renderHeader() string {
	title := titleStyle.Render("🎞  dng2video")
	subtitle := subtitleStyle.Render("RAW frames to graded video")
	dim := lipgloss.NewStyle().Foreground(dimTextColor)
	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		subtitle,
		"",
		dim.Render(fmt.Sprintf("%s Input: %s", iconFolder, m.config.InputDir)),
	)
}

func (m Model) renderConverting() string {
	if m.total > 0 {
		percent := float64(m.completed) / float64(m.total)
		count := lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
		dim := lipgloss.NewStyle().Foreground(dimTextColor)
		return fmt.Sprintf("%s Converting RAW frames...\n\n  %s\n  %s %s",
			m.spinner.View(),
			m.progress.ViewAs(percent),
			count.Render(fmt.Sprintf("%d/%d", m.completed, m.total)),
			dim.Render(fmt.Sprintf("(%.0f%%)", percent*100)),
		)
	}
	return fmt.Sprintf("%s Scanning for RAW files...", m.spinner.View())
}

func (m Model) renderSummary() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Conversion Summary"))
	b.WriteString("\n\n")

	if m.Outcome == nil {
		b.WriteString(lipgloss.NewStyle().Foreground(dimTextColor).Render("  No frames converted"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("  %s  %s\n",
		statLabelStyle.Render("Frames:"),
		fileStyle.Render(fmt.Sprintf("%s %d of %d", iconFrame, m.Outcome.SuccessCount, m.Outcome.Total))))
	b.WriteString(fmt.Sprintf("  %s  %s\n",
		statLabelStyle.Render("Elapsed:"),
		fileStyle.Render(m.Outcome.Elapsed.Round(10*time.Millisecond).String())))

	if m.Outcome.FailureCount() > 0 {
		b.WriteString("\n")
		b.WriteString(warningStyle.Render(fmt.Sprintf("⚠ %d files failed", m.Outcome.FailureCount())))
		b.WriteString("\n")
		for i, src := range m.Outcome.FailedSources {
			if i >= 4 {
				b.WriteString(fmt.Sprintf("  ... and %d more\n", m.Outcome.FailureCount()-4))
				break
			}
			b.WriteString(fmt.Sprintf("  %s\n", fileStyle.Render(src)))
		}
	}
	return b.String()
}

func (m Model) renderStageList() string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Pipeline"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  %s Frames converted\n", successStyle.Render(iconSuccess)))
	if m.FlatPath != "" {
		b.WriteString(fmt.Sprintf("  %s Flat video: %s\n", successStyle.Render(iconSuccess), fileStyle.Render(m.FlatPath)))
	}
	if m.FinalPath != "" {
		b.WriteString(fmt.Sprintf("  %s Graded video: %s\n", successStyle.Render(iconSuccess), fileStyle.Render(m.FinalPath)))
	}
	return b.String()
}

func (m Model) renderConfirm(question string) string {
	prompt := confirmPromptStyle.Render(question)

	var yesBtn, noBtn string
	if m.confirmSelection {
		yesBtn = highlightBoxStyle.Render(" Yes ")
		noBtn = boxStyle.Render(" No ")
	} else {
		yesBtn = boxStyle.Render(" Yes ")
		noBtn = highlightBoxStyle.Render(" No ")
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Center, yesBtn, "  ", noBtn)
	return lipgloss.JoinVertical(lipgloss.Left, prompt, "", buttons)
}

func (m Model) renderDone() string {
	var b strings.Builder
	b.WriteString(m.renderStageList())
	b.WriteString("\n")
	if m.OptedOut {
		b.WriteString(lipgloss.NewStyle().Foreground(dimTextColor).Render("Stopped at your request."))
	} else {
		b.WriteString(successStyle.Render(fmt.Sprintf("%s All steps completed.", iconSuccess)))
	}
	return b.String()
}

func (m Model) renderError() string {
	msg := errorStyle.Render(fmt.Sprintf("Error: %v", m.Err))
	return highlightBoxStyle.BorderForeground(errorColor).Render(fmt.Sprintf("%s %s", errorStyle.Render(iconError), msg))
}

func (m Model) renderHelp() string {
	var help string
	switch {
	case m.confirming():
		help = "← → or y/n to select • Enter to confirm • q to quit"
	case m.working():
		help = "Working... q aborts"
	default:
		help = "Press Enter or q to exit"
	}
	return helpStyle.Render(help)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
