package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/kamal-hamza/imgresize/internal/adapters/picker"
	"github.com/kamal-hamza/imgresize/internal/core/domain"
	"github.com/kamal-hamza/imgresize/internal/core/ports"
	"github.com/kamal-hamza/imgresize/internal/core/services"
	"github.com/kamal-hamza/imgresize/pkg/droppath"
	"github.com/kamal-hamza/imgresize/pkg/ui"
)

const (
	windowTitle = "Image Resize Digdin Rusty version"
	heading     = "Drag images into this window to resize them to multiples of 4"

	statusDuration = 3 * time.Second
)

// dropMsg is one frame worth of dropped paths, in host order
type dropMsg struct {
	source string
	paths  []domain.DroppedPath
}

// pickedMsg is sent when the file picker hands the terminal back
type pickedMsg struct {
	picker *picker.FuzzyPicker
	err    error
}

// sourceFailedMsg reports a path source that could not be started
type sourceFailedMsg struct {
	err error
}

type clearStatusMsg struct{}

// Key bindings
type surfaceKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Paste  key.Binding
	Pick   key.Binding
	Copy   key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func (k surfaceKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Paste, k.Pick, k.Copy, k.Help, k.Quit}
}

func (k surfaceKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Paste, k.Pick, k.Copy},
		{k.Help, k.Quit},
	}
}

var surfaceKeys = surfaceKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "scroll up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "scroll down"),
	),
	Top: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "oldest"),
	),
	Bottom: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "newest"),
	),
	Paste: key.NewBinding(
		key.WithKeys("p", "ctrl+v"),
		key.WithHelp("p", "drop from clipboard"),
	),
	Pick: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "pick files"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy log"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// surfaceModel is the drop surface. Update is the only place the action
// log is mutated; every dropped path is processed synchronously there.
type surfaceModel struct {
	rewriter  *services.RewriteService
	codec     ports.ImageCodec
	pickerDir string
	watching  string
	log       *zap.Logger

	actions  domain.ActionLog
	viewport viewport.Model
	help     help.Model
	keys     surfaceKeyMap
	width    int
	height   int
	ready    bool

	status       string
	statusStyle  lipgloss.Style
	statusExpiry time.Time

	parse          func(string) []domain.DroppedPath
	clipboardRead  func() (string, error)
	clipboardWrite func(string) error
}

func newSurfaceModel(rewriter *services.RewriteService, c ports.ImageCodec, pickerDir string, log *zap.Logger) surfaceModel {
	if log == nil {
		log = zap.NewNop()
	}

	vp := viewport.New(80, 20)
	vp.Style = ui.StyleLogLine

	return surfaceModel{
		rewriter:       rewriter,
		codec:          c,
		pickerDir:      pickerDir,
		log:            log,
		viewport:       vp,
		help:           help.New(),
		keys:           surfaceKeys,
		parse:          droppath.Parse,
		clipboardRead:  clipboard.ReadAll,
		clipboardWrite: clipboard.WriteAll,
	}
}

func (m surfaceModel) Init() tea.Cmd {
	return tea.SetWindowTitle(windowTitle)
}

func (m surfaceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		m.resize()
		return m, nil

	case tea.KeyMsg:
		if msg.Paste {
			return m.handleDrop("paste", m.parse(string(msg.Runes)))
		}
		return m.updateKeys(msg)

	case dropMsg:
		return m.handleDrop(msg.source, msg.paths)

	case pickedMsg:
		if msg.err != nil {
			return m, m.setStatus(msg.err.Error(), ui.StyleWarning)
		}
		return m.handleDrop("picker", msg.picker.Selected())

	case sourceFailedMsg:
		m.watching = ""
		return m, m.setStatus("Drop folder disabled: "+msg.err.Error(), ui.StyleWarning)

	case clearStatusMsg:
		if !time.Now().Before(m.statusExpiry) {
			m.status = ""
			m.resize()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m surfaceModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()
		return m, nil

	case key.Matches(msg, m.keys.Paste):
		text, err := m.clipboardRead()
		if err != nil {
			m.log.Warn("Clipboard read failed", zap.Error(err))
			return m, m.setStatus("Could not read clipboard: "+err.Error(), ui.StyleWarning)
		}
		return m.handleDrop("clipboard", m.parse(text))

	case key.Matches(msg, m.keys.Pick):
		p := picker.NewFuzzyPicker(m.pickerDir, m.codec)
		return m, tea.Exec(p, func(err error) tea.Msg {
			return pickedMsg{picker: p, err: err}
		})

	case key.Matches(msg, m.keys.Copy):
		if m.actions.Len() == 0 {
			return m, m.setStatus("Nothing to copy yet", ui.StyleStatus)
		}
		if err := m.clipboardWrite(strings.Join(m.actions.Lines(), "\n")); err != nil {
			m.log.Warn("Clipboard write failed", zap.Error(err))
			return m, m.setStatus("Could not copy log: "+err.Error(), ui.StyleWarning)
		}
		return m, m.setStatus(fmt.Sprintf("Copied %d entries", m.actions.Len()), ui.StyleSuccess)

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// handleDrop processes one frame. Outcomes are appended contiguously and in
// the order the paths were delivered.
func (m surfaceModel) handleDrop(source string, paths []domain.DroppedPath) (tea.Model, tea.Cmd) {
	if len(paths) == 0 {
		return m, nil
	}

	m.log.Info("Frame received",
		zap.String("source", source),
		zap.Int("items", len(paths)))

	m.actions.Append(m.rewriter.ProcessAll(paths)...)
	m.resize()
	return m, nil
}

func (m *surfaceModel) setStatus(message string, style lipgloss.Style) tea.Cmd {
	m.status = message
	m.statusStyle = style
	m.statusExpiry = time.Now().Add(statusDuration)
	m.resize()
	return clearStatusAfter(statusDuration)
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// resize fits the log region between the heading and the footer
func (m *surfaceModel) resize() {
	if !m.ready {
		m.refreshLog()
		return
	}
	m.viewport.Width = m.width
	height := m.height - lipgloss.Height(m.renderHeading()) - lipgloss.Height(m.renderFooter())
	if height < 1 {
		height = 1
	}
	m.viewport.Height = height
	m.refreshLog()
}

// refreshLog re-renders the entire log and follows the newest entry
func (m *surfaceModel) refreshLog() {
	m.viewport.SetContent(m.renderLog())
	m.viewport.GotoBottom()
}

func (m surfaceModel) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeading(),
		m.viewport.View(),
		m.renderFooter(),
	)
}

func (m surfaceModel) renderHeading() string {
	return ui.StyleHeading.Render(heading)
}

func (m surfaceModel) renderLog() string {
	if m.actions.Len() == 0 {
		return ui.FormatMuted("Nothing processed yet. Drop files here, press p to use the clipboard or f to pick files.")
	}

	wrap := lipgloss.NewStyle()
	if m.viewport.Width > 0 {
		wrap = wrap.Width(m.viewport.Width)
	}

	var s strings.Builder
	for i, entry := range m.actions.Entries() {
		if i > 0 {
			s.WriteString("\n")
		}
		s.WriteString(wrap.Render(renderOutcome(entry)))
	}
	return s.String()
}

func (m surfaceModel) renderFooter() string {
	var s strings.Builder
	if tally := m.renderTally(); tally != "" {
		s.WriteString(tally)
		s.WriteString("\n")
	}
	if m.status != "" {
		s.WriteString(m.statusStyle.Render(m.status))
		s.WriteString("\n")
	}
	s.WriteString(m.help.View(m.keys))
	return s.String()
}

// renderTally summarises the log per outcome kind and names the watched
// drop folder, if any
func (m surfaceModel) renderTally() string {
	var parts []string
	if m.watching != "" {
		parts = append(parts, ui.StyleMuted.Render("Watching ")+m.watching)
	}

	if m.actions.Len() > 0 {
		var failed int
		counts := m.actions.Counts()
		for kind, n := range counts {
			if kind.Failed() {
				failed += n
			}
		}
		count := func(n int, label string) string {
			return ui.StyleBold.Render(fmt.Sprint(n)) + " " + label
		}
		parts = append(parts,
			count(counts[domain.OutcomeResized], "resized"),
			count(counts[domain.OutcomeNoOp], "unchanged"),
			count(failed, "failed"),
		)
	}

	return strings.Join(parts, ui.StyleMuted.Render(" · "))
}

// renderOutcome colours one log entry by kind; the text is the exact
// outcome line
func renderOutcome(o domain.Outcome) string {
	line := o.String()
	switch o.Kind {
	case domain.OutcomeResized:
		return ui.StyleSuccess.Render(line)
	case domain.OutcomeNoOp:
		return ui.StyleMuted.Render(line)
	case domain.OutcomeEncodeFailed:
		return ui.StyleError.Render(line)
	default:
		return ui.StyleWarning.Render(line)
	}
}

// runSurface starts the drop surface and blocks until it is closed. A path
// source that fails to start is reported on the status line.
func runSurface(program *tea.Program, log *zap.Logger, sources ...ports.PathSource) error {
	for _, src := range sources {
		err := src.Start(func(paths []domain.DroppedPath) {
			program.Send(dropMsg{source: "folder", paths: paths})
		})
		if err != nil {
			log.Warn("Path source disabled", zap.Error(err))
			go program.Send(sourceFailedMsg{err: err})
			continue
		}
		defer src.Stop()
	}

	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return fmt.Errorf("error running drop surface: %w", err)
	}
	return nil
}
