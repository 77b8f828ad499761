package cmd

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/kamal-hamza/imgresize/internal/adapters/codec"
	"github.com/kamal-hamza/imgresize/internal/core/domain"
	"github.com/kamal-hamza/imgresize/internal/core/ports/mocks"
	"github.com/kamal-hamza/imgresize/internal/core/services"
	"github.com/kamal-hamza/imgresize/pkg/droppath"
	"github.com/kamal-hamza/imgresize/pkg/ui"
)

// newTestSurface builds a surface over an in-memory codec holding
// /in/a.png (10x10, needs resizing) and /in/b.png (8x8, already aligned)
func newTestSurface(t *testing.T) (surfaceModel, *mocks.MockImageCodec) {
	t.Helper()

	mock := mocks.NewMockImageCodec()
	mock.AddImage("/in/a.png", 10, 10)
	mock.AddImage("/in/b.png", 8, 8)

	rewriter := services.NewRewriteService(mock, codec.NewGaussianResampler(), zap.NewNop())
	m := newSurfaceModel(rewriter, mock, "", zap.NewNop())
	m.parse = func(text string) []domain.DroppedPath {
		return droppath.ParseWith(text, droppath.Options{
			BackslashEscapes: true,
			Exists:           func(string) bool { return false },
		})
	}
	m.clipboardRead = func() (string, error) {
		return "", errors.New("no clipboard in tests")
	}
	m.clipboardWrite = func(string) error {
		return errors.New("no clipboard in tests")
	}
	return m, mock
}

func paste(text string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text), Paste: true}
}

func press(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func update(t *testing.T, m surfaceModel, msg tea.Msg) (surfaceModel, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(surfaceModel), cmd
}

func TestSurface_PasteFrameAppendsInOrder(t *testing.T) {
	m, mock := newTestSurface(t)

	m, _ = update(t, m, paste("/in/a.png\n/in/b.png\n/in/missing.png"))

	lines := m.actions.Lines()
	if len(lines) != 3 {
		t.Fatalf("Expected 3 entries, got %d: %v", len(lines), lines)
	}
	if lines[0] != "/in/a.png: resized successfully" {
		t.Errorf("Unexpected first entry: %q", lines[0])
	}
	if lines[1] != "/in/b.png: no resizing needed (already multiple of 4)" {
		t.Errorf("Unexpected second entry: %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "/in/missing.png: processing failed - ") {
		t.Errorf("Unexpected third entry: %q", lines[2])
	}

	writes := mock.Writes()
	if len(writes) != 1 || writes[0] != "/in/a.png" {
		t.Errorf("Expected a single write to /in/a.png, got %v", writes)
	}
}

func TestSurface_FramesAccumulate(t *testing.T) {
	m, _ := newTestSurface(t)

	m, _ = update(t, m, dropMsg{source: "test", paths: []domain.DroppedPath{
		domain.NewDroppedPath("/in/b.png"),
		domain.NewDroppedPath("/in/a.png"),
	}})
	if m.actions.Len() != 2 {
		t.Fatalf("Expected 2 entries after first frame, got %d", m.actions.Len())
	}

	m, _ = update(t, m, dropMsg{source: "test", paths: []domain.DroppedPath{
		domain.NewDroppedPath("/in/a.png"),
	}})

	lines := m.actions.Lines()
	want := []string{
		"/in/b.png: no resizing needed (already multiple of 4)",
		"/in/a.png: resized successfully",
		"/in/a.png: no resizing needed (already multiple of 4)",
	}
	if len(lines) != len(want) {
		t.Fatalf("Expected %d entries, got %d: %v", len(want), len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("Entry %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestSurface_UnreadablePaste(t *testing.T) {
	m, _ := newTestSurface(t)

	m, _ = update(t, m, paste("'/in/unterminated.png"))

	lines := m.actions.Lines()
	if len(lines) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Could not parse path: ") {
		t.Errorf("Expected an unreadable path entry, got %q", lines[0])
	}
}

func TestSurface_EmptyFrameLeavesLogUnchanged(t *testing.T) {
	m, _ := newTestSurface(t)

	m, _ = update(t, m, paste("\n\n"))
	m, _ = update(t, m, dropMsg{source: "test"})

	if m.actions.Len() != 0 {
		t.Errorf("Expected empty log, got %d entries", m.actions.Len())
	}
}

func TestSurface_ClipboardDrop(t *testing.T) {
	m, _ := newTestSurface(t)
	m.clipboardRead = func() (string, error) {
		return "/in/a.png /in/b.png", nil
	}

	m, _ = update(t, m, press('p'))

	if m.actions.Len() != 2 {
		t.Errorf("Expected 2 entries from clipboard, got %d", m.actions.Len())
	}
}

func TestSurface_ClipboardReadFailure(t *testing.T) {
	m, _ := newTestSurface(t)

	m, cmd := update(t, m, press('p'))

	if m.actions.Len() != 0 {
		t.Errorf("Clipboard failure must not add entries, got %d", m.actions.Len())
	}
	if !strings.Contains(m.status, "Could not read clipboard") {
		t.Errorf("Expected clipboard status, got %q", m.status)
	}
	if cmd == nil {
		t.Error("Expected a command to clear the status")
	}
}

func TestSurface_CopyLog(t *testing.T) {
	m, _ := newTestSurface(t)
	var copied string
	writes := 0
	m.clipboardWrite = func(text string) error {
		copied = text
		writes++
		return nil
	}

	m, _ = update(t, m, press('y'))
	if writes != 0 {
		t.Error("Copying an empty log should not touch the clipboard")
	}

	m, _ = update(t, m, paste("/in/a.png\n/in/b.png"))
	m, _ = update(t, m, press('y'))

	want := strings.Join(m.actions.Lines(), "\n")
	if copied != want {
		t.Errorf("Expected clipboard %q, got %q", want, copied)
	}
	if !strings.Contains(m.status, "Copied 2 entries") {
		t.Errorf("Expected copy status, got %q", m.status)
	}
}

func TestSurface_PickerError(t *testing.T) {
	m, _ := newTestSurface(t)

	m, _ = update(t, m, pickedMsg{err: errors.New("no image files found")})

	if m.actions.Len() != 0 {
		t.Errorf("Picker failure must not add entries, got %d", m.actions.Len())
	}
	if m.status != "no image files found" {
		t.Errorf("Expected picker error in status, got %q", m.status)
	}
}

func TestSurface_StatusIsNotLogged(t *testing.T) {
	m, _ := newTestSurface(t)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	m, _ = update(t, m, pickedMsg{err: errors.New("picker unavailable")})

	if strings.Contains(m.renderLog(), "picker unavailable") {
		t.Error("Status messages should not appear in the log region")
	}
	if !strings.Contains(m.View(), "picker unavailable") {
		t.Error("Status message should be visible")
	}
}

func TestSurface_Quit(t *testing.T) {
	m, _ := newTestSurface(t)

	for _, msg := range []tea.KeyMsg{press('q'), {Type: tea.KeyCtrlC}} {
		_, cmd := update(t, m, msg)
		if cmd == nil {
			t.Fatalf("Expected quit command for %q", msg.String())
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("Expected tea.QuitMsg for %q", msg.String())
		}
	}
}

func TestSurface_PastedQDoesNotQuit(t *testing.T) {
	m, _ := newTestSurface(t)

	m, cmd := update(t, m, paste("q"))

	if cmd != nil {
		if _, ok := cmd().(tea.QuitMsg); ok {
			t.Error("A pasted q must be treated as a path, not a key")
		}
	}
	if m.actions.Len() != 1 {
		t.Errorf("Expected 1 entry for the pasted text, got %d", m.actions.Len())
	}
}

func TestSurface_View(t *testing.T) {
	m, _ := newTestSurface(t)

	if !strings.Contains(m.View(), "Initializing") {
		t.Error("Expected initializing view before the first resize")
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 24})
	view := m.View()
	if !strings.Contains(view, heading) {
		t.Error("View should contain the heading")
	}
	if !strings.Contains(view, "Nothing processed yet") {
		t.Error("Empty log should show the placeholder")
	}

	m, _ = update(t, m, paste("/in/a.png"))
	view = m.View()
	if !strings.Contains(view, "/in/a.png: resized successfully") {
		t.Error("View should contain the new entry")
	}
	if !strings.Contains(view, heading) {
		t.Error("Heading should stay visible after entries are added")
	}
}

func TestSurface_FollowsNewestEntry(t *testing.T) {
	m, _ := newTestSurface(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 10})

	paths := make([]domain.DroppedPath, 0, 30)
	for i := 0; i < 30; i++ {
		paths = append(paths, domain.NewDroppedPath("/in/b.png"))
	}
	m, _ = update(t, m, dropMsg{source: "test", paths: paths})

	if !m.viewport.AtBottom() {
		t.Error("Viewport should follow the newest entry")
	}

	m, _ = update(t, m, press('g'))
	if !m.viewport.AtTop() {
		t.Error("Expected viewport at top after g")
	}
}

func TestSurface_HelpToggle(t *testing.T) {
	m, _ := newTestSurface(t)

	m, _ = update(t, m, press('?'))
	if !m.help.ShowAll {
		t.Error("Expected full help after ?")
	}
	m, _ = update(t, m, press('?'))
	if m.help.ShowAll {
		t.Error("Expected short help after second ?")
	}
}

func TestSurface_InitSetsTitle(t *testing.T) {
	m, _ := newTestSurface(t)

	if m.Init() == nil {
		t.Error("Init should return the window title command")
	}
}

func TestRenderOutcome_KeepsText(t *testing.T) {
	outcomes := []domain.Outcome{
		domain.PathUnreadable("bad\x00path"),
		domain.DecodeFailed("/in/x.png", errors.New("unknown format")),
		domain.EncodeFailed("/in/x.png", errors.New("permission denied")),
		domain.NoOp("/in/x.png"),
		domain.Resized("/in/x.png"),
	}

	for _, o := range outcomes {
		t.Run(o.Kind.String(), func(t *testing.T) {
			rendered := renderOutcome(o)
			if !strings.Contains(rendered, o.String()) {
				t.Errorf("Rendered entry lost its text: %q", o.String())
			}
			for _, icon := range []string{ui.IconSuccess, ui.IconError, ui.IconWarning, ui.IconSkip} {
				if strings.Contains(rendered, icon) {
					t.Errorf("Rendered entry should show only the outcome line, got %q", rendered)
				}
			}
		})
	}
}

func TestSurface_TallyCountsOutcomes(t *testing.T) {
	m, _ := newTestSurface(t)

	if m.renderTally() != "" {
		t.Errorf("Expected no tally before any drop, got %q", m.renderTally())
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 24})
	m, _ = update(t, m, paste("/in/a.png\n/in/b.png\n/in/missing.png\n'/in/broken.png"))

	tally := m.renderTally()
	for _, want := range []string{"1 resized", "1 unchanged", "2 failed"} {
		if !strings.Contains(tally, want) {
			t.Errorf("Expected %q in tally %q", want, tally)
		}
	}
	if !strings.Contains(m.View(), "1 resized") {
		t.Error("Tally should be visible in the footer")
	}
	if strings.Contains(m.renderLog(), "1 resized") {
		t.Error("Tally must not be part of the log region")
	}
}

func TestSurface_ShowsWatchedFolder(t *testing.T) {
	m, _ := newTestSurface(t)
	m.watching = "/drops"

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 24})
	if !strings.Contains(m.View(), "Watching /drops") {
		t.Error("Expected the watched folder in the footer")
	}

	m, _ = update(t, m, sourceFailedMsg{err: errors.New("no such directory")})
	if strings.Contains(m.View(), "Watching /drops") {
		t.Error("Failed drop folder should no longer be shown as watched")
	}
	if !strings.Contains(m.status, "Drop folder disabled: no such directory") {
		t.Errorf("Expected drop folder status, got %q", m.status)
	}
	if m.actions.Len() != 0 {
		t.Errorf("Source failure must not add entries, got %d", m.actions.Len())
	}
}
