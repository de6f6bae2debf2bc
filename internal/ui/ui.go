package ui

import (
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"keep/internal/config"
	"keep/internal/notes"
	"keep/internal/storage"
	"keep/internal/task"
)

type view int

const (
	viewScheduled view = iota
	viewNotes
)

type mode int

const (
	modeList mode = iota
	modeInput
)

const (
	fieldContent = iota
	fieldStart
	fieldEnd
	fieldCount
)

type Model struct {
	store   *task.Store
	backend storage.Backend
	cfg     config.Config
	keys    keyMap
	log     *zap.Logger
	now     func() time.Time

	view       view
	mode       mode
	date       civil.Date
	cursor     int
	fields     [fieldCount]textinput.Model
	field      int
	editing    int
	confirmDel bool
	pendingDel int
	notes      *notes.Buffer
	help       help.Model
	status     string
	width      int
	height     int
	quitting   bool
}

func New(store *task.Store, backend storage.Backend, cfg config.Config, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}
	store.EnsureIDs()
	m := Model{
		store:   store,
		backend: backend,
		cfg:     cfg,
		keys:    newKeyMap(cfg.Keys),
		log:     log,
		now:     time.Now,
		editing: task.NoIndex,
		notes:   notes.New(store.Notes),
		help:    help.New(),
		status:  fmt.Sprintf("Press '%s' to add a task, '%s' for notes.", keyLabel(cfg.Keys.Add), cfg.Keys.SwitchView),
	}
	m.date = m.today()
	m.pendingDel = task.NoIndex

	placeholders := [fieldCount]string{"Task description", "HH:MM", "HH:MM"}
	for i := range m.fields {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.Prompt = ""
		ti.CharLimit = 5
		ti.Width = 5
		if i == fieldContent {
			ti.CharLimit = 256
			ti.Width = 40
		}
		m.fields[i] = ti
	}
	return m
}

func Run(store *task.Store, backend storage.Backend, cfg config.Config, log *zap.Logger) error {
	program := tea.NewProgram(New(store, backend, cfg, log), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m.quit()
		}
		if m.confirmDel {
			return m.updateDeleteConfirm(msg)
		}
		if m.mode == modeInput {
			return m.updateInputMode(msg)
		}
		if m.view == viewNotes {
			return m.updateNotesMode(msg)
		}
		return m.updateListMode(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.fields[fieldContent].Width = max(20, msg.Width/2-10)
	}
	return m, nil
}

func (m Model) updateListMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	entries := m.entries()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.SwitchView):
		return m.switchView(), nil
	case key.Matches(msg, m.keys.Down):
		if len(entries) > 0 {
			m.cursor = wrapIndex(m.cursor+1, len(entries))
		}
	case key.Matches(msg, m.keys.Up):
		if len(entries) > 0 {
			m.cursor = wrapIndex(m.cursor-1, len(entries))
		}
	case key.Matches(msg, m.keys.PrevDay):
		m.date = m.date.AddDays(-1)
		m.cursor = 0
	case key.Matches(msg, m.keys.NextDay):
		m.date = m.date.AddDays(1)
		m.cursor = 0
	case key.Matches(msg, m.keys.Today):
		m.date = m.today()
		m.cursor = 0
	case key.Matches(msg, m.keys.Add):
		return m.startInput(task.NoIndex, task.Task{})
	case key.Matches(msg, m.keys.Edit):
		if len(entries) == 0 {
			m.status = "No tasks to edit"
			return m, nil
		}
		e := entries[clampCursor(m.cursor, len(entries))]
		return m.startInput(e.Index, e.Task)
	case key.Matches(msg, m.keys.Toggle):
		if len(entries) == 0 {
			return m, nil
		}
		e := entries[clampCursor(m.cursor, len(entries))]
		if m.store.Toggle(e.Index) {
			m.persist("Toggled task")
		}
	case key.Matches(msg, m.keys.Delete):
		if len(entries) == 0 {
			return m, nil
		}
		e := entries[clampCursor(m.cursor, len(entries))]
		if !m.cfg.ConfirmDelete {
			m.deleteTask(e.Index)
			return m, nil
		}
		m.confirmDel = true
		m.pendingDel = e.Index
		m.status = fmt.Sprintf("Delete \"%s\"? y/n", e.Task.Content)
	}
	return m, nil
}

func (m Model) updateDeleteConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "n", "N", "esc":
		m.status = "Delete cancelled"
	case "y", "Y", "enter":
		if m.pendingDel == task.NoIndex {
			m.status = "Nothing to delete"
			break
		}
		m.deleteTask(m.pendingDel)
	default:
		return m, nil
	}
	m.confirmDel = false
	m.pendingDel = task.NoIndex
	return m, nil
}

// deleteTask removes the task at store position index. The confirm prompt
// swallows every other key, so an index captured before it is still valid.
func (m *Model) deleteTask(index int) {
	if !m.store.Delete(index) {
		m.status = "Task no longer exists"
		return
	}
	m.persist("Deleted task")
	if m.cursor > 0 {
		m.cursor--
	}
	m.cursor = clampCursor(m.cursor, len(m.entries()))
}

func (m Model) startInput(index int, t task.Task) (tea.Model, tea.Cmd) {
	m.mode = modeInput
	m.editing = index
	m.fields[fieldContent].SetValue(t.Content)
	m.fields[fieldStart].SetValue(task.FormatClock(t.StartTime))
	m.fields[fieldEnd].SetValue(task.FormatClock(t.EndTime))
	if index == task.NoIndex {
		m.status = "Add mode: describe the task, tab to set times, enter to save"
	} else {
		m.status = "Edit mode: tab to switch field, enter to save, esc to cancel"
	}
	return m, m.focusField(fieldContent)
}

func (m *Model) focusField(i int) tea.Cmd {
	m.field = i
	for j := range m.fields {
		m.fields[j].Blur()
	}
	return m.fields[i].Focus()
}

func (m Model) updateInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.resetInput()
		m.status = "Cancelled"
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		return m.submit(), nil
	case key.Matches(msg, m.keys.NextField):
		return m, m.focusField((m.field + 1) % fieldCount)
	}

	if m.field != fieldContent && msg.Type == tea.KeySpace {
		return m, nil
	}
	if m.field != fieldContent && msg.Type == tea.KeyRunes {
		msg.Runes = clockRunes(msg.Runes)
		if len(msg.Runes) == 0 {
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.fields[m.field], cmd = m.fields[m.field].Update(msg)
	return m, cmd
}

// clockRunes keeps only the characters an HH:MM literal can contain.
func clockRunes(rs []rune) []rune {
	out := rs[:0:0]
	for _, r := range rs {
		if (r >= '0' && r <= '9') || r == ':' {
			out = append(out, r)
		}
	}
	return out
}

func (m Model) submit() Model {
	draft := task.Draft{
		Content: m.fields[fieldContent].Value(),
		Start:   m.fields[fieldStart].Value(),
		End:     m.fields[fieldEnd].Value(),
	}
	if m.editing == task.NoIndex {
		date := m.date
		draft.Date = &date
	}
	editing := m.editing
	m.resetInput()

	idx, err := m.store.Upsert(editing, draft)
	switch {
	case errors.Is(err, task.ErrEmptyContent):
		m.status = "Nothing saved: task description is empty"
		return m
	case errors.Is(err, task.ErrIndexOutOfRange):
		m.status = "Task no longer exists"
		return m
	case err != nil:
		m.status = err.Error()
		return m
	}

	if editing == task.NoIndex {
		m.persist("Added task")
	} else {
		m.persist("Updated task")
	}
	m.selectTask(m.store.Tasks[idx].ID)
	return m
}

func (m *Model) resetInput() {
	m.mode = modeList
	m.editing = task.NoIndex
	for i := range m.fields {
		m.fields[i].SetValue("")
		m.fields[i].Blur()
	}
	m.field = fieldContent
}

func (m Model) updateNotesMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.SaveNotes):
		m.flushNotes(true)
	case key.Matches(msg, m.keys.SwitchView):
		return m.switchView(), nil
	case key.Matches(msg, m.keys.Newline):
		m.notes.Newline()
	case key.Matches(msg, m.keys.Backspace):
		m.notes.DeleteBackward()
	case key.Matches(msg, m.keys.DeleteFwd):
		m.notes.DeleteForward()
	case key.Matches(msg, m.keys.Left):
		m.notes.MoveLeft()
	case key.Matches(msg, m.keys.Right):
		m.notes.MoveRight()
	case key.Matches(msg, m.keys.LineUp):
		m.notes.MoveUp()
	case key.Matches(msg, m.keys.LineDown):
		m.notes.MoveDown()
	case key.Matches(msg, m.keys.Home):
		m.notes.MoveHome()
	case key.Matches(msg, m.keys.End):
		m.notes.MoveEnd()
	case msg.Type == tea.KeySpace:
		m.notes.Insert(' ')
	case msg.Type == tea.KeyRunes:
		m.notes.InsertString(string(msg.Runes))
	}
	return m, nil
}

// flushNotes copies the editor text into the store and saves it. Unless
// force is set, an unchanged buffer is not written.
func (m *Model) flushNotes(force bool) {
	text := m.notes.String()
	if !force && text == m.store.Notes {
		return
	}
	m.store.Notes = text
	m.persist("Notes saved")
}

func (m Model) switchView() Model {
	if m.view == viewNotes {
		m.flushNotes(false)
		m.view = viewScheduled
	} else {
		m.view = viewNotes
	}
	m.cursor = 0
	return m
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.flushNotes(false)
	m.quitting = true
	return m, tea.Quit
}

// persist saves the whole store after a mutation. A failed save is logged
// and reported in the status line; the in-memory state stays authoritative.
func (m *Model) persist(okStatus string) {
	if err := m.backend.Save(m.store); err != nil {
		m.log.Warn("save failed", zap.Error(err))
		m.status = "Changes may not have been saved: " + err.Error()
		return
	}
	m.log.Debug("store saved", zap.Int("tasks", len(m.store.Tasks)))
	m.status = okStatus
}

func (m *Model) selectTask(id string) {
	for i, e := range m.entries() {
		if id != "" && e.Task.ID == id {
			m.cursor = i
			return
		}
	}
	m.cursor = clampCursor(m.cursor, len(m.entries()))
}

func (m Model) entries() []task.Entry {
	return m.store.Scheduled(m.date)
}

func (m Model) today() civil.Date {
	return civil.DateOf(m.now())
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}
