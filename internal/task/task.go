package task

import (
	"errors"
	"slices"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

// NoIndex tells Upsert to append a new task instead of editing one.
const NoIndex = -1

const clockLayout = "15:04"

var (
	ErrEmptyContent    = errors.New("task content is empty")
	ErrIndexOutOfRange = errors.New("task index out of range")
)

type Task struct {
	ID        string      `json:"id,omitempty"`
	Content   string      `json:"content"`
	Completed bool        `json:"completed"`
	Date      *civil.Date `json:"date"`
	StartTime *civil.Time `json:"start_time"`
	EndTime   *civil.Time `json:"end_time"`
}

// Store owns every task in insertion order plus the note text. Queries
// return indices into Tasks; an index stays valid until the next Upsert
// append or Delete.
type Store struct {
	Tasks []Task `json:"tasks"`
	Notes string `json:"notes"`
}

// Entry pairs a task snapshot with its index in the owning Store.
type Entry struct {
	Index int
	Task  Task
}

// Draft is the raw user input behind an add or edit.
type Draft struct {
	Content string
	Date    *civil.Date
	Start   string
	End     string
}

type Stats struct {
	Total   int
	Pending int
	Done    int
}

func NewStore() *Store {
	return &Store{Tasks: []Task{}}
}

// EnsureIDs assigns a surrogate id to every task that lacks one and reports
// whether anything changed.
func (s *Store) EnsureIDs() bool {
	changed := false
	for i := range s.Tasks {
		if s.Tasks[i].ID == "" {
			s.Tasks[i].ID = uuid.NewString()
			changed = true
		}
	}
	return changed
}

func (s *Store) ForDate(date civil.Date) []Entry {
	var out []Entry
	for i, t := range s.Tasks {
		if t.Date != nil && *t.Date == date {
			out = append(out, Entry{Index: i, Task: t})
		}
	}
	return out
}

// Scheduled is the display list for a date: ForDate ordered by SortForDisplay.
func (s *Store) Scheduled(date civil.Date) []Entry {
	entries := s.ForDate(date)
	SortForDisplay(entries)
	return entries
}

func (s *Store) Overdue(today civil.Date) []Entry {
	var out []Entry
	for i, t := range s.Tasks {
		if t.Completed || t.Date == nil {
			continue
		}
		if t.Date.Before(today) {
			out = append(out, Entry{Index: i, Task: t})
		}
	}
	return out
}

// SortForDisplay puts timed tasks first, ascending by start time. Untimed
// tasks keep their relative order. End times are ignored.
func SortForDisplay(entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		sa, sb := a.Task.StartTime, b.Task.StartTime
		switch {
		case sa != nil && sb != nil:
			return compareClock(*sa, *sb)
		case sa != nil:
			return -1
		case sb != nil:
			return 1
		}
		return 0
	})
}

func (s *Store) Toggle(index int) bool {
	if !s.valid(index) {
		return false
	}
	s.Tasks[index].Completed = !s.Tasks[index].Completed
	return true
}

// Upsert appends a new task when index is NoIndex and edits the task at index
// otherwise. It returns the index written. Malformed times are stored as
// absent; an edit with a nil Draft.Date keeps the task's date.
func (s *Store) Upsert(index int, d Draft) (int, error) {
	content := strings.TrimSpace(d.Content)
	if content == "" {
		return index, ErrEmptyContent
	}
	start, end := ParseClock(d.Start), ParseClock(d.End)

	if index == NoIndex {
		s.Tasks = append(s.Tasks, Task{
			ID:        uuid.NewString(),
			Content:   content,
			Date:      d.Date,
			StartTime: start,
			EndTime:   end,
		})
		return len(s.Tasks) - 1, nil
	}
	if !s.valid(index) {
		return index, ErrIndexOutOfRange
	}
	t := &s.Tasks[index]
	t.Content = content
	t.StartTime = start
	t.EndTime = end
	if d.Date != nil {
		t.Date = d.Date
	}
	return index, nil
}

func (s *Store) Delete(index int) bool {
	if !s.valid(index) {
		return false
	}
	s.Tasks = slices.Delete(s.Tasks, index, index+1)
	return true
}

func (s *Store) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(s.Tasks, func(t Task) bool { return t.ID == id })
}

func (s *Store) valid(index int) bool {
	return index >= 0 && index < len(s.Tasks)
}

func Count(entries []Entry) Stats {
	st := Stats{Total: len(entries)}
	for _, e := range entries {
		if e.Task.Completed {
			st.Done++
		}
	}
	st.Pending = st.Total - st.Done
	return st
}

// ParseClock reads a 24-hour HH:MM literal. Empty or malformed text yields nil.
func ParseClock(v string) *civil.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	parsed, err := time.Parse(clockLayout, v)
	if err != nil {
		return nil
	}
	ct := civil.TimeOf(parsed)
	return &ct
}

func FormatClock(t *civil.Time) string {
	if t == nil {
		return ""
	}
	return time.Date(0, 1, 1, t.Hour, t.Minute, 0, 0, time.UTC).Format(clockLayout)
}

func compareClock(a, b civil.Time) int {
	ka := [4]int{a.Hour, a.Minute, a.Second, a.Nanosecond}
	kb := [4]int{b.Hour, b.Minute, b.Second, b.Nanosecond}
	for i := range ka {
		if ka[i] != kb[i] {
			if ka[i] < kb[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}
