package display

import (
	"fmt"
	"sort"
	"sync"
)

// Element ids of the host document.
const (
	StatusElementID = "stream-status"
	UsernameField   = "username"
	PointsField     = "points"
)

// SlotElementID returns the element id of the slot at position.
func SlotElementID(position int) string {
	return fmt.Sprintf("slot-%d", position)
}

// StatusView is the visible content of the status element.
type StatusView struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Class string `json:"class"`
}

// SlotView is the visible content of one slot element.
type SlotView struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
	Username string `json:"username"`
	Points   string `json:"points"`
}

// View is a copy of everything a Document currently shows.
type View struct {
	Status *StatusView `json:"status,omitempty"`
	Slots  []SlotView  `json:"slots"`
}

// Document is an in-memory host document. Elements are fixed at construction;
// writes addressed to elements that do not exist are dropped.
type Document struct {
	mu     sync.RWMutex
	status *StatusView
	slots  map[int]*SlotView
}

// DocumentOption configures a Document.
type DocumentOption func(*Document)

// WithoutStatus builds the document with no status element.
func WithoutStatus() DocumentOption {
	return func(d *Document) {
		d.status = nil
	}
}

// WithoutSlots omits the slot elements at the given positions.
func WithoutSlots(positions ...int) DocumentOption {
	return func(d *Document) {
		for _, p := range positions {
			delete(d.slots, p)
		}
	}
}

// NewDocument creates a document with a status element and slots 1..slotCount.
func NewDocument(slotCount int, opts ...DocumentOption) *Document {
	d := &Document{
		status: &StatusView{ID: StatusElementID},
		slots:  make(map[int]*SlotView, slotCount),
	}
	for p := 1; p <= slotCount; p++ {
		d.slots[p] = &SlotView{ID: SlotElementID(p), Position: p}
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// SetStatus implements Surface.
func (d *Document) SetStatus(state State) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.status == nil {
		return
	}
	d.status.Text = state.Text()
	d.status.Class = state.Class()
}

// SetSlot implements Surface.
func (d *Document) SetSlot(position int, username, points string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	slot, ok := d.slots[position]
	if !ok {
		return
	}
	slot.Username = username
	slot.Points = points
}

// ClearSlot implements Surface.
func (d *Document) ClearSlot(position int) {
	d.SetSlot(position, "", "")
}

// HasSlot reports whether a slot element exists at position.
func (d *Document) HasSlot(position int) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.slots[position]
	return ok
}

// Slot returns the content of the slot at position.
func (d *Document) Slot(position int) (SlotView, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	slot, ok := d.slots[position]
	if !ok {
		return SlotView{}, false
	}
	return *slot, true
}

// Status returns the content of the status element.
func (d *Document) Status() (StatusView, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.status == nil {
		return StatusView{}, false
	}
	return *d.status, true
}

// View returns a copy of the document ordered by slot position.
func (d *Document) View() View {
	d.mu.RLock()
	defer d.mu.RUnlock()

	v := View{Slots: make([]SlotView, 0, len(d.slots))}
	if d.status != nil {
		s := *d.status
		v.Status = &s
	}
	for _, slot := range d.slots {
		v.Slots = append(v.Slots, *slot)
	}
	sort.Slice(v.Slots, func(i, j int) bool {
		return v.Slots[i].Position < v.Slots[j].Position
	})
	return v
}
