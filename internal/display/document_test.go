package display

import (
	"sync"
	"testing"
)

func TestStatePresentation(t *testing.T) {
	tests := []struct {
		state     State
		wantName  string
		wantText  string
		wantClass string
	}{
		{StateActive, "ACTIVE", "LIVE", "active"},
		{StateOffline, "OFFLINE", "OFFLINE", "inactive"},
		{StateError, "ERROR", "CONNECTION ERROR", "inactive"},
		{State(0), "UNKNOWN", "", "inactive"},
	}

	for _, tt := range tests {
		t.Run(tt.wantName, func(t *testing.T) {
			if got := tt.state.String(); got != tt.wantName {
				t.Errorf("String() = %q, want %q", got, tt.wantName)
			}
			if got := tt.state.Text(); got != tt.wantText {
				t.Errorf("Text() = %q, want %q", got, tt.wantText)
			}
			if got := tt.state.Class(); got != tt.wantClass {
				t.Errorf("Class() = %q, want %q", got, tt.wantClass)
			}
		})
	}
}

func TestDocument(t *testing.T) {
	t.Run("new document has empty slots", func(t *testing.T) {
		d := NewDocument(25)

		v := d.View()
		if len(v.Slots) != 25 {
			t.Fatalf("len(Slots) = %d, want 25", len(v.Slots))
		}
		for i, slot := range v.Slots {
			if slot.Position != i+1 {
				t.Errorf("Slots[%d].Position = %d, want %d", i, slot.Position, i+1)
			}
			if slot.ID != SlotElementID(i+1) {
				t.Errorf("Slots[%d].ID = %q, want %q", i, slot.ID, SlotElementID(i+1))
			}
			if slot.Username != "" || slot.Points != "" {
				t.Errorf("Slots[%d] = %+v, want empty", i, slot)
			}
		}
		if v.Status == nil || v.Status.ID != StatusElementID {
			t.Errorf("Status = %+v, want element %q", v.Status, StatusElementID)
		}
	})

	t.Run("set and clear slot", func(t *testing.T) {
		d := NewDocument(3)
		d.SetSlot(2, "alice", "42")

		slot, ok := d.Slot(2)
		if !ok {
			t.Fatal("Slot(2) missing")
		}
		if slot.Username != "alice" || slot.Points != "42" {
			t.Errorf("Slot(2) = %+v, want alice/42", slot)
		}

		d.ClearSlot(2)
		slot, _ = d.Slot(2)
		if slot.Username != "" || slot.Points != "" {
			t.Errorf("Slot(2) after clear = %+v, want empty", slot)
		}
	})

	t.Run("status presentation", func(t *testing.T) {
		d := NewDocument(1)
		d.SetStatus(StateError)

		status, ok := d.Status()
		if !ok {
			t.Fatal("Status() missing")
		}
		if status.Text != "CONNECTION ERROR" || status.Class != "inactive" {
			t.Errorf("Status() = %+v, want CONNECTION ERROR/inactive", status)
		}
	})

	t.Run("missing elements are ignored", func(t *testing.T) {
		d := NewDocument(5, WithoutStatus(), WithoutSlots(3))

		d.SetStatus(StateActive)
		d.SetSlot(3, "ghost", "1")
		d.SetSlot(26, "ghost", "1")
		d.ClearSlot(3)

		if _, ok := d.Status(); ok {
			t.Error("Status() present, want missing")
		}
		if d.HasSlot(3) {
			t.Error("HasSlot(3) = true, want false")
		}
		if _, ok := d.Slot(26); ok {
			t.Error("Slot(26) present, want missing")
		}
		if got := len(d.View().Slots); got != 4 {
			t.Errorf("len(Slots) = %d, want 4", got)
		}
		if d.View().Status != nil {
			t.Error("View().Status should be nil")
		}
	})

	t.Run("view is a copy", func(t *testing.T) {
		d := NewDocument(1)
		v := d.View()
		v.Slots[0].Username = "mutated"
		v.Status.Text = "mutated"

		slot, _ := d.Slot(1)
		if slot.Username != "" {
			t.Errorf("Slot(1).Username = %q, want empty", slot.Username)
		}
		status, _ := d.Status()
		if status.Text != "" {
			t.Errorf("Status().Text = %q, want empty", status.Text)
		}
	})

	t.Run("concurrent writers", func(t *testing.T) {
		d := NewDocument(25)

		var wg sync.WaitGroup
		for w := 0; w < 4; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for p := 1; p <= 25; p++ {
					d.SetSlot(p, "user", "1")
					d.SetStatus(StateActive)
					_ = d.View()
				}
			}()
		}
		wg.Wait()

		for p := 1; p <= 25; p++ {
			if slot, _ := d.Slot(p); slot.Username != "user" {
				t.Errorf("Slot(%d).Username = %q, want %q", p, slot.Username, "user")
			}
		}
	})
}
