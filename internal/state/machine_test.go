package state

import (
	"context"
	"reflect"
	"testing"

	"github.com/langchou/autoprime/internal/models"
)

func TestMachine_Transitions(t *testing.T) {
	tests := []struct {
		from    string
		event   string
		wantErr bool
		to      string
	}{
		{models.BookingPending, EventConfirm, false, models.BookingConfirmed},
		{models.BookingPending, EventCancel, false, models.BookingCancelled},
		{models.BookingConfirmed, EventCancel, false, models.BookingCancelled},
		{models.BookingConfirmed, EventComplete, false, models.BookingCompleted},
		{models.BookingPending, EventComplete, true, models.BookingPending},
		{models.BookingCancelled, EventConfirm, true, models.BookingCancelled},
		{models.BookingCompleted, EventCancel, true, models.BookingCompleted},
	}

	for _, tt := range tests {
		m := NewMachine(1, tt.from, nil)
		err := m.Trigger(context.Background(), tt.event)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s --%s--> err = %v, wantErr %v", tt.from, tt.event, err, tt.wantErr)
		}
		if got := m.CurrentState(); got != tt.to {
			t.Errorf("%s --%s--> %s, want %s", tt.from, tt.event, got, tt.to)
		}
	}
}

func TestMachine_Callback(t *testing.T) {
	var gotID int64
	var gotFrom, gotTo string
	m := NewMachine(17, models.BookingPending, func(id int64, from, to string) {
		gotID, gotFrom, gotTo = id, from, to
	})

	if err := m.Trigger(context.Background(), EventConfirm); err != nil {
		t.Fatal(err)
	}
	if gotID != 17 || gotFrom != models.BookingPending || gotTo != models.BookingConfirmed {
		t.Errorf("callback got %d %s %s", gotID, gotFrom, gotTo)
	}
}

func TestMachine_Available(t *testing.T) {
	m := ForBooking(&models.Booking{ID: 3, Status: models.BookingConfirmed})
	if got := m.Available(); !reflect.DeepEqual(got, []string{EventCancel, EventComplete}) {
		t.Errorf("Available = %v", got)
	}
	if !m.CanCancel() || m.CanConfirm() {
		t.Error("unexpected guards for CONFIRMED")
	}

	done := ForBooking(&models.Booking{Status: models.BookingCancelled})
	if len(done.Available()) != 0 || done.CanCancel() {
		t.Error("cancelled booking still has transitions")
	}

	unknown := ForBooking(&models.Booking{Status: "WHATEVER"})
	if unknown.CurrentState() != models.BookingPending {
		t.Errorf("unknown status mapped to %s", unknown.CurrentState())
	}
}

func TestEventFor(t *testing.T) {
	if e, ok := EventFor(models.BookingCompleted); !ok || e != EventComplete {
		t.Errorf("got %s %v", e, ok)
	}
	if _, ok := EventFor(models.BookingPending); ok {
		t.Error("PENDING should not be a target")
	}
}
