// Package state 预订状态流转
package state

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/looplab/fsm"

	"github.com/langchou/autoprime/internal/models"
)

// 事件常量
const (
	EventConfirm  = "confirm"
	EventCancel   = "cancel"
	EventComplete = "complete"
)

// Machine 单个预订的状态机
type Machine struct {
	mu            sync.RWMutex
	bookingID     int64
	fsm           *fsm.FSM
	onStateChange func(bookingID int64, from, to string)
}

// NewMachine 以预订当前状态创建状态机，未知状态按 PENDING 处理
func NewMachine(bookingID int64, initialState string, onStateChange func(bookingID int64, from, to string)) *Machine {
	switch initialState {
	case models.BookingPending, models.BookingConfirmed, models.BookingCancelled, models.BookingCompleted:
	default:
		initialState = models.BookingPending
	}

	m := &Machine{
		bookingID:     bookingID,
		onStateChange: onStateChange,
	}

	m.fsm = fsm.NewFSM(
		initialState,
		fsm.Events{
			{Name: EventConfirm, Src: []string{models.BookingPending}, Dst: models.BookingConfirmed},
			{Name: EventCancel, Src: []string{models.BookingPending, models.BookingConfirmed}, Dst: models.BookingCancelled},
			{Name: EventComplete, Src: []string{models.BookingConfirmed}, Dst: models.BookingCompleted},
		},
		fsm.Callbacks{
			"after_event": func(ctx context.Context, e *fsm.Event) {
				if m.onStateChange != nil && e.Src != e.Dst {
					m.onStateChange(m.bookingID, e.Src, e.Dst)
				}
			},
		},
	)

	return m
}

// ForBooking 以预订创建状态机
func ForBooking(b *models.Booking) *Machine {
	return NewMachine(b.ID, b.Status, nil)
}

// CurrentState 当前状态
func (m *Machine) CurrentState() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fsm.Current()
}

// Trigger 触发事件，非法流转返回错误
func (m *Machine) Trigger(ctx context.Context, event string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fsm.Event(ctx, event); err != nil {
		return fmt.Errorf("trigger event %s: %w", event, err)
	}
	return nil
}

// CanTransition 检查是否可以触发事件
func (m *Machine) CanTransition(event string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fsm.Can(event)
}

// CanCancel 用户能否取消
func (m *Machine) CanCancel() bool { return m.CanTransition(EventCancel) }

// CanConfirm 房东能否确认
func (m *Machine) CanConfirm() bool { return m.CanTransition(EventConfirm) }

// CanComplete 房东能否标记完成
func (m *Machine) CanComplete() bool { return m.CanTransition(EventComplete) }

// Available 当前可触发的事件，按名称排序
func (m *Machine) Available() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	events := m.fsm.AvailableTransitions()
	sort.Strings(events)
	return events
}

// EventFor 返回到达目标状态的事件
func EventFor(target string) (string, bool) {
	switch target {
	case models.BookingConfirmed:
		return EventConfirm, true
	case models.BookingCancelled:
		return EventCancel, true
	case models.BookingCompleted:
		return EventComplete, true
	}
	return "", false
}
