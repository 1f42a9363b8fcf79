package domain

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusAssigned   TaskStatus = "ASSIGNED"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusComplete   TaskStatus = "COMPLETE"
)

type RoomType string

const (
	RoomTypeStandard RoomType = "STANDARD"
	RoomTypeDeluxe   RoomType = "DELUXE"
	RoomTypeSuite    RoomType = "SUITE"
)

// Task represents one room requiring cleaning after a checkout.
type Task struct {
	ID            string        `json:"id"`
	RoomNumber    string        `json:"room_number"`
	RoomType      RoomType      `json:"room_type"`
	Floor         int           `json:"floor"`
	CheckoutTime  time.Time     `json:"checkout_time"`
	NextArrival   *time.Time    `json:"next_arrival,omitempty"`
	NextGuestVIP  bool          `json:"next_guest_vip"`
	NextGuestName string        `json:"next_guest_name,omitempty"`
	Preferences   []string      `json:"preferences,omitempty"`
	Priority      int           `json:"priority"` // recomputed, never hand-edited
	PriorityLevel PriorityLevel `json:"priority_level"`
	Status        TaskStatus    `json:"status"`
	AssignedTo    []string      `json:"assigned_to,omitempty"` // exactly two worker ids once assigned
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Terminal reports whether the task can no longer change state.
func (t *Task) Terminal() bool {
	return t.Status == TaskStatusComplete
}

// Rescorable reports whether the priority sweep may touch this task.
func (t *Task) Rescorable() bool {
	return t.Status == TaskStatusPending || t.Status == TaskStatusAssigned
}

// CheckoutInput carries the fields a checkout event provides. RoomType and
// Floor are derived from the room number by the dispatcher before the
// registry ever sees the input.
type CheckoutInput struct {
	RoomNumber    string     `json:"room_number"`
	RoomType      RoomType   `json:"room_type"`
	Floor         int        `json:"floor"`
	CheckoutTime  time.Time  `json:"checkout_time"`
	NextArrival   *time.Time `json:"next_arrival,omitempty"`
	NextGuestVIP  bool       `json:"next_guest_vip"`
	NextGuestName string     `json:"next_guest_name,omitempty"`
	Preferences   []string   `json:"preferences,omitempty"`
}
