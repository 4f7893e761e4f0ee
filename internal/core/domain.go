package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionKind = "INCOME"
	Expense TransactionKind = "EXPENSE"
)

const (
	ListGoals     TaskList = "GOALS"
	ListImportant TaskList = "IMPORTANT"
	ListTomorrow  TaskList = "TOMORROW"
)

// DefaultEventType is assigned to calendar events created without a type.
const DefaultEventType = "PERSONAL"

type (
	TransactionKind string

	TaskList string

	Task struct {
		ID          int64
		Title       string
		Description string
		Completed   bool
		DueDate     Date
		List        TaskList
		OwnerID     string
		CreatedAt   time.Time
		UpdatedAt   time.Time
	}

	CalendarEvent struct {
		ID          int64
		Title       string
		Description string
		Date        Date
		AllDay      bool
		Type        string
		Color       string // empty means no explicit color
		OwnerID     string
	}

	Appointment struct {
		ID          int64
		Title       string
		Date        Date
		StartTime   string // "HH:MM"
		EndTime     string // "HH:MM"
		Description string
		Location    string
		EventID     int64 // optional link to a CalendarEvent; stored, never joined
		Color       string
		OwnerID     string
	}

	Transaction struct {
		ID          int64
		Kind        TransactionKind
		Amount      Money
		Description string
		Category    string
		Date        Date
		OwnerID     string
		CreatedAt   time.Time
	}
)

var (
	ErrEmptyTitle       = errors.New("empty title")
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidKind      = errors.New("invalid transaction kind")
	ErrInvalidList      = errors.New("invalid task list")
	ErrInvalidClock     = errors.New("invalid time, expected HH:MM")
	ErrEndBeforeStart   = errors.New("end time before start time")
)

func (k TransactionKind) Validate() error {
	switch k {
	case Income, Expense:
		return nil
	}
	return ErrInvalidKind
}

func (l TaskList) Validate() error {
	switch l {
	case ListGoals, ListImportant, ListTomorrow:
		return nil
	}
	return ErrInvalidList
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if len(t.Title) > 200 {
		return errors.New("title too long (max 200 characters)")
	}
	if t.DueDate.IsZero() {
		return ErrInvalidDate
	}
	return t.List.Validate()
}

func (e CalendarEvent) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrEmptyTitle
	}
	if len(e.Title) > 200 {
		return errors.New("title too long (max 200 characters)")
	}
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Validate rejects malformed appointments at creation time so that the
// schedule grid never has to silently drop a stored row.
func (a Appointment) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return ErrEmptyTitle
	}
	if len(a.Title) > 200 {
		return errors.New("title too long (max 200 characters)")
	}
	if a.Date.IsZero() {
		return ErrInvalidDate
	}
	start, err := ParseClock(a.StartTime)
	if err != nil {
		return err
	}
	end, err := ParseClock(a.EndTime)
	if err != nil {
		return err
	}
	// An end clock smaller than the start is only accepted for late-night
	// appointments rolling past midnight (e.g. 23:45 -> 00:15).
	if end <= start && start < 23*60 {
		return ErrEndBeforeStart
	}
	return nil
}

func (tx Transaction) Validate() error {
	if err := tx.Kind.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(tx.Description) == "" {
		return ErrEmptyDescription
	}
	if len(tx.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if strings.TrimSpace(tx.Category) == "" {
		return errors.New("empty category")
	}
	if tx.Date.IsZero() {
		return ErrInvalidDate
	}
	return tx.Amount.Validate()
}
