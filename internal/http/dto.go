package http

import (
	"time"

	"agenda/internal/core"
	"agenda/internal/services"
)

type taskJSON struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	DueDate     string    `json:"dueDate"`
	List        string    `json:"list"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toTaskJSON(t core.Task) taskJSON {
	return taskJSON{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		DueDate:     t.DueDate.String(),
		List:        string(t.List),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toTaskListJSON(tasks []core.Task) []taskJSON {
	out := make([]taskJSON, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskJSON(t))
	}
	return out
}

type eventJSON struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	AllDay      bool    `json:"allDay"`
	Type        string  `json:"type"`
	Color       *string `json:"color"`
}

func toEventJSON(e core.CalendarEvent) eventJSON {
	var color *string
	if e.Color != "" {
		color = &e.Color
	}
	return eventJSON{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date.String(),
		AllDay:      e.AllDay,
		Type:        e.Type,
		Color:       color,
	}
}

type appointmentJSON struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Description string `json:"description"`
	Location    string `json:"location"`
	EventID     int64  `json:"eventId"`
	Color       string `json:"color"`
}

func toAppointmentJSON(a core.Appointment) appointmentJSON {
	return appointmentJSON{
		ID:          a.ID,
		Title:       a.Title,
		Date:        a.Date.String(),
		StartTime:   a.StartTime,
		EndTime:     a.EndTime,
		Description: a.Description,
		Location:    a.Location,
		EventID:     a.EventID,
		Color:       a.Color,
	}
}

func toAppointmentListJSON(appointments []core.Appointment) []appointmentJSON {
	out := make([]appointmentJSON, 0, len(appointments))
	for _, a := range appointments {
		out = append(out, toAppointmentJSON(a))
	}
	return out
}

type dailyResponse struct {
	Date         string            `json:"date"`
	Events       []eventJSON       `json:"events"`
	Appointments []appointmentJSON `json:"appointments"`
}

type slotJSON struct {
	Start        string            `json:"start"`
	Appointments []appointmentJSON `json:"appointments"`
	Columns      int               `json:"columns"`
	SuggestedEnd string            `json:"suggestedEnd"`
}

type scheduleResponse struct {
	Date      string     `json:"date"`
	Morning   []slotJSON `json:"morning"`
	Afternoon []slotJSON `json:"afternoon"`
}

func toScheduleResponse(ds services.DaySchedule) scheduleResponse {
	convert := func(slots []services.Slot) []slotJSON {
		out := make([]slotJSON, 0, len(slots))
		for _, slot := range slots {
			out = append(out, slotJSON{
				Start:        slot.Start,
				Appointments: toAppointmentListJSON(slot.Appointments),
				Columns:      slot.Columns,
				SuggestedEnd: slot.SuggestedEnd,
			})
		}
		return out
	}
	return scheduleResponse{
		Date:      ds.Date,
		Morning:   convert(ds.Morning),
		Afternoon: convert(ds.Evening),
	}
}

type transactionJSON struct {
	ID          int64     `json:"id"`
	Kind        string    `json:"kind"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Date        string    `json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toTransactionJSON(tx core.Transaction) transactionJSON {
	return transactionJSON{
		ID:          tx.ID,
		Kind:        string(tx.Kind),
		Amount:      tx.Amount.Float(),
		Description: tx.Description,
		Category:    tx.Category,
		Date:        tx.Date.String(),
		CreatedAt:   tx.CreatedAt,
	}
}

func toTransactionListJSON(txs []core.Transaction) []transactionJSON {
	out := make([]transactionJSON, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionJSON(tx))
	}
	return out
}

type statementTotalsJSON struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

type statementResponse struct {
	Transactions []transactionJSON   `json:"transactions"`
	Totals       statementTotalsJSON `json:"totals"`
	Balance      float64             `json:"balance"`
}

func toStatementResponse(st services.Statement) statementResponse {
	return statementResponse{
		Transactions: toTransactionListJSON(st.Transactions),
		Totals: statementTotalsJSON{
			Income:  float64(st.Totals.IncomeCents) / 100,
			Expense: float64(st.Totals.ExpenseCents) / 100,
		},
		Balance: float64(st.BalanceCents) / 100,
	}
}
