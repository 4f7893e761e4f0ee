package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"agenda/internal/amqp"
	"agenda/internal/auth"
	"agenda/internal/core"
	"agenda/internal/services"
)

const defaultTransactionLimit = 50

type transactionCreateRequest struct {
	Kind        string      `json:"kind"`
	Amount      json.Number `json:"amount"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Date        string      `json:"date"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	owner, _ := auth.OwnerFrom(r.Context())

	limit := defaultTransactionLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	transactions, err := s.repo.ListRecentTransactions(r.Context(), owner, limit)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionListJSON(transactions))
}

// handleMonthlyStatement serves the month's transactions newest first, with
// per-kind totals and the signed balance.
func (s *Server) handleMonthlyStatement(w http.ResponseWriter, r *http.Request) {
	owner, _ := auth.OwnerFrom(r.Context())

	year, month, err := queryYearMonth(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	dr, err := core.MonthRange(year, month)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid month")
		return
	}

	key := monthKey(owner, year, month)
	if resp, ok := s.statementCache.Get(key); ok {
		respondJSON(w, http.StatusOK, resp)
		return
	}

	transactions, err := s.repo.ListTransactions(r.Context(), owner, dr)
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	resp := toStatementResponse(services.BuildStatement(transactions))
	s.statementCache.Set(key, resp)
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	owner, _ := auth.OwnerFrom(r.Context())

	var req transactionCreateRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount.String())
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid amount")
		return
	}
	date, err := core.ParseDate(req.Date)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	tx := core.Transaction{
		Kind:        core.TransactionKind(req.Kind),
		Amount:      core.Money{Cents: cents},
		Description: req.Description,
		Category:    req.Category,
		Date:        date,
		OwnerID:     owner,
	}
	if err := tx.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.repo.CreateTransaction(r.Context(), tx)
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	s.invalidateStatement(owner, created.Date)
	s.publishSync(r, created.ID, amqp.ActionCreate)
	slog.InfoContext(r.Context(), "Transaction created",
		"transaction_id", created.ID,
		"kind", created.Kind,
		"amount_cents", created.Amount.Cents)
	respondJSON(w, http.StatusCreated, toTransactionJSON(created))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	owner, _ := auth.OwnerFrom(r.Context())

	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	tx, err := s.repo.GetTransaction(r.Context(), owner, id)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	if err := s.repo.DeleteTransaction(r.Context(), owner, id); err != nil {
		s.storeError(w, r, err)
		return
	}

	s.invalidateStatement(owner, tx.Date)
	s.publishSync(r, id, amqp.ActionDelete)
	w.WriteHeader(http.StatusNoContent)
}

// publishSync is best effort: the periodic catch-up pass of the worker covers
// lost messages.
func (s *Server) publishSync(r *http.Request, id int64, action string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTransactionSync(r.Context(), id, action); err != nil {
		slog.WarnContext(r.Context(), "Failed to publish sync message",
			"error", err,
			"transaction_id", id,
			"action", action)
	}
}
