package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
)

const ownerHeader = "X-User-ID"

type createUserRequest struct {
	Name string `json:"name"`
}

type userResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
}

type createTransactionRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Type     string          `json:"type"`
	Category string          `json:"category"`
	Date     string          `json:"date"`
	Note     string          `json:"note"`
}

type transactionResponse struct {
	ID        string          `json:"id"`
	OwnerID   string          `json:"ownerId"`
	Amount    decimal.Decimal `json:"amount"`
	Type      string          `json:"type"`
	Category  string          `json:"category"`
	Date      string          `json:"date"`
	Note      string          `json:"note,omitempty"`
	CreatedAt string          `json:"createdAt"`
}

type categoryTotalResponse struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

type summaryResponse struct {
	Year             int                     `json:"year"`
	Month            int                     `json:"month"`
	TotalIncome      decimal.Decimal         `json:"totalIncome"`
	TotalExpense     decimal.Decimal         `json:"totalExpense"`
	NetSavings       decimal.Decimal         `json:"netSavings"`
	ExpenseBreakdown []categoryTotalResponse `json:"expenseBreakdown"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusUnprocessableEntity, "name is required")
		return
	}

	user, err := s.users.CreateUser(r.Context(), core.User{Name: strings.TrimSpace(req.Name)})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, userResponse{
		ID:        user.ID,
		Name:      user.Name,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	})
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	typ, err := core.ParseTransactionType(req.Type)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	category, err := core.ParseCategory(req.Category)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "date must be YYYY-MM-DD")
		return
	}

	tx, err := s.transactions.Create(r.Context(), ownerID, req.Amount, typ, category, date, req.Note)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTransactionResponse(tx))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	txs, err := s.transactions.ListAll(r.Context(), ownerID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponses(txs))
}

func (s *Server) handleListByType(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	typ, err := core.ParseTransactionType(r.PathValue("type"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	txs, err := s.transactions.ListByType(r.Context(), ownerID, typ)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponses(txs))
}

func (s *Server) handleListByCategory(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	category, err := core.ParseCategory(r.PathValue("category"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	txs, err := s.transactions.ListByCategory(r.Context(), ownerID, category)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponses(txs))
}

func (s *Server) handleListByDateRange(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	start, err := parseDate(r.URL.Query().Get("startDate"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "startDate must be YYYY-MM-DD")
		return
	}
	end, err := parseDate(r.URL.Query().Get("endDate"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "endDate must be YYYY-MM-DD")
		return
	}

	txs, err := s.transactions.ListByDateRange(r.Context(), ownerID, start, end)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponses(txs))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "year must be a number")
		return
	}
	month, err := strconv.Atoi(r.PathValue("month"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "month must be a number")
		return
	}

	s.writeSummary(w, r, ownerID, year, month)
}

func (s *Server) handleCurrentSummary(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	now := time.Now().UTC()
	s.writeSummary(w, r, ownerID, now.Year(), int(now.Month()))
}

func (s *Server) writeSummary(w http.ResponseWriter, r *http.Request, ownerID string, year, month int) {
	summary, err := s.summaries.Assemble(r.Context(), ownerID, year, month)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	resp := summaryResponse{
		Year:             summary.Year,
		Month:            summary.Month,
		TotalIncome:      summary.TotalIncome,
		TotalExpense:     summary.TotalExpense,
		NetSavings:       summary.NetSavings,
		ExpenseBreakdown: make([]categoryTotalResponse, 0, len(summary.ExpenseBreakdown)),
	}
	for _, ct := range summary.ExpenseBreakdown {
		resp.ExpenseBreakdown = append(resp.ExpenseBreakdown, categoryTotalResponse{
			Category: string(ct.Category),
			Total:    ct.Total,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	if err := s.transactions.Delete(r.Context(), ownerID, r.PathValue("id")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func requireOwner(w http.ResponseWriter, r *http.Request) (string, bool) {
	ownerID := r.Header.Get(ownerHeader)
	if ownerID == "" {
		writeError(w, http.StatusUnauthorized, "missing "+ownerHeader+" header")
		return "", false
	}
	return ownerID, true
}

func toTransactionResponse(tx core.Transaction) transactionResponse {
	return transactionResponse{
		ID:        tx.ID,
		OwnerID:   tx.OwnerID,
		Amount:    tx.Amount,
		Type:      string(tx.Type),
		Category:  string(tx.Category),
		Date:      tx.Date.String(),
		Note:      tx.Note,
		CreatedAt: tx.CreatedAt.Format(time.RFC3339),
	}
}

func toTransactionResponses(txs []core.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionResponse(tx))
	}
	return out
}
