package web

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ddsapp/cashflow/internal/ledger"
	"github.com/ddsapp/cashflow/internal/models"
	"github.com/ddsapp/cashflow/internal/taxonomy"
)

type createRuleRequest struct {
	Status      string `json:"status"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Amount      string `json:"amount"`
	Comment     string `json:"comment"`
	RRule       string `json:"rrule"`
	DtStart     string `json:"dtstart"`
}

func (s *Server) handleListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := s.svc.ListRules(r.Context(), currentUserID(r))
	if err != nil {
		log.Printf("Failed to list recurring rules: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if rules == nil {
		rules = []*models.RecurringRule{}
	}
	writeJSON(w, http.StatusOK, rules)
}

func (s *Server) handleCreateRule(w http.ResponseWriter, r *http.Request) {
	var req createRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid amount")
		return
	}

	dtstart, err := time.Parse(time.RFC3339, req.DtStart)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid dtstart, expected RFC 3339")
		return
	}

	rule := &models.RecurringRule{
		UserID:      currentUserID(r),
		Status:      taxonomy.Status(req.Status),
		Type:        taxonomy.Type(req.Type),
		Category:    taxonomy.Category(req.Category),
		Subcategory: taxonomy.Subcategory(req.Subcategory),
		Amount:      amount,
		Comment:     req.Comment,
		RRule:       req.RRule,
		DtStart:     dtstart,
	}

	if err := s.svc.CreateRule(r.Context(), rule); err != nil {
		var verr *taxonomy.ValidationError
		if errors.As(err, &verr) {
			writeJSONError(w, http.StatusBadRequest, verr.Message)
			return
		}
		log.Printf("Failed to create recurring rule: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, rule)
}

func (s *Server) handleDeleteRule(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, "not found")
		return
	}

	err = s.svc.DeleteRule(r.Context(), id, currentUserID(r))
	if errors.Is(err, ledger.ErrNotFound) {
		writeJSONError(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		log.Printf("Failed to delete recurring rule %d: %v", id, err)
		writeJSONError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
