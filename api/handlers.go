package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/etnz/moneymanager"
	"github.com/etnz/moneymanager/date"
	"github.com/etnz/moneymanager/renderer"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

// errBadRequest marks malformed requests.
var errBadRequest = errors.New("bad request")

// errConfirmationRequired is returned by /reset without "confirm": true.
var errConfirmationRequired = errors.New(`reset requires "confirm": true`)

// summaryResponse is the JSON body returned for a summary.
type summaryResponse struct {
	Summary moneymanager.Summary `json:"summary"`
	Display map[string]string    `json:"display"`
}

func (s *Server) summaryOf(sum moneymanager.Summary) summaryResponse {
	return summaryResponse{
		Summary: sum,
		Display: map[string]string{
			"balance":     moneymanager.FormatMoney(sum.Balance, s.currency),
			"creditTotal": moneymanager.FormatMoney(sum.CreditTotal, s.currency),
			"debitTotal":  moneymanager.FormatMoney(sum.DebitTotal, s.currency),
			"netTotal":    moneymanager.FormatMoney(sum.NetTotal, s.currency),
		},
	}
}

// transactionRequest is the body of /debit, /credit and /transfer. The date
// is either "date" as "YYYY-MM-DD" or the three "day", "month" and "year" components.
type transactionRequest struct {
	Amount   json.RawMessage `json:"amount"`
	Date     string          `json:"date"`
	Day      string          `json:"day"`
	Month    string          `json:"month"`
	Year     string          `json:"year"`
	Category string          `json:"category"`
	Note     string          `json:"note"`
}

// parse validates the request the same way the CLI does.
func (req transactionRequest) parse() (decimal.Decimal, date.Date, error) {
	raw := strings.TrimSpace(string(req.Amount))
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(req.Amount, &s); err != nil {
			return decimal.Decimal{}, date.Date{}, fmt.Errorf("%w: %w", moneymanager.ErrInvalidAmount, err)
		}
		raw = s
	}
	amount, err := moneymanager.ParseAmount(raw)
	if err != nil {
		return decimal.Decimal{}, date.Date{}, err
	}

	var on date.Date
	switch {
	case req.Date != "":
		on, err = date.Parse(req.Date)
	case req.Day != "" || req.Month != "" || req.Year != "":
		on, err = date.ParseParts(req.Day, req.Month, req.Year)
	default:
		on = date.Today()
	}
	if err != nil {
		return decimal.Decimal{}, date.Date{}, err
	}

	if err := moneymanager.ValidateNote(req.Note); err != nil {
		return decimal.Decimal{}, date.Date{}, err
	}
	return amount, on, nil
}

func (s *Server) record(kind moneymanager.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req transactionRequest
		if err := decode(r, &req); err != nil {
			s.writeError(w, err)
			return
		}
		amount, on, err := req.parse()
		if err != nil {
			s.writeError(w, err)
			return
		}

		var sum moneymanager.Summary
		switch kind {
		case moneymanager.Debit:
			sum, err = s.ledger.RecordDebit(r.Context(), amount, on, req.Category, req.Note)
		case moneymanager.Credit:
			sum, err = s.ledger.RecordCredit(r.Context(), amount, on, req.Category, req.Note)
		default:
			if err = s.ledger.RecordTransfer(r.Context(), amount, on, req.Category, req.Note); err == nil {
				sum, err = s.ledger.Overview(r.Context())
			}
		}
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusCreated, s.summaryOf(sum))
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) overview(w http.ResponseWriter, r *http.Request) {
	sum, err := s.ledger.Overview(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.summaryOf(sum))
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.categories)
}

func (s *Server) statement(w http.ResponseWriter, r *http.Request) {
	records, err := s.ledger.Statement(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, nonNil(records))
}

func (s *Server) records(w http.ResponseWriter, r *http.Request) {
	kind, err := moneymanager.ParseKind(mux.Vars(r)["kind"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	records, err := s.ledger.Records(r.Context(), kind)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, nonNil(records))
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Confirm bool   `json:"confirm"`
	}
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if !req.Confirm {
		s.writeError(w, errConfirmationRequired)
		return
	}
	sum, err := s.ledger.Reset(r.Context(), strings.TrimSpace(req.Name))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.summaryOf(sum))
}

func (s *Server) chart(w http.ResponseWriter, r *http.Request) {
	records, err := s.ledger.Statement(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	png, err := renderer.BalanceChart(renderer.BalanceSeries(records), s.currency)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// decode reads a JSON body, unknown fields are rejected.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %w", errBadRequest, err)
	}
	return nil
}

func nonNil(records []moneymanager.Record) []moneymanager.Record {
	if records == nil {
		return []moneymanager.Record{}
	}
	return records
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		s.log.WithError(err).Error("failed to encode response")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// statusOf maps an error to its HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, errConfirmationRequired),
		errors.Is(err, moneymanager.ErrInvalidAmount),
		errors.Is(err, moneymanager.ErrInvalidDate),
		errors.Is(err, moneymanager.ErrNoteTooLong),
		errors.Is(err, moneymanager.ErrUnknownKind):
		return http.StatusBadRequest
	case errors.Is(err, renderer.ErrNotEnoughData):
		return http.StatusNotFound
	case errors.Is(err, moneymanager.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.log.WithError(err).Error("request failed")
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
