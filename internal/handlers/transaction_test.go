package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/GregMSThompson/fintrack/internal/aggregate"
	"github.com/GregMSThompson/fintrack/internal/dto"
	"github.com/GregMSThompson/fintrack/internal/errs"
	"github.com/GregMSThompson/fintrack/internal/models"
)

// --- Stub service ---

type stubTransactionService struct {
	list       dto.TransactionList
	tx         *models.Transaction
	summary    dto.MonthlySummary
	err        error
	lastQuery  dto.TransactionQuery
	lastCreate dto.CreateTransactionRequest
	lastUpdate dto.UpdateTransactionRequest
	lastID     string
	lastCaller models.Principal
	lastMonth  int
	lastYear   int
}

func (s *stubTransactionService) List(_ context.Context, q dto.TransactionQuery) (dto.TransactionList, error) {
	s.lastQuery = q
	return s.list, s.err
}

func (s *stubTransactionService) Get(_ context.Context, p models.Principal, id string) (*models.Transaction, error) {
	s.lastCaller, s.lastID = p, id
	return s.tx, s.err
}

func (s *stubTransactionService) Create(_ context.Context, p models.Principal, req dto.CreateTransactionRequest) (*models.Transaction, error) {
	s.lastCaller, s.lastCreate = p, req
	return s.tx, s.err
}

func (s *stubTransactionService) Update(_ context.Context, p models.Principal, id string, req dto.UpdateTransactionRequest) (*models.Transaction, error) {
	s.lastCaller, s.lastID, s.lastUpdate = p, id, req
	return s.tx, s.err
}

func (s *stubTransactionService) Delete(_ context.Context, p models.Principal, id string) error {
	s.lastCaller, s.lastID = p, id
	return s.err
}

func (s *stubTransactionService) Approve(_ context.Context, p models.Principal, id string) (*models.Transaction, error) {
	s.lastCaller, s.lastID = p, id
	return s.tx, s.err
}

func (s *stubTransactionService) Reject(_ context.Context, p models.Principal, id string) (*models.Transaction, error) {
	s.lastCaller, s.lastID = p, id
	return s.tx, s.err
}

func (s *stubTransactionService) MonthlySummary(_ context.Context, month, year int) (dto.MonthlySummary, error) {
	s.lastMonth, s.lastYear = month, year
	return s.summary, s.err
}

func (s *stubTransactionService) CategoryTotals(_ context.Context) ([]dto.CategoryTotal, error) {
	return nil, s.err
}

func (s *stubTransactionService) Stats(_ context.Context) ([]aggregate.TransactionStat, error) {
	return nil, s.err
}

func newTxHandlers(svc *stubTransactionService, resp *stubResponseHandler) *transactionHandlers {
	return NewTransactionHandlers(&Deps{ResponseHandler: resp, TransactionSvc: svc, Location: time.UTC})
}

// --- Tests ---

func TestListTransactions_ParsesQuery(t *testing.T) {
	svc := &stubTransactionService{list: dto.TransactionList{Transactions: []models.Transaction{{TransactionID: "t1"}}, Total: 7}}
	resp := &stubResponseHandler{}
	h := newTxHandlers(svc, resp)

	req := httptest.NewRequest(http.MethodGet, "/transactions?type=expense&status=approved&categoryId=food&dateFrom=2024-03-01&dateTo=2024-03-31&sort=-amount,date&page=2&limit=5", nil)
	rr := httptest.NewRecorder()
	h.List(rr, req)

	if !resp.writeListCalled || resp.writeListCount != 7 {
		t.Fatalf("expected WriteList with count 7, got called=%v count=%d", resp.writeListCalled, resp.writeListCount)
	}
	q := svc.lastQuery
	if *q.Type != models.TransactionExpense || *q.Status != models.StatusApproved || *q.CategoryID != "food" {
		t.Fatalf("unexpected filters: %+v", q)
	}
	if !q.DateFrom.Equal(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected dateFrom: %v", q.DateFrom)
	}
	if !q.DateTo.Equal(time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)) {
		t.Errorf("dateTo should cover the whole day, got %v", q.DateTo)
	}
	if len(q.Sort) != 2 || q.Sort[0] != (dto.SortField{Field: "amount", Desc: true}) || q.Sort[1] != (dto.SortField{Field: "date"}) {
		t.Errorf("unexpected sort: %+v", q.Sort)
	}
	if q.Page != 2 || q.Limit != 5 {
		t.Errorf("unexpected paging: page=%d limit=%d", q.Page, q.Limit)
	}
}

func TestListTransactions_BadQuery(t *testing.T) {
	for _, query := range []string{"type=transfer", "status=done", "dateFrom=yesterday", "page=two"} {
		t.Run(query, func(t *testing.T) {
			svc := &stubTransactionService{}
			resp := &stubResponseHandler{}
			h := newTxHandlers(svc, resp)

			req := httptest.NewRequest(http.MethodGet, "/transactions?"+query, nil)
			h.List(httptest.NewRecorder(), req)

			var vErr *errs.ValidationError
			if !resp.handleErrorCalled || !errors.As(resp.handleError, &vErr) {
				t.Fatalf("expected ValidationError, got %v", resp.handleError)
			}
		})
	}
}

func TestCreateTransaction_OK(t *testing.T) {
	svc := &stubTransactionService{tx: &models.Transaction{TransactionID: "t1"}}
	resp := &stubResponseHandler{}
	h := newTxHandlers(svc, resp)

	body := `{"type":"expense","amount":12.5,"categoryId":"food","description":"lunch","date":"2024-03-10T12:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/transactions", strings.NewReader(body))
	req = withPrincipal(req, memberCaller)
	rr := httptest.NewRecorder()
	h.Create(rr, req)

	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusCreated {
		t.Fatalf("expected WriteSuccess with 201, got called=%v status=%d", resp.writeSuccessCalled, resp.writeSuccessStatus)
	}
	if svc.lastCaller != memberCaller {
		t.Errorf("caller not forwarded: %+v", svc.lastCaller)
	}
	if svc.lastCreate.Amount == nil || *svc.lastCreate.Amount != 12.5 || svc.lastCreate.CategoryID != "food" {
		t.Errorf("unexpected request passed to service: %+v", svc.lastCreate)
	}
}

func TestCreateTransaction_InvalidJSON(t *testing.T) {
	svc := &stubTransactionService{}
	resp := &stubResponseHandler{}
	h := newTxHandlers(svc, resp)

	req := httptest.NewRequest(http.MethodPost, "/transactions", strings.NewReader("not-json"))
	h.Create(httptest.NewRecorder(), req)

	var vErr *errs.ValidationError
	if !resp.handleErrorCalled || !errors.As(resp.handleError, &vErr) {
		t.Fatalf("expected ValidationError, got %v", resp.handleError)
	}
}

func TestApproveTransaction_Conflict(t *testing.T) {
	svc := &stubTransactionService{err: errs.NewConflictError("transaction is already rejected")}
	resp := &stubResponseHandler{}
	h := newTxHandlers(svc, resp)

	req := httptest.NewRequest(http.MethodPut, "/transactions/t1/approve", nil)
	req = withChiParam(withPrincipal(req, adminCaller), "id", "t1")
	h.Approve(httptest.NewRecorder(), req)

	if svc.lastID != "t1" || svc.lastCaller != adminCaller {
		t.Fatalf("unexpected service call: id=%q caller=%+v", svc.lastID, svc.lastCaller)
	}
	var conflict *errs.ConflictError
	if !errors.As(resp.handleError, &conflict) {
		t.Fatalf("expected ConflictError to reach HandleError, got %v", resp.handleError)
	}
}

func TestMonthlySummary(t *testing.T) {
	svc := &stubTransactionService{summary: dto.MonthlySummary{Year: 2024, Month: 2}}
	resp := &stubResponseHandler{}
	h := newTxHandlers(svc, resp)

	req := httptest.NewRequest(http.MethodGet, "/transactions/summary?year=2024&month=2", nil)
	h.MonthlySummary(httptest.NewRecorder(), req)

	if !resp.writeSuccessCalled || svc.lastMonth != 2 || svc.lastYear != 2024 {
		t.Fatalf("unexpected call: success=%v month=%d year=%d", resp.writeSuccessCalled, svc.lastMonth, svc.lastYear)
	}

	resp = &stubResponseHandler{}
	h = newTxHandlers(svc, resp)
	req = httptest.NewRequest(http.MethodGet, "/transactions/summary?year=2024", nil)
	h.MonthlySummary(httptest.NewRecorder(), req)
	if !resp.handleErrorCalled {
		t.Fatal("missing month should be rejected")
	}
}

func TestDeleteTransaction_Forbidden(t *testing.T) {
	svc := &stubTransactionService{err: errs.NewForbiddenError("not allowed")}
	resp := &stubResponseHandler{}
	h := newTxHandlers(svc, resp)

	req := httptest.NewRequest(http.MethodDelete, "/transactions/t9", nil)
	req = withChiParam(withPrincipal(req, memberCaller), "id", "t9")
	h.Delete(httptest.NewRecorder(), req)

	if !resp.handleErrorCalled || resp.writeSuccessCalled {
		t.Fatal("expected HandleError only")
	}
}
