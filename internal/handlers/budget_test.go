package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GregMSThompson/fintrack/internal/aggregate"
	"github.com/GregMSThompson/fintrack/internal/dto"
	"github.com/GregMSThompson/fintrack/internal/errs"
	"github.com/GregMSThompson/fintrack/internal/models"
)

type stubBudgetService struct {
	budgets    []models.Budget
	budget     *models.Budget
	report     dto.BudgetReport
	err        error
	lastQuery  dto.BudgetQuery
	lastCreate dto.CreateBudgetRequest
	lastYear   int
	lastMonth  int
}

func (s *stubBudgetService) List(_ context.Context, q dto.BudgetQuery) ([]models.Budget, error) {
	s.lastQuery = q
	return s.budgets, s.err
}

func (s *stubBudgetService) Get(_ context.Context, _ string) (*models.Budget, error) {
	return s.budget, s.err
}

func (s *stubBudgetService) Create(_ context.Context, _ models.Principal, req dto.CreateBudgetRequest) (*models.Budget, error) {
	s.lastCreate = req
	return s.budget, s.err
}

func (s *stubBudgetService) Update(_ context.Context, _ models.Principal, _ string, _ dto.UpdateBudgetRequest) (*models.Budget, error) {
	return s.budget, s.err
}

func (s *stubBudgetService) Delete(_ context.Context, _ models.Principal, _ string) error {
	return s.err
}

func (s *stubBudgetService) Report(_ context.Context, year, month int) (dto.BudgetReport, error) {
	s.lastYear, s.lastMonth = year, month
	return s.report, s.err
}

func (s *stubBudgetService) Stats(_ context.Context) ([]aggregate.BudgetStat, error) {
	return nil, s.err
}

func TestListBudgets_Filters(t *testing.T) {
	svc := &stubBudgetService{budgets: []models.Budget{{BudgetID: "b1"}, {BudgetID: "b2"}}}
	resp := &stubResponseHandler{}
	h := NewBudgetHandlers(&Deps{ResponseHandler: resp, BudgetSvc: svc})

	req := httptest.NewRequest(http.MethodGet, "/budgets?year=2024&month=0&categoryId=rent", nil)
	h.List(httptest.NewRecorder(), req)

	if !resp.writeListCalled || resp.writeListCount != 2 {
		t.Fatalf("expected WriteList with 2, got called=%v count=%d", resp.writeListCalled, resp.writeListCount)
	}
	q := svc.lastQuery
	if q.Year == nil || *q.Year != 2024 || q.Month == nil || *q.Month != 0 || q.CategoryID == nil || *q.CategoryID != "rent" {
		t.Fatalf("unexpected query: %+v", q)
	}
}

func TestListBudgets_EmptyIsArray(t *testing.T) {
	svc := &stubBudgetService{}
	resp := &stubResponseHandler{}
	h := NewBudgetHandlers(&Deps{ResponseHandler: resp, BudgetSvc: svc})

	h.List(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/budgets", nil))

	if got, ok := resp.writeSuccessData.([]models.Budget); !ok || got == nil {
		t.Fatalf("expected an empty slice, got %#v", resp.writeSuccessData)
	}
}

func TestCreateBudget_OK(t *testing.T) {
	svc := &stubBudgetService{budget: &models.Budget{BudgetID: "b1"}}
	resp := &stubResponseHandler{}
	h := NewBudgetHandlers(&Deps{ResponseHandler: resp, BudgetSvc: svc})

	body := `{"categoryId":"food","monthlyLimit":500,"year":2024,"month":11,"alerts":{"threshold":90}}`
	req := httptest.NewRequest(http.MethodPost, "/budgets", strings.NewReader(body))
	req = withPrincipal(req, adminCaller)
	h.Create(httptest.NewRecorder(), req)

	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusCreated {
		t.Fatalf("expected 201, got called=%v status=%d", resp.writeSuccessCalled, resp.writeSuccessStatus)
	}
	c := svc.lastCreate
	if *c.Month != 11 || *c.MonthlyLimit != 500 || c.Alerts == nil || *c.Alerts.Threshold != 90 || c.Alerts.Enabled != nil {
		t.Fatalf("unexpected request: %+v", c)
	}
}

func TestCreateBudget_Duplicate(t *testing.T) {
	svc := &stubBudgetService{err: errs.NewAlreadyExistsError("budget already exists")}
	resp := &stubResponseHandler{}
	h := NewBudgetHandlers(&Deps{ResponseHandler: resp, BudgetSvc: svc})

	req := httptest.NewRequest(http.MethodPost, "/budgets", strings.NewReader(`{"categoryId":"food"}`))
	h.Create(httptest.NewRecorder(), req)

	var exists *errs.AlreadyExistsError
	if !errors.As(resp.handleError, &exists) {
		t.Fatalf("expected AlreadyExistsError, got %v", resp.handleError)
	}
}

func TestBudgetReport(t *testing.T) {
	svc := &stubBudgetService{}
	resp := &stubResponseHandler{}
	h := NewBudgetHandlers(&Deps{ResponseHandler: resp, BudgetSvc: svc})

	h.Report(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/budgets/report?year=2025&month=4", nil))
	if !resp.writeSuccessCalled || svc.lastYear != 2025 || svc.lastMonth != 4 {
		t.Fatalf("unexpected call: success=%v year=%d month=%d", resp.writeSuccessCalled, svc.lastYear, svc.lastMonth)
	}
}
