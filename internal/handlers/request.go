package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/GregMSThompson/fintrack/internal/dto"
	"github.com/GregMSThompson/fintrack/internal/errs"
	"github.com/GregMSThompson/fintrack/internal/models"
)

const maxBodyBytes = 1 << 20

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errs.NewValidationError("request body is required")
		}
		return errs.NewValidationErrorf("invalid request body: %v", err)
	}
	return nil
}

func queryInt(r *http.Request, key string) (*int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errs.NewValidationErrorf("%s must be an integer", key)
	}
	return &v, nil
}

// yearMonth reads the required year and zero-based month query parameters.
func yearMonth(r *http.Request) (year, month int, err error) {
	y, err := queryInt(r, "year")
	if err != nil {
		return 0, 0, err
	}
	m, err := queryInt(r, "month")
	if err != nil {
		return 0, 0, err
	}
	if y == nil || m == nil {
		return 0, 0, errs.NewValidationError("year and month are required")
	}
	return *y, *m, nil
}

// parseDate accepts RFC 3339 timestamps or YYYY-MM-DD dates in loc. A bare
// date used as an upper bound covers the whole day.
func parseDate(raw string, loc *time.Location, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	d, err := time.ParseInLocation(time.DateOnly, raw, loc)
	if err != nil {
		return time.Time{}, errs.NewValidationErrorf("invalid date %q", raw)
	}
	if endOfDay {
		d = d.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return d, nil
}

// parseSort reads a comma separated field list; a leading "-" sorts descending.
func parseSort(raw string) []dto.SortField {
	var out []dto.SortField
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		f := dto.SortField{Field: part}
		if strings.HasPrefix(part, "-") {
			f.Field, f.Desc = part[1:], true
		}
		out = append(out, f)
	}
	return out
}

func parseTransactionQuery(r *http.Request, loc *time.Location) (dto.TransactionQuery, error) {
	if loc == nil {
		loc = time.UTC
	}
	v := r.URL.Query()
	var q dto.TransactionQuery

	if s := v.Get("type"); s != "" {
		t := models.TransactionType(s)
		if !t.Valid() {
			return q, errs.NewValidationErrorf("invalid type %q", s)
		}
		q.Type = &t
	}
	if s := v.Get("status"); s != "" {
		st := models.TransactionStatus(s)
		if !st.Valid() {
			return q, errs.NewValidationErrorf("invalid status %q", s)
		}
		q.Status = &st
	}
	if s := v.Get("categoryId"); s != "" {
		q.CategoryID = &s
	}
	if s := v.Get("createdBy"); s != "" {
		q.CreatedBy = &s
	}
	if s := v.Get("dateFrom"); s != "" {
		d, err := parseDate(s, loc, false)
		if err != nil {
			return q, err
		}
		q.DateFrom = &d
	}
	if s := v.Get("dateTo"); s != "" {
		d, err := parseDate(s, loc, true)
		if err != nil {
			return q, err
		}
		q.DateTo = &d
	}
	q.Sort = parseSort(v.Get("sort"))

	page, err := queryInt(r, "page")
	if err != nil {
		return q, err
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		return q, err
	}
	if page != nil {
		q.Page = *page
	}
	if limit != nil {
		q.Limit = *limit
	}
	return q, nil
}
