package scorehandlers

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	scoreservice "github.com/Black-And-White-Club/meishu/app/modules/score/application"
	scoredb "github.com/Black-And-White-Club/meishu/app/modules/score/infrastructure/repositories"
	"github.com/go-chi/chi/v5"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// Unix seconds accepted for since: years 1 through 9999, the span the
// driver's timestamp text encoding round-trips.
var (
	minSinceUnix = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC).Unix()
	maxSinceUnix = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC).Unix()
)

// SinceParser reads the since query value. Unix seconds are tried first;
// otherwise the whole value must be a relative date such as "yesterday".
type SinceParser struct {
	w   *when.Parser
	now func() time.Time
}

// NewSinceParser creates a SinceParser using now as its reference clock.
func NewSinceParser(now func() time.Time) *SinceParser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &SinceParser{w: w, now: now}
}

// Parse returns the instant described by raw, in UTC.
func (p *SinceParser) Parse(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if secs, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if secs < minSinceUnix || secs > maxSinceUnix {
			return time.Time{}, &scoreservice.ValidationError{Field: "since", Reason: "unix seconds out of range"}
		}
		return time.Unix(secs, 0).UTC(), nil
	}
	if isInteger(raw) {
		return time.Time{}, &scoreservice.ValidationError{Field: "since", Reason: "unix seconds out of range"}
	}

	r, err := p.w.Parse(raw, p.now())
	if err != nil {
		return time.Time{}, &scoreservice.ValidationError{Field: "since", Reason: err.Error(), Err: err}
	}
	// A match on part of the value would silently drop the rest.
	if r == nil || r.Index != 0 || len(r.Text) != len(raw) {
		return time.Time{}, &scoreservice.ValidationError{Field: "since", Reason: "expected unix seconds or a relative date"}
	}
	return r.Time.UTC(), nil
}

// isInteger reports whether s is an optionally signed run of digits.
func isInteger(s string) bool {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "-"), "+")
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// parseFilter builds a FilterSpec from list query parameters. Absent
// parameters stay unset; empty values count as absent.
func (h *ScoreHandlers) parseFilter(q url.Values) (scoredb.FilterSpec, error) {
	var filter scoredb.FilterSpec

	if raw := q.Get("since"); raw != "" {
		since, err := h.timeParser.Parse(raw)
		if err != nil {
			return filter, err
		}
		filter.Since = &since
	}

	if q.Has("username") {
		username := q.Get("username")
		filter.Username = &username
	}

	if raw := q.Get("pending"); raw != "" {
		pending, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, &scoreservice.ValidationError{Field: "pending", Reason: "expected a boolean", Err: err}
		}
		filter.Pending = &pending
	}

	// The raw list view ranks by score unless the caller picks an order.
	order := scoredb.OrderByScore
	if raw := q.Get("order"); raw != "" {
		parsed, err := scoredb.ParseOrderBy(raw)
		if err != nil {
			return filter, &scoreservice.ValidationError{Field: "order", Reason: "expected one of id, score, score desc", Err: err}
		}
		order = parsed
	}
	filter.OrderBy = order

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return filter, &scoreservice.ValidationError{Field: "limit", Reason: "expected a non-negative integer", Err: err}
		}
		filter.Limit = limit
	}

	return filter, nil
}

func parseID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &scoreservice.ValidationError{Field: "id", Reason: "expected an integer", Err: err}
	}
	return id, nil
}
