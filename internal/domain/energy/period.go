package energy

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/raas/backend/internal/domain/shared"
)

// Period is a billing month in MM/YYYY form
type Period struct {
	Month int
	Year  int
}

// ErrInvalidPeriod is returned when a period string cannot be parsed
var ErrInvalidPeriod = shared.NewDomainError("INVALID_PERIOD", "Período inválido, use MM/AAAA")

// ParsePeriod accepts "MM/YYYY", "M/YYYY", "MM-YYYY" and "YYYY-MM".
func ParsePeriod(s string) (Period, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Period{}, ErrInvalidPeriod
	}

	sep := "/"
	if !strings.Contains(s, sep) {
		sep = "-"
	}
	parts := strings.Split(s, sep)
	if len(parts) != 2 {
		return Period{}, ErrInvalidPeriod
	}

	first, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	second, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return Period{}, ErrInvalidPeriod
	}

	p := Period{Month: first, Year: second}
	if len(strings.TrimSpace(parts[0])) == 4 {
		p = Period{Month: second, Year: first}
	}
	if p.Month < 1 || p.Month > 12 || p.Year < 1900 || p.Year > 9999 {
		return Period{}, ErrInvalidPeriod
	}
	return p, nil
}

// MustParsePeriod is ParsePeriod for literals known to be valid
func MustParsePeriod(s string) Period {
	p, err := ParsePeriod(s)
	if err != nil {
		panic(fmt.Sprintf("energy: invalid period %q", s))
	}
	return p
}

// String formats the period as MM/YYYY
func (p Period) String() string {
	return fmt.Sprintf("%02d/%04d", p.Month, p.Year)
}

// Start returns the first instant of the period in UTC
func (p Period) Start() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

// End returns the last day of the period at midnight UTC
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, -1)
}

// AddMonths shifts the period by n months (negative goes back)
func (p Period) AddMonths(n int) Period {
	t := p.Start().AddDate(0, n, 0)
	return Period{Month: int(t.Month()), Year: t.Year()}
}

// Before reports whether p is strictly earlier than other
func (p Period) Before(other Period) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}

// Preceding returns the n periods before p, oldest first
func (p Period) Preceding(n int) []Period {
	out := make([]Period, 0, n)
	for i := n; i >= 1; i-- {
		out = append(out, p.AddMonths(-i))
	}
	return out
}
