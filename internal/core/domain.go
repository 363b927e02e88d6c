package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// DefaultLabel replaces a blank entry label.
	DefaultLabel = "empty"

	// IDWidth is the zero-padding width of entry identifiers.
	IDWidth = 3
)

type (
	// Period identifies one month's ledger. Month is kept upper-cased.
	Period struct {
		Month string
		Year  int
	}

	// Entry is a single labeled signed amount. Positive is income, negative is expense.
	Entry struct {
		ID     string
		Label  string
		Amount decimal.Decimal
	}

	// Record is the persisted shape of a ledger.
	// NextID is the last identifier ever issued, not the next free one.
	Record struct {
		Period  Period
		NextID  int
		Entries []Entry // insertion order
	}
)

// NewPeriod normalizes month and validates the pair.
func NewPeriod(month string, year int) (Period, error) {
	p := Period{Month: strings.ToUpper(strings.TrimSpace(month)), Year: year}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

func (p Period) Validate() error {
	if p.Month == "" {
		return fmt.Errorf("%w: empty month", ErrInvalidPeriod)
	}
	if strings.ContainsAny(p.Month, `/\`) || strings.Contains(p.Month, "..") {
		return fmt.Errorf("%w: month %q contains a path separator", ErrInvalidPeriod, p.Month)
	}
	if p.Year <= 0 {
		return fmt.Errorf("%w: year %d", ErrInvalidPeriod, p.Year)
	}
	return nil
}

// Key returns "{MONTH}_{YEAR}".
func (p Period) Key() string {
	return fmt.Sprintf("%s_%d", p.Month, p.Year)
}

// FileName returns the storage file name for the period.
func (p Period) FileName() string {
	return p.Key() + ".json"
}

func (p Period) String() string {
	return fmt.Sprintf("%s %d", p.Month, p.Year)
}

// FormatID zero-pads n to IDWidth digits.
func FormatID(n int) string {
	return fmt.Sprintf("%0*d", IDWidth, n)
}

// ParseID returns the numeric value of an entry identifier.
func ParseID(id string) (int, error) {
	if id == "" {
		return 0, errors.New("empty identifier")
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("identifier %q is not numeric", id)
		}
	}
	n, err := strconv.Atoi(id)
	if err != nil {
		return 0, fmt.Errorf("identifier %q: %w", id, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("identifier %q must be positive", id)
	}
	return n, nil
}

// NewRecord returns an empty record for p.
func NewRecord(p Period) Record {
	return Record{Period: p, Entries: []Entry{}}
}

// Validate checks identifier uniqueness and counter consistency.
func (r Record) Validate() error {
	if err := r.Period.Validate(); err != nil {
		return err
	}
	if r.NextID < 0 {
		return fmt.Errorf("negative id counter %d", r.NextID)
	}
	seen := make(map[string]struct{}, len(r.Entries))
	for _, e := range r.Entries {
		n, err := ParseID(e.ID)
		if err != nil {
			return err
		}
		if n > r.NextID {
			return fmt.Errorf("identifier %q is above id counter %d", e.ID, r.NextID)
		}
		if _, dup := seen[e.ID]; dup {
			return fmt.Errorf("duplicate identifier %q", e.ID)
		}
		seen[e.ID] = struct{}{}
	}
	return nil
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	out := r
	out.Entries = append(make([]Entry, 0, len(r.Entries)), r.Entries...)
	return out
}
