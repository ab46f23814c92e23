package domain

import "time"

// ============================================================
// Policy — a coverage contract owned by exactly one customer.
// ============================================================

// PolicyType enumerates the supported lines of business.
type PolicyType string

const (
	PolicyAuto   PolicyType = "AUTO"
	PolicyHome   PolicyType = "HOME"
	PolicyHealth PolicyType = "HEALTH"
)

// Policy is a coverage contract. EndDate must be strictly after StartDate.
type Policy struct {
	ID             int64      `json:"id"`
	Type           PolicyType `json:"type" validate:"required,oneof=AUTO HOME HEALTH"`
	StartDate      Date       `json:"startDate" validate:"required"`
	EndDate        Date       `json:"endDate" validate:"required"`
	CoverageAmount float64    `json:"coverageAmount" validate:"required,gt=0"`
	CustomerID     int64      `json:"customerId" validate:"required,gt=0"`
}

// PolicyWithCustomer is the read view for policy detail pages: the policy
// joined with its owning customer. Customer is nil when the join does not
// resolve; the view never fails because of a missing customer.
type PolicyWithCustomer struct {
	Policy   Policy    `json:"policy"`
	Customer *Customer `json:"customer,omitempty"`
}

// Date is a calendar date (no time-of-day) serialized as "2006-01-02",
// which is how the store and the frontend exchange policy and claim dates.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// NewDate builds a Date at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a "2006-01-02" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// MarshalJSON encodes the date as "2006-01-02".
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON accepts "2006-01-02" or an empty string (zero date).
func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == `""` || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(`"`+dateLayout+`"`, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}
