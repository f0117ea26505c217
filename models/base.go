package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// maxIdAttempts bounds retries when a generated short id collides with an existing row.
const maxIdAttempts = 3

func init() {
	// amounts go over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// Date is a calendar date without time of day (YYYY-MM-DD on the wire).
type Date time.Time

func NewDate(year int, month time.Month, day int) Date {
	return Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return Date(t), nil
}

func (d Date) Time() time.Time {
	return time.Time(d)
}

func (d Date) IsZero() bool {
	return time.Time(d).IsZero()
}

func (d Date) Before(o Date) bool {
	return d.Time().Before(o.Time())
}

func (d Date) After(o Date) bool {
	return d.Time().After(o.Time())
}

func (d Date) Equal(o Date) bool {
	return d.Time().Equal(o.Time())
}

func (d Date) String() string {
	return time.Time(d).Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errors.New("date must be a string")
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements the driver.Valuer interface
func (d Date) Value() (driver.Value, error) {
	return time.Time(d), nil
}

// Scan implements the sql.Scanner interface
func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*d = Date(time.Time{})
	case time.Time:
		*d = NewDate(v.Year(), v.Month(), v.Day())
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("cannot convert %T to Date", value)
	}
	return nil
}

func (d *Date) scanString(s string) error {
	if len(s) < len(dateLayout) {
		return fmt.Errorf("cannot convert %q to Date", s)
	}
	parsed, err := ParseDate(s[:len(dateLayout)])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// GormDataType keeps the column a plain DATE on every dialect.
func (Date) GormDataType() string {
	return "date"
}

// PageQuery is offset pagination: skip rows, then take limit.
type PageQuery struct {
	Skip  int `form:"skip,default=0" json:"skip" binding:"min=0"`
	Limit int `form:"limit,default=100" json:"limit" binding:"min=1,max=1000"`
}

func DefaultPage() PageQuery {
	return PageQuery{Skip: 0, Limit: 100}
}

// allRows disables pagination (exports).
var allRows = PageQuery{Limit: -1}

func (p PageQuery) apply(dbCtx *gorm.DB) *gorm.DB {
	if p.Limit < 0 {
		return dbCtx
	}
	limit := p.Limit
	if limit == 0 {
		limit = 100
	}
	return dbCtx.Offset(max(p.Skip, 0)).Limit(limit)
}

// generateShortId returns PREFIX-XXXXXXXX (8 upper-case hex chars).
func generateShortId(prefix string) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "-" + strings.ToUpper(raw[:8])
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
