package pricing

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout 表单与 URL 参数中的日期格式
const DateLayout = "2006-01-02"

// ValidateRate 日租金必须为正数
func ValidateRate(rate decimal.Decimal) error {
	if !rate.IsPositive() {
		return ErrInvalidRate
	}
	return nil
}

// ParseRate 解析表单中的金额
func ParseRate(s string) (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidRate, s)
	}
	if err := ValidateRate(rate); err != nil {
		return decimal.Zero, err
	}
	return rate, nil
}

// ParseDate 解析 YYYY-MM-DD，空字符串返回零值（表示未填写）
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// ParseRange 解析起止日期
func ParseRange(start, end string) (time.Time, time.Time, error) {
	s, err := ParseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return s, e, nil
}
