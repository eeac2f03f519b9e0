// Package pricing 租车费用计算
//
// 计算是纯函数：不读取时钟、不做 IO。金额全程使用 decimal 精确运算，
// 只在展示时保留两位小数。
package pricing

import (
	"errors"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/langchou/autoprime/internal/models"
)

const (
	// DiscountMinDays 享受折扣的最少天数
	DiscountMinDays = 7
	oneDay          = 24 * time.Hour
)

var (
	// DiscountRate 长租折扣 10%
	DiscountRate = decimal.RequireFromString("0.10")
	// TaxRate GST 18%，基于折后金额
	TaxRate = decimal.RequireFromString("0.18")
)

var (
	ErrEndBeforeStart = errors.New("end date is before start date")
	ErrInvalidRate    = errors.New("daily rate must be greater than zero")
	ErrInvalidDate    = errors.New("invalid date")
)

// Breakdown 费用明细
type Breakdown struct {
	// Complete 为 false 表示日期未填写完整，其他字段均为零值
	Complete  bool
	Days      int
	DailyRate decimal.Decimal
	Subtotal  decimal.Decimal
	Discount  decimal.Decimal
	Tax       decimal.Decimal
	Total     decimal.Decimal
}

// TaxBase 计税金额 = 小计 - 折扣
func (b Breakdown) TaxBase() decimal.Decimal {
	return b.Subtotal.Sub(b.Discount)
}

// Calculate 根据日租金和起止日期计算费用
//
// start 或 end 为零值时返回未完成的结果（非错误）。
// 天数包含首尾两天：同一天取还车按 1 天计。
func Calculate(dailyRate decimal.Decimal, start, end time.Time) (Breakdown, error) {
	days, err := countDays(start, end)
	if err != nil || days == 0 {
		return Breakdown{}, err
	}
	return breakdown(dailyRate, days, dailyRate.Mul(decimal.NewFromInt(int64(days)))), nil
}

// CalculateForCar 同 Calculate，周六、周日额外加收车辆的周末附加费
func CalculateForCar(car *models.Car, start, end time.Time) (Breakdown, error) {
	days, err := countDays(start, end)
	if err != nil || days == 0 {
		return Breakdown{}, err
	}

	subtotal := car.PricePerDay.Mul(decimal.NewFromInt(int64(days)))
	if car.WeekendExtra != nil && car.WeekendExtra.IsPositive() {
		weekend := weekendDays(DateOnly(start), days)
		subtotal = subtotal.Add(car.WeekendExtra.Mul(decimal.NewFromInt(int64(weekend))))
	}
	return breakdown(car.PricePerDay, days, subtotal), nil
}

func breakdown(rate decimal.Decimal, days int, subtotal decimal.Decimal) Breakdown {
	discount := decimal.Zero
	if days >= DiscountMinDays {
		discount = subtotal.Mul(DiscountRate)
	}
	tax := subtotal.Sub(discount).Mul(TaxRate)

	return Breakdown{
		Complete:  true,
		Days:      days,
		DailyRate: rate,
		Subtotal:  subtotal,
		Discount:  discount,
		Tax:       tax,
		Total:     subtotal.Sub(discount).Add(tax),
	}
}

// countDays 返回 0 表示日期不完整
func countDays(start, end time.Time) (int, error) {
	if start.IsZero() || end.IsZero() {
		return 0, nil
	}
	s, e := DateOnly(start), DateOnly(end)
	if e.Before(s) {
		return 0, ErrEndBeforeStart
	}
	return int(math.Ceil(e.Sub(s).Hours()/oneDay.Hours())) + 1, nil
}

func weekendDays(start time.Time, days int) int {
	n := 0
	for i := 0; i < days; i++ {
		switch start.AddDate(0, 0, i).Weekday() {
		case time.Saturday, time.Sunday:
			n++
		}
	}
	return n
}

// DateOnly 截断到所在日历日的 UTC 零点
func DateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
