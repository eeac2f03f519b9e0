package pricing

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/langchou/autoprime/internal/models"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertMoney(t *testing.T, field string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s = %s, want %s", field, got, want)
	}
}

func TestCalculate_ThreeDayExample(t *testing.T) {
	b, err := Calculate(dec("3500"), date(t, "2025-06-12"), date(t, "2025-06-14"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !b.Complete {
		t.Fatal("expected complete breakdown")
	}
	if b.Days != 3 {
		t.Errorf("days = %d, want 3", b.Days)
	}
	assertMoney(t, "subtotal", b.Subtotal, "10500")
	assertMoney(t, "discount", b.Discount, "0")
	assertMoney(t, "tax", b.Tax, "1890")
	assertMoney(t, "total", b.Total, "12390")
}

func TestCalculate_TaxOnDiscountedAmount(t *testing.T) {
	b, err := Calculate(dec("1000"), date(t, "2025-03-01"), date(t, "2025-03-10"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Days != 10 {
		t.Fatalf("days = %d, want 10", b.Days)
	}
	assertMoney(t, "subtotal", b.Subtotal, "10000")
	assertMoney(t, "discount", b.Discount, "1000")
	assertMoney(t, "tax base", b.TaxBase(), "9000")
	assertMoney(t, "tax", b.Tax, "1620")
	assertMoney(t, "total", b.Total, "10620")
}

func TestCalculate_SameDayIsOneDay(t *testing.T) {
	for _, rate := range []string{"1", "999.99", "3500", "12000.5"} {
		d := date(t, "2025-01-20")
		b, err := Calculate(dec(rate), d, d)
		if err != nil {
			t.Fatalf("rate %s: %v", rate, err)
		}
		if b.Days != 1 {
			t.Errorf("rate %s: days = %d, want 1", rate, b.Days)
		}
		if !b.Discount.IsZero() {
			t.Errorf("rate %s: discount = %s, want 0", rate, b.Discount)
		}
		assertMoney(t, "subtotal", b.Subtotal, rate)
	}
}

func TestCalculate_DiscountBoundary(t *testing.T) {
	tests := []struct {
		name         string
		end          string
		wantDays     int
		wantDiscount string
	}{
		{"six days", "2025-05-06", 6, "0"},
		{"seven days", "2025-05-07", 7, "1400"},
		{"eight days", "2025-05-08", 8, "1600"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Calculate(dec("2000"), date(t, "2025-05-01"), date(t, tt.end))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if b.Days != tt.wantDays {
				t.Fatalf("days = %d, want %d", b.Days, tt.wantDays)
			}
			assertMoney(t, "discount", b.Discount, tt.wantDiscount)
			if !b.Tax.Equal(b.TaxBase().Mul(TaxRate)) {
				t.Errorf("tax %s is not 18%% of %s", b.Tax, b.TaxBase())
			}
		})
	}
}

func TestCalculate_EndBeforeStart(t *testing.T) {
	b, err := Calculate(dec("1500"), date(t, "2025-06-14"), date(t, "2025-06-12"))
	if !errors.Is(err, ErrEndBeforeStart) {
		t.Fatalf("err = %v, want ErrEndBeforeStart", err)
	}
	if b.Days != 0 || b.Complete {
		t.Errorf("expected empty breakdown, got %+v", b)
	}
}

func TestCalculate_MissingDateIsIncomplete(t *testing.T) {
	d := date(t, "2025-06-12")
	cases := [][2]time.Time{{{}, d}, {d, {}}, {{}, {}}}
	for i, c := range cases {
		b, err := Calculate(dec("1500"), c[0], c[1])
		if err != nil {
			t.Errorf("case %d: unexpected error %v", i, err)
		}
		if b.Complete {
			t.Errorf("case %d: expected incomplete breakdown", i)
		}
	}
}

func TestCalculate_IgnoresTimeOfDay(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	start := time.Date(2025, 6, 12, 23, 30, 0, 0, ist)
	end := time.Date(2025, 6, 14, 0, 15, 0, 0, ist)

	b, err := Calculate(dec("3500"), start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Days != 3 {
		t.Errorf("days = %d, want 3", b.Days)
	}

	// 同一天内结束时间早于开始时间也不应报错
	b, err = Calculate(dec("3500"), time.Date(2025, 6, 12, 18, 0, 0, 0, ist), time.Date(2025, 6, 12, 9, 0, 0, 0, ist))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Days != 1 {
		t.Errorf("days = %d, want 1", b.Days)
	}
}

func TestCalculate_NoDriftBeforePresentation(t *testing.T) {
	b, err := Calculate(dec("333.33"), date(t, "2025-02-01"), date(t, "2025-02-07"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 2333.31 * 0.9 = 2099.979, * 0.18 = 377.99622
	assertMoney(t, "subtotal", b.Subtotal, "2333.31")
	assertMoney(t, "discount", b.Discount, "233.331")
	assertMoney(t, "tax", b.Tax, "377.99622")
	assertMoney(t, "total", b.Total, "2477.97522")

	v := b.View()
	if v.Total != "2477.98" || v.Tax != "378.00" || v.Discount != "233.33" {
		t.Errorf("unexpected view %+v", v)
	}
}

func TestCalculateForCar_WeekendExtra(t *testing.T) {
	extra := dec("500")
	car := &models.Car{PricePerDay: dec("3500"), WeekendExtra: &extra}

	// 周四到周六：只有周六加收
	b, err := CalculateForCar(car, date(t, "2025-06-12"), date(t, "2025-06-14"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertMoney(t, "subtotal", b.Subtotal, "11000")
	assertMoney(t, "tax", b.Tax, "1980")
	assertMoney(t, "total", b.Total, "12980")
}

func TestCalculateForCar_WithoutExtraMatchesCalculate(t *testing.T) {
	car := &models.Car{PricePerDay: dec("3500")}
	start, end := date(t, "2025-06-12"), date(t, "2025-06-20")

	got, err := CalculateForCar(car, start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, _ := Calculate(car.PricePerDay, start, end)
	if !got.Total.Equal(want.Total) || got.Days != want.Days {
		t.Errorf("got %+v, want %+v", got, want)
	}
}
