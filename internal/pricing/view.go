package pricing

import "github.com/shopspring/decimal"

// View 展示用的费用明细，金额保留两位小数
type View struct {
	Complete  bool   `json:"complete"`
	Days      int    `json:"days"`
	DailyRate string `json:"dailyRate"`
	Subtotal  string `json:"subtotal"`
	Discount  string `json:"discount"`
	Tax       string `json:"tax"`
	Total     string `json:"total"`
	Error     string `json:"error,omitempty"`
}

// View 转换为展示模型
func (b Breakdown) View() View {
	if !b.Complete {
		return View{}
	}
	return View{
		Complete:  true,
		Days:      b.Days,
		DailyRate: Money(b.DailyRate),
		Subtotal:  Money(b.Subtotal),
		Discount:  Money(b.Discount),
		Tax:       Money(b.Tax),
		Total:     Money(b.Total),
	}
}

// HasDiscount 是否享受长租折扣
func (v View) HasDiscount() bool {
	return v.Discount != "" && v.Discount != "0.00"
}

// Money 四舍五入到两位小数
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
