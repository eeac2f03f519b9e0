package view

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/langchou/autoprime/internal/pricing"
)

// Funcs 模板函数
func Funcs() template.FuncMap {
	return template.FuncMap{
		"money":       money,
		"date":        formatDate,
		"stars":       stars,
		"statusClass": statusClass,
		"pages":       pageNumbers,
		"add":         func(a, b int) int { return a + b },
		"join":        strings.Join,
		"lower":       strings.ToLower,
	}
}

// money 金额保留两位小数，接受 decimal、*decimal 或已格式化的字符串
func money(v any) string {
	switch m := v.(type) {
	case decimal.Decimal:
		return pricing.Money(m)
	case *decimal.Decimal:
		if m == nil {
			return ""
		}
		return pricing.Money(*m)
	case string:
		return m
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}

// formatDate 2025-06-12 -> 12 Jun 2025，无法解析时原样输出
func formatDate(v any) string {
	switch d := v.(type) {
	case time.Time:
		if d.IsZero() {
			return ""
		}
		return d.Format("02 Jan 2006")
	case string:
		if t, err := time.Parse(pricing.DateLayout, d); err == nil {
			return t.Format("02 Jan 2006")
		}
		if t, err := time.Parse(time.RFC3339, d); err == nil {
			return t.Format("02 Jan 2006")
		}
		return d
	}
	return ""
}

// stars 评分星级，接受 int、float64 或 *float64
func stars(v any) string {
	var rating float64
	switch r := v.(type) {
	case int:
		rating = float64(r)
	case float64:
		rating = r
	case *float64:
		rating = derefFloat(r)
	}
	n := int(rating + 0.5)
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

func derefFloat(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func statusClass(status string) string {
	return "status-" + strings.ToLower(status)
}

// pageNumbers 1..total
func pageNumbers(total int) []int {
	if total < 1 {
		return nil
	}
	out := make([]int, total)
	for i := range out {
		out[i] = i + 1
	}
	return out
}
