package models

import "github.com/shopspring/decimal"

// Payment 用户的一笔支付
type Payment struct {
	ID            int64           `json:"id"`
	BookingID     int64           `json:"bookingId"`
	TransactionID string          `json:"transactionId,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"paymentMethod"`
	Status        string          `json:"status"`
	CreatedAt     string          `json:"createdAt"`
}

// Earnings 房东收入汇总
type Earnings struct {
	Period    string          `json:"period,omitempty"`
	Total     decimal.Decimal `json:"total"`
	Pending   decimal.Decimal `json:"pending"`
	Available decimal.Decimal `json:"available"`
}

// 提现状态
const (
	PayoutRequested = "REQUESTED"
	PayoutProcessed = "PROCESSED"
	PayoutRejected  = "REJECTED"
)

// Payout 提现记录
type Payout struct {
	ID          int64           `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	RequestedAt string          `json:"requestedAt"`
	ProcessedAt string          `json:"processedAt,omitempty"`
}
