package types

type Bill struct {
	ID               uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PracticeID       uint      `gorm:"column:practice_id;not null;index" json:"practiceId"`
	Practice         *Practice `gorm:"foreignKey:PracticeID;references:ID" json:"practice,omitempty"`
	Description      string    `gorm:"column:description" json:"description"`
	Quantity         float64   `gorm:"column:quantity" json:"quantity"`
	Units            string    `gorm:"column:units" json:"units"`
	PaymentNumber    string    `gorm:"column:payment_number" json:"paymentNumber"`
	PaidDate         *string   `gorm:"column:paid_date;index" json:"paidDate"`
	ServiceBeginDate *string   `gorm:"column:service_begin_date" json:"serviceBeginDate"`
	ServiceEndDate   *string   `gorm:"column:service_end_date" json:"serviceEndDate"`
	Notes            string    `gorm:"column:notes" json:"notes"`
}

func (Bill) TableName() string { return "bills" }

// FundName is one of a small fixed set of funding categories, not free text.
const (
	Fund319   = "319"
	FundOther = "Other"
	FundLocal = "Local"
)

type Fund struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	BillID    uint    `gorm:"column:bill_id;not null;index" json:"billId"`
	Bill      *Bill   `gorm:"foreignKey:BillID;references:ID" json:"bill,omitempty"`
	FundName  string  `gorm:"column:fund_name;index" json:"fundName"`
	Amount    float64 `gorm:"column:amount;index" json:"amount"`
	IsAdvance bool    `gorm:"column:is_advance;index" json:"isAdvance"`
}

func (Fund) TableName() string { return "funds" }
