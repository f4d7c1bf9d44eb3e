package types

type Voucher struct {
	ID            uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID     uint     `gorm:"column:project_id;not null;index" json:"projectId"`
	Project       *Project `gorm:"foreignKey:ProjectID;references:ID" json:"project,omitempty"`
	Name          string   `gorm:"column:name;index" json:"name"`
	VoucherDate   *string  `gorm:"column:voucher_date;index" json:"voucherDate"`
	Status        string   `gorm:"column:status;index" json:"status"`
	FinalizedDate *string  `gorm:"column:finalized_date;index" json:"finalizedDate"`
}

func (Voucher) TableName() string { return "vouchers" }

type VoucherItem struct {
	ID        uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	VoucherID uint     `gorm:"column:voucher_id;not null;index" json:"voucherId"`
	Voucher   *Voucher `gorm:"foreignKey:VoucherID;references:ID" json:"voucher,omitempty"`
	BillID    uint     `gorm:"column:bill_id;index" json:"billId"`
	FundID    uint     `gorm:"column:fund_id;index" json:"fundId"`
}

func (VoucherItem) TableName() string { return "voucher_items" }
