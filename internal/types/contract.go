package types

type Contract struct {
	ID               uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ProducerID       uint      `gorm:"column:producer_id;not null;index" json:"producerId"`
	Producer         *Producer `gorm:"foreignKey:ProducerID;references:ID" json:"producer,omitempty"`
	ContractNumber   string    `gorm:"column:contract_number;index" json:"contractNumber"`
	StartDate        *string   `gorm:"column:start_date" json:"startDate"`
	EndDate          *string   `gorm:"column:end_date" json:"endDate"`
	LegalDescription string    `gorm:"column:legal_description" json:"legalDescription"`
}

func (Contract) TableName() string { return "contracts" }
