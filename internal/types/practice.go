package types

type Practice struct {
	ID             uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	BMPID          uint    `gorm:"column:bmp_id;not null;index" json:"bmpId"`
	BMP            *BMP    `gorm:"foreignKey:BMPID;references:ID" json:"bmp,omitempty"`
	PracticeType   string  `gorm:"column:practice_type;index" json:"practiceType"`
	PracticeCode   string  `gorm:"column:practice_code;index" json:"practiceCode"`
	Status         string  `gorm:"column:status;index" json:"status"`
	StartDate      *string `gorm:"column:start_date" json:"startDate"`
	CompletionDate *string `gorm:"column:completion_date;index" json:"completionDate"`
	Acres          float64 `gorm:"column:acres" json:"acres"`
	Comments       string  `gorm:"column:comments" json:"comments"`
}

func (Practice) TableName() string { return "practices" }
