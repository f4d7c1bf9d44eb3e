package types

// BMP is one installed best-management-practice site. Dates are kept as
// YYYY-MM-DD strings the way the source extract carries them; nil means the
// source cell was blank or unparseable.
type BMP struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ContractID     uint      `gorm:"column:contract_id;not null;index" json:"contractId"`
	Contract       *Contract `gorm:"foreignKey:ContractID;references:ID" json:"contract,omitempty"`
	Type           string    `gorm:"column:type;index" json:"type"`
	BMPCode        string    `gorm:"column:bmp_code;index" json:"bmpCode"`
	CompletionDate *string   `gorm:"column:completion_date;index" json:"completionDate"`
	Lat            *float64  `gorm:"column:lat" json:"lat"`
	Lng            *float64  `gorm:"column:lng" json:"lng"`
	StreamArea     string    `gorm:"column:stream_area;index" json:"streamArea"`
	LocationText   string    `gorm:"column:location_text" json:"locationText"`
}

func (BMP) TableName() string { return "bmps" }

type Photo struct {
	ID      uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	BMPID   uint    `gorm:"column:bmp_id;not null;index" json:"bmpId"`
	BMP     *BMP    `gorm:"foreignKey:BMPID;references:ID" json:"bmp,omitempty"`
	Date    *string `gorm:"column:date;index" json:"date"`
	Caption string  `gorm:"column:caption" json:"caption"`
	DataURL string  `gorm:"column:data_url" json:"dataURL"`
}

func (Photo) TableName() string { return "photos" }

type Milestone struct {
	ID           uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	BMPID        uint    `gorm:"column:bmp_id;not null;index" json:"bmpId"`
	BMP          *BMP    `gorm:"foreignKey:BMPID;references:ID" json:"bmp,omitempty"`
	Description  string  `gorm:"column:description" json:"description"`
	ActualAmount float64 `gorm:"column:actual_amount;index" json:"actualAmount"`
	Unit         string  `gorm:"column:unit;index" json:"unit"`
}

func (Milestone) TableName() string { return "milestones" }
