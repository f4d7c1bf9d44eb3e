package types

// Producer is one cost-share participant. PersonID is the natural key carried
// over from the source spreadsheet; it may be empty for legacy rows, so the
// surrogate ID remains the only reliable reference.
type Producer struct {
	ID                     uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID              uint     `gorm:"column:project_id;not null;index" json:"projectId"`
	Project                *Project `gorm:"foreignKey:ProjectID;references:ID" json:"project,omitempty"`
	PersonID               string   `gorm:"column:person_id;index" json:"personID"`
	FirstName              string   `gorm:"column:first_name" json:"firstName"`
	LastName               string   `gorm:"column:last_name;index" json:"lastName"`
	FarmName               string   `gorm:"column:farm_name" json:"farmName"`
	LifetimeCostshareTotal float64  `gorm:"column:lifetime_costshare_total" json:"lifetimeCostshareTotal"`
	LifetimeTotalAcres     float64  `gorm:"column:lifetime_total_acres" json:"lifetimeTotalAcres"`
	Address                string   `gorm:"column:address" json:"address"`
	Address2               string   `gorm:"column:address2" json:"address2"`
	City                   string   `gorm:"column:city" json:"city"`
	State                  string   `gorm:"column:state" json:"state"`
	Zip                    string   `gorm:"column:zip" json:"zip"`
	Phone                  string   `gorm:"column:phone" json:"phone"`
	AltPhone               string   `gorm:"column:alt_phone" json:"altPhone"`
	Email                  string   `gorm:"column:email" json:"email"`
	RecordURL              string   `gorm:"column:record_url" json:"recordURL"`
	IsImported             bool     `gorm:"column:is_imported" json:"isImported"`
	IsSegmentContact       bool     `gorm:"column:is_segment_contact" json:"isSegmentContact"`
}

func (Producer) TableName() string { return "producers" }
