package types

import "gorm.io/datatypes"

// ImportRecord is appended once per completed import run, after every other
// write in the run's transaction has succeeded.
type ImportRecord struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Source      string         `gorm:"column:source;index" json:"source"`
	ImportDate  string         `gorm:"column:import_date;index" json:"importDate"`
	RecordCount int            `gorm:"column:record_count" json:"recordCount"`
	Summary     datatypes.JSON `gorm:"column:summary" json:"summary,omitempty"`
}

func (ImportRecord) TableName() string { return "imports" }
