package types

type GRTSReport struct {
	ID              uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID       uint     `gorm:"column:project_id;not null;index" json:"projectId"`
	Project         *Project `gorm:"foreignKey:ProjectID;references:ID" json:"project,omitempty"`
	FiscalYear      int      `gorm:"column:fiscal_year;index" json:"fiscalYear"`
	ReportingPeriod string   `gorm:"column:reporting_period;index" json:"reportingPeriod"`
	Status          string   `gorm:"column:status;index" json:"status"`
}

func (GRTSReport) TableName() string { return "grts_reports" }
