package types

// Pollutant codes for non-point-source load reductions.
const (
	PollutantN = "N"
	PollutantP = "P"
	PollutantS = "S"
)

// NPSReduction is the per-practice pollutant load reduction.
type NPSReduction struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PracticeID uint      `gorm:"column:practice_id;not null;index" json:"practiceId"`
	Practice   *Practice `gorm:"foreignKey:PracticeID;references:ID" json:"practice,omitempty"`
	Pollutant  string    `gorm:"column:pollutant;index" json:"pollutant"`
	Quantity   float64   `gorm:"column:quantity;index" json:"quantity"`
	Unit       string    `gorm:"column:unit;index" json:"unit"`
}

func (NPSReduction) TableName() string { return "nps_reductions" }

// NPSReductionCombined is the contract-level rollup, recorded at most once
// per contract and pollutant for an import run.
type NPSReductionCombined struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ContractID uint      `gorm:"column:contract_id;not null;index" json:"contractId"`
	Contract   *Contract `gorm:"foreignKey:ContractID;references:ID" json:"contract,omitempty"`
	Pollutant  string    `gorm:"column:pollutant;index" json:"pollutant"`
	Quantity   float64   `gorm:"column:quantity;index" json:"quantity"`
	Unit       string    `gorm:"column:unit;index" json:"unit"`
}

func (NPSReductionCombined) TableName() string { return "nps_reductions_combined" }
