package types

type Project struct {
	ID      uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name    string `gorm:"column:name;not null;index" json:"name"`
	Segment *int   `gorm:"column:segment;index" json:"segment"`
	Year    *int   `gorm:"column:year;index" json:"year"`
	Sponsor string `gorm:"column:sponsor" json:"sponsor"`
}

func (Project) TableName() string { return "projects" }
