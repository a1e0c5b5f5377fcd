package entity

const (
	CategoryNameMaxLen        = 50
	CategoryDescriptionMaxLen = 200
)

type Category struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"size:50;not null"`
	Description string    `gorm:"size:200;not null"`
	Products    []Product `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (Category) TableName() string {
	return "categories"
}
