package model

import "time"

type Category string

const (
	CategoryIndoor       Category = "Indoor"
	CategoryOutdoor      Category = "Outdoor"
	CategorySucculent    Category = "Succulent"
	CategoryAirPurifying Category = "Air Purifying"
	CategoryHomeDecor    Category = "Home Decor"
	CategoryFlowering    Category = "Flowering"
	CategoryHerbs        Category = "Herbs"
	CategoryMedicinal    Category = "Medicinal"
	CategoryOther        Category = "Other"
)

var categories = map[Category]struct{}{
	CategoryIndoor:       {},
	CategoryOutdoor:      {},
	CategorySucculent:    {},
	CategoryAirPurifying: {},
	CategoryHomeDecor:    {},
	CategoryFlowering:    {},
	CategoryHerbs:        {},
	CategoryMedicinal:    {},
	CategoryOther:        {},
}

func (c Category) Valid() bool {
	_, ok := categories[c]
	return ok
}

const (
	PlantNameMaxLen        = 100
	PlantDescriptionMaxLen = 500
)

type Plant struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Price       int64      `gorm:"not null;index" json:"price"`
	Categories  []Category `gorm:"type:jsonb;serializer:json;not null" json:"categories"`
	InStock     bool       `gorm:"not null;default:true;index" json:"inStock"`
	Description string     `gorm:"type:varchar(500)" json:"description"`

	//公開URL
	Image string `gorm:"type:text" json:"image"`
	//オブジェクトストレージ上のキー（削除用）
	ImageKey string `gorm:"type:varchar(255)" json:"-"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}
