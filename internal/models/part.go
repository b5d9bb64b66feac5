package models

import "time"

type PartType string

const (
	PartTypeConsumable PartType = "consumable"
	PartTypeSpare      PartType = "spare"
)

// Turnover is the A-D movement class used by inventory planning.
type Turnover string

const (
	TurnoverA Turnover = "A"
	TurnoverB Turnover = "B"
	TurnoverC Turnover = "C"
	TurnoverD Turnover = "D"
)

type Part struct {
	ID                  uint       `gorm:"primaryKey"                              json:"id"`
	Name                string     `gorm:"size:255;not null"                       json:"name"`
	InternalCode        string     `gorm:"size:64;index"                           json:"internal_code"`
	CommercialCode      string     `gorm:"size:64;index"                           json:"commercial_code"`
	Price               int64      `gorm:"not null;check:price >= 0"               json:"price"`
	Inventory           int        `gorm:"not null;default:0;check:inventory >= 0" json:"inventory"`
	Description         string     `gorm:"type:text"                               json:"description"`
	CategoryTitle       string     `gorm:"size:255"                                json:"category_title"`
	CategoryURL         string     `gorm:"size:255"                                json:"category_url"`
	CategoryDescription string     `gorm:"type:text"                               json:"category_description"`
	ImageURLs           StringList `                                               json:"image_urls"`
	Vehicles            StringList `                                               json:"vehicles"`
	PartType            PartType   `gorm:"size:16;not null;default:spare"          json:"part_type"`
	Turnover            *Turnover  `gorm:"size:1"                                  json:"turnover"`
	CreatedAt           time.Time  `                                               json:"created_at"`
	UpdatedAt           time.Time  `                                               json:"updated_at"`
}
