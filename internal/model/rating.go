package model

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Rating 同一用户可多次评分，每次评分单独成行
type Rating struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CourseID  uint      `gorm:"not null;index" json:"course_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Value     int       `gorm:"column:rating;not null" json:"rating"`
	CreatedAt time.Time `json:"createdAt"`

	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT" json:"-"`
	Course *Course `gorm:"foreignKey:CourseID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (Rating) TableName() string {
	return "ratings"
}

// RatingAggregate 课程评分聚合（读取时实时计算，不落库）
type RatingAggregate struct {
	CourseID uint
	Average  float64
	Count    int64
}
