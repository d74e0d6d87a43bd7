package model

// Course 课程。VideoLocation / DocumentLocation 为上传组件返回的附件位置
// swagger:model Course
type Course struct {
	BaseModel
	Title            string  `gorm:"size:255;not null" json:"title"`
	Category         string  `gorm:"size:100;not null;index" json:"category"`
	Description      string  `gorm:"type:text;not null" json:"description"`
	Price            float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	Duration         string  `gorm:"size:50;not null" json:"duration"`
	InstructorID     uint    `gorm:"not null;index" json:"instructor_id"`
	VideoLocation    string  `gorm:"size:255" json:"videoUrl"`
	DocumentLocation string  `gorm:"size:255" json:"pdfUrl"`
	Published        bool    `gorm:"not null;default:true;index" json:"published"`

	Instructor *User `gorm:"foreignKey:InstructorID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (Course) TableName() string {
	return "courses"
}
