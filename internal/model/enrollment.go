package model

import "time"

// Enrollment (user_id, course_id) 唯一，由数据库唯一索引保证
type Enrollment struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_enrollment_user_course" json:"user_id"`
	CourseID   uint      `gorm:"not null;uniqueIndex:idx_enrollment_user_course;index" json:"course_id"`
	EnrolledAt time.Time `gorm:"not null;index" json:"enrolled_at"`

	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT" json:"-"`
	Course *Course `gorm:"foreignKey:CourseID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// EnrolledCourse 我的课程列表行
type EnrolledCourse struct {
	Course
	InstructorName string    `json:"instructor_name"`
	EnrolledAt     time.Time `json:"enrolled_at"`
}
