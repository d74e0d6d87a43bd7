package model

// PublicCourse 公开课程列表行，Rating 为保留一位小数的平均分
type PublicCourse struct {
	Course
	InstructorName string   `json:"instructor_name"`
	Rating         *float64 `json:"rating"`
	RatingCount    int64    `json:"rating_count"`
}

// InstructorCourse 讲师课程列表行，AverageRating 不做舍入
type InstructorCourse struct {
	Course
	AverageRating *float64 `json:"averageRating"`
	RatingCount   int64    `json:"rating_count"`
}
