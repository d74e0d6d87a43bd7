package model

type UserRole string

const (
	Learner    UserRole = "learner"
	Instructor UserRole = "instructor"
)

// Valid 是否为受支持的角色
func (r UserRole) Valid() bool {
	return r == Learner || r == Instructor
}

// swagger:model User
type User struct {
	BaseModel
	Name     string   `gorm:"size:100;not null" json:"name"`
	Email    string   `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password string   `gorm:"size:100;not null" json:"-"`
	Role     UserRole `gorm:"size:20;not null;index" json:"role"`
}

func (User) TableName() string {
	return "users"
}
