package model

type UserRole string

const (
	Member UserRole = "member"
	Admin  UserRole = "admin"
)

type User struct {
	BaseModel
	Name     string   `gorm:"size:100;not null" json:"name"`
	Surname  string   `gorm:"size:100;not null" json:"surname"`
	Email    string   `gorm:"size:100;unique;not null" json:"email"`
	Password string   `gorm:"size:100;not null" json:"-"`
	Role     UserRole `gorm:"type:enum('member','admin');default:'member'" json:"role"`
	Verified bool     `gorm:"default:false" json:"verified"` // 管理员批准注册后置真
	Active   bool     `gorm:"default:true" json:"active"`
}

func (User) TableName() string {
	return "users"
}
