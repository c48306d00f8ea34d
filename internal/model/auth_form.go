package model

// SignupForm 注册表单，同时用于 HTML 表单和 JSON
type SignupForm struct {
	Username  string `form:"username" json:"username" validate:"required,max=150,username"`
	Email     string `form:"email" json:"email" validate:"required,email,max=254"`
	Password1 string `form:"password1" json:"password1" validate:"required,min=8,notnumeric"`
	Password2 string `form:"password2" json:"password2" validate:"required,eqfield=Password1"`
}

type LoginForm struct {
	Username string `form:"username" json:"username" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
}
