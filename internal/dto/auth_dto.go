package dto

type RegisterRequest struct {
	Username string `validate:"required,min=3,max=64,alphanum"`
	Password string `validate:"required,min=8,max=128"`
	FullName string `validate:"required,min=2,max=255"`
	Role     string `validate:"omitempty,oneof=user admin"`
}

type LoginResult struct {
	Username           string
	FullName           string
	Role               string
	MustChangePassword bool
}
