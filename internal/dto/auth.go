package dto

type RegisterRequestDTO struct {
	Username  string `json:"username" example:"alice"`
	Email     string `json:"email" example:"alice@example.com"`
	Password  string `json:"password" example:"s3cretpass"`
	FirstName string `json:"first_name,omitempty" example:"Alice"`
	LastName  string `json:"last_name,omitempty" example:"Cooper"`
	Phone     string `json:"phone,omitempty" example:"+15550100"`
}

type RegisterResponseDTO struct {
	Message string `json:"message" example:"User successfully registered"`
}

type LoginRequestDTO struct {
	Login    string `json:"login" example:"alice"`
	Password string `json:"password" example:"s3cretpass"`
}

type LoginResponseDTO struct {
	Message string `json:"message" example:"User successfully authenticated"`
}

type RefreshResponseDTO struct {
	Message string `json:"message" example:"Token refreshed"`
}

type PasswordResetRequestDTO struct {
	Email string `json:"email" example:"alice@example.com"`
}

type PasswordResetResponseDTO struct {
	Message string `json:"message" example:"If the address is registered, instructions were sent"`
}

type ChangePasswordRequestDTO struct {
	OldPassword string `json:"old_password" example:"s3cretpass"`
	NewPassword string `json:"new_password" example:"ev3nbetterpass"`
}
