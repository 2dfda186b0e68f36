package handler

// Request schemas are validated through the echo validator; field rules
// mirror the identity record constraints (username charset and length,
// address shape, loose international phone pattern).

type loginRequest struct {
	// Email doubles as the username field: an identifier without "@" is
	// treated as a username.
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerAdminRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone" validate:"required"`
	Image    string `json:"image,omitempty"`
}

type createManagerRequest struct {
	Username   string `json:"username" validate:"required,min=3,max=30"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	Phone      string `json:"phone" validate:"required"`
	Department string `json:"department" validate:"required,max=30"`
	Image      string `json:"image,omitempty"`
}

type createEmployeeRequest struct {
	Username   string  `json:"username" validate:"required,min=3,max=30"`
	Email      string  `json:"email" validate:"required,email"`
	Password   string  `json:"password" validate:"required,min=6"`
	Phone      string  `json:"phone" validate:"required"`
	Department string  `json:"department" validate:"required,max=30"`
	Position   string  `json:"position" validate:"required,max=50"`
	EmployeeID string  `json:"employee_id,omitempty"`
	Salary     float64 `json:"salary,omitempty" validate:"omitempty,gte=0"`
	Image      string  `json:"image,omitempty"`
}

type updateProfileRequest struct {
	Username string `json:"username,omitempty" validate:"omitempty,min=3,max=30"`
	Phone    string `json:"phone,omitempty"`
	Image    string `json:"image,omitempty"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetCodeRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required,len=6"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

type resetTokenRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

type authResponse struct {
	Token string `json:"token,omitempty"`
	Data  any    `json:"data,omitempty"`
}

type dataResponse struct {
	Data any `json:"data"`
}

type listResponse struct {
	Count int `json:"count"`
	Data  any `json:"data"`
}

type messageResponse struct {
	Message string `json:"message"`
}
