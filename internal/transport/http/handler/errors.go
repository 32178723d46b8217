package handler

const (
	errInternalServer     = "Internal server error"
	errAllFieldsRequired  = "All fields are required"
	errPasswordMismatch   = "Password and Confirm Password do not match"
	errEmailTaken         = "User email already exists"
	errNotRegistered      = "User not registered"
	errInvalidCredentials = "Invalid email or password"
	errEmailRequired      = "Email field is required"
	errEmailNotFound      = "Email does not exist"
	errTokenInvalid       = "Token is invalid or expired"
	errUnauthorized       = "Unauthorized"
)
