package main

import "highway/internal/app"

// @title           Highway Auth API
// @version         1.0
// @description     Регистрация, подтверждение почты по OTP, вход и смена пароля.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
