package main

import "biotrack/internal/app"

// @title           BioTrack API
// @version         1.0
// @description     Регистрация, верификация email и аутентификация аккаунтов.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
