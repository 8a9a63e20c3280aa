// cmd/main.go
package main

import (
	"go-forum-api/app"
)

// @title           Destinations Forum API
// @version         1.0
// @description     A travel destinations forum with session-backed authentication.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
