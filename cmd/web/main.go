// @title           SwipeTonPro API
// @version         1.0
// @description     Маркетплейс particuliers и artisans: свайпы, матчи, кредиты, модерация.
// @contact.name    SwipeTonPro
// @contact.email   contact@swipetonpro.fr
// @host            localhost:8001
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @securityDefinitions.apikey AdminAuth
// @in header
// @name Authorization

package main

import "swipetonpro_backend/internal/app"

func main() {
	app.Run()
}
