// @title           Storefront API
// @version         1.0
// @description     API интернет-магазина: каталог, заказы, оплата, контент (документация Swagger).
// @host            localhost:5000
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import "storefront_backend/internal/app"

func main() {
	app.Run()
}
