// @title           artwala API
// @version         1.0
// @description     API жизненного цикла заказов художникам: заявка, предложение, договор, этапы, платежи, отзыв.
// @host            localhost:4000
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import "artwala_backend/internal/app"

func main() {
	app.Run()
}
