package main

import "idm_backend/internal/app"

func main() {
	app.Run()
}
