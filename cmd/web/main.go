package main

import "slowork_backend/internal/app"

func main() {
	app.Run()
}
