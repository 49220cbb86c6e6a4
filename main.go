package main

import "connectvision/internal/app"

func main() {
	app.Main()
}
