package main

import "agro-market-api/app"

func main() {
	app.Run()
}
