package main

import "dailypay/internal/app/server"

func main() {
	server.Run()
}
