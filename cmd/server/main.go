package main

import "github.com/mission-vitale/backend/internal/server"

func main() {
	s := server.NewServer()
	s.Run()
}
