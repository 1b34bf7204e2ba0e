package main

import (
	"newsbot/cmd/handlers"
	"newsbot/internal/logger"
)

func main() {
	logger.Init()
	handlers.Execute()
}
