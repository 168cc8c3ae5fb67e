package main

import (
	"github.com/sirupsen/logrus"

	"github.com/Rahanur19/youStream/internal/transport/http"
)

func main() {
	if err := http.Run(); err != nil {
		logrus.Fatalf("Server failed: %v", err)
	}
}
