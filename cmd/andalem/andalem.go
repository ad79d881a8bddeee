package main

import (
	_ "go.uber.org/automaxprocs"

	"github.com/kiosk404/andalem/internal/andalem"
)

func main() {
	andalem.NewApp("andalem").Run()
}
