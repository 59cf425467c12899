package main

import (
	"log"
	"os"
)

func main() {
	if len(os.Args) > 3 {
		log.Fatal("too many arguments")
	}
	os.Exit(run())
}

func run() int {
	if len(os.Args) > 2 {
		os.Exit(2) // want `os.Exit\(\) should only be called from main function in main package`
	}
	log.Fatalf("unreachable %d", 1) // want `log.Fatalf\(\) should only be called from main function in main package`
	return 0
}
