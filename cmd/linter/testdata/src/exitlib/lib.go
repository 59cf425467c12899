package exitlib

import (
	"log"
	"os"
)

func main() {
	os.Exit(1) // want `os.Exit\(\) should only be called from main function in main package`
}

func LoadKey() {
	log.Fatalln("no key") // want `log.Fatalln\(\) should only be called from main function in main package`
	log.Println("fine")
}
