// Command-line tool to create a company and print the registration code its HR members sign up with.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/Adham-Aroubite/hr-back/internal/config"
	"github.com/Adham-Aroubite/hr-back/internal/database"
	"github.com/Adham-Aroubite/hr-back/internal/utilities"
)

const maxAttempts = 5

func main() {
	name := flag.String("name", "", "company name, prompted for when empty")
	flag.Parse()

	if strings.TrimSpace(*name) == "" {
		fmt.Print("Company name: ")
		input, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			log.Fatalf("Failed to read input: %v", err)
		}
		*name = input
	}
	*name = strings.TrimSpace(*name)
	if *name == "" {
		log.Fatal("Company name is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.GetMainDB(cfg)
	if err != nil {
		log.Fatalf("Database failed to initialize: %v", err)
	}
	defer db.Close()

	for attempt := 0; attempt < maxAttempts; attempt++ {
		code, err := utilities.RegistrationCode(3)
		if err != nil {
			log.Fatalf("Failed to generate registration code: %v", err)
		}

		company, err := db.CreateCompany(*name, code)
		if _, taken := utilities.UniqueViolation(err); taken {
			continue
		}
		if err != nil {
			log.Fatalf("Failed to create company: %v", err)
		}

		fmt.Printf("Company %q created with ID %d\n", company.Name, company.ID)
		fmt.Printf("Registration code: %s\n", company.RegistrationCode)
		return
	}

	log.Fatalf("Could not find an unused registration code after %d attempts", maxAttempts)
}
