package db

import (
	"context"
	"fmt"

	"github.com/georgettica/contact-fixer/internal/people"
)

// Fixtures returns the sample contacts stored by CreateFixturesDatabase
func Fixtures() []*people.Contact {
	return []*people.Contact{
		{
			Names:          []people.Name{{DisplayName: "Roy Trenneman"}},
			PhoneNumbers:   []people.PhoneNumber{{Value: "0118-999-881-999-119-725-3", Type: "work"}},
			EmailAddresses: []people.EmailAddress{{Value: "roy@reynholm.example"}},
		},
		{
			Names:          []people.Name{{DisplayName: "Maurice Moss"}},
			PhoneNumbers:   []people.PhoneNumber{{Value: "+44 20 7946 0958", Type: "mobile"}, {Value: "020 7946 0000", Type: "work"}},
			EmailAddresses: []people.EmailAddress{{Value: "moss@reynholm.example"}, {Value: "maurice@example.com"}},
		},
		{
			Names:        []people.Name{{DisplayName: "Shoe Emporium"}},
			PhoneNumbers: []people.PhoneNumber{{Value: "976-shoe", Type: "work"}},
		},
		// Right-to-left display names
		{
			Names:        []people.Name{{DisplayName: "דני כהן"}},
			PhoneNumbers: []people.PhoneNumber{{Value: "054-1234567", Type: "mobile"}},
		},
		{
			Names:          []people.Name{{DisplayName: "سارة"}},
			PhoneNumbers:   []people.PhoneNumber{{Value: "050 765 4321", Type: "home"}},
			EmailAddresses: []people.EmailAddress{{Value: "sara@example.com"}},
		},
		// Partial records
		{
			Names:          []people.Name{{DisplayName: "Jen Barber"}},
			EmailAddresses: []people.EmailAddress{{Value: "jen@reynholm.example"}},
		},
		{
			PhoneNumbers: []people.PhoneNumber{{Value: "555-0199"}},
		},
		{
			EmailAddresses: []people.EmailAddress{{Value: "anonymous@example.com"}},
		},
	}
}

// CreateFixturesDatabase creates a local directory with sample contacts
func CreateFixturesDatabase(dbPath string) error {
	if err := Initialize(dbPath); err != nil {
		return fmt.Errorf("initializing fixtures database: %w", err)
	}

	database, err := Open(dbPath, nil)
	if err != nil {
		return fmt.Errorf("opening fixtures database: %w", err)
	}
	defer database.Close()

	ctx := context.Background()
	for _, c := range Fixtures() {
		if _, err := database.AddContact(ctx, c); err != nil {
			return fmt.Errorf("adding fixture contact: %w", err)
		}
	}

	return nil
}
