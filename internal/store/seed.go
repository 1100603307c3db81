package store

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/Tiliavir/tempo/internal/model"
)

const (
	// DefaultAPIURL is the placeholder API base written on first run.
	DefaultAPIURL = "https://api.example.com/v1"

	defaultUserName  = "Your Name"
	defaultUserEmail = "you@example.com"
)

// defaultCatalog returns the four projects seeded on first run.
func defaultCatalog() model.Catalog {
	return model.Catalog{Projects: []model.Project{
		{UUID: uuid.NewString(), Name: "Internal", Description: "Internal tooling and maintenance", Status: model.StatusActive},
		{UUID: uuid.NewString(), Name: "Client Alpha", Description: "Alpha retainer engagement", Status: model.StatusActive},
		{UUID: uuid.NewString(), Name: "Client Beta", Description: "Beta fixed-price project", Status: model.StatusActive},
		{UUID: uuid.NewString(), Name: "Archive", Description: "Closed engagements kept for reference", Status: model.StatusPaused},
	}}
}

// Seed bootstraps the data directory on first run: it creates the
// directory and writes default documents for every kind whose file does
// not exist yet. Existing files are never touched, so a corrupt document
// survives Seed and still fails loudly on load.
func (s *Store) Seed() error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	if missing, err := s.absent(KindUser); err != nil {
		return err
	} else if missing {
		u := model.User{UUID: uuid.NewString(), Name: defaultUserName, Email: defaultUserEmail}
		if err := s.SaveUser(u); err != nil {
			return fmt.Errorf("seeding user: %w", err)
		}
	}

	if missing, err := s.absent(KindProjects); err != nil {
		return err
	} else if missing {
		if err := s.SaveCatalog(defaultCatalog()); err != nil {
			return fmt.Errorf("seeding projects: %w", err)
		}
	}

	if missing, err := s.absent(KindConfig); err != nil {
		return err
	} else if missing {
		c := model.Config{
			APIURL:           DefaultAPIURL,
			APIToken:         "",
			MockMode:         true,
			ShowCurlCommands: false,
			LastUpdated:      time.Now().UTC().Format(time.RFC3339),
		}
		if err := s.SaveConfig(c); err != nil {
			return fmt.Errorf("seeding config: %w", err)
		}
	}

	return nil
}

func (s *Store) absent(kind Kind) (bool, error) {
	_, err := os.Stat(s.path(kind))
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", s.path(kind), err)
	}
	return false, nil
}
