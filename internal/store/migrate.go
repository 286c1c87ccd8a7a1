package store

import (
	"fmt"

	"github.com/arveyy/intraportal/internal/models"
)

// A migration upgrades a document one schema version forward.
type migration struct {
	to    int
	apply func(doc *models.Document)
}

// migrations is ordered by target version; migrate applies every step
// past the document's current version.
var migrations = []migration{
	{to: 1, apply: func(doc *models.Document) {
		// Legacy documents predate the version tag: collections may be
		// absent and emails were stored as typed by the user.
		if doc.Accounts == nil {
			doc.Accounts = []models.Account{}
		}
		if doc.Departments == nil {
			doc.Departments = []models.Department{}
		}
		if doc.Employees == nil {
			doc.Employees = []models.Employee{}
		}
		if doc.Requests == nil {
			doc.Requests = []models.Request{}
		}
		for i := range doc.Accounts {
			doc.Accounts[i].Email = models.NormalizeEmail(doc.Accounts[i].Email)
			if doc.Accounts[i].Role == "" {
				doc.Accounts[i].Role = models.RoleUser
			}
		}
		for i := range doc.Employees {
			doc.Employees[i].Email = models.NormalizeEmail(doc.Employees[i].Email)
		}
		for i := range doc.Requests {
			doc.Requests[i].OwnerEmail = models.NormalizeEmail(doc.Requests[i].OwnerEmail)
			if doc.Requests[i].Status == "" {
				doc.Requests[i].Status = models.StatusPending
			}
		}
	}},
}

func migrate(doc *models.Document) error {
	if doc.SchemaVersion > models.SchemaVersion {
		return fmt.Errorf("document schema version %d is newer than supported %d",
			doc.SchemaVersion, models.SchemaVersion)
	}
	for _, m := range migrations {
		if doc.SchemaVersion < m.to {
			m.apply(doc)
			doc.SchemaVersion = m.to
		}
	}
	return nil
}
