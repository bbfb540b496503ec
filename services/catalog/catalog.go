package catalog

import "mindhaven/models"

// Catalog exposes the session-package reference data.
type Catalog interface {
	List() []models.SessionPackage
	Get(id string) (models.SessionPackage, bool)
}

// StaticCatalog serves the fixed product line-up. Packages are reference
// data: the booking flow reads them and never mutates them.
type StaticCatalog struct {
	packages []models.SessionPackage
}

func NewStaticCatalog() *StaticCatalog {
	return &StaticCatalog{
		packages: []models.SessionPackage{
			{
				ID:              "free-call",
				Title:           "Free Introductory Call",
				Price:           0,
				Currency:        "USD",
				NumSessions:     1,
				DurationMinutes: 20,
				Medium:          "Zoom",
				FreeCall:        true,
			},
			{
				ID:              "single-session",
				Title:           "Single Therapy Session",
				Price:           90,
				Currency:        "USD",
				NumSessions:     1,
				Image:           "/images/packages/single.jpg",
				DurationMinutes: 50,
				Medium:          "Zoom",
			},
			{
				ID:              "four-sessions",
				Title:           "Four-Session Package",
				Price:           320,
				Currency:        "USD",
				NumSessions:     4,
				Image:           "/images/packages/four.jpg",
				DurationMinutes: 50,
				Medium:          "Zoom",
			},
			{
				ID:              "eight-sessions",
				Title:           "Eight-Session Package",
				Price:           600,
				Currency:        "USD",
				NumSessions:     8,
				Image:           "/images/packages/eight.jpg",
				DurationMinutes: 50,
				Medium:          "Zoom",
			},
		},
	}
}

func (c *StaticCatalog) List() []models.SessionPackage {
	out := make([]models.SessionPackage, len(c.packages))
	copy(out, c.packages)
	return out
}

func (c *StaticCatalog) Get(id string) (models.SessionPackage, bool) {
	for _, p := range c.packages {
		if p.ID == id {
			return p, true
		}
	}
	return models.SessionPackage{}, false
}
