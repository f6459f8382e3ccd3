package campaigns

import (
	"errors"
	"strings"
	"testing"

	"github.com/openraise/screening/internal/domain"
)

func validCampaign() domain.Campaign {
	return domain.Campaign{
		Title:       "Help rebuild the library",
		Description: "Our local library lost its roof in the storm and needs repairs before winter.",
		Goal:        25000,
		Category:    "Community",
		Creator:     domain.Creator{UserID: "u-1"},
	}
}

func TestNormalizeAcceptsValidCampaign(t *testing.T) {
	svc := NewService(Config{MaxImageCount: 10})

	in := validCampaign()
	in.Title = "  Help rebuild the library  "
	in.Links = []string{" https://example.org ", ""}

	out, err := svc.Normalize(in)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if out.Title != "Help rebuild the library" {
		t.Fatalf("title should be trimmed, got %q", out.Title)
	}
	if out.Category != "community" {
		t.Fatalf("category should be lowercased, got %q", out.Category)
	}
	if len(out.Links) != 1 || out.Links[0] != "https://example.org" {
		t.Fatalf("links should be trimmed and compacted, got %v", out.Links)
	}
}

func TestNormalizeRejectsInvalidInput(t *testing.T) {
	svc := NewService(Config{MaxImageCount: 2})

	tests := []struct {
		name   string
		mutate func(*domain.Campaign)
	}{
		{name: "title too short", mutate: func(c *domain.Campaign) { c.Title = "Hi" }},
		{name: "title too long", mutate: func(c *domain.Campaign) { c.Title = strings.Repeat("a", 201) }},
		{name: "description too short", mutate: func(c *domain.Campaign) { c.Description = "too short" }},
		{name: "description too long", mutate: func(c *domain.Campaign) { c.Description = strings.Repeat("a", 5001) }},
		{name: "zero goal", mutate: func(c *domain.Campaign) { c.Goal = 0 }},
		{name: "negative goal", mutate: func(c *domain.Campaign) { c.Goal = -5 }},
		{name: "missing category", mutate: func(c *domain.Campaign) { c.Category = "  " }},
		{name: "missing creator", mutate: func(c *domain.Campaign) { c.Creator.UserID = "" }},
		{name: "too many images", mutate: func(c *domain.Campaign) {
			c.Images = []domain.Image{{ID: "1"}, {ID: "2"}, {ID: "3"}}
		}},
		{name: "missing image id", mutate: func(c *domain.Campaign) {
			c.Images = []domain.Image{{ID: "", MIMEType: "image/png"}}
		}},
		{name: "duplicate image ids", mutate: func(c *domain.Campaign) {
			c.Images = []domain.Image{{ID: "img-1", MIMEType: "image/png"}, {ID: "img-1", MIMEType: "image/jpeg"}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validCampaign()
			tt.mutate(&in)
			if _, err := svc.Normalize(in); !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}
