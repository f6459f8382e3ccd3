package campaigns

import (
	"errors"
	"fmt"
	"strings"

	"github.com/openraise/screening/internal/domain"
)

var ErrValidation = errors.New("validation error")

const (
	minTitleLen       = 3
	maxTitleLen       = 200
	minDescriptionLen = 20
	maxDescriptionLen = 5000
	maxLinkCount      = 20
)

type Config struct {
	MaxImageCount int
}

// Service validates and normalizes incoming campaign submissions before
// they reach the screening pipeline.
type Service struct {
	cfg Config
}

func NewService(cfg Config) *Service {
	if cfg.MaxImageCount <= 0 {
		cfg.MaxImageCount = 10
	}
	return &Service{cfg: cfg}
}

// Normalize trims submitted fields and validates them. A campaign that
// fails here never reaches the signal producers.
func (s *Service) Normalize(in domain.Campaign) (domain.Campaign, error) {
	out := in
	out.Title = strings.TrimSpace(in.Title)
	out.Description = strings.TrimSpace(in.Description)
	out.Category = strings.ToLower(strings.TrimSpace(in.Category))

	if n := len([]rune(out.Title)); n < minTitleLen || n > maxTitleLen {
		return domain.Campaign{}, fmt.Errorf("title must be %d to %d characters: %w", minTitleLen, maxTitleLen, ErrValidation)
	}
	if n := len([]rune(out.Description)); n < minDescriptionLen || n > maxDescriptionLen {
		return domain.Campaign{}, fmt.Errorf("description must be %d to %d characters: %w", minDescriptionLen, maxDescriptionLen, ErrValidation)
	}
	if out.Goal <= 0 {
		return domain.Campaign{}, fmt.Errorf("goal must be positive: %w", ErrValidation)
	}
	if out.Category == "" {
		return domain.Campaign{}, fmt.Errorf("category is required: %w", ErrValidation)
	}
	if out.Creator.UserID == "" {
		return domain.Campaign{}, fmt.Errorf("creator user id is required: %w", ErrValidation)
	}
	if len(out.Images) > s.cfg.MaxImageCount {
		return domain.Campaign{}, fmt.Errorf("at most %d images allowed: %w", s.cfg.MaxImageCount, ErrValidation)
	}
	if len(out.Links) > maxLinkCount {
		return domain.Campaign{}, fmt.Errorf("at most %d links allowed: %w", maxLinkCount, ErrValidation)
	}

	seenImageIDs := make(map[string]struct{}, len(out.Images))
	for _, img := range out.Images {
		if img.ID == "" {
			return domain.Campaign{}, fmt.Errorf("image id is required: %w", ErrValidation)
		}
		if _, dup := seenImageIDs[img.ID]; dup {
			return domain.Campaign{}, fmt.Errorf("image id %q is duplicated: %w", img.ID, ErrValidation)
		}
		seenImageIDs[img.ID] = struct{}{}
	}

	links := make([]string, 0, len(out.Links))
	for _, link := range out.Links {
		link = strings.TrimSpace(link)
		if link == "" {
			continue
		}
		links = append(links, link)
	}
	out.Links = links

	return out, nil
}
