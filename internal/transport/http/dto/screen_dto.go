package dto

import (
	"github.com/openraise/screening/internal/domain"
)

// ScreenCampaignRequest is the JSON part of a screening submission. Image
// payloads arrive as separate multipart file parts named "images"; their
// order must match the images array here.
type ScreenCampaignRequest struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Goal        int64                `json:"goal"`
	Category    string               `json:"category"`
	Links       []string             `json:"links"`
	Images      []ScreenImageRequest `json:"images"`
	Creator     ScreenCreatorRequest `json:"creator"`
}

type ScreenImageRequest struct {
	ID       string `json:"id"`
	MIMEType string `json:"mime_type"`
}

type ScreenCreatorRequest struct {
	UserID           string `json:"user_id"`
	DisplayName      string `json:"display_name"`
	AccountAgeDays   int    `json:"account_age_days"`
	PastCampaigns    int    `json:"past_campaigns"`
	VerifiedEmail    bool   `json:"verified_email"`
	VerifiedIdentity bool   `json:"verified_identity"`
}

type VerdictResponse struct {
	Decision       string             `json:"decision"`
	Risk           float64            `json:"risk"`
	Rationale      []string           `json:"rationale"`
	CategoryScores map[string]float64 `json:"category_scores"`
	RequiredEdits  []string           `json:"required_edits,omitempty"`
	Highlights     []HighlightDTO     `json:"highlights,omitempty"`
	URLFindings    []URLFindingDTO    `json:"url_findings,omitempty"`
	ImageFindings  []SignalResultDTO  `json:"image_findings,omitempty"`

	ClassifierSource   string `json:"classifier_source,omitempty"`
	ClassifierDegraded bool   `json:"classifier_degraded,omitempty"`
}

type HighlightDTO struct {
	Field string `json:"field"`
	Text  string `json:"text"`
	Start *int   `json:"start,omitempty"`
	End   *int   `json:"end,omitempty"`
}

type URLFindingDTO struct {
	URL    string  `json:"url"`
	Risk   float64 `json:"risk"`
	Reason string  `json:"reason"`
}

type SignalResultDTO struct {
	Score    float64  `json:"score"`
	Findings []string `json:"findings,omitempty"`
}

func (r ScreenCampaignRequest) ToDomain() domain.Campaign {
	images := make([]domain.Image, 0, len(r.Images))
	for _, img := range r.Images {
		images = append(images, domain.Image{ID: img.ID, MIMEType: img.MIMEType})
	}

	return domain.Campaign{
		Title:       r.Title,
		Description: r.Description,
		Goal:        r.Goal,
		Category:    r.Category,
		Links:       r.Links,
		Images:      images,
		Creator: domain.Creator{
			UserID:           r.Creator.UserID,
			DisplayName:      r.Creator.DisplayName,
			AccountAgeDays:   r.Creator.AccountAgeDays,
			PastCampaigns:    r.Creator.PastCampaigns,
			VerifiedEmail:    r.Creator.VerifiedEmail,
			VerifiedIdentity: r.Creator.VerifiedIdentity,
		},
	}
}

func VerdictResponseFromDomain(v domain.Verdict) VerdictResponse {
	scores := make(map[string]float64, len(v.CategoryScores))
	for cat, score := range v.CategoryScores {
		scores[string(cat)] = score
	}

	highlights := make([]HighlightDTO, 0, len(v.Highlights))
	for _, h := range v.Highlights {
		highlights = append(highlights, HighlightDTO{Field: h.Field, Text: h.Text, Start: h.Start, End: h.End})
	}

	urls := make([]URLFindingDTO, 0, len(v.URLFindings))
	for _, f := range v.URLFindings {
		urls = append(urls, URLFindingDTO{URL: f.URL, Risk: f.Risk, Reason: f.Reason})
	}

	images := make([]SignalResultDTO, 0, len(v.ImageFindings))
	for _, r := range v.ImageFindings {
		images = append(images, SignalResultDTO{Score: r.Score, Findings: r.Findings})
	}

	return VerdictResponse{
		Decision:       string(v.Decision),
		Risk:           v.Risk,
		Rationale:      v.Rationale,
		CategoryScores: scores,
		RequiredEdits:  v.RequiredEdits,
		Highlights:     highlights,
		URLFindings:    urls,
		ImageFindings:  images,

		ClassifierSource:   v.ClassifierSource,
		ClassifierDegraded: v.ClassifierDegraded,
	}
}
