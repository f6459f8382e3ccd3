package dto

import (
	"time"

	"github.com/openraise/screening/internal/services/review"
)

type ReviewItemResponse struct {
	ID         string                `json:"id"`
	Campaign   ScreenCampaignRequest `json:"campaign"`
	Verdict    VerdictResponse       `json:"verdict"`
	Status     string                `json:"status"`
	CreatedAt  time.Time             `json:"created_at"`
	ReviewedBy *string               `json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time            `json:"reviewed_at,omitempty"`
	Notes      *string               `json:"notes,omitempty"`
	// ImageURLs maps image id to a short-lived presigned link for the
	// archived payload, when archival is configured.
	ImageURLs map[string]string `json:"image_urls,omitempty"`
}

type ReviewListResponse struct {
	Items []ReviewItemResponse `json:"items"`
	Total int                  `json:"total"`
}

type ReviewDecisionRequest struct {
	Decision string `json:"decision"`
	Notes    string `json:"notes"`
}

type PendingCountResponse struct {
	Pending int `json:"pending"`
}

func ReviewItemResponseFromDomain(item review.Item) ReviewItemResponse {
	campaign := ScreenCampaignRequest{
		Title:       item.Campaign.Title,
		Description: item.Campaign.Description,
		Goal:        item.Campaign.Goal,
		Category:    item.Campaign.Category,
		Links:       item.Campaign.Links,
		Creator: ScreenCreatorRequest{
			UserID:           item.Campaign.Creator.UserID,
			DisplayName:      item.Campaign.Creator.DisplayName,
			AccountAgeDays:   item.Campaign.Creator.AccountAgeDays,
			PastCampaigns:    item.Campaign.Creator.PastCampaigns,
			VerifiedEmail:    item.Campaign.Creator.VerifiedEmail,
			VerifiedIdentity: item.Campaign.Creator.VerifiedIdentity,
		},
	}
	for _, img := range item.Campaign.Images {
		campaign.Images = append(campaign.Images, ScreenImageRequest{ID: img.ID, MIMEType: img.MIMEType})
	}

	return ReviewItemResponse{
		ID:         item.ID,
		Campaign:   campaign,
		Verdict:    VerdictResponseFromDomain(item.Verdict),
		Status:     string(item.Status),
		CreatedAt:  item.CreatedAt,
		ReviewedBy: item.ReviewedBy,
		ReviewedAt: item.ReviewedAt,
		Notes:      item.ReviewNotes,
	}
}
