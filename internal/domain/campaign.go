package domain

// Campaign is one submission as received from the transport layer. It is
// immutable for the duration of a moderation pass; the only mutation the
// pipeline performs is attaching OCR text to images.
type Campaign struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Goal        int64    `json:"goal"`
	Category    string   `json:"category"`
	Links       []string `json:"links,omitempty"`
	Images      []Image  `json:"images,omitempty"`
	Creator     Creator  `json:"creator"`
}

type Creator struct {
	UserID           string `json:"user_id"`
	DisplayName      string `json:"display_name,omitempty"`
	AccountAgeDays   int    `json:"account_age_days"`
	PastCampaigns    int    `json:"past_campaigns"`
	VerifiedEmail    bool   `json:"verified_email"`
	VerifiedIdentity bool   `json:"verified_identity"`
}

// Image describes one uploaded image. ExtractedText is populated by the
// image scanner, never by the caller.
type Image struct {
	ID            string  `json:"id"`
	MIMEType      string  `json:"mime_type"`
	ObjectKey     *string `json:"object_key,omitempty"`
	ExtractedText string  `json:"extracted_text,omitempty"`
}
