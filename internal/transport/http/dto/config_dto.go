package dto

type ConfigResponse struct {
	Thresholds    ConfigThresholdsResponse `json:"thresholds"`
	Images        ConfigImagesResponse     `json:"images"`
	PromptVersion string                   `json:"prompt_version"`
}

type ConfigThresholdsResponse struct {
	ApproveBelow float64 `json:"approve_below"`
	HoldBelow    float64 `json:"hold_below"`
}

type ConfigImagesResponse struct {
	MaxCount     int      `json:"max_count"`
	MaxBytes     int64    `json:"max_bytes"`
	AllowedMIMEs []string `json:"allowed_mimes"`
}
