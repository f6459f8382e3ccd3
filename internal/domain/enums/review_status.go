package enums

type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "PENDING"
	ReviewStatusReviewed ReviewStatus = "REVIEWED"
)
