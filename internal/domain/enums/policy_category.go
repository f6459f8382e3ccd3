package enums

type PolicyCategory string

const (
	CategoryScamFinancial    PolicyCategory = "SCAM_FINANCIAL"
	CategoryImpersonation    PolicyCategory = "IMPERSONATION"
	CategoryMedicalClaims    PolicyCategory = "MEDICAL_CLAIMS"
	CategoryPaymentBypass    PolicyCategory = "PAYMENT_BYPASS"
	CategoryViolentAdultHate PolicyCategory = "VIOLENT_ADULT_HATE"
	CategorySensitiveDocs    PolicyCategory = "SENSITIVE_DOCS"
	CategoryLowQualitySpam   PolicyCategory = "LOW_QUALITY_SPAM"
)

// PolicyCategories returns the fixed category set in prompt order.
func PolicyCategories() []PolicyCategory {
	return []PolicyCategory{
		CategoryScamFinancial,
		CategoryImpersonation,
		CategoryMedicalClaims,
		CategoryPaymentBypass,
		CategoryViolentAdultHate,
		CategorySensitiveDocs,
		CategoryLowQualitySpam,
	}
}
