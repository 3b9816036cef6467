package masking

// Category ties a sensitive field to the masking flag that governs it.
type Category int

const (
	CategoryEmail Category = iota
	CategoryPhone
	CategoryFinancial
	CategoryPersonal
	CategoryDocuments
)

// Transform selects the concrete obfuscation applied to a field.
type Transform int

const (
	TransformEmail Transform = iota
	TransformPhone
	TransformCurrency
	TransformPercentage
	TransformPercentageRounded
	TransformPersonalID
	TransformBankAccount
	TransformDocumentID
	TransformGeneric
	// TransformRedact suppresses the value entirely.
	TransformRedact
)

// FieldRule describes how one sensitive field is governed and masked.
type FieldRule struct {
	Category  Category
	Transform Transform
}

// Catalog maps record field names to their masking rules. Fields absent from
// the catalog pass through untouched.
type Catalog map[string]FieldRule

// Kind distinguishes record shapes that carry kind-specific masking
// exceptions. Most records use KindGeneric.
type Kind string

const (
	KindGeneric  Kind = "generic"
	KindSME      Kind = "sme"
	KindDeal     Kind = "deal"
	KindInvestor Kind = "investor"
	KindDocument Kind = "document"
)

// DefaultCatalog enumerates every sensitive field name the platform's
// records carry. Keeping the mapping in one table, instead of per-record
// field checks, is what makes the masking surface reviewable.
func DefaultCatalog() Catalog {
	return Catalog{
		"email":        {CategoryEmail, TransformEmail},
		"contactEmail": {CategoryEmail, TransformEmail},
		"workEmail":    {CategoryEmail, TransformEmail},
		"ownerEmail":   {CategoryEmail, TransformEmail},

		"phone":        {CategoryPhone, TransformPhone},
		"phoneNumber":  {CategoryPhone, TransformPhone},
		"contactPhone": {CategoryPhone, TransformPhone},
		"mobile":       {CategoryPhone, TransformPhone},

		"fundingRequired":  {CategoryFinancial, TransformCurrency},
		"fundingAmount":    {CategoryFinancial, TransformCurrency},
		"dealValue":        {CategoryFinancial, TransformCurrency},
		"valuation":        {CategoryFinancial, TransformCurrency},
		"annualRevenue":    {CategoryFinancial, TransformCurrency},
		"monthlyRevenue":   {CategoryFinancial, TransformCurrency},
		"investmentBudget": {CategoryFinancial, TransformCurrency},
		"netWorth":         {CategoryFinancial, TransformCurrency},
		"equityPercentage": {CategoryFinancial, TransformPercentage},
		"interestRate":     {CategoryFinancial, TransformPercentage},
		"bankAccount":      {CategoryFinancial, TransformBankAccount},
		"iban":             {CategoryFinancial, TransformBankAccount},

		"nationalId":     {CategoryPersonal, TransformPersonalID},
		"taxId":          {CategoryPersonal, TransformPersonalID},
		"passportNumber": {CategoryPersonal, TransformPersonalID},
		"dateOfBirth":    {CategoryPersonal, TransformGeneric},

		"documentId":         {CategoryDocuments, TransformDocumentID},
		"registrationNumber": {CategoryDocuments, TransformDocumentID},
		"licenseNumber":      {CategoryDocuments, TransformDocumentID},
		"certificateId":      {CategoryDocuments, TransformDocumentID},
	}
}

// defaultOverrides holds the per-kind exceptions to the catalog.
func defaultOverrides() map[Kind]Catalog {
	return map[Kind]Catalog{
		// SME revenue figures are suppressed outright rather than magnitude
		// masked; even the order of magnitude identifies small businesses.
		KindSME: {
			"annualRevenue":  {CategoryFinancial, TransformRedact},
			"monthlyRevenue": {CategoryFinancial, TransformRedact},
		},
		// Deal equity splits round to a coarse bracket so listings stay
		// comparable without exposing negotiated terms.
		KindDeal: {
			"equityPercentage": {CategoryFinancial, TransformPercentageRounded},
		},
	}
}

func (f Flags) masks(category Category) bool {
	switch category {
	case CategoryEmail:
		return f.Email
	case CategoryPhone:
		return f.Phone
	case CategoryFinancial:
		return f.Financial
	case CategoryPersonal:
		return f.Personal
	case CategoryDocuments:
		return f.Documents
	default:
		return false
	}
}
