package enums

import "fmt"

// RequesterCategory distinguishes academic from industry requesters on
// intake forms; pricing and routing differ between the two.
type RequesterCategory string

const (
	RequesterCategoryAcademic RequesterCategory = "academic"
	RequesterCategoryIndustry RequesterCategory = "industry"
)

var validRequesterCategories = []RequesterCategory{
	RequesterCategoryAcademic,
	RequesterCategoryIndustry,
}

func (c RequesterCategory) String() string {
	return string(c)
}

func (c RequesterCategory) IsValid() bool {
	for _, valid := range validRequesterCategories {
		if c == valid {
			return true
		}
	}
	return false
}

func ParseRequesterCategory(value string) (RequesterCategory, error) {
	category := RequesterCategory(value)
	if !category.IsValid() {
		return "", fmt.Errorf("invalid requester category: %q", value)
	}
	return category, nil
}
