package enums

import "fmt"

// ReviewTargetKind discriminates what a review is attached to. A review
// targets a restaurant or a menu item, never both.
type ReviewTargetKind string

const (
	ReviewTargetRestaurant ReviewTargetKind = "restaurant"
	ReviewTargetMenuItem   ReviewTargetKind = "menu_item"
)

var validReviewTargetKinds = []ReviewTargetKind{
	ReviewTargetRestaurant,
	ReviewTargetMenuItem,
}

// String implements fmt.Stringer.
func (k ReviewTargetKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known ReviewTargetKind.
func (k ReviewTargetKind) IsValid() bool {
	for _, candidate := range validReviewTargetKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseReviewTargetKind converts raw input into a ReviewTargetKind.
func ParseReviewTargetKind(value string) (ReviewTargetKind, error) {
	for _, candidate := range validReviewTargetKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid review target kind %q", value)
}
