package domain

import "fmt"

// Category partitions questions into independent quiz pools.
type Category string

const (
	CategoryWord       Category = "ms-word"
	CategoryExcel      Category = "ms-excel"
	CategoryPowerPoint Category = "ms-powerpoint"
)

// Categories lists every known category.
func Categories() []Category {
	return []Category{CategoryWord, CategoryExcel, CategoryPowerPoint}
}

// ParseCategory validates raw against the fixed category set.
func ParseCategory(raw string) (Category, error) {
	for _, c := range Categories() {
		if string(c) == raw {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, raw)
}

// Collection is the document-store collection holding this category's questions.
func (c Category) Collection() string {
	return string(c)
}
