package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	titleMinLen   = 5
	titleMaxLen   = 100
	contentMinLen = 50
	excerptMinLen = 10
	excerptMaxLen = 250
)

// ValidatePostTitle enforces title length bounds.
func ValidatePostTitle(title string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(title))
	if n < titleMinLen {
		return fmt.Errorf("title must be at least %d characters", titleMinLen)
	}
	if n > titleMaxLen {
		return fmt.Errorf("title must be at most %d characters", titleMaxLen)
	}
	return nil
}

// ValidatePostContent enforces the minimum body length.
func ValidatePostContent(content string) error {
	if utf8.RuneCountInString(strings.TrimSpace(content)) < contentMinLen {
		return fmt.Errorf("content must be at least %d characters", contentMinLen)
	}
	return nil
}

// ValidatePostExcerpt enforces summary length bounds.
func ValidatePostExcerpt(excerpt string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(excerpt))
	if n < excerptMinLen {
		return fmt.Errorf("excerpt must be at least %d characters", excerptMinLen)
	}
	if n > excerptMaxLen {
		return fmt.Errorf("excerpt must be at most %d characters", excerptMaxLen)
	}
	return nil
}

// ValidatePostCategory requires a non-empty category.
func ValidatePostCategory(category string) error {
	if strings.TrimSpace(category) == "" {
		return fmt.Errorf("category is required")
	}
	return nil
}
