package utils

import (
	"regexp"
	"strings"
)

var nonSlugChars = regexp.MustCompile("[^a-z0-9 ]+")

func Map[T any, U any](input []T, fn func(T) U) []U {
	result := make([]U, len(input))
	for i, v := range input {
		result[i] = fn(v)
	}
	return result
}

func TitleToSlug(title string) string {
	titleLower := strings.ToLower(title)
	// remove all punctuation
	cleansedTitle := nonSlugChars.ReplaceAllString(titleLower, "")
	slugArray := strings.Fields(cleansedTitle)
	return strings.Join(slugArray, "-")
}
