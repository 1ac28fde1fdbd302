package model

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CategoryDisplay renders a category identifier for humans:
// "customer_service" becomes "Customer Service".
func CategoryDisplay(category string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(category, "_", " "))
}
