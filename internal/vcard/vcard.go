// Package vcard renders cards as vCard 3.0 text for the .vcf download.
package vcard

import (
	"strings"

	"cardlink/internal/domain"
)

// escape handles the vCard 3.0 TEXT escapes: backslash, newline,
// comma and semicolon.
func escape(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		"\n", `\n`,
		"\r", "",
		",", `\,`,
		";", `\;`,
	)
	return r.Replace(s)
}

func appendLine(b *strings.Builder, prop, value string) {
	if value == "" {
		return
	}
	b.WriteString(prop)
	b.WriteString(":")
	b.WriteString(value)
	b.WriteString("\r\n")
}

// Render produces the vCard body for one card.
func Render(c *domain.Card) string {
	var b strings.Builder
	b.WriteString("BEGIN:VCARD\r\n")
	b.WriteString("VERSION:3.0\r\n")
	appendLine(&b, "FN", escape(c.Name))
	if c.Name != "" {
		// Surname;Given, best effort split on the last space.
		given, family := c.Name, ""
		if i := strings.LastIndexByte(c.Name, ' '); i > 0 {
			given, family = c.Name[:i], c.Name[i+1:]
		}
		appendLine(&b, "N", escape(family)+";"+escape(given)+";;;")
	}
	appendLine(&b, "ORG", escape(c.Company))
	appendLine(&b, "TITLE", escape(c.Title))
	appendLine(&b, "EMAIL;TYPE=INTERNET", escape(c.Email))
	appendLine(&b, "TEL;TYPE=CELL", escape(c.Phone))
	if c.Address != "" {
		appendLine(&b, "ADR;TYPE=WORK", ";;"+escape(c.Address)+";;;;")
	}
	appendLine(&b, "PHOTO;VALUE=URL", c.PhotoURL)
	appendLine(&b, "URL", "https://cardlink.app/"+c.Slug)
	b.WriteString("END:VCARD\r\n")
	return b.String()
}
