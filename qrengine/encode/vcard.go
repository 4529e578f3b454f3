package encode

import (
	"fmt"
	"strings"
)

// VCard renders a vCard 3.0 contact record. Name is always present; the
// organization, phone, email and website lines appear only when their field
// is non-empty, phone and email tagged as work-context entries.
//
// The structured path fails only when a field cannot be represented in a
// vCard line (embedded control characters); in that case a plain-text
// contact summary is returned instead of failing the operation.
func VCard(name, company, phone, email, website string) string {
	record, err := vCardRecord(name, company, phone, email, website)
	if err != nil {
		return vCardFallback(name, company, phone, email, website)
	}
	return record
}

func vCardRecord(name, company, phone, email, website string) (string, error) {
	lines := []string{"BEGIN:VCARD", "VERSION:3.0"}

	n, err := escapeValue(name)
	if err != nil {
		return "", fmt.Errorf("name: %w", err)
	}
	lines = append(lines,
		fmt.Sprintf("N:%s;%s;;;", n, n),
		"FN:"+n,
	)

	if company != "" {
		v, err := escapeValue(company)
		if err != nil {
			return "", fmt.Errorf("company: %w", err)
		}
		lines = append(lines, "ORG:"+v)
	}
	if phone != "" {
		v, err := escapeValue(phone)
		if err != nil {
			return "", fmt.Errorf("phone: %w", err)
		}
		lines = append(lines, "TEL;TYPE=WORK:"+v)
	}
	if email != "" {
		v, err := escapeValue(email)
		if err != nil {
			return "", fmt.Errorf("email: %w", err)
		}
		lines = append(lines, "EMAIL;TYPE=WORK:"+v)
	}
	if website != "" {
		v, err := escapeValue(website)
		if err != nil {
			return "", fmt.Errorf("website: %w", err)
		}
		lines = append(lines, "URL:"+v)
	}

	lines = append(lines, "END:VCARD")
	return strings.Join(lines, "\r\n") + "\r\n", nil
}

func vCardFallback(name, company, phone, email, website string) string {
	var b strings.Builder
	b.WriteString("Name: " + name)
	if company != "" {
		b.WriteString("\nCompany: " + company)
	}
	if phone != "" {
		b.WriteString("\nPhone: " + phone)
	}
	if email != "" {
		b.WriteString("\nEmail: " + email)
	}
	if website != "" {
		b.WriteString("\nWebsite: " + website)
	}
	return b.String()
}

// escapeValue escapes a text value for a vCard/iCalendar content line.
// Control characters have no escaped representation and are rejected.
func escapeValue(v string) (string, error) {
	for _, r := range v {
		if r < 0x20 || r == 0x7f {
			return "", fmt.Errorf("control character %q", r)
		}
	}
	r := strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`)
	return r.Replace(v), nil
}
