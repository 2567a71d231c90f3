/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

// Package recognizer extracts contact fields from the text printed on a
// business card. The text is the output of an OCR engine, one printed line
// per input line.
package recognizer

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/CardScan/CardScan/common/schema"
)

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phonePattern = regexp.MustCompile(`\+?\(?\d[\d\s().\-/]{5,}\d`)
	webPattern   = regexp.MustCompile(`(?i)^(https?://|www\.)\S+$`)
	labelPattern = regexp.MustCompile(`(?i)^(tel|phone|mobile|mob|cell|gsm|cep|fax|e-?mail|e-?posta|web)\s*[.:]?\s*`)
)

// Lower-case keywords matched against whole words of a line
var (
	companyWords = []string{
		"inc", "inc.", "ltd", "ltd.", "llc", "gmbh", "corp", "corp.", "co.", "plc",
		"a.ş.", "şti.", "şti", "holding", "group", "technologies", "solutions",
		"limited", "şirketi", "sanayi", "ticaret",
	}
	titleWords = []string{
		"manager", "engineer", "director", "ceo", "cto", "cfo", "coo", "founder",
		"co-founder", "developer", "designer", "consultant", "president", "partner",
		"specialist", "officer", "analyst", "architect", "lead", "head", "sales",
		"müdür", "müdürü", "mühendis", "mühendisi", "uzman", "uzmanı", "yönetici",
		"kurucu", "danışman", "başkan", "avukat", "doktor",
	}
	addressWords = []string{
		"street", "st.", "avenue", "ave", "ave.", "road", "rd.", "blvd", "blvd.",
		"suite", "floor", "building", "cad.", "caddesi", "sok.", "sokak", "sk.",
		"mah.", "mahallesi", "no:", "kat:", "daire", "bulvarı",
	}
)

// Recognizer is safe for concurrent use
type Recognizer struct {
	tag language.Tag
}

// New returns a Recognizer that capitalizes names using the rules of tag
func New(tag language.Tag) *Recognizer {
	return &Recognizer{tag: tag}
}

// Recognize splits text into lines and assigns each line to the first field
// it matches. Lines that match nothing become notes.
func (r *Recognizer) Recognize(text string) schema.ScanResult {
	var result schema.ScanResult
	var address, notes, candidates []string

	for _, raw := range strings.Split(text, "\n") {
		line := strings.Join(strings.Fields(raw), " ")
		if line == "" {
			continue
		}

		if email := emailPattern.FindString(line); email != "" {
			if result.Email == "" {
				result.Email = strings.ToLower(email)
			}
			continue
		}

		stripped := labelPattern.ReplaceAllString(line, "")

		if webPattern.MatchString(stripped) {
			notes = append(notes, stripped)
			continue
		}

		if phone := phonePattern.FindString(stripped); phone != "" && digits(phone) >= 7 && !hasWord(stripped, addressWords) {
			if result.PhoneNumber == "" {
				result.PhoneNumber = strings.TrimSpace(phone)
			} else {
				notes = append(notes, line)
			}
			continue
		}

		switch {
		case result.Company == "" && hasWord(line, companyWords):
			result.Company = line
		case result.JobTitle == "" && hasWord(line, titleWords):
			result.JobTitle = line
		case hasWord(line, addressWords) || isPostalLine(line):
			address = append(address, line)
		default:
			candidates = append(candidates, line)
		}
	}

	for _, line := range candidates {
		if result.FullName == "" && looksLikeName(line) {
			result.FullName = r.titleName(line)
			continue
		}
		notes = append(notes, line)
	}

	result.Address = strings.Join(address, ", ")
	result.Notes = strings.Join(notes, "\n")
	return result
}

// titleName capitalizes names printed entirely in upper or lower case
func (r *Recognizer) titleName(name string) string {
	if name != strings.ToUpper(name) && name != strings.ToLower(name) {
		return name
	}
	// cases.Caser is stateful, so each call gets its own
	return cases.Title(r.tag).String(name)
}

func digits(s string) int {
	n := 0
	for _, c := range s {
		if unicode.IsDigit(c) {
			n++
		}
	}
	return n
}

func hasWord(line string, words []string) bool {
	for _, field := range strings.Fields(strings.ToLower(line)) {
		field = strings.TrimRight(field, ",;")
		for _, w := range words {
			if field == w {
				return true
			}
		}
	}
	return false
}

// isPostalLine matches lines such as "34000 Istanbul" or "Boston, MA 02139"
func isPostalLine(line string) bool {
	d := digits(line)
	return d >= 4 && d <= 6 && strings.IndexFunc(line, unicode.IsLetter) >= 0
}

// looksLikeName accepts two to four words made only of letters and the
// punctuation found in names
func looksLikeName(line string) bool {
	words := strings.Fields(line)
	if len(words) < 2 || len(words) > 4 {
		return false
	}
	for _, c := range line {
		if !unicode.IsLetter(c) && !unicode.IsSpace(c) && !strings.ContainsRune(".-'", c) {
			return false
		}
	}
	return true
}
