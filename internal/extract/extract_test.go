package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinksBareDomainNormalized(t *testing.T) {
	links := Links("visit example.com now")
	assert.Contains(t, links, "https://example.com")
}

func TestLinksAbsoluteURLUnmodified(t *testing.T) {
	links := Links("go to https://foo.com")
	assert.Equal(t, []string{"https://foo.com"}, links)
}

func TestLinksWWWPrefix(t *testing.T) {
	links := Links("see www.example.org for details")
	assert.Contains(t, links, "https://www.example.org")
}

func TestLinksDeduplicatedAfterNormalization(t *testing.T) {
	// A bare domain and its https form collapse to one entry.
	links := Links("example.com and https://example.com")
	assert.Equal(t, []string{"https://example.com"}, links)
}

func TestLinksFirstOccurrenceOrder(t *testing.T) {
	links := Links("https://b.com then https://a.com then https://b.com")
	assert.Equal(t, []string{"https://b.com", "https://a.com"}, links)
}

func TestLinksBareDomainFalsePositive(t *testing.T) {
	// Accepted behavior: word.word tokens with a letter suffix match the
	// bare-domain pattern even in ordinary prose. Covered so a pattern
	// change shows up as a test failure.
	links := Links("see notes.txt for the details")
	assert.Contains(t, links, "https://notes.txt")
}

func TestLinksEmptyInput(t *testing.T) {
	assert.Empty(t, Links(""))
	assert.Empty(t, Links("no urls here at all"))
}

func TestEmails(t *testing.T) {
	emails := Emails("contact alice@example.com or bob.smith+tag@sub.domain.org")
	assert.Equal(t, []string{"alice@example.com", "bob.smith+tag@sub.domain.org"}, emails)
}

func TestEmailsDeduplicated(t *testing.T) {
	emails := Emails("alice@example.com, again alice@example.com")
	assert.Equal(t, []string{"alice@example.com"}, emails)
}

func TestEmailsNoMatches(t *testing.T) {
	assert.Empty(t, Emails("not an email: foo@bar"))
}

func TestPhonesFormats(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"call 555-867-5309", "555-867-5309"},
		{"call (555) 867-5309", "(555) 867-5309"},
		{"call +1 555 867 5309", "+1 555 867 5309"},
		{"call 1-555-867-5309", "1-555-867-5309"},
		{"call 555.867.5309", "555.867.5309"},
		{"digits only 5558675309", "5558675309"},
	}
	for _, tc := range cases {
		phones := Phones(tc.text)
		assert.Contains(t, phones, tc.want, "input: %s", tc.text)
	}
}

func TestPhonesDeduplicated(t *testing.T) {
	phones := Phones("555-867-5309 or 555-867-5309")
	assert.Equal(t, []string{"555-867-5309"}, phones)
}

func TestPhonesNoMatches(t *testing.T) {
	assert.Empty(t, Phones("room 42, floor 3"))
}
