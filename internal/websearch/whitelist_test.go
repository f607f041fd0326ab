package websearch

import "testing"

func testWhitelist() *Whitelist {
	return NewWhitelist(
		[]string{"indiacode.nic.in", "indiankanoon.org", "prsindia.org"},
		[]string{"gov.in"},
	)
}

func TestWhitelist_ExactHost(t *testing.T) {
	w := testWhitelist()

	if !w.Allows("https://indiacode.nic.in/handle/123") {
		t.Error("expected exact whitelisted host allowed")
	}
	if w.Allows("https://example.com/law") {
		t.Error("expected unknown host rejected")
	}
}

func TestWhitelist_Subdomain(t *testing.T) {
	w := testWhitelist()

	if !w.Allows("https://api.indiankanoon.org/doc/100") {
		t.Error("expected subdomain of whitelisted host allowed")
	}
	if w.Allows("https://evilindiankanoon.org/doc") {
		t.Error("expected lookalike host rejected")
	}
}

func TestWhitelist_SuffixAllow(t *testing.T) {
	w := testWhitelist()

	cases := map[string]bool{
		"https://doj.gov.in/page":      true,
		"https://main.sci.gov.in/case": true,
		"https://gov.in/":              true,
		"https://fakegov.in/":          false,
		"https://gov.in.evil.com/":     false,
	}

	for rawURL, want := range cases {
		if got := w.Allows(rawURL); got != want {
			t.Errorf("Allows(%s) = %v, want %v", rawURL, got, want)
		}
	}
}

func TestWhitelist_SchemeAndNormalization(t *testing.T) {
	w := testWhitelist()

	if w.Allows("ftp://indiacode.nic.in/file") {
		t.Error("expected non-http scheme rejected")
	}
	if w.Allows("javascript:alert(1)") {
		t.Error("expected javascript scheme rejected")
	}
	if !w.Allows("https://WWW.PRSINDIA.ORG/bills") {
		t.Error("expected case and www prefix normalized")
	}
	if !w.AllowsHost("indiacode.nic.in:443") {
		t.Error("expected port stripped")
	}
}

func TestDomain(t *testing.T) {
	if got := Domain("https://www.prsindia.org/bills/123"); got != "prsindia.org" {
		t.Errorf("expected prsindia.org, got %s", got)
	}
	if got := Domain("::bad"); got != "" {
		t.Errorf("expected empty domain for invalid URL, got %s", got)
	}
}
