package domain

import "testing"

func TestValidStatus(t *testing.T) {
	for _, s := range LeadStatuses {
		if !ValidStatus(s) {
			t.Fatalf("expected %q to be valid", s)
		}
	}
	for _, s := range []string{"", "new", "Closed", "FOLLOW UP"} {
		if ValidStatus(s) {
			t.Fatalf("expected %q to be invalid", s)
		}
	}
}

func TestTableNames(t *testing.T) {
	if got := (Lead{}).TableName(); got != "leads" {
		t.Fatalf("Lead table = %q", got)
	}
	if got := (MarketingContact{}).TableName(); got != "marketing_contacts" {
		t.Fatalf("MarketingContact table = %q", got)
	}
	if got := (Unsubscribe{}).TableName(); got != "unsubscribes" {
		t.Fatalf("Unsubscribe table = %q", got)
	}
}
