package config

import (
	"reflect"
	"testing"
)

func TestManagerEmails(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"whitespace only", "  \n ", nil},
		{"csv", "a@studio.com,b@studio.com", []string{"a@studio.com", "b@studio.com"}},
		{"mixed separators", "a@studio.com; b@studio.com\nc@studio.com", []string{"a@studio.com", "b@studio.com", "c@studio.com"}},
		{"dedup keeps first spelling", "Boss@Studio.com, boss@studio.com", []string{"Boss@Studio.com"}},
		{"drops malformed", "not-an-email, a@studio.com, @nope, b@", []string{"a@studio.com"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Config{ManagerEmailsRaw: tc.raw}.ManagerEmails()
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("ManagerEmails(%q) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}
