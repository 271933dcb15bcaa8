package models

import "testing"

func TestParseStatus(t *testing.T) {
	for _, valid := range []string{"draft", "pending", "approved", "rejected"} {
		got, err := ParseStatus(valid)
		if err != nil {
			t.Errorf("ParseStatus(%q) returned error: %v", valid, err)
		}
		if string(got) != valid {
			t.Errorf("ParseStatus(%q) = %q", valid, got)
		}
	}

	for _, invalid := range []string{"", "Draft", "PENDING", "done", "in_review"} {
		if _, err := ParseStatus(invalid); err == nil {
			t.Errorf("ParseStatus(%q) accepted an unknown status", invalid)
		}
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusDraft, StatusPending, true},
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusDraft, true},
		{StatusRejected, StatusPending, true},

		{StatusDraft, StatusApproved, false},
		{StatusDraft, StatusRejected, false},
		{StatusApproved, StatusDraft, false},
		{StatusApproved, StatusPending, false},
		{StatusApproved, StatusRejected, false},
		{StatusRejected, StatusDraft, false},
		{StatusRejected, StatusApproved, false},
	}

	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestCanTransitionIdentity(t *testing.T) {
	for _, s := range []Status{StatusDraft, StatusPending, StatusApproved, StatusRejected} {
		if !CanTransition(s, s) {
			t.Errorf("CanTransition(%s, %s) should allow re-asserting the current status", s, s)
		}
	}
}
