package models

import "testing"

func TestFriendBeforeSaveCanonicalPair(t *testing.T) {
	cases := []struct {
		name     string
		from, to uint
	}{
		{"ascending", 2, 7},
		{"descending", 7, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := &Friend{FromUserID: tc.from, ToUserID: tc.to}
			if err := f.BeforeSave(nil); err != nil {
				t.Fatalf("BeforeSave: %v", err)
			}
			if f.UserLowID != 2 || f.UserHighID != 7 {
				t.Errorf("pair = (%d, %d), want (2, 7)", f.UserLowID, f.UserHighID)
			}
		})
	}
}

func TestFriendBeforeSaveFollowsReassignedDirection(t *testing.T) {
	f := &Friend{FromUserID: 3, ToUserID: 9}
	if err := f.BeforeSave(nil); err != nil {
		t.Fatalf("BeforeSave: %v", err)
	}

	// Reopening a declined request flips direction; the canonical pair must
	// stay the same.
	f.FromUserID, f.ToUserID = 9, 3
	if err := f.BeforeSave(nil); err != nil {
		t.Fatalf("BeforeSave: %v", err)
	}
	if f.UserLowID != 3 || f.UserHighID != 9 {
		t.Errorf("pair after flip = (%d, %d), want (3, 9)", f.UserLowID, f.UserHighID)
	}
}

func TestFriendOtherParty(t *testing.T) {
	f := &Friend{FromUserID: 4, ToUserID: 11}
	if got := f.OtherParty(4); got != 11 {
		t.Errorf("OtherParty(4) = %d, want 11", got)
	}
	if got := f.OtherParty(11); got != 4 {
		t.Errorf("OtherParty(11) = %d, want 4", got)
	}
}

func TestFriendInvolves(t *testing.T) {
	f := &Friend{FromUserID: 4, ToUserID: 11}
	if !f.Involves(4) || !f.Involves(11) {
		t.Error("Involves must match both sides")
	}
	if f.Involves(5) {
		t.Error("Involves(5) = true for an uninvolved user")
	}
}

func TestFriendStatusValid(t *testing.T) {
	for _, s := range []FriendStatus{FriendStatusPending, FriendStatusAccepted, FriendStatusDeclined} {
		if !s.Valid() {
			t.Errorf("%s.Valid() = false", s)
		}
	}
	for _, s := range []FriendStatus{"", "blocked", "PENDING"} {
		if s.Valid() {
			t.Errorf("%q.Valid() = true", s)
		}
	}
}
