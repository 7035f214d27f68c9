package services_test

import (
	"errors"
	"testing"

	"gameserver-hub/models"
)

func TestAwardBadgeOnce(t *testing.T) {
	f := newFixture(t)
	u := f.user(0, 0)

	first, badges := f.engine.Badges.AwardBadge(f.ctx, u.ID, u.BadgeList(), models.BadgeExplorer)
	if first == nil || first.ID != "explorer" {
		t.Fatalf("first award = %+v, want explorer", first)
	}
	if len(badges) != 1 {
		t.Fatalf("badge set after first award has %d entries", len(badges))
	}

	second, badges := f.engine.Badges.AwardBadge(f.ctx, u.ID, badges, models.BadgeExplorer)
	if second != nil {
		t.Fatalf("second award = %+v, want nil", second)
	}
	if len(badges) != 1 {
		t.Fatalf("badge set after second award has %d entries", len(badges))
	}

	if stored := f.reload(u.ID).Badges; len(stored) != 1 || stored[0].ID != "explorer" {
		t.Errorf("stored badges = %v", badgeIDs(stored))
	}
}

func TestAwardBadgeStaleSnapshot(t *testing.T) {
	f := newFixture(t)
	u := f.user(0, 0)

	f.engine.Badges.AwardBadge(f.ctx, u.ID, nil, models.BadgeNewbie)

	// caller still holds the empty set
	got, badges := f.engine.Badges.AwardBadge(f.ctx, u.ID, nil, models.BadgeNewbie)
	if got != nil {
		t.Fatalf("stale snapshot award = %+v, want nil", got)
	}
	if len(badges) != 1 {
		t.Errorf("returned set = %v, want the stored badge included", badgeIDs(badges))
	}
	if stored := f.reload(u.ID).Badges; len(stored) != 1 {
		t.Errorf("stored badges = %v, want exactly one", badgeIDs(stored))
	}
}

func TestAwardBadgeUnknownKey(t *testing.T) {
	f := newFixture(t)
	u := f.user(0, 0)

	got, badges := f.engine.Badges.AwardBadge(f.ctx, u.ID, nil, "NOT_A_BADGE")
	if got != nil || len(badges) != 0 {
		t.Fatalf("unknown key gave %+v, %v", got, badges)
	}
}

func TestAwardBadgePersistenceFailure(t *testing.T) {
	f := newFixture(t)
	u := f.user(0, 0)
	f.store.Fail = func(op string) error {
		if op == "users.append_badge" {
			return errors.New("backend down")
		}
		return nil
	}

	got, badges := f.engine.Badges.AwardBadge(f.ctx, u.ID, nil, models.BadgeLevel5)
	if got != nil || len(badges) != 0 {
		t.Fatalf("failed write reported %+v, %v", got, badges)
	}
	if stored := f.reload(u.ID).Badges; len(stored) != 0 {
		t.Errorf("stored badges = %v", badgeIDs(stored))
	}
}
