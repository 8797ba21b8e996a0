package cache

import (
	"path"
	"testing"
)

// matchKey applies the pattern the way Redis SCAN does for the subset of glob
// syntax we use (a single trailing *).
func matchKey(t *testing.T, pattern, key string) bool {
	t.Helper()
	ok, err := path.Match(pattern, key)
	if err != nil {
		t.Fatalf("bad pattern %q: %v", pattern, err)
	}
	return ok
}

func TestUserKey(t *testing.T) {
	if got := userKey(1, ""); got != "task:list:1" {
		t.Fatalf("userKey(1, \"\") = %q", got)
	}
	if got := userKey(1, "c=true,s=end_date"); got != "task:list:1:c=true,s=end_date" {
		t.Fatalf("userKey with variant = %q", got)
	}
}

func TestInvalidationPattern_ScopedToOneUser(t *testing.T) {
	pattern := invalidationPattern(1)

	// Every variant key of user 1 matches.
	for _, key := range []string{
		userKey(1, "c=true"),
		userKey(1, "i=Urgent,s=importance"),
	} {
		if !matchKey(t, pattern, key) {
			t.Errorf("pattern %q should match %q", pattern, key)
		}
	}

	// Keys of users whose id merely starts with "1" must not match, and the
	// user's own variant-less key is deleted directly rather than scanned.
	for _, key := range []string{
		userKey(10, ""),
		userKey(10, "c=true"),
		userKey(11, "s=end_date"),
		userKey(100, ""),
		userKey(1, ""),
	} {
		if matchKey(t, pattern, key) {
			t.Errorf("pattern %q must not match %q", pattern, key)
		}
	}
}
