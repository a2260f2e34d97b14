package bolt

import "testing"

func TestVersionAtLeast(t *testing.T) {
	v := Version{Major: 5, Minor: 2}
	cases := []struct {
		major, minor byte
		want         bool
	}{
		{5, 0, true},
		{5, 2, true},
		{5, 3, false},
		{4, 4, true},
		{6, 0, false},
	}
	for _, c := range cases {
		if got := v.AtLeast(c.major, c.minor); got != c.want {
			t.Errorf("%s.AtLeast(%d,%d)\ngot: %v\nwant: %v", v, c.major, c.minor, got, c.want)
		}
	}
}

func TestVersionLess(t *testing.T) {
	if !(Version{4, 4}).Less(Version{5, 0}) {
		t.Errorf("4.4 should be less than 5.0")
	}
	if (Version{5, 0}).Less(Version{4, 4}) {
		t.Errorf("5.0 should not be less than 4.4")
	}
}
