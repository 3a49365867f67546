package strx

import "testing"

func TestCoalesce(t *testing.T) {
	cases := []struct {
		in   []string
		want string
	}{
		{[]string{"", "configs/si72xx.yaml"}, "configs/si72xx.yaml"},
		{[]string{"/etc/si72xx.yaml", "configs/si72xx.yaml"}, "/etc/si72xx.yaml"},
		{[]string{"", "", "c"}, "c"},
		{nil, ""},
	}
	for _, tc := range cases {
		if got := Coalesce(tc.in...); got != tc.want {
			t.Fatalf("Coalesce(%q) = %q want %q", tc.in, got, tc.want)
		}
	}
}
