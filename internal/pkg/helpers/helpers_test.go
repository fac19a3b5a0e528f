package helpers_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/skillkhoj/backend/internal/pkg/helpers"
)

func TestParseDuration(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"3h", 3 * time.Hour},
		{"15m", 15 * time.Minute},
		{"", time.Minute},
		{"garbage", time.Minute},
		{"-5s", time.Minute},
	}
	for _, c := range cases {
		if got := helpers.ParseDuration(c.in, time.Minute); got != c.want {
			t.Errorf("ParseDuration(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestSplitAndTrim(t *testing.T) {
	got := helpers.SplitAndTrim(" http://localhost:4200, ,https://skill-khoj.vercel.app ")
	want := []string{"http://localhost:4200", "https://skill-khoj.vercel.app"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitAndTrim = %v, want %v", got, want)
	}
	if got := helpers.SplitAndTrim(""); len(got) != 0 {
		t.Errorf("SplitAndTrim(\"\") = %v, want empty", got)
	}
}

func TestAppendUnique(t *testing.T) {
	list := helpers.AppendUnique(nil, "a")
	list = helpers.AppendUnique(list, "b")
	list = helpers.AppendUnique(list, "a")
	if !reflect.DeepEqual(list, []string{"a", "b"}) {
		t.Errorf("AppendUnique = %v, want [a b]", list)
	}
}
