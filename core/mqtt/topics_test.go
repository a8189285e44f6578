package mqtt

import "testing"

func TestTopics(t *testing.T) {
	tp := NewTopics("/club/sessions/")
	cases := [][2]string{
		{tp.Start(), "club/sessions/start"},
		{tp.Cancel(), "club/sessions/cancel"},
		{tp.Progress("r1"), "club/sessions/r1/progress"},
		{tp.Result("r1"), "club/sessions/r1/result"},
		{tp.Error("r1"), "club/sessions/r1/error"},
		{tp.Error(""), "club/sessions/error"},
		{NewTopics("").Start(), "sessionplan/start"},
	}
	for _, c := range cases {
		if got, want := c[0], c[1]; got != want {
			t.Errorf("got %s want %s", got, want)
		}
	}
}

func TestValidID(t *testing.T) {
	for _, id := range []string{"", "a/b", "a+", "#"} {
		if ValidID(id) {
			t.Errorf("%q should be invalid", id)
		}
	}
	if !ValidID("3f2c-11") {
		t.Errorf("expected valid id")
	}
}
