package result

import (
	"errors"
	"testing"
)

func TestOrDefault(t *testing.T) {
	if got := Ok(5).OrDefault(2); got != 5 {
		t.Errorf("Ok(5).OrDefault(2) = %d, want 5", got)
	}
	if got := Err[int](errors.New("boom")).OrDefault(2); got != 2 {
		t.Errorf("Err.OrDefault(2) = %d, want 2", got)
	}
}

func TestOf(t *testing.T) {
	v, err := Of("value", nil).Unwrap()
	if err != nil || v != "value" {
		t.Errorf("Of(value, nil).Unwrap() = %q, %v", v, err)
	}

	boom := errors.New("boom")
	_, err = Of("ignored", boom).Unwrap()
	if !errors.Is(err, boom) {
		t.Errorf("Of(_, boom).Unwrap() err = %v, want boom", err)
	}
}

func TestOrElse(t *testing.T) {
	got := Err[string](errors.New("boom")).OrElse(func(err error) string {
		return "fallback: " + err.Error()
	})
	if got != "fallback: boom" {
		t.Errorf("OrElse = %q", got)
	}

	got = Ok("fine").OrElse(func(error) string { return "unused" })
	if got != "fine" {
		t.Errorf("OrElse on Ok = %q", got)
	}
}
