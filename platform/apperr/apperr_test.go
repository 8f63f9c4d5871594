package apperr

import (
	"errors"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  *Error
		want int
	}{
		{NotFound("missing"), http.StatusNotFound},
		{Validation("bad input"), http.StatusBadRequest},
		{BadRequest("malformed"), http.StatusBadRequest},
		{Conflict("duplicate"), http.StatusConflict},
		{State("wrong status"), http.StatusConflict},
		{PolicyViolation("too late"), http.StatusUnprocessableEntity},
		{Forbidden("no access"), http.StatusForbidden},
		{Unauthorized("who are you"), http.StatusUnauthorized},
		{Internal("oops"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := tt.err.HTTPStatus(); got != tt.want {
			t.Errorf("HTTPStatus(kind %d) = %d, want %d", tt.err.Kind, got, tt.want)
		}
	}
}

func TestGetKind(t *testing.T) {
	if got := GetKind(NotFound("x")); got != KindNotFound {
		t.Errorf("GetKind = %d, want KindNotFound", got)
	}
	if got := GetKind(errors.New("plain")); got != KindUnknown {
		t.Errorf("GetKind(plain error) = %d, want KindUnknown", got)
	}
	if got := GetKind(nil); got != KindUnknown {
		t.Errorf("GetKind(nil) = %d, want KindUnknown", got)
	}

	wrapped := Wrap(KindConflict, "outer", errors.New("inner"))
	if got := GetKind(wrapped); got != KindConflict {
		t.Errorf("GetKind(wrapped) = %d, want KindConflict", got)
	}
}

func TestErrorMessageIncludesOp(t *testing.T) {
	err := NotFound("booking not found").WithOp("bookings.Get")
	if err.Error() != "bookings.Get: booking not found" {
		t.Errorf("Error() = %q", err.Error())
	}
}
