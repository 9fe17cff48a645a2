package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusOK, "public data")

	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
	if got := w.Body.String(); got != `"public data"` {
		t.Errorf("body = %q, want bare JSON string", got)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestWriteJSONUnencodable(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusOK, make(chan int))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestWriteText(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	WriteText(w, http.StatusUnauthorized, "Authorization Not Found")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d", w.Code)
	}
	if got := w.Body.String(); got != "Authorization Not Found" {
		t.Errorf("body = %q", got)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestWriteError(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	WriteError(w, http.StatusUnprocessableEntity, ErrorResponse[[]FieldError]{
		Code:    ErrValidationFailed,
		Message: "validation failed",
		Details: []FieldError{{Field: "ID", Rule: "required"}},
	})

	var body ErrorResponse[[]FieldError]
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code != ErrValidationFailed || len(body.Details) != 1 || body.Details[0].Field != "ID" {
		t.Errorf("body = %+v", body)
	}
}

func TestValidationDetails(t *testing.T) {
	t.Parallel()

	type req struct {
		ID  *int64 `validate:"required"`
		Pwd string `validate:"max=3"`
	}
	err := validator.New().Struct(req{Pwd: "toolong"})
	details := ValidationDetails(err)
	if len(details) != 2 {
		t.Fatalf("got %d details, want 2: %+v", len(details), details)
	}
	if details[0].Field != "ID" || details[0].Rule != "required" {
		t.Errorf("details[0] = %+v", details[0])
	}
	if details[1].Field != "Pwd" || details[1].Rule != "max" || details[1].Param != "3" {
		t.Errorf("details[1] = %+v", details[1])
	}

	other := ValidationDetails(errors.New("boom"))
	if len(other) != 1 || other[0].Rule != "invalid" || other[0].Param != "boom" {
		t.Errorf("non-validation error details = %+v", other)
	}
}
