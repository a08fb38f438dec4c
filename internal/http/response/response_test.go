package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	got := Error("boom")
	assert.Equal(t, StatusError, got.Status)
	assert.Equal(t, "boom", got.Message)
}

func TestWriteError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	WriteError(rec, req, http.StatusNotFound, "nope")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{"status": "Error", "message": "nope"}, body)
}

func TestValidationError(t *testing.T) {
	type payload struct {
		Username string  `validate:"required"`
		Email    string  `validate:"required,email"`
		Title    string  `validate:"max=3"`
		Price    float64 `validate:"gte=0"`
	}
	v := validator.New()

	tests := []struct {
		name string
		in   payload
		want string
	}{
		{
			name: "required",
			in:   payload{Email: "a@x.com"},
			want: "field Username is a required field",
		},
		{
			name: "email",
			in:   payload{Username: "ana", Email: "nope"},
			want: "field Email must be a valid email",
		},
		{
			name: "max and gte",
			in:   payload{Username: "ana", Email: "a@x.com", Title: "long", Price: -1},
			want: "field Title must be at most 3 characters, field Price must be greater than or equal to 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			require.Error(t, err)
			got := ValidationError(err)
			assert.Equal(t, StatusError, got.Status)
			assert.Equal(t, tt.want, got.Message)
		})
	}
}

func TestValidationError_NotValidatorError(t *testing.T) {
	got := ValidationError(errors.New("other"))
	assert.Equal(t, MsgInvalidBody, got.Message)
}
