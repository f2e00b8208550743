package shared

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type answerBody struct {
	Outcome string `json:"outcome" validate:"required,oneof=correct incorrect"`
}

type selfValidating struct{ err error }

func (s selfValidating) Validate() error { return s.err }

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid", body: `{"outcome":"correct"}`},
		{name: "malformed", body: `{"outcome":`, wantErr: true},
		{name: "empty", body: ``, wantErr: true},
		{name: "unknown field", body: `{"outcome":"correct","user_id":"x"}`, wantErr: true},
		{name: "too large", body: `{"outcome":"` + strings.Repeat("a", MaxRequestBytes) + `"}`, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest("POST", "/api/cards", strings.NewReader(tc.body))
			var got answerBody
			err := DecodeJSON(httptest.NewRecorder(), r, &got)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "correct", got.Outcome)
		})
	}
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateRequest(answerBody{Outcome: "incorrect"}))
	assert.Error(t, ValidateRequest(answerBody{}))
	assert.Error(t, ValidateRequest(answerBody{Outcome: "easy"}))

	custom := errors.New("custom rule")
	assert.ErrorIs(t, ValidateRequest(selfValidating{err: custom}), custom)
	assert.NoError(t, ValidateRequest(selfValidating{}))
}
