package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	s := Default()
	assert.Equal(t, 100, s.Range)
	assert.Equal(t, 5, s.MaxGuesses)
	assert.NoError(t, s.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		in      Settings
		wantErr bool
	}{
		{name: "minimum", in: Settings{Range: 1, MaxGuesses: 1}},
		{name: "zero range", in: Settings{Range: 0, MaxGuesses: 5}, wantErr: true},
		{name: "negative range", in: Settings{Range: -10, MaxGuesses: 5}, wantErr: true},
		{name: "zero guesses", in: Settings{Range: 50, MaxGuesses: 0}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalid)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestParse(t *testing.T) {
	s, err := Parse(" 50 ", "3")
	require.NoError(t, err)
	assert.Equal(t, Settings{Range: 50, MaxGuesses: 3}, s)

	_, err = Parse("abc", "3")
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "range")

	_, err = Parse("50", "")
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "max guesses")

	_, err = Parse("0", "3")
	assert.ErrorIs(t, err, ErrInvalid)
}
