package label

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerificationDigitExamples(t *testing.T) {
	tests := []struct {
		name string
		zip  string
		want string
	}{
		{name: "sum 23", zip: "99500-000", want: "7"},
		{name: "sum 30", zip: "99912-000", want: "0"},
		{name: "no separator", zip: "01310100", want: "4"},
		{name: "all zeros", zip: "00000-000", want: "0"},
		{name: "non-digit counts as zero", zip: "0131x109", want: "5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VerificationDigit(tt.zip))
		})
	}
}

func TestVerificationDigitCompletesMultipleOfTen(t *testing.T) {
	for n := 0; n < 100000; n += 37 {
		zip := leftPad(strconv.Itoa(n), 8, '0')
		sum := 0
		for _, r := range zip {
			sum += int(r - '0')
		}

		digit, err := strconv.Atoi(VerificationDigit(zip))
		require.NoError(t, err)
		require.GreaterOrEqual(t, digit, 0)
		require.Less(t, digit, 10)

		if sum%10 == 0 {
			assert.Equal(t, 0, digit, "zip %s", zip)
		} else {
			assert.Equal(t, 10-sum%10, digit, "zip %s", zip)
		}
	}
}
