package validator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b", // valid UUIDv7
		"0188D0F2-7B8C-7B4A-8A2B-6B8B8B8B8B8B", // valid UUIDv7 (uppercase)
	}
	invalid := []string{
		"123e4567-e89b-12d3-a456-426614174000", // not v7
		"0188d0f27b8c7b4a8a2b6b8b8b8b8b8b",     // missing dashes
		"g188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b", // invalid hex
		"",                                     // empty
	}
	for _, uuid := range valid {
		if !IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = false, want true", uuid)
		}
	}
	for _, uuid := range invalid {
		if IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = true, want false", uuid)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31", "2024-02-29"}
	invalid := []string{"2023-13-01", "2023-01-32", "2023/01/01", "01-01-2023", "2023-02-29", ""}
	for _, s := range valid {
		_, ok := IsValidDate(s)
		if !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		_, ok := IsValidDate(s)
		if ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestParseDateRange(t *testing.T) {
	from, to := "2024-05-01", "2024-05-31"
	f, tt, errs := ParseDateRange(&from, &to)
	assert.Empty(t, errs)
	require.NotNil(t, f)
	require.NotNil(t, tt)
	assert.Equal(t, 1, f.Day())
	assert.Equal(t, 31, tt.Day())

	f, tt, errs = ParseDateRange(nil, nil)
	assert.Empty(t, errs)
	assert.Nil(t, f)
	assert.Nil(t, tt)

	_, _, errs = ParseDateRange(&to, &from)
	assert.True(t, errs.Has("date_to"))

	bad := "yesterday"
	_, _, errs = ParseDateRange(&bad, nil)
	assert.True(t, errs.Has("date_from"))
}

type sampleRequest struct {
	Date   string           `json:"date" validate:"required,datetime=2006-01-02"`
	Amount decimal.Decimal  `json:"amount" validate:"decimal_gte=0"`
	Rate   *decimal.Decimal `json:"rate,omitempty" validate:"omitempty,decimal_gte=0,decimal_lte=100"`
	Shift  string           `json:"shift" validate:"max=8"`
	Hidden string           `json:"-"`
}

func TestStruct(t *testing.T) {
	negative := decimal.NewFromInt(-5)
	errs := Struct(sampleRequest{
		Date:   "05/01/2024",
		Amount: decimal.NewFromInt(-1),
		Rate:   &negative,
		Shift:  "much-too-long",
	})

	got := errs.ToMap()
	assert.Equal(t, "must be a valid date (YYYY-MM-DD)", got["date"])
	assert.Equal(t, "must be greater than or equal to 0", got["amount"])
	assert.Equal(t, "must be greater than or equal to 0", got["rate"])
	assert.Equal(t, "must be at most 8 characters", got["shift"])

	assert.Empty(t, Struct(sampleRequest{Date: "2024-05-01", Amount: decimal.NewFromInt(10)}))
	assert.Equal(t, "is required", Struct(sampleRequest{}).ToMap()["date"])
}

func TestStruct_DecimalBoundsAreExact(t *testing.T) {
	tiny := decimal.RequireFromString("-1e-400")
	got := Struct(sampleRequest{Date: "2024-05-01", Amount: tiny, Rate: &tiny}).ToMap()
	assert.Equal(t, "must be greater than or equal to 0", got["amount"])
	assert.Equal(t, "must be greater than or equal to 0", got["rate"])

	above := decimal.RequireFromString("100.0000000000000000001")
	got = Struct(sampleRequest{Date: "2024-05-01", Rate: &above}).ToMap()
	assert.Equal(t, "must be less than or equal to 100", got["rate"])

	zero := decimal.Zero
	hundred := decimal.NewFromInt(100)
	assert.Empty(t, Struct(sampleRequest{Date: "2024-05-01", Amount: zero, Rate: &hundred}))
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "date", Message: "invalid"},
		{Field: "per_head_rate", Message: "required"},
	}
	got := errs.Error()
	want := "date: invalid; per_head_rate: required"
	if got != want {
		t.Errorf("ValidationErrors.Error() = %q, want %q", got, want)
	}
}

func TestValidationErrors_ToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "date", Message: "invalid"},
		{Field: "per_head_rate", Message: "required"},
	}
	got := errs.ToMap()
	want := map[string]string{"date": "invalid", "per_head_rate": "required"}
	if len(got) != len(want) {
		t.Errorf("ValidationErrors.ToMap() length = %d, want %d", len(got), len(want))
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("ValidationErrors.ToMap()[%q] = %q, want %q", k, got[k], v)
		}
	}
}
