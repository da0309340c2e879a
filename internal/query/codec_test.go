package query

import (
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "business-console/internal/common/errors"
)

func businessSpec() Spec {
	return Spec{
		Fields: []Field{
			{Name: "name", Kind: Text},
			{Name: "active", Kind: Tri},
			{Name: "is_live", Kind: Tri},
			{Name: "balance", Kind: Balance},
		},
		Sorts: []string{"name", "balance", "created_at"},
	}
}

func adminSpec() Spec {
	return Spec{
		Fields: []Field{
			{Name: "name", Kind: Text},
			{Name: "role", Kind: Enum, Options: []string{"All", "SuperAdmin", "Admin"}},
			{Name: "gender", Kind: Enum, Options: []string{"male", "female", "other"}, Lower: true},
		},
	}
}

// ==========================
// Decode
// ==========================

func TestDecode_AllKinds(t *testing.T) {
	q, err := url.ParseQuery("name=Acme&active=yes&is_live=no&balance=gte_500&orderBy=balance&order=DESC&page=3&limit=50")
	require.NoError(t, err)

	f, err := Decode(q, businessSpec())
	require.NoError(t, err)

	assert.Equal(t, "Acme", f.Text["name"])
	assert.True(t, f.Tri["active"])
	assert.False(t, f.Tri["is_live"])
	assert.Equal(t, OpGte, f.Balance["balance"].Op)
	assert.True(t, decimal.NewFromInt(500).Equal(f.Balance["balance"].Value))
	assert.Equal(t, "balance", f.OrderBy)
	assert.Equal(t, "desc", f.Order)
	assert.Equal(t, 3, f.Page)
	assert.Equal(t, 50, f.Limit)
}

func TestDecode_SentinelsAreDropped(t *testing.T) {
	q := url.Values{"name": {""}, "role": {"All"}, "gender": {"all"}}

	f, err := Decode(q, adminSpec())
	require.NoError(t, err)

	assert.Nil(t, f.Text)
	assert.Nil(t, f.Enum)
	assert.Empty(t, Encode(f))
}

func TestDecode_EnumVocabulary(t *testing.T) {
	f, err := Decode(url.Values{"role": {"superadmin"}, "gender": {"Female"}}, adminSpec())
	require.NoError(t, err)
	assert.Equal(t, "superadmin", f.Enum["role"])
	assert.Equal(t, "female", f.Enum["gender"])

	f, err = Decode(url.Values{"role": {"Owner"}, "name": {"kim"}}, adminSpec())
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidFilterFormat))
	assert.Nil(t, f.Enum)
	assert.Equal(t, "kim", f.Text["name"], "valid fields survive an invalid sibling")
}

func TestDecode_InvalidValuesAreJoined(t *testing.T) {
	q := url.Values{
		"active":  {"maybe"},
		"balance": {"500"},
		"orderBy": {"password"},
		"page":    {"0"},
		"limit":   {"ten"},
	}

	f, err := Decode(q, businessSpec())
	require.Error(t, err)

	stdErr, ok := apperrors.AsStandard(err)
	require.True(t, ok)
	assert.Contains(t, stdErr.Details, "active must be yes or no")
	assert.Contains(t, stdErr.Details, "balance")
	assert.Contains(t, stdErr.Details, "cannot sort by")
	assert.Contains(t, stdErr.Details, "page must be a positive integer")
	assert.Contains(t, stdErr.Details, "limit must be a positive integer")
	assert.True(t, f.Equal(Filters{}))
}

func TestDecode_IgnoresUnknownKeys(t *testing.T) {
	f, err := Decode(url.Values{"utm_source": {"mail"}}, businessSpec())
	require.NoError(t, err)
	assert.True(t, f.Equal(Filters{}))
}

// ==========================
// Balance comparisons
// ==========================

func TestParseComparison(t *testing.T) {
	tests := []struct {
		in      string
		op      Op
		value   string
		wantErr bool
	}{
		{"eq_0", OpEq, "0", false},
		{"lt_100", OpLt, "100", false},
		{"lte_99.5", OpLte, "99.5", false},
		{"gt_-20", OpGt, "-20", false},
		{"gte_1_000", "", "", true},
		{"between_10", "", "", true},
		{"gte", "", "", true},
		{"gte_", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := ParseComparison(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.op, c.Op)
			assert.True(t, decimal.RequireFromString(tt.value).Equal(c.Value))
			assert.Equal(t, tt.in, c.String())
		})
	}
}

// ==========================
// Round trip
// ==========================

func TestEncodeDecode_RoundTrip(t *testing.T) {
	spec := businessSpec()
	f := Filters{
		Text:    map[string]string{"name": "Acme Traders"},
		Tri:     map[string]bool{"active": true, "is_live": false},
		Balance: map[string]Comparison{"balance": {Op: OpLt, Value: decimal.RequireFromString("1250.50")}},
		OrderBy: "created_at",
		Order:   "asc",
		Page:    2,
		Limit:   20,
	}

	back, err := Decode(Encode(f), spec)
	require.NoError(t, err)
	assert.True(t, f.Equal(back))

	again, err := Decode(Encode(back), spec)
	require.NoError(t, err)
	assert.Equal(t, Encode(back).Encode(), Encode(again).Encode())
}

func TestValueAndActive(t *testing.T) {
	f, err := Decode(url.Values{"name": {"a"}, "active": {"no"}, "balance": {"eq_5"}}, businessSpec())
	require.NoError(t, err)

	assert.Equal(t, "no", f.Value("active"))
	assert.Equal(t, "eq_5", f.Value("balance"))
	assert.Equal(t, "", f.Value("is_live"))
	assert.Equal(t, []string{"active", "balance", "name"}, f.Active())
}

// ==========================
// Apply
// ==========================

func TestApply_ResetsPageOnFilterChange(t *testing.T) {
	spec := businessSpec()
	f, err := Decode(url.Values{"active": {"yes"}, "page": {"4"}, "limit": {"10"}}, spec)
	require.NoError(t, err)

	q, err := Apply(f, spec, "name", "acme")
	require.NoError(t, err)
	assert.Equal(t, "", q.Get("page"))
	assert.Equal(t, "acme", q.Get("name"))
	assert.Equal(t, "yes", q.Get("active"))
	assert.Equal(t, "10", q.Get("limit"))

	q, err = Apply(f, spec, "limit", "50")
	require.NoError(t, err)
	assert.Equal(t, "", q.Get("page"))

	q, err = Apply(f, spec, "page", "5")
	require.NoError(t, err)
	assert.Equal(t, "5", q.Get("page"))
	assert.Equal(t, "yes", q.Get("active"))

	assert.Equal(t, 4, f.Page, "Apply must not mutate its input")
}

func TestApply_AllClearsFilter(t *testing.T) {
	spec := adminSpec()
	f, err := Decode(url.Values{"role": {"Admin"}, "name": {"x"}}, spec)
	require.NoError(t, err)

	q, err := Apply(f, spec, "role", "All")
	require.NoError(t, err)
	assert.False(t, q.Has("role"))
	assert.Equal(t, "x", q.Get("name"))
	assert.Equal(t, "Admin", f.Enum["role"])
}

func TestApply_Rejections(t *testing.T) {
	spec := businessSpec()
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown filter", "password", "x"},
		{"bad tri", "active", "sometimes"},
		{"bad balance", "balance", "lots"},
		{"bad sort", "orderBy", "secret"},
		{"bad order", "order", "sideways"},
		{"bad page", "page", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Apply(Filters{}, spec, tt.key, tt.value)
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidFilterFormat))
		})
	}
}
