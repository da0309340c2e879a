package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlag_Unmarshal(t *testing.T) {
	tests := []struct {
		in      string
		want    Flag
		wantErr bool
	}{
		{`true`, true, false},
		{`false`, false, false},
		{`1`, true, false},
		{`0`, false, false},
		{`"1"`, true, false},
		{`"yes"`, true, false},
		{`"no"`, false, false},
		{`null`, false, false},
		{`2`, false, true},
		{`"maybe"`, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var f Flag
			err := json.Unmarshal([]byte(tt.in), &f)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, f)
		})
	}
}

func TestFlag_MarshalsAsBool(t *testing.T) {
	data, err := json.Marshal(struct {
		Active Flag `json:"active"`
	}{Active: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"active":true}`, string(data))
}

func TestReviewable_WireFormat(t *testing.T) {
	data, err := json.Marshal(map[string]interface{}{
		"email": Placeholder("acme.1a2b3c@placeholder.invalid"),
		"name":  Confirmed("Acme"),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"acme.1a2b3c@placeholder.invalid||change","name":"Acme"}`, string(data))

	var back struct {
		Email Reviewable[string] `json:"email"`
		Name  Reviewable[string] `json:"name"`
	}
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, "acme.1a2b3c@placeholder.invalid", back.Email.Value)
	assert.True(t, back.Email.NeedsReview)
	assert.Equal(t, "Acme", back.Name.Value)
	assert.False(t, back.Name.NeedsReview)
}

func TestReviewable_TrimsPlaceholderWhitespace(t *testing.T) {
	var r Reviewable[string]
	require.NoError(t, json.Unmarshal([]byte(`" 9812345678||change"`), &r))
	assert.Equal(t, "9812345678", r.Value)
	assert.True(t, r.NeedsReview)
}

func TestReviewable_NonString(t *testing.T) {
	var r Reviewable[int]
	require.NoError(t, json.Unmarshal([]byte(`"42||change"`), &r))
	assert.Equal(t, 42, r.Value)
	assert.True(t, r.NeedsReview)

	require.NoError(t, json.Unmarshal([]byte(`7`), &r))
	assert.Equal(t, 7, r.Value)
	assert.False(t, r.NeedsReview)
}

func TestStripReview(t *testing.T) {
	assert.True(t, NeedsReview("lalitpur||change"))
	assert.False(t, NeedsReview("lalitpur"))
	assert.Equal(t, "lalitpur", StripReview("lalitpur||change"))
	assert.Equal(t, "kathmandu", StripReview("kathmandu"))
}

func TestBusiness_PendingReview(t *testing.T) {
	var b Business
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": 7, "name": "Acme",
		"email": "acme@x.invalid||change", "phone": "9800000000",
		"address": "lalitpur||change", "pan_no": "123456789",
		"registered_date": "2024-01-01", "balance": "1000.50",
		"active": 1, "is_live": 0
	}`), &b))

	assert.Equal(t, []string{"email", "address"}, b.PendingReview())
	assert.True(t, b.Active.Bool())
	assert.False(t, b.IsLive.Bool())
	assert.True(t, decimal.RequireFromString("1000.5").Equal(b.Balance))
}

func TestDecodePage(t *testing.T) {
	raw := []byte(`{
		"applicants": [{"id": 1, "name": "A", "approved": 1, "enrolled": 0}, {"id": 2, "name": "B"}],
		"currentPage": 1, "limit": "10", "pages": 3, "total": 25
	}`)

	page, err := DecodePage[Applicant](raw, "applicants")
	require.NoError(t, err)

	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(1), page.Items[0].ID)
	assert.True(t, page.Items[0].Approved.Bool())
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 10, page.Limit)
	assert.Equal(t, 3, page.Pages)
	assert.Equal(t, 25, page.Total)
}

func TestDecodePage_MissingKey(t *testing.T) {
	page, err := DecodePage[Business]([]byte(`{"total": 0}`), "businesses")
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
}

func TestDecodePage_Invalid(t *testing.T) {
	_, err := DecodePage[Business]([]byte(`{"businesses": {}}`), "businesses")
	assert.Error(t, err)

	_, err = DecodePage[Business]([]byte(`{"total": "many"}`), "businesses")
	assert.Error(t, err)
}

func TestCount(t *testing.T) {
	n, err := Count([]byte(`{"businesses": [], "total": "12"}`))
	require.NoError(t, err)
	assert.Equal(t, 12, n)
}

func TestText_AcceptsNumbers(t *testing.T) {
	var row UsersCashflow
	require.NoError(t, json.Unmarshal([]byte(`{"id": 1, "reference_id": 99812, "amount": 120}`), &row))
	assert.Equal(t, Text("99812"), row.ReferenceID)
}
