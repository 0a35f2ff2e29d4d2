package finder

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/roach88/finder/internal/ir"
)

// TestCompile_Golden pins the canonical JSON of representative plans.
// Regenerate with: go test ./internal/finder -update
func TestCompile_Golden(t *testing.T) {
	cases := []struct {
		golden string
		method ir.MethodSignature
	}{
		{"find_by_last_name", ir.NewSignature("findByLastName", "lastName")},
		{"find_by_age_greater_than_order_by_age_desc", ir.NewSignature("findByAgeGreaterThanOrderByAgeDesc", "age")},
		{"count_by_status_not", ir.NewSignature("countByStatusNot", "status")},
		{"find_by_address_city_name", ir.NewSignature("findByAddressCityName", "name")},
		{"find_by_foo_bar", ir.NewSignature("findByFooBar", "fooBar")},
		{"find_top3_by_last_name_or_age_between", ir.NewSignature("findTop3ByLastNameOrAgeBetween", "ln", "lo", "hi")},
		{"exists_by_nickname_is_null", ir.NewSignature("existsByNicknameIsNull")},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	for _, tc := range cases {
		t.Run(tc.golden, func(t *testing.T) {
			q, err := New().Compile(tc.method, person(t))
			require.NoError(t, err)

			data, err := ir.MarshalCanonical(q.ToMap())
			require.NoError(t, err)

			g.Assert(t, tc.golden, data)
		})
	}
}
