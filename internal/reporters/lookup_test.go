package reporters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain abbreviation", in: "JLR", want: "jlr"},
		{name: "dotted abbreviation", in: "J.L.R.", want: "jlr"},
		{name: "spaces and brackets", in: " (Jersey) L R ", want: "jerseylr"},
		{name: "accents stripped", in: "Cour d'Appél", want: "courdappel"},
		{name: "digits kept", in: "2 WLR", want: "2wlr"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeKey(tt.in))
		})
	}
}

func TestCleanReporter(t *testing.T) {
	assert.Equal(t, "jlr", CleanReporter("J.L.R."))
	assert.Equal(t, "jerseylawreports", CleanReporter("Jersey Law Reports"))
	assert.Equal(t, "a&b-c", CleanReporter("A & B-C"))
	assert.Equal(t, "", CleanReporter(" [ ] "))
}

func TestConsolidate(t *testing.T) {
	records := []Record{
		{Reporter: "J.L.R.", Cleaned: "jlr", Jurisdiction: "Jersey", Count: 3},
		{Reporter: "WLR", Cleaned: "wlr", Jurisdiction: "England", Count: 10},
		{Reporter: "JLR", Cleaned: "jlr", Jurisdiction: "Jersey", Count: 7},
		{Reporter: "Jlr", Cleaned: "jlr", Jurisdiction: "Guernsey", Count: 7},
		{Reporter: "W.L.R", Cleaned: "wlr", Jurisdiction: "England", Count: 10},
	}

	got := Consolidate(records)
	require.Len(t, got, 2)

	// highest count wins, first seen on ties, counts summed
	assert.Equal(t, "JLR", got[0].Reporter)
	assert.Equal(t, "Jersey", got[0].Jurisdiction)
	assert.Equal(t, 17, got[0].Count)

	assert.Equal(t, "WLR", got[1].Reporter)
	assert.Equal(t, 20, got[1].Count)
}

func TestConsolidate_GroupsOnLookupKey(t *testing.T) {
	records := []Record{
		{Reporter: "Lloyds Rep", Cleaned: CleanReporter("Lloyds Rep"), Jurisdiction: "Minor", Count: 1},
		{Reporter: "Lloyd's Rep", Cleaned: CleanReporter("Lloyd's Rep"), Jurisdiction: "England", Count: 50},
		{Reporter: "Rév. Crit.", Cleaned: CleanReporter("Rév. Crit."), Jurisdiction: "France", Count: 2},
		{Reporter: "Rev Crit", Cleaned: CleanReporter("Rev Crit"), Jurisdiction: "France", Count: 1},
	}

	got := Consolidate(records)
	require.Len(t, got, 2)

	assert.Equal(t, "Lloyd's Rep", got[0].Reporter)
	assert.Equal(t, "England", got[0].Jurisdiction)
	assert.Equal(t, 51, got[0].Count)

	assert.Equal(t, "Rév. Crit.", got[1].Reporter)
	assert.Equal(t, 3, got[1].Count)

	name, jurisdiction := NewLookup(got).Resolve("Lloyd's Rep")
	assert.Equal(t, "Lloyd's Rep", name)
	assert.Equal(t, "England", jurisdiction)
}

func TestConsolidate_Empty(t *testing.T) {
	assert.Empty(t, Consolidate(nil))
}

func TestLookup_Resolve(t *testing.T) {
	lookup := NewLookup([]Record{
		{Reporter: "JLR", Cleaned: "jlr", Jurisdiction: "Jersey"},
		{Reporter: "Jersey Law Reports", Cleaned: "j.l.r", Jurisdiction: "Other"},
		{Reporter: "Weekly Law Reports", Cleaned: "wlr", Jurisdiction: "England"},
		{Reporter: "", Cleaned: "", Jurisdiction: "Nowhere"},
	})

	assert.Equal(t, 2, lookup.Len())

	tests := []struct {
		name             string
		raw              string
		wantName         string
		wantJurisdiction string
	}{
		{name: "exact", raw: "JLR", wantName: "JLR", wantJurisdiction: "Jersey"},
		{name: "punctuated", raw: "J.L.R.", wantName: "JLR", wantJurisdiction: "Jersey"},
		{name: "surrounding spaces", raw: " WLR ", wantName: "Weekly Law Reports", wantJurisdiction: "England"},
		{name: "miss", raw: "XYZ", wantName: "", wantJurisdiction: ""},
		{name: "empty", raw: "", wantName: "", wantJurisdiction: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, jurisdiction := lookup.Resolve(tt.raw)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantJurisdiction, jurisdiction)
		})
	}
}

func TestLookup_HighestCountWinsOnSharedKey(t *testing.T) {
	lookup := NewLookup([]Record{
		{Reporter: "Lloyds Rep", Cleaned: "lloydsrep", Jurisdiction: "Minor", Count: 1},
		{Reporter: "Lloyd's Rep", Cleaned: "lloyd'srep", Jurisdiction: "England", Count: 50},
		{Reporter: "LLOYD'S REP", Cleaned: "lloyd'srep", Jurisdiction: "Elsewhere", Count: 50},
		{Reporter: "JLR", Cleaned: "jlr", Jurisdiction: "Jersey", Count: 4},
		{Reporter: "J L R", Cleaned: "", Jurisdiction: "Guernsey", Count: 2},
	})

	assert.Equal(t, 2, lookup.Len())

	// highest count wins, first seen on ties
	name, jurisdiction := lookup.Resolve("Lloyd's Rep")
	assert.Equal(t, "Lloyd's Rep", name)
	assert.Equal(t, "England", jurisdiction)

	name, jurisdiction = lookup.Resolve("Lloyds Rep")
	assert.Equal(t, "Lloyd's Rep", name)
	assert.Equal(t, "England", jurisdiction)

	name, jurisdiction = lookup.Resolve("J.L.R.")
	assert.Equal(t, "JLR", name)
	assert.Equal(t, "Jersey", jurisdiction)
}

func TestLookup_NilSafe(t *testing.T) {
	var lookup *Lookup
	name, jurisdiction := lookup.Resolve("JLR")
	assert.Empty(t, name)
	assert.Empty(t, jurisdiction)
	assert.Zero(t, lookup.Len())
}
