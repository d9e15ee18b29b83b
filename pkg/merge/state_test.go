package merge_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/bibmerge/pkg/merge"
	"github.com/agentstation/bibmerge/pkg/records"
)

func rec(source, key string) records.Record {
	return records.Record{
		Type:   "article",
		Key:    key,
		Body:   fmt.Sprintf("{%s, note = {from %s}}", key, source),
		Source: source,
	}
}

func set(source string, keys ...string) records.Set {
	s := records.Set{Source: source}
	for _, k := range keys {
		s.Records = append(s.Records, rec(source, k))
	}
	return s
}

func names(entries []merge.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestMergeSingleFile(t *testing.T) {
	s := merge.Fold(set("a.bib", "A", "B"))

	assert.Equal(t, []string{"A", "B"}, names(s.Kept()))
	assert.Empty(t, s.Duplicates())
}

func TestMergeTwoFilesSameKey(t *testing.T) {
	s := merge.Fold(set("a.bib", "A"), set("b.bib", "A"))

	kept, ok := s.Lookup("A")
	require.True(t, ok)
	assert.Equal(t, "a.bib", kept.Source)

	assert.Equal(t, []string{"A_0"}, names(s.Duplicates()))
	dup, ok := s.Duplicate("A_0")
	require.True(t, ok)
	assert.Equal(t, "b.bib", dup.Source)
	assert.Equal(t, "A", dup.Key)
}

func TestMergeThreeFilesSameKey(t *testing.T) {
	s := merge.Fold(set("1.bib", "A"), set("2.bib", "A"), set("3.bib", "A"))

	kept, _ := s.Lookup("A")
	assert.Equal(t, "1.bib", kept.Source)

	dups := s.Duplicates()
	require.Len(t, dups, 2)
	assert.Equal(t, "A_0", dups[0].Name)
	assert.Equal(t, "2.bib", dups[0].Record.Source)
	assert.Equal(t, "A_1", dups[1].Name)
	assert.Equal(t, "3.bib", dups[1].Record.Source)
}

func TestMergeFirstWriterWinsWithinFile(t *testing.T) {
	s := merge.NewState()
	placements := s.Merge(records.Set{Source: "a.bib", Records: []records.Record{
		{Type: "misc", Key: "A", Body: "{A, n={1}}"},
		{Type: "misc", Key: "A", Body: "{A, n={2}}"},
	}})

	require.Len(t, placements, 2)
	assert.False(t, placements[0].Duplicate)
	assert.True(t, placements[1].Duplicate)
	assert.Equal(t, "A_0", placements[1].Name)

	kept, _ := s.Lookup("A")
	assert.Equal(t, "{A, n={1}}", kept.Body)
}

func TestMergePreservesPriorEntries(t *testing.T) {
	s := merge.NewState()
	s.Merge(set("a.bib", "A", "B"))
	s.Merge(set("b.bib", "B", "C"))
	s.Merge(set("c.bib", "A", "B"))

	assert.Equal(t, []string{"A", "B", "C"}, names(s.Kept()))
	assert.Equal(t, []string{"B_0", "A_0", "B_1"}, names(s.Duplicates()))
	assert.Equal(t, 3, s.KeptCount())
	assert.Equal(t, 3, s.DuplicateCount())
	assert.Equal(t, 6, s.Len())
}

func TestMergeSkipsNamesTakenByKeptKeys(t *testing.T) {
	s := merge.Fold(set("a.bib", "A", "A_0"), set("b.bib", "A"))

	assert.Equal(t, []string{"A", "A_0"}, names(s.Kept()))
	assert.Equal(t, []string{"A_1"}, names(s.Duplicates()))

	s = merge.Fold(set("a.bib", "A", "A_0", "A"))
	assert.Equal(t, []string{"A", "A_0"}, names(s.Kept()))
	assert.Equal(t, []string{"A_1"}, names(s.Duplicates()))
}

func TestMergeReportsShadowedName(t *testing.T) {
	s := merge.NewState()
	s.Merge(set("a.bib", "A", "A"))
	placements := s.Merge(set("b.bib", "A_0"))

	require.Len(t, placements, 1)
	assert.True(t, placements[0].Shadows)
	assert.False(t, placements[0].Duplicate)
	assert.Equal(t, 3, s.Len())
}

func TestRecordAccessors(t *testing.T) {
	s := merge.Fold(set("a.bib", "A"), set("b.bib", "A", "B"))

	kept := s.KeptRecords()
	require.Len(t, kept, 2)
	assert.Equal(t, "A", kept[0].Key)
	assert.Equal(t, "B", kept[1].Key)

	dups := s.DuplicateRecords()
	require.Len(t, dups, 1)
	assert.Equal(t, "A", dups[0].Key, "duplicates keep their original key")
	assert.Equal(t, "b.bib", dups[0].Source)

	_, ok := s.Lookup("missing")
	assert.False(t, ok)
	_, ok = s.Duplicate("A")
	assert.False(t, ok)
}

func TestDisambiguatedKey(t *testing.T) {
	assert.Equal(t, "Smith2020_0", merge.DisambiguatedKey("Smith2020", 0))
	assert.Equal(t, "x_12", merge.DisambiguatedKey("x", 12))
}

// randomSets builds n files drawing keys from a small alphabet so that
// collisions are frequent.
func randomSets(seed int64, n int) []records.Set {
	rng := rand.New(rand.NewSource(seed))
	alphabet := []string{"A", "B", "C", "D", "E"}
	sets := make([]records.Set, n)
	for i := range sets {
		source := fmt.Sprintf("f%02d.bib", i)
		var keys []string
		for j := rng.Intn(6); j > 0; j-- {
			keys = append(keys, alphabet[rng.Intn(len(alphabet))])
		}
		sets[i] = set(source, keys...)
	}
	return sets
}

func TestMergeProperties(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			sets := randomSets(seed, 12)
			s := merge.Fold(sets...)

			// Partition: every record lands in exactly one mapping.
			assert.Equal(t, records.Total(sets), s.KeptCount()+s.DuplicateCount())

			keptNames := make(map[string]bool)
			for _, e := range s.Kept() {
				assert.False(t, keptNames[e.Name], "kept key %s repeated", e.Name)
				keptNames[e.Name] = true
				assert.Equal(t, e.Name, e.Record.Key)
			}

			// Collision naming: unique names, disjoint from kept, and each
			// key's suffixes are 0..k-1 in insertion order.
			dupNames := make(map[string]bool)
			nextSuffix := make(map[string]int)
			for _, e := range s.Duplicates() {
				assert.False(t, dupNames[e.Name], "duplicate name %s repeated", e.Name)
				assert.False(t, keptNames[e.Name], "duplicate name %s collides with kept", e.Name)
				dupNames[e.Name] = true

				want := merge.DisambiguatedKey(e.Record.Key, nextSuffix[e.Record.Key])
				assert.Equal(t, want, e.Name)
				nextSuffix[e.Record.Key]++
				assert.True(t, keptNames[e.Record.Key], "duplicate of %s without kept record", e.Record.Key)
			}

			// Idempotence: folding the same ordered input again is identical.
			again := merge.Fold(sets...)
			assert.Equal(t, s.Kept(), again.Kept())
			assert.Equal(t, s.Duplicates(), again.Duplicates())
		})
	}
}
