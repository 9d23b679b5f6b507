package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/leadgen-cli/internal/model"
)

func TestDedupIndex_NameSubstring(t *testing.T) {
	idx := NewDedupIndex([]model.Lead{
		{Name: "ABC Fitness Gym", Phones: []string{"9876543210"}},
	})

	assert.True(t, idx.IsDuplicate("Abc Fitness", []string{"5550001111"}))
	assert.True(t, idx.IsDuplicate("ABC Fitness Gym Pvt Ltd", nil))
	assert.False(t, idx.IsDuplicate("XYZ Fitness", []string{"5550001111"}))
}

func TestDedupIndex_PhoneSubstring(t *testing.T) {
	idx := NewDedupIndex([]model.Lead{
		{Name: "ABC Fitness Gym", Phones: []string{"9876543210"}},
	})

	// Same number with a country code prefix still matches.
	assert.True(t, idx.IsDuplicate("Totally Different", []string{"919876543210"}))
	assert.True(t, idx.IsDuplicate("Totally Different", []string{"9876543210"}))
	assert.False(t, idx.IsDuplicate("Totally Different", []string{"1112223334"}))
}

func TestDedupIndex_EmptyValuesNeverMatchByPhone(t *testing.T) {
	idx := NewDedupIndex([]model.Lead{
		{Name: "ABC Fitness Gym", Phones: []string{""}},
	})
	assert.False(t, idx.IsDuplicate("XYZ Pilates", []string{""}))
}

func TestDedupIndex_AddExtendsBatch(t *testing.T) {
	idx := NewDedupIndex(nil)
	assert.False(t, idx.IsDuplicate("ABC Fitness Gym", []string{"9876543210"}))

	idx.Add("ABC Fitness Gym", []string{"9876543210"})
	assert.True(t, idx.IsDuplicate("Abc Fitness", nil))
}
