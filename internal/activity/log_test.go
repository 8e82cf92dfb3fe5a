package activity

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLog_AppendAndEntries(t *testing.T) {
	l := NewLog(10)

	first := l.Infof("scan finished: %d networks", 3)
	l.Errorf("scan failed: %s", "boom")

	entries := l.Entries(0)
	require.Len(t, entries, 2)
	assert.Equal(t, first.ID, entries[0].ID)
	assert.Equal(t, "scan finished: 3 networks", entries[0].Message)
	assert.Equal(t, LevelInfo, entries[0].Level)
	assert.Equal(t, LevelError, entries[1].Level)
	assert.NotEqual(t, entries[0].ID, entries[1].ID)
}

func TestLog_DropsOldestWhenFull(t *testing.T) {
	l := NewLog(3)
	for i := 0; i < 5; i++ {
		l.Infof("entry %d", i)
	}

	assert.Equal(t, 3, l.Len())

	var msgs []string
	for _, e := range l.Entries(0) {
		msgs = append(msgs, e.Message)
	}
	assert.Equal(t, []string{"entry 2", "entry 3", "entry 4"}, msgs)
}

func TestLog_EntriesLimit(t *testing.T) {
	l := NewLog(0)
	for i := 0; i < 8; i++ {
		l.Warnf("entry %d", i)
	}

	entries := l.Entries(2)
	require.Len(t, entries, 2)
	assert.Equal(t, "entry 6", entries[0].Message)
	assert.Equal(t, "entry 7", entries[1].Message)

	entries[0].Message = "mutated"
	assert.Equal(t, "entry 6", l.Entries(2)[0].Message)
}

func TestLog_EmptyAndExactlyFull(t *testing.T) {
	l := NewLog(2)
	assert.Empty(t, l.Entries(5))

	l.Infof("a")
	l.Infof("b")
	entries := l.Entries(0)
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Message)
	assert.Equal(t, "b", entries[1].Message)
}

func ExampleLog_Entries() {
	l := NewLog(2)
	l.Infof("first")
	l.Infof("second")
	l.Infof("third")
	for _, e := range l.Entries(0) {
		fmt.Println(e.Message)
	}
	// Output:
	// second
	// third
}
