package state

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCell_CopyIsolation(t *testing.T) {
	cell := NewCell(map[string]interface{}{"items": []interface{}{1}})

	first := cell.Get().(map[string]interface{})
	second := cell.Get().(map[string]interface{})
	assert.Equal(t, first, second)

	first["items"] = append(first["items"].([]interface{}), 2)
	first["extra"] = true
	assert.Equal(t, map[string]interface{}{"items": []interface{}{1}}, second)
	assert.Equal(t, map[string]interface{}{"items": []interface{}{1}}, cell.Get())
}

func TestCell_SetCopies(t *testing.T) {
	cell := NewCell(nil)
	assert.Nil(t, cell.Get())

	value := []int{1, 2, 3}
	cell.Set(value)
	value[0] = 100
	assert.Equal(t, []int{1, 2, 3}, cell.Get())
}

func TestCell_InitialCopied(t *testing.T) {
	initial := map[string]int{"n": 1}
	cell := NewCell(initial)
	initial["n"] = 2
	assert.Equal(t, map[string]int{"n": 1}, cell.Get())
}

func TestCell_LastWriterWins(t *testing.T) {
	cell := NewCell(0)
	var wg sync.WaitGroup
	var ready sync.WaitGroup
	ready.Add(2)
	start := make(chan struct{})
	for _, delta := range []int{1, 10} {
		wg.Add(1)
		go func(delta int) {
			defer wg.Done()
			current, _ := As[int](cell)
			ready.Done()
			<-start
			cell.Set(current + delta)
		}(delta)
	}
	ready.Wait()
	close(start)
	wg.Wait()

	actual, ok := As[int](cell)
	assert.True(t, ok)
	assert.Contains(t, []int{1, 10}, actual)
}

func TestAs(t *testing.T) {
	cell := NewCell("text")
	_, ok := As[int](cell)
	assert.False(t, ok)
	text, ok := As[string](cell)
	assert.True(t, ok)
	assert.Equal(t, "text", text)
}

type counter struct {
	n int
}

func (c counter) DeepCopy() interface{} { return counter{n: c.n} }

type ledger struct {
	Owner   string
	entries []int
}

func (l *ledger) DeepCopy() interface{} {
	return &ledger{Owner: l.Owner, entries: append([]int(nil), l.entries...)}
}

type plain struct {
	N      int
	hidden string
}

func TestCell_Copier(t *testing.T) {
	cell := NewCell(counter{n: 5})
	assert.Equal(t, counter{n: 5}, cell.Get())

	original := &ledger{Owner: "a", entries: []int{1, 2}}
	cell.Set(original)
	original.entries[0] = 100
	got := cell.Get().(*ledger)
	assert.Equal(t, &ledger{Owner: "a", entries: []int{1, 2}}, got)
	assert.NotSame(t, original, got)

	cell.Set(map[string]interface{}{"c": counter{n: 7}, "list": []interface{}{counter{n: 8}}})
	assert.Equal(t, map[string]interface{}{"c": counter{n: 7}, "list": []interface{}{counter{n: 8}}}, cell.Get())
}

func TestClone_UnexportedFieldsWithoutCopier(t *testing.T) {
	assert.Equal(t, &plain{N: 1}, Clone(&plain{N: 1, hidden: "x"}))
}
