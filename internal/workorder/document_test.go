package workorder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDocument(t *testing.T) {
	t.Run("trims and drops blank lines across pages", func(t *testing.T) {
		d := NewDocument([]string{"  Cliente: \n\n C0042\r\n", "\t\nTotal Bruto:\n"})

		assert.Equal(t, []string{"Cliente:", "C0042", "Total Bruto:"}, d.Lines())
		assert.Equal(t, "Cliente:\nC0042\nTotal Bruto:", d.FullText())
		assert.Equal(t, 3, d.Len())
	})

	t.Run("keeps order and duplicates", func(t *testing.T) {
		d := NewDocument([]string{"b\na\nb"})

		assert.Equal(t, []string{"b", "a", "b"}, d.Lines())
	})

	t.Run("empty input yields empty document", func(t *testing.T) {
		d := NewDocument(nil)

		assert.Equal(t, 0, d.Len())
		assert.Empty(t, d.FullText())
	})

	t.Run("lines are a copy", func(t *testing.T) {
		d := NewDocument([]string{"x"})
		lines := d.Lines()
		lines[0] = "changed"

		assert.Equal(t, []string{"x"}, d.Lines())
	})
}

func TestDocument_ScanAfter(t *testing.T) {
	d := NewDocument([]string{"A:\nB:\nvalue\nA:\nother"})

	v, ok := d.scanAfter(hasPrefix("A:"), 5, notLabel)
	assert.True(t, ok)
	assert.Equal(t, "value", v)

	_, ok = d.scanAfter(hasPrefix("A:"), 1, notLabel)
	assert.False(t, ok, "window of one only sees the next label")

	_, ok = d.scanAfter(hasPrefix("Z:"), 5, notLabel)
	assert.False(t, ok)
}
