package sheetsvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCSVWriter(t *testing.T) {
	w := NewCSVWriter()
	assert.Equal(t, "csv", w.Ext())

	data, err := w.WriteRows(
		[]string{"rollno", "name"},
		[][]string{
			{"01", "Ann"},
			{"02", `Ben "Big" O'Neil, Jr.`},
		},
	)
	assert.NoError(t, err)
	want := "rollno,name\n" +
		"01,Ann\n" +
		"02,\"Ben \"\"Big\"\" O'Neil, Jr.\"\n"
	assert.Equal(t, want, string(data))
}
