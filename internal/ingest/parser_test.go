package ingest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseCSV_HeaderBecomesKeys(t *testing.T) {
	data := []byte("codigo,nombre,departamento\r\n05001, Medellín ,ANTIOQUIA\r\n\r\n\"11001\",\"Bogotá\",CUNDINAMARCA\r\n")

	rows, err := Parse(data, "municipios.csv")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 1, rows[0].Index)
	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, []string{"codigo", "nombre", "departamento"}, rows[0].Columns())

	v, ok := rows[0].Get("NOMBRE")
	require.True(t, ok)
	assert.Equal(t, "Medellín", v)

	assert.Equal(t, 2, rows[1].Index)
	assert.Equal(t, 4, rows[1].Line)
	v, _ = rows[1].Get("codigo")
	assert.Equal(t, "11001", v)
}

func TestParseCSV_ShortRowsAreBlankPadded(t *testing.T) {
	rows, err := ParseCSV([]byte("a,b,c\n1\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	v, ok := rows[0].Get("c")
	assert.True(t, ok)
	assert.Equal(t, "", v)
}

func TestParseCSV_QuotedCommaIsSplit(t *testing.T) {
	// Known limitation: quoted commas are not honoured.
	rows, err := ParseCSV([]byte("nombre,ciudad\n\"Pérez, Juan\",Cali\n"))
	require.NoError(t, err)

	v, _ := rows[0].Get("nombre")
	assert.Equal(t, "\"Pérez", v)
	v, _ = rows[0].Get("ciudad")
	assert.Equal(t, "Juan\"", v)
}

func TestParseCSV_Windows1252Fallback(t *testing.T) {
	// "Bogotá" with á encoded as 0xE1 (Windows-1252)
	data := []byte{'n', 'o', 'm', 'b', 'r', 'e', '\n', 'B', 'o', 'g', 'o', 't', 0xE1, '\n'}

	rows, err := ParseCSV(data)
	require.NoError(t, err)
	v, _ := rows[0].Get("nombre")
	assert.Equal(t, "Bogotá", v)
}

func TestParseCSV_StripsBOM(t *testing.T) {
	rows, err := ParseCSV(append([]byte{0xEF, 0xBB, 0xBF}, []byte("placa\nabc123\n")...))
	require.NoError(t, err)
	v, ok := rows[0].Get("placa")
	require.True(t, ok)
	assert.Equal(t, "abc123", v)
}

func TestParseCSV_TooFewLines(t *testing.T) {
	for _, in := range []string{"", "codigo,nombre", "codigo,nombre\n\n  \n"} {
		_, err := Parse([]byte(in), "x.csv")
		var pe *ParseError
		require.True(t, errors.As(err, &pe), "input %q", in)
		assert.Equal(t, "x.csv", pe.Filename)
	}
}

func TestParse_UnsupportedExtension(t *testing.T) {
	_, err := Parse([]byte("a,b\n1,2"), "datos.txt")
	require.Error(t, err)
	assert.True(t, IsUnsupportedType(err))
}

func TestParseSpreadsheet_FirstSheetOnly(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"placa", "modelo"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"abc123", 2019}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A4", &[]interface{}{"xyz789", 2021}))
	_, err := f.NewSheet("Otra")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Otra", "A1", &[]interface{}{"ignorada"}))
	require.NoError(t, f.SetSheetRow("Otra", "A2", &[]interface{}{"x"}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := Parse(buf.Bytes(), "vehiculos.xlsx")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	v, _ := rows[0].Get("modelo")
	assert.Equal(t, "2019", v)
	assert.Equal(t, 2, rows[1].Index)
	assert.Equal(t, 4, rows[1].Line)
	_, ok := rows[0].Get("ignorada")
	assert.False(t, ok)
}

func TestParseSpreadsheet_HeaderOnly(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"placa"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, err = Parse(buf.Bytes(), "vacio.xlsx")
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
}

func TestParseSpreadsheet_NotAWorkbook(t *testing.T) {
	_, err := Parse([]byte("this is not a zip"), "legacy.xls")
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "legacy.xls", pe.Filename)
	assert.Contains(t, pe.Error(), "unreadable workbook")
}

func TestRowWithDefaults(t *testing.T) {
	row := NewRow(1, 2, []string{"placa", "tipo"}, []string{"ABC123", ""})
	filled := row.WithDefaults(map[string]string{"tipo": "C2", "marca": "KENWORTH", "placa": "ZZZ999"})

	v, _ := filled.Get("tipo")
	assert.Equal(t, "C2", v)
	v, _ = filled.Get("marca")
	assert.Equal(t, "KENWORTH", v)
	v, _ = filled.Get("placa")
	assert.Equal(t, "ABC123", v, "non-blank cells win over defaults")

	v, _ = row.Get("tipo")
	assert.Equal(t, "", v, "original row is untouched")
}
