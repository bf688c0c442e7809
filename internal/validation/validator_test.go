package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"despachos/rndc-gateway/internal/ingest"
)

var testSchema = Schema{
	Name: "test",
	Fields: []Field{
		{Name: "placa", Required: true, Kind: Identifier, MaxLen: 6},
		{Name: "nombre", Required: true, Kind: String},
		{Name: "modelo", Kind: Int},
		{Name: "capacidad", Kind: Float},
		{Name: "fecha", Kind: Date, Aliases: []string{"FECHA_CITA"}},
		{Name: "hora", Kind: Time},
	},
}

func row(header []string, cells ...string) ingest.Row {
	return ingest.NewRow(1, 2, header, cells)
}

func TestValidate_ListsEveryMissingRequiredField(t *testing.T) {
	out := Validate(row([]string{"placa", "nombre", "modelo"}, " ", "", "abc"), testSchema)

	require.False(t, out.Valid())
	require.Len(t, out.Errors, 2)
	assert.Equal(t, "placa", out.Errors[0].Field)
	assert.Equal(t, CodeRequired, out.Errors[0].Code)
	assert.Equal(t, "nombre", out.Errors[1].Field)
	// coercion does not run while required fields are missing
	for _, e := range out.Errors {
		assert.NotEqual(t, "modelo", e.Field)
	}
	assert.Equal(t, 1, out.Row)
}

func TestValidate_MissingColumnCountsAsMissing(t *testing.T) {
	out := Validate(row([]string{"otra"}, "x"), testSchema)
	require.False(t, out.Valid())
	assert.Equal(t, []string{"placa is required", "nombre is required"}, out.Messages())
}

func TestValidate_CoercesTypes(t *testing.T) {
	header := []string{"PLACA", "nombre", "modelo", "capacidad", "FECHA_CITA", "hora", "extra"}
	out := Validate(row(header, " abc123 ", "  Juan ", "2019", "32,5", "19/04/2025", "7:05", "ignored"), testSchema)

	require.True(t, out.Valid(), out.Summary())
	assert.Equal(t, "ABC123", out.Values.String("placa"))
	assert.Equal(t, "Juan", out.Values.String("nombre"))
	require.NotNil(t, out.Values.Int("modelo"))
	assert.Equal(t, int64(2019), *out.Values.Int("modelo"))
	require.NotNil(t, out.Values.Float("capacidad"))
	assert.InDelta(t, 32.5, *out.Values.Float("capacidad"), 1e-9)
	assert.Equal(t, "2025-04-19", out.Values.String("fecha"))
	assert.Equal(t, "07:05", out.Values.String("hora"))
	_, hasExtra := out.Values["extra"]
	assert.False(t, hasExtra)
}

func TestValidate_OptionalAbsentNumbersAreNil(t *testing.T) {
	out := Validate(row([]string{"placa", "nombre"}, "abc123", "x"), testSchema)
	require.True(t, out.Valid())

	assert.Nil(t, out.Values.Int("modelo"))
	assert.Nil(t, out.Values.Float("capacidad"))
	v, present := out.Values["modelo"]
	assert.True(t, present)
	assert.Nil(t, v)
}

func TestValidate_CollectsAllCoercionErrors(t *testing.T) {
	header := []string{"placa", "nombre", "modelo", "fecha", "hora"}
	out := Validate(row(header, "abc1234", "x", "20x9", "31/02/2025", "25:99"), testSchema)

	require.False(t, out.Valid())
	fields := make([]string, 0, len(out.Errors))
	for _, e := range out.Errors {
		fields = append(fields, e.Field)
	}
	assert.Equal(t, []string{"placa", "modelo", "fecha", "hora"}, fields)
	assert.Equal(t, CodeTooLong, out.Errors[0].Code)
	assert.Equal(t, CodeInvalid, out.Errors[1].Code)
	assert.Nil(t, out.Values)
}

func TestParseDate_Formats(t *testing.T) {
	cases := map[string]string{
		"2025-04-19": "2025-04-19",
		"19/04/2025": "2025-04-19",
		"9/4/2025":   "2025-04-09",
		"19-04-2025": "2025-04-19",
		"45766":      "2025-04-19",
	}
	for in, want := range cases {
		got, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got.Format("2006-01-02"), in)
	}

	_, err := ParseDate("mañana")
	assert.Error(t, err)
}

func TestParseClock_ExcelFraction(t *testing.T) {
	got, err := ParseClock("0.5")
	require.NoError(t, err)
	assert.Equal(t, "12:00", got)

	got, err = ParseClock("14:30:00")
	require.NoError(t, err)
	assert.Equal(t, "14:30", got)
}

func TestPartial_SkipsRequiredCheck(t *testing.T) {
	out := Partial(row([]string{"FECHA_CITA"}, "2025-04-19"), testSchema)
	require.True(t, out.Valid(), out.Summary())
	assert.Equal(t, "2025-04-19", out.Values.String("fecha"))
	assert.Equal(t, "", out.Values.String("placa"))

	bad := Partial(row([]string{"modelo"}, "dos mil"), testSchema)
	require.False(t, bad.Valid())
	assert.Equal(t, "modelo", bad.Errors[0].Field)
}
