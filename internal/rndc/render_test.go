package rndc

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"despachos/rndc-gateway/internal/models/documents"
)

var testConfig = Config{
	Usuario:    "U",
	Password:   "P",
	EmpresaNIT: "123",
	SubmitURL:  "http://rndc.invalid/soap",
}

func float(f float64) *float64 { return &f }
func int64p(i int64) *int64    { return &i }

// wellFormed walks every token so any malformed markup surfaces as an error.
func wellFormed(t *testing.T, doc string) {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(doc))
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return
		}
		require.NoError(t, err)
	}
}

func TestRender_RemesaCarriesAccessAndDates(t *testing.T) {
	out, err := Render(documents.Remesa{FechaCitaCargue: "2025-04-19"}, testConfig)
	require.NoError(t, err)

	assert.Contains(t, out, "<username>U</username>")
	assert.Contains(t, out, "<password>P</password>")
	assert.Contains(t, out, "<NUMNITEMPRESATRANSPORTE>123</NUMNITEMPRESATRANSPORTE>")
	assert.Contains(t, out, "<FECHACITAPACTADACARGUE>19/04/2025</FECHACITAPACTADACARGUE>")
	assert.Contains(t, out, "<tipo>1</tipo><procesoid>3</procesoid>")
	wellFormed(t, out)
}

func TestRender_IsDeterministic(t *testing.T) {
	rec := documents.Manifiesto{
		NumManifiesto:   "M-77",
		FechaExpedicion: "2025-01-02",
		NumPlaca:        "ABC123",
		ValorFlete:      float(1500000.5),
		Remesas:         []string{"R1", "R2"},
	}
	first, err := Render(rec, testConfig)
	require.NoError(t, err)
	second, err := Render(&rec, testConfig)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRender_ElementOrder(t *testing.T) {
	rec := documents.Remesa{
		ConsecutivoRemesa:      "R-1",
		CodOperacionTransporte: "G",
		CantidadCargada:        float(12000),
		NumIDRemitente:         "900",
		NumIDDestinatario:      "800",
		HorasPactoCarga:        int64p(2),
		FechaCitaCargue:        "2025-04-19",
		HoraCitaCargue:         "08:30",
	}
	out, err := Render(rec, testConfig)
	require.NoError(t, err)

	order := []string{
		"<NUMNITEMPRESATRANSPORTE>",
		"<CONSECUTIVOREMESA>R-1<",
		"<CODOPERACIONTRANSPORTE>G<",
		"<CANTIDADCARGADA>12000<",
		"<NUMIDREMITENTE>900<",
		"<NUMIDDESTINATARIO>800<",
		"<HORASPACTOCARGA>2<",
		"<FECHACITAPACTADACARGUE>19/04/2025<",
		"<HORACITAPACTADACARGUE>08:30<",
	}
	last := -1
	for _, tag := range order {
		idx := strings.Index(out, tag)
		require.NotEqual(t, -1, idx, tag)
		assert.Greater(t, idx, last, tag)
		last = idx
	}
	// empty optional elements are left out
	assert.NotContains(t, out, "<MINUTOSPACTOCARGA>")
}

func TestRender_ManifiestoNestsRemesas(t *testing.T) {
	out, err := Render(documents.Manifiesto{NumManifiesto: "M-1", Remesas: []string{"R1", "R2"}}, testConfig)
	require.NoError(t, err)
	assert.Contains(t, out, "<tipo>1</tipo><procesoid>4</procesoid>")
	assert.Contains(t, out, "<REMESASMAN><REMESA><CONSECUTIVOREMESA>R1</CONSECUTIVOREMESA></REMESA><REMESA><CONSECUTIVOREMESA>R2</CONSECUTIVOREMESA></REMESA></REMESASMAN>")
}

func TestRender_EscapesReservedCharacters(t *testing.T) {
	cfg := testConfig
	cfg.Password = `p&"<'>`
	rec := documents.CumplidoManifiesto{
		NumManifiesto:          "M-1",
		TipoCumplido:           "C",
		FechaEntregaDocumentos: "2025-02-03",
		Observaciones:          `Carga <frágil> & "sellada" d'origen`,
	}
	out, err := Render(rec, cfg)
	require.NoError(t, err)

	assert.Contains(t, out, "<password>p&amp;&quot;&lt;&apos;&gt;</password>")
	assert.Contains(t, out, "Carga &lt;frágil&gt; &amp; &quot;sellada&quot; d&apos;origen")
	wellFormed(t, out)

	var env struct {
		Body struct {
			Call struct {
				Request struct {
					Root struct {
						Acceso struct {
							Password string `xml:"password"`
						} `xml:"acceso"`
						Variables struct {
							Observaciones string `xml:"OBSERVACIONES"`
						} `xml:"variables"`
					} `xml:"root"`
				} `xml:"Request"`
			} `xml:"AtenderMensajeRNDC"`
		} `xml:"Body"`
	}
	require.NoError(t, xml.Unmarshal([]byte(out), &env))
	assert.Equal(t, `p&"<'>`, env.Body.Call.Request.Root.Acceso.Password)
	assert.Equal(t, `Carga <frágil> & "sellada" d'origen`, env.Body.Call.Request.Root.Variables.Observaciones)

	rec.Observaciones = "sellado\x0bok\x01\tfin\r\n\uFFFE"
	out, err = Render(rec, cfg)
	require.NoError(t, err)
	wellFormed(t, out)
	assert.Contains(t, out, "<OBSERVACIONES>selladook\tfin\r\n</OBSERVACIONES>")
}

func TestRender_InvalidDateIsRenderError(t *testing.T) {
	_, err := Render(documents.CumplidoRemesa{ConsecutivoRemesa: "R1", FechaLlegadaCargue: "pronto"}, testConfig)
	require.Error(t, err)

	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, "FECHALLEGADACARGUE", renderErr.Element)
	assert.Equal(t, documents.TypeCumplidoRemesa, renderErr.DocumentType)
}

func TestRender_ProcessIDs(t *testing.T) {
	cases := map[documents.DocumentType]int{
		documents.TypeRemesa:             3,
		documents.TypeManifiesto:         4,
		documents.TypeCumplidoRemesa:     5,
		documents.TypeCumplidoManifiesto: 6,
	}
	for dt, want := range cases {
		got, err := ProcessID(dt)
		require.NoError(t, err)
		assert.Equal(t, want, got, dt)
	}
	_, err := ProcessID("factura")
	assert.Error(t, err)
}

func TestRenderConsulta(t *testing.T) {
	out, err := RenderConsulta(Consulta{
		ProcesoID: 3,
		Variables: []string{"ingresoid", "fechaing"},
		Documento: map[string]string{"NUMIDREMITENTE": "900", "consecutivoremesa": "R&1"},
	}, testConfig)
	require.NoError(t, err)

	assert.Contains(t, out, "<tipo>3</tipo><procesoid>3</procesoid>")
	assert.Contains(t, out, "<variables>INGRESOID,FECHAING</variables>")
	assert.Contains(t, out, "<documento><NUMNITEMPRESATRANSPORTE>123</NUMNITEMPRESATRANSPORTE><CONSECUTIVOREMESA>R&amp;1</CONSECUTIVOREMESA><NUMIDREMITENTE>900</NUMIDREMITENTE></documento>")
	wellFormed(t, out)

	_, err = RenderConsulta(Consulta{ProcesoID: 3, Documento: map[string]string{"bad name": "x"}}, testConfig)
	assert.Error(t, err)

	_, err = RenderConsulta(Consulta{}, testConfig)
	assert.Error(t, err)
}
