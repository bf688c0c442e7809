package rndc

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"despachos/rndc-gateway/internal/models/documents"
	"despachos/rndc-gateway/internal/validation"
)

const (
	soapEnvelopeNS = "http://schemas.xmlsoap.org/soap/envelope/"
	rndcServiceNS  = "urn:BPMServicesIntf-IBPMServices"

	// SOAPAction of the single RPC the RNDC service exposes.
	SOAPAction = rndcServiceNS + "#AtenderMensajeRNDC"
)

// Request types of the <solicitud> block.
const (
	TipoRegistro = 1
	TipoConsulta = 3
)

// RNDC process ids.
const (
	ProcesoRemesa             = 3
	ProcesoManifiesto         = 4
	ProcesoCumplidoRemesa     = 5
	ProcesoCumplidoManifiesto = 6
)

// ProcessID returns the RNDC process that registers a document type.
func ProcessID(t documents.DocumentType) (int, error) {
	switch t {
	case documents.TypeRemesa:
		return ProcesoRemesa, nil
	case documents.TypeManifiesto:
		return ProcesoManifiesto, nil
	case documents.TypeCumplidoRemesa:
		return ProcesoCumplidoRemesa, nil
	case documents.TypeCumplidoManifiesto:
		return ProcesoCumplidoManifiesto, nil
	default:
		return 0, fmt.Errorf("no RNDC process for document type %q", t)
	}
}

// RenderError reports a record that could not be turned into XML.
type RenderError struct {
	DocumentType documents.DocumentType
	Element      string
	Reason       string
}

func (e *RenderError) Error() string {
	if e.Element == "" {
		return fmt.Sprintf("render %s: %s", e.DocumentType, e.Reason)
	}
	return fmt.Sprintf("render %s: %s: %s", e.DocumentType, e.Element, e.Reason)
}

// element is one node of the <variables> block. Empty leaves are omitted.
type element struct {
	name     string
	value    string
	children []element
}

// variables accumulates elements in schema order and remembers the first
// conversion failure.
type variables struct {
	docType documents.DocumentType
	elems   []element
	err     error
}

func (v *variables) text(name, value string) {
	v.elems = append(v.elems, element{name: name, value: value})
}

func (v *variables) date(name, iso string) {
	if iso == "" {
		v.text(name, "")
		return
	}
	d, err := validation.ParseDate(iso)
	if err != nil {
		if v.err == nil {
			v.err = &RenderError{DocumentType: v.docType, Element: name, Reason: fmt.Sprintf("unparsable date %q", iso)}
		}
		return
	}
	v.text(name, d.Format("02/01/2006"))
}

func (v *variables) float(name string, f *float64) {
	if f == nil {
		v.text(name, "")
		return
	}
	v.text(name, strconv.FormatFloat(*f, 'f', -1, 64))
}

func (v *variables) int(name string, i *int64) {
	if i == nil {
		v.text(name, "")
		return
	}
	v.text(name, strconv.FormatInt(*i, 10))
}

func (v *variables) group(name string, children []element) {
	v.elems = append(v.elems, element{name: name, children: children})
}

// Render builds the SOAP envelope registering one document. Element names and
// order follow the RNDC schema of the record's process. The output is a pure
// function of its inputs.
func Render(rec documents.Record, cfg Config) (string, error) {
	if rec == nil {
		return "", &RenderError{Reason: "nil record"}
	}
	vars := &variables{docType: rec.DocumentType()}
	vars.text("NUMNITEMPRESATRANSPORTE", cfg.EmpresaNIT)

	switch r := rec.(type) {
	case documents.Remesa:
		remesaVariables(vars, r)
	case *documents.Remesa:
		remesaVariables(vars, *r)
	case documents.Manifiesto:
		manifiestoVariables(vars, r)
	case *documents.Manifiesto:
		manifiestoVariables(vars, *r)
	case documents.CumplidoRemesa:
		cumplidoRemesaVariables(vars, r)
	case *documents.CumplidoRemesa:
		cumplidoRemesaVariables(vars, *r)
	case documents.CumplidoManifiesto:
		cumplidoManifiestoVariables(vars, r)
	case *documents.CumplidoManifiesto:
		cumplidoManifiestoVariables(vars, *r)
	default:
		return "", &RenderError{DocumentType: rec.DocumentType(), Reason: fmt.Sprintf("unsupported record %T", rec)}
	}
	if vars.err != nil {
		return "", vars.err
	}

	proceso, err := ProcessID(rec.DocumentType())
	if err != nil {
		return "", &RenderError{DocumentType: rec.DocumentType(), Reason: err.Error()}
	}

	var body strings.Builder
	body.WriteString("<variables>")
	writeElements(&body, vars.elems)
	body.WriteString("</variables>")
	return envelope(cfg, TipoRegistro, proceso, body.String()), nil
}

func remesaVariables(v *variables, r documents.Remesa) {
	v.text("CONSECUTIVOREMESA", r.ConsecutivoRemesa)
	v.text("CODOPERACIONTRANSPORTE", r.CodOperacionTransporte)
	v.text("CODNATURALEZACARGA", r.CodNaturalezaCarga)
	v.float("CANTIDADCARGADA", r.CantidadCargada)
	v.text("UNIDADMEDIDACAPACIDAD", r.UnidadMedidaCapacidad)
	v.text("CODTIPOEMPAQUE", r.CodTipoEmpaque)
	v.text("MERCANCIAREMESA", r.MercanciaRemesa)
	v.text("DESCRIPCIONCORTAPRODUCTO", r.DescripcionCortaProducto)
	v.text("CODTIPOIDREMITENTE", r.CodTipoIDRemitente)
	v.text("NUMIDREMITENTE", r.NumIDRemitente)
	v.text("CODSEDEREMITENTE", r.CodSedeRemitente)
	v.text("CODTIPOIDDESTINATARIO", r.CodTipoIDDestinatario)
	v.text("NUMIDDESTINATARIO", r.NumIDDestinatario)
	v.text("CODSEDEDESTINATARIO", r.CodSedeDestinatario)
	v.text("DUENOPOLIZA", r.DuenoPoliza)
	v.text("NUMPOLIZATRANSPORTE", r.NumPolizaTransporte)
	v.date("FECHAVENCIMIENTOPOLIZACARGA", r.FechaVencimientoPoliza)
	v.text("COMPANIASEGURO", r.CompaniaSeguro)
	v.text("CODTIPOIDPROPIETARIO", r.CodTipoIDPropietario)
	v.text("NUMIDPROPIETARIO", r.NumIDPropietario)
	v.text("CODSEDEPROPIETARIO", r.CodSedePropietario)
	v.int("HORASPACTOCARGA", r.HorasPactoCarga)
	v.int("MINUTOSPACTOCARGA", r.MinutosPactoCarga)
	v.date("FECHACITAPACTADACARGUE", r.FechaCitaCargue)
	v.text("HORACITAPACTADACARGUE", r.HoraCitaCargue)
	v.int("HORASPACTODESCARGUE", r.HorasPactoDescargue)
	v.int("MINUTOSPACTODESCARGUE", r.MinutosPactoDescargue)
	v.date("FECHACITAPACTADADESCARGUE", r.FechaCitaDescargue)
	v.text("HORACITAPACTADADESCARGUEREMESA", r.HoraCitaDescargue)
}

func manifiestoVariables(v *variables, m documents.Manifiesto) {
	v.text("NUMMANIFIESTOCARGA", m.NumManifiesto)
	v.text("CODOPERACIONTRANSPORTE", m.CodOperacionTransporte)
	v.date("FECHAEXPEDICIONMANIFIESTO", m.FechaExpedicion)
	v.text("CODMUNICIPIOORIGENMANIFIESTO", m.CodMunicipioOrigen)
	v.text("CODMUNICIPIODESTINOMANIFIESTO", m.CodMunicipioDestino)
	v.text("CODIDTITULARMANIFIESTO", m.CodTipoIDTitular)
	v.text("NUMIDTITULARMANIFIESTO", m.NumIDTitular)
	v.text("NUMPLACA", m.NumPlaca)
	v.text("NUMPLACAREMOLQUE", m.NumPlacaRemolque)
	v.text("CODIDCONDUCTOR", m.CodTipoIDConductor)
	v.text("NUMIDCONDUCTOR", m.NumIDConductor)
	v.float("VALORFLETEPACTADOVIAJE", m.ValorFlete)
	v.float("RETENCIONICAMANIFIESTOCARGA", m.RetencionICA)
	v.float("VALORANTICIPOMANIFIESTO", m.ValorAnticipo)
	v.text("CODMUNICIPIOPAGOSALDO", m.CodMunicipioPagoSaldo)
	v.date("FECHAPAGOSALDOMANIFIESTO", m.FechaPagoSaldo)
	v.text("CODRESPONSABLEPAGOCARGUE", m.ResponsablePagoCargue)
	v.text("CODRESPONSABLEPAGODESCARGUE", m.ResponsablePagoDescargue)
	v.text("OBSERVACIONES", m.Observaciones)

	if len(m.Remesas) == 0 {
		return
	}
	remesas := make([]element, 0, len(m.Remesas))
	for _, consecutivo := range m.Remesas {
		remesas = append(remesas, element{
			name:     "REMESA",
			children: []element{{name: "CONSECUTIVOREMESA", value: consecutivo}},
		})
	}
	v.group("REMESASMAN", remesas)
}

func cumplidoRemesaVariables(v *variables, c documents.CumplidoRemesa) {
	v.text("CONSECUTIVOREMESA", c.ConsecutivoRemesa)
	v.text("NUMMANIFIESTOCARGA", c.NumManifiesto)
	v.text("TIPOCUMPLIDOREMESA", c.TipoCumplido)
	v.float("CANTIDADCARGADA", c.CantidadCargada)
	v.float("CANTIDADENTREGADA", c.CantidadEntregada)
	v.text("UNIDADMEDIDACAPACIDAD", c.UnidadMedidaCapacidad)
	v.date("FECHALLEGADACARGUE", c.FechaLlegadaCargue)
	v.text("HORALLEGADACARGUEREMESA", c.HoraLlegadaCargue)
	v.date("FECHAENTRADACARGUE", c.FechaEntradaCargue)
	v.text("HORAENTRADACARGUEREMESA", c.HoraEntradaCargue)
	v.date("FECHASALIDACARGUE", c.FechaSalidaCargue)
	v.text("HORASALIDACARGUEREMESA", c.HoraSalidaCargue)
	v.date("FECHALLEGADADESCARGUE", c.FechaLlegadaDescargue)
	v.text("HORALLEGADADESCARGUECUMPLIDO", c.HoraLlegadaDescargue)
	v.date("FECHAENTRADADESCARGUE", c.FechaEntradaDescargue)
	v.text("HORAENTRADADESCARGUECUMPLIDO", c.HoraEntradaDescargue)
	v.date("FECHASALIDADESCARGUE", c.FechaSalidaDescargue)
	v.text("HORASALIDADESCARGUECUMPLIDO", c.HoraSalidaDescargue)
}

func cumplidoManifiestoVariables(v *variables, c documents.CumplidoManifiesto) {
	v.text("NUMMANIFIESTOCARGA", c.NumManifiesto)
	v.text("TIPOCUMPLIDOMANIFIESTO", c.TipoCumplido)
	v.date("FECHAENTREGADOCUMENTOS", c.FechaEntregaDocumentos)
	v.float("VALORADICIONALHORASCARGUE", c.ValorAdicionalHorasCargue)
	v.float("VALORADICIONALHORASDESCARGUE", c.ValorAdicionalHorasDescargue)
	v.float("VALORADICIONALFLETE", c.ValorAdicionalFlete)
	v.text("MOTIVOVALORADICIONAL", c.MotivoValorAdicional)
	v.float("VALORDESCUENTOFLETE", c.ValorDescuentoFlete)
	v.text("MOTIVOVALORDESCUENTOMANIFIESTO", c.MotivoValorDescuento)
	v.float("VALORSOBREANTICIPO", c.ValorSobreAnticipo)
	v.text("OBSERVACIONES", c.Observaciones)
}

// Consulta asks RNDC for already registered documents of a process.
type Consulta struct {
	ProcesoID int `json:"procesoId"`
	// Variables are the element names to return.
	Variables []string `json:"variables"`
	// Documento filters the documents by element value.
	Documento map[string]string `json:"documento"`
}

// RenderConsulta builds a tipo 3 request. Filters are written in name order.
func RenderConsulta(q Consulta, cfg Config) (string, error) {
	if q.ProcesoID <= 0 {
		return "", &RenderError{Reason: "procesoId is required"}
	}
	names := make([]string, 0, len(q.Variables))
	for _, name := range q.Variables {
		name = strings.ToUpper(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if !validElementName(name) {
			return "", &RenderError{Element: name, Reason: "invalid element name"}
		}
		names = append(names, name)
	}

	filters := make([]element, 0, len(q.Documento)+1)
	for k, value := range q.Documento {
		name := strings.ToUpper(strings.TrimSpace(k))
		if !validElementName(name) {
			return "", &RenderError{Element: k, Reason: "invalid element name"}
		}
		if name == "NUMNITEMPRESATRANSPORTE" {
			continue
		}
		filters = append(filters, element{name: name, value: value})
	}
	sort.Slice(filters, func(i, j int) bool {
		if filters[i].name == filters[j].name {
			return filters[i].value < filters[j].value
		}
		return filters[i].name < filters[j].name
	})
	filters = append([]element{{name: "NUMNITEMPRESATRANSPORTE", value: cfg.EmpresaNIT}}, filters...)

	var body strings.Builder
	body.WriteString("<variables>")
	body.WriteString(escape(strings.Join(names, ",")))
	body.WriteString("</variables><documento>")
	writeElements(&body, filters)
	body.WriteString("</documento>")
	return envelope(cfg, TipoConsulta, q.ProcesoID, body.String()), nil
}

func validElementName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !(r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_') {
			return false
		}
	}
	return true
}

func envelope(cfg Config, tipo, proceso int, payload string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	b.WriteString(`<soapenv:Envelope xmlns:soapenv="` + soapEnvelopeNS + `" xmlns:urn="` + rndcServiceNS + `">`)
	b.WriteString(`<soapenv:Header/><soapenv:Body><urn:AtenderMensajeRNDC><Request><root>`)
	b.WriteString("<acceso><username>")
	b.WriteString(escape(cfg.Usuario))
	b.WriteString("</username><password>")
	b.WriteString(escape(cfg.Password))
	b.WriteString("</password></acceso>")
	fmt.Fprintf(&b, "<solicitud><tipo>%d</tipo><procesoid>%d</procesoid></solicitud>", tipo, proceso)
	b.WriteString(payload)
	b.WriteString(`</root></Request></urn:AtenderMensajeRNDC></soapenv:Body></soapenv:Envelope>`)
	return b.String()
}

func writeElements(b *strings.Builder, elems []element) {
	for _, e := range elems {
		if e.children == nil && e.value == "" {
			continue
		}
		b.WriteString("<" + e.name + ">")
		if e.children != nil {
			writeElements(b, e.children)
		} else {
			b.WriteString(escape(e.value))
		}
		b.WriteString("</" + e.name + ">")
	}
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// escape drops runes XML 1.0 cannot carry, then escapes the reserved ones.
func escape(s string) string {
	return xmlEscaper.Replace(strings.Map(xmlChar, s))
}

func xmlChar(r rune) rune {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return r
	case r < 0x20:
		return -1
	case r >= 0xD800 && r <= 0xDFFF:
		return -1
	case r == 0xFFFE || r == 0xFFFF:
		return -1
	}
	return r
}
