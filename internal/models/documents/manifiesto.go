package documents

import (
	"strings"

	"despachos/rndc-gateway/internal/validation"
)

// Manifiesto is a trip manifest (RNDC process 4) covering one or more remesas.
type Manifiesto struct {
	NumManifiesto            string   `json:"num_manifiesto"`
	CodOperacionTransporte   string   `json:"cod_operacion_transporte"`
	FechaExpedicion          string   `json:"fecha_expedicion"`
	CodMunicipioOrigen       string   `json:"cod_municipio_origen"`
	CodMunicipioDestino      string   `json:"cod_municipio_destino"`
	CodTipoIDTitular         string   `json:"cod_tipo_id_titular"`
	NumIDTitular             string   `json:"num_id_titular"`
	NumPlaca                 string   `json:"placa"`
	NumPlacaRemolque         string   `json:"placa_remolque"`
	CodTipoIDConductor       string   `json:"cod_tipo_id_conductor"`
	NumIDConductor           string   `json:"num_id_conductor"`
	ValorFlete               *float64 `json:"valor_flete"`
	RetencionICA             *float64 `json:"retencion_ica"`
	ValorAnticipo            *float64 `json:"valor_anticipo"`
	CodMunicipioPagoSaldo    string   `json:"cod_municipio_pago_saldo"`
	FechaPagoSaldo           string   `json:"fecha_pago_saldo"`
	ResponsablePagoCargue    string   `json:"responsable_pago_cargue"`
	ResponsablePagoDescargue string   `json:"responsable_pago_descargue"`
	Observaciones            string   `json:"observaciones"`
	Remesas                  []string `json:"remesas"`
}

func (m Manifiesto) DocumentType() DocumentType { return TypeManifiesto }
func (m Manifiesto) Consecutivo() string        { return m.NumManifiesto }
func (m Manifiesto) Placa() string              { return m.NumPlaca }

var ManifiestoSchema = validation.Schema{
	Name: "manifiesto",
	Fields: []validation.Field{
		{Name: "num_manifiesto", Required: true, Kind: validation.Identifier, Aliases: []string{"NUMMANIFIESTOCARGA", "manifiesto"}, MaxLen: 20},
		{Name: "cod_operacion_transporte", Required: true, Kind: validation.Identifier, Aliases: []string{"CODOPERACIONTRANSPORTE"}},
		{Name: "fecha_expedicion", Required: true, Kind: validation.Date, Aliases: []string{"FECHAEXPEDICIONMANIFIESTO"}},
		{Name: "cod_municipio_origen", Required: true, Kind: validation.Identifier, Aliases: []string{"CODMUNICIPIOORIGENMANIFIESTO", "origen"}},
		{Name: "cod_municipio_destino", Required: true, Kind: validation.Identifier, Aliases: []string{"CODMUNICIPIODESTINOMANIFIESTO", "destino"}},
		{Name: "cod_tipo_id_titular", Kind: validation.Identifier, Aliases: []string{"CODIDTITULARMANIFIESTO"}},
		{Name: "num_id_titular", Required: true, Kind: validation.Identifier, Aliases: []string{"NUMIDTITULARMANIFIESTO"}},
		{Name: "placa", Required: true, Kind: validation.Identifier, Aliases: []string{"NUMPLACA"}, MaxLen: 6},
		{Name: "placa_remolque", Kind: validation.Identifier, Aliases: []string{"NUMPLACAREMOLQUE"}, MaxLen: 6},
		{Name: "cod_tipo_id_conductor", Kind: validation.Identifier, Aliases: []string{"CODIDCONDUCTOR"}},
		{Name: "num_id_conductor", Required: true, Kind: validation.Identifier, Aliases: []string{"NUMIDCONDUCTOR"}},
		{Name: "valor_flete", Required: true, Kind: validation.Float, Aliases: []string{"VALORFLETEPACTADOVIAJE"}},
		{Name: "retencion_ica", Kind: validation.Float, Aliases: []string{"RETENCIONICAMANIFIESTOCARGA"}},
		{Name: "valor_anticipo", Kind: validation.Float, Aliases: []string{"VALORANTICIPOMANIFIESTO"}},
		{Name: "cod_municipio_pago_saldo", Kind: validation.Identifier, Aliases: []string{"CODMUNICIPIOPAGOSALDO"}},
		{Name: "fecha_pago_saldo", Kind: validation.Date, Aliases: []string{"FECHAPAGOSALDOMANIFIESTO"}},
		{Name: "responsable_pago_cargue", Kind: validation.Identifier, Aliases: []string{"CODRESPONSABLEPAGOCARGUE"}},
		{Name: "responsable_pago_descargue", Kind: validation.Identifier, Aliases: []string{"CODRESPONSABLEPAGODESCARGUE"}},
		{Name: "observaciones", Kind: validation.String, Aliases: []string{"OBSERVACIONES"}, MaxLen: 200},
		{Name: "remesas", Required: true, Kind: validation.Identifier, Aliases: []string{"REMESASMAN"}},
	},
}

// MapManifiesto builds a Manifiesto from validated values. The remesas column
// holds consecutivos separated by ";", "|" or whitespace.
func MapManifiesto(v validation.Values) Manifiesto {
	return Manifiesto{
		NumManifiesto:            v.String("num_manifiesto"),
		CodOperacionTransporte:   v.String("cod_operacion_transporte"),
		FechaExpedicion:          v.String("fecha_expedicion"),
		CodMunicipioOrigen:       v.String("cod_municipio_origen"),
		CodMunicipioDestino:      v.String("cod_municipio_destino"),
		CodTipoIDTitular:         v.String("cod_tipo_id_titular"),
		NumIDTitular:             v.String("num_id_titular"),
		NumPlaca:                 v.String("placa"),
		NumPlacaRemolque:         v.String("placa_remolque"),
		CodTipoIDConductor:       v.String("cod_tipo_id_conductor"),
		NumIDConductor:           v.String("num_id_conductor"),
		ValorFlete:               v.Float("valor_flete"),
		RetencionICA:             v.Float("retencion_ica"),
		ValorAnticipo:            v.Float("valor_anticipo"),
		CodMunicipioPagoSaldo:    v.String("cod_municipio_pago_saldo"),
		FechaPagoSaldo:           v.String("fecha_pago_saldo"),
		ResponsablePagoCargue:    v.String("responsable_pago_cargue"),
		ResponsablePagoDescargue: v.String("responsable_pago_descargue"),
		Observaciones:            v.String("observaciones"),
		Remesas:                  splitList(v.String("remesas")),
	}
}

func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ';' || r == '|' || r == ' ' || r == '\t'
	})
}
