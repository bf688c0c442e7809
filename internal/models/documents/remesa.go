package documents

import "despachos/rndc-gateway/internal/validation"

// Remesa is a consignment note (RNDC process 3).
type Remesa struct {
	ConsecutivoRemesa        string   `json:"consecutivo_remesa"`
	CodOperacionTransporte   string   `json:"cod_operacion_transporte"`
	CodNaturalezaCarga       string   `json:"cod_naturaleza_carga"`
	CantidadCargada          *float64 `json:"cantidad_cargada"`
	UnidadMedidaCapacidad    string   `json:"unidad_medida_capacidad"`
	CodTipoEmpaque           string   `json:"cod_tipo_empaque"`
	MercanciaRemesa          string   `json:"mercancia_remesa"`
	DescripcionCortaProducto string   `json:"descripcion_corta_producto"`

	CodTipoIDRemitente    string `json:"cod_tipo_id_remitente"`
	NumIDRemitente        string `json:"num_id_remitente"`
	CodSedeRemitente      string `json:"cod_sede_remitente"`
	CodTipoIDDestinatario string `json:"cod_tipo_id_destinatario"`
	NumIDDestinatario     string `json:"num_id_destinatario"`
	CodSedeDestinatario   string `json:"cod_sede_destinatario"`

	DuenoPoliza            string `json:"dueno_poliza"`
	NumPolizaTransporte    string `json:"num_poliza_transporte"`
	FechaVencimientoPoliza string `json:"fecha_vencimiento_poliza"`
	CompaniaSeguro         string `json:"compania_seguro"`
	CodTipoIDPropietario   string `json:"cod_tipo_id_propietario"`
	NumIDPropietario       string `json:"num_id_propietario"`
	CodSedePropietario     string `json:"cod_sede_propietario"`

	HorasPactoCarga       *int64 `json:"horas_pacto_carga"`
	MinutosPactoCarga     *int64 `json:"minutos_pacto_carga"`
	FechaCitaCargue       string `json:"fecha_cita_cargue"`
	HoraCitaCargue        string `json:"hora_cita_cargue"`
	HorasPactoDescargue   *int64 `json:"horas_pacto_descargue"`
	MinutosPactoDescargue *int64 `json:"minutos_pacto_descargue"`
	FechaCitaDescargue    string `json:"fecha_cita_descargue"`
	HoraCitaDescargue     string `json:"hora_cita_descargue"`
}

func (r Remesa) DocumentType() DocumentType { return TypeRemesa }
func (r Remesa) Consecutivo() string        { return r.ConsecutivoRemesa }
func (r Remesa) Placa() string              { return "" }

// RemesaSchema accepts both the snake_case column names and the RNDC element
// names as headers.
var RemesaSchema = validation.Schema{
	Name: "remesa",
	Fields: []validation.Field{
		{Name: "consecutivo_remesa", Required: true, Kind: validation.Identifier, Aliases: []string{"CONSECUTIVOREMESA", "consecutivo"}, MaxLen: 20},
		{Name: "cod_operacion_transporte", Required: true, Kind: validation.Identifier, Aliases: []string{"CODOPERACIONTRANSPORTE"}},
		{Name: "cod_naturaleza_carga", Kind: validation.Identifier, Aliases: []string{"CODNATURALEZACARGA"}},
		{Name: "cantidad_cargada", Required: true, Kind: validation.Float, Aliases: []string{"CANTIDADCARGADA"}},
		{Name: "unidad_medida_capacidad", Kind: validation.Identifier, Aliases: []string{"UNIDADMEDIDACAPACIDAD"}},
		{Name: "cod_tipo_empaque", Kind: validation.Identifier, Aliases: []string{"CODTIPOEMPAQUE"}},
		{Name: "mercancia_remesa", Kind: validation.Identifier, Aliases: []string{"MERCANCIAREMESA"}},
		{Name: "descripcion_corta_producto", Kind: validation.String, Aliases: []string{"DESCRIPCIONCORTAPRODUCTO"}, MaxLen: 60},
		{Name: "cod_tipo_id_remitente", Kind: validation.Identifier, Aliases: []string{"CODTIPOIDREMITENTE"}},
		{Name: "num_id_remitente", Required: true, Kind: validation.Identifier, Aliases: []string{"NUMIDREMITENTE"}},
		{Name: "cod_sede_remitente", Kind: validation.Identifier, Aliases: []string{"CODSEDEREMITENTE"}},
		{Name: "cod_tipo_id_destinatario", Kind: validation.Identifier, Aliases: []string{"CODTIPOIDDESTINATARIO"}},
		{Name: "num_id_destinatario", Required: true, Kind: validation.Identifier, Aliases: []string{"NUMIDDESTINATARIO"}},
		{Name: "cod_sede_destinatario", Kind: validation.Identifier, Aliases: []string{"CODSEDEDESTINATARIO"}},
		{Name: "dueno_poliza", Kind: validation.Identifier, Aliases: []string{"DUENOPOLIZA"}},
		{Name: "num_poliza_transporte", Kind: validation.Identifier, Aliases: []string{"NUMPOLIZATRANSPORTE"}},
		{Name: "fecha_vencimiento_poliza", Kind: validation.Date, Aliases: []string{"FECHAVENCIMIENTOPOLIZACARGA"}},
		{Name: "compania_seguro", Kind: validation.Identifier, Aliases: []string{"COMPANIASEGURO"}},
		{Name: "cod_tipo_id_propietario", Kind: validation.Identifier, Aliases: []string{"CODTIPOIDPROPIETARIO"}},
		{Name: "num_id_propietario", Kind: validation.Identifier, Aliases: []string{"NUMIDPROPIETARIO"}},
		{Name: "cod_sede_propietario", Kind: validation.Identifier, Aliases: []string{"CODSEDEPROPIETARIO"}},
		{Name: "horas_pacto_carga", Kind: validation.Int, Aliases: []string{"HORASPACTOCARGA"}},
		{Name: "minutos_pacto_carga", Kind: validation.Int, Aliases: []string{"MINUTOSPACTOCARGA"}},
		{Name: "fecha_cita_cargue", Required: true, Kind: validation.Date, Aliases: []string{"FECHA_CITA", "FECHACITAPACTADACARGUE"}},
		{Name: "hora_cita_cargue", Kind: validation.Time, Aliases: []string{"HORA_CITA", "HORACITAPACTADACARGUE"}},
		{Name: "horas_pacto_descargue", Kind: validation.Int, Aliases: []string{"HORASPACTODESCARGUE"}},
		{Name: "minutos_pacto_descargue", Kind: validation.Int, Aliases: []string{"MINUTOSPACTODESCARGUE"}},
		{Name: "fecha_cita_descargue", Kind: validation.Date, Aliases: []string{"FECHACITAPACTADADESCARGUE"}},
		{Name: "hora_cita_descargue", Kind: validation.Time, Aliases: []string{"HORACITAPACTADADESCARGUEREMESA"}},
	},
}

// MapRemesa builds a Remesa from validated values.
func MapRemesa(v validation.Values) Remesa {
	return Remesa{
		ConsecutivoRemesa:        v.String("consecutivo_remesa"),
		CodOperacionTransporte:   v.String("cod_operacion_transporte"),
		CodNaturalezaCarga:       v.String("cod_naturaleza_carga"),
		CantidadCargada:          v.Float("cantidad_cargada"),
		UnidadMedidaCapacidad:    v.String("unidad_medida_capacidad"),
		CodTipoEmpaque:           v.String("cod_tipo_empaque"),
		MercanciaRemesa:          v.String("mercancia_remesa"),
		DescripcionCortaProducto: v.String("descripcion_corta_producto"),
		CodTipoIDRemitente:       v.String("cod_tipo_id_remitente"),
		NumIDRemitente:           v.String("num_id_remitente"),
		CodSedeRemitente:         v.String("cod_sede_remitente"),
		CodTipoIDDestinatario:    v.String("cod_tipo_id_destinatario"),
		NumIDDestinatario:        v.String("num_id_destinatario"),
		CodSedeDestinatario:      v.String("cod_sede_destinatario"),
		DuenoPoliza:              v.String("dueno_poliza"),
		NumPolizaTransporte:      v.String("num_poliza_transporte"),
		FechaVencimientoPoliza:   v.String("fecha_vencimiento_poliza"),
		CompaniaSeguro:           v.String("compania_seguro"),
		CodTipoIDPropietario:     v.String("cod_tipo_id_propietario"),
		NumIDPropietario:         v.String("num_id_propietario"),
		CodSedePropietario:       v.String("cod_sede_propietario"),
		HorasPactoCarga:          v.Int("horas_pacto_carga"),
		MinutosPactoCarga:        v.Int("minutos_pacto_carga"),
		FechaCitaCargue:          v.String("fecha_cita_cargue"),
		HoraCitaCargue:           v.String("hora_cita_cargue"),
		HorasPactoDescargue:      v.Int("horas_pacto_descargue"),
		MinutosPactoDescargue:    v.Int("minutos_pacto_descargue"),
		FechaCitaDescargue:       v.String("fecha_cita_descargue"),
		HoraCitaDescargue:        v.String("hora_cita_descargue"),
	}
}
