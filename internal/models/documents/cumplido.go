package documents

import "despachos/rndc-gateway/internal/validation"

// CumplidoRemesa confirms delivery of a remesa (RNDC process 5).
type CumplidoRemesa struct {
	ConsecutivoRemesa     string   `json:"consecutivo_remesa"`
	NumManifiesto         string   `json:"num_manifiesto"`
	TipoCumplido          string   `json:"tipo_cumplido"`
	CantidadCargada       *float64 `json:"cantidad_cargada"`
	CantidadEntregada     *float64 `json:"cantidad_entregada"`
	UnidadMedidaCapacidad string   `json:"unidad_medida_capacidad"`

	FechaLlegadaCargue    string `json:"fecha_llegada_cargue"`
	HoraLlegadaCargue     string `json:"hora_llegada_cargue"`
	FechaEntradaCargue    string `json:"fecha_entrada_cargue"`
	HoraEntradaCargue     string `json:"hora_entrada_cargue"`
	FechaSalidaCargue     string `json:"fecha_salida_cargue"`
	HoraSalidaCargue      string `json:"hora_salida_cargue"`
	FechaLlegadaDescargue string `json:"fecha_llegada_descargue"`
	HoraLlegadaDescargue  string `json:"hora_llegada_descargue"`
	FechaEntradaDescargue string `json:"fecha_entrada_descargue"`
	HoraEntradaDescargue  string `json:"hora_entrada_descargue"`
	FechaSalidaDescargue  string `json:"fecha_salida_descargue"`
	HoraSalidaDescargue   string `json:"hora_salida_descargue"`
}

func (c CumplidoRemesa) DocumentType() DocumentType { return TypeCumplidoRemesa }
func (c CumplidoRemesa) Consecutivo() string        { return c.ConsecutivoRemesa }
func (c CumplidoRemesa) Placa() string              { return "" }

var CumplidoRemesaSchema = validation.Schema{
	Name: "cumplimiento",
	Fields: []validation.Field{
		{Name: "consecutivo_remesa", Required: true, Kind: validation.Identifier, Aliases: []string{"CONSECUTIVOREMESA", "consecutivo"}, MaxLen: 20},
		{Name: "num_manifiesto", Kind: validation.Identifier, Aliases: []string{"NUMMANIFIESTOCARGA", "manifiesto"}},
		{Name: "tipo_cumplido", Required: true, Kind: validation.Identifier, Aliases: []string{"TIPOCUMPLIDOREMESA"}, MaxLen: 1},
		{Name: "cantidad_cargada", Kind: validation.Float, Aliases: []string{"CANTIDADCARGADA"}},
		{Name: "cantidad_entregada", Required: true, Kind: validation.Float, Aliases: []string{"CANTIDADENTREGADA"}},
		{Name: "unidad_medida_capacidad", Kind: validation.Identifier, Aliases: []string{"UNIDADMEDIDACAPACIDAD"}},
		{Name: "fecha_llegada_cargue", Required: true, Kind: validation.Date, Aliases: []string{"FECHALLEGADACARGUE"}},
		{Name: "hora_llegada_cargue", Required: true, Kind: validation.Time, Aliases: []string{"HORALLEGADACARGUEREMESA"}},
		{Name: "fecha_entrada_cargue", Kind: validation.Date, Aliases: []string{"FECHAENTRADACARGUE"}},
		{Name: "hora_entrada_cargue", Kind: validation.Time, Aliases: []string{"HORAENTRADACARGUEREMESA"}},
		{Name: "fecha_salida_cargue", Kind: validation.Date, Aliases: []string{"FECHASALIDACARGUE"}},
		{Name: "hora_salida_cargue", Kind: validation.Time, Aliases: []string{"HORASALIDACARGUEREMESA"}},
		{Name: "fecha_llegada_descargue", Required: true, Kind: validation.Date, Aliases: []string{"FECHALLEGADADESCARGUE"}},
		{Name: "hora_llegada_descargue", Required: true, Kind: validation.Time, Aliases: []string{"HORALLEGADADESCARGUECUMPLIDO"}},
		{Name: "fecha_entrada_descargue", Kind: validation.Date, Aliases: []string{"FECHAENTRADADESCARGUE"}},
		{Name: "hora_entrada_descargue", Kind: validation.Time, Aliases: []string{"HORAENTRADADESCARGUECUMPLIDO"}},
		{Name: "fecha_salida_descargue", Kind: validation.Date, Aliases: []string{"FECHASALIDADESCARGUE"}},
		{Name: "hora_salida_descargue", Kind: validation.Time, Aliases: []string{"HORASALIDADESCARGUECUMPLIDO"}},
	},
}

func MapCumplidoRemesa(v validation.Values) CumplidoRemesa {
	return CumplidoRemesa{
		ConsecutivoRemesa:     v.String("consecutivo_remesa"),
		NumManifiesto:         v.String("num_manifiesto"),
		TipoCumplido:          v.String("tipo_cumplido"),
		CantidadCargada:       v.Float("cantidad_cargada"),
		CantidadEntregada:     v.Float("cantidad_entregada"),
		UnidadMedidaCapacidad: v.String("unidad_medida_capacidad"),
		FechaLlegadaCargue:    v.String("fecha_llegada_cargue"),
		HoraLlegadaCargue:     v.String("hora_llegada_cargue"),
		FechaEntradaCargue:    v.String("fecha_entrada_cargue"),
		HoraEntradaCargue:     v.String("hora_entrada_cargue"),
		FechaSalidaCargue:     v.String("fecha_salida_cargue"),
		HoraSalidaCargue:      v.String("hora_salida_cargue"),
		FechaLlegadaDescargue: v.String("fecha_llegada_descargue"),
		HoraLlegadaDescargue:  v.String("hora_llegada_descargue"),
		FechaEntradaDescargue: v.String("fecha_entrada_descargue"),
		HoraEntradaDescargue:  v.String("hora_entrada_descargue"),
		FechaSalidaDescargue:  v.String("fecha_salida_descargue"),
		HoraSalidaDescargue:   v.String("hora_salida_descargue"),
	}
}

// CumplidoManifiesto closes a manifiesto once its trip is settled (RNDC process 6).
type CumplidoManifiesto struct {
	NumManifiesto                string   `json:"num_manifiesto"`
	TipoCumplido                 string   `json:"tipo_cumplido"`
	FechaEntregaDocumentos       string   `json:"fecha_entrega_documentos"`
	ValorAdicionalHorasCargue    *float64 `json:"valor_adicional_horas_cargue"`
	ValorAdicionalHorasDescargue *float64 `json:"valor_adicional_horas_descargue"`
	ValorAdicionalFlete          *float64 `json:"valor_adicional_flete"`
	MotivoValorAdicional         string   `json:"motivo_valor_adicional"`
	ValorDescuentoFlete          *float64 `json:"valor_descuento_flete"`
	MotivoValorDescuento         string   `json:"motivo_valor_descuento"`
	ValorSobreAnticipo           *float64 `json:"valor_sobre_anticipo"`
	Observaciones                string   `json:"observaciones"`
}

func (c CumplidoManifiesto) DocumentType() DocumentType { return TypeCumplidoManifiesto }
func (c CumplidoManifiesto) Consecutivo() string        { return c.NumManifiesto }
func (c CumplidoManifiesto) Placa() string              { return "" }

var CumplidoManifiestoSchema = validation.Schema{
	Name: "cumplimiento-manifiesto",
	Fields: []validation.Field{
		{Name: "num_manifiesto", Required: true, Kind: validation.Identifier, Aliases: []string{"NUMMANIFIESTOCARGA", "manifiesto"}, MaxLen: 20},
		{Name: "tipo_cumplido", Required: true, Kind: validation.Identifier, Aliases: []string{"TIPOCUMPLIDOMANIFIESTO"}, MaxLen: 1},
		{Name: "fecha_entrega_documentos", Required: true, Kind: validation.Date, Aliases: []string{"FECHAENTREGADOCUMENTOS"}},
		{Name: "valor_adicional_horas_cargue", Kind: validation.Float, Aliases: []string{"VALORADICIONALHORASCARGUE"}},
		{Name: "valor_adicional_horas_descargue", Kind: validation.Float, Aliases: []string{"VALORADICIONALHORASDESCARGUE"}},
		{Name: "valor_adicional_flete", Kind: validation.Float, Aliases: []string{"VALORADICIONALFLETE"}},
		{Name: "motivo_valor_adicional", Kind: validation.Identifier, Aliases: []string{"MOTIVOVALORADICIONAL"}},
		{Name: "valor_descuento_flete", Kind: validation.Float, Aliases: []string{"VALORDESCUENTOFLETE"}},
		{Name: "motivo_valor_descuento", Kind: validation.Identifier, Aliases: []string{"MOTIVOVALORDESCUENTOMANIFIESTO"}},
		{Name: "valor_sobre_anticipo", Kind: validation.Float, Aliases: []string{"VALORSOBREANTICIPO"}},
		{Name: "observaciones", Kind: validation.String, Aliases: []string{"OBSERVACIONES"}, MaxLen: 200},
	},
}

func MapCumplidoManifiesto(v validation.Values) CumplidoManifiesto {
	return CumplidoManifiesto{
		NumManifiesto:                v.String("num_manifiesto"),
		TipoCumplido:                 v.String("tipo_cumplido"),
		FechaEntregaDocumentos:       v.String("fecha_entrega_documentos"),
		ValorAdicionalHorasCargue:    v.Float("valor_adicional_horas_cargue"),
		ValorAdicionalHorasDescargue: v.Float("valor_adicional_horas_descargue"),
		ValorAdicionalFlete:          v.Float("valor_adicional_flete"),
		MotivoValorAdicional:         v.String("motivo_valor_adicional"),
		ValorDescuentoFlete:          v.Float("valor_descuento_flete"),
		MotivoValorDescuento:         v.String("motivo_valor_descuento"),
		ValorSobreAnticipo:           v.Float("valor_sobre_anticipo"),
		Observaciones:                v.String("observaciones"),
	}
}
