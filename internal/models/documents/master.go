package documents

import (
	"fmt"
	"strings"

	gormModels "despachos/rndc-gateway/internal/models/gorm"
	"despachos/rndc-gateway/internal/validation"
)

// Entity names a master-data table that can be bulk imported
type Entity string

const (
	EntityMunicipios Entity = "municipios"
	EntityVehiculos  Entity = "vehiculos"
	EntitySitios     Entity = "sitios"
	EntityTerceros   Entity = "terceros"
)

// MasterSpec binds a master-data entity to its row schema and mapper. Map
// returns a pointer to the gorm model to upsert and its key for reporting.
type MasterSpec struct {
	Entity Entity
	Schema validation.Schema
	Map    func(validation.Values) (model any, key string)
}

var masterSpecs = map[Entity]MasterSpec{
	EntityMunicipios: {
		Entity: EntityMunicipios,
		Schema: MunicipioSchema,
		Map: func(v validation.Values) (any, string) {
			m := MapMunicipio(v)
			return &m, m.Codigo
		},
	},
	EntityVehiculos: {
		Entity: EntityVehiculos,
		Schema: VehiculoSchema,
		Map: func(v validation.Values) (any, string) {
			m := MapVehiculo(v)
			return &m, m.Placa
		},
	},
	EntitySitios: {
		Entity: EntitySitios,
		Schema: SitioSchema,
		Map: func(v validation.Values) (any, string) {
			m := MapSitio(v)
			return &m, m.Codigo
		},
	},
	EntityTerceros: {
		Entity: EntityTerceros,
		Schema: TerceroSchema,
		Map: func(v validation.Values) (any, string) {
			m := MapTercero(v)
			return &m, m.NumeroIdentificacion
		},
	},
}

// LookupEntity returns the import spec for an entity name as used in URLs.
func LookupEntity(name string) (MasterSpec, error) {
	s, ok := masterSpecs[Entity(strings.ToLower(strings.TrimSpace(name)))]
	if !ok {
		return MasterSpec{}, fmt.Errorf("unknown entity %q", name)
	}
	return s, nil
}

var MunicipioSchema = validation.Schema{
	Name: "municipios",
	Fields: []validation.Field{
		{Name: "codigo", Required: true, Kind: validation.Identifier, Aliases: []string{"codigo_dane", "cod_municipio"}, MaxLen: 8},
		{Name: "nombre", Required: true, Kind: validation.String, MaxLen: 100},
		{Name: "departamento", Required: true, Kind: validation.String, MaxLen: 100},
	},
}

func MapMunicipio(v validation.Values) gormModels.Municipio {
	return gormModels.Municipio{
		Codigo:       v.String("codigo"),
		Nombre:       v.String("nombre"),
		Departamento: v.String("departamento"),
	}
}

var VehiculoSchema = validation.Schema{
	Name: "vehiculos",
	Fields: []validation.Field{
		{Name: "placa", Required: true, Kind: validation.Identifier, MaxLen: 6},
		{Name: "marca", Kind: validation.Identifier},
		{Name: "linea", Kind: validation.Identifier},
		{Name: "modelo", Kind: validation.Int},
		{Name: "color", Kind: validation.String},
		{Name: "capacidad_kg", Kind: validation.Float, Aliases: []string{"capacidad"}},
		{Name: "tipo_carroceria", Kind: validation.Identifier, Aliases: []string{"carroceria"}},
		{Name: "configuracion", Kind: validation.Identifier},
		{Name: "num_id_propietario", Kind: validation.Identifier, Aliases: []string{"propietario"}},
		{Name: "num_id_tenedor", Kind: validation.Identifier, Aliases: []string{"tenedor"}},
		{Name: "vencimiento_soat", Kind: validation.Date, Aliases: []string{"soat"}},
	},
}

func MapVehiculo(v validation.Values) gormModels.Vehiculo {
	return gormModels.Vehiculo{
		Placa:            v.String("placa"),
		Marca:            v.String("marca"),
		Linea:            v.String("linea"),
		Modelo:           v.Int("modelo"),
		Color:            v.String("color"),
		CapacidadKg:      v.Float("capacidad_kg"),
		TipoCarroceria:   v.String("tipo_carroceria"),
		Configuracion:    v.String("configuracion"),
		NumIDPropietario: v.String("num_id_propietario"),
		NumIDTenedor:     v.String("num_id_tenedor"),
		VencimientoSOAT:  v.String("vencimiento_soat"),
	}
}

var SitioSchema = validation.Schema{
	Name: "sitios",
	Fields: []validation.Field{
		{Name: "codigo", Required: true, Kind: validation.Identifier, Aliases: []string{"cod_sede"}},
		{Name: "nombre", Required: true, Kind: validation.String},
		{Name: "direccion", Kind: validation.String},
		{Name: "codigo_municipio", Required: true, Kind: validation.Identifier, Aliases: []string{"municipio"}, MaxLen: 8},
		{Name: "num_id_tercero", Kind: validation.Identifier, Aliases: []string{"nit", "tercero"}},
	},
}

func MapSitio(v validation.Values) gormModels.Sitio {
	return gormModels.Sitio{
		Codigo:          v.String("codigo"),
		Nombre:          v.String("nombre"),
		Direccion:       v.String("direccion"),
		CodigoMunicipio: v.String("codigo_municipio"),
		NumIDTercero:    v.String("num_id_tercero"),
	}
}

var TerceroSchema = validation.Schema{
	Name: "terceros",
	Fields: []validation.Field{
		{Name: "numero_identificacion", Required: true, Kind: validation.Identifier, Aliases: []string{"identificacion", "nit"}},
		{Name: "tipo_identificacion", Required: true, Kind: validation.Identifier, Aliases: []string{"tipo_id"}, MaxLen: 1},
		{Name: "nombre", Required: true, Kind: validation.String, Aliases: []string{"razon_social"}},
		{Name: "apellido", Kind: validation.String},
		{Name: "telefono", Kind: validation.String},
		{Name: "direccion", Kind: validation.String},
		{Name: "codigo_municipio", Kind: validation.Identifier, Aliases: []string{"municipio"}, MaxLen: 8},
		{Name: "email", Kind: validation.String},
	},
}

func MapTercero(v validation.Values) gormModels.Tercero {
	return gormModels.Tercero{
		NumeroIdentificacion: v.String("numero_identificacion"),
		TipoIdentificacion:   v.String("tipo_identificacion"),
		Nombre:               v.String("nombre"),
		Apellido:             v.String("apellido"),
		Telefono:             v.String("telefono"),
		Direccion:            v.String("direccion"),
		CodigoMunicipio:      v.String("codigo_municipio"),
		Email:                v.String("email"),
	}
}
