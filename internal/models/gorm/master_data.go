package gorm

import "time"

type Municipio struct {
	Codigo       string    `gorm:"column:codigo;primaryKey;size:8" json:"codigo"`
	Nombre       string    `gorm:"column:nombre;not null" json:"nombre"`
	Departamento string    `gorm:"column:departamento;not null" json:"departamento"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

// TableName specifies the table name for GORM
func (Municipio) TableName() string {
	return "municipios"
}

type Vehiculo struct {
	Placa            string    `gorm:"column:placa;primaryKey;size:6" json:"placa"`
	Marca            string    `gorm:"column:marca" json:"marca"`
	Linea            string    `gorm:"column:linea" json:"linea"`
	Modelo           *int64    `gorm:"column:modelo" json:"modelo"`
	Color            string    `gorm:"column:color" json:"color"`
	CapacidadKg      *float64  `gorm:"column:capacidad_kg" json:"capacidad_kg"`
	TipoCarroceria   string    `gorm:"column:tipo_carroceria" json:"tipo_carroceria"`
	Configuracion    string    `gorm:"column:configuracion" json:"configuracion"`
	NumIDPropietario string    `gorm:"column:num_id_propietario;index" json:"num_id_propietario"`
	NumIDTenedor     string    `gorm:"column:num_id_tenedor" json:"num_id_tenedor"`
	VencimientoSOAT  string    `gorm:"column:vencimiento_soat" json:"vencimiento_soat"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

// TableName specifies the table name for GORM
func (Vehiculo) TableName() string {
	return "vehiculos"
}

// Sitio is a loading/unloading site (sede) of a third party.
type Sitio struct {
	Codigo          string    `gorm:"column:codigo;primaryKey" json:"codigo"`
	Nombre          string    `gorm:"column:nombre;not null" json:"nombre"`
	Direccion       string    `gorm:"column:direccion" json:"direccion"`
	CodigoMunicipio string    `gorm:"column:codigo_municipio;not null;index" json:"codigo_municipio"`
	NumIDTercero    string    `gorm:"column:num_id_tercero;index" json:"num_id_tercero"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

// TableName specifies the table name for GORM
func (Sitio) TableName() string {
	return "sitios"
}

// Tercero is any party on a document: remitente, destinatario, propietario,
// conductor.
type Tercero struct {
	NumeroIdentificacion string    `gorm:"column:numero_identificacion;primaryKey" json:"numero_identificacion"`
	TipoIdentificacion   string    `gorm:"column:tipo_identificacion;not null" json:"tipo_identificacion"`
	Nombre               string    `gorm:"column:nombre;not null" json:"nombre"`
	Apellido             string    `gorm:"column:apellido" json:"apellido"`
	Telefono             string    `gorm:"column:telefono" json:"telefono"`
	Direccion            string    `gorm:"column:direccion" json:"direccion"`
	CodigoMunicipio      string    `gorm:"column:codigo_municipio" json:"codigo_municipio"`
	Email                string    `gorm:"column:email" json:"email"`
	CreatedAt            time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt            time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

// TableName specifies the table name for GORM
func (Tercero) TableName() string {
	return "terceros"
}
