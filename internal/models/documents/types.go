package documents

import (
	"fmt"
	"strings"

	"despachos/rndc-gateway/internal/validation"
)

// DocumentType names an RNDC document that can be submitted
type DocumentType string

const (
	TypeRemesa             DocumentType = "remesa"
	TypeManifiesto         DocumentType = "manifiesto"
	TypeCumplidoRemesa     DocumentType = "cumplimiento"
	TypeCumplidoManifiesto DocumentType = "cumplimiento-manifiesto"
)

// Record is a normalized document ready to be rendered.
type Record interface {
	DocumentType() DocumentType
	// Consecutivo is the operator's identifier for the document.
	Consecutivo() string
	// Placa is the vehicle plate when the document carries one.
	Placa() string
}

// Spec binds a document type to its row schema and mapper.
type Spec struct {
	Type   DocumentType
	Schema validation.Schema
	Map    func(validation.Values) Record
}

var specs = map[DocumentType]Spec{
	TypeRemesa: {
		Type:   TypeRemesa,
		Schema: RemesaSchema,
		Map:    func(v validation.Values) Record { return MapRemesa(v) },
	},
	TypeManifiesto: {
		Type:   TypeManifiesto,
		Schema: ManifiestoSchema,
		Map:    func(v validation.Values) Record { return MapManifiesto(v) },
	},
	TypeCumplidoRemesa: {
		Type:   TypeCumplidoRemesa,
		Schema: CumplidoRemesaSchema,
		Map:    func(v validation.Values) Record { return MapCumplidoRemesa(v) },
	},
	TypeCumplidoManifiesto: {
		Type:   TypeCumplidoManifiesto,
		Schema: CumplidoManifiestoSchema,
		Map:    func(v validation.Values) Record { return MapCumplidoManifiesto(v) },
	},
}

// Lookup returns the spec for a document type name as used in URLs.
func Lookup(name string) (Spec, error) {
	s, ok := specs[DocumentType(strings.ToLower(strings.TrimSpace(name)))]
	if !ok {
		return Spec{}, fmt.Errorf("unknown document type %q", name)
	}
	return s, nil
}

// Types lists the supported document types.
func Types() []DocumentType {
	return []DocumentType{TypeRemesa, TypeManifiesto, TypeCumplidoRemesa, TypeCumplidoManifiesto}
}
