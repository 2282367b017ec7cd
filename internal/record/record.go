// Package record holds the decoded shapes of model output and the quality
// filter applied to the general extraction variant.
package record

import "encoding/json"

// Rectangle is one category/information pair the model lifted from a boxed
// region of the form.
type Rectangle struct {
	Categoria   string `json:"categoria"`
	Informacion string `json:"informacion"`
}

// Extras groups the loose data points the model is asked to collect from
// anywhere in the document.
type Extras struct {
	Nombres     []string `json:"nombres_mencionados"`
	Direcciones []string `json:"direcciones"`
	Telefonos   []string `json:"telefonos"`
	Emails      []string `json:"emails"`
	Fechas      []string `json:"fechas"`
}

// MarshalJSON preserves key presence: a list the model sent as [] stays []
// in the output, while a section it never sent stays absent. Plain
// omitempty collapses both cases to absent, so an all-empty response would
// not round-trip; plain tags turn absent sections into nulls, which the
// contract forbids.
func (e Extras) MarshalJSON() ([]byte, error) {
	type presence struct {
		Nombres     *[]string `json:"nombres_mencionados,omitempty"`
		Direcciones *[]string `json:"direcciones,omitempty"`
		Telefonos   *[]string `json:"telefonos,omitempty"`
		Emails      *[]string `json:"emails,omitempty"`
		Fechas      *[]string `json:"fechas,omitempty"`
	}
	var p presence
	if e.Nombres != nil {
		p.Nombres = &e.Nombres
	}
	if e.Direcciones != nil {
		p.Direcciones = &e.Direcciones
	}
	if e.Telefonos != nil {
		p.Telefonos = &e.Telefonos
	}
	if e.Emails != nil {
		p.Emails = &e.Emails
	}
	if e.Fechas != nil {
		p.Fechas = &e.Fechas
	}
	return json.Marshal(p)
}

// General is the result of the general extraction variant. The model is
// instructed to always emit all three keys, using empty sentinels when a
// section has nothing.
type General struct {
	Rectangulos []Rectangle `json:"rectangulos_con_informacion"`
	Externa     []string    `json:"informacion_externa"`
	Adicionales Extras      `json:"datos_adicionales"`
}

// RUT is the fixed field set of the Colombian tax-registration form.
// String fields default to "" and list fields to [] when the document does
// not carry them; keys are never omitted.
type RUT struct {
	NIT                    string   `json:"nit"`
	DV                     string   `json:"dv"`
	RazonSocial            string   `json:"razon_social"`
	PrimerApellido         string   `json:"primer_apellido"`
	SegundoApellido        string   `json:"segundo_apellido"`
	PrimerNombre           string   `json:"primer_nombre"`
	OtrosNombres           string   `json:"otros_nombres"`
	DireccionPrincipal     string   `json:"direccion_principal"`
	Municipio              string   `json:"municipio"`
	Departamento           string   `json:"departamento"`
	CorreoElectronico      string   `json:"correo_electronico"`
	Telefono1              string   `json:"telefono_1"`
	FechaInscripcion       string   `json:"fecha_inscripcion"`
	ActividadPrincipal     string   `json:"actividad_economica_principal"`
	ActividadesSecundarias []string `json:"actividades_secundarias"`
	Responsabilidades      []string `json:"responsabilidades"`
}
