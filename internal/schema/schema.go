// Package schema defines the extraction variants the pipeline can run.
// A variant bundles everything that differs between the general
// rectangle-extraction mode and the fixed RUT tax-form mode: the response
// contract shown to the model, the JSON Schema used to validate what comes
// back, the output token budget and how much of the document is read.
package schema

import (
	"fmt"
	"strings"
)

// EscapeToken is the literal the model is instructed to return when it
// cannot produce the requested JSON. Callers must special-case it before
// attempting to parse.
const EscapeToken = "ERROR_JSON"

// Variant selects which extraction contract is in force for a run.
type Variant string

const (
	// General extracts category/information rectangles plus loose
	// information from any boxed Spanish-language form.
	General Variant = "general"
	// RUT extracts the fixed field set of the Colombian tax-registration
	// form (Registro Único Tributario). Only the first page carries the
	// registration data, so this variant reads a single page.
	RUT Variant = "rut"
)

// Parse maps a user-supplied variant name to a Variant.
func Parse(s string) (Variant, error) {
	switch Variant(strings.ToLower(strings.TrimSpace(s))) {
	case General:
		return General, nil
	case RUT:
		return RUT, nil
	}
	return "", fmt.Errorf("unknown schema variant %q (want %q or %q)", s, General, RUT)
}

// MaxTokens is the output token budget requested from the model.
func (v Variant) MaxTokens() int {
	if v == RUT {
		return 2500
	}
	return 900
}

// FirstPageOnly reports whether the variant reads only the first page of
// the document.
func (v Variant) FirstPageOnly() bool {
	return v == RUT
}

// Filtered reports whether the heuristic quality filter applies to the
// variant's result. The fixed RUT shape is validated structurally instead.
func (v Variant) Filtered() bool {
	return v == General
}

// ResponseFormat is the exact response contract embedded verbatim in the
// prompt. Keys and nesting must match JSONSchema; the model is told to use
// empty-string/empty-list sentinels, never to drop keys.
func (v Variant) ResponseFormat() string {
	if v == RUT {
		return rutFormat
	}
	return generalFormat
}

const generalFormat = `{
    "rectangulos_con_informacion": [
        {
            "categoria": "nombre de la categoría",
            "informacion": "información completa de esa categoría"
        }
    ],
    "informacion_externa": [
        "información importante fuera de rectángulos"
    ],
    "datos_adicionales": {
        "nombres_mencionados": ["lista de nombres"],
        "direcciones": ["lista de direcciones"],
        "telefonos": ["lista de teléfonos"],
        "emails": ["lista de emails"],
        "fechas": ["lista de fechas"]
    }
}`

const rutFormat = `{
    "nit": "",
    "dv": "",
    "razon_social": "",
    "primer_apellido": "",
    "segundo_apellido": "",
    "primer_nombre": "",
    "otros_nombres": "",
    "direccion_principal": "",
    "municipio": "",
    "departamento": "",
    "correo_electronico": "",
    "telefono_1": "",
    "fecha_inscripcion": "",
    "actividad_economica_principal": "",
    "actividades_secundarias": [],
    "responsabilidades": []
}`

// JSONSchema returns the variant's validation schema as a generic map
// (draft 2020-12 subset). The same document shape the prompt promises is
// enforced on the way back in.
func (v Variant) JSONSchema() map[string]any {
	if v == RUT {
		return rutJSONSchema()
	}
	return generalJSONSchema()
}

func generalJSONSchema() map[string]any {
	stringList := map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"rectangulos_con_informacion", "informacion_externa", "datos_adicionales"},
		"properties": map[string]any{
			"rectangulos_con_informacion": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []string{"categoria", "informacion"},
					"properties": map[string]any{
						"categoria":   map[string]any{"type": "string"},
						"informacion": map[string]any{"type": "string"},
					},
				},
			},
			"informacion_externa": stringList,
			"datos_adicionales": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"nombres_mencionados": stringList,
					"direcciones":         stringList,
					"telefonos":           stringList,
					"emails":              stringList,
					"fechas":              stringList,
				},
			},
		},
	}
}

func rutJSONSchema() map[string]any {
	stringProp := map[string]any{"type": "string"}
	stringList := map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}
	fields := []string{
		"nit", "dv", "razon_social",
		"primer_apellido", "segundo_apellido", "primer_nombre", "otros_nombres",
		"direccion_principal", "municipio", "departamento",
		"correo_electronico", "telefono_1", "fecha_inscripcion",
		"actividad_economica_principal",
	}
	props := make(map[string]any, len(fields)+2)
	for _, f := range fields {
		props[f] = stringProp
	}
	props["actividades_secundarias"] = stringList
	props["responsabilidades"] = stringList

	required := make([]string, 0, len(props))
	for _, f := range fields {
		required = append(required, f)
	}
	required = append(required, "actividades_secundarias", "responsabilidades")

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             required,
		"properties":           props,
	}
}
