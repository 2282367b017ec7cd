// Package prompt assembles the instruction string sent to the model. The
// downstream parser performs strict JSON decoding with no repair, so the
// prompt is the main correctness lever: it pins the exact output schema,
// forbids commentary and invented values, and gives the model an explicit
// escape token for when it cannot comply.
package prompt

import (
	"strings"

	"github.com/fieldlift/fieldlift/internal/schema"
)

// OversizeThreshold is the advisory character limit for the document text.
// Beyond it the prompt likely exceeds the model's context budget and gets
// silently truncated server-side; callers log a warning but still send it.
const OversizeThreshold = 6000

// SystemMessage frames the model as a document data-extraction expert that
// answers in strict JSON only.
const SystemMessage = "Eres un experto en extracción de datos de documentos. " +
	"Analiza cuidadosamente la estructura y extrae solo la información solicitada en formato JSON válido."

// Oversized reports whether the document text exceeds the advisory limit.
func Oversized(documentText string) bool {
	return len(documentText) > OversizeThreshold
}

// Build produces the complete user message for the given variant: task
// statement, numbered rules, the exact response format, the document text,
// and the JSON-only closing directive with the escape token.
func Build(v schema.Variant, documentText string) string {
	var b strings.Builder
	if v == schema.RUT {
		buildRUT(&b)
	} else {
		buildGeneral(&b)
	}
	b.WriteString("\nFORMATO DE RESPUESTA (JSON):\n")
	b.WriteString(v.ResponseFormat())
	b.WriteString("\n\nTEXTO DEL DOCUMENTO:\n")
	b.WriteString(documentText)
	b.WriteString("\n\nResponde SOLO con el JSON válido, sin ningún texto antes o después. Si no puedes, responde exactamente: ")
	b.WriteString(schema.EscapeToken)
	b.WriteString("\n")
	return b.String()
}

func buildGeneral(b *strings.Builder) {
	b.WriteString(`Analiza el siguiente texto extraído de un documento PDF. El documento contiene rectángulos con información estructurada de la siguiente manera:
- Parte superior del rectángulo: nombre de la categoría
- Parte inferior del rectángulo: información relacionada con esa categoría

INSTRUCCIONES ESPECÍFICAS:
1. SOLO incluir rectángulos que tengan TANTO categoría COMO información
2. IGNORAR rectángulos que solo tengan el nombre de la categoría sin información
3. Para cada rectángulo válido, extraer: nombre de categoría + información completa
4. También extraer cualquier información importante que esté FUERA de los rectángulos
5. NUNCA inventar valores; si un dato no aparece en el texto, usar "" o [] según corresponda
6. Incluir SIEMPRE todas las claves del formato, aunque estén vacías
`)
}

func buildRUT(b *strings.Builder) {
	b.WriteString(`Analiza el siguiente texto extraído de la primera página de un formulario RUT (Registro Único Tributario) colombiano y extrae los campos del formulario.

INSTRUCCIONES ESPECÍFICAS:
1. Extraer ÚNICAMENTE los valores que aparecen literalmente en el texto
2. NUNCA inventar valores; si un campo no aparece, usar "" para textos y [] para listas
3. Incluir SIEMPRE todas las claves del formato, aunque estén vacías
4. Copiar los valores completos tal como aparecen, sin reformatear fechas ni números
`)
}
